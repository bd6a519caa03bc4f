package util

import (
	"sync"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/types"
)

// TestContext boots a single node chain whose genesis carries the token,
// ico, pool and router contracts wired together.
type TestContext struct {
	Ctx *types.Context
	Cn  *chain.Chain
	Idx int

	Token  common.Address
	Ico    common.Address
	Pool   common.Address
	Router common.Address

	genesis *types.ContextData
}

var idx int
var idxLock sync.Mutex

func NewTestContext() *TestContext {
	idxLock.Lock()
	tc := &TestContext{
		Idx: idx,
		Ctx: types.NewEmptyContext(),
	}
	idx++
	idxLock.Unlock()

	tc.setupGenesis()

	if err := tc.InitChain(); err != nil {
		panic(err)
	}
	tc.Ctx = tc.Cn.NewContext()
	return tc
}

/////////// context ///////////
func GetCC(ctx *types.Context, contAddr common.Address, user common.Address) (*types.ContractContext, error) {
	cont, err := ctx.Contract(contAddr)
	if err != nil {
		return nil, err
	}
	cc := ctx.ContractContext(cont, user)
	intr := types.NewInteractor(ctx, cont, cc, "000000000000", false)
	cc.Exec = intr.Exec

	return cc, nil
}

func Exec(ctx *types.Context, user common.Address, contAddr common.Address, methodName string, args []interface{}) ([]interface{}, error) {
	cc, err := GetCC(ctx, contAddr, user)
	if err != nil {
		return nil, err
	}
	is, err := cc.Exec(cc, contAddr, methodName, args)
	return is, err
}

// ExecWithValue executes a payable call, moving the native value from the
// caller to the contract the way the block executor does.
func ExecWithValue(ctx *types.Context, user common.Address, contAddr common.Address, methodName string, value *amount.Amount, args []interface{}) ([]interface{}, error) {
	cont, err := ctx.Contract(contAddr)
	if err != nil {
		return nil, err
	}
	sn := ctx.Snapshot()
	if !value.IsZero() {
		if err := ctx.SubCoin(user, value); err != nil {
			ctx.Revert(sn)
			return nil, err
		}
		ctx.AddCoin(contAddr, value)
	}
	cc := ctx.ContractContextWithValue(cont, user, value)
	intr := types.NewInteractor(ctx, cont, cc, "000000000000", false)
	cc.Exec = intr.Exec

	is, err := cc.Exec(cc, contAddr, methodName, args)
	intr.Distroy()
	if err != nil {
		ctx.Revert(sn)
		return nil, err
	}
	ctx.Commit(sn)
	return is, nil
}

// View runs a call against the current context without making a block.
func (tc *TestContext) View(contAddr common.Address, methodName string, args ...interface{}) ([]interface{}, error) {
	return Exec(tc.Ctx, Admin, contAddr, methodName, args)
}

func (tc *TestContext) MustView(contAddr common.Address, methodName string, args ...interface{}) []interface{} {
	is, err := tc.View(contAddr, methodName, args...)
	if err != nil {
		panic(err)
	}
	return is
}
