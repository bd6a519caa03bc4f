package util

import (
	"io"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/contract/ico"
	"github.com/streamdao/streamcore/contract/pool"
	"github.com/streamdao/streamcore/contract/router"
	"github.com/streamdao/streamcore/contract/token"
)

// setupGenesis funds the test accounts with native coin and deploys the
// four contracts the way the production boot does: token first, then the
// sale minting through it, then the pair and its router.
func (tc *TestContext) setupGenesis() {
	tc.Ctx.AddCoin(Admin, amount.NewAmount(1000000, 0))
	tc.Ctx.AddCoin(Treasury, amount.NewAmount(100000, 0))
	for _, user := range Users {
		tc.Ctx.AddCoin(user, amount.NewAmount(100000, 0))
	}

	tc.Token = tc.deploy(ClassMap["Token"], &token.TokenContractConstruction{
		Name:     "Stream Token",
		Symbol:   "STRM",
		Treasury: Treasury,
		InitialSupplyMap: map[common.Address]*amount.Amount{
			Admin:    amount.NewAmount(150000, 0),
			Treasury: amount.NewAmount(350000, 0),
		},
	})

	tc.Ico = tc.deploy(ClassMap["Ico"], &ico.IcoContractConstruction{
		Token:     tc.Token,
		Treasury:  Treasury,
		Whitelist: Users[:5],
	})

	// the sale delivers purchased tokens by minting
	if _, err := Exec(tc.Ctx, Admin, tc.Token, "SetMinter", []interface{}{tc.Ico, true}); err != nil {
		panic(err)
	}

	tc.Pool = tc.deploy(ClassMap["Pool"], &pool.PoolContractConstruction{
		Name:   "StreamSwap LP Token",
		Symbol: "STRM-LP",
		Token:  tc.Token,
	})

	tc.Router = tc.deploy(ClassMap["Router"], &router.RouterContractConstruction{
		Token: tc.Token,
		Pool:  tc.Pool,
	})
}

func (tc *TestContext) deploy(classID uint64, contArgs io.WriterTo) common.Address {
	bs, _, err := bin.WriterToBytes(contArgs)
	if err != nil {
		panic(err)
	}
	cont, err := tc.Ctx.DeployContract(Admin, classID, bs)
	if err != nil {
		panic(err)
	}
	return cont.Address()
}
