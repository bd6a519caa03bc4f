package pool

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"
)

func (cont *PoolContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *PoolContract
}

func (f *front) Mint(cc *types.ContractContext, to common.Address) (*amount.Amount, error) {
	return f.cont.Mint(cc, to)
}

func (f *front) Burn(cc *types.ContractContext, to common.Address) (*amount.Amount, *amount.Amount, error) {
	return f.cont.Burn(cc, to)
}

func (f *front) Swap(cc *types.ContractContext, strmOut *amount.Amount, nativeOut *amount.Amount, to common.Address) error {
	return f.cont.Swap(cc, strmOut, nativeOut, to)
}

func (f *front) Sync(cc *types.ContractContext) error {
	return f.cont.Sync(cc)
}

func (f *front) Approve(cc *types.ContractContext, spender common.Address, Amount *amount.Amount) error {
	return f.cont.Approve(cc, spender, Amount)
}

func (f *front) IncreaseAllowance(cc *types.ContractContext, spender common.Address, addAmount *amount.Amount) error {
	return f.cont.IncreaseAllowance(cc, spender, addAmount)
}

func (f *front) DecreaseAllowance(cc *types.ContractContext, spender common.Address, subAmount *amount.Amount) error {
	return f.cont.DecreaseAllowance(cc, spender, subAmount)
}

func (f *front) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return f.cont.Transfer(cc, To, Amount)
}

func (f *front) TransferFrom(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	return f.cont.TransferFrom(cc, From, To, Amount)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (f *front) Name(cc types.ContractLoader) string {
	return f.cont.Name(cc)
}

func (f *front) Symbol(cc types.ContractLoader) string {
	return f.cont.Symbol(cc)
}

func (f *front) Decimals(cc types.ContractLoader) *big.Int {
	return f.cont.Decimals(cc)
}

func (f *front) TotalSupply(cc types.ContractLoader) *amount.Amount {
	return f.cont.TotalSupply(cc)
}

func (f *front) BalanceOf(cc types.ContractLoader, _owner common.Address) *amount.Amount {
	return f.cont.BalanceOf(cc, _owner)
}

func (f *front) Allowance(cc types.ContractLoader, _owner common.Address, _spender common.Address) *amount.Amount {
	return f.cont.Allowance(cc, _owner, _spender)
}

func (f *front) Token(cc types.ContractLoader) common.Address {
	return f.cont.Token(cc)
}

func (f *front) StrmReserve(cc types.ContractLoader) *amount.Amount {
	return f.cont.StrmReserve(cc)
}

func (f *front) NativeReserve(cc types.ContractLoader) *amount.Amount {
	return f.cont.NativeReserve(cc)
}

func (f *front) Reserves(cc types.ContractLoader) []*amount.Amount {
	return f.cont.Reserves(cc)
}
