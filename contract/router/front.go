package router

import (
	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"
)

func (cont *RouterContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *RouterContract
}

func (f *front) AddLiquidity(cc *types.ContractContext, strmAmount *amount.Amount, to common.Address) (*amount.Amount, error) {
	return f.cont.AddLiquidity(cc, strmAmount, to)
}

func (f *front) RemoveLiquidity(cc *types.ContractContext, liquidity, minStrm, minNative *amount.Amount, to common.Address) (*amount.Amount, *amount.Amount, error) {
	return f.cont.RemoveLiquidity(cc, liquidity, minStrm, minNative, to)
}

func (f *front) SwapStrmForNative(cc *types.ContractContext, amountIn, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	return f.cont.SwapStrmForNative(cc, amountIn, minOut, to)
}

func (f *front) SwapNativeForStrm(cc *types.ContractContext, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	return f.cont.SwapNativeForStrm(cc, minOut, to)
}

func (f *front) QuoteStrmToNative(cc *types.ContractContext, amountIn *amount.Amount) (*amount.Amount, error) {
	return f.cont.QuoteStrmToNative(cc, amountIn)
}

func (f *front) QuoteNativeToStrm(cc *types.ContractContext, amountIn *amount.Amount) (*amount.Amount, error) {
	return f.cont.QuoteNativeToStrm(cc, amountIn)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (f *front) Token(cc types.ContractLoader) common.Address {
	return f.cont.Token(cc)
}

func (f *front) Pool(cc types.ContractLoader) common.Address {
	return f.cont.Pool(cc)
}
