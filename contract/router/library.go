package router

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"

	. "github.com/streamdao/streamcore/contract/util"
)

const (
	feeNumerator   = 997
	feeDenominator = 1000
)

// fetches the pair reserves, STRM first
func poolReserves(cc *types.ContractContext, pool common.Address) (*big.Int, *big.Int, error) {
	is, err := cc.Exec(cc, pool, "Reserves", []interface{}{})
	if err != nil {
		return nil, nil, err
	}
	rs := is[0].([]*amount.Amount)
	return Clone(rs[0].Int), Clone(rs[1].Int), nil
}

// given an input amount and pair reserves, returns the maximum output
// amount of the other asset after the 0.3% fee
func getAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if !(amountIn.Cmp(Zero) > 0) {
		return nil, errors.New("INVALID_AMOUNT")
	}
	if !(reserveIn.Cmp(Zero) > 0) || !(reserveOut.Cmp(Zero) > 0) {
		return nil, errors.New("NO_LIQUIDITY")
	}
	amountInWithFee := MulC(amountIn, feeNumerator)
	numerator := Mul(amountInWithFee, reserveOut)
	denominator := Add(MulC(reserveIn, feeDenominator), amountInWithFee)
	return Div(numerator, denominator), nil
}
