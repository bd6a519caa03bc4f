package router

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"

	. "github.com/streamdao/streamcore/contract/util"
)

var (
	tagRouterToken = byte(0x01)
	tagRouterPool  = byte(0x02)
)

// RouterContract is the user facing surface over the STRM/native pool.
// It moves funds into the pair and forwards the low level Mint, Burn and
// Swap calls.
type RouterContract struct {
	addr   common.Address
	master common.Address
}

func (cont *RouterContract) Address() common.Address {
	return cont.addr
}

func (cont *RouterContract) Master() common.Address {
	return cont.master
}

func (cont *RouterContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *RouterContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &RouterContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagRouterToken}, data.Token[:])
	cc.SetContractData([]byte{tagRouterPool}, data.Pool[:])
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *RouterContract) tokenAddress(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagRouterToken}))
	return addr
}

func (cont *RouterContract) poolAddress(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagRouterPool}))
	return addr
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// AddLiquidity deposits the given STRM amount and the attached native value
// into the pool and mints LP shares to the given address.
func (cont *RouterContract) AddLiquidity(cc *types.ContractContext, strmAmount *amount.Amount, to common.Address) (*amount.Amount, error) {
	value := cc.Value()
	if !strmAmount.IsPlus() || !value.IsPlus() {
		return nil, errors.New("INVALID_AMOUNT")
	}

	token, pool := cont.tokenAddress(cc), cont.poolAddress(cc)
	if err := SafeTransferFrom(cc, token, cc.From(), pool, strmAmount.Int); err != nil {
		return nil, err
	}
	if err := cc.SendValue(pool, value); err != nil {
		return nil, err
	}

	is, err := cc.Exec(cc, pool, "Mint", []interface{}{to})
	if err != nil {
		return nil, err
	}
	return is[0].(*amount.Amount), nil
}

// RemoveLiquidity pulls the caller's LP shares into the pool, burns them
// and pays out both legs. The mins guard against pricing drift.
func (cont *RouterContract) RemoveLiquidity(cc *types.ContractContext, liquidity, minStrm, minNative *amount.Amount, to common.Address) (*amount.Amount, *amount.Amount, error) {
	if !liquidity.IsPlus() {
		return nil, nil, errors.New("INVALID_AMOUNT")
	}

	pool := cont.poolAddress(cc)
	if _, err := cc.Exec(cc, pool, "TransferFrom", []interface{}{cc.From(), pool, liquidity}); err != nil {
		return nil, nil, err
	}

	is, err := cc.Exec(cc, pool, "Burn", []interface{}{to})
	if err != nil {
		return nil, nil, err
	}
	amountStrm := is[0].(*amount.Amount)
	amountNative := is[1].(*amount.Amount)
	if amountStrm.Less(minStrm) || amountNative.Less(minNative) {
		return nil, nil, errors.New("UNMET_MIN_RETURN")
	}
	return amountStrm, amountNative, nil
}

// SwapStrmForNative sells STRM for the native coin. The output is quoted
// on the amount the pool actually received, so transfer taxes are borne
// by the trader.
func (cont *RouterContract) SwapStrmForNative(cc *types.ContractContext, amountIn, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	if !amountIn.IsPlus() {
		return nil, errors.New("INVALID_AMOUNT")
	}

	token, pool := cont.tokenAddress(cc), cont.poolAddress(cc)
	reserveStrm, reserveNative, err := poolReserves(cc, pool)
	if err != nil {
		return nil, err
	}
	if err := SafeTransferFrom(cc, token, cc.From(), pool, amountIn.Int); err != nil {
		return nil, err
	}
	poolBalance, err := TokenBalanceOf(cc, token, pool)
	if err != nil {
		return nil, err
	}
	actualIn := Sub(poolBalance, reserveStrm)

	out, err := getAmountOut(actualIn, reserveStrm, reserveNative)
	if err != nil {
		return nil, err
	}
	if ToAmount(out).Less(minOut) {
		return nil, errors.New("UNMET_MIN_RETURN")
	}
	if _, err := cc.Exec(cc, pool, "Swap", []interface{}{ZeroAmount, ToAmount(out), to}); err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

// SwapNativeForStrm sells the attached native value for STRM.
func (cont *RouterContract) SwapNativeForStrm(cc *types.ContractContext, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	value := cc.Value()
	if !value.IsPlus() {
		return nil, errors.New("INVALID_AMOUNT")
	}

	pool := cont.poolAddress(cc)
	reserveStrm, reserveNative, err := poolReserves(cc, pool)
	if err != nil {
		return nil, err
	}
	out, err := getAmountOut(value.Int, reserveNative, reserveStrm)
	if err != nil {
		return nil, err
	}
	if ToAmount(out).Less(minOut) {
		return nil, errors.New("UNMET_MIN_RETURN")
	}
	if err := cc.SendValue(pool, value); err != nil {
		return nil, err
	}
	if _, err := cc.Exec(cc, pool, "Swap", []interface{}{ToAmount(out), ZeroAmount, to}); err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

// QuoteStrmToNative quotes the native coin returned for a STRM input at
// the current reserves. The transfer tax is not part of the quote.
func (cont *RouterContract) QuoteStrmToNative(cc *types.ContractContext, amountIn *amount.Amount) (*amount.Amount, error) {
	reserveStrm, reserveNative, err := poolReserves(cc, cont.poolAddress(cc))
	if err != nil {
		return nil, err
	}
	out, err := getAmountOut(amountIn.Int, reserveStrm, reserveNative)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

// QuoteNativeToStrm quotes the STRM returned for a native coin input at
// the current reserves.
func (cont *RouterContract) QuoteNativeToStrm(cc *types.ContractContext, amountIn *amount.Amount) (*amount.Amount, error) {
	reserveStrm, reserveNative, err := poolReserves(cc, cont.poolAddress(cc))
	if err != nil {
		return nil, err
	}
	out, err := getAmountOut(amountIn.Int, reserveNative, reserveStrm)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *RouterContract) Token(cc types.ContractLoader) common.Address {
	return cont.tokenAddress(cc)
}

func (cont *RouterContract) Pool(cc types.ContractLoader) common.Address {
	return cont.poolAddress(cc)
}
