package pool

import (
	"bytes"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"

	. "github.com/streamdao/streamcore/contract/util"
)

// PoolContract is a constant product pair between the STRM token and the
// chain's native coin. The pool's LP shares are tracked by the embedded
// LPToken ledger.
type PoolContract struct {
	sync.Mutex
	LPToken
	addr   common.Address
	master common.Address
}

func (cont *PoolContract) Address() common.Address {
	return cont.addr
}

func (cont *PoolContract) Master() common.Address {
	return cont.master
}

func (cont *PoolContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *PoolContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &PoolContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cont._setName(cc, data.Name)
	cont._setSymbol(cc, data.Symbol)
	cc.SetContractData([]byte{tagPoolToken}, data.Token[:])
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *PoolContract) token(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagPoolToken}))
	return addr
}

func (cont *PoolContract) strmReserve(cc types.ContractLoader) *big.Int {
	return big.NewInt(0).SetBytes(cc.ContractData([]byte{tagReserveStrm}))
}

func (cont *PoolContract) nativeReserve(cc types.ContractLoader) *big.Int {
	return big.NewInt(0).SetBytes(cc.ContractData([]byte{tagReserveNative}))
}

func (cont *PoolContract) balances(cc *types.ContractContext) (*big.Int, *big.Int, error) {
	strmBalance, err := TokenBalanceOf(cc, cont.token(cc), cont.addr)
	if err != nil {
		return nil, nil, err
	}
	nativeBalance := cc.NativeBalanceOf(cont.addr).Int
	return strmBalance, nativeBalance, nil
}

func (cont *PoolContract) _update(cc *types.ContractContext, balanceStrm, balanceNative *big.Int) error {
	cc.SetContractData([]byte{tagReserveStrm}, balanceStrm.Bytes())
	cc.SetContractData([]byte{tagReserveNative}, balanceNative.Bytes())
	return cc.EmitEvent("Reserves", ToAmount(Clone(balanceStrm)), ToAmount(Clone(balanceNative)))
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Mint credits liquidity for whatever was sent to the pool since the last
// reserve update. The first deposit locks minimumLiquidity shares forever.
func (cont *PoolContract) Mint(cc *types.ContractContext, to common.Address) (*amount.Amount, error) {
	cont.Lock()
	defer cont.Unlock()

	_reserveStrm, _reserveNative := cont.strmReserve(cc), cont.nativeReserve(cc)
	balanceStrm, balanceNative, err := cont.balances(cc)
	if err != nil {
		return nil, err
	}

	amountStrm := Sub(balanceStrm, _reserveStrm)
	if amountStrm.Cmp(Zero) < 0 {
		return nil, errors.New("INVALID_AMOUNT")
	}
	amountNative := Sub(balanceNative, _reserveNative)
	if amountNative.Cmp(Zero) < 0 {
		return nil, errors.New("INVALID_AMOUNT")
	}

	_totalSupply := cont.totalSupply(cc)
	var liquidity *big.Int
	if _totalSupply.Cmp(Zero) == 0 {
		liquidity = SubC(Sqrt(Mul(amountStrm, amountNative)), minimumLiquidity)
		if !(liquidity.Cmp(Zero) > 0) {
			return nil, errors.New("INSUFFICIENT_LIQUIDITY_MINTED")
		}
		if err := cont._mint(cc, ZeroAddress, big.NewInt(minimumLiquidity)); err != nil {
			return nil, err
		}
	} else {
		liquidity = Min(MulDiv(amountStrm, _totalSupply, _reserveStrm), MulDiv(amountNative, _totalSupply, _reserveNative))
	}
	if !(liquidity.Cmp(Zero) > 0) {
		return nil, errors.New("INSUFFICIENT_LIQUIDITY_MINTED")
	}
	if err := cont._mint(cc, to, liquidity); err != nil {
		return nil, err
	}

	if err := cont._update(cc, balanceStrm, balanceNative); err != nil {
		return nil, err
	}
	if err := cc.EmitEvent("LiquidityAdded", to, ToAmount(amountStrm), ToAmount(amountNative)); err != nil {
		return nil, err
	}
	return ToAmount(liquidity), nil
}

// Burn redeems every LP share held by the pool itself and pays both legs
// out to the given address.
func (cont *PoolContract) Burn(cc *types.ContractContext, to common.Address) (*amount.Amount, *amount.Amount, error) {
	cont.Lock()
	defer cont.Unlock()

	balanceStrm, balanceNative, err := cont.balances(cc)
	if err != nil {
		return nil, nil, err
	}
	liquidity := cont.balanceOf(cc, cont.addr)
	_totalSupply := cont.totalSupply(cc)
	if !(_totalSupply.Cmp(Zero) > 0) {
		return nil, nil, errors.New("INSUFFICIENT_LIQUIDITY_BURNED")
	}

	amountStrm := MulDiv(liquidity, balanceStrm, _totalSupply)
	amountNative := MulDiv(liquidity, balanceNative, _totalSupply)
	if !(amountStrm.Cmp(Zero) > 0) || !(amountNative.Cmp(Zero) > 0) {
		return nil, nil, errors.New("INSUFFICIENT_LIQUIDITY_BURNED")
	}
	if err := cont._burn(cc, cont.addr, liquidity); err != nil {
		return nil, nil, err
	}
	if err := SafeTransfer(cc, cont.token(cc), to, amountStrm); err != nil {
		return nil, nil, err
	}
	if err := cc.SendValue(to, ToAmount(Clone(amountNative))); err != nil {
		return nil, nil, err
	}

	balanceStrm, balanceNative, err = cont.balances(cc)
	if err != nil {
		return nil, nil, err
	}
	if err := cont._update(cc, balanceStrm, balanceNative); err != nil {
		return nil, nil, err
	}
	if err := cc.EmitEvent("LiquidityRemoved", to, ToAmount(amountStrm), ToAmount(amountNative)); err != nil {
		return nil, nil, err
	}
	return ToAmount(amountStrm), ToAmount(amountNative), nil
}

// Swap sends the requested outputs and verifies the 0.3% fee adjusted
// constant product against the reserves from before the trade.
func (cont *PoolContract) Swap(cc *types.ContractContext, strmOut *amount.Amount, nativeOut *amount.Amount, to common.Address) error {
	cont.Lock()
	defer cont.Unlock()

	amountStrmOut, amountNativeOut := strmOut.Int, nativeOut.Int
	if amountStrmOut.Cmp(Zero) < 0 || amountNativeOut.Cmp(Zero) < 0 {
		return errors.New("INVALID_AMOUNT")
	}
	if !(amountStrmOut.Cmp(Zero) > 0 || amountNativeOut.Cmp(Zero) > 0) {
		return errors.New("INVALID_AMOUNT")
	}
	_reserveStrm, _reserveNative := cont.strmReserve(cc), cont.nativeReserve(cc)
	if !(amountStrmOut.Cmp(_reserveStrm) < 0 && amountNativeOut.Cmp(_reserveNative) < 0) {
		return errors.New("NO_LIQUIDITY")
	}

	if amountStrmOut.Cmp(Zero) > 0 {
		if err := SafeTransfer(cc, cont.token(cc), to, amountStrmOut); err != nil {
			return err
		}
	}
	if amountNativeOut.Cmp(Zero) > 0 {
		if err := cc.SendValue(to, ToAmount(Clone(amountNativeOut))); err != nil {
			return err
		}
	}

	balanceStrm, balanceNative, err := cont.balances(cc)
	if err != nil {
		return err
	}

	var amountStrmIn, amountNativeIn *big.Int
	if balanceStrm.Cmp(Sub(_reserveStrm, amountStrmOut)) > 0 {
		amountStrmIn = Sub(balanceStrm, Sub(_reserveStrm, amountStrmOut))
	} else {
		amountStrmIn = big.NewInt(0)
	}
	if balanceNative.Cmp(Sub(_reserveNative, amountNativeOut)) > 0 {
		amountNativeIn = Sub(balanceNative, Sub(_reserveNative, amountNativeOut))
	} else {
		amountNativeIn = big.NewInt(0)
	}
	if !(amountStrmIn.Cmp(Zero) > 0 || amountNativeIn.Cmp(Zero) > 0) {
		return errors.New("INVALID_AMOUNT")
	}

	balanceStrmAdjusted := Sub(MulC(balanceStrm, 1000), MulC(amountStrmIn, 3))
	balanceNativeAdjusted := Sub(MulC(balanceNative, 1000), MulC(amountNativeIn, 3))
	if Mul(balanceStrmAdjusted, balanceNativeAdjusted).Cmp(Mul(Mul(_reserveStrm, _reserveNative), big.NewInt(1000*1000))) < 0 {
		return errors.New("INVALID_K")
	}

	if err := cc.EmitEvent("Swapped", to, ToAmount(Clone(amountStrmIn)), ToAmount(Clone(amountNativeIn)), strmOut, nativeOut); err != nil {
		return err
	}
	return cont._update(cc, balanceStrm, balanceNative)
}

// Sync forces the reserves to match the actual balances.
func (cont *PoolContract) Sync(cc *types.ContractContext) error {
	cont.Lock()
	defer cont.Unlock()

	balanceStrm, balanceNative, err := cont.balances(cc)
	if err != nil {
		return err
	}
	return cont._update(cc, balanceStrm, balanceNative)
}

func (cont *PoolContract) Approve(cc *types.ContractContext, spender common.Address, Amount *amount.Amount) error {
	return cont.approve(cc, spender, Amount.Int)
}

func (cont *PoolContract) IncreaseAllowance(cc *types.ContractContext, spender common.Address, addAmount *amount.Amount) error {
	return cont.increaseAllowance(cc, spender, addAmount.Int)
}

func (cont *PoolContract) DecreaseAllowance(cc *types.ContractContext, spender common.Address, subAmount *amount.Amount) error {
	return cont.decreaseAllowance(cc, spender, subAmount.Int)
}

func (cont *PoolContract) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return cont.transfer(cc, To, Amount.Int)
}

func (cont *PoolContract) TransferFrom(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	return cont.transferFrom(cc, From, To, Amount.Int)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *PoolContract) Name(cc types.ContractLoader) string {
	return cont.name(cc)
}

func (cont *PoolContract) Symbol(cc types.ContractLoader) string {
	return cont.symbol(cc)
}

func (cont *PoolContract) Decimals(cc types.ContractLoader) *big.Int {
	return cont.decimals(cc)
}

func (cont *PoolContract) TotalSupply(cc types.ContractLoader) *amount.Amount {
	return ToAmount(cont.totalSupply(cc))
}

func (cont *PoolContract) BalanceOf(cc types.ContractLoader, _owner common.Address) *amount.Amount {
	return ToAmount(cont.balanceOf(cc, _owner))
}

func (cont *PoolContract) Allowance(cc types.ContractLoader, _owner common.Address, _spender common.Address) *amount.Amount {
	return ToAmount(cont.allowance(cc, _owner, _spender))
}

func (cont *PoolContract) Token(cc types.ContractLoader) common.Address {
	return cont.token(cc)
}

func (cont *PoolContract) StrmReserve(cc types.ContractLoader) *amount.Amount {
	return ToAmount(cont.strmReserve(cc))
}

func (cont *PoolContract) NativeReserve(cc types.ContractLoader) *amount.Amount {
	return ToAmount(cont.nativeReserve(cc))
}

func (cont *PoolContract) Reserves(cc types.ContractLoader) []*amount.Amount {
	return []*amount.Amount{cont.StrmReserve(cc), cont.NativeReserve(cc)}
}
