package token

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"
)

// taxPercent is taken from every transfer while the treasury has taxation switched on.
const taxPercent = 2

type TokenContract struct {
	addr   common.Address
	master common.Address
}

func (cont *TokenContract) Address() common.Address {
	return cont.addr
}

func (cont *TokenContract) Master() common.Address {
	return cont.master
}

func (cont *TokenContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *TokenContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &TokenContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagTokenName}, []byte(data.Name))
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(data.Symbol))
	cc.SetContractData([]byte{tagTokenTreasury}, data.Treasury[:])
	for k, v := range data.InitialSupplyMap {
		if err := cont.addBalance(cc, k, v); err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *TokenContract) addBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Errorf("invalid transfer amount %v", am.String())
	}
	if cont.isPause(cc) {
		return errors.New("PAUSED")
	}
	bal := cont.BalanceOf(cc, addr)

	bal = bal.Add(am)

	cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())

	bs := cc.ContractData([]byte{tagTokenTotalSupply})
	total := amount.NewAmountFromBytes(bs).Add(am)
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())

	return nil
}

func (cont *TokenContract) subBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Errorf("invalid transfer amount %v", am.String())
	}
	if cont.isPause(cc) {
		return errors.New("PAUSED")
	}
	bal := cont.BalanceOf(cc, addr)
	if bal.Less(am) {
		return errors.New("INSUFFICIENT_BALANCE")
	}
	bal = bal.Sub(am)
	if bal.IsZero() {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, nil)
	} else {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	}

	bs := cc.ContractData([]byte{tagTokenTotalSupply})
	total := amount.NewAmountFromBytes(bs).Sub(am)
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())

	return nil
}

// _transfer moves Amount from -> to, routing the treasury tax when enabled.
// The sender is debited the full Amount; the recipient receives Amount less tax.
func (cont *TokenContract) _transfer(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	if From == common.ZeroAddr {
		return errors.New("Token: TRANSFER_FROM_ZEROADDRESS")
	}
	if To == common.ZeroAddr {
		return errors.New("Token: TRANSFER_TO_ZEROADDRESS")
	}
	if Amount.IsMinus() {
		return errors.New("minus amount")
	}

	fromBalance := cont.BalanceOf(cc, From)
	if fromBalance.Less(Amount) {
		return errors.New("INSUFFICIENT_BALANCE")
	}
	if Amount.IsZero() {
		return nil
	}
	if err := cont.subBalance(cc, From, Amount); err != nil {
		return err
	}

	transferred := Amount
	if cont.isTaxEnabled(cc) {
		tax := Amount.MulC(taxPercent).DivC(100)
		if tax.IsPlus() {
			if err := cont.addBalance(cc, cont.Treasury(cc), tax); err != nil {
				return err
			}
			transferred = Amount.Sub(tax)
		}
	}
	if transferred.IsPlus() {
		if err := cont.addBalance(cc, To, transferred); err != nil {
			return err
		}
	}
	return nil
}

func (cont *TokenContract) _approve(cc *types.ContractContext, owner common.Address, spender common.Address, Amount *amount.Amount) {
	cc.SetAccountData(owner, MakeAllowanceTokenKey(spender), Amount.Bytes())
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return cont._transfer(cc, cc.From(), To, Amount)
}

func (cont *TokenContract) Burn(cc *types.ContractContext, am *amount.Amount) error {
	if am.IsMinus() {
		return errors.New("minus amount")
	}
	return cont.subBalance(cc, cc.From(), am)
}

func (cont *TokenContract) Mint(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	isMinter := cont.IsMinter(cc, cc.From())
	if cc.From() != cont.Master() && !isMinter {
		return errors.New(cc.From().String() + ": not token minter")
	}
	if Amount.IsPlus() {
		return cont.addBalance(cc, To, Amount)
	}
	return nil
}

func (cont *TokenContract) SetMinter(cc *types.ContractContext, To common.Address, Is bool) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}

	isMinter := cont.IsMinter(cc, To)

	if Is {
		if isMinter {
			return errors.New("already token minter")
		}
		cc.SetAccountData(To, []byte{tagTokenMinter}, []byte{1})
	} else {
		if !isMinter {
			return errors.New("not token minter")
		}
		cc.SetAccountData(To, []byte{tagTokenMinter}, nil)
	}
	return nil
}

func (cont *TokenContract) Approve(cc *types.ContractContext, spender common.Address, Amount *amount.Amount) error {
	if cc.From() == common.ZeroAddr {
		return errors.New("Token: APPROVE_FROM_ZEROADDRESS")
	}
	if spender == common.ZeroAddr {
		return errors.New("Token: APPROVE_TO_ZEROADDRESS")
	}
	if Amount.IsMinus() {
		return errors.New("Token: APPROVE_NEGATIVE_AMOUNT")
	}

	cont._approve(cc, cc.From(), spender, Amount)
	return nil
}

func (cont *TokenContract) IncreaseAllowance(cc *types.ContractContext, spender common.Address, addAmount *amount.Amount) error {
	if !addAmount.IsPlus() {
		return errors.New("INVALID_AMOUNT")
	}
	allowance := cont.Allowance(cc, cc.From(), spender)
	cont._approve(cc, cc.From(), spender, allowance.Add(addAmount))
	return nil
}

func (cont *TokenContract) DecreaseAllowance(cc *types.ContractContext, spender common.Address, subAmount *amount.Amount) error {
	allowance := cont.Allowance(cc, cc.From(), spender)
	if allowance.Less(subAmount) {
		return errors.New("INSUFFICIENT_ALLOWANCE")
	}
	cont._approve(cc, cc.From(), spender, allowance.Sub(subAmount))
	return nil
}

func (cont *TokenContract) TransferFrom(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	if Amount.IsZero() {
		return nil
	}
	balance := cont.BalanceOf(cc, From)
	if balance.Less(Amount) {
		return errors.New("INSUFFICIENT_BALANCE")
	}

	allowedValue := cont.Allowance(cc, From, cc.From())
	if allowedValue.Less(Amount) {
		return errors.New("INSUFFICIENT_ALLOWANCE")
	}
	nAllow := allowedValue.Sub(Amount)
	cc.SetAccountData(From, MakeAllowanceTokenKey(cc.From()), nAllow.Bytes())

	return cont._transfer(cc, From, To, Amount)
}

func (cont *TokenContract) EnableTax(cc *types.ContractContext, enabled bool) error {
	if cc.From() != cont.Treasury(cc) {
		return errors.New("ONLY_TREASURY")
	}
	if enabled {
		cc.SetContractData([]byte{tagTaxEnabled}, []byte{1})
	} else {
		cc.SetContractData([]byte{tagTaxEnabled}, nil)
	}
	return nil
}

func (cont *TokenContract) SetName(cc *types.ContractContext, name string) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagTokenName}, []byte(name))
	return nil
}

func (cont *TokenContract) SetSymbol(cc *types.ContractContext, symbol string) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(symbol))
	return nil
}

func (cont *TokenContract) isPause(cc types.ContractLoader) bool {
	bs := cc.ContractData([]byte{tagPause})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

func (cont *TokenContract) Pause(cc *types.ContractContext) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagPause}, []byte{1})
	return nil
}

func (cont *TokenContract) Unpause(cc *types.ContractContext) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagPause}, nil)
	return nil
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Name(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenName}))
}

func (cont *TokenContract) Symbol(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenSymbol}))
}

func (cont *TokenContract) TotalSupply(cc types.ContractLoader) *amount.Amount {
	bs := cc.ContractData([]byte{tagTokenTotalSupply})
	return amount.NewAmountFromBytes(bs)
}

func (cont *TokenContract) Decimals(cc types.ContractLoader) *big.Int {
	return big.NewInt(amount.FractionalCount)
}

func (cont *TokenContract) BalanceOf(cc types.ContractLoader, from common.Address) *amount.Amount {
	bs := cc.AccountData(from, []byte{tagTokenAmount})
	return amount.NewAmountFromBytes(bs)
}

func (cont *TokenContract) IsMinter(cc types.ContractLoader, addr common.Address) bool {
	bs := cc.AccountData(addr, []byte{tagTokenMinter})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

func (cont *TokenContract) Treasury(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagTokenTreasury}))
	return addr
}

func (cont *TokenContract) isTaxEnabled(cc types.ContractLoader) bool {
	bs := cc.ContractData([]byte{tagTaxEnabled})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

func (cont *TokenContract) CurrentTaxPercent(cc types.ContractLoader) *big.Int {
	if cont.isTaxEnabled(cc) {
		return big.NewInt(taxPercent)
	}
	return big.NewInt(0)
}

func (cont *TokenContract) Allowance(cc types.ContractLoader, _owner common.Address, _spender common.Address) *amount.Amount {
	bs := cc.AccountData(_owner, MakeAllowanceTokenKey(_spender))
	return amount.NewAmountFromBytes(bs)
}
