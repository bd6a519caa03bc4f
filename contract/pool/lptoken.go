package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"

	. "github.com/streamdao/streamcore/contract/util"
)

// LPToken is the share ledger embedded in the pool contract.
type LPToken struct {
}

//////////////////////////////////////////////////
// LPToken : private reader function
//////////////////////////////////////////////////
func (self *LPToken) name(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenName}))
}
func (self *LPToken) symbol(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenSymbol}))
}
func (self *LPToken) decimals(cc types.ContractLoader) *big.Int {
	return big.NewInt(amount.FractionalCount)
}
func (self *LPToken) totalSupply(cc types.ContractLoader) *big.Int {
	bs := cc.ContractData([]byte{tagTokenTotalSupply})
	return big.NewInt(0).SetBytes(bs)
}
func (self *LPToken) balanceOf(cc types.ContractLoader, _owner common.Address) *big.Int {
	bs := cc.AccountData(_owner, []byte{tagTokenAmount})
	return big.NewInt(0).SetBytes(bs)
}
func (self *LPToken) allowance(cc types.ContractLoader, owner, spender common.Address) *big.Int {
	bs := cc.AccountData(owner, makeTokenKey(spender, tagTokenApprove))
	return big.NewInt(0).SetBytes(bs)
}

//////////////////////////////////////////////////
// LPToken : private writer function
//////////////////////////////////////////////////
func (self *LPToken) _setName(cc *types.ContractContext, name string) {
	cc.SetContractData([]byte{tagTokenName}, []byte(name))
}
func (self *LPToken) _setSymbol(cc *types.ContractContext, symbol string) {
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(symbol))
}
func (self *LPToken) _mint(cc *types.ContractContext, to common.Address, amount *big.Int) error {
	if amount.Cmp(Zero) < 0 {
		return errors.New("LPToken: MINT_NEGATIVE_AMOUNT")
	}
	balance := Add(self.balanceOf(cc, to), amount)
	total := Add(self.totalSupply(cc), amount)

	cc.SetAccountData(to, []byte{tagTokenAmount}, balance.Bytes())
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
	return nil
}
func (self *LPToken) _burn(cc *types.ContractContext, from common.Address, amount *big.Int) error {
	if amount.Cmp(Zero) < 0 {
		return errors.New("LPToken: BURN_NEGATIVE_AMOUNT")
	}
	balance := self.balanceOf(cc, from)
	if balance.Cmp(amount) < 0 {
		return errors.New("LPToken: BURN_EXCEED_BALANCE")
	}
	balance = Sub(balance, amount)
	total := Sub(self.totalSupply(cc), amount)

	cc.SetAccountData(from, []byte{tagTokenAmount}, balance.Bytes())
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
	return nil
}
func (self *LPToken) _approve(cc *types.ContractContext, owner, spender common.Address, amount *big.Int) error {
	if owner == ZeroAddress {
		return errors.New("LPToken: APPROVE_FROM_ZEROADDRESS")
	}
	if spender == ZeroAddress {
		return errors.New("LPToken: APPROVE_TO_ZEROADDRESS")
	}
	if amount.Cmp(Zero) < 0 {
		return errors.New("LPToken: APPROVE_NEGATIVE_AMOUNT")
	}
	cc.SetAccountData(owner, makeTokenKey(spender, tagTokenApprove), amount.Bytes())
	return nil
}
func (self *LPToken) _transfer(cc *types.ContractContext, from, to common.Address, amount *big.Int) error {
	if from == ZeroAddress {
		return errors.New("LPToken: TRANSFER_FROM_ZEROADDRESS")
	}
	if to == ZeroAddress {
		return errors.New("LPToken: TRANSFER_TO_ZEROADDRESS")
	}
	if amount.Cmp(Zero) < 0 {
		return errors.New("LPToken: TRANSFER_NEGATIVE_AMOUNT")
	}
	fromBalance := self.balanceOf(cc, from)
	if fromBalance.Cmp(amount) < 0 {
		return errors.New("INSUFFICIENT_BALANCE")
	}
	fromBalance = Sub(fromBalance, amount)
	cc.SetAccountData(from, []byte{tagTokenAmount}, fromBalance.Bytes())
	cc.SetAccountData(to, []byte{tagTokenAmount}, Add(self.balanceOf(cc, to), amount).Bytes())
	return nil
}

//////////////////////////////////////////////////
// LPToken : public writer function
//////////////////////////////////////////////////
func (self *LPToken) approve(cc *types.ContractContext, spender common.Address, amount *big.Int) error {
	return self._approve(cc, cc.From(), spender, amount)
}
func (self *LPToken) increaseAllowance(cc *types.ContractContext, spender common.Address, addAmount *big.Int) error {
	if addAmount.Cmp(Zero) < 0 {
		return errors.New("LPToken: INCREASEALLOWANCE_NEGATIVE_AMOUNT")
	}
	allowance := Add(self.allowance(cc, cc.From(), spender), addAmount)
	return self._approve(cc, cc.From(), spender, allowance)
}
func (self *LPToken) decreaseAllowance(cc *types.ContractContext, spender common.Address, subtractAmount *big.Int) error {
	if subtractAmount.Cmp(Zero) < 0 {
		return errors.New("LPToken: DECREASEALLOWANCE_NEGATIVE_AMOUNT")
	}
	allowance := self.allowance(cc, cc.From(), spender)
	if allowance.Cmp(subtractAmount) < 0 {
		return errors.New("INSUFFICIENT_ALLOWANCE")
	}
	return self._approve(cc, cc.From(), spender, Sub(allowance, subtractAmount))
}
func (self *LPToken) transfer(cc *types.ContractContext, to common.Address, amount *big.Int) error {
	return self._transfer(cc, cc.From(), to, amount)
}
func (self *LPToken) transferFrom(cc *types.ContractContext, from, to common.Address, amount *big.Int) error {
	spender := cc.From()
	currentAllowance := self.allowance(cc, from, spender)
	if amount.Cmp(currentAllowance) > 0 {
		return errors.New("INSUFFICIENT_ALLOWANCE")
	}
	if currentAllowance.Cmp(MaxUint256.Int) != 0 {
		self._approve(cc, from, spender, Sub(currentAllowance, amount))
	}
	return self._transfer(cc, from, to, amount)
}
