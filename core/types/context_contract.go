package types

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/hash"
)

// ContractContext is an execution context bound to a contract
type ContractContext struct {
	cont  common.Address
	from  common.Address
	value *amount.Amount
	ctx   *Context
	Exec  ExecFunc
}

// ChainID returns the id of the chain
func (cc *ContractContext) ChainID() *big.Int {
	return cc.ctx.ChainID()
}

// Version returns the version of the chain
func (cc *ContractContext) Version() uint16 {
	return cc.ctx.Version()
}

// Hash returns the hash value of it
func (cc *ContractContext) Hash() hash.Hash256 {
	return cc.ctx.Hash()
}

// TargetHeight returns the recorded target height when ContractContext generation
func (cc *ContractContext) TargetHeight() uint32 {
	return cc.ctx.TargetHeight()
}

// PrevHash returns the recorded prev hash when ContractContext generation
func (cc *ContractContext) PrevHash() hash.Hash256 {
	return cc.ctx.PrevHash()
}

// LastTimestamp returns the recorded prev timestamp when ContractContext generation
func (cc *ContractContext) LastTimestamp() uint64 {
	return cc.ctx.LastTimestamp()
}

// From returns current signer address
func (cc *ContractContext) From() common.Address {
	return cc.from
}

// Value returns the native coin amount sent with the call
func (cc *ContractContext) Value() *amount.Amount {
	if cc.value == nil {
		return amount.ZeroAmount()
	}
	return cc.value.Clone()
}

// ContractData returns the contract data from the top snapshot
func (cc *ContractContext) ContractData(name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, common.Address{}, name)
}

// SetContractData inserts the contract data to the top snapshot
func (cc *ContractContext) SetContractData(name []byte, value []byte) {
	cc.ctx.isLatestHash = false
	cc.ctx.Top().SetData(cc.cont, common.Address{}, name, value)
}

// AccountData returns the account data from the top snapshot
func (cc *ContractContext) AccountData(addr common.Address, name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, addr, name)
}

// SetAccountData inserts the account data to the top snapshot
func (cc *ContractContext) SetAccountData(addr common.Address, name []byte, value []byte) {
	cc.ctx.isLatestHash = false
	cc.ctx.Top().SetData(cc.cont, addr, name, value)
}

// DeployContractWithAddress deploys the contract to the chain with the address
func (cc *ContractContext) DeployContractWithAddress(owner common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	cc.ctx.isLatestHash = false
	return cc.ctx.Top().DeployContractWithAddress(owner, ClassID, addr, Args)
}

// AddrSeq returns the sequence of the target account
func (cc *ContractContext) AddrSeq(addr common.Address) uint64 {
	return cc.ctx.Top().AddrSeq(addr)
}

// AddAddrSeq update the sequence of the target account
func (cc *ContractContext) AddAddrSeq(addr common.Address) {
	cc.ctx.Top().AddAddrSeq(addr)
}

// NextSeq returns the next deploy sequence number
func (cc *ContractContext) NextSeq() uint32 {
	return cc.ctx.Top().NextSeq()
}

// IsContract returns is the contract
func (cc *ContractContext) IsContract(addr common.Address) bool {
	return cc.ctx.Top().IsContract(addr)
}

// NativeBalanceOf returns the native coin balance of the address
func (cc *ContractContext) NativeBalanceOf(addr common.Address) *amount.Amount {
	return cc.ctx.Top().Coin(addr)
}

// SendValue moves the native coin from the contract to the address
func (cc *ContractContext) SendValue(to common.Address, am *amount.Amount) error {
	if err := cc.ctx.SubCoin(cc.cont, am); err != nil {
		return err
	}
	cc.ctx.AddCoin(to, am)
	return nil
}

// EmitEvent records the named contract event to the top snapshot
func (cc *ContractContext) EmitEvent(name string, args ...interface{}) error {
	ev := &ContractEvent{
		From: cc.from,
		To:   cc.cont,
		Name: name,
		Args: args,
	}
	bs, _, err := bin.WriterToBytes(ev)
	if err != nil {
		return err
	}
	return cc.ctx.EmitEvent(&Event{
		Type:   EventTagContract,
		Result: bs,
	})
}
