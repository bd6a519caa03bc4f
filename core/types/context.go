package types

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

// Context is an intermediate in-memory state using the context data stack between blocks
type Context struct {
	loader          Loader
	genTargetHeight uint32
	genPrevHash     hash.Hash256
	genTimestamp    uint64
	cache           *contextCache
	stack           []*ContextData
	isLatestHash    bool
	dataHash        hash.Hash256
}

// NewContext returns a Context
func NewContext(loader Loader) *Context {
	ctx := &Context{
		loader:          loader,
		genTargetHeight: loader.TargetHeight(),
		genPrevHash:     loader.PrevHash(),
		genTimestamp:    loader.LastTimestamp(),
	}
	ctx.cache = newContextCache(ctx)
	ctx.stack = []*ContextData{NewContextData(ctx.cache, nil)}
	return ctx
}

// NewEmptyContext returns a Context based on the empty state
func NewEmptyContext() *Context {
	return NewContext(newEmptyLoader())
}

// ChainID returns the id of the chain
func (ctx *Context) ChainID() *big.Int {
	return ctx.loader.ChainID()
}

// Version returns the version of the chain
func (ctx *Context) Version() uint16 {
	return ctx.loader.Version()
}

// NextContext returns the next Context of the Context
func (ctx *Context) NextContext(NextHash hash.Hash256, Timestamp uint64) *Context {
	nctx := NewContext(ctx)
	nctx.genTargetHeight = ctx.genTargetHeight + 1
	nctx.genPrevHash = NextHash
	nctx.genTimestamp = Timestamp
	return nctx
}

// Hash returns the hash value of it
func (ctx *Context) Hash() hash.Hash256 {
	if !ctx.isLatestHash {
		ctx.dataHash = hash.Hashes(ctx.genPrevHash, ctx.Top().Hash())
		ctx.isLatestHash = true
	}
	return ctx.dataHash
}

// TargetHeight returns the recorded target height when context generation
func (ctx *Context) TargetHeight() uint32 {
	return ctx.genTargetHeight
}

// PrevHash returns the recorded prev hash when context generation
func (ctx *Context) PrevHash() hash.Hash256 {
	return ctx.genPrevHash
}

// LastTimestamp returns the last timestamp of the chain
func (ctx *Context) LastTimestamp() uint64 {
	return ctx.genTimestamp
}

// Top returns the top snapshot
func (ctx *Context) Top() *ContextData {
	return ctx.stack[len(ctx.stack)-1]
}

// AddrSeq returns the sequence of the target account
func (ctx *Context) AddrSeq(addr common.Address) uint64 {
	return ctx.Top().AddrSeq(addr)
}

// AddAddrSeq update the sequence of the target account
func (ctx *Context) AddAddrSeq(addr common.Address) {
	ctx.isLatestHash = false
	ctx.Top().AddAddrSeq(addr)
}

// IsContract returns is the contract
func (ctx *Context) IsContract(addr common.Address) bool {
	return ctx.Top().IsContract(addr)
}

// Contract returns the contract of the address
func (ctx *Context) Contract(addr common.Address) (Contract, error) {
	return ctx.Top().Contract(addr)
}

// DeployContract deploys the contract to the chain
func (ctx *Context) DeployContract(sender common.Address, ClassID uint64, Args []byte) (Contract, error) {
	ctx.isLatestHash = false
	return ctx.Top().DeployContract(sender, ClassID, Args)
}

// DeployContractWithAddress deploys the contract to the chain with the address
func (ctx *Context) DeployContractWithAddress(sender common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	ctx.isLatestHash = false
	return ctx.Top().DeployContractWithAddress(sender, ClassID, addr, Args)
}

// Data returns the data from the top snapshot
func (ctx *Context) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return ctx.Top().Data(cont, addr, name)
}

// SetData inserts the data to the top snapshot
func (ctx *Context) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	ctx.isLatestHash = false
	ctx.Top().SetData(cont, addr, name, value)
}

// Coin returns the native coin balance of the address
func (ctx *Context) Coin(addr common.Address) *amount.Amount {
	return ctx.Top().Coin(addr)
}

// AddCoin adds the native coin balance of the address
func (ctx *Context) AddCoin(addr common.Address, am *amount.Amount) {
	ctx.isLatestHash = false
	ctx.Top().AddCoin(addr, am)
}

// SubCoin subtracts the native coin balance of the address
func (ctx *Context) SubCoin(addr common.Address, am *amount.Amount) error {
	ctx.isLatestHash = false
	return ctx.Top().SubCoin(addr, am)
}

// EmitEvent creates the event to the top snapshot
func (ctx *Context) EmitEvent(en *Event) error {
	ctx.isLatestHash = false
	return ctx.Top().EmitEvent(en)
}

// ContractContext returns a ContractContext of the contract
func (ctx *Context) ContractContext(cont Contract, from common.Address) *ContractContext {
	cc := &ContractContext{
		cont: cont.Address(),
		from: from,
		ctx:  ctx,
	}
	return cc
}

// ContractContextWithValue returns a ContractContext of the contract carrying the native value
func (ctx *Context) ContractContextWithValue(cont Contract, from common.Address, value *amount.Amount) *ContractContext {
	cc := &ContractContext{
		cont:  cont.Address(),
		from:  from,
		value: value.Clone(),
		ctx:   ctx,
	}
	return cc
}

// Dump prints the top context data of the context
func (ctx *Context) Dump() string {
	return ctx.Top().Dump()
}

// Snapshot push a snapshot and returns the snapshot number of it
func (ctx *Context) Snapshot() int {
	ctx.isLatestHash = false
	ctd := NewContextData(ctx.cache, ctx.Top())
	ctx.stack[len(ctx.stack)-1].isTop = false
	ctx.stack = append(ctx.stack, ctd)
	return len(ctx.stack)
}

// Revert removes snapshots after the snapshot number
func (ctx *Context) Revert(sn int) {
	ctx.isLatestHash = false
	if len(ctx.stack) >= sn {
		ctx.stack = ctx.stack[:sn-1]
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// Commit apply snapshots to the top after the snapshot number
func (ctx *Context) Commit(sn int) {
	ctx.isLatestHash = false
	for len(ctx.stack) >= sn {
		ctd := ctx.Top()
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		top := ctx.Top()
		for addr, seq := range ctd.AddrSeqMap {
			top.AddrSeqMap[addr] = seq
		}
		for addr, cd := range ctd.ContractDefineMap {
			top.ContractDefineMap[addr] = cd
		}
		for key, value := range ctd.DataMap {
			delete(top.DeletedDataMap, key)
			top.DataMap[key] = value
		}
		for key := range ctd.DeletedDataMap {
			delete(top.DataMap, key)
			top.DeletedDataMap[key] = true
		}
		for addr, am := range ctd.CoinMap {
			top.CoinMap[addr] = am
		}
		top.Events = append(top.Events, ctd.Events...)
		top.EventN = ctd.EventN
		top.seq = ctd.seq
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// StackSize returns the size of the context data stack
func (ctx *Context) StackSize() int {
	return len(ctx.stack)
}
