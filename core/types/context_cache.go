package types

import (
	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
)

type contextCache struct {
	ctx         *Context
	SeqMap      map[common.Address]uint64
	ContractMap map[common.Address]Contract
	DataMap     map[string][]byte
	CoinMap     map[common.Address]*amount.Amount
}

func newContextCache(ctx *Context) *contextCache {
	return &contextCache{
		ctx:         ctx,
		SeqMap:      map[common.Address]uint64{},
		ContractMap: map[common.Address]Contract{},
		DataMap:     map[string][]byte{},
		CoinMap:     map[common.Address]*amount.Amount{},
	}
}

// AddrSeq returns the sequence of the address
func (cc *contextCache) AddrSeq(addr common.Address) uint64 {
	if seq, has := cc.SeqMap[addr]; has {
		return seq
	}
	seq := cc.ctx.loader.AddrSeq(addr)
	cc.SeqMap[addr] = seq
	return seq
}

// IsContract returns is the contract
func (cc *contextCache) IsContract(addr common.Address) bool {
	if _, has := cc.ContractMap[addr]; has {
		return true
	}
	return cc.ctx.loader.IsContract(addr)
}

// Contract returns the contract of the address
func (cc *contextCache) Contract(addr common.Address) (Contract, error) {
	if cont, has := cc.ContractMap[addr]; has {
		return cont, nil
	}
	cont, err := cc.ctx.loader.Contract(addr)
	if err != nil {
		return nil, err
	}
	cc.ContractMap[addr] = cont
	return cont, nil
}

// Data returns the data
func (cc *contextCache) Data(cont common.Address, addr common.Address, name []byte) []byte {
	key := string(cont[:]) + string(addr[:]) + string(name)
	if value, has := cc.DataMap[key]; has {
		return value
	}
	value := cc.ctx.loader.Data(cont, addr, name)
	cc.DataMap[key] = value
	return value
}

// Coin returns the native coin balance of the address
func (cc *contextCache) Coin(addr common.Address) *amount.Amount {
	if am, has := cc.CoinMap[addr]; has {
		return am
	}
	am := cc.ctx.loader.Coin(addr)
	cc.CoinMap[addr] = am
	return am
}
