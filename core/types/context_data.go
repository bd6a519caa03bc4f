package types

import (
	"bytes"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/hash"
)

// ContextData is a state data of the context
type ContextData struct {
	cache             *contextCache
	Parent            *ContextData
	AddrSeqMap        map[common.Address]uint64
	ContractDefineMap map[common.Address]*ContractDefine
	DataMap           map[string][]byte
	DeletedDataMap    map[string]bool
	CoinMap           map[common.Address]*amount.Amount
	Events            []*Event
	EventN            uint16
	isTop             bool
	seq               uint32
}

// NewContextData returns a ContextData
func NewContextData(cache *contextCache, Parent *ContextData) *ContextData {
	ctd := &ContextData{
		cache:             cache,
		Parent:            Parent,
		AddrSeqMap:        map[common.Address]uint64{},
		ContractDefineMap: map[common.Address]*ContractDefine{},
		DataMap:           map[string][]byte{},
		DeletedDataMap:    map[string]bool{},
		CoinMap:           map[common.Address]*amount.Amount{},
		isTop:             true,
	}
	if Parent != nil {
		ctd.EventN = Parent.EventN
		ctd.seq = Parent.seq
	}
	return ctd
}

// AddrSeq returns the number of txs sent from the address
func (ctd *ContextData) AddrSeq(addr common.Address) uint64 {
	if seq, has := ctd.AddrSeqMap[addr]; has {
		return seq
	}
	var seq uint64
	if ctd.Parent != nil {
		seq = ctd.Parent.AddrSeq(addr)
	} else {
		seq = ctd.cache.AddrSeq(addr)
	}
	if ctd.isTop {
		ctd.AddrSeqMap[addr] = seq
	}
	return seq
}

// AddAddrSeq update the sequence of the target address
func (ctd *ContextData) AddAddrSeq(addr common.Address) {
	ctd.AddrSeqMap[addr] = ctd.AddrSeq(addr) + 1
}

// IsContract returns is the contract
func (ctd *ContextData) IsContract(addr common.Address) bool {
	if _, has := ctd.ContractDefineMap[addr]; has {
		return true
	}
	if ctd.Parent != nil {
		return ctd.Parent.IsContract(addr)
	}
	return ctd.cache.IsContract(addr)
}

// Contract returns the contract
func (ctd *ContextData) Contract(addr common.Address) (Contract, error) {
	if cd, has := ctd.ContractDefineMap[addr]; has {
		return CreateContract(cd)
	}
	if ctd.Parent != nil {
		return ctd.Parent.Contract(addr)
	}
	return ctd.cache.Contract(addr)
}

// NextSeq returns the next deploy sequence number
func (ctd *ContextData) NextSeq() uint32 {
	ctd.seq++
	return ctd.seq
}

// DeployContract deploys the contract to the chain
func (ctd *ContextData) DeployContract(sender common.Address, ClassID uint64, Args []byte) (Contract, error) {
	if !IsValidClassID(ClassID) {
		return nil, errors.WithStack(ErrInvalidClassID)
	}

	base := make([]byte, 1+common.AddressLength+8+4)
	base[0] = 0xff
	copy(base[1:], sender[:])
	copy(base[1+common.AddressLength:], bin.Uint64Bytes(ClassID))
	copy(base[1+common.AddressLength+8:], bin.Uint32Bytes(ctd.NextSeq()))
	height := ctd.cache.ctx.TargetHeight()
	if height > 0 {
		base = append(base, bin.Uint32Bytes(height)...)
	}
	h := hash.Hash(base)
	addr := common.BytesToAddress(h[12:])
	return ctd.DeployContractWithAddress(sender, ClassID, addr, Args)
}

// DeployContractWithAddress deploys the contract to the chain with the address
func (ctd *ContextData) DeployContractWithAddress(sender common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	cd := &ContractDefine{
		Address: addr,
		Owner:   sender,
		ClassID: ClassID,
	}
	cont, err := CreateContract(cd)
	if err != nil {
		return nil, err
	}
	ctd.ContractDefineMap[addr] = cd
	if err := cont.OnCreate(ctd.cache.ctx.ContractContext(cont, sender), Args); err != nil {
		return nil, err
	}
	return cont, nil
}

// Data returns the data
func (ctd *ContextData) Data(cont common.Address, addr common.Address, name []byte) []byte {
	key := string(cont[:]) + string(addr[:]) + string(name)
	if _, has := ctd.DeletedDataMap[key]; has {
		return nil
	}
	if value, has := ctd.DataMap[key]; has {
		return value
	}
	var value []byte
	if ctd.Parent != nil {
		value = ctd.Parent.Data(cont, addr, name)
	} else {
		value = ctd.cache.Data(cont, addr, name)
	}
	if len(value) == 0 {
		return nil
	}
	if ctd.isTop {
		nvalue := make([]byte, len(value))
		copy(nvalue, value)
		return nvalue
	}
	return value
}

// SetData inserts the data
func (ctd *ContextData) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	key := string(cont[:]) + string(addr[:]) + string(name)
	if len(value) == 0 {
		delete(ctd.DataMap, key)
		ctd.DeletedDataMap[key] = true
	} else {
		delete(ctd.DeletedDataMap, key)
		ctd.DataMap[key] = value
	}
}

// Coin returns the native coin balance of the address
func (ctd *ContextData) Coin(addr common.Address) *amount.Amount {
	if am, has := ctd.CoinMap[addr]; has {
		return am.Clone()
	}
	var am *amount.Amount
	if ctd.Parent != nil {
		am = ctd.Parent.Coin(addr)
	} else {
		am = ctd.cache.Coin(addr)
	}
	if am == nil {
		am = amount.ZeroAmount()
	}
	if ctd.isTop {
		ctd.CoinMap[addr] = am.Clone()
	}
	return am.Clone()
}

// AddCoin adds the native coin balance of the address
func (ctd *ContextData) AddCoin(addr common.Address, am *amount.Amount) {
	ctd.CoinMap[addr] = ctd.Coin(addr).Add(am)
}

// SubCoin subtracts the native coin balance of the address
func (ctd *ContextData) SubCoin(addr common.Address, am *amount.Amount) error {
	bal := ctd.Coin(addr)
	if bal.Less(am) {
		return errors.WithStack(ErrInsufficientCoin)
	}
	ctd.CoinMap[addr] = bal.Sub(am)
	return nil
}

// EmitEvent appends the event to the top snapshot
func (ctd *ContextData) EmitEvent(en *Event) error {
	en.N = ctd.EventN
	ctd.EventN++
	ctd.Events = append(ctd.Events, en)
	return nil
}

// Hash returns the hash value of it
func (ctd *ContextData) Hash() hash.Hash256 {
	var buffer bytes.Buffer
	buffer.WriteString("ChainID")
	buffer.Write(ctd.cache.ctx.ChainID().Bytes())
	buffer.WriteString("ChainVersion")
	buffer.Write(bin.Uint16Bytes(ctd.cache.ctx.Version()))
	buffer.WriteString("Height")
	buffer.Write(bin.Uint32Bytes(ctd.cache.ctx.TargetHeight()))
	buffer.WriteString("PrevHash")
	PrevHash := ctd.cache.ctx.PrevHash()
	buffer.Write(PrevHash[:])
	buffer.WriteString("AddrSeqMap")
	EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		buffer.Write(key[:])
		buffer.Write(bin.Uint64Bytes(value))
		return nil
	})
	buffer.WriteString("ContractDefineMap")
	EachAllContractDefine(ctd.ContractDefineMap, func(key common.Address, value *ContractDefine) error {
		buffer.Write(key[:])
		if bs, _, err := bin.WriterToBytes(value); err != nil {
			return err
		} else {
			buffer.Write(bs)
		}
		return nil
	})
	buffer.WriteString("DataMap")
	EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		buffer.Write([]byte(key))
		buffer.Write(value)
		return nil
	})
	buffer.WriteString("DeletedDataMap")
	EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		buffer.WriteString(key)
		return nil
	})
	buffer.WriteString("CoinMap")
	EachAllAddressAmount(ctd.CoinMap, func(key common.Address, value *amount.Amount) error {
		buffer.Write(key[:])
		buffer.Write(value.Bytes())
		return nil
	})
	return hash.Hash(buffer.Bytes())
}

// Dump prints the context data
func (ctd *ContextData) Dump() string {
	var buffer bytes.Buffer
	buffer.WriteString("Height\n")
	buffer.WriteString(spew.Sdump(ctd.cache.ctx.TargetHeight()))
	buffer.WriteString("AddrSeqMap\n")
	buffer.WriteString(spew.Sdump(ctd.AddrSeqMap))
	buffer.WriteString("ContractDefineMap\n")
	buffer.WriteString(spew.Sdump(ctd.ContractDefineMap))
	buffer.WriteString("DataMap\n")
	buffer.WriteString(spew.Sdump(ctd.DataMap))
	buffer.WriteString("DeletedDataMap\n")
	buffer.WriteString(spew.Sdump(ctd.DeletedDataMap))
	buffer.WriteString("CoinMap\n")
	buffer.WriteString(spew.Sdump(ctd.CoinMap))
	return buffer.String()
}
