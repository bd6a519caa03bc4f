package types

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

// Loader is the read interface of the stored chain state
type Loader interface {
	ChainID() *big.Int
	Version() uint16
	TargetHeight() uint32
	PrevHash() hash.Hash256
	LastTimestamp() uint64
	AddrSeq(addr common.Address) uint64
	IsContract(addr common.Address) bool
	Contract(addr common.Address) (Contract, error)
	Data(cont common.Address, addr common.Address, name []byte) []byte
	Coin(addr common.Address) *amount.Amount
}

type emptyLoader struct {
}

// newEmptyLoader is used for generating genesis state
func newEmptyLoader() Loader {
	return &emptyLoader{}
}

func (st *emptyLoader) ChainID() *big.Int {
	return big.NewInt(0)
}

func (st *emptyLoader) Version() uint16 {
	return 0
}

func (st *emptyLoader) TargetHeight() uint32 {
	return 0
}

func (st *emptyLoader) PrevHash() hash.Hash256 {
	return hash.Hash256{}
}

func (st *emptyLoader) LastTimestamp() uint64 {
	return 0
}

func (st *emptyLoader) AddrSeq(addr common.Address) uint64 {
	return 0
}

func (st *emptyLoader) IsContract(addr common.Address) bool {
	return false
}

func (st *emptyLoader) Contract(addr common.Address) (Contract, error) {
	return nil, ErrNotExistContract
}

func (st *emptyLoader) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return nil
}

func (st *emptyLoader) Coin(addr common.Address) *amount.Amount {
	return amount.ZeroAmount()
}
