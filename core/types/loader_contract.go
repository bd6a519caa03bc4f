package types

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

// ContractLoader defines functions that loads state data of the contract
type ContractLoader interface {
	ChainID() *big.Int
	Version() uint16
	TargetHeight() uint32
	PrevHash() hash.Hash256
	LastTimestamp() uint64
	From() common.Address
	IsContract(addr common.Address) bool
	ContractData(name []byte) []byte
	AccountData(addr common.Address, name []byte) []byte
	NativeBalanceOf(addr common.Address) *amount.Amount
}
