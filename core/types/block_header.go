package types

import (
	"io"
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/hash"
)

// Header is validation informations
type Header struct {
	ChainID       *big.Int
	Version       uint16
	Height        uint32
	PrevHash      hash.Hash256
	LevelRootHash hash.Hash256
	ContextHash   hash.Hash256
	Timestamp     uint64
	Generator     common.Address
}

func (s *Header) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.BigInt(w, s.ChainID); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint16(w, s.Version); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.Height); err != nil {
		return sum, err
	}
	if sum, err := sw.Hash256(w, s.PrevHash); err != nil {
		return sum, err
	}
	if sum, err := sw.Hash256(w, s.LevelRootHash); err != nil {
		return sum, err
	}
	if sum, err := sw.Hash256(w, s.ContextHash); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.Timestamp); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Generator); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Header) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.BigInt(r, &s.ChainID); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint16(r, &s.Version); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.Height); err != nil {
		return sum, err
	}
	if sum, err := sr.Hash256(r, &s.PrevHash); err != nil {
		return sum, err
	}
	if sum, err := sr.Hash256(r, &s.LevelRootHash); err != nil {
		return sum, err
	}
	if sum, err := sr.Hash256(r, &s.ContextHash); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.Timestamp); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Generator); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
