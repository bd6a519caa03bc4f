package types

import (
	"io"
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/hash"
)

// Transaction is a method call request to a contract of the chain
type Transaction struct {
	ChainID   *big.Int
	Version   uint16
	Timestamp uint64
	Seq       uint64
	To        common.Address
	Method    string
	Args      []byte
	Value     *amount.Amount

	// filled after the signer recovery
	From common.Address
}

func (s *Transaction) withOutFrom() *Transaction {
	return &Transaction{
		ChainID:   big.NewInt(0).SetBytes(s.ChainID.Bytes()),
		Version:   s.Version,
		Timestamp: s.Timestamp,
		Seq:       s.Seq,
		To:        s.To,
		Method:    s.Method,
		Args:      s.Args,
		Value:     s.Value,
		From:      common.Address{},
	}
}

// Message returns the signing payload of the transaction
func (s *Transaction) Message() ([]byte, error) {
	bs, _, err := bin.WriterToBytes(s.withOutFrom())
	if err != nil {
		return nil, err
	}
	return bs, nil
}

// HashSig returns the hash of the signing payload
func (s *Transaction) HashSig() hash.Hash256 {
	bs, err := s.Message()
	if err != nil {
		panic(err)
	}
	return hash.Hash(bs)
}

func (s *Transaction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.BigInt(w, s.ChainID); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint16(w, s.Version); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.Timestamp); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.Seq); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.From); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.To); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Method); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, s.Args); err != nil {
		return sum, err
	}
	value := s.Value
	if value == nil {
		value = amount.ZeroAmount()
	}
	if sum, err := sw.Amount(w, value); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Transaction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.BigInt(r, &s.ChainID); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint16(r, &s.Version); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.Timestamp); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.Seq); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.From); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.To); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Method); err != nil {
		return sum, err
	}
	if sum, err := sr.Bytes(r, &s.Args); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.Value); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// TxArg decodes the typed arguments of the transaction
func TxArg(ctx *Context, tx *Transaction) (common.Address, string, []interface{}, error) {
	data, err := bin.TypeReadAll(tx.Args, -1)
	if err != nil {
		return common.Address{}, "", nil, err
	}
	return tx.To, tx.Method, data, nil
}
