package pool

import (
	"io"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/bin"
)

type PoolContractConstruction struct {
	Name   string
	Symbol string
	Token  common.Address
}

func (s *PoolContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.String(w, s.Name); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Token); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *PoolContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.String(r, &s.Name); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Token); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
