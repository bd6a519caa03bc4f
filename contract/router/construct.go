package router

import (
	"io"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/bin"
)

type RouterContractConstruction struct {
	Token common.Address
	Pool  common.Address
}

func (s *RouterContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Token); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Pool); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *RouterContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Token); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Pool); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
