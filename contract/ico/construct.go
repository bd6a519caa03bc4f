package ico

import (
	"io"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/bin"
)

type IcoContractConstruction struct {
	Token     common.Address
	Treasury  common.Address
	Whitelist []common.Address
}

func (s *IcoContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Token); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Treasury); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, uint32(len(s.Whitelist))); err != nil {
		return sum, err
	}
	for _, addr := range s.Whitelist {
		if sum, err := sw.Address(w, addr); err != nil {
			return sum, err
		}
	}
	return sw.Sum(), nil
}

func (s *IcoContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Token); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Treasury); err != nil {
		return sum, err
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		s.Whitelist = make([]common.Address, 0, Len)
		for i := uint32(0); i < Len; i++ {
			var addr common.Address
			if sum, err := sr.Address(r, &addr); err != nil {
				return sum, err
			}
			s.Whitelist = append(s.Whitelist, addr)
		}
	}
	return sr.Sum(), nil
}
