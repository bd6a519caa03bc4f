package bin

import (
	"bytes"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

type TypeReader struct {
	sum int64
}

// TypeReadAll deserializes type-tagged values and checks the minimum count
func TypeReadAll(bs []byte, count int) ([]interface{}, error) {
	if len(bs) == 0 {
		return []interface{}{}, nil
	}
	tr := &TypeReader{
		sum: 0,
	}
	data, _, err := tr.readAll(bytes.NewReader(bs))
	if count < 0 {
		return data, err
	}
	if len(data) < count {
		return nil, errors.Errorf("invalid output count less then, %v", count)
	}
	return data, err
}

func (tr *TypeReader) readAll(r io.Reader) ([]interface{}, int64, error) {
	var data []interface{}
	for {
		d, _, err := tr.read(r)
		if err != nil {
			if errors.Cause(err) == io.EOF {
				err = nil
			}
			return data, tr.sum, err
		}
		data = append(data, d)
	}
}

func (tr *TypeReader) read(r io.Reader) (interface{}, int64, error) {
	tag, n, err := tr.getByte(r)
	if err != nil {
		tr.sum += n
		return nil, tr.sum, err
	}
	switch tag {
	case tagUint8:
		v, n, err := ReadUint8(r)
		tr.sum += n
		return v, tr.sum, err
	case tagUint16:
		v, n, err := ReadUint16(r)
		tr.sum += n
		return v, tr.sum, err
	case tagUint32:
		v, n, err := ReadUint32(r)
		tr.sum += n
		return v, tr.sum, err
	case tagUint64:
		v, n, err := ReadUint64(r)
		tr.sum += n
		return v, tr.sum, err
	case tagBytes:
		v, n, err := ReadBytes(r)
		tr.sum += n
		return v, tr.sum, err
	case tagString:
		v, n, err := ReadString(r)
		tr.sum += n
		return v, tr.sum, err
	case tagBool:
		v, n, err := ReadBool(r)
		tr.sum += n
		return v, tr.sum, err
	case tagHash256:
		bs, n, err := ReadBytes(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		var h hash.Hash256
		h.SetBytes(bs)
		return h, tr.sum, nil
	case tagSignature:
		bs, n, err := ReadBytes(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		if len(bs) != common.SignatureSize {
			return nil, tr.sum, errors.WithStack(ErrInvalidLength)
		}
		var sig common.Signature
		copy(sig[:], bs)
		return sig, tr.sum, nil
	case tagAddress:
		var addr common.Address
		n, err := FillBytes(r, addr[:])
		tr.sum += n
		return addr, tr.sum, err
	case tagPublicKey:
		var pubkey common.PublicKey
		n, err := FillBytes(r, pubkey[:])
		tr.sum += n
		return pubkey, tr.sum, err
	case tagAmount:
		bs, n, err := ReadBytes(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		return amount.NewAmountFromBytes(bs), tr.sum, nil
	case tagBigInt:
		bs, n, err := ReadBytes(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		return big.NewInt(0).SetBytes(bs), tr.sum, nil
	case tagSlice:
		Len, n, err := ReadUint8(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		data := []interface{}{}
		for i := 0; i < int(Len); i++ {
			v, _, err := tr.read(r)
			if err != nil {
				return nil, tr.sum, err
			}
			data = append(data, v)
		}
		return data, tr.sum, nil
	case tagAddressArr:
		Len, n, err := ReadUint8(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		data := []common.Address{}
		for i := 0; i < int(Len); i++ {
			var addr common.Address
			n, err := FillBytes(r, addr[:])
			tr.sum += n
			if err != nil {
				return nil, tr.sum, err
			}
			data = append(data, addr)
		}
		return data, tr.sum, nil
	case tagAmountArr:
		Len, n, err := ReadUint8(r)
		tr.sum += n
		if err != nil {
			return nil, tr.sum, err
		}
		data := []*amount.Amount{}
		for i := 0; i < int(Len); i++ {
			bs, n, err := ReadBytes(r)
			tr.sum += n
			if err != nil {
				return nil, tr.sum, err
			}
			data = append(data, amount.NewAmountFromBytes(bs))
		}
		return data, tr.sum, nil
	}
	return nil, tr.sum, errors.New("not defined tag")
}

func (tr *TypeReader) getByte(r io.Reader) (byte, int64, error) {
	bs := make([]byte, 1)
	if n, err := r.Read(bs); err != nil {
		return 0, int64(n), errors.WithStack(err)
	}
	return bs[0], 1, nil
}
