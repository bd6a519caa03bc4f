package bin

import (
	"bytes"
	"io"
	"math/big"
	"reflect"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

const (
	tagUint8      = byte(0x01)
	tagUint16     = byte(0x02)
	tagUint32     = byte(0x03)
	tagUint64     = byte(0x04)
	tagBytes      = byte(0x05)
	tagString     = byte(0x06)
	tagBool       = byte(0x07)
	tagHash256    = byte(0x08)
	tagSignature  = byte(0x09)
	tagAddress    = byte(0x0a)
	tagPublicKey  = byte(0x0b)
	tagAmount     = byte(0x0c)
	tagBigInt     = byte(0x0d)
	tagSlice      = byte(0x0e)
	tagAddressArr = byte(0x0f)
	tagAmountArr  = byte(0x10)
)

type TypeWriter struct {
	sum int64
}

func NewTypeWriter() *TypeWriter {
	return &TypeWriter{
		sum: 0,
	}
}

// TypeWriteAll serializes the values with their type tags
func TypeWriteAll(vs ...interface{}) []byte {
	tw := NewTypeWriter()
	w := bytes.NewBuffer([]byte{})
	tw.WriteAll(w, vs...)
	return w.Bytes()
}

func (tw *TypeWriter) WriteAll(w io.Writer, vs ...interface{}) (int64, error) {
	for _, v := range vs {
		if _, err := tw.writeThing(w, v); err != nil {
			return tw.sum, err
		}
	}
	return tw.sum, nil
}

func (tw *TypeWriter) writeThing(w io.Writer, v interface{}) (int64, error) {
	var err error
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int:
		err = tw.tagged(w, tagUint32, func() (int64, error) { return WriteUint32(w, uint32(v.(int))) })
	case reflect.Int16:
		err = tw.tagged(w, tagUint16, func() (int64, error) { return WriteUint16(w, uint16(v.(int16))) })
	case reflect.Int32:
		err = tw.tagged(w, tagUint32, func() (int64, error) { return WriteUint32(w, uint32(v.(int32))) })
	case reflect.Int64:
		err = tw.tagged(w, tagUint64, func() (int64, error) { return WriteUint64(w, uint64(v.(int64))) })
	case reflect.Uint:
		err = tw.tagged(w, tagUint32, func() (int64, error) { return WriteUint32(w, uint32(v.(uint))) })
	case reflect.Uint8:
		err = tw.tagged(w, tagUint8, func() (int64, error) { return WriteUint8(w, v.(uint8)) })
	case reflect.Uint16:
		err = tw.tagged(w, tagUint16, func() (int64, error) { return WriteUint16(w, v.(uint16)) })
	case reflect.Uint32:
		err = tw.tagged(w, tagUint32, func() (int64, error) { return WriteUint32(w, v.(uint32)) })
	case reflect.Uint64:
		err = tw.tagged(w, tagUint64, func() (int64, error) { return WriteUint64(w, v.(uint64)) })
	case reflect.String:
		err = tw.tagged(w, tagString, func() (int64, error) { return WriteString(w, v.(string)) })
	case reflect.Bool:
		err = tw.tagged(w, tagBool, func() (int64, error) { return WriteBool(w, v.(bool)) })
	case reflect.Slice:
		switch rv.Type() {
		case reflect.TypeOf([]byte{}):
			err = tw.tagged(w, tagBytes, func() (int64, error) { return WriteBytes(w, v.([]byte)) })
		case reflect.TypeOf([]common.Address{}):
			_, err = tw.addrs(w, v.([]common.Address))
		case reflect.TypeOf([]*amount.Amount{}):
			_, err = tw.amounts(w, v.([]*amount.Amount))
		default:
			_, err = tw.slice(w, v)
		}
	default:
		switch rv.Type() {
		case reflect.TypeOf(hash.Hash256{}):
			h := v.(hash.Hash256)
			err = tw.tagged(w, tagHash256, func() (int64, error) { return WriteBytes(w, h.Bytes()) })
		case reflect.TypeOf(common.Signature{}):
			sig := v.(common.Signature)
			err = tw.tagged(w, tagSignature, func() (int64, error) { return WriteBytes(w, sig[:]) })
		case reflect.TypeOf(common.Address{}):
			addr := v.(common.Address)
			err = tw.tagged(w, tagAddress, func() (int64, error) {
				n, err := w.Write(addr[:])
				return int64(n), errors.WithStack(err)
			})
		case reflect.TypeOf(common.PublicKey{}):
			pubkey := v.(common.PublicKey)
			err = tw.tagged(w, tagPublicKey, func() (int64, error) {
				n, err := w.Write(pubkey[:])
				return int64(n), errors.WithStack(err)
			})
		case reflect.TypeOf(&amount.Amount{}):
			var bs []byte
			if am := v.(*amount.Amount); am != nil {
				bs = am.Bytes()
			}
			err = tw.tagged(w, tagAmount, func() (int64, error) { return WriteBytes(w, bs) })
		case reflect.TypeOf(&big.Int{}):
			var bs []byte
			if bi := v.(*big.Int); bi != nil {
				bs = bi.Bytes()
			}
			err = tw.tagged(w, tagBigInt, func() (int64, error) { return WriteBytes(w, bs) })
		default:
			err = errors.Errorf("not supported type %v", rv.Type())
		}
	}
	if err != nil {
		return tw.sum, err
	}
	return tw.sum, nil
}

func (tw *TypeWriter) tagged(w io.Writer, tag byte, fn func() (int64, error)) error {
	if n, err := w.Write([]byte{tag}); err != nil {
		return errors.WithStack(err)
	} else {
		tw.sum += int64(n)
	}
	if n, err := fn(); err != nil {
		return err
	} else {
		tw.sum += n
	}
	return nil
}

func (tw *TypeWriter) slice(w io.Writer, v interface{}) (int64, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return tw.sum, errors.New("is not slice")
	}
	if rv.Len() > 255 {
		return tw.sum, errors.New("slice is too big")
	}
	if n, err := w.Write([]byte{tagSlice}); err != nil {
		return tw.sum, errors.WithStack(err)
	} else {
		tw.sum += int64(n)
	}
	if n, err := WriteUint8(w, uint8(rv.Len())); err != nil {
		return tw.sum, err
	} else {
		tw.sum += n
	}
	for i := 0; i < rv.Len(); i++ {
		if _, err := tw.writeThing(w, rv.Index(i).Interface()); err != nil {
			return tw.sum, err
		}
	}
	return tw.sum, nil
}

func (tw *TypeWriter) addrs(w io.Writer, vs []common.Address) (int64, error) {
	if n, err := w.Write([]byte{tagAddressArr}); err != nil {
		return tw.sum, errors.WithStack(err)
	} else {
		tw.sum += int64(n)
	}
	if n, err := WriteUint8(w, uint8(len(vs))); err != nil {
		return tw.sum, err
	} else {
		tw.sum += n
	}
	for _, v := range vs {
		if n, err := w.Write(v[:]); err != nil {
			return tw.sum, errors.WithStack(err)
		} else {
			tw.sum += int64(n)
		}
	}
	return tw.sum, nil
}

func (tw *TypeWriter) amounts(w io.Writer, vs []*amount.Amount) (int64, error) {
	if n, err := w.Write([]byte{tagAmountArr}); err != nil {
		return tw.sum, errors.WithStack(err)
	} else {
		tw.sum += int64(n)
	}
	if n, err := WriteUint8(w, uint8(len(vs))); err != nil {
		return tw.sum, err
	} else {
		tw.sum += n
	}
	for _, v := range vs {
		var bs []byte
		if v != nil {
			bs = v.Bytes()
		}
		if n, err := WriteBytes(w, bs); err != nil {
			return tw.sum, err
		} else {
			tw.sum += n
		}
	}
	return tw.sum, nil
}

func (tw *TypeWriter) Sum() int64 {
	return tw.sum
}
