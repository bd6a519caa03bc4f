package bin

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common/hash"
)

// WriteUint64 writes the uint64 number to the writer
func WriteUint64(w io.Writer, num uint64) (int64, error) {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, num)
	if n, err := w.Write(bs); err != nil {
		return int64(n), errors.WithStack(err)
	} else if n != 8 {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return 8, nil
}

// WriteUint32 writes the uint32 number to the writer
func WriteUint32(w io.Writer, num uint32) (int64, error) {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, num)
	if n, err := w.Write(bs); err != nil {
		return int64(n), errors.WithStack(err)
	} else if n != 4 {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return 4, nil
}

// WriteUint16 writes the uint16 number to the writer
func WriteUint16(w io.Writer, num uint16) (int64, error) {
	bs := make([]byte, 2)
	binary.LittleEndian.PutUint16(bs, num)
	if n, err := w.Write(bs); err != nil {
		return int64(n), errors.WithStack(err)
	} else if n != 2 {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return 2, nil
}

// WriteUint8 writes the uint8 number to the writer
func WriteUint8(w io.Writer, num uint8) (int64, error) {
	if n, err := w.Write([]byte{byte(num)}); err != nil {
		return int64(n), errors.WithStack(err)
	} else if n != 1 {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return 1, nil
}

// WriteBytes writes the byte array with a var-length prefix to the writer
func WriteBytes(w io.Writer, bs []byte) (int64, error) {
	var wrote int64
	switch {
	case len(bs) < 254:
		if n, err := WriteUint8(w, uint8(len(bs))); err != nil {
			return wrote, err
		} else {
			wrote += n
		}
	case len(bs) < 65536:
		if n, err := WriteUint8(w, 254); err != nil {
			return wrote, err
		} else {
			wrote += n
		}
		if n, err := WriteUint16(w, uint16(len(bs))); err != nil {
			return wrote, err
		} else {
			wrote += n
		}
	default:
		if n, err := WriteUint8(w, 255); err != nil {
			return wrote, err
		} else {
			wrote += n
		}
		if n, err := WriteUint32(w, uint32(len(bs))); err != nil {
			return wrote, err
		} else {
			wrote += n
		}
	}
	if n, err := w.Write(bs); err != nil {
		return wrote, errors.WithStack(err)
	} else {
		wrote += int64(n)
	}
	return wrote, nil
}

// WriteString writes the string with a var-length prefix to the writer
func WriteString(w io.Writer, str string) (int64, error) {
	return WriteBytes(w, []byte(str))
}

// WriteBool writes the bool using a uint8 to the writer
func WriteBool(w io.Writer, b bool) (int64, error) {
	if b {
		return WriteUint8(w, 1)
	}
	return WriteUint8(w, 0)
}

// WriterToBytes returns the serialized bytes of the WriterTo
func WriterToBytes(w io.WriterTo) ([]byte, int64, error) {
	var buffer bytes.Buffer
	if n, err := w.WriteTo(&buffer); err != nil {
		return nil, n, errors.WithStack(err)
	} else {
		return buffer.Bytes(), n, nil
	}
}

// WriterToHash returns the hash of the serialized bytes of the WriterTo
func WriterToHash(w io.WriterTo) (hash.Hash256, int64, error) {
	bs, n, err := WriterToBytes(w)
	if err != nil {
		return hash.Hash256{}, n, err
	}
	return hash.Hash(bs), n, nil
}

// MustWriterToHash returns the hash of the serialized bytes or panics
func MustWriterToHash(w io.WriterTo) hash.Hash256 {
	bs, _, err := WriterToBytes(w)
	if err != nil {
		panic(err)
	}
	return hash.Hash(bs)
}
