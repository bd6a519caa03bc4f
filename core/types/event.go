package types

import (
	"io"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/bin"
)

// EventType is the tag of the event payload
type EventType uint8

const (
	// EventTagCallHistory marks a method call record
	EventTagCallHistory EventType = 1
	// EventTagContract marks a contract emitted event
	EventTagContract EventType = 2
)

// Event is a record raised during the transaction execution
type Event struct {
	Index  uint16
	N      uint16
	Type   EventType
	Result []byte
}

func (s *Event) Clone() *Event {
	result := make([]byte, len(s.Result))
	copy(result, s.Result)
	return &Event{
		Index:  s.Index,
		N:      s.N,
		Type:   s.Type,
		Result: result,
	}
}

func (s *Event) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint16(w, s.Index); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint16(w, s.N); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, uint8(s.Type)); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, s.Result); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Event) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Uint16(r, &s.Index); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint16(r, &s.N); err != nil {
		return sum, err
	}
	var tp uint8
	if sum, err := sr.Uint8(r, &tp); err != nil {
		return sum, err
	}
	s.Type = EventType(tp)
	if sum, err := sr.Bytes(r, &s.Result); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// MethodCallEvent records a contract method call with its result
type MethodCallEvent struct {
	From   common.Address
	To     common.Address
	Method string
	Args   []interface{}
	Result []interface{}
	Error  string
}

func (s *MethodCallEvent) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.From); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.To); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Method); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, bin.TypeWriteAll(s.Args...)); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, bin.TypeWriteAll(s.Result...)); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Error); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *MethodCallEvent) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.From); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.To); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Method); err != nil {
		return sum, err
	}
	var args []byte
	if sum, err := sr.Bytes(r, &args); err != nil {
		return sum, err
	} else if s.Args, err = bin.TypeReadAll(args, -1); err != nil {
		return sum, err
	}
	var result []byte
	if sum, err := sr.Bytes(r, &result); err != nil {
		return sum, err
	} else if s.Result, err = bin.TypeReadAll(result, -1); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Error); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// ContractEvent records an event emitted by a contract
type ContractEvent struct {
	From common.Address
	To   common.Address
	Name string
	Args []interface{}
}

func (s *ContractEvent) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.From); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.To); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Name); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, bin.TypeWriteAll(s.Args...)); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *ContractEvent) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.From); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.To); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Name); err != nil {
		return sum, err
	}
	var args []byte
	if sum, err := sr.Bytes(r, &args); err != nil {
		return sum, err
	} else if s.Args, err = bin.TypeReadAll(args, -1); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
