package types

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
)

type IInteractor interface {
	Distroy()
	Exec(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)
	EventList() []*Event
	AddEvent(*Event)
}

type ExecFunc = func(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)

type interactor struct {
	ctx       *Context
	cont      Contract
	conMap    map[common.Address]Contract
	exit      bool
	index     uint16
	eventList []*Event
	saveEvent bool
}

var bigIntType = reflect.TypeOf(&big.Int{}).String()
var amountType = reflect.TypeOf(&amount.Amount{}).String()

func NewInteractor(ctx *Context, cont Contract, cc *ContractContext, TXID string, saveEvent bool) IInteractor {
	_, i, _ := ParseTransactionID(TXID)
	return &interactor{
		ctx:       ctx,
		cont:      cont,
		conMap:    map[common.Address]Contract{},
		index:     i,
		eventList: []*Event{},
		saveEvent: saveEvent,
	}
}

func (i *interactor) Distroy() {
	i.exit = true
}

func (i *interactor) Exec(Cc *ContractContext, ContAddr common.Address, MethodName string, Args []interface{}) (result []interface{}, err error) {
	if i.exit {
		return nil, errors.New("expired")
	}
	if MethodName == "" {
		return nil, errors.New("method not given")
	}
	cont, err := i.getContract(ContAddr)
	if err != nil {
		return nil, err
	}
	MethodName = strings.ToUpper(string(MethodName[0])) + MethodName[1:]
	ecc := i.currentContractContext(Cc, ContAddr)
	if i.saveEvent {
		en := i.addCallEvent(ecc, ContAddr, MethodName, Args)
		defer func() {
			_err := insertResultEvent(en, result, err)
			if _err != nil {
				err = _err
			}
		}()
	}
	result, err = execContract(ecc, cont, MethodName, Args)
	return
}

func execContract(ecc *ContractContext, cont Contract, MethodName string, Args []interface{}) (result []interface{}, err error) {
	rMethod, _err := methodByName(cont, cont.Address(), MethodName)
	if _err != nil {
		err = _err
		return
	}

	in, _err := ContractInputsConv(Args, rMethod)
	if _err != nil {
		err = _err
		return
	}
	in = append([]reflect.Value{reflect.ValueOf(ecc)}, in...)

	sn := ecc.ctx.Snapshot()

	vs, _err := func() (vs []reflect.Value, err error) {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("occur error call method(%v) of contract(%v) message: %v", MethodName, cont.Address().String(), v)
			}
		}()
		return rMethod.Call(in), nil
	}()
	if _err != nil {
		ecc.ctx.Revert(sn)
		err = _err
		return
	}

	result, err = getResults(rMethod.Type(), vs)
	if err != nil {
		ecc.ctx.Revert(sn)
		return
	}
	ecc.ctx.Commit(sn)
	return
}

func ContractInputsConv(Args []interface{}, rMethod reflect.Value) ([]reflect.Value, error) {
	if rMethod.Type().NumIn() < 1 {
		return nil, errors.New("not found")
	}
	if rMethod.Type().NumIn() != len(Args)+1 {
		return nil, errors.Errorf("invalid inputs count got %v want %v", len(Args), rMethod.Type().NumIn()-1)
	}
	in := make([]reflect.Value, len(Args))
	for i, v := range Args {
		param := reflect.ValueOf(v)
		mType := rMethod.Type().In(i + 1)

		if param.Type() != mType {
			switch pv := v.(type) {
			case *big.Int:
				switch mType.String() {
				case amountType:
					param = reflect.ValueOf(amount.NewAmountFromBytes(pv.Bytes()))
				case reflect.Uint8.String():
					param = reflect.ValueOf(uint8(pv.Uint64()))
				case reflect.Uint16.String():
					param = reflect.ValueOf(uint16(pv.Uint64()))
				case reflect.Uint32.String():
					param = reflect.ValueOf(uint32(pv.Uint64()))
				case reflect.Uint64.String():
					param = reflect.ValueOf(pv.Uint64())
				case "common.Address":
					param = reflect.ValueOf(common.BytesToAddress(pv.Bytes()))
				}
			case *amount.Amount:
				switch mType.String() {
				case bigIntType:
					param = reflect.ValueOf(big.NewInt(0).SetBytes(pv.Bytes()))
				}
			case []interface{}:
				switch mType.String() {
				case "[]common.Address":
					as := []common.Address{}
					for _, t := range pv {
						switch addr := t.(type) {
						case common.Address:
							as = append(as, addr)
						case string:
							as = append(as, common.HexToAddress(addr))
						case *big.Int:
							as = append(as, common.BytesToAddress(addr.Bytes()))
						default:
							return nil, errors.Errorf("invalid input addr type(%v) get %v want %v", i, param.Type(), mType)
						}
					}
					param = reflect.ValueOf(as)
				case "[]*amount.Amount":
					as := []*amount.Amount{}
					for _, t := range pv {
						am, ok := t.(*amount.Amount)
						if !ok {
							return nil, errors.Errorf("invalid input amount type(%v) get %v want %v", i, param.Type(), mType)
						}
						as = append(as, am)
					}
					param = reflect.ValueOf(as)
				}
			case uint8:
				if mType.String() == bigIntType {
					param = reflect.ValueOf(big.NewInt(0).SetInt64(int64(pv)))
				}
			case uint16:
				if mType.String() == bigIntType {
					param = reflect.ValueOf(big.NewInt(0).SetInt64(int64(pv)))
				}
			case uint32:
				if mType.String() == bigIntType {
					param = reflect.ValueOf(big.NewInt(0).SetInt64(int64(pv)))
				}
			case uint64:
				if mType.String() == bigIntType {
					param = reflect.ValueOf(big.NewInt(0).SetUint64(pv))
				}
			case string:
				switch mType.String() {
				case "bool":
					param = reflect.ValueOf(strings.EqualFold(pv, "true"))
				case "common.Hash", "hash.Hash256":
					param = reflect.ValueOf(hash.HexToHash(pv))
				case "common.Address":
					param = reflect.ValueOf(common.HexToAddress(pv))
				case amountType:
					am, err := amount.ParseAmount(pv)
					if err != nil {
						return nil, errors.Errorf("invalid input amount(%v) value %v", i, pv)
					}
					param = reflect.ValueOf(am)
				default:
					bi, ok := big.NewInt(0).SetString(pv, 10)
					if !ok {
						bi, ok = big.NewInt(0).SetString(strings.Replace(pv, "0x", "", -1), 16)
					}
					if ok {
						switch mType.String() {
						case bigIntType:
							param = reflect.ValueOf(bi)
						case reflect.Uint8.String():
							param = reflect.ValueOf(uint8(bi.Uint64()))
						case reflect.Uint16.String():
							param = reflect.ValueOf(uint16(bi.Uint64()))
						case reflect.Uint32.String():
							param = reflect.ValueOf(uint32(bi.Uint64()))
						case reflect.Uint64.String():
							param = reflect.ValueOf(bi.Uint64())
						}
					}
				}
			case []byte:
				switch mType.String() {
				case "common.Hash", "hash.Hash256":
					h := hash.Hash256{}
					copy(h[:], pv)
					param = reflect.ValueOf(h)
				case "common.Address":
					param = reflect.ValueOf(common.BytesToAddress(pv))
				case amountType:
					param = reflect.ValueOf(amount.NewAmountFromBytes(pv))
				case bigIntType:
					param = reflect.ValueOf(big.NewInt(0).SetBytes(pv))
				}
			}
		}
		if param.Type() != mType {
			return nil, errors.Errorf("invalid input type(%v) get %v want %v value %v", i, param.Type(), mType, v)
		}

		in[i] = param
	}
	return in, nil
}

func getResults(mType reflect.Type, vs []reflect.Value) ([]interface{}, error) {
	params := []interface{}{}
	for i, v := range vs {
		vi := v.Interface()
		if mType.Out(i).Implements(errType) {
			if vi != nil {
				if err, ok := vi.(error); ok {
					return nil, err
				}
			}
			continue
		}
		params = append(params, vi)
	}
	return params, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func methodByName(cont Contract, Addr common.Address, MethodName string) (reflect.Value, error) {
	front := cont.Front()
	vo := reflect.ValueOf(front)
	if !vo.IsValid() {
		return reflect.Value{}, errors.New("wrong contract")
	}
	if vo.IsNil() {
		return reflect.Value{}, errors.New("nil contract")
	}
	method := vo.MethodByName(MethodName)
	if !method.IsValid() {
		return reflect.Value{}, errors.New("method not exist: " + MethodName + " cont " + Addr.String())
	}
	return method, nil
}

func (i *interactor) getContract(Addr common.Address) (Contract, error) {
	if cont, has := i.conMap[Addr]; has {
		return cont, nil
	}
	cont, err := i.ctx.Contract(Addr)
	if err != nil {
		return nil, err
	}
	i.conMap[Addr] = cont
	return cont, nil
}

func (i *interactor) currentContractContext(Cc *ContractContext, Addr common.Address) *ContractContext {
	if i.cont != nil && i.cont.Address() == Addr && Cc.cont == Addr {
		return Cc
	}
	return &ContractContext{
		cont: Addr,
		from: Cc.cont,
		ctx:  Cc.ctx,
		Exec: i.Exec,
	}
}

func (i *interactor) addCallEvent(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) *Event {
	mc := MethodCallEvent{
		From:   Cc.From(),
		To:     Addr,
		Method: MethodName,
		Args:   Args,
	}
	bf := &bytes.Buffer{}
	if _, err := mc.WriteTo(bf); err != nil {
		panic(err)
	}
	rv := &Event{
		Index:  i.index,
		Type:   EventTagCallHistory,
		Result: bf.Bytes(),
	}
	i.eventList = append(i.eventList, rv)
	return rv
}

func insertResultEvent(en *Event, Results []interface{}, Err error) error {
	bf := bytes.NewBuffer(en.Result)

	mc := &MethodCallEvent{}
	if _, err := mc.ReadFrom(bf); err != nil {
		return err
	}

	if Err != nil {
		mc.Error = Err.Error()
	} else {
		mc.Result = Results
	}

	wbf := &bytes.Buffer{}
	if _, err := mc.WriteTo(wbf); err != nil {
		panic(err)
	}
	en.Result = wbf.Bytes()
	return nil
}

func (i *interactor) EventList() []*Event {
	return i.eventList
}

func (i *interactor) AddEvent(en *Event) {
	i.eventList = append(i.eventList, en)
}
