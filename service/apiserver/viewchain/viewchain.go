package viewchain

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/types"
	"github.com/streamdao/streamcore/service/apiserver"
)

// INode accepts signed transactions for the next block
type INode interface {
	AddTx(tx *types.Transaction, sig common.Signature) error
}

// ContractSet carries the genesis contract addresses served by the api
type ContractSet struct {
	Token  common.Address
	Ico    common.Address
	Pool   common.Address
	Router common.Address
}

type viewchain struct {
	api   *apiserver.APIServer
	cn    *chain.Chain
	st    *chain.Store
	in    INode
	conts ContractSet
}

// NewViewchain registers the view.* readers and the send.tx submitter
func NewViewchain(api *apiserver.APIServer, cn *chain.Chain, in INode, conts ContractSet) {
	v := &viewchain{
		api:   api,
		cn:    cn,
		st:    cn.Store(),
		in:    in,
		conts: conts,
	}
	v.registerView()
	v.registerSend()
}

// call runs a read method of the contract on a fresh context
func (v *viewchain) call(to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	ctx := v.cn.NewContext()
	cont, err := ctx.Contract(to)
	if err != nil {
		return nil, err
	}
	cc := ctx.ContractContext(cont, common.Address{})
	intr := types.NewInteractor(ctx, cont, cc, "000000000000", false)
	cc.Exec = intr.Exec
	is, err := intr.Exec(cc, to, method, args)
	intr.Distroy()
	return is, err
}

func (v *viewchain) callOne(to common.Address, method string, args ...interface{}) (interface{}, error) {
	is, err := v.call(to, method, args...)
	if err != nil {
		return nil, err
	}
	if len(is) == 0 {
		return nil, nil
	}
	return formatResult(is[0]), nil
}

// formatResult renders an execution result as a json friendly value
func formatResult(v interface{}) interface{} {
	switch o := v.(type) {
	case *amount.Amount:
		return o.String()
	case []*amount.Amount:
		ls := make([]interface{}, 0, len(o))
		for _, a := range o {
			ls = append(ls, a.String())
		}
		return ls
	case *big.Int:
		return o.String()
	case common.Address:
		return o.String()
	case []common.Address:
		ls := make([]interface{}, 0, len(o))
		for _, a := range o {
			ls = append(ls, a.String())
		}
		return ls
	case bool, string, uint8, uint16, uint32, uint64:
		return o
	default:
		return fmt.Sprintf("%v", o)
	}
}

func (v *viewchain) registerView() {
	s, err := v.api.JRPC("view")
	if err != nil {
		panic(err)
	}

	s.Set("chainId", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		return v.st.ChainID().String(), nil
	})
	s.Set("height", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		return v.st.Height(), nil
	})
	s.Set("blockHash", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		height, err := arg.Uint32(0)
		if err != nil {
			return nil, err
		}
		h, err := v.st.Hash(height)
		if err != nil {
			return nil, err
		}
		return h.String(), nil
	})
	s.Set("seq", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		addr, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		return v.st.AddrSeq(addr), nil
	})
	s.Set("balance", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		addr, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		return v.st.Coin(addr).String(), nil
	})
	s.Set("contracts", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		return map[string]string{
			"token":  v.conts.Token.String(),
			"ico":    v.conts.Ico.String(),
			"pool":   v.conts.Pool.String(),
			"router": v.conts.Router.String(),
		}, nil
	})

	v.registerTokenView(s)
	v.registerIcoView(s)
	v.registerPoolView(s)
	v.registerRouterView(s)
}

func (v *viewchain) registerTokenView(s *apiserver.JRPCSub) {
	s.Set("tokenName", v.reader(v.conts.Token, "Name"))
	s.Set("tokenSymbol", v.reader(v.conts.Token, "Symbol"))
	s.Set("tokenTotalSupply", v.reader(v.conts.Token, "TotalSupply"))
	s.Set("tokenTreasury", v.reader(v.conts.Token, "Treasury"))
	s.Set("tokenTaxPercent", v.reader(v.conts.Token, "CurrentTaxPercent"))
	s.Set("tokenBalanceOf", v.addressReader(v.conts.Token, "BalanceOf"))
	s.Set("tokenIsMinter", v.addressReader(v.conts.Token, "IsMinter"))
	s.Set("tokenAllowance", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		owner, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		spender, err := arg.Address(1)
		if err != nil {
			return nil, err
		}
		return v.callOne(v.conts.Token, "Allowance", owner, spender)
	})
}

func (v *viewchain) registerIcoView(s *apiserver.JRPCSub) {
	s.Set("icoPhase", v.reader(v.conts.Ico, "Phase"))
	s.Set("icoPaused", v.reader(v.conts.Ico, "IsPaused"))
	s.Set("icoTotalContributions", v.reader(v.conts.Ico, "TotalContributions"))
	s.Set("icoAvailableFunds", v.reader(v.conts.Ico, "AvailableFunds"))
	s.Set("icoWhitelisted", v.addressReader(v.conts.Ico, "IsWhitelisted"))
	s.Set("icoContributionOf", v.addressReader(v.conts.Ico, "ContributionOf"))
	s.Set("icoPurchasedOf", v.addressReader(v.conts.Ico, "TokensPurchased"))
	s.Set("icoClaimedOf", v.addressReader(v.conts.Ico, "TokensClaimed"))
}

func (v *viewchain) registerPoolView(s *apiserver.JRPCSub) {
	s.Set("poolReserves", v.reader(v.conts.Pool, "Reserves"))
	s.Set("poolTotalSupply", v.reader(v.conts.Pool, "TotalSupply"))
	s.Set("poolBalanceOf", v.addressReader(v.conts.Pool, "BalanceOf"))
}

func (v *viewchain) registerRouterView(s *apiserver.JRPCSub) {
	s.Set("quoteStrmToNative", v.amountReader(v.conts.Router, "QuoteStrmToNative"))
	s.Set("quoteNativeToStrm", v.amountReader(v.conts.Router, "QuoteNativeToStrm"))
}

func (v *viewchain) reader(to common.Address, method string) apiserver.Handler {
	return func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		return v.callOne(to, method)
	}
}

func (v *viewchain) addressReader(to common.Address, method string) apiserver.Handler {
	return func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		addr, err := arg.Address(0)
		if err != nil {
			return nil, err
		}
		return v.callOne(to, method, addr)
	}
}

func (v *viewchain) amountReader(to common.Address, method string) apiserver.Handler {
	return func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		am, err := arg.Amount(0)
		if err != nil {
			return nil, err
		}
		return v.callOne(to, method, am)
	}
}

func (v *viewchain) registerSend() {
	s, err := v.api.JRPC("send")
	if err != nil {
		panic(err)
	}

	s.Set("tx", func(ID interface{}, arg *apiserver.Argument) (interface{}, error) {
		txHex, err := arg.String(0)
		if err != nil {
			return nil, err
		}
		sigHex, err := arg.String(1)
		if err != nil {
			return nil, err
		}
		txBytes, err := hex.DecodeString(strings.TrimPrefix(txHex, "0x"))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		sigBytes, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if len(sigBytes) != common.SignatureSize {
			return nil, errors.New("invalid signature length")
		}

		tx := &types.Transaction{}
		if _, err := tx.ReadFrom(bytes.NewReader(txBytes)); err != nil {
			return nil, err
		}
		var sig common.Signature
		copy(sig[:], sigBytes)

		if err := v.in.AddTx(tx, sig); err != nil {
			return nil, err
		}
		return tx.HashSig().String(), nil
	})
}
