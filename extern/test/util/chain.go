package util

import (
	"os"
	"strconv"
	"time"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/key"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/types"
)

func RemoveChain(idx int) (string, error) {
	dir := "tdata/_data" + strconv.Itoa(idx)
	err := os.RemoveAll(dir)
	if err != nil {
		return "", err
	}
	return dir, nil
}

func (tc *TestContext) InitChain() error {
	if _, err := RemoveChain(tc.Idx); err != nil {
		return err
	}
	tc.genesis = tc.Ctx.Top()
	return tc.OpenChain()
}

// OpenChain opens the store of this context without wiping it, rebinding
// the chain over whatever height the store already carries.
func (tc *TestContext) OpenChain() error {
	dir := "tdata/_data" + strconv.Itoa(tc.Idx)
	st, err := chain.NewStore("keydb", dir+"/context", ChainID, Version)
	if err != nil {
		return err
	}
	cn := chain.NewChain(st)
	if err := cn.Init(tc.genesis); err != nil {
		return err
	}
	tc.Cn = cn
	return nil
}

func (tc *TestContext) resetContext() {
	tc.Ctx = tc.Cn.NewContext()
}

// AddBlock seals the given transactions into the next block and connects it.
func (tc *TestContext) AddBlock(seconds uint64, txs []*types.Transaction, signers []key.Key) ([]*types.Event, error) {
	nextTimestamp := tc.Ctx.LastTimestamp() + seconds*uint64(time.Second)
	bc := chain.NewBlockCreator(tc.Cn, tc.Ctx, Admin, nextTimestamp)

	events := []*types.Event{}
	for i, tx := range txs {
		if tx == nil {
			continue
		}
		sig, err := signers[i].Sign(tx.HashSig())
		if err != nil {
			tc.resetContext()
			return nil, err
		}
		ens, err := bc.AddTx(tx, sig)
		if err != nil {
			tc.resetContext()
			return nil, err
		}
		events = append(events, ens...)
	}

	b, err := bc.Finalize()
	if err != nil {
		tc.resetContext()
		return nil, err
	}
	if err := tc.Cn.ConnectBlock(b); err != nil {
		tc.resetContext()
		return nil, err
	}
	tc.resetContext()
	return events, nil
}

func (tc *TestContext) SkipBlock(blockCount int) error {
	for i := 0; i < blockCount; i++ {
		if _, err := tc.AddBlock(1, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// SendTx seals a single method call of the signer into a block.
func (tc *TestContext) SendTx(signer key.Key, to common.Address, method string, value *amount.Amount, args ...interface{}) ([]*types.Event, error) {
	from := signer.PublicKey().Address()
	tx := &types.Transaction{
		ChainID:   ChainID,
		Version:   Version,
		Timestamp: tc.Ctx.LastTimestamp() + uint64(time.Second),
		Seq:       tc.Ctx.AddrSeq(from),
		To:        to,
		Method:    method,
		Args:      bin.TypeWriteAll(args...),
		Value:     value,
	}
	return tc.AddBlock(1, []*types.Transaction{tx}, []key.Key{signer})
}

func (tc *TestContext) MustSendTx(signer key.Key, to common.Address, method string, value *amount.Amount, args ...interface{}) []*types.Event {
	ens, err := tc.SendTx(signer, to, method, value, args...)
	if err != nil {
		panic(err)
	}
	return ens
}

// SendCoin moves native coin with a plain value transfer transaction.
func (tc *TestContext) SendCoin(signer key.Key, to common.Address, value *amount.Amount) error {
	_, err := tc.SendTx(signer, to, "", value)
	return err
}

func (tc *TestContext) Close() {
	tc.Cn.Close()
}
