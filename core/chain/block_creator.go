package chain

import (
	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/hash"
	"github.com/streamdao/streamcore/core/types"
)

// BlockCreator helps to create block
type BlockCreator struct {
	cn       *Chain
	ctx      *types.Context
	txHashes []hash.Hash256
	b        *types.Block
}

// NewBlockCreator returns a BlockCreator
func NewBlockCreator(cn *Chain, ctx *types.Context, Generator common.Address, Timestamp uint64) *BlockCreator {
	bc := &BlockCreator{
		cn:       cn,
		ctx:      ctx,
		txHashes: []hash.Hash256{ctx.PrevHash()},
		b: &types.Block{
			Header: types.Header{
				ChainID:   ctx.ChainID(),
				Version:   ctx.Version(),
				Height:    ctx.TargetHeight(),
				PrevHash:  ctx.PrevHash(),
				Timestamp: Timestamp,
				Generator: Generator,
			},
			Body: types.Body{
				Transactions:          []*types.Transaction{},
				TransactionSignatures: []common.Signature{},
				Events:                []*types.Event{},
				BlockSignatures:       []common.Signature{},
			},
		},
	}
	return bc
}

// AddTx validates, executes and adds transactions
func (bc *BlockCreator) AddTx(tx *types.Transaction, sig common.Signature) ([]*types.Event, error) {
	TxHash := tx.HashSig()
	pubkey, err := common.RecoverPubkey(TxHash[:], sig)
	if err != nil {
		return nil, err
	}
	tx.From = pubkey.Address()
	return bc.UnsafeAddTx(TxHash, tx, sig, tx.From)
}

// UnsafeAddTx adds transactions without signer validation
func (bc *BlockCreator) UnsafeAddTx(TxHash hash.Hash256, tx *types.Transaction, sig common.Signature, signer common.Address) (ens []*types.Event, err error) {
	sn := bc.ctx.Snapshot()
	defer func() {
		if err != nil {
			bc.ctx.Revert(sn)
			return
		}
		bc.ctx.Commit(sn)

		bc.b.Body.Transactions = append(bc.b.Body.Transactions, tx)
		if len(ens) > 0 {
			bc.b.Body.Events = append(bc.b.Body.Events, ens...)
		}
		bc.b.Body.TransactionSignatures = append(bc.b.Body.TransactionSignatures, sig)
		bc.txHashes = append(bc.txHashes, TxHash)
	}()

	index := uint16(len(bc.b.Body.Transactions))
	TXID := types.TransactionID(bc.b.Header.Height, index)
	ens, err = ExecuteContractTxWithEvent(bc.ctx, tx, signer, TXID)
	if err != nil {
		return nil, err
	}
	return ens, nil
}

// Finalize generates block that has transactions adds by AddTx
func (bc *BlockCreator) Finalize() (*types.Block, error) {
	if bc.ctx.StackSize() > 1 {
		return nil, errors.WithStack(types.ErrDirtyContext)
	}

	LevelRootHash, err := BuildLevelRoot(bc.txHashes)
	if err != nil {
		return nil, err
	}
	bc.b.Header.LevelRootHash = LevelRootHash
	bc.b.Header.ContextHash = bc.ctx.Hash()
	return bc.b, nil
}

// ExecuteContractTxWithEvent executes the transaction and returns the executed events
func ExecuteContractTxWithEvent(ctx *types.Context, tx *types.Transaction, signer common.Address, TXID string) ([]*types.Event, error) {
	intr, err := _executeContractTx(ctx, tx, signer, TXID)

	var ens []*types.Event
	if intr != nil && len(intr.EventList()) > 0 {
		ens = append(ens, intr.EventList()...)
	}
	if err == nil {
		// contract emitted events live on the current snapshot
		ens = append(ens, ctx.Top().Events...)
	}
	return ens, err
}

// ExecuteContractTx executes the transaction
func ExecuteContractTx(ctx *types.Context, tx *types.Transaction, signer common.Address, TXID string) error {
	_, err := _executeContractTx(ctx, tx, signer, TXID)
	return err
}

func _executeContractTx(ctx *types.Context, tx *types.Transaction, signer common.Address, TXID string) (types.IInteractor, error) {
	_, _, err := types.ParseTransactionID(TXID)
	if err != nil {
		return nil, err
	}

	seq := ctx.AddrSeq(signer)
	if seq != tx.Seq {
		return nil, errors.Errorf("invalid signer sequence signer %v seq %v, got %v", signer, seq, tx.Seq)
	}
	ctx.AddAddrSeq(signer)

	to, method, data, err := types.TxArg(ctx, tx)
	if err != nil {
		return nil, err
	}

	value := tx.Value
	if value == nil {
		value = amount.ZeroAmount()
	}
	if !ctx.IsContract(to) {
		if len(method) > 0 {
			return nil, errors.WithStack(ErrNotExistContract)
		}
		if value.IsZero() {
			return nil, errors.WithStack(ErrInvalidTxMethod)
		}
		if err := ctx.SubCoin(signer, value); err != nil {
			return nil, err
		}
		ctx.AddCoin(to, value)
		return nil, nil
	}

	cont, err := ctx.Contract(to)
	if err != nil {
		return nil, err
	}
	if !value.IsZero() {
		if err := ctx.SubCoin(signer, value); err != nil {
			return nil, err
		}
		ctx.AddCoin(to, value)
	}
	cc := ctx.ContractContextWithValue(cont, signer, value)
	intr := types.NewInteractor(ctx, cont, cc, TXID, true)
	cc.Exec = intr.Exec
	_, err = intr.Exec(cc, to, method, data)
	intr.Distroy()
	if err != nil {
		return intr, err
	}
	return intr, nil
}
