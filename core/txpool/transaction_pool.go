package txpool

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/hash"
	"github.com/streamdao/streamcore/core/types"
)

// maxSeqDistance limits how far ahead of the confirmed sequence a pending
// transaction may sit before it is rejected.
const maxSeqDistance = 100

// PoolItem represents the item of the queue
type PoolItem struct {
	TxHash      hash.Hash256
	Transaction *types.Transaction
	Signature   common.Signature
}

// TransactionPool provides a per-signer transaction queue ordered by the
// transaction sequence. A transaction is only popped when its sequence is
// the next one expected for its signer.
type TransactionPool struct {
	sync.Mutex
	txhashMap map[hash.Hash256]bool
	bucketMap map[common.Address][]*PoolItem
	addrs     []common.Address
}

// NewTransactionPool returns a TransactionPool
func NewTransactionPool() *TransactionPool {
	tp := &TransactionPool{
		txhashMap: map[hash.Hash256]bool{},
		bucketMap: map[common.Address][]*PoolItem{},
	}
	return tp
}

// IsExist checks that the transaction hash is inserted or not
func (tp *TransactionPool) IsExist(TxHash hash.Hash256) bool {
	tp.Lock()
	defer tp.Unlock()

	return tp.txhashMap[TxHash]
}

// Size returns the number of pending transactions
func (tp *TransactionPool) Size() int {
	tp.Lock()
	defer tp.Unlock()

	sum := 0
	for _, q := range tp.bucketMap {
		sum += len(q)
	}
	return sum
}

// Push inserts the signed transaction keyed by its signer and sequence
func (tp *TransactionPool) Push(TxHash hash.Hash256, tx *types.Transaction, sig common.Signature, lastSeq uint64) error {
	tp.Lock()
	defer tp.Unlock()

	if tp.txhashMap[TxHash] {
		return errors.WithStack(ErrExistTransaction)
	}
	if tx.Seq < lastSeq {
		return errors.WithStack(ErrPastSeq)
	}
	if tx.Seq > lastSeq+maxSeqDistance {
		return errors.WithStack(ErrTooFarSeq)
	}

	item := &PoolItem{
		TxHash:      TxHash,
		Transaction: tx,
		Signature:   sig,
	}
	q, has := tp.bucketMap[tx.From]
	if !has {
		tp.addrs = append(tp.addrs, tx.From)
	}
	q = append(q, item)
	sort.Slice(q, func(i, j int) bool {
		return q[i].Transaction.Seq < q[j].Transaction.Seq
	})
	tp.bucketMap[tx.From] = q
	tp.txhashMap[TxHash] = true
	return nil
}

// Remove deletes the transaction and every earlier one of the same signer
func (tp *TransactionPool) Remove(tx *types.Transaction) {
	tp.Lock()
	defer tp.Unlock()

	q, has := tp.bucketMap[tx.From]
	if !has {
		return
	}
	kept := q[:0]
	for _, item := range q {
		if item.Transaction.Seq <= tx.Seq {
			delete(tp.txhashMap, item.TxHash)
		} else {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		tp.deleteBucket(tx.From)
	} else {
		tp.bucketMap[tx.From] = kept
	}
}

// Pop returns and removes a transaction whose sequence is the next one
// expected for its signer. It returns nil when no transaction is ready.
func (tp *TransactionPool) Pop(SeqCache SeqCache) *PoolItem {
	tp.Lock()
	defer tp.Unlock()

	return tp.UnsafePop(SeqCache)
}

// UnsafePop returns and removes the proper transaction without mutex locking
func (tp *TransactionPool) UnsafePop(SeqCache SeqCache) *PoolItem {
	for _, addr := range tp.addrs {
		q, has := tp.bucketMap[addr]
		if !has {
			continue
		}
		lastSeq := SeqCache.Seq(addr)
		drop := 0
		for drop < len(q) && q[drop].Transaction.Seq < lastSeq {
			delete(tp.txhashMap, q[drop].TxHash)
			drop++
		}
		q = q[drop:]
		if len(q) == 0 {
			tp.deleteBucket(addr)
			continue
		}
		tp.bucketMap[addr] = q
		if q[0].Transaction.Seq != lastSeq {
			continue
		}
		item := q[0]
		delete(tp.txhashMap, item.TxHash)
		if len(q) == 1 {
			tp.deleteBucket(addr)
		} else {
			tp.bucketMap[addr] = q[1:]
		}
		return item
	}
	return nil
}

func (tp *TransactionPool) deleteBucket(addr common.Address) {
	delete(tp.bucketMap, addr)
	for i, v := range tp.addrs {
		if v == addr {
			tp.addrs = append(tp.addrs[:i], tp.addrs[i+1:]...)
			break
		}
	}
}
