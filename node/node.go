package node

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/key"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/txpool"
	"github.com/streamdao/streamcore/core/types"
)

// Node is the single block generator of the chain. It collects signed
// transactions into a pool and seals them into blocks on a fixed interval.
type Node struct {
	sync.Mutex
	key       key.Key
	generator common.Address
	cn        *chain.Chain
	tp        *txpool.TransactionPool
	interval  time.Duration
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewNode returns a Node
func NewNode(generatorKey key.Key, cn *chain.Chain, interval time.Duration) *Node {
	nd := &Node{
		key:       generatorKey,
		generator: generatorKey.PublicKey().Address(),
		cn:        cn,
		tp:        txpool.NewTransactionPool(),
		interval:  interval,
		closeCh:   make(chan struct{}),
	}
	return nd
}

// AddTx validates the signed transaction and queues it for the next block
func (nd *Node) AddTx(tx *types.Transaction, sig common.Signature) error {
	st := nd.cn.Store()
	if tx.ChainID.Cmp(st.ChainID()) != 0 {
		return errors.WithStack(chain.ErrInvalidChainID)
	}
	TxHash := tx.HashSig()
	if nd.tp.IsExist(TxHash) {
		return errors.WithStack(txpool.ErrExistTransaction)
	}
	pubkey, err := common.RecoverPubkey(TxHash[:], sig)
	if err != nil {
		return err
	}
	tx.From = pubkey.Address()
	return nd.tp.Push(TxHash, tx, sig, st.AddrSeq(tx.From))
}

// TxPoolSize returns the number of pending transactions
func (nd *Node) TxPoolSize() int {
	return nd.tp.Size()
}

// Run seals pending transactions into blocks until the node is closed
func (nd *Node) Run() {
	t := time.NewTicker(nd.interval)
	defer t.Stop()
	for {
		select {
		case <-nd.closeCh:
			return
		case <-t.C:
			if nd.tp.Size() == 0 {
				continue
			}
			if err := nd.generateBlock(); err != nil {
				log.Println("generate block:", err)
			}
		}
	}
}

// Close stops the generator loop
func (nd *Node) Close() {
	nd.closeOnce.Do(func() {
		close(nd.closeCh)
	})
}

func (nd *Node) generateBlock() error {
	nd.Lock()
	defer nd.Unlock()

	st := nd.cn.Store()
	Timestamp := uint64(time.Now().UnixNano())
	if Timestamp <= st.LastTimestamp() {
		Timestamp = st.LastTimestamp() + 1
	}
	ctx := nd.cn.NewContext()
	bc := chain.NewBlockCreator(nd.cn, ctx, nd.generator, Timestamp)

	added := 0
	for {
		item := nd.tp.Pop(poolSeq{ctx})
		if item == nil {
			break
		}
		if _, err := bc.AddTx(item.Transaction, item.Signature); err != nil {
			// the failed transaction is dropped, the rest stay pooled
			log.Println("drop tx:", err)
			continue
		}
		added++
	}
	if added == 0 {
		return nil
	}
	b, err := bc.Finalize()
	if err != nil {
		return err
	}
	return nd.cn.ConnectBlock(b)
}

// poolSeq reads the next expected sequence from the building context so
// consecutive transactions of one signer fit into a single block
type poolSeq struct {
	ctx *types.Context
}

func (s poolSeq) Seq(addr common.Address) uint64 {
	return s.ctx.AddrSeq(addr)
}
