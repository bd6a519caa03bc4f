package chain

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/hash"
	"github.com/streamdao/streamcore/core/types"
)

// Chain manages the chain data
type Chain struct {
	sync.Mutex
	isInit     bool
	store      *Store
	services   []types.Service
	serviceMap map[string]types.Service
	closeLock  sync.RWMutex
	isClose    bool
}

// NewChain returns a Chain
func NewChain(store *Store) *Chain {
	cn := &Chain{
		store:      store,
		services:   []types.Service{},
		serviceMap: map[string]types.Service{},
	}
	return cn
}

// Init initializes the chain
func (cn *Chain) Init(genesisContextData *types.ContextData) error {
	cn.Lock()
	defer cn.Unlock()

	GenesisHash := hash.Hashes(hash.Hash(cn.store.ChainID().Bytes()), genesisContextData.Hash())
	Height := cn.store.Height()
	if Height > 0 {
		if h, err := cn.store.Hash(0); err != nil {
			return err
		} else if GenesisHash != h {
			return errors.WithStack(ErrInvalidGenesisHash)
		}
	} else {
		if err := cn.store.StoreGenesis(GenesisHash, genesisContextData); err != nil {
			return err
		}
	}
	if err := cn.store.Prepare(); err != nil {
		return err
	}

	for _, s := range cn.services {
		if err := s.OnLoadChain(cn.store); err != nil {
			return err
		}
	}

	cn.isInit = true
	return nil
}

// Close terminates and cleans the chain
func (cn *Chain) Close() {
	cn.closeLock.Lock()
	defer cn.closeLock.Unlock()

	cn.Lock()
	defer cn.Unlock()

	if !cn.isClose {
		cn.store.Close()
		cn.isClose = true
	}
}

// Services returns services
func (cn *Chain) Services() []types.Service {
	list := []types.Service{}
	list = append(list, cn.services...)
	return list
}

// ServiceByName returns the service by the name
func (cn *Chain) ServiceByName(name string) (types.Service, error) {
	s, has := cn.serviceMap[name]
	if !has {
		return nil, errors.WithStack(ErrNotExistService)
	}
	return s, nil
}

// MustAddService adds Service but panic when has the same name service
func (cn *Chain) MustAddService(s types.Service) {
	if cn.isInit {
		panic(ErrAddBeforeChainInit)
	}
	if _, has := cn.serviceMap[s.Name()]; has {
		panic(ErrExistServiceName)
	}
	cn.services = append(cn.services, s)
	cn.serviceMap[s.Name()] = s
}

// Store returns the store of the chain
func (cn *Chain) Store() *Store {
	return cn.store
}

// NewContext returns the context of the chain
func (cn *Chain) NewContext() *types.Context {
	return types.NewContext(cn.store)
}

// ConnectBlock try to connect block to the chain
func (cn *Chain) ConnectBlock(b *types.Block) error {
	cn.closeLock.RLock()
	defer cn.closeLock.RUnlock()
	if cn.isClose {
		return errors.WithStack(ErrChainClosed)
	}

	cn.Lock()
	defer cn.Unlock()

	if err := cn.validateHeader(&b.Header); err != nil {
		return err
	}
	ctx := types.NewContext(cn.store)
	events, err := cn.executeBlockOnContext(b, ctx)
	if err != nil {
		return err
	}
	return cn.connectBlockWithContext(b, ctx, events)
}

func (cn *Chain) connectBlockWithContext(b *types.Block, ctx *types.Context, events []*types.Event) error {
	if b.Header.ContextHash != ctx.Hash() {
		return errors.WithStack(ErrInvalidContextHash)
	}
	if ctx.StackSize() > 1 {
		return errors.WithStack(types.ErrDirtyContext)
	}

	if err := cn.store.StoreBlock(b, ctx); err != nil {
		return err
	}

	for _, s := range cn.services {
		s.OnBlockConnected(b, events, cn.store)
	}
	return nil
}

func (cn *Chain) executeBlockOnContext(b *types.Block, ctx *types.Context) ([]*types.Event, error) {
	TxSigners, _, err := cn.validateTransactionSignatures(b)
	if err != nil {
		return nil, err
	}

	events := []*types.Event{}
	for i, tx := range b.Body.Transactions {
		sn := ctx.Snapshot()
		TXID := types.TransactionID(b.Header.Height, uint16(i))
		ens, err := ExecuteContractTxWithEvent(ctx, tx, TxSigners[i], TXID)
		if err != nil {
			ctx.Revert(sn)
			return nil, err
		}
		for _, en := range ens {
			en.Index = uint16(i)
			events = append(events, en)
		}
		ctx.Commit(sn)
	}
	if ctx.StackSize() > 1 {
		return nil, errors.WithStack(types.ErrDirtyContext)
	}
	return events, nil
}

func (cn *Chain) validateHeader(bh *types.Header) error {
	height, lastHash := cn.store.LastStatus()
	if bh.ChainID.Cmp(cn.store.ChainID()) != 0 {
		return errors.Wrapf(ErrInvalidChainID, "chainid %v, %v", bh.ChainID, cn.store.ChainID())
	}
	if bh.Version > cn.store.Version() {
		return errors.WithStack(ErrInvalidVersion)
	}
	if bh.PrevHash != lastHash {
		return errors.WithStack(ErrInvalidPrevHash)
	}
	if bh.Timestamp <= cn.store.LastTimestamp() {
		return errors.WithStack(ErrInvalidTimestamp)
	}
	var emptyAddr common.Address
	if bh.Generator == emptyAddr {
		return errors.WithStack(ErrInvalidGenerator)
	}
	if bh.Height != height+1 {
		return errors.WithStack(ErrInvalidHeight)
	}
	return nil
}

func (cn *Chain) validateTransactionSignatures(b *types.Block) ([]common.Address, []hash.Hash256, error) {
	TxHashes := make([]hash.Hash256, len(b.Body.Transactions)+1)
	TxHashes[0] = b.Header.PrevHash
	TxSigners := make([]common.Address, len(b.Body.Transactions))
	if len(b.Body.Transactions) > 0 {
		var wg sync.WaitGroup
		cpuCnt := runtime.NumCPU()
		if len(b.Body.Transactions) < 1000 {
			cpuCnt = 1
		}
		txUnit := len(b.Body.Transactions) / cpuCnt
		if len(b.Body.Transactions)%cpuCnt != 0 {
			txUnit++
		}
		errs := make(chan error, cpuCnt)
		defer close(errs)
		for i := 0; i < cpuCnt; i++ {
			lastCnt := (i + 1) * txUnit
			if lastCnt > len(b.Body.Transactions) {
				lastCnt = len(b.Body.Transactions)
			}
			wg.Add(1)
			go func(sidx int, txs []*types.Transaction) {
				defer wg.Done()
				for q, tx := range txs {
					TxHash := tx.HashSig()
					TxHashes[sidx+q+1] = TxHash
					sig := b.Body.TransactionSignatures[sidx+q]
					pubkey, err := common.RecoverPubkey(TxHash[:], sig)
					if err != nil {
						errs <- err
						return
					}
					TxSigners[sidx+q] = pubkey.Address()
					tx.From = TxSigners[sidx+q]
				}
			}(i*txUnit, b.Body.Transactions[i*txUnit:lastCnt])
		}
		wg.Wait()
		if len(errs) > 0 {
			err := <-errs
			return nil, nil, err
		}
	}
	if h, err := BuildLevelRoot(TxHashes); err != nil {
		return nil, nil, err
	} else if b.Header.LevelRootHash != h {
		return nil, nil, errors.WithStack(ErrInvalidLevelRootHash)
	}
	return TxSigners, TxHashes[1:], nil
}
