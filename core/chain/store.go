package chain

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/hash"
	"github.com/streamdao/streamcore/core/backend"
	"github.com/streamdao/streamcore/core/types"
)

// Store saves the target chain state
// All updates are executed in one transaction of the backend
type Store struct {
	sync.Mutex
	db             backend.StoreBackend
	chainID        *big.Int
	version        uint16
	cache          storecache
	dataCache      gcache.Cache
	closeLock      sync.RWMutex
	isClose        bool
	AddrSeqMapLock sync.Mutex
	AddrSeqMap     map[common.Address]uint64
}

type storecache struct {
	cached          bool
	height          uint32
	heightHash      hash.Hash256
	heightBlock     *types.Block
	heightTimestamp uint64
	contracts       []types.Contract
}

// NewStore returns a Store
func NewStore(driver string, path string, ChainID *big.Int, Version uint16) (*Store, error) {
	db, err := backend.Create(driver, path)
	if err != nil {
		return nil, err
	}

	st := &Store{
		db:         db,
		chainID:    ChainID,
		version:    Version,
		dataCache:  gcache.New(32768).LRU().Build(),
		AddrSeqMap: map[common.Address]uint64{},
	}

	go func() {
		for !st.isClose {
			st.closeLock.RLock()
			if st.db != nil {
				st.db.Shrink()
			}
			st.closeLock.RUnlock()
			time.Sleep(5 * time.Minute)
		}
	}()
	return st, nil
}

// Close terminate and clean store
func (st *Store) Close() {
	st.closeLock.Lock()
	defer st.closeLock.Unlock()

	st.isClose = true
	if st.db != nil {
		st.db.Shrink()
		st.db.Close()
	}
	st.db = nil
}

// ChainID returns the chain id of the target chain
func (st *Store) ChainID() *big.Int {
	return st.chainID
}

// Version returns the version of the target chain
func (st *Store) Version() uint16 {
	return st.version
}

// TargetHeight returns the target height of the target chain
func (st *Store) TargetHeight() uint32 {
	return st.Height() + 1
}

// LastStatus returns the recored height and its hash
func (st *Store) LastStatus() (uint32, hash.Hash256) {
	height := st.Height()
	h, err := st.Hash(height)
	if err != nil {
		panic(err)
	}
	return height, h
}

// PrevHash returns the prev hash of the chain
func (st *Store) PrevHash() hash.Hash256 {
	h, err := st.Hash(st.Height())
	if err != nil {
		if errors.Cause(err) != ErrStoreClosed {
			panic(err)
		}
		return hash.Hash256{}
	}
	return h
}

// LastTimestamp returns the prev timestamp of the chain
func (st *Store) LastTimestamp() uint64 {
	height := st.Height()
	if height == 0 {
		return 0
	}
	if st.cache.cached {
		if st.cache.height == height {
			return st.cache.heightTimestamp
		}
	}
	bh, err := st.Header(height)
	if err != nil {
		if errors.Cause(err) != ErrStoreClosed {
			panic(err)
		}
		return 0
	}
	return bh.Timestamp
}

// Hash returns the hash of the data by height
func (st *Store) Hash(height uint32) (hash.Hash256, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return hash.Hash256{}, errors.WithStack(ErrStoreClosed)
	}

	if st.cache.cached {
		if st.cache.height == height {
			return st.cache.heightHash, nil
		}
	}

	var h hash.Hash256
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toHeightHashKey(height))
		if err != nil {
			return err
		}
		h.SetBytes(value)
		return nil
	}); err != nil {
		if errors.Cause(err) == backend.ErrNotExistKey {
			return hash.Hash256{}, errors.WithStack(ErrNotExistBlock)
		}
		return hash.Hash256{}, err
	}
	return h, nil
}

// Header returns the header of the data by height
func (st *Store) Header(height uint32) (*types.Header, error) {
	b, err := st.Block(height)
	if err != nil {
		return nil, err
	}
	return &b.Header, nil
}

// Block returns the block by height
func (st *Store) Block(height uint32) (*types.Block, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	if height == 0 {
		return nil, errors.WithStack(ErrNotExistBlock)
	}
	if st.cache.cached {
		if st.cache.height == height && st.cache.heightBlock != nil {
			return st.cache.heightBlock, nil
		}
	}

	var b types.Block
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toHeightBlockKey(height))
		if err != nil {
			return err
		}
		if _, err := bin.ReadFromBytes(&b, value); err != nil {
			return err
		}
		return nil
	}); err != nil {
		if errors.Cause(err) == backend.ErrNotExistKey {
			return nil, errors.WithStack(ErrNotExistBlock)
		}
		return nil, err
	}
	return &b, nil
}

// Height returns the current height of the target chain
func (st *Store) Height() uint32 {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return 0
	}

	if st.cache.cached {
		return st.cache.height
	}

	var height uint32
	st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get([]byte{tagHeight})
		if err != nil {
			return err
		}
		height = bin.Uint32(value)
		return nil
	})
	return height
}

// AddrSeq returns the sequence of the address
func (st *Store) AddrSeq(addr common.Address) uint64 {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return 0
	}

	st.AddrSeqMapLock.Lock()
	defer st.AddrSeqMapLock.Unlock()

	if seq, has := st.AddrSeqMap[addr]; has {
		return seq
	}
	var seq uint64
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toAddressSeqKey(addr))
		if err != nil {
			return err
		}
		seq = binary.LittleEndian.Uint64(value)
		return nil
	}); err != nil {
		return 0
	}
	st.AddrSeqMap[addr] = seq
	return seq
}

// Contracts returns all contracts of the store
func (st *Store) Contracts() ([]types.Contract, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	if st.cache.cached {
		return st.cache.contracts, nil
	}
	conts := []types.Contract{}
	if err := st.db.View(func(txn backend.StoreReader) error {
		return txn.Iterate([]byte{tagContract}, func(key []byte, value []byte) error {
			cd := &types.ContractDefine{}
			if _, err := cd.ReadFrom(bytes.NewReader(value)); err != nil {
				return err
			}
			cont, err := types.CreateContract(cd)
			if err != nil {
				return err
			}
			conts = append(conts, cont)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return conts, nil
}

// IsContract returns is the contract
func (st *Store) IsContract(addr common.Address) bool {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return false
	}

	var exist bool
	if err := st.db.View(func(txn backend.StoreReader) error {
		_, err := txn.Get(toContractKey(addr))
		if err != nil {
			return errors.WithStack(err)
		}
		exist = true
		return nil
	}); err != nil {
		return false
	}
	return exist
}

// Contract returns the contract from the store
func (st *Store) Contract(addr common.Address) (types.Contract, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	cd := &types.ContractDefine{}
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toContractKey(addr))
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := cd.ReadFrom(bytes.NewReader(value)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	cont, err := types.CreateContract(cd)
	if err != nil {
		return nil, err
	}
	return cont, nil
}

// Data returns the contract data from the store
func (st *Store) Data(cont common.Address, addr common.Address, name []byte) []byte {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil
	}

	key := string(cont[:]) + string(addr[:]) + string(name)
	if v, err := st.dataCache.Get(key); err == nil {
		return v.([]byte)
	}
	var data []byte
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toDataKey(key))
		if err != nil {
			return errors.WithStack(err)
		}
		data = make([]byte, len(value))
		copy(data, value)
		return nil
	}); err != nil {
		return nil
	}
	st.dataCache.Set(key, data)
	return data
}

// Coin returns the native coin balance of the address
func (st *Store) Coin(addr common.Address) *amount.Amount {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return amount.ZeroAmount()
	}

	var am *amount.Amount
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toCoinKey(addr))
		if err != nil {
			return errors.WithStack(err)
		}
		am = amount.NewAmountFromBytes(value)
		return nil
	}); err != nil {
		return amount.ZeroAmount()
	}
	return am
}

// StoreGenesis stores the genesis data
func (st *Store) StoreGenesis(genHash hash.Hash256, ctd *types.ContextData) error {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return errors.WithStack(ErrStoreClosed)
	}

	st.Lock()
	defer st.Unlock()

	if st.Height() > 0 {
		return errors.WithStack(ErrAlreadyGenesised)
	}

	if err := st.db.Update(func(txn backend.StoreWriter) error {
		if err := txn.Set(toHeightHashKey(0), genHash[:]); err != nil {
			return err
		}
		if err := txn.Set([]byte{tagHeight}, bin.Uint32Bytes(0)); err != nil {
			return err
		}
		return st.applyContextData(txn, ctd)
	}); err != nil {
		return err
	}

	st.cache.height = 0
	st.cache.heightHash = genHash
	st.cache.heightBlock = nil
	st.cache.heightTimestamp = 0
	if err := st.loadContractCache(); err != nil {
		return err
	}
	st.cache.cached = true
	return nil
}

// Prepare loads the initial data
func (st *Store) Prepare() error {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return errors.WithStack(ErrStoreClosed)
	}

	if !st.cache.cached {
		st.cache.height, st.cache.heightHash = st.LastStatus()
		if st.cache.height > 0 {
			b, err := st.Block(st.cache.height)
			if err != nil {
				return err
			}
			st.cache.heightBlock = b
			st.cache.heightTimestamp = b.Header.Timestamp
		}
		if err := st.loadContractCache(); err != nil {
			return err
		}
		st.cache.cached = true
	}
	return nil
}

// StoreBlock stores the block
func (st *Store) StoreBlock(b *types.Block, ctx *types.Context) error {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return errors.WithStack(ErrStoreClosed)
	}

	st.Lock()
	defer st.Unlock()

	bsHeader, _, err := bin.WriterToBytes(&b.Header)
	if err != nil {
		return err
	}
	HeaderHash := hash.Hash(bsHeader)
	bsBlock, _, err := bin.WriterToBytes(b)
	if err != nil {
		return err
	}

	ctd := ctx.Top()
	if err := st.db.Update(func(txn backend.StoreWriter) error {
		if err := txn.Set([]byte{tagHeight}, bin.Uint32Bytes(b.Header.Height)); err != nil {
			return err
		}
		if err := txn.Set(toHeightHashKey(b.Header.Height), HeaderHash[:]); err != nil {
			return err
		}
		if err := txn.Set(toHeightBlockKey(b.Header.Height), bsBlock); err != nil {
			return err
		}
		return st.applyContextData(txn, ctd)
	}); err != nil {
		return err
	}

	st.AddrSeqMapLock.Lock()
	types.EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		st.AddrSeqMap[key] = value
		return nil
	})
	st.AddrSeqMapLock.Unlock()

	st.cache.height = b.Header.Height
	st.cache.heightHash = HeaderHash
	st.cache.heightBlock = b
	st.cache.heightTimestamp = b.Header.Timestamp
	if err := st.loadContractCache(); err != nil {
		return err
	}
	st.cache.cached = true
	return nil
}

func (st *Store) loadContractCache() error {
	st.cache.contracts = []types.Contract{}
	return st.db.View(func(txn backend.StoreReader) error {
		return txn.Iterate([]byte{tagContract}, func(key []byte, value []byte) error {
			cd := &types.ContractDefine{}
			if _, err := cd.ReadFrom(bytes.NewReader(value)); err != nil {
				return err
			}
			cont, err := types.CreateContract(cd)
			if err != nil {
				return err
			}
			st.cache.contracts = append(st.cache.contracts, cont)
			return nil
		})
	})
}

func (st *Store) applyContextData(txn backend.StoreWriter, ctd *types.ContextData) error {
	if err := types.EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		bs := make([]byte, 8)
		binary.LittleEndian.PutUint64(bs, value)
		return txn.Set(toAddressSeqKey(key), bs)
	}); err != nil {
		return err
	}
	if err := types.EachAllContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *types.ContractDefine) error {
		bs, _, err := bin.WriterToBytes(cd)
		if err != nil {
			return err
		}
		return txn.Set(toContractKey(key), bs)
	}); err != nil {
		return err
	}
	if err := types.EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		st.dataCache.Remove(key)
		return txn.Set(toDataKey(key), value)
	}); err != nil {
		return err
	}
	if err := types.EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		st.dataCache.Remove(key)
		return txn.Delete(toDataKey(key))
	}); err != nil {
		return err
	}
	if err := types.EachAllAddressAmount(ctd.CoinMap, func(key common.Address, value *amount.Amount) error {
		return txn.Set(toCoinKey(key), value.Bytes())
	}); err != nil {
		return err
	}
	return nil
}
