package keydb_driver

import (
	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/core/backend"
	"github.com/streamdao/streamcore/core/keydb"
)

func init() {
	backend.RegisterDriver("keydb", NewStoreBackendKeydb)
}

type StoreBackendKeydb struct {
	db *keydb.DB
}

func NewStoreBackendKeydb(path string) (backend.StoreBackend, error) {
	db, err := keydb.Open(path)
	if err != nil {
		return nil, err
	}
	back := &StoreBackendKeydb{
		db: db,
	}
	return back, nil
}

func (st *StoreBackendKeydb) Shrink() {
	st.db.Shrink()
}

func (st *StoreBackendKeydb) Close() {
	st.db.Close()
}

func (st *StoreBackendKeydb) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(tx *keydb.Tx) error {
		return fn(&storeBackendKeydbTx{tx: tx})
	})
}

func (st *StoreBackendKeydb) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(tx *keydb.Tx) error {
		return fn(&storeBackendKeydbTx{tx: tx})
	})
}

type storeBackendKeydbTx struct {
	tx *keydb.Tx
}

func (r *storeBackendKeydbTx) Get(key []byte) ([]byte, error) {
	value, err := r.tx.Get(key)
	if err != nil {
		if errors.Cause(err) == keydb.ErrNotFound {
			return nil, backend.ErrNotExistKey
		}
		return nil, err
	}
	return value, nil
}

func (r *storeBackendKeydbTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	return r.tx.Iterate(prefix, fn)
}

func (r *storeBackendKeydbTx) Set(key []byte, value []byte) error {
	_, _, err := r.tx.Set(key, value)
	return err
}

func (r *storeBackendKeydbTx) Delete(key []byte) error {
	if _, err := r.tx.Delete(key); err != nil {
		if errors.Cause(err) == keydb.ErrNotFound {
			return nil
		}
		return err
	}
	return nil
}
