package keydb

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/streamdao/streamcore/common/bin"
)

// dbItem represents an item inside the btree keyed by a raw byte key.
type dbItem struct {
	key, data []byte // the binary key and data
	keyless   bool   // keyless item for scanning
}

func appendSized(buf []byte, bs []byte) []byte {
	var szbs [4]byte
	bin.PutUint32(szbs[:], uint32(len(bs)))
	buf = append(buf, szbs[:]...)
	buf = append(buf, bs...)
	return buf
}

// writeSetTo writes an item as a single SET record to the buffer.
func (dbi *dbItem) writeSetTo(buf []byte) []byte {
	buf = append(buf, tagItemWriteSet)
	buf = appendSized(buf, dbi.key)
	buf = appendSized(buf, dbi.data)
	return buf
}

// writeDeleteTo writes an item as a single DEL record to the buffer.
func (dbi *dbItem) writeDeleteTo(buf []byte) []byte {
	buf = append(buf, tagItemWriteDel)
	buf = appendSized(buf, dbi.key)
	return buf
}

// Less determines if a btree item is less than another. This is required
// for ordering, inserting, and deleting items from a btree.
func (dbi *dbItem) Less(item btree.Item, ctx interface{}) bool {
	dbi2 := item.(*dbItem)
	return bytes.Compare(dbi.key, dbi2.key) < 0
}

// Tx represents a transaction on the database. This transaction can either be
// read-only or read/write. Read-only transactions can be used for retrieving
// items. Read/write transactions can set and delete items.
//
// All transactions must be committed or rolled-back when done.
type Tx struct {
	db       *DB             // the underlying database.
	writable bool            // when false mutable operations fail.
	funcd    bool            // when true Commit and Rollback panic.
	wc       *txWriteContext // context for writable transactions.
}

type txWriteContext struct {
	// rollback when deleteAll is called
	rbkeys *btree.BTree // a tree of all item ordered by key

	rollbackItems map[string]*dbItem // details for rolling back tx.
	commitItems   map[string]*dbItem // details for committing tx.
	itercount     int                // stack of iterators
}

// DeleteAll deletes all items from the database.
func (tx *Tx) DeleteAll() error {
	if tx.db == nil {
		return errors.WithStack(ErrTxClosed)
	} else if !tx.writable {
		return errors.WithStack(ErrTxNotWritable)
	} else if tx.wc.itercount > 0 {
		return errors.WithStack(ErrTxIterating)
	}

	// check to see if we've already deleted everything
	if tx.wc.rbkeys == nil {
		// we need to backup the live data in case of a rollback
		tx.wc.rbkeys = tx.db.keys
	}

	// now reset the live database trees
	tx.db.keys = btree.New(btreeDegrees, nil)

	// finally re-create the buffers
	tx.wc.commitItems = make(map[string]*dbItem)
	return nil
}

// Begin opens a new transaction.
// Multiple read-only transactions can be opened at the same time but there can
// only be one read/write transaction at a time. Attempting to open a read/write
// transactions while another one is in progress will result in blocking until
// the current read/write transaction is completed.
func (db *DB) Begin(writable bool) (*Tx, error) {
	tx := &Tx{
		db:       db,
		writable: writable,
	}
	tx.lock()
	if db.closed {
		tx.unlock()
		return nil, errors.WithStack(ErrDatabaseClosed)
	}
	if writable {
		tx.wc = &txWriteContext{}
		tx.wc.rollbackItems = make(map[string]*dbItem)
		tx.wc.commitItems = make(map[string]*dbItem)
	}
	return tx, nil
}

// lock locks the database based on the transaction type.
func (tx *Tx) lock() {
	if tx.writable {
		tx.db.mu.Lock()
	} else {
		tx.db.mu.RLock()
	}
}

// unlock unlocks the database based on the transaction type.
func (tx *Tx) unlock() {
	if tx.writable {
		tx.db.mu.Unlock()
	} else {
		tx.db.mu.RUnlock()
	}
}

// rollbackInner handles the underlying rollback logic.
// Intended to be called from Commit() and Rollback().
func (tx *Tx) rollbackInner() {
	// rollback the deleteAll if needed
	if tx.wc.rbkeys != nil {
		tx.db.keys = tx.wc.rbkeys
	}
	for key, item := range tx.wc.rollbackItems {
		tx.db.deleteFromDatabase(&dbItem{key: []byte(key)})
		if item != nil {
			// When an item is not nil, we will need to reinsert that item
			// into the database overwriting the current one.
			tx.db.insertIntoDatabase(item)
		}
	}
}

// Commit writes all changes to disk.
// An error is returned when a write error occurs, or when a Commit() is called
// from a read-only transaction.
func (tx *Tx) Commit() error {
	if tx.funcd {
		panic("managed tx commit not allowed")
	}
	if tx.db == nil {
		return errors.WithStack(ErrTxClosed)
	} else if !tx.writable {
		return errors.WithStack(ErrTxNotWritable)
	}
	var err error
	if tx.wc.rbkeys != nil || len(tx.wc.commitItems) > 0 {
		// Each committed record is written to disk
		tx.db.buf = tx.db.buf[:0]
		if tx.wc.rbkeys != nil {
			tx.db.buf = append(tx.db.buf, tagFlushDB)
		}
		for key, item := range tx.wc.commitItems {
			if item == nil {
				tx.db.buf = (&dbItem{key: []byte(key)}).writeDeleteTo(tx.db.buf)
			} else {
				tx.db.buf = item.writeSetTo(tx.db.buf)
			}
		}
		tx.db.buf = append(tx.db.buf, tagTxEnd)
		// Flushing the buffer only once per transaction.
		// If this operation fails then the write did failed and we must
		// rollback.
		if _, err := tx.db.file.Seek(0, 2); err != nil {
			tx.rollbackInner()
		}
		if _, err := tx.db.file.Write(tx.db.buf); err != nil {
			tx.rollbackInner()
		}
		if tx.db.config.SyncPolicy == Always {
			_ = tx.db.file.Sync()
		}
		// Increment the number of flushes. The background syncing uses this.
		tx.db.flushes++
	}
	// Unlock the database and allow for another writable transaction.
	tx.unlock()
	// Clear the db field to disable this transaction from future use.
	tx.db = nil
	return err
}

// Rollback closes the transaction and reverts all mutable operations that
// were performed on the transaction.
// An error is returned when a Rollback() is called from a read-only
// transaction.
func (tx *Tx) Rollback() error {
	if tx.funcd {
		panic("managed tx rollback not allowed")
	}
	if tx.db == nil {
		return errors.WithStack(ErrTxClosed)
	}
	// The rollback func does the heavy lifting.
	if tx.writable {
		tx.rollbackInner()
	}
	// unlock the database for more transactions.
	tx.unlock()
	// Clear the db field to disable this transaction from future use.
	tx.db = nil
	return nil
}

// Set inserts or replaces an item in the database. The previous data is
// returned when the key already exists.
func (tx *Tx) Set(key []byte, data []byte) (previousData []byte, replaced bool, err error) {
	if tx.db == nil {
		return nil, false, errors.WithStack(ErrTxClosed)
	} else if !tx.writable {
		return nil, false, errors.WithStack(ErrTxNotWritable)
	} else if tx.wc.itercount > 0 {
		return nil, false, errors.WithStack(ErrTxIterating)
	}
	item := &dbItem{key: key, data: data}
	prev := tx.db.insertIntoDatabase(item)

	// insert into the rollback map if there has not been a deleteAll.
	if tx.wc.rbkeys == nil {
		if prev == nil {
			// An item with the same key did not previously exist. Let's
			// create a rollback entry with a nil value. A nil value indicates
			// that the entry should be deleted on rollback. When the value is
			// *not* nil, that means the entry should be reverted.
			if _, ok := tx.wc.rollbackItems[string(key)]; !ok {
				tx.wc.rollbackItems[string(key)] = nil
			}
		} else {
			// A previous item already exists in the database. Let's create a
			// rollback entry with the item as the value. We need to check the
			// map to see if there isn't already an item that matches the
			// same key.
			if _, ok := tx.wc.rollbackItems[string(key)]; !ok {
				tx.wc.rollbackItems[string(key)] = prev
			}
			previousData, replaced = prev.data, true
		}
	}
	// For commits we simply assign the item to the map. We use this map to
	// write the entry to disk.
	tx.wc.commitItems[string(key)] = item
	return previousData, replaced, nil
}

// Get returns the data for a key. ErrNotFound is returned when the item
// does not exist.
func (tx *Tx) Get(key []byte) ([]byte, error) {
	if tx.db == nil {
		return nil, errors.WithStack(ErrTxClosed)
	}
	item := tx.db.get(key)
	if item == nil {
		// The item does not exists
		return nil, errors.WithStack(ErrNotFound)
	}
	return item.data, nil
}

// Delete removes an item from the database. The deleted data is returned.
// ErrNotFound is returned when the item does not exist.
func (tx *Tx) Delete(key []byte) ([]byte, error) {
	if tx.db == nil {
		return nil, errors.WithStack(ErrTxClosed)
	} else if !tx.writable {
		return nil, errors.WithStack(ErrTxNotWritable)
	} else if tx.wc.itercount > 0 {
		return nil, errors.WithStack(ErrTxIterating)
	}
	item := tx.db.deleteFromDatabase(&dbItem{key: key})
	if item == nil {
		return nil, errors.WithStack(ErrNotFound)
	}
	// create a rollback entry if there has not been a deleteAll call.
	if tx.wc.rbkeys == nil {
		if _, ok := tx.wc.rollbackItems[string(key)]; !ok {
			tx.wc.rollbackItems[string(key)] = item
		}
	}
	tx.wc.commitItems[string(key)] = nil
	return item.data, nil
}

// scan iterates through a specified subset of keys.
func (tx *Tx) scan(desc bool, gt, lt bool, start, stop []byte, iterator func(key []byte, data []byte) bool) error {
	if tx.db == nil {
		return errors.WithStack(ErrTxClosed)
	}
	// wrap a btree specific iterator around the user-defined iterator.
	iter := func(item btree.Item) bool {
		dbi := item.(*dbItem)
		return iterator(dbi.key, dbi.data)
	}
	var tr *btree.BTree
	tr = tx.db.keys
	// create some limit items
	var itemA, itemB *dbItem
	if gt || lt {
		itemA = &dbItem{key: start}
		itemB = &dbItem{key: stop}
	}
	// execute the scan on the underlying tree.
	if tx.wc != nil {
		tx.wc.itercount++
		defer func() {
			tx.wc.itercount--
		}()
	}
	if desc {
		if gt {
			if lt {
				tr.DescendRange(itemA, itemB, iter)
			} else {
				tr.DescendGreaterThan(itemA, iter)
			}
		} else if lt {
			tr.DescendLessOrEqual(itemA, iter)
		} else {
			tr.Descend(iter)
		}
	} else {
		if gt {
			if lt {
				tr.AscendRange(itemA, itemB, iter)
			} else {
				tr.AscendGreaterOrEqual(itemA, iter)
			}
		} else if lt {
			tr.AscendLessThan(itemA, iter)
		} else {
			tr.Ascend(iter)
		}
	}
	return nil
}

// Iterate calls the iterator for every item with a key that begins with the
// provided prefix in ascending order. An error returned from the iterator
// stops the iteration.
func (tx *Tx) Iterate(prefix []byte, fn func(key []byte, data []byte) error) error {
	if len(prefix) == 0 {
		var inErr error
		if err := tx.Ascend(func(key []byte, data []byte) bool {
			if err := fn(key, data); err != nil {
				inErr = err
				return false
			}
			return true
		}); err != nil {
			return err
		}
		return inErr
	}
	end := nextPrefix(prefix)
	var inErr error
	if err := tx.AscendRange(prefix, end, func(key []byte, data []byte) bool {
		if err := fn(key, data); err != nil {
			inErr = err
			return false
		}
		return true
	}); err != nil {
		return err
	}
	return inErr
}

// nextPrefix returns the smallest key greater than every key with the prefix.
// A nil return means the prefix is all 0xff bytes and has no upper bound.
func nextPrefix(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Ascend calls the iterator for every item in ascending order.
func (tx *Tx) Ascend(iterator func(key []byte, data []byte) bool) error {
	return tx.scan(false, false, false, nil, nil, iterator)
}

// AscendGreaterOrEqual calls the iterator for every item with a key greater
// than or equal to the pivot in ascending order.
func (tx *Tx) AscendGreaterOrEqual(pivot []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(false, true, false, pivot, nil, iterator)
}

// AscendLessThan calls the iterator for every item with a key less than the
// pivot in ascending order.
func (tx *Tx) AscendLessThan(pivot []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(false, false, true, pivot, nil, iterator)
}

// AscendRange calls the iterator for every item with a key in the range
// [greaterOrEqual, lessThan) in ascending order.
func (tx *Tx) AscendRange(greaterOrEqual, lessThan []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(false, true, true, greaterOrEqual, lessThan, iterator)
}

// Descend calls the iterator for every item in descending order.
func (tx *Tx) Descend(iterator func(key []byte, data []byte) bool) error {
	return tx.scan(true, false, false, nil, nil, iterator)
}

// DescendGreaterThan calls the iterator for every item with a key greater
// than the pivot in descending order.
func (tx *Tx) DescendGreaterThan(pivot []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(true, true, false, pivot, nil, iterator)
}

// DescendLessOrEqual calls the iterator for every item with a key less than
// or equal to the pivot in descending order.
func (tx *Tx) DescendLessOrEqual(pivot []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(true, false, true, pivot, nil, iterator)
}

// DescendRange calls the iterator for every item with a key in the range
// (greaterThan, lessOrEqual] in descending order.
func (tx *Tx) DescendRange(lessOrEqual, greaterThan []byte, iterator func(key []byte, data []byte) bool) error {
	return tx.scan(true, true, true, lessOrEqual, greaterThan, iterator)
}

// Len returns the number of items in the database.
func (tx *Tx) Len() (int, error) {
	if tx.db == nil {
		return 0, errors.WithStack(ErrTxClosed)
	}
	return tx.db.keys.Len(), nil
}
