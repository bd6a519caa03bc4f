package keydb

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/streamdao/streamcore/common/bin"
)

// DB represents a collection of key-value pairs that persist on disk.
// Transactions are used for all forms of data access to the DB.
type DB struct {
	mu        sync.RWMutex // the gatekeeper for all fields
	file      *os.File     // the underlying file
	buf       []byte       // a buffer to write to
	keys      *btree.BTree // a tree of all item ordered by key
	flushes   int          // a count of the number of disk flushes
	closed    bool         // set when the database has been closed
	config    Config       // the database configuration
	shrinking bool         // when an aof shrink is in-process.
	lastaofsz int          // the size of the last shrink aof size
}

// Open opens a database at the provided path.
// If the file does not exist then it will be created automatically.
func Open(path string) (*DB, error) {
	os.MkdirAll(filepath.Dir(path), os.ModePerm)

	db := &DB{
		keys: btree.New(btreeDegrees, nil),
		config: Config{
			SyncPolicy:           EverySecond,
			AutoShrinkPercentage: 100,
			AutoShrinkMinSize:    32 * 1024 * 1024,
		},
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	db.file = file

	// load the database from disk
	if err := db.load(); err != nil {
		_ = db.file.Close()
		return nil, err
	}
	// start the background manager.
	go db.backgroundManager()
	return db, nil
}

// Close releases all database resources.
// All transactions must be closed before closing the database.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return errors.WithStack(ErrDatabaseClosed)
	}
	db.closed = true
	db.file.Sync() // do a sync but ignore the error
	if err := db.file.Close(); err != nil {
		return errors.WithStack(err)
	}
	db.keys = nil
	db.file = nil
	return nil
}

// ReadConfig returns the database configuration.
func (db *DB) ReadConfig(config *Config) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return errors.WithStack(ErrDatabaseClosed)
	}
	*config = db.config
	return nil
}

// SetConfig updates the database configuration.
func (db *DB) SetConfig(config Config) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return errors.WithStack(ErrDatabaseClosed)
	}
	switch config.SyncPolicy {
	default:
		return errors.WithStack(ErrInvalidSyncPolicy)
	case Never, EverySecond, Always:
	}
	db.config = config
	return nil
}

// insertIntoDatabase inserts an item in to the database.
// If a previous item with the same key already exists, that item
// will be replaced with the new one, and the previous item is returned.
func (db *DB) insertIntoDatabase(item *dbItem) *dbItem {
	var pdbi *dbItem
	prev := db.keys.ReplaceOrInsert(item)
	if prev != nil {
		pdbi = prev.(*dbItem)
	}
	return pdbi
}

// deleteFromDatabase removes an item from the database. The input item
// must only have the key field specified thus "&dbItem{key: key}" is all
// that is needed to fully remove the item with the matching key. A nil
// return value means that the item was not found in the database
func (db *DB) deleteFromDatabase(item *dbItem) *dbItem {
	var pdbi *dbItem
	prev := db.keys.Delete(item)
	if prev != nil {
		pdbi = prev.(*dbItem)
	}
	return pdbi
}

// backgroundManager runs continuously in the background and performs various
// operations such as syncing to disk and shrinking the aof file.
func (db *DB) backgroundManager() {
	defer recover()

	flushes := 0
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for range t.C {
		var shrink bool
		if err := db.Update(func(tx *Tx) error {
			if !db.config.AutoShrinkDisabled {
				pos, err := db.file.Seek(0, 1)
				if err != nil {
					return errors.WithStack(err)
				}
				aofsz := int(pos)
				if aofsz > db.config.AutoShrinkMinSize {
					prc := float64(db.config.AutoShrinkPercentage) / 100.0
					shrink = aofsz > db.lastaofsz+int(float64(db.lastaofsz)*prc)
				}
			}
			return nil
		}); errors.Cause(err) == ErrDatabaseClosed {
			break
		}

		// execute a disk sync, if needed
		func() {
			db.mu.Lock()
			defer db.mu.Unlock()
			if db.config.SyncPolicy == EverySecond &&
				flushes != db.flushes {
				_ = db.file.Sync()
				flushes = db.flushes
			}
		}()
		if shrink {
			if err := db.Shrink(); err != nil {
				if errors.Cause(err) == ErrDatabaseClosed {
					break
				}
			}
		}
	}
}

// Shrink will make the database file smaller by removing redundant
// log entries. This operation does not block the database.
func (db *DB) Shrink() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return errors.WithStack(ErrDatabaseClosed)
	}
	if db.shrinking {
		db.mu.Unlock()
		return errors.WithStack(ErrShrinkInProcess)
	}
	db.shrinking = true
	defer func() {
		db.mu.Lock()
		db.shrinking = false
		db.mu.Unlock()
	}()
	fname := db.file.Name()
	tmpname := fname + ".tmp"
	// the endpos is used to return to the end of the file when we are
	// finished writing all of the current items.
	endpos, err := db.file.Seek(0, 2)
	if err != nil {
		db.mu.Unlock()
		return errors.WithStack(err)
	}
	db.mu.Unlock()
	time.Sleep(time.Second / 4) // wait just a bit before starting
	f, err := os.Create(tmpname)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		_ = f.Close()
		_ = os.RemoveAll(tmpname)
	}()

	// we are going to read items in as chunks as to not hold up the database
	// for too long.
	var buf []byte
	var pivot []byte
	done := false
	for !done {
		err := func() error {
			db.mu.RLock()
			defer db.mu.RUnlock()
			if db.closed {
				return errors.WithStack(ErrDatabaseClosed)
			}
			done = true
			var n int
			db.keys.AscendGreaterOrEqual(&dbItem{key: pivot},
				func(item btree.Item) bool {
					dbi := item.(*dbItem)
					// 1000 items or 64MB buffer
					if n > 1000 || len(buf) > 64*1024*1024 {
						pivot = dbi.key
						done = false
						return false
					}
					buf = dbi.writeSetTo(buf)
					n++
					return true
				},
			)
			if len(buf) > 0 {
				buf = append(buf, tagTxEnd)
				if _, err := f.Write(buf); err != nil {
					return errors.WithStack(err)
				}
				buf = buf[:0]
			}
			return nil
		}()
		if err != nil {
			return err
		}
	}
	// We reached this far so all of the items have been written to a new tmp
	// There's some more work to do by appending the new line from the aof
	// to the tmp file and finally swap the files out.
	return func() error {
		db.mu.Lock()
		defer db.mu.Unlock()
		if db.closed {
			return errors.WithStack(ErrDatabaseClosed)
		}
		// We are going to open a new version of the aof file so that we do
		// not change the seek position of the previous.
		aof, err := os.Open(fname)
		if err != nil {
			return errors.WithStack(err)
		}
		defer func() { _ = aof.Close() }()
		if _, err := aof.Seek(endpos, 0); err != nil {
			return errors.WithStack(err)
		}
		// Just copy all of the new commands that have occurred since we
		// started the shrink process.
		if _, err := io.Copy(f, aof); err != nil {
			return errors.WithStack(err)
		}
		// Close all files
		if err := aof.Close(); err != nil {
			return errors.WithStack(err)
		}
		if err := f.Close(); err != nil {
			return errors.WithStack(err)
		}
		if err := db.file.Close(); err != nil {
			return errors.WithStack(err)
		}
		// Any failures below here is really bad. So just panic.
		if err := os.Rename(tmpname, fname); err != nil {
			panic(err)
		}
		db.file, err = os.OpenFile(fname, os.O_CREATE|os.O_RDWR, 0666)
		if err != nil {
			panic(err)
		}
		pos, err := db.file.Seek(0, 2)
		if err != nil {
			return errors.WithStack(err)
		}
		db.lastaofsz = int(pos)
		return nil
	}()
}

type commitItem struct {
	Tag  byte
	Key  []byte
	Data []byte
}

func (db *DB) readFill(r *bufio.Reader, bs []byte) (int, error) {
	read := 0
	for read < len(bs) {
		n, err := r.Read(bs[read:])
		if err != nil {
			return read + n, err
		}
		read += n
	}
	return read, nil
}

// readLoad reads from the reader and loads commands into the database.
// An unfinished transaction at the tail of the file is truncated away.
func (db *DB) readLoad(file *os.File) error {
	commiteds := make([]*commitItem, 0)
	var fileOffset int64
	var lastTxPos int64
	r := bufio.NewReader(file)
	for {
		tag, err := r.ReadByte()
		fileOffset++
		if err != nil {
			if errors.Cause(err) != io.EOF {
				if err := file.Truncate(lastTxPos); err != nil {
					return errors.WithStack(err)
				}
			}
			if errors.Cause(err) == io.EOF {
				break
			}
			return errors.WithStack(err)
		}
		switch tag {
		case tagItemWriteSet:
			key, n, err := db.readSized(r)
			fileOffset += n
			if err != nil {
				return file.Truncate(lastTxPos)
			}
			data, n, err := db.readSized(r)
			fileOffset += n
			if err != nil {
				return file.Truncate(lastTxPos)
			}
			commiteds = append(commiteds, &commitItem{
				Tag:  tag,
				Key:  key,
				Data: data,
			})
		case tagItemWriteDel:
			key, n, err := db.readSized(r)
			fileOffset += n
			if err != nil {
				return file.Truncate(lastTxPos)
			}
			commiteds = append(commiteds, &commitItem{
				Tag: tag,
				Key: key,
			})
		case tagFlushDB:
			commiteds = append(commiteds, &commitItem{
				Tag: tag,
			})
		case tagTxEnd:
			for _, v := range commiteds {
				switch v.Tag {
				case tagItemWriteSet:
					db.insertIntoDatabase(&dbItem{
						key:  v.Key,
						data: v.Data,
					})
				case tagItemWriteDel:
					db.deleteFromDatabase(&dbItem{
						key: v.Key,
					})
				case tagFlushDB:
					db.keys = btree.New(btreeDegrees, nil)
				default:
					return errors.WithStack(ErrInvalidDatabase)
				}
			}
			commiteds = commiteds[:0]
			lastTxPos = fileOffset
		default:
			return errors.WithStack(ErrInvalidDatabase)
		}
	}
	return nil
}

func (db *DB) readSized(r *bufio.Reader) ([]byte, int64, error) {
	var read int64
	bs := make([]byte, 4)
	n, err := db.readFill(r, bs)
	read += int64(n)
	if err != nil {
		return nil, read, err
	}
	body := make([]byte, bin.Uint32(bs))
	n, err = db.readFill(r, body)
	read += int64(n)
	if err != nil {
		return nil, read, err
	}
	return body, read, nil
}

// load reads entries from the append only database file and fills the database.
func (db *DB) load() error {
	if err := db.readLoad(db.file); err != nil {
		return err
	}
	pos, err := db.file.Seek(0, 2)
	if err != nil {
		return errors.WithStack(err)
	}
	db.lastaofsz = int(pos)
	return nil
}

// managed calls a block of code that is fully contained in a transaction.
// This method is intended to be wrapped by Update and View
func (db *DB) managed(writable bool, fn func(tx *Tx) error) (err error) {
	var tx *Tx
	tx, err = db.Begin(writable)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			// The caller returned an error. We must rollback.
			_ = tx.Rollback()
			return
		}
		if writable {
			err = tx.Commit()
		} else {
			// read-only transaction can only roll back.
			err = tx.Rollback()
		}
	}()
	tx.funcd = true
	defer func() {
		tx.funcd = false
	}()
	err = fn(tx)
	return
}

// View executes a function within a managed read-only transaction.
//
// Executing a manual commit or rollback from inside the function will result
// in a panic.
func (db *DB) View(fn func(tx *Tx) error) error {
	return db.managed(false, fn)
}

// Update executes a function within a managed read/write transaction.
// The transaction has been committed when no error is returned.
// In the event that an error is returned, the transaction will be rolled back.
//
// Executing a manual commit or rollback from inside the function will result
// in a panic.
func (db *DB) Update(fn func(tx *Tx) error) error {
	return db.managed(true, fn)
}

// get return an item or nil if not found.
func (db *DB) get(key []byte) *dbItem {
	item := db.keys.Get(&dbItem{key: key})
	if item != nil {
		return item.(*dbItem)
	}
	return nil
}
