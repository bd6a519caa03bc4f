package keydb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return db, path
}

func TestSetGetDelete(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.Update(func(tx *Tx) error {
		_, replaced, err := tx.Set([]byte("alpha"), []byte("one"))
		if err != nil {
			return err
		}
		if replaced {
			t.Error("fresh key reported as replaced")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.View(func(tx *Tx) error {
		data, err := tx.Get([]byte("alpha"))
		if err != nil {
			return err
		}
		if !bytes.Equal(data, []byte("one")) {
			t.Errorf("got %q, want %q", data, "one")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *Tx) error {
		prev, err := tx.Delete([]byte("alpha"))
		if err != nil {
			return err
		}
		if !bytes.Equal(prev, []byte("one")) {
			t.Errorf("deleted %q, want %q", prev, "one")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.View(func(tx *Tx) error {
		_, err := tx.Get([]byte("alpha"))
		if errors.Cause(err) != ErrNotFound {
			t.Errorf("got %v, want ErrNotFound", err)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestOverwriteReturnsPrevious(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.Update(func(tx *Tx) error {
		if _, _, err := tx.Set([]byte("k"), []byte("old")); err != nil {
			return err
		}
		prev, replaced, err := tx.Set([]byte("k"), []byte("new"))
		if err != nil {
			return err
		}
		if !replaced || !bytes.Equal(prev, []byte("old")) {
			t.Errorf("got (%q, %v), want (old, true)", prev, replaced)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestRollbackOnError(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	boom := errors.New("boom")
	err := db.Update(func(tx *Tx) error {
		if _, _, err := tx.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return boom
	})
	if errors.Cause(err) != boom {
		t.Fatalf("got %v, want boom", err)
	}

	if err := db.View(func(tx *Tx) error {
		if _, err := tx.Get([]byte("k")); errors.Cause(err) != ErrNotFound {
			t.Errorf("rolled back key still present: %v", err)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestReadOnlyTxCannotWrite(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.View(func(tx *Tx) error {
		if _, _, err := tx.Set([]byte("k"), []byte("v")); errors.Cause(err) != ErrTxNotWritable {
			t.Errorf("got %v, want ErrTxNotWritable", err)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	db, path := openTestDB(t)

	if err := db.Update(func(tx *Tx) error {
		for i := 0; i < 100; i++ {
			key := []byte(fmt.Sprintf("key%03d", i))
			if _, _, err := tx.Set(key, []byte(fmt.Sprintf("value%03d", i))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.Update(func(tx *Tx) error {
		_, err := tx.Delete([]byte("key050"))
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.View(func(tx *Tx) error {
		data, err := tx.Get([]byte("key007"))
		if err != nil {
			return err
		}
		if !bytes.Equal(data, []byte("value007")) {
			t.Errorf("got %q, want value007", data)
		}
		if _, err := tx.Get([]byte("key050")); errors.Cause(err) != ErrNotFound {
			t.Errorf("deleted key survived reopen: %v", err)
		}
		n, err := tx.Len()
		if err != nil {
			return err
		}
		if n != 99 {
			t.Errorf("got %d keys, want 99", n)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestTruncatedTailIsDiscarded(t *testing.T) {
	db, path := openTestDB(t)

	if err := db.Update(func(tx *Tx) error {
		_, _, err := tx.Set([]byte("committed"), []byte("yes"))
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// simulate a crash mid-write by appending half a record
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte{tagItemWriteSet, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.View(func(tx *Tx) error {
		data, err := tx.Get([]byte("committed"))
		if err != nil {
			return err
		}
		if !bytes.Equal(data, []byte("yes")) {
			t.Errorf("got %q, want yes", data)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestIteratePrefix(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.Update(func(tx *Tx) error {
		for _, key := range []string{"a1", "a2", "a3", "b1", "b2"} {
			if _, _, err := tx.Set([]byte(key), []byte(key)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	var keys []string
	if err := db.View(func(tx *Tx) error {
		return tx.Iterate([]byte("a"), func(key []byte, data []byte) error {
			keys = append(keys, string(key))
			return nil
		})
	}); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 || keys[0] != "a1" || keys[2] != "a3" {
		t.Errorf("got %v, want [a1 a2 a3]", keys)
	}
}

func TestShrinkKeepsData(t *testing.T) {
	db, path := openTestDB(t)

	// rewrite the same keys many times so the log carries dead entries
	for round := 0; round < 20; round++ {
		if err := db.Update(func(tx *Tx) error {
			for i := 0; i < 50; i++ {
				key := []byte(fmt.Sprintf("key%02d", i))
				if _, _, err := tx.Set(key, []byte(fmt.Sprintf("round%02d", round))); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Shrink(); err != nil {
		t.Fatal(err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Size() >= before.Size() {
		t.Errorf("log did not shrink: %d -> %d", before.Size(), after.Size())
	}

	if err := db.View(func(tx *Tx) error {
		data, err := tx.Get([]byte("key25"))
		if err != nil {
			return err
		}
		if !bytes.Equal(data, []byte("round19")) {
			t.Errorf("got %q, want round19", data)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// the shrunk log must still load
	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.View(func(tx *Tx) error {
		n, err := tx.Len()
		if err != nil {
			return err
		}
		if n != 50 {
			t.Errorf("got %d keys, want 50", n)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}
