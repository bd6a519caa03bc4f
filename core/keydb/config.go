// Package keydb came from buntdb that implements a low-level key/value store
// in pure Go. It keeps the whole data set in memory, persists to disk with an
// append only file, and uses locking for multiple readers and a single writer.
package keydb

// SyncPolicy represents how often data is synced to disk.
type SyncPolicy int

const (
	// Never is used to disable syncing data to disk.
	// The faster and less safe method.
	Never SyncPolicy = 0
	// EverySecond is used to sync data to disk every second.
	// It's pretty fast and you can lose 1 second of data if there
	// is a disaster. This is the default used for syncing.
	EverySecond SyncPolicy = 1
	// Always is used to sync data after every write to disk.
	// Slow. Very safe.
	Always SyncPolicy = 2
)

const btreeDegrees = 64

const (
	tagItemWriteSet = byte(0x01)
	tagItemWriteDel = byte(0x02)
	tagFlushDB      = byte(0x03)
	tagTxEnd        = byte(0x04)
)

// Config represents database configuration options. These
// options are used to change various behaviors of the database.
type Config struct {
	// SyncPolicy adjusts how often the data is synced to disk.
	// This value can be Never, EverySecond, or Always.
	// The default is EverySecond.
	SyncPolicy SyncPolicy

	// AutoShrinkPercentage is used by the background process to trigger
	// a shrink of the aof file when the size of the file is larger than the
	// percentage of the result of the previous shrunk file.
	// For example, if this value is 100, and the last shrink process
	// resulted in a 100mb file, then the new aof file must be 200mb before
	// a shrink is triggered.
	AutoShrinkPercentage int

	// AutoShrinkMinSize defines the minimum size of the aof file before
	// an automatic shrink can occur.
	AutoShrinkMinSize int

	// AutoShrinkDisabled turns off automatic background shrinking
	AutoShrinkDisabled bool
}
