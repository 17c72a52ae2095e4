package scanner

import (
	"sync/atomic"
	"time"
)

// Config contains scanner configuration options
type Config struct {
	// Workers is the number of concurrent directory scanners
	Workers int

	// MaxDepth limits how many levels below the root are listed (-1 for unlimited)
	MaxDepth int

	// FollowSymlinks descends into symbolic links that point at directories
	FollowSymlinks bool

	// Excludes are raw path prefixes; matching entries are neither counted nor traversed
	Excludes []string

	// Ignore are base name globs treated like Excludes
	Ignore []string

	// RateLimit caps directory listings per second (0 for unlimited)
	RateLimit int
}

// Entry is one item yielded by a directory listing.
type Entry struct {
	Name      string
	IsDir     bool
	IsSymlink bool

	// Err is set when the entry could not be queried; such entries are skipped.
	Err error
}

// Match is an entry whose name satisfied the matcher.
type Match struct {
	Path      string
	Name      string
	IsDir     bool
	IsSymlink bool
	Depth     int
}

// Sink receives matches. Emit is called concurrently from every worker.
type Sink interface {
	Emit(m Match) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m Match) error

// Emit calls f(m).
func (f SinkFunc) Emit(m Match) error {
	return f(m)
}

// Result contains the totals of a completed search
type Result struct {
	Root        string
	Visited     int64
	Matched     int64
	DirsScanned int64
	DirErrors   int64
	EntryErrors int64
	Skipped     int64
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// Progress is a point-in-time snapshot of a running search
type Progress struct {
	Visited       int64
	Matched       int64
	DirsScanned   int64
	Queued        int
	Outstanding   int64
	ActiveWorkers int
	StartTime     time.Time
}

// Counters holds the atomic counters shared by all workers
type Counters struct {
	visited     atomic.Int64
	matched     atomic.Int64
	dirsScanned atomic.Int64
	dirErrors   atomic.Int64
	entryErrors atomic.Int64
	skipped     atomic.Int64
}
