/*
Package scanner implements the parallel name search over a directory tree.

A search seeds a worker.Queue with the root directory and lets a fixed pool
of workers drain it. Each worker lists one directory, applies the exclusion
Filter and the name Matcher to every entry, reports matches to a Sink and
pushes subdirectories back onto the queue. The queue's Tracker closes it
when no directory is queued or being listed, at which point the workers exit
and Scan returns the totals.

Basic usage:

	m, _ := match.New(match.Options{Pattern: "*.go", Mode: match.ModeGlob})

	s, err := scanner.NewScanner(scanner.Config{
		Workers:  8,
		MaxDepth: -1,
		Excludes: []string{"/proc"},
	}, afero.NewOsFs(), m, sink, log)
	if err != nil {
		return err
	}

	result, err := s.Scan(ctx, "/")
*/
package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/match"
	"github.com/sonemaro/finditor/pkg/worker"
	"github.com/spf13/afero"
)

// Scanner defines the interface for search operations
type Scanner interface {
	// Scan searches the tree rooted at root and returns the totals once
	// every directory has been processed. If ctx is cancelled the queue stops
	// admitting directories, the pending ones are drained without being
	// listed, and ctx.Err() is returned along with the partial totals.
	Scan(ctx context.Context, root string) (Result, error)

	// Progress returns a snapshot of the running search
	Progress() Progress
}

type scanner struct {
	config  Config
	fs      afero.Fs
	lister  Lister
	matcher match.Matcher
	filter  *Filter
	sink    Sink
	log     logger.Logger
	stats   *Counters

	mu        sync.RWMutex
	pool      worker.Pool
	startTime time.Time
}

// NewScanner creates a Scanner over fs. Patterns in config are validated here.
func NewScanner(config Config, fs afero.Fs, matcher match.Matcher, sink Sink, log logger.Logger) (Scanner, error) {
	if config.Workers <= 0 {
		return nil, fmt.Errorf("invalid configuration: workers count must be positive")
	}
	if matcher == nil {
		return nil, fmt.Errorf("invalid configuration: matcher is required")
	}
	if sink == nil {
		sink = SinkFunc(func(Match) error { return nil })
	}

	filter, err := NewFilter(config.Excludes, config.Ignore)
	if err != nil {
		return nil, err
	}

	return &scanner{
		config:  config,
		fs:      fs,
		lister:  NewLister(fs, config.FollowSymlinks),
		matcher: matcher,
		filter:  filter,
		sink:    sink,
		log:     log,
		stats:   &Counters{},
	}, nil
}

// Scan performs the search
func (s *scanner) Scan(ctx context.Context, root string) (Result, error) {
	s.log.WithFields(logger.Fields{
		"root":     root,
		"workers":  s.config.Workers,
		"maxDepth": s.config.MaxDepth,
		"follow":   s.config.FollowSymlinks,
		"excludes": s.config.Excludes,
	}).Debug("Starting search")

	info, err := s.fs.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("root is not a directory: %s", root)
	}

	queue := worker.NewQueue()
	pool, err := worker.NewPool(worker.Config{
		Workers:   s.config.Workers,
		RateLimit: s.config.RateLimit,
	}, queue)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create worker pool: %w", err)
	}

	t := &traversal{
		scanner: s,
		queue:   queue,
	}
	if s.config.FollowSymlinks {
		t.firstVisit(root)
	}

	start := time.Now()
	s.mu.Lock()
	s.stats = &Counters{}
	s.pool = pool
	s.startTime = start
	s.mu.Unlock()

	queue.Push(worker.Task{Path: root})
	if err := pool.Start(ctx, t.scanDir); err != nil {
		return Result{}, fmt.Errorf("failed to start worker pool: %w", err)
	}

	// Cancellation closes the queue so no further directories are admitted;
	// whatever is already queued is drained without being listed.
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if err := pool.Stop(); err != nil {
				s.log.WithFields(logger.Fields{
					"error": err,
				}).Warn("Worker pool did not stop cleanly")
			}
		case <-finished:
		}
	}()

	poolStats := pool.Wait()
	close(finished)
	end := time.Now()

	stats := s.counters()
	result := Result{
		Root:        root,
		Visited:     stats.GetVisited(),
		Matched:     stats.GetMatched(),
		DirsScanned: stats.GetDirsScanned(),
		DirErrors:   stats.GetDirErrors(),
		EntryErrors: stats.GetEntryErrors(),
		Skipped:     stats.GetSkipped(),
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
	}

	s.log.WithFields(logger.Fields{
		"visited":     result.Visited,
		"matched":     result.Matched,
		"dirs":        result.DirsScanned,
		"dirErrors":   result.DirErrors,
		"entryErrors": result.EntryErrors,
		"skipped":     result.Skipped,
		"failedTasks": poolStats.FailedTasks,
		"duration":    result.Duration,
	}).Debug("Search completed")

	return result, ctx.Err()
}

// Progress returns the current search progress
func (s *scanner) Progress() Progress {
	s.mu.RLock()
	pool, start, stats := s.pool, s.startTime, s.stats
	s.mu.RUnlock()

	p := Progress{
		Visited:     stats.GetVisited(),
		Matched:     stats.GetMatched(),
		DirsScanned: stats.GetDirsScanned(),
		StartTime:   start,
	}
	if pool != nil {
		ps := pool.GetStats()
		p.Queued = ps.QueuedTasks
		p.Outstanding = ps.Outstanding
		p.ActiveWorkers = ps.ActiveWorkers
	}
	return p
}

func (s *scanner) counters() *Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// traversal is the state shared by the workers of one Scan.
type traversal struct {
	*scanner
	queue *worker.Queue
	seen  sync.Map
}

// scanDir lists one directory. It is the worker.Handler of the pool.
func (t *traversal) scanDir(ctx context.Context, task worker.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats := t.counters()
	entries, err := t.lister.List(task.Path)
	if err != nil && len(entries) == 0 {
		stats.AddDirErrors(1)
		t.log.WithFields(logger.Fields{
			"dir":   task.Path,
			"error": err,
		}).Debug("Directory skipped")
		return &ListError{Path: task.Path, Err: err}
	}
	stats.AddDirsScanned(1)

	childDepth := task.Depth + 1
	descend := t.config.MaxDepth < 0 || childDepth <= t.config.MaxDepth

	for _, e := range entries {
		full := filepath.Join(task.Path, e.Name)

		if t.filter.Excluded(full, e.Name) {
			stats.AddSkipped(1)
			continue
		}
		if e.Err != nil {
			stats.AddEntryErrors(1)
			t.log.WithFields(logger.Fields{
				"path":  full,
				"error": e.Err,
			}).Trace("Entry skipped")
			continue
		}

		stats.AddVisited(1)

		if t.matcher.Match(e.Name) {
			stats.AddMatched(1)
			m := Match{
				Path:      full,
				Name:      e.Name,
				IsDir:     e.IsDir,
				IsSymlink: e.IsSymlink,
				Depth:     childDepth,
			}
			if err := t.sink.Emit(m); err != nil {
				t.log.WithFields(logger.Fields{
					"path":  full,
					"error": err,
				}).Warn("Failed to emit match")
			}
		}

		if e.IsDir && descend && t.firstVisit(full) {
			t.queue.Push(worker.Task{Path: full, Depth: childDepth})
		}
	}

	if err != nil {
		stats.AddDirErrors(1)
		t.log.WithFields(logger.Fields{
			"dir":   task.Path,
			"error": err,
		}).Debug("Directory listing incomplete")
		return &ListError{Path: task.Path, Err: err}
	}
	return nil
}

// firstVisit records dir and reports whether it had not been seen before.
// Without symlink following every directory is reachable by one path only,
// so nothing is recorded.
func (t *traversal) firstVisit(dir string) bool {
	if !t.config.FollowSymlinks {
		return true
	}
	_, loaded := t.seen.LoadOrStore(dirIdentity(t.fs, dir), struct{}{})
	return !loaded
}
