package worker

import (
	"sync"
	"sync/atomic"
)

// Tracker counts outstanding Tasks: queued plus in flight.
//
// The count is raised before a Task becomes visible and lowered only after
// the Task's scan, including every child push, has finished. The transition
// to zero is the only termination signal: it fires the close callback
// exactly once.
type Tracker struct {
	outstanding atomic.Int64
	once        sync.Once
	onIdle      func()
}

func newTracker(onIdle func()) *Tracker {
	return &Tracker{onIdle: onIdle}
}

func (t *Tracker) add() {
	t.outstanding.Add(1)
}

func (t *Tracker) done() {
	n := t.outstanding.Add(-1)
	if n < 0 {
		panic("worker: Done called more times than Tasks were pushed")
	}
	if n == 0 {
		t.once.Do(func() {
			if t.onIdle != nil {
				t.onIdle()
			}
		})
	}
}

// Outstanding returns the current number of unfinished Tasks.
func (t *Tracker) Outstanding() int64 {
	return t.outstanding.Load()
}
