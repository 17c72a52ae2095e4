package worker

import "sync"

// Task is one pending directory scan.
type Task struct {
	// Path is the directory to enumerate.
	Path string

	// Depth is the number of directory levels below the search root.
	Depth int
}

// Queue is an unbounded FIFO of Tasks with blocking Pop and a close signal.
//
// Every admitted Task is counted by the Queue's Tracker before it becomes
// visible to Pop, and the Tracker closes the Queue when the count returns to
// zero. Once closed the Queue refuses new Tasks; Pop keeps handing out what
// is left and then reports that no work remains.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []Task
	head    int
	closed  bool
	tracker *Tracker
}

// NewQueue creates an empty Queue wired to a fresh Tracker.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	q.tracker = newTracker(q.Close)
	return q
}

// Tracker returns the termination coordinator for this Queue.
func (q *Queue) Tracker() *Tracker {
	return q.tracker
}

// Push admits t. It returns false, and does nothing, if the Queue is closed.
func (q *Queue) Push(t Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tracker.add()
	q.items = append(q.items, t)
	q.mu.Unlock()

	q.cond.Signal()
	return true
}

// Pop blocks until a Task is available or the Queue is closed and empty.
// The boolean is false only in the latter case.
func (q *Queue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.head == len(q.items) {
		return Task{}, false
	}

	t := q.items[q.head]
	q.items[q.head] = Task{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}

	return t, true
}

// Done reports that a popped Task, including all the Tasks it pushed, has
// been fully processed.
func (q *Queue) Done() {
	q.tracker.done()
}

// Close marks the Queue closed and wakes every blocked Pop. It is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Len returns the number of Tasks waiting to be popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
