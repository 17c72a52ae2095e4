/*
Package worker provides the concurrent engine behind the search: an unbounded
task Queue, the Tracker that decides when all work is finished, and a fixed
size Pool of goroutines draining the Queue.

Work is produced by the same workers that consume it, so the size of the
job is unknown up front. Termination is therefore driven by the Tracker's
outstanding count reaching zero, never by the Queue being momentarily empty.

Basic usage:

	q := worker.NewQueue()
	q.Push(worker.Task{Path: root})

	pool, err := worker.NewPool(worker.Config{Workers: 8}, q)
	if err != nil {
		return err
	}

	err = pool.Start(ctx, func(ctx context.Context, t worker.Task) error {
		// list t.Path, q.Push(child) for each subdirectory
		return nil
	})
	if err != nil {
		return err
	}

	stats := pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Handler processes one Task. Child Tasks must be pushed before it returns.
// A returned error marks the Task failed; it never stops the Pool.
type Handler func(ctx context.Context, t Task) error

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of Tasks started per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers. It may be called once.
	Start(ctx context.Context, h Handler) error

	// Wait blocks until every worker has exited, which happens only after
	// the Queue is closed and drained, and returns the final statistics.
	Wait() Stats

	// Stop closes the Queue so workers exit after draining what is left.
	Stop() error

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status
}

type pool struct {
	config  Config
	queue   *Queue
	limiter *rate.Limiter
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}

	startTime      time.Time
	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewPool creates a new worker pool draining q.
func NewPool(config Config, q *Queue) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("queue must not be nil")
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		queue:   q,
		limiter: limiter,
		done:    make(chan struct{}),
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func (p *pool) Start(ctx context.Context, h Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}
	if h == nil {
		return fmt.Errorf("handler must not be nil")
	}

	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, h)
	}

	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	return nil
}

func (p *pool) Wait() Stats {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()

	if started {
		<-p.done
	}
	return p.GetStats()
}

func (p *pool) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	p.queue.Close()
	if !started {
		return nil
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("shutdown timed out")
	}
}

func (p *pool) GetStats() Stats {
	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    p.queue.Len(),
		Outstanding:    p.queue.Tracker().Outstanding(),
		CompletedTasks: p.completedTasks.Load(),
		FailedTasks:    p.failedTasks.Load(),
		Status:         p.Status(),
		Uptime:         p.uptime(),
	}
}

func (p *pool) Status() Status {
	p.mu.Lock()
	started, stopped := p.started, p.stopped
	p.mu.Unlock()

	if !started {
		return StatusStopped
	}

	select {
	case <-p.done:
		return StatusStopped
	default:
	}

	if stopped || p.queue.Closed() {
		return StatusShuttingDown
	}
	if p.queue.Tracker().Outstanding() > 0 {
		return StatusProcessing
	}
	return StatusIdle
}

func (p *pool) uptime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startTime.IsZero() {
		return 0
	}
	return time.Since(p.startTime)
}

// worker drains the queue until it is closed and empty.
func (p *pool) worker(ctx context.Context, h Handler) {
	defer p.wg.Done()

	for {
		t, ok := p.queue.Pop()
		if !ok {
			return
		}
		p.run(ctx, h, t)
	}
}

// run executes one Task and always reports it done, whatever the outcome,
// so the outstanding count stays exact.
func (p *pool) run(ctx context.Context, h Handler, t Task) {
	p.activeWorkers.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.failedTasks.Add(1)
		}
		p.activeWorkers.Add(-1)
		p.queue.Done()
	}()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.failedTasks.Add(1)
			return
		}
	}

	if err := h(ctx, t); err != nil {
		p.failedTasks.Add(1)
		return
	}
	p.completedTasks.Add(1)
}
