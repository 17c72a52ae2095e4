package worker

import "time"

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle indicates the pool is running but no task is queued or in flight
	StatusIdle Status = "idle"

	// StatusProcessing indicates the pool is actively processing tasks
	StatusProcessing Status = "processing"

	// StatusShuttingDown indicates the queue is closed and workers are exiting
	StatusShuttingDown Status = "shutting_down"

	// StatusStopped indicates the pool is not running
	StatusStopped Status = "stopped"
)

// Stats provides runtime statistics about the worker pool
type Stats struct {
	// ActiveWorkers is the number of workers currently processing tasks
	ActiveWorkers int

	// QueuedTasks is the number of tasks waiting to be processed
	QueuedTasks int

	// Outstanding is queued plus in-flight tasks
	Outstanding int64

	// CompletedTasks is the number of tasks that have been processed
	CompletedTasks int64

	// FailedTasks is the number of tasks whose handler returned an error
	FailedTasks int64

	// Status is the current state of the pool
	Status Status

	// Uptime is how long the pool has been running
	Uptime time.Duration
}
