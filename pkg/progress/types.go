package progress

import "time"

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner redraws a single line with a spinning indicator
	StyleSpinner Style = "spinner"

	// StyleSimple prints one plain line per refresh, for logs and pipes
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed (empty = detect from the writer)
	Style Style

	// Width is the maximum line width (0 = auto-detect)
	Width int

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// HideAfterComplete clears the progress line when the search ends
	HideAfterComplete bool
}

// Status is a snapshot of the running search
type Status struct {
	Visited       int64
	Matched       int64
	DirsScanned   int64
	Queued        int
	Outstanding   int64
	ActiveWorkers int
}

// Source returns the current Status. It is polled from the render goroutine.
type Source func() Status

// Statistics holds values derived from a Status over time
type Statistics struct {
	StartTime   time.Time
	ElapsedTime time.Duration

	// Entries visited per second since Start
	VisitRate float64
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins periodic rendering with an initial message
	Start(message string)

	// Complete renders a final snapshot with message and stops rendering
	Complete(message string)

	// Stop stops rendering without a final snapshot
	Stop()

	// IsSupportedTerminal checks if the writer is an interactive terminal
	IsSupportedTerminal() bool
}
