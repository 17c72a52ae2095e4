/*
Package progress renders a periodic snapshot of a running search.

The search itself never reports to this package. A Source function is polled
on every tick and the result is drawn on a single status line. Terminals get
a redrawn spinner line; other writers get one plain line per refresh.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/finditor/pkg/logger"
	"golang.org/x/term"
)

const defaultRefreshRate = 200 * time.Millisecond

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer
	source Source

	// State
	startTime time.Time
	message   string
	isActive  bool
	drawn     bool

	// Rendering
	renderer renderer
	width    int
	terminal bool

	// Synchronization
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a progress renderer writing to w. Progress is best kept off
// the result stream, so w is normally os.Stderr.
func New(config Config, source Source, w io.Writer, log logger.Logger) Progress {
	if config.RefreshRate <= 0 {
		config.RefreshRate = defaultRefreshRate
	}

	p := &progress{
		config: config,
		log:    log,
		writer: w,
		source: source,
	}
	p.terminal = p.IsSupportedTerminal()

	if p.config.Style == "" {
		if p.terminal {
			p.config.Style = StyleSpinner
		} else {
			p.config.Style = StyleSimple
		}
	}

	if p.config.Width == 0 {
		p.width = p.getTerminalWidth()
	} else {
		p.width = p.config.Width
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":    p.config.Style,
		"width":    p.width,
		"terminal": p.terminal,
		"noColor":  p.config.NoColor,
		"refresh":  p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isActive {
		return
	}

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.isActive = true
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})

	go p.renderLoop(p.stopChan, p.doneChan)
}

func (p *progress) Complete(message string) {
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Completing progress")

	p.message = message
	if p.startTime.IsZero() {
		p.startTime = time.Now()
	}
	p.render()

	if p.config.HideAfterComplete {
		p.clearLine()
	} else if p.terminal {
		fmt.Fprint(p.writer, "\n")
	}
	p.drawn = false
}

func (p *progress) Stop() {
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("Stopping progress")
	if p.drawn {
		p.clearLine()
		p.drawn = false
	}
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// halt ends the render loop, if running, and waits for it to exit.
func (p *progress) halt() {
	p.mu.Lock()
	if !p.isActive {
		p.mu.Unlock()
		return
	}
	p.isActive = false
	stop, done := p.stopChan, p.doneChan
	p.mu.Unlock()

	close(stop)
	<-done
}

func (p *progress) renderLoop(stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.render()
			p.mu.Unlock()
		}
	}
}

func (p *progress) render() {
	status := p.source()
	line := p.renderer.render(status, p.message, p.calculateStats(status))
	line = truncate(line, p.width)

	if p.terminal {
		p.clearLine()
		fmt.Fprint(p.writer, line)
	} else {
		fmt.Fprintln(p.writer, line)
	}
	p.drawn = true
}

func (p *progress) clearLine() {
	if p.terminal {
		fmt.Fprint(p.writer, "\r\033[K")
	}
}

func (p *progress) getTerminalWidth() int {
	if f, ok := p.writer.(*os.File); ok && p.terminal {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func (p *progress) calculateStats(status Status) Statistics {
	elapsed := time.Since(p.startTime)

	stats := Statistics{
		StartTime:   p.startTime,
		ElapsedTime: elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		stats.VisitRate = float64(status.Visited) / secs
	}
	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSpinner:
		return &spinnerRenderer{noColor: p.config.NoColor}
	default:
		return &simpleRenderer{}
	}
}
