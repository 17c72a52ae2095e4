package progress

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

type renderer interface {
	render(Status, string, Statistics) string
}

type spinnerRenderer struct {
	noColor bool
	frame   int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(status Status, message string, stats Statistics) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]

	if !r.noColor {
		spinner = fmt.Sprintf("\033[36m%s\033[0m", spinner) // Cyan
	}

	return fmt.Sprintf("%s %s %s", spinner, message, counters(status, stats))
}

type simpleRenderer struct{}

func (r *simpleRenderer) render(status Status, message string, stats Statistics) string {
	return fmt.Sprintf("%s %s", message, counters(status, stats))
}

func counters(status Status, stats Statistics) string {
	return fmt.Sprintf("visited %s | matched %s | dirs %s | queued %s | outstanding %s | in-flight %d | %s/s | %s",
		humanize.Comma(status.Visited),
		humanize.Comma(status.Matched),
		humanize.Comma(status.DirsScanned),
		humanize.Comma(int64(status.Queued)),
		humanize.Comma(status.Outstanding),
		status.ActiveWorkers,
		humanize.Comma(int64(stats.VisitRate)),
		formatDuration(stats.ElapsedTime))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// truncate shortens s to at most width visible runes, ignoring ANSI escapes.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}

	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			if visible >= width-1 {
				continue
			}
			visible++
		}
		b.WriteRune(r)
	}
	return b.String()
}
