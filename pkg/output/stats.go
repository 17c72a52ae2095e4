package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sonemaro/finditor/pkg/scanner"
	"gopkg.in/yaml.v3"
)

// Summary holds the totals reported at the end of the output
type Summary struct {
	Root        string        `json:"root" yaml:"root"`
	Visited     int64         `json:"visited" yaml:"visited"`
	Matched     int64         `json:"matched" yaml:"matched"`
	DirsScanned int64         `json:"dirsScanned" yaml:"dirsScanned"`
	DirErrors   int64         `json:"dirErrors" yaml:"dirErrors"`
	EntryErrors int64         `json:"entryErrors" yaml:"entryErrors"`
	Skipped     int64         `json:"skipped" yaml:"skipped"`
	Duration    time.Duration `json:"-" yaml:"-"`
	DurationMs  int64         `json:"durationMs" yaml:"durationMs"`
	Interrupted bool          `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

// NewSummary converts search totals to a Summary.
func NewSummary(r scanner.Result) Summary {
	return Summary{
		Root:        r.Root,
		Visited:     r.Visited,
		Matched:     r.Matched,
		DirsScanned: r.DirsScanned,
		DirErrors:   r.DirErrors,
		EntryErrors: r.EntryErrors,
		Skipped:     r.Skipped,
		Duration:    r.Duration,
		DurationMs:  r.Duration.Milliseconds(),
	}
}

func (s Summary) plain() []byte {
	return []byte(fmt.Sprintf("Done. visited=%d matched=%d\n", s.Visited, s.Matched))
}

func (s Summary) json() ([]byte, error) {
	b, err := json.Marshal(struct {
		Summary Summary `json:"summary"`
	}{s})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (s Summary) yaml() ([]byte, error) {
	return yaml.Marshal(struct {
		Summary Summary `yaml:"summary"`
	}{s})
}
