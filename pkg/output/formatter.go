/*
Package output writes search results as they are found. Matches arrive
concurrently from every worker; the Writer serializes them so each record
reaches the underlying stream whole, never interleaved mid-line.

Three formats are supported:

	plain  one path per line, then "Done. visited=N matched=M"
	json   one JSON object per match (NDJSON), then a {"summary": ...} object
	yaml   a "matches:" sequence streamed entry by entry, then a "summary:" mapping

Basic usage:

	w := output.NewWriter(os.Stdout, output.Config{
		Format:    output.FormatPlain,
		Colors:    output.IsTerminal(os.Stdout),
		AutoFlush: output.IsTerminal(os.Stdout),
	}, log)

	// pass w as the scanner.Sink, then
	err := w.Summary(output.NewSummary(result))
*/
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/scanner"
)

// Format represents the output format type
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Config holds writer configuration
type Config struct {
	Format Format

	// Colors highlights matched names in plain output
	Colors bool

	// AutoFlush flushes after every record, for interactive terminals
	AutoFlush bool
}

// Writer is a scanner.Sink that renders matches in the configured format.
// It is safe for concurrent use.
type Writer struct {
	config Config
	log    logger.Logger

	mu       sync.Mutex
	buf      *bufio.Writer
	err      error
	records  int64
	finished bool

	dirColor  *color.Color
	nameColor *color.Color
}

var _ scanner.Sink = (*Writer)(nil)

// NewWriter creates a Writer on out. An unknown format falls back to plain.
func NewWriter(out io.Writer, config Config, log logger.Logger) *Writer {
	if _, err := ParseFormat(string(config.Format)); err != nil {
		log.WithFields(logger.Fields{
			"format": config.Format,
		}).Warn("Unknown output format, using plain")
		config.Format = FormatPlain
	}
	if config.Format == "" {
		config.Format = FormatPlain
	}

	w := &Writer{
		config:    config,
		log:       log,
		buf:       bufio.NewWriter(out),
		dirColor:  color.New(color.FgBlue, color.Bold),
		nameColor: color.New(color.FgGreen, color.Bold),
	}
	if config.Colors {
		w.dirColor.EnableColor()
		w.nameColor.EnableColor()
	} else {
		w.dirColor.DisableColor()
		w.nameColor.DisableColor()
	}
	return w
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Emit writes one match record.
func (w *Writer) Emit(m scanner.Match) error {
	var record []byte
	var err error

	switch w.config.Format {
	case FormatJSON:
		record, err = jsonRecord(m)
	case FormatYAML:
		record, err = yamlRecord(m)
	default:
		record = w.plainRecord(m)
	}
	if err != nil {
		return fmt.Errorf("failed to encode match %s: %w", m.Path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return fmt.Errorf("writer already finished")
	}
	if w.records == 0 && w.config.Format == FormatYAML {
		w.write([]byte(yamlMatchesKey))
	}
	w.records++
	w.write(record)
	if w.config.AutoFlush {
		w.flush()
	}
	return w.err
}

// Summary writes the closing record and flushes. Matches emitted afterwards
// are rejected.
func (w *Writer) Summary(s Summary) error {
	var record []byte
	var err error

	switch w.config.Format {
	case FormatJSON:
		record, err = s.json()
	case FormatYAML:
		record, err = s.yaml()
	default:
		record = s.plain()
	}
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return nil
	}
	w.finished = true

	if w.records == 0 && w.config.Format == FormatYAML {
		w.write([]byte(yamlEmptyMatches))
	}
	w.write(record)
	w.flush()

	w.log.WithFields(logger.Fields{
		"format":  w.config.Format,
		"records": w.records,
	}).Debug("Output finished")

	return w.err
}

// Flush writes any buffered records to the underlying stream.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flush()
	return w.err
}

// Records returns the number of match records written so far.
func (w *Writer) Records() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records
}

// write and flush keep the first error; later writes are dropped.
func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.buf.Write(p); err != nil {
		w.err = err
	}
}

func (w *Writer) flush() {
	if w.err != nil {
		return
	}
	if err := w.buf.Flush(); err != nil {
		w.err = err
	}
}
