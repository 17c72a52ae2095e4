/*
Package app wires the finditor components together for one search run.

The container builds the logger from the configuration, applies the startup
gates (elevation and the single instance lock), then connects the matcher,
the output writer, the scanner and the optional progress line, runs the
search and reports the totals.

Usage:

	a := app.New(cfg, app.Options{})
	defer a.Shutdown()

	if _, err := a.Run(ctx); err != nil {
	    return err
	}
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/gofrs/flock"
	"github.com/sonemaro/finditor/internal/config"
	"github.com/sonemaro/finditor/internal/privilege"
	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/match"
	"github.com/sonemaro/finditor/pkg/output"
	"github.com/sonemaro/finditor/pkg/progress"
	"github.com/sonemaro/finditor/pkg/scanner"
	"github.com/spf13/afero"
)

var (
	// ErrNotElevated is returned when elevation is required but missing.
	ErrNotElevated = errors.New("administrator privileges required")

	// ErrAlreadyRunning is returned when the exclusive lock is held elsewhere.
	ErrAlreadyRunning = errors.New("another instance is already running")

	// ErrInterrupted is returned when the search was stopped by a signal.
	ErrInterrupted = errors.New("search interrupted")
)

// LockFileName is created in the temporary directory by exclusive runs.
const LockFileName = "finditor.lock"

// Options holds the collaborators of an App. Zero values select the
// production implementations.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// Fs is the filesystem searched (default: the OS filesystem)
	Fs afero.Fs

	// Logger overrides the logger built from the configuration
	Logger logger.Logger

	// Elevated reports administrator rights (default: privilege.IsElevated)
	Elevated func() (bool, error)

	// LockPath is the exclusive lock file (default: $TMPDIR/finditor.lock)
	LockPath string
}

// App represents the main application container
type App struct {
	config config.Config
	opts   Options
	log    logger.Logger

	progress progress.Progress
	writer   *output.Writer
	lock     *flock.Flock

	exit func(code int)
	mu   sync.Mutex
}

// New creates a new application instance
func New(cfg config.Config, opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Elevated == nil {
		opts.Elevated = privilege.IsElevated
	}
	if opts.LockPath == "" {
		opts.LockPath = filepath.Join(os.TempDir(), LockFileName)
	}

	a := &App{
		config: cfg,
		opts:   opts,
		log:    opts.Logger,
		exit:   os.Exit,
	}
	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: cfg.Verbose,
			Encoding:  cfg.LogFormat,
			Output:    opts.Stderr,
		})
	}

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return a
}

// Run executes the search and writes the results. A search stopped by
// cancellation or a signal still writes its partial summary and returns
// ErrInterrupted.
func (a *App) Run(ctx context.Context) (result scanner.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if a.config.ModeConflict {
		a.log.Warn("Both --glob and --regex given, using regex")
	}

	if err := a.checkElevation(); err != nil {
		return scanner.Result{}, err
	}

	if a.config.Exclusive {
		if err := a.acquireLock(); err != nil {
			return scanner.Result{}, err
		}
	}

	matcher, err := match.New(match.Options{
		Pattern:    a.config.Pattern,
		Mode:       a.config.Mode,
		IgnoreCase: a.config.IgnoreCase,
	})
	if err != nil {
		return scanner.Result{}, err
	}

	root, err := a.resolveRoot(a.config.Path)
	if err != nil {
		return scanner.Result{}, err
	}

	a.initOutput()
	s, err := a.newScanner(matcher)
	if err != nil {
		return scanner.Result{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopSignals := a.setupSignalHandling(cancel)
	defer stopSignals()

	if a.config.Progress {
		a.mu.Lock()
		a.progress = progress.New(progress.Config{
			NoColor: a.config.NoColor,
		}, progressSource(s), a.opts.Stderr, a.log.Named("progress"))
		a.mu.Unlock()
		a.progress.Start("Searching")
	}

	result, err = s.Scan(ctx, root)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		a.stopProgress()
		return result, fmt.Errorf("search failed: %w", err)
	}

	if a.progress != nil {
		if interrupted {
			a.progress.Stop()
		} else {
			a.progress.Complete("Done")
		}
	}

	summary := output.NewSummary(result)
	summary.Interrupted = interrupted
	if werr := a.writer.Summary(summary); werr != nil {
		a.log.WithFields(logger.Fields{
			"error": werr,
		}).Error("Failed to write results")
		if !interrupted {
			return result, fmt.Errorf("failed to write output: %w", werr)
		}
	}

	a.log.WithFields(logger.Fields{
		"root":        result.Root,
		"visited":     result.Visited,
		"matched":     result.Matched,
		"dirErrors":   result.DirErrors,
		"entryErrors": result.EntryErrors,
		"duration":    result.Duration,
		"interrupted": interrupted,
	}).Debug("Search finished")

	if interrupted {
		return result, ErrInterrupted
	}
	return result, nil
}

// Shutdown releases the lock, stops progress rendering and flushes logs.
func (a *App) Shutdown() error {
	a.stopProgress()

	a.mu.Lock()
	lock := a.lock
	a.lock = nil
	a.mu.Unlock()

	if lock != nil {
		if err := lock.Unlock(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
				"path":  lock.Path(),
			}).Warn("Failed to release lock")
		} else {
			a.log.Debug("Lock released")
		}
	}

	// Sync fails on terminals and pipes on some platforms
	_ = a.log.Sync()
	return nil
}

// initOutput creates the result writer. Colors and per-line flushing are
// enabled only when stdout is a terminal.
func (a *App) initOutput() {
	tty := output.IsTerminal(a.opts.Stdout)
	a.writer = output.NewWriter(a.opts.Stdout, output.Config{
		Format:    a.config.Output,
		Colors:    tty && !a.config.NoColor,
		AutoFlush: tty,
	}, a.log.Named("output"))

	a.log.WithFields(logger.Fields{
		"format":   a.config.Output,
		"terminal": tty,
	}).Debug("Output initialized")
}

func (a *App) newScanner(matcher match.Matcher) (scanner.Scanner, error) {
	return scanner.NewScanner(scanner.Config{
		Workers:        a.config.Workers,
		MaxDepth:       a.config.MaxDepth,
		FollowSymlinks: a.config.FollowSymlinks,
		Excludes:       a.config.Excludes,
		Ignore:         a.config.IgnorePatterns,
		RateLimit:      a.config.RateLimit,
	}, a.opts.Fs, matcher, a.writer, a.log.Named("scanner"))
}

func progressSource(s scanner.Scanner) progress.Source {
	return func() progress.Status {
		p := s.Progress()
		return progress.Status{
			Visited:       p.Visited,
			Matched:       p.Matched,
			DirsScanned:   p.DirsScanned,
			Queued:        p.Queued,
			Outstanding:   p.Outstanding,
			ActiveWorkers: p.ActiveWorkers,
		}
	}
}

func (a *App) stopProgress() {
	a.mu.Lock()
	p := a.progress
	a.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

func (a *App) checkElevation() error {
	if !a.config.RequireElevation {
		return nil
	}
	elevated, err := a.opts.Elevated()
	if err != nil {
		return fmt.Errorf("failed to check privileges: %w", err)
	}
	if !elevated {
		return ErrNotElevated
	}
	return nil
}

// resolveRoot makes path absolute so every printed match is absolute.
func (a *App) resolveRoot(path string) (string, error) {
	if _, ok := a.opts.Fs.(*afero.OsFs); !ok {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}

// acquireLock takes a non-blocking lock so concurrent exclusive runs fail fast
func (a *App) acquireLock() error {
	a.log.WithFields(logger.Fields{
		"path": a.opts.LockPath,
	}).Debug("Attempting to acquire lock")

	lock := flock.New(a.opts.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", a.opts.LockPath, err)
	}
	if !locked {
		return ErrAlreadyRunning
	}

	a.mu.Lock()
	a.lock = lock
	a.mu.Unlock()
	return nil
}
