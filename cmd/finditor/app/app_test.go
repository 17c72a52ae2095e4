package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/sonemaro/finditor/internal/config"
	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/match"
	"github.com/sonemaro/finditor/pkg/output"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(pattern string) config.Config {
	return config.Config{
		Pattern:  pattern,
		Path:     "/root",
		Workers:  4,
		Mode:     match.ModeLiteral,
		MaxDepth: -1,
		Output:   output.FormatPlain,
	}
}

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range []string{"/root/a.txt", "/root/sub/b.TXT", "/root/sub/a.txt", "/root/excluded/a.txt"} {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0644))
	}
	return fs
}

func newTestApp(t *testing.T, cfg config.Config, opts Options) (*App, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	opts.Stdout = &stdout
	if opts.Stderr == nil {
		opts.Stderr = &bytes.Buffer{}
	}
	if opts.Fs == nil {
		opts.Fs = testFs(t)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.LockPath == "" {
		opts.LockPath = filepath.Join(t.TempDir(), LockFileName)
	}
	a := New(cfg, opts)
	t.Cleanup(func() { a.Shutdown() })
	return a, &stdout
}

func TestAppRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	cfg := testConfig("a.txt")
	cfg.Excludes = []string{"/root/excluded"}

	a, stdout := newTestApp(t, cfg, Options{})
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.Visited)
	assert.Equal(t, int64(2), result.Matched)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.ElementsMatch(t, []string{"/root/a.txt", "/root/sub/a.txt"}, lines[:2])
	assert.Equal(t, "Done. visited=4 matched=2", lines[2])
}

func TestAppRunQuietByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	cfg := testConfig("a.txt")
	cfg.LogFormat = logger.EncodingJSON

	var stdout, stderr bytes.Buffer
	a := New(cfg, Options{
		Stdout:   &stdout,
		Stderr:   &stderr,
		Fs:       testFs(t),
		LockPath: filepath.Join(t.TempDir(), LockFileName),
	})
	t.Cleanup(func() { a.Shutdown() })

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Done. visited=6 matched=3")
	assert.Empty(t, stderr.String(), "a default run should not log")
}

func TestAppRunJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	cfg := testConfig("*.txt")
	cfg.Mode = match.ModeGlob
	cfg.IgnoreCase = true
	cfg.Output = output.FormatJSON

	a, stdout := newTestApp(t, cfg, Options{})
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)

	var last struct {
		Summary output.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[4]), &last))
	assert.Equal(t, int64(4), last.Summary.Matched)
	assert.Equal(t, int64(6), last.Summary.Visited)
}

func TestAppStartupErrors(t *testing.T) {
	t.Run("invalid regex", func(t *testing.T) {
		cfg := testConfig("(abc")
		cfg.Mode = match.ModeRegex
		a, stdout := newTestApp(t, cfg, Options{})
		_, err := a.Run(context.Background())
		assert.ErrorIs(t, err, match.ErrInvalidPattern)
		assert.Empty(t, stdout.String())
	})

	t.Run("missing root", func(t *testing.T) {
		cfg := testConfig("a.txt")
		cfg.Path = "/nope"
		a, stdout := newTestApp(t, cfg, Options{})
		_, err := a.Run(context.Background())
		assert.ErrorContains(t, err, "search failed")
		assert.Empty(t, stdout.String())
	})

	t.Run("not elevated", func(t *testing.T) {
		cfg := testConfig("a.txt")
		cfg.RequireElevation = true
		a, _ := newTestApp(t, cfg, Options{Elevated: func() (bool, error) { return false, nil }})
		_, err := a.Run(context.Background())
		assert.ErrorIs(t, err, ErrNotElevated)
	})

	t.Run("elevation check fails", func(t *testing.T) {
		cfg := testConfig("a.txt")
		cfg.RequireElevation = true
		a, _ := newTestApp(t, cfg, Options{Elevated: func() (bool, error) { return false, errors.New("no token") }})
		_, err := a.Run(context.Background())
		assert.ErrorContains(t, err, "no token")
	})

	t.Run("elevated", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("memory tree uses unix paths")
		}
		cfg := testConfig("a.txt")
		cfg.RequireElevation = true
		a, _ := newTestApp(t, cfg, Options{Elevated: func() (bool, error) { return true, nil }})
		_, err := a.Run(context.Background())
		assert.NoError(t, err)
	})
}

func TestAppExclusiveLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	lockPath := filepath.Join(t.TempDir(), LockFileName)
	cfg := testConfig("a.txt")
	cfg.Exclusive = true

	held := flock.New(lockPath)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	a, _ := newTestApp(t, cfg, Options{LockPath: lockPath})
	_, err = a.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, held.Unlock())

	b, _ := newTestApp(t, cfg, Options{LockPath: lockPath})
	_, err = b.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Shutdown())

	again := flock.New(lockPath)
	locked, err = again.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "lock should be released by Shutdown")
	require.NoError(t, again.Unlock())
}

func TestAppInterrupted(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	a, stdout := newTestApp(t, testConfig("a.txt"), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Contains(t, stdout.String(), "Done. visited=0 matched=0")
}

func TestAppProgress(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("memory tree uses unix paths")
	}

	var stderr bytes.Buffer
	cfg := testConfig("a.txt")
	cfg.Progress = true

	a, stdout := newTestApp(t, cfg, Options{Stderr: &stderr})
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "Done visited 6")
	assert.NotContains(t, stdout.String(), "visited 6 |")
}

func TestHandleSignals(t *testing.T) {
	a, _ := newTestApp(t, testConfig("a.txt"), Options{})

	var exitCode atomic.Int32
	exitCode.Store(-1)
	a.exit = func(code int) { exitCode.Store(int32(code)) }

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		a.handleSignals(sigChan, done, cancel, &signalState{})
		close(finished)
	}()

	sigChan <- syscall.SIGINT
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("first signal did not cancel the search")
	}
	assert.Equal(t, int32(-1), exitCode.Load())

	sigChan <- syscall.SIGTERM
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("second signal did not force exit")
	}
	assert.Equal(t, int32(130), exitCode.Load())
}

func TestResolveRoot(t *testing.T) {
	a := New(testConfig("x"), Options{Fs: afero.NewOsFs(), Logger: logger.NewNop()})
	root, err := a.resolveRoot(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root))

	mem := New(testConfig("x"), Options{Fs: afero.NewMemMapFs(), Logger: logger.NewNop()})
	root, err = mem.resolveRoot("rel")
	require.NoError(t, err)
	assert.Equal(t, "rel", root)
}
