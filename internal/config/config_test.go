package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/match"
	"github.com/sonemaro/finditor/pkg/output"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("fn", "", "")
	fs.StringP("path", "p", DefaultPath, "")
	fs.IntP("threads", "t", 0, "")
	fs.Bool("glob", false, "")
	fs.Bool("regex", false, "")
	fs.Bool("ignore-case", false, "")
	fs.BoolP("follow-symlinks", "L", false, "")
	fs.StringArrayP("exclude", "e", nil, "")
	fs.StringArrayP("ignore", "i", nil, "")
	fs.IntP("max-depth", "d", UnlimitedDepth, "")
	fs.Bool("progress", false, "")
	fs.StringP("output", "o", "plain", "")
	fs.Bool("no-color", false, "")
	fs.CountP("verbose", "v", "")
	fs.Int("rate-limit", 0, "")
	return fs
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
		wantErr  error
		errMsg   string
	}{
		{
			name:    "missing pattern",
			wantErr: ErrMissingPattern,
		},
		{
			name:    "default configuration",
			envVars: map[string]string{"FINDITOR_PATTERN": "a.txt"},
			expected: Config{
				Pattern:          "a.txt",
				Path:             DefaultPath,
				Workers:          runtime.NumCPU(),
				Mode:             match.ModeLiteral,
				Excludes:         []string{},
				IgnorePatterns:   []string{},
				MaxDepth:         -1,
				Output:           output.FormatPlain,
				LogFormat:        logger.EncodingJSON,
				RequireElevation: true,
			},
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"FINDITOR_PATTERN":           "*.go",
				"FINDITOR_PATH":              "/src",
				"FINDITOR_THREADS":           "4",
				"FINDITOR_MODE":              "glob",
				"FINDITOR_IGNORE_CASE":       "true",
				"FINDITOR_FOLLOW_SYMLINKS":   "1",
				"FINDITOR_EXCLUDE":           "/proc, /sys",
				"FINDITOR_IGNORE":            ".git,node_modules,",
				"FINDITOR_MAX_DEPTH":         "3",
				"FINDITOR_PROGRESS":          "true",
				"FINDITOR_OUTPUT":            "json",
				"FINDITOR_NO_COLOR":          "true",
				"FINDITOR_VERBOSE":           "vv",
				"FINDITOR_LOG_FORMAT":        "console",
				"FINDITOR_RATE_LIMIT":        "100",
				"FINDITOR_EXCLUSIVE":         "true",
				"FINDITOR_REQUIRE_ELEVATION": "false",
			},
			expected: Config{
				Pattern:        "*.go",
				Path:           "/src",
				Workers:        4,
				Mode:           match.ModeGlob,
				IgnoreCase:     true,
				FollowSymlinks: true,
				Excludes:       []string{"/proc", "/sys"},
				IgnorePatterns: []string{".git", "node_modules"},
				MaxDepth:       3,
				Progress:       true,
				Output:         output.FormatJSON,
				NoColor:        true,
				Verbose:        2,
				LogFormat:      logger.EncodingConsole,
				RateLimit:      100,
				Exclusive:      true,
			},
		},
		{
			name:    "numeric verbosity",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_VERBOSE": "3"},
			expected: Config{
				Pattern:          "x",
				Path:             DefaultPath,
				Workers:          runtime.NumCPU(),
				Mode:             match.ModeLiteral,
				Excludes:         []string{},
				IgnorePatterns:   []string{},
				MaxDepth:         -1,
				Output:           output.FormatPlain,
				Verbose:          3,
				LogFormat:        logger.EncodingJSON,
				RequireElevation: true,
			},
		},
		{
			name:    "invalid verbosity",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_VERBOSE": "loud"},
			errMsg:  "invalid verbosity level",
		},
		{
			name:    "negative threads",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_THREADS": "-1"},
			errMsg:  "threads must be non-negative",
		},
		{
			name:    "too many threads",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_THREADS": "1025"},
			errMsg:  "threads cannot exceed 1024",
		},
		{
			name:    "invalid max depth",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_MAX_DEPTH": "-2"},
			errMsg:  "max depth must be -1 (unlimited) or non-negative",
		},
		{
			name:    "invalid rate limit",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_RATE_LIMIT": "-5"},
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "invalid mode",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_MODE": "fuzzy"},
			errMsg:  "unknown match mode",
		},
		{
			name:    "invalid output",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_OUTPUT": "tree"},
			errMsg:  "invalid output format: must be one of [plain json yaml]",
		},
		{
			name:    "invalid log format",
			envVars: map[string]string{"FINDITOR_PATTERN": "x", "FINDITOR_LOG_FORMAT": "xml"},
			errMsg:  "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(nil, "")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				assert.ErrorContains(t, err, tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expected, cfg)
			}
		})
	}
}

func TestConfigFromFlags(t *testing.T) {
	t.Setenv("FINDITOR_THREADS", "2")
	t.Setenv("FINDITOR_OUTPUT", "yaml")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{
		"--fn", "main.go",
		"-p", "/repo",
		"-t", "8",
		"--ignore-case",
		"-e", "/repo/vendor",
		"-e", "/repo/.git",
		"-i", "*.tmp",
		"-d", "2",
		"-vv",
	}))

	cfg, err := Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "main.go", cfg.Pattern)
	assert.Equal(t, "/repo", cfg.Path)
	assert.Equal(t, 8, cfg.Workers, "flag should beat environment")
	assert.Equal(t, output.FormatYAML, cfg.Output, "environment should beat flag default")
	assert.True(t, cfg.IgnoreCase)
	assert.Equal(t, []string{"/repo/vendor", "/repo/.git"}, cfg.Excludes)
	assert.Equal(t, []string{"*.tmp"}, cfg.IgnorePatterns)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, 2, cfg.Verbose)
	assert.Equal(t, match.ModeLiteral, cfg.Mode)
	assert.False(t, cfg.ModeConflict)
}

func TestConfigModeFlags(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantMode     match.Mode
		wantConflict bool
	}{
		{name: "literal by default", args: nil, wantMode: match.ModeLiteral},
		{name: "glob", args: []string{"--glob"}, wantMode: match.ModeGlob},
		{name: "regex", args: []string{"--regex"}, wantMode: match.ModeRegex},
		{name: "regex wins over glob", args: []string{"--glob", "--regex"}, wantMode: match.ModeRegex, wantConflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testFlags()
			require.NoError(t, fs.Parse(append([]string{"--fn", "x"}, tt.args...)))

			cfg, err := Load(fs, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, cfg.Mode)
			assert.Equal(t, tt.wantConflict, cfg.ModeConflict)
		})
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finditor.yaml")
	content := `pattern: "*.log"
mode: glob
threads: 3
exclude:
  - /proc
  - /sys
ignore: [".git"]
max_depth: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(nil, path)
		require.NoError(t, err)
		assert.Equal(t, "*.log", cfg.Pattern)
		assert.Equal(t, match.ModeGlob, cfg.Mode)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, []string{"/proc", "/sys"}, cfg.Excludes)
		assert.Equal(t, []string{".git"}, cfg.IgnorePatterns)
		assert.Equal(t, 5, cfg.MaxDepth)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("FINDITOR_MAX_DEPTH", "1")
		cfg, err := Load(nil, path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.MaxDepth)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(nil, filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestConfigString(t *testing.T) {
	cfg := Config{Pattern: "a", Path: "/", Workers: 2, Mode: match.ModeGlob}
	s := cfg.String()
	assert.Contains(t, s, `Pattern: "a"`)
	assert.Contains(t, s, "Workers: 2")
	assert.Contains(t, s, "Mode: glob")
}
