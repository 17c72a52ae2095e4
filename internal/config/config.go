package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/sonemaro/finditor/pkg/logger"
	"github.com/sonemaro/finditor/pkg/match"
	"github.com/sonemaro/finditor/pkg/output"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingPattern is returned when no search pattern was supplied.
var ErrMissingPattern = errors.New("missing required pattern")

// Config holds all configuration parameters for a search
type Config struct {
	// Pattern is the name, glob or regular expression searched for
	Pattern string

	// Path is the root directory of the search
	Path string

	// Workers is the number of concurrent directory listers
	Workers int

	// Mode selects literal, glob or regex matching
	Mode match.Mode

	// ModeConflict is set when both glob and regex were requested; regex wins
	ModeConflict bool

	// IgnoreCase enables ASCII case folding
	IgnoreCase bool

	// FollowSymlinks descends into symbolic links to directories
	FollowSymlinks bool

	// Excludes are raw path prefixes to skip
	Excludes []string

	// IgnorePatterns are base name globs to skip
	IgnorePatterns []string

	// MaxDepth is the deepest directory level listed (-1 for unlimited)
	MaxDepth int

	// Progress renders periodic progress on stderr
	Progress bool

	// Output specifies the result format (plain, json, or yaml)
	Output output.Format

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int

	// LogFormat selects the log encoding
	LogFormat logger.Encoding

	// RateLimit is the maximum number of directory listings per second (0 for unlimited)
	RateLimit int

	// Exclusive refuses to start while another instance holds the lock
	Exclusive bool

	// RequireElevation refuses to start without administrator rights.
	// Enabled unless turned off explicitly.
	RequireElevation bool
}

// Load resolves the configuration from flags, the environment and the
// optional config file, and validates it. flags may be nil.
func Load(flags *pflag.FlagSet, cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyPath, DefaultPath)
	v.SetDefault(KeyThreads, 0)
	v.SetDefault(KeyMode, string(match.ModeLiteral))
	v.SetDefault(KeyMaxDepth, UnlimitedDepth)
	v.SetDefault(KeyOutput, string(output.FormatPlain))
	v.SetDefault(KeyLogFormat, string(logger.EncodingJSON))
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyVerbose, 0)
	v.SetDefault(KeyRequireElevation, true)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for key := range flagNames {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	if err := v.BindEnv(KeyMode); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment for %s: %w", KeyMode, err)
	}

	if flags != nil {
		for key, name := range flagNames {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	verbose, err := verbosity(v.GetString(KeyVerbose))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Pattern:          v.GetString(KeyPattern),
		Path:             v.GetString(KeyPath),
		Workers:          v.GetInt(KeyThreads),
		Mode:             match.Mode(v.GetString(KeyMode)),
		IgnoreCase:       v.GetBool(KeyIgnoreCase),
		FollowSymlinks:   v.GetBool(KeyFollowSymlinks),
		Excludes:         stringList(v, KeyExclude),
		IgnorePatterns:   stringList(v, KeyIgnore),
		MaxDepth:         v.GetInt(KeyMaxDepth),
		Progress:         v.GetBool(KeyProgress),
		Output:           output.Format(v.GetString(KeyOutput)),
		NoColor:          v.GetBool(KeyNoColor),
		Verbose:          verbose,
		LogFormat:        logger.Encoding(v.GetString(KeyLogFormat)),
		RateLimit:        v.GetInt(KeyRateLimit),
		Exclusive:        v.GetBool(KeyExclusive),
		RequireElevation: v.GetBool(KeyRequireElevation),
	}

	regex, glob := v.GetBool(KeyRegex), v.GetBool(KeyGlob)
	cfg.ModeConflict = regex && glob
	switch {
	case regex:
		cfg.Mode = match.ModeRegex
	case glob:
		cfg.Mode = match.ModeGlob
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Pattern == "" {
		return ErrMissingPattern
	}

	if c.Workers < 0 {
		return fmt.Errorf("threads must be non-negative")
	}
	if c.Workers > MaxThreads {
		return fmt.Errorf("threads cannot exceed %d", MaxThreads)
	}

	if c.MaxDepth < UnlimitedDepth {
		return fmt.Errorf("max depth must be -1 (unlimited) or non-negative")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if _, err := match.ParseMode(string(c.Mode)); err != nil {
		return err
	}

	if _, err := output.ParseFormat(string(c.Output)); err != nil {
		return fmt.Errorf("invalid output format: must be one of [plain json yaml]")
	}

	switch c.LogFormat {
	case "", logger.EncodingJSON, logger.EncodingConsole:
	default:
		return fmt.Errorf("invalid log format: must be one of [json console]")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Pattern: %q, Path: %s, Workers: %d, Mode: %s, IgnoreCase: %v, "+
			"FollowSymlinks: %v, Excludes: %v, IgnorePatterns: %v, MaxDepth: %d, "+
			"Output: %s, RateLimit: %d, Progress: %v, Verbose: %d}",
		c.Pattern, c.Path, c.Workers, c.Mode, c.IgnoreCase,
		c.FollowSymlinks, c.Excludes, c.IgnorePatterns, c.MaxDepth,
		c.Output, c.RateLimit, c.Progress, c.Verbose,
	)
}

// verbosity accepts either a number or a run of 'v's.
func verbosity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.Trim(s, "v") == "" {
		return len(s), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid verbosity level %q", s)
	}
	return n, nil
}

// stringList reads a list from a flag or config file sequence, or from a
// comma-separated environment value. Blank items are dropped.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
