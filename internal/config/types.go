package config

// Configuration keys, as used in the config file and, upper-cased with the
// FINDITOR_ prefix, in the environment.
const (
	KeyPattern          = "pattern"
	KeyPath             = "path"
	KeyThreads          = "threads"
	KeyMode             = "mode"
	KeyGlob             = "glob"
	KeyRegex            = "regex"
	KeyIgnoreCase       = "ignore_case"
	KeyFollowSymlinks   = "follow_symlinks"
	KeyExclude          = "exclude"
	KeyIgnore           = "ignore"
	KeyMaxDepth         = "max_depth"
	KeyProgress         = "progress"
	KeyOutput           = "output"
	KeyNoColor          = "no_color"
	KeyVerbose          = "verbose"
	KeyLogFormat        = "log_format"
	KeyRateLimit        = "rate_limit"
	KeyExclusive        = "exclusive"
	KeyRequireElevation = "require_elevation"
)

// flagNames maps configuration keys to the command line flags bound to them.
var flagNames = map[string]string{
	KeyPattern:          "fn",
	KeyPath:             "path",
	KeyThreads:          "threads",
	KeyGlob:             "glob",
	KeyRegex:            "regex",
	KeyIgnoreCase:       "ignore-case",
	KeyFollowSymlinks:   "follow-symlinks",
	KeyExclude:          "exclude",
	KeyIgnore:           "ignore",
	KeyMaxDepth:         "max-depth",
	KeyProgress:         "progress",
	KeyOutput:           "output",
	KeyNoColor:          "no-color",
	KeyVerbose:          "verbose",
	KeyLogFormat:        "log-format",
	KeyRateLimit:        "rate-limit",
	KeyExclusive:        "exclusive",
	KeyRequireElevation: "require-elevation",
}

// Constants for configuration limits and defaults
const (
	// EnvPrefix is prepended to every environment variable name
	EnvPrefix = "FINDITOR"

	// MaxThreads is the largest accepted worker count
	MaxThreads = 1024

	// UnlimitedDepth represents unlimited directory depth
	UnlimitedDepth = -1
)
