// Package config loads the search settings for finditor.
//
// Values are resolved with the usual viper precedence: command line flags,
// then FINDITOR_* environment variables, then an optional YAML config file,
// then defaults.
//
// # Configuration Loading
//
//	cfg, err := config.Load(cmd.Flags(), cfgFile)
//	if errors.Is(err, config.ErrMissingPattern) {
//	    // print usage
//	}
//
// # Environment Variables
//
//	FINDITOR_PATTERN            Name to search for
//	FINDITOR_PATH               Root directory (default ".")
//	FINDITOR_THREADS            Worker count, 0 for the number of CPUs
//	FINDITOR_MODE               literal|glob|regex
//	FINDITOR_IGNORE_CASE        ASCII case-insensitive matching
//	FINDITOR_FOLLOW_SYMLINKS    Descend into symlinked directories
//	FINDITOR_EXCLUDE            Comma-separated path prefixes to skip
//	FINDITOR_IGNORE             Comma-separated base name globs to skip
//	FINDITOR_MAX_DEPTH          Deepest directory level listed (-1 unlimited)
//	FINDITOR_PROGRESS           Render progress on stderr
//	FINDITOR_OUTPUT             plain|json|yaml
//	FINDITOR_NO_COLOR           Disable colored output
//	FINDITOR_VERBOSE            Verbosity level (a number or a string of 'v's)
//	FINDITOR_LOG_FORMAT         json|console
//	FINDITOR_RATE_LIMIT         Directory listings per second (0 unlimited)
//	FINDITOR_EXCLUSIVE          Refuse to run alongside another instance
//	FINDITOR_REQUIRE_ELEVATION  Refuse to run without administrator rights
//
// # Config File
//
//	pattern: "*.go"
//	mode: glob
//	exclude:
//	  - /proc
//	  - /sys
//	ignore: [".git", "node_modules"]
//	threads: 16
//
// The configuration is immutable after loading and is safe for concurrent
// access.
package config
