/*
Package logger provides structured logging for finditor. It wraps
uber-go/zap behind a small interface so the search engine, the worker pool
and the CLI can log with fields without depending on zap directly.

Basic Usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 0,  // Info and above
	})

	log.Info("Search started")
	log.Debug("Listing directory") // Only shown with verbosity >= 1
	log.Trace("Entry matched")     // Only shown with verbosity >= 2

Verbosity Levels:

	0: Info, Warn, Error (default)
	1: Debug + Level 0
	2: Trace + Level 1

Structured Logging:

	log.WithFields(logger.Fields{
	    "dir":   "/var/log",
	    "error": err,
	}).Debug("Directory skipped")

Log entries are written to stderr so they never interleave with match lines
on stdout. The console encoding is meant for interactive use; the JSON
encoding (default) is meant for collection.

The logger is safe for concurrent use by multiple goroutines.
*/
package logger
