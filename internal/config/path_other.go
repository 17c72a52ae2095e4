//go:build !windows

package config

// DefaultPath is searched when no path is given
const DefaultPath = "/"
