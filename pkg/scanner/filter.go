package scanner

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter suppresses entries by raw path prefix or by base name glob.
// It is immutable after construction.
type Filter struct {
	prefixes []string
	ignore   []string
}

// NewFilter builds a Filter. Empty prefixes are dropped, since they would
// exclude everything.
func NewFilter(prefixes, ignore []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range prefixes {
		if p != "" {
			f.prefixes = append(f.prefixes, p)
		}
	}
	for _, g := range ignore {
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid ignore pattern %q", g)
		}
		f.ignore = append(f.ignore, g)
	}
	return f, nil
}

// Excluded reports whether fullPath starts with a configured prefix, byte for
// byte, or name matches an ignore glob.
func (f *Filter) Excluded(fullPath, name string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(fullPath, p) {
			return true
		}
	}
	for _, g := range f.ignore {
		if doublestar.MatchUnvalidated(g, name) {
			return true
		}
	}
	return false
}
