/*
Package match implements the entry name predicates used by the search.

Exactly one Mode is active per run:

	literal  exact byte equality with the pattern
	glob     shell wildcards (*, ?, [...], {a,b}) via doublestar
	regex    RE2 regular expression, unanchored

Each mode may be combined with case folding. Patterns are validated and
compiled once by New; the returned Matcher is immutable and safe for
concurrent use.
*/
package match

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// Mode selects the predicate family.
type Mode string

const (
	// ModeLiteral compares names byte for byte.
	ModeLiteral Mode = "literal"

	// ModeGlob uses shell style wildcard matching.
	ModeGlob Mode = "glob"

	// ModeRegex searches the name for a regular expression match.
	ModeRegex Mode = "regex"
)

// ErrInvalidPattern is returned by New when the pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher reports whether an entry name is selected.
type Matcher interface {
	Match(name string) bool
}

// Options configures a Matcher.
type Options struct {
	Pattern    string
	Mode       Mode
	IgnoreCase bool
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLiteral:
		return ModeLiteral, nil
	case ModeGlob:
		return ModeGlob, nil
	case ModeRegex:
		return ModeRegex, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

// New builds the Matcher for opts.
func New(opts Options) (Matcher, error) {
	switch opts.Mode {
	case "", ModeLiteral:
		if opts.IgnoreCase {
			return foldMatcher(opts.Pattern), nil
		}
		return literalMatcher(opts.Pattern), nil

	case ModeGlob:
		pattern := opts.Pattern
		if opts.IgnoreCase {
			pattern = lowerASCII(pattern)
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad glob %q", ErrInvalidPattern, opts.Pattern)
		}
		return &globMatcher{pattern: pattern, fold: opts.IgnoreCase}, nil

	case ModeRegex:
		expr := opts.Pattern
		if opts.IgnoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return &regexMatcher{re: re}, nil

	default:
		return nil, fmt.Errorf("unknown match mode %q", opts.Mode)
	}
}

type literalMatcher string

func (m literalMatcher) Match(name string) bool {
	return name == string(m)
}

type foldMatcher string

func (m foldMatcher) Match(name string) bool {
	return equalFoldASCII(name, string(m))
}

type globMatcher struct {
	pattern string
	fold    bool
}

func (m *globMatcher) Match(name string) bool {
	if m.fold {
		name = lowerASCII(name)
	}
	// The pattern was validated in New.
	return doublestar.MatchUnvalidated(m.pattern, name)
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// equalFoldASCII is strings.EqualFold restricted to ASCII letters; other
// bytes must be identical.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				b[j] = toLowerASCII(b[j])
			}
			return string(b)
		}
	}
	return s
}

func toLowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
