package filter

import (
	"path"
	"strings"
)

// Stem reduces a shader path to its lowercase base name without extension,
// e.g. "models/monsters/Bob/Body.tga" → "body".
func Stem(shader string) string {
	s := strings.ToLower(strings.ReplaceAll(shader, "\\", "/"))
	base := path.Base(s)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Keep reports whether a submesh with the given shader survives the skip
// patterns. Patterns are path.Match globs compared case-insensitively
// against both the full shader path and its stem. A malformed pattern
// matches nothing.
func Keep(shader string, patterns []string) bool {
	full := strings.ToLower(strings.ReplaceAll(shader, "\\", "/"))
	stem := Stem(shader)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if ok, _ := path.Match(p, full); ok {
			return false
		}
		if ok, _ := path.Match(p, stem); ok {
			return false
		}
	}
	return true
}

// KeepFunc binds patterns into a predicate for skin.Options.Keep. It
// returns nil when there is nothing to skip.
func KeepFunc(patterns []string) func(shader string) bool {
	if len(patterns) == 0 {
		return nil
	}
	return func(shader string) bool { return Keep(shader, patterns) }
}

// Validate reports the first malformed pattern.
func Validate(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return &PatternError{Pattern: p, Err: err}
		}
	}
	return nil
}

// PatternError is a skip pattern path.Match rejects.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string { return "filter: pattern " + e.Pattern + ": " + e.Err.Error() }

func (e *PatternError) Unwrap() error { return e.Err }
