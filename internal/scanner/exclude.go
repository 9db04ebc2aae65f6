package scanner

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// excludeMatcher tests a full path against a fixed set of glob patterns.
// Patterns are matched with doublestar, which is a superset of the
// simple `*`-wildcard splitting spec.md §4.3 requires.
type excludeMatcher struct {
	patterns []string
}

func newExcludeMatcher(patterns []string) excludeMatcher {
	return excludeMatcher{patterns: patterns}
}

// matches reports whether path should be excluded.
func (m excludeMatcher) matches(path string) bool {
	for _, p := range m.patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
		// Also allow a bare substring-style pattern (no glob metacharacters)
		// to match anywhere in the path, matching the teacher's original
		// strings.Contains exclude behavior for plain names like "node_modules".
		if !containsGlobMeta(p) && p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func containsGlobMeta(p string) bool {
	for _, r := range p {
		switch r {
		case '*', '?', '[', ']', '{', '}':
			return true
		}
	}
	return false
}
