package fsutil

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// hasGlobMeta reports whether pattern contains any glob metacharacter.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// MatchesIgnore reports whether name (or, for glob patterns, relPath) is
// matched by any entry in patterns. Plain patterns match as a suffix of
// name, per spec.md §4.A. A pattern containing a glob metacharacter is
// matched against relPath with doublestar instead — an additive enrichment
// (SPEC_FULL.md §4.A) that never changes the behavior of a literal,
// meta-character-free pattern.
func MatchesIgnore(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if hasGlobMeta(p) {
			if ok, err := doublestar.Match(p, relPath); err == nil && ok {
				return true
			}
			continue
		}
		if strings.HasSuffix(name, p) {
			return true
		}
	}
	return false
}
