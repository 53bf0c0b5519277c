package search

import "strings"

// HasWildcard reports whether pattern contains glob metacharacters.
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// Matches tests name against pattern. Patterns containing `*` or `?` are
// matched as globs over the whole name; anything else is matched by
// substring containment. Only `*` and `?` are special: character classes
// and every other byte are literal, so no user input is ever a syntax
// error.
func Matches(name, pattern string, caseSensitive bool) bool {
	if !caseSensitive {
		name = strings.ToLower(name)
		pattern = strings.ToLower(pattern)
	}
	if HasWildcard(pattern) {
		return globMatch(name, pattern)
	}
	return strings.Contains(name, pattern)
}

// MatchesAny reports whether name matches at least one include pattern.
// An empty pattern set matches everything. Include patterns are a scoping
// filter, not the primary match, and are always compared
// case-insensitively.
func MatchesAny(name string, includePatterns []string) bool {
	if len(includePatterns) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, p := range includePatterns {
		if globMatch(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ParseIncludePatterns splits a comma-separated pattern list such as
// "*.py,*.txt" into individual patterns, dropping empty segments.
func ParseIncludePatterns(s string) []string {
	if s == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// globMatch matches name against a pattern where `*` matches any run of
// characters (including none) and `?` matches exactly one. Iterative with
// single-star backtracking, so pathological patterns stay linear-ish
// instead of going exponential.
func globMatch(name, pattern string) bool {
	n := []rune(name)
	p := []rune(pattern)

	ni, pi := 0, 0
	starPi, starNi := -1, 0

	for ni < len(n) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == n[ni]):
			ni++
			pi++
		case pi < len(p) && p[pi] == '*':
			starPi = pi
			starNi = ni
			pi++
		case starPi >= 0:
			// Backtrack: let the last * consume one more rune.
			starNi++
			ni = starNi
			pi = starPi + 1
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
