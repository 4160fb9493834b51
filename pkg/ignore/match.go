package ignore

import (
	"strings"
)

// maxBacktrackIterations bounds the work spent matching a single path so that
// pathological patterns (e.g. *a*a*a*a*b) cannot hang the walk. The budget is
// shared across all rules evaluated for one path.
const maxBacktrackIterations = 10000

// matchBudget tracks remaining backtracking work for one Match call.
type matchBudget struct {
	iterations int
}

func (b *matchBudget) tick() bool {
	b.iterations++
	return b.iterations <= maxBacktrackIterations
}

// Match reports whether the rule matches the given slash-separated relative
// path. isDir tells the matcher whether the path names a directory, which
// directory-only patterns require.
func (r *Rule) Match(relPath string, isDir bool) bool {
	return r.match(splitPath(normalizePath(relPath)), isDir, &matchBudget{})
}

func (r *Rule) match(pathSegments []string, isDir bool, budget *matchBudget) bool {
	if len(pathSegments) == 0 {
		return false
	}

	// A directory-only pattern matches the directory itself and, via prefix
	// matching, anything inside it.
	prefixMatch := r.DirOnly && !isDir

	if r.Anchored {
		if prefixMatch {
			return matchPrefix(r.segments, pathSegments, budget)
		}
		return matchExact(r.segments, pathSegments, budget)
	}

	// Floating patterns may start at any depth.
	maxStart := len(pathSegments) - len(r.segments)
	if prefixMatch {
		maxStart = len(pathSegments) - 1
	}
	for i := 0; i <= maxStart; i++ {
		if !budget.tick() {
			return false
		}
		if prefixMatch {
			if matchPrefix(r.segments, pathSegments[i:], budget) {
				return true
			}
		} else if matchExact(r.segments, pathSegments[i:], budget) {
			return true
		}
	}

	// A leading ** can absorb zero segments, so the pattern may still match a
	// path shorter than its own segment count.
	if len(r.segments) > 0 && r.segments[0].doubleStar {
		if prefixMatch {
			return matchPrefix(r.segments, pathSegments, budget)
		}
		return matchExact(r.segments, pathSegments, budget)
	}

	return false
}

// matchExact matches pattern segments against the whole remaining path.
func matchExact(pattern []segment, path []string, budget *matchBudget) bool {
	if !budget.tick() {
		return false
	}

	if len(pattern) == 0 {
		return len(path) == 0
	}

	seg := pattern[0]

	if seg.doubleStar {
		// A trailing ** matches everything inside the prefix, not the prefix
		// itself.
		if len(pattern) == 1 {
			return len(path) > 0
		}
		for i := 0; i <= len(path); i++ {
			if matchExact(pattern[1:], path[i:], budget) {
				return true
			}
			if !budget.tick() {
				return false
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}

	if !matchSegment(seg, path[0], budget) {
		return false
	}

	return matchExact(pattern[1:], path[1:], budget)
}

// matchPrefix matches pattern segments as a proper prefix of the path, used
// for directory-only patterns matching files inside the directory.
func matchPrefix(pattern []segment, path []string, budget *matchBudget) bool {
	if !budget.tick() {
		return false
	}

	if len(pattern) == 0 {
		return len(path) > 0
	}

	seg := pattern[0]

	if seg.doubleStar {
		if len(pattern) == 1 {
			return len(path) > 0
		}
		for i := 0; i <= len(path); i++ {
			if matchPrefix(pattern[1:], path[i:], budget) {
				return true
			}
			if !budget.tick() {
				return false
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}

	if !matchSegment(seg, path[0], budget) {
		return false
	}

	return matchPrefix(pattern[1:], path[1:], budget)
}

// matchSegment matches one pattern segment against one path segment.
func matchSegment(seg segment, pathSeg string, budget *matchBudget) bool {
	if seg.doubleStar {
		return true
	}
	if !seg.wildcard {
		return seg.value == pathSeg
	}
	return matchGlob(seg.value, pathSeg, budget)
}

// matchGlob matches a single-segment glob supporting *, ?, character classes
// and backslash escapes. Matching is case-sensitive.
func matchGlob(pattern, s string, budget *matchBudget) bool {
	if pattern == "*" {
		return true
	}

	// Fast paths for the common prefix*/ *suffix shapes.
	if !strings.ContainsAny(pattern, `?[\`) && strings.Count(pattern, "*") == 1 {
		if strings.HasSuffix(pattern, "*") {
			return strings.HasPrefix(s, pattern[:len(pattern)-1])
		}
		if strings.HasPrefix(pattern, "*") {
			return strings.HasSuffix(s, pattern[1:])
		}
	}

	return matchGlobRecursive(pattern, s, budget)
}

func matchGlobRecursive(pattern, s string, budget *matchBudget) bool {
	for len(pattern) > 0 {
		if !budget.tick() {
			return false
		}

		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchGlobRecursive(pattern, s[i:], budget) {
					return true
				}
				if !budget.tick() {
					return false
				}
			}
			return false

		case '?':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
			continue

		case '[':
			if len(s) == 0 {
				return false
			}
			ok, rest := matchCharClass(pattern, s[0])
			if !ok {
				return false
			}
			pattern = rest
			s = s[1:]
			continue

		case '\\':
			if len(pattern) > 1 {
				pattern = pattern[1:]
			}
		}

		if len(s) == 0 || pattern[0] != s[0] {
			return false
		}
		pattern = pattern[1:]
		s = s[1:]
	}

	return len(s) == 0
}

// matchCharClass matches the character class starting at pattern[0] == '['
// against c. It returns whether c is accepted and the pattern remainder after
// the closing bracket. Supports negation ([!...]) and ranges ([a-z]).
func matchCharClass(pattern string, c byte) (bool, string) {
	i := 1 // past '['
	negated := false
	if i < len(pattern) && pattern[i] == '!' {
		negated = true
		i++
	}

	matched := false
	first := true
	for i < len(pattern) {
		if pattern[i] == ']' && !first {
			if negated {
				return !matched, pattern[i+1:]
			}
			return matched, pattern[i+1:]
		}
		first = false

		lo := pattern[i]
		if lo == '\\' && i+1 < len(pattern) {
			i++
			lo = pattern[i]
		}

		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			hi := pattern[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 3
			continue
		}

		if c == lo {
			matched = true
		}
		i++
	}

	// Unclosed class; parse-time validation should have rejected it.
	return false, ""
}

// normalizePath prepares a relative path for matching: forward slashes only,
// no duplicate separators, no leading ./ and no trailing slash.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimSuffix(p, "/")
}

// splitPath splits a normalized path into segments, dropping empties.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
