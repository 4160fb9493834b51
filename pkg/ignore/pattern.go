// Package ignore implements gitignore-style pattern matching and the layered
// resolution of ignore sources used by pagr.
package ignore

import (
	"strings"
)

// Source identifies where a rule came from: the label of the ignore source
// (e.g. "builtin", ".gitignore", ".pagrignore", or a file path) and the
// 1-based line number within it.
type Source struct {
	Label string
	Line  int
}

// ParseWarning reports a malformed pattern line that was skipped.
type ParseWarning struct {
	Pattern string // the problematic line as written
	Message string // human-readable reason
	Source  Source
}

// Rule is a single parsed ignore pattern.
// Rules are evaluated in order; later rules override earlier ones.
type Rule struct {
	Pattern  string    // original pattern text (for reporting)
	Negate   bool      // pattern started with !
	DirOnly  bool      // pattern ended with /
	Anchored bool      // pattern matches from the root only
	Source   Source
	segments []segment // pre-split pattern segments used for matching
}

// segment is one part of a pattern split by "/". A segment is either a
// literal, a glob (contains *, ?, [ or \), or a double-star.
type segment struct {
	value      string
	wildcard   bool
	doubleStar bool
}

// ParseLines parses ignore-file content into rules. Empty lines and comments
// are dropped silently; malformed patterns are dropped with a warning.
func ParseLines(label string, content string) ([]Rule, []ParseWarning) {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var rules []Rule
	var warnings []ParseWarning

	for i, line := range strings.Split(content, "\n") {
		src := Source{Label: label, Line: i + 1}
		r, warning := parseLine(line, src)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if r != nil {
			rules = append(rules, *r)
		}
	}

	return rules, warnings
}

// parseLine parses a single pattern line. Returns a nil rule for blank lines,
// comments, and malformed patterns (the latter with a warning).
func parseLine(line string, src Source) (*Rule, *ParseWarning) {
	line = trimTrailingWhitespace(line)

	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	original := line

	// \! escapes the bang; a bare ! negates.
	negate := false
	if strings.HasPrefix(line, `\!`) {
		line = line[1:]
	} else if strings.HasPrefix(line, "!") {
		negate = true
		line = line[1:]
	}

	// \# after negation handling supports !\#foo.
	if strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	dirOnly := false
	if strings.HasSuffix(line, "/") {
		dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	if line == "" {
		return nil, &ParseWarning{
			Pattern: original,
			Message: "pattern is empty after processing",
			Source:  src,
		}
	}

	// A lone trailing backslash never matches anything.
	if bs := countTrailingBackslashes(line); bs%2 == 1 {
		return nil, &ParseWarning{
			Pattern: original,
			Message: "trailing backslash is invalid",
			Source:  src,
		}
	}

	if msg := validateCharClasses(line); msg != "" {
		return nil, &ParseWarning{
			Pattern: original,
			Message: msg,
			Source:  src,
		}
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = line[1:]
		if line == "" {
			return nil, &ParseWarning{
				Pattern: original,
				Message: "pattern is empty after removing leading slash",
				Source:  src,
			}
		}
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		// A separator anywhere else anchors the pattern to the source root.
		anchored = true
	}

	return &Rule{
		Pattern:  original,
		Negate:   negate,
		DirOnly:  dirOnly,
		Anchored: anchored,
		Source:   src,
		segments: parseSegments(line),
	}, nil
}

// parseSegments splits a pattern by "/" and classifies each segment.
func parseSegments(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		seg := segment{value: part}
		if part == "**" {
			seg.doubleStar = true
			seg.value = ""
		} else if strings.ContainsAny(part, `*?[\`) {
			seg.wildcard = true
		}
		segments = append(segments, seg)
	}

	return segments
}

// validateCharClasses rejects patterns whose character classes never close.
func validateCharClasses(pattern string) string {
	inClass := false
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++ // skip escaped character
		case '[':
			if !inClass {
				inClass = true
				// [] and [!] would otherwise close on the literal ] member.
				if i+1 < len(pattern) && pattern[i+1] == '!' {
					i++
				}
				if i+1 < len(pattern) && pattern[i+1] == ']' {
					i++
				}
			}
		case ']':
			inClass = false
		}
	}
	if inClass {
		return "unclosed character class"
	}
	return ""
}

// trimTrailingWhitespace removes unescaped trailing spaces and tabs.
func trimTrailingWhitespace(line string) string {
	for len(line) > 0 {
		last := line[len(line)-1]
		if last != ' ' && last != '\t' {
			break
		}
		if countTrailingBackslashes(line[:len(line)-1])%2 == 1 {
			break // escaped trailing space is literal
		}
		line = line[:len(line)-1]
	}
	return line
}

func countTrailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}
