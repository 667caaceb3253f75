package scanner

import (
	"path/filepath"
	"strings"
)

// IgnorePattern is a single .gdfignore pattern. The supported subset of
// gitignore syntax: negation with a leading !, directory patterns with a
// trailing /, patterns anchored to the scan root with a leading /, the
// wildcards * ? [...] within a segment and ** across segments.
type IgnorePattern struct {
	raw      string
	negate   bool
	dirOnly  bool
	rooted   bool
	segments []string
}

// ParseIgnorePattern parses one pattern line.
func ParseIgnorePattern(raw string) IgnorePattern {
	p := IgnorePattern{raw: raw}

	pattern := raw
	if strings.HasPrefix(pattern, "!") {
		p.negate = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		p.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		p.rooted = true
		pattern = pattern[1:]
	}

	p.segments = strings.Split(pattern, "/")
	return p
}

// IsNegation returns true if this pattern un-ignores what it matches.
func (p IgnorePattern) IsNegation() bool {
	return p.negate
}

// Match reports whether the relative slash-separated path matches this
// pattern. Directory patterns match everything below the directory.
// Unrooted patterns may start at any depth.
func (p IgnorePattern) Match(path string) bool {
	segs := strings.Split(filepath.ToSlash(path), "/")

	if p.rooted {
		return p.matchFrom(p.segments, segs)
	}
	for i := range segs {
		if p.matchFrom(p.segments, segs[i:]) {
			return true
		}
	}
	return false
}

// matchFrom consumes pattern segments against path segments. A plain
// pattern must consume the whole path; a directory pattern may stop
// early, covering the subtree.
func (p IgnorePattern) matchFrom(pat, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0 || p.dirOnly
	}
	if pat[0] == "**" {
		if len(pat) == 1 {
			return true
		}
		for i := 0; i <= len(segs); i++ {
			if p.matchFrom(pat[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	if !segmentMatch(pat[0], segs[0]) {
		return false
	}
	return p.matchFrom(pat[1:], segs[1:])
}

// segmentMatch matches one pattern segment against one path segment.
// Literal segments compare case-insensitively, wildcard segments go
// through the glob matcher.
func segmentMatch(pattern, seg string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.EqualFold(pattern, seg)
	}
	return globMatch(pattern, seg)
}

// globMatch matches a single segment against a pattern with * ? and
// [...] wildcards. * never crosses a / since it only ever sees one
// segment.
func globMatch(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatch(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		case '[':
			end := strings.IndexByte(pattern, ']')
			if end < 0 || len(s) == 0 {
				return false
			}
			if !strings.ContainsRune(pattern[1:end], rune(s[0])) {
				return false
			}
			pattern, s = pattern[end+1:], s[1:]
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return len(s) == 0
}
