package expand

import (
	"strings"
)

// segmentKind tags one element of a compiled pattern. The grammar is
// explicit so the two wildcard dialects stay unambiguous: `*` matches
// within one path segment, `**` matches across segment boundaries.
type segmentKind int

const (
	segLiteral segmentKind = iota
	segStar                // segment containing `*`, matched within one path segment
	segDoubleStar          // `**`, matches zero or more whole segments
)

type segment struct {
	kind segmentKind
	text string
}

// Pattern is a compiled glob path pattern.
type Pattern struct {
	raw      string
	segments []segment
}

// Compile parses a glob path pattern into its tagged segments.
func Compile(raw string) Pattern {
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "**":
			segments = append(segments, segment{kind: segDoubleStar})
		case strings.Contains(part, "*"):
			segments = append(segments, segment{kind: segStar, text: part})
		default:
			segments = append(segments, segment{kind: segLiteral, text: part})
		}
	}
	return Pattern{raw: raw, segments: segments}
}

// String returns the original pattern text.
func (p Pattern) String() string {
	return p.raw
}

// IsLiteral reports whether the pattern contains no wildcard at all.
// Literal patterns are passed through as exact paths; their existence is
// only confirmed at fetch time.
func (p Pattern) IsLiteral() bool {
	for _, s := range p.segments {
		if s.kind != segLiteral {
			return false
		}
	}
	return true
}

// Match reports whether a slash-separated file path matches the pattern.
func (p Pattern) Match(path string) bool {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return matchSegments(p.segments, parts)
}

func matchSegments(pattern []segment, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}

	head := pattern[0]
	if head.kind == segDoubleStar {
		// `**` may swallow zero or more leading segments.
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}

	if len(parts) == 0 {
		return false
	}
	if head.kind == segLiteral {
		if parts[0] != head.text {
			return false
		}
	} else if !matchWithin(head.text, parts[0]) {
		return false
	}
	return matchSegments(pattern[1:], parts[1:])
}

// matchWithin matches a single path segment against a pattern segment
// whose `*` never crosses the segment boundary.
func matchWithin(pattern, s string) bool {
	// Iterative glob with single-star backtracking.
	var pi, si int
	starPi, starSi := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			starPi, starSi = pi, si
			pi++
		case pi < len(pattern) && pattern[pi] == s[si]:
			pi++
			si++
		case starPi >= 0:
			starSi++
			si = starSi
			pi = starPi + 1
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
