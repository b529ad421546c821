package plantext

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinItemLen is the shortest fragment kept as a bullet.
const MinItemLen = 4

// delimiter reports how many bytes at s[i:] form a separator, or 0.
type delimiter struct {
	name  string
	match func(s string, i int) int
}

// Periods and hyphens never split: "3.5 km" and "push-ups" stay intact.
var delimiters = []delimiter{
	{name: "semicolon", match: matchSemicolon},
	{name: "comma-space", match: matchCommaSpace},
	{name: "newline", match: matchNewlines},
}

func matchSemicolon(s string, i int) int {
	if s[i] != ';' {
		return 0
	}
	return 1 + spaceRun(s, i+1)
}

func matchCommaSpace(s string, i int) int {
	if s[i] != ',' {
		return 0
	}
	n := spaceRun(s, i+1)
	if n == 0 {
		return 0
	}
	return 1 + n
}

func matchNewlines(s string, i int) int {
	n := 0
	for i+n < len(s) && (s[i+n] == '\n' || s[i+n] == '\r') {
		n++
	}
	return n
}

func spaceRun(s string, i int) int {
	n := 0
	for i+n < len(s) {
		r, size := utf8.DecodeRuneInString(s[i+n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

// split cuts s at every delimiter match.
func split(s string) []string {
	var (
		parts []string
		start int
	)
	for i := 0; i < len(s); {
		width := 0
		for _, d := range delimiters {
			if width = d.match(s, i); width > 0 {
				break
			}
		}
		if width == 0 {
			i++
			continue
		}
		parts = append(parts, s[start:i])
		i += width
		start = i
	}
	return append(parts, s[start:])
}

// ParseWorkout splits workout text into exercise bullets. Non-empty input
// always yields at least one bullet: when no fragment survives filtering the
// whole normalized text is returned as the only entry.
func ParseWorkout(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	bullets := make([]string, 0, 8)
	for _, part := range split(normalized) {
		item := stripListMarker(strings.TrimSpace(part))
		if utf8.RuneCountInString(item) < MinItemLen {
			continue
		}
		bullets = append(bullets, item)
	}
	return fallback(bullets, normalized)
}

func fallback(bullets []string, normalized string) []string {
	if len(bullets) > 0 {
		return bullets
	}
	return []string{normalized}
}

// stripListMarker removes a leading "12. " marker. A bare number without the
// period, as in "3 sets of 10", is left alone.
func stripListMarker(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '.' {
		return s
	}
	rest := s[i+1:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) {
		return s
	}
	return strings.TrimSpace(trimmed)
}
