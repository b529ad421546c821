package plantext

import (
	"strings"
	"unicode"
)

const nbsp = '\u00a0'

// Normalize cleans free text emitted by the plan generator before it is split
// into bullets: non-breaking spaces become spaces, words broken across a line
// with a hyphen are rejoined, "pro- tein" style splits between two letters are
// joined (this also joins genuine compounds written with "- "), whitespace runs
// collapse to a single space and the result is trimmed. Normalize is
// idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == nbsp {
			r = ' '
		}

		if r == '-' {
			if skip := hyphenBreak(runes, i); skip > 0 {
				i += skip - 1
				continue
			}
			if skip := letterJoin(runes, i); skip > 0 {
				i += skip - 1
				continue
			}
		}

		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// hyphenBreak returns how many runes starting at i form a "-\n<spaces>" line
// break, or 0 when runes[i] does not start one.
func hyphenBreak(runes []rune, i int) int {
	j := i + 1
	if j < len(runes) && runes[j] == '\r' {
		j++
	}
	if j >= len(runes) || runes[j] != '\n' {
		return 0
	}
	j++
	for j < len(runes) && (unicode.IsSpace(runes[j]) || runes[j] == nbsp) {
		j++
	}
	return j - i
}

// letterJoin returns how many runes starting at i form a "- " split between two
// ASCII letters, or 0. Any whitespace run counts as the space so that text
// collapsing to "a- b" is joined on the first pass.
func letterJoin(runes []rune, i int) int {
	if i == 0 || !isASCIILetter(runes[i-1]) {
		return 0
	}
	j := i + 1
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j == i+1 || j >= len(runes) || !isASCIILetter(runes[j]) {
		return 0
	}
	return j - i
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
