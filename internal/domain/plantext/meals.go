package plantext

import (
	"strings"
	"unicode"
)

// FallbackMealLabel names the single section used when no meal label is found.
const FallbackMealLabel = "Meals"

// MealLabels lists the recognized meal headings.
var MealLabels = []string{"Breakfast", "Lunch", "Dinner", "Snacks", "Pre-Workout", "Post-Workout", "Brunch", "Supper"}

// MealSection is one labeled group of meal items.
type MealSection struct {
	Label string
	Items []string
}

// MealSections keeps sections in the order they appear in the source text.
type MealSections []MealSection

// Labels returns the section labels in order.
func (m MealSections) Labels() []string {
	out := make([]string, 0, len(m))
	for _, s := range m {
		out = append(out, s.Label)
	}
	return out
}

// Get returns the items recorded under label.
func (m MealSections) Get(label string) ([]string, bool) {
	for _, s := range m {
		if s.Label == label {
			return s.Items, true
		}
	}
	return nil, false
}

type labelMark struct {
	label string
	start int // first byte of the label
	body  int // first byte after the colon
}

// ParseMeals groups meal text by "Label:" headings. Each section runs until
// the next recognized heading. Text before the first heading is discarded and
// a repeated heading appends to the earlier section. Without any heading the
// whole text becomes a single "Meals" section.
func ParseMeals(text string) MealSections {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	marks := findLabels(normalized)

	var sections MealSections
	for i, m := range marks {
		end := len(normalized)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		items := ParseWorkout(normalized[m.body:end])
		if len(items) == 0 {
			continue
		}
		sections = sections.appendItems(m.label, items)
	}
	if len(sections) == 0 {
		return MealSections{{Label: FallbackMealLabel, Items: ParseWorkout(normalized)}}
	}
	return sections
}

func (m MealSections) appendItems(label string, items []string) MealSections {
	for i := range m {
		if m[i].Label == label {
			m[i].Items = append(m[i].Items, items...)
			return m
		}
	}
	return append(m, MealSection{Label: label, Items: items})
}

// findLabels scans for "<label>\s*:" occurrences that start on a word boundary.
func findLabels(s string) []labelMark {
	lower := asciiLower(s)
	var marks []labelMark
	for i := 0; i < len(s); {
		mark, ok := labelAt(lower, i)
		if !ok {
			i++
			continue
		}
		marks = append(marks, mark)
		i = mark.body
	}
	return marks
}

func labelAt(lower string, i int) (labelMark, bool) {
	if i > 0 && isWordByte(lower[i-1]) {
		return labelMark{}, false
	}
	for _, label := range MealLabels {
		key := strings.ToLower(label)
		if !strings.HasPrefix(lower[i:], key) {
			continue
		}
		j := i + len(key)
		for j < len(lower) && lower[j] == ' ' {
			j++
		}
		if j < len(lower) && lower[j] == ':' {
			return labelMark{label: label, start: i, body: j + 1}, true
		}
	}
	return labelMark{}, false
}

func isWordByte(c byte) bool {
	return c < 0x80 && (unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '-')
}

// asciiLower lowercases ASCII letters only so byte offsets stay aligned with s.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
