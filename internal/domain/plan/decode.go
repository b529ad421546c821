package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotObject = errors.New("plan response is not a JSON object")

// ParseDocument parses model output into a Document. Leaf fields are
// coerced to strings and a missing or non-array "weeks" becomes empty.
func ParseDocument(raw string) (Document, error) {
	pairs, err := objectPairs([]byte(stripFences(raw)))
	if err != nil {
		return Document{}, err
	}
	fields := toMap(pairs)

	doc := Document{
		Title:            coerceString(fields["title"]),
		Introduction:     coerceString(fields["introduction"]),
		ProgressionNotes: strings.TrimSpace(coerceString(fields["progressionNotes"])),
		Weeks:            []Week{},
	}
	for _, rawWeek := range arrayItems(fields["weeks"]) {
		doc.Weeks = append(doc.Weeks, decodeWeek(rawWeek))
	}
	return doc, nil
}

func decodeWeek(raw json.RawMessage) Week {
	pairs, err := objectPairs(raw)
	if err != nil {
		return Week{Days: []Day{}}
	}
	fields := toMap(pairs)
	week := Week{WeekTitle: coerceString(fields["weekTitle"]), Days: []Day{}}
	for _, rawDay := range arrayItems(fields["days"]) {
		week.Days = append(week.Days, decodeDay(rawDay))
	}
	return week
}

func decodeDay(raw json.RawMessage) Day {
	pairs, err := objectPairs(raw)
	if err != nil {
		return Day{Workout: coerceString(raw)}
	}
	fields := toMap(pairs)
	return Day{
		DayTitle: coerceString(fields["dayTitle"]),
		Focus:    coerceString(fields["focus"]),
		Timing:   coerceString(fields["timing"]),
		Workout:  coerceString(fields["workout"]),
		Meals:    coerceString(fields["meals"]),
	}
}

// stripFences drops a surrounding ```json fence some models add despite the
// JSON response format.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type pair struct {
	key   string
	value json.RawMessage
}

// objectPairs decodes a JSON object keeping key order.
func objectPairs(raw []byte) ([]pair, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errNotObject
	}
	if !json.Valid(raw) {
		return nil, errors.New("plan response is not valid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var pairs []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key: key, value: value})
	}
	return pairs, nil
}

func toMap(pairs []pair) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(pairs))
	for _, p := range pairs {
		out[p.key] = p.value
	}
	return out
}

func arrayItems(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// coerceString flattens any JSON value into display text: arrays join with
// "; " and objects become "key: value" pairs in source order.
func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case 'n':
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		return string(raw)
	case '[':
		parts := make([]string, 0, 4)
		for _, item := range arrayItems(raw) {
			if s := strings.TrimSpace(coerceString(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case '{':
		pairs, err := objectPairs(raw)
		if err != nil {
			return ""
		}
		parts := make([]string, 0, len(pairs))
		for _, p := range pairs {
			if s := strings.TrimSpace(coerceString(p.value)); s != "" {
				parts = append(parts, p.key+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return string(raw)
		}
		if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return n.String()
	}
}
