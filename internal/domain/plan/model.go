package plan

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Timeline is the length of the program the user signed up for.
type Timeline string

const (
	TimelineOneMonth    Timeline = "1_month"
	TimelineThreeMonths Timeline = "3_months"
	TimelineSixMonths   Timeline = "6_months"
)

// IsMultiCycle reports whether the generated 4-week plan is only the first cycle.
func (t Timeline) IsMultiCycle() bool {
	return t == TimelineThreeMonths || t == TimelineSixMonths
}

// Label renders the timeline for headings, e.g. "3 MONTHS".
func (t Timeline) Label() string {
	return DisplayValue(string(t))
}

// DurationText is the short form used in email subjects.
func (t Timeline) DurationText() string {
	switch t {
	case TimelineOneMonth:
		return "4-Week"
	case TimelineThreeMonths:
		return "3-Month"
	case TimelineSixMonths:
		return "6-Month"
	default:
		return "Custom"
	}
}

// Goal is the user's primary training goal.
type Goal string

const (
	GoalWeightLoss Goal = "weight_loss"
	GoalMuscleGain Goal = "muscle_gain"
	GoalToning     Goal = "toning"
	GoalEndurance  Goal = "endurance"
)

// FitnessLevel is the self-reported training experience.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// DisplayValue upper-cases an enum value and replaces underscores with spaces.
// Empty values render as "NOT SPECIFIED".
func DisplayValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "NOT SPECIFIED"
	}
	return strings.ToUpper(strings.ReplaceAll(v, "_", " "))
}

// Measure is an optional numeric form field. The wizard posts numbers as
// strings, so both 75 and "75" decode; "", null and anything that is not a
// number ("29 years") leave it unset.
type Measure struct {
	Value float64
	Set   bool
}

// NewMeasure returns a set measure.
func NewMeasure(v float64) Measure {
	return Measure{Value: v, Set: true}
}

func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = Measure{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = Measure{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			*m = Measure{}
			return nil
		}
		*m = NewMeasure(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*m = Measure{}
		return nil
	}
	*m = NewMeasure(v)
	return nil
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Set {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Profile is the fitness profile collected by the wizard.
type Profile struct {
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Age               Measure      `json:"age"`
	Gender            string       `json:"gender,omitempty"`
	Weight            Measure      `json:"weight"`
	Height            Measure      `json:"height"`
	Goal              Goal         `json:"goal,omitempty"`
	Intensity         string       `json:"intensity,omitempty"`
	FitnessLevel      FitnessLevel `json:"fitnessLevel,omitempty"`
	Timeline          Timeline     `json:"timeline,omitempty"`
	DietaryPreference string       `json:"dietaryPreference,omitempty"`
	FoodAllergies     string       `json:"foodAllergies,omitempty"`
	WaterIntake       string       `json:"waterIntake,omitempty"`
	WorkoutLocation   string       `json:"workoutLocation,omitempty"`
	PastInjuries      string       `json:"pastInjuries,omitempty"`
	Equipment         []string     `json:"equipment"`
	TargetWeightLoss  string       `json:"targetWeightLoss,omitempty"`
}

// Document is the structured plan returned by the language model.
type Document struct {
	Title            string `json:"title"`
	Introduction     string `json:"introduction"`
	Weeks            []Week `json:"weeks"`
	ProgressionNotes string `json:"progressionNotes,omitempty"`
}

// Week groups the days of one training week.
type Week struct {
	WeekTitle string `json:"weekTitle"`
	Days      []Day  `json:"days"`
}

// Day holds the free text for a single day. Every field is plain text even
// when the model emitted nested JSON for it.
type Day struct {
	DayTitle string `json:"dayTitle"`
	Focus    string `json:"focus"`
	Timing   string `json:"timing"`
	Workout  string `json:"workout"`
	Meals    string `json:"meals"`
}

// Config configures plan generation.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Want records which deliverables the user asked for.
type Want struct {
	PDF   bool `json:"pdf"`
	Email bool `json:"email"`
}
