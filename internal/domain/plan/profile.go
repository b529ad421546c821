package plan

import (
	"errors"
	"math"
	"strings"

	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

// ErrMissingIdentity is returned when name or email is blank.
var ErrMissingIdentity = errors.New("name and email are required")

// Validate checks the fields required before any plan is generated.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "Name and email are required", ErrMissingIdentity)
	}
	return nil
}

// DisplayName falls back to "Athlete" for anonymous renders.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Athlete"
}

// FirstName returns the first word of the name.
func (p Profile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return p.DisplayName()
	}
	return fields[0]
}

// EquipmentText joins the selected equipment or reports bodyweight training.
func (p Profile) EquipmentText() string {
	items := make([]string, 0, len(p.Equipment))
	for _, e := range p.Equipment {
		if e = strings.TrimSpace(e); e != "" {
			items = append(items, e)
		}
	}
	if len(items) == 0 {
		return "Bodyweight Only"
	}
	return strings.Join(items, ", ")
}

// BMI is a body mass index reading with its category.
type BMI struct {
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

// BMI derives the body mass index from height (cm) and weight (kg). It
// reports false when either is missing or outside a plausible range.
func (p Profile) BMI() (BMI, bool) {
	if !p.Height.Set || !p.Weight.Set {
		return BMI{}, false
	}
	h, w := p.Height.Value, p.Weight.Value
	if h < 50 || h > 250 || w < 10 || w > 400 {
		return BMI{}, false
	}
	m := h / 100
	v := math.Round(w/(m*m)*10) / 10
	return BMI{Value: v, Category: bmiCategory(v)}, true
}

func bmiCategory(v float64) string {
	switch {
	case v < 18.5:
		return "Underweight"
	case v < 25:
		return "Healthy"
	case v < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
