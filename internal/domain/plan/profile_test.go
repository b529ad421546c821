package plan_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

func TestProfileDecodesStringMeasures(t *testing.T) {
	t.Parallel()

	var p plan.Profile
	err := json.Unmarshal([]byte(`{"name":"Jo","email":"jo@example.com","age":"31","weight":80,"height":""}`), &p)
	require.NoError(t, err)
	require.Equal(t, plan.NewMeasure(31), p.Age)
	require.Equal(t, plan.NewMeasure(80), p.Weight)
	require.False(t, p.Height.Set)

	var loose plan.Profile
	err = json.Unmarshal([]byte(`{"age":"29 years","weight":true,"height":"NaN"}`), &loose)
	require.NoError(t, err)
	require.False(t, loose.Age.Set)
	require.False(t, loose.Weight.Set)
	require.False(t, loose.Height.Set)
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, plan.Profile{Name: "Jo", Email: "jo@example.com"}.Validate())

	require.NoError(t, plan.Profile{Name: "Jo", Email: "jo"}.Validate())

	err := plan.Profile{Email: "jo@example.com"}.Validate()
	require.ErrorIs(t, err, plan.ErrMissingIdentity)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	err = plan.Profile{Name: "Jo", Email: "  "}.Validate()
	require.ErrorIs(t, err, plan.ErrMissingIdentity)
}

func TestProfileBMI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		weight plan.Measure
		height plan.Measure
		want   plan.BMI
		ok     bool
	}{
		{"healthy", plan.NewMeasure(70), plan.NewMeasure(175), plan.BMI{Value: 22.9, Category: "Healthy"}, true},
		{"obese", plan.NewMeasure(120), plan.NewMeasure(170), plan.BMI{Value: 41.5, Category: "Obese"}, true},
		{"missing height", plan.NewMeasure(70), plan.Measure{}, plan.BMI{}, false},
		{"implausible height", plan.NewMeasure(70), plan.NewMeasure(5), plan.BMI{}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := plan.Profile{Weight: tt.weight, Height: tt.height}.BMI()
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTimelineText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "3 MONTHS", plan.TimelineThreeMonths.Label())
	require.Equal(t, "NOT SPECIFIED", plan.Timeline("").Label())
	require.Equal(t, "4-Week", plan.TimelineOneMonth.DurationText())
	require.Equal(t, "Custom", plan.Timeline("2_weeks").DurationText())
	require.True(t, plan.TimelineSixMonths.IsMultiCycle())
	require.False(t, plan.TimelineOneMonth.IsMultiCycle())
	require.Equal(t, "Jo", plan.Profile{Name: "Jo Smith"}.FirstName())
	require.Equal(t, "Bodyweight Only", plan.Profile{Equipment: []string{" "}}.EquipmentText())
}
