package plan_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/infra/llm"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
	"github.com/yanqian/fitness-wizard/pkg/metrics"
)

type stubLLM struct {
	content string
	usage   metrics.TokenUsage
	err     error
	calls   int
	last    llm.Request
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return llm.Completion{}, s.err
	}
	return llm.Completion{Content: s.content, Usage: s.usage}, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() plan.Config {
	return plan.Config{Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 10000}
}

func testProfile(timeline plan.Timeline) plan.Profile {
	return plan.Profile{
		Name:         "Jo Smith",
		Email:        "jo@example.com",
		Goal:         plan.GoalMuscleGain,
		FitnessLevel: plan.LevelIntermediate,
		Timeline:     timeline,
		Equipment:    []string{"Dumbbells"},
	}
}

const validPlan = `{
  "title": "Jo's Plan",
  "introduction": "Let's go.",
  "weeks": [
    {"weekTitle": "Week 1: Build Strength", "days": [
      {"dayTitle": "Day 1", "focus": "Upper", "timing": "8am", "workout": "Push-ups: 3x12; Rows: 3x10", "meals": "Breakfast: Oats"}
    ]}
  ]
}`

func TestGenerateDecodesPlan(t *testing.T) {
	t.Parallel()

	client := &stubLLM{content: validPlan, usage: metrics.TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}}
	svc := plan.NewService(testConfig(), client, nil, newTestLogger())

	gen, err := svc.Generate(context.Background(), testProfile(plan.TimelineOneMonth))
	require.NoError(t, err)
	require.False(t, gen.Degraded)
	require.Equal(t, "Jo's Plan", gen.Plan.Title)
	require.Len(t, gen.Plan.Weeks, 1)
	require.Equal(t, "Push-ups: 3x12; Rows: 3x10", gen.Plan.Weeks[0].Days[0].Workout)
	require.Equal(t, 30, gen.Usage.TotalTokens)
	require.False(t, gen.Usage.Estimated)

	require.Equal(t, 1, client.calls)
	require.True(t, client.last.JSON)
	require.Equal(t, 10000, client.last.MaxTokens)
	require.InDelta(t, 0.7, client.last.Temperature, 0.0001)
	require.True(t, strings.HasPrefix(client.last.User, "Create a fitness plan for:\n"))
	require.Contains(t, client.last.User, `"email": "jo@example.com"`)
}

func TestGenerateDegradesOnInvalidJSON(t *testing.T) {
	t.Parallel()

	raw := "Here is your plan: " + strings.Repeat("x", 600)
	client := &stubLLM{content: raw}
	svc := plan.NewService(testConfig(), client, nil, newTestLogger())

	gen, err := svc.Generate(context.Background(), testProfile(plan.TimelineOneMonth))
	require.NoError(t, err)
	require.True(t, gen.Degraded)
	require.Equal(t, "Your Custom Fitness Plan", gen.Plan.Title)
	require.Len(t, gen.Plan.Weeks, 1)
	require.Equal(t, "Week 1-4: Complete Plan", gen.Plan.Weeks[0].WeekTitle)
	day := gen.Plan.Weeks[0].Days[0]
	require.Equal(t, "Overview", day.DayTitle)
	require.Equal(t, raw[:500]+"...", day.Workout)
}

func TestGenerateEstimatesUsageWhenProviderOmitsIt(t *testing.T) {
	t.Parallel()

	counter := func(_, text string) int { return len(strings.Fields(text)) }
	svc := plan.NewService(testConfig(), &stubLLM{content: validPlan}, counter, newTestLogger())

	gen, err := svc.Generate(context.Background(), testProfile(plan.TimelineOneMonth))
	require.NoError(t, err)
	require.True(t, gen.Usage.Estimated)
	require.Positive(t, gen.Usage.PromptTokens)
	require.Positive(t, gen.Usage.CompletionTokens)
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		profile   plan.Profile
		client    *stubLLM
		code      string
		wantCalls int
	}{
		{
			name:    "missing email",
			profile: plan.Profile{Name: "Jo"},
			client:  &stubLLM{content: validPlan},
			code:    apperrors.CodeInvalidInput,
		},
		{
			name:    "blank name",
			profile: plan.Profile{Name: "  ", Email: "jo@example.com"},
			client:  &stubLLM{content: validPlan},
			code:    apperrors.CodeInvalidInput,
		},
		{
			name:      "provider failure",
			profile:   testProfile(plan.TimelineOneMonth),
			client:    &stubLLM{err: errors.New("connection reset")},
			code:      apperrors.CodeLLM,
			wantCalls: 1,
		},
		{
			name:      "empty content",
			profile:   testProfile(plan.TimelineOneMonth),
			client:    &stubLLM{content: "  \n"},
			code:      apperrors.CodeLLM,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := plan.NewService(testConfig(), tt.client, nil, newTestLogger())
			_, err := svc.Generate(context.Background(), tt.profile)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
			require.Equal(t, tt.wantCalls, tt.client.calls)
		})
	}
}

func TestGeneratePromptFollowsTimeline(t *testing.T) {
	t.Parallel()

	oneMonth := &stubLLM{content: validPlan}
	_, err := plan.NewService(testConfig(), oneMonth, nil, newTestLogger()).
		Generate(context.Background(), testProfile(plan.TimelineOneMonth))
	require.NoError(t, err)
	require.Contains(t, oneMonth.last.System, `Do NOT include a "progressionNotes" field`)
	require.Contains(t, oneMonth.last.System, "Week 2: Progressive Load")
	require.Contains(t, oneMonth.last.System, "Equipment: Dumbbells")

	threeMonths := &stubLLM{content: validPlan}
	_, err = plan.NewService(testConfig(), threeMonths, nil, newTestLogger()).
		Generate(context.Background(), testProfile(plan.TimelineThreeMonths))
	require.NoError(t, err)
	require.Contains(t, threeMonths.last.System, `You MUST include a "progressionNotes" field`)
}
