package bonus_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/infra/claims"
	"github.com/yanqian/fitness-wizard/internal/infra/mail"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

type stubRenderer struct {
	roadmaps []document.Roadmap
	err      error
}

func (s *stubRenderer) RenderPlan(context.Context, document.PlanPage, document.Layout) ([]byte, error) {
	return []byte("%PDF-plan"), nil
}

func (s *stubRenderer) RenderRoadmap(_ context.Context, r document.Roadmap) ([]byte, error) {
	s.roadmaps = append(s.roadmaps, r)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-roadmap"), nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *stubMailer) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type recordingLog struct {
	mu      sync.Mutex
	records []bonus.JobRecord
}

func (l *recordingLog) Record(_ context.Context, rec bonus.JobRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func (l *recordingLog) statuses() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r.Status)
	}
	return out
}

type fixture struct {
	svc      bonus.Service
	renderer *stubRenderer
	mailer   *stubMailer
	log      *recordingLog
}

func newFixture(cfg bonus.Config, tokens *bonus.Tokens) fixture {
	f := fixture{renderer: &stubRenderer{}, mailer: &stubMailer{}, log: &recordingLog{}}
	if cfg.From == "" {
		cfg.From = "Fitness Wizard <hello@example.com>"
	}
	f.svc = bonus.NewService(cfg, f.renderer, f.mailer, claims.NewMemoryStore(), f.log, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func request(timeline plan.Timeline, email bool) bonus.Request {
	return bonus.Request{FormData: bonus.FormData{
		Profile: plan.Profile{Name: "Jo Smith", Email: "jo@example.com", Timeline: timeline, Goal: plan.GoalEndurance},
		Want:    plan.Want{Email: email},
	}}
}

func TestGenerateSendsBonusEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	resp, err := f.svc.Generate(context.Background(), request(plan.TimelineSixMonths, true))
	require.NoError(t, err)
	require.True(t, resp.Success)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	require.Equal(t, "Your Bonus 6-Month Roadmap! 🎁", msg.Subject)
	require.Equal(t, []string{"jo@example.com"}, msg.To)
	require.Contains(t, msg.HTML, "Hi Jo,")
	require.Equal(t, "Bonus_6_Month_Blueprint.pdf", msg.Attachments[0].Filename)
	require.Equal(t, []byte("%PDF-roadmap"), msg.Attachments[0].Content)
	require.Equal(t, "6-Month Mastery", f.renderer.roadmaps[0].Title)
	require.Equal(t, []string{bonus.StatusSent}, f.log.statuses())
	require.Equal(t, bonus.SourceClient, f.log.records[0].Source)
}

func TestGenerateNotEligible(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	resp, err := f.svc.Generate(context.Background(), request(plan.TimelineOneMonth, true))
	require.NoError(t, err)
	require.Equal(t, bonus.Response{Success: true, Message: "No bonus required"}, resp)
	require.Empty(t, f.renderer.roadmaps)
	require.Empty(t, f.mailer.sent)
}

func TestGenerateMissingEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	_, err := f.svc.Generate(context.Background(), bonus.Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestGenerateDeduplicatesPipelineAndClient(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{ClaimTTL: time.Hour}, nil)
	payload, err := json.Marshal(request(plan.TimelineThreeMonths, true))
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleJob(context.Background(), bonus.JobName, payload))

	resp, err := f.svc.Generate(context.Background(), request(plan.TimelineThreeMonths, true))
	require.NoError(t, err)
	require.True(t, resp.Duplicate)

	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, []string{bonus.StatusSent, bonus.StatusDuplicate}, f.log.statuses())
	require.Equal(t, bonus.SourcePipeline, f.log.records[0].Source)
}

func TestGenerateReleasesClaimOnFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	f.mailer.err = errors.New("smtp down")

	_, err := f.svc.Generate(context.Background(), request(plan.TimelineThreeMonths, true))
	require.True(t, apperrors.IsCode(err, apperrors.CodeMail))

	f.mailer.err = nil
	_, err = f.svc.Generate(context.Background(), request(plan.TimelineThreeMonths, true))
	require.NoError(t, err)
	require.Equal(t, []string{bonus.StatusFailed, bonus.StatusSent}, f.log.statuses())
	require.Contains(t, f.log.records[0].Error, "smtp down")
}

func TestGenerateRenderFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	f.renderer.err = errors.New("font missing")
	_, err := f.svc.Generate(context.Background(), request(plan.TimelineSixMonths, false))
	require.True(t, apperrors.IsCode(err, apperrors.CodeRender))
}

func TestGenerateWithoutEmailPreference(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	_, err := f.svc.Generate(context.Background(), request(plan.TimelineSixMonths, false))
	require.NoError(t, err)
	require.Empty(t, f.mailer.sent)
	require.Equal(t, []string{bonus.StatusRendered}, f.log.statuses())
}

func TestGenerateRenderOnlyDoesNotBlockEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{ClaimTTL: time.Hour}, nil)
	resp, err := f.svc.Generate(context.Background(), request(plan.TimelineThreeMonths, false))
	require.NoError(t, err)
	require.False(t, resp.Duplicate)

	resp, err = f.svc.Generate(context.Background(), request(plan.TimelineThreeMonths, true))
	require.NoError(t, err)
	require.False(t, resp.Duplicate)
	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, []string{bonus.StatusRendered, bonus.StatusSent}, f.log.statuses())
}

func TestGenerateRequiresToken(t *testing.T) {
	t.Parallel()

	tokens := bonus.NewTokens(bonus.TokenConfig{Secret: "secret"})
	f := newFixture(bonus.Config{RequireToken: true}, tokens)

	req := request(plan.TimelineThreeMonths, true)
	_, err := f.svc.Generate(context.Background(), req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	req.Token, err = f.svc.IssueToken(req.FormData.Profile)
	require.NoError(t, err)
	require.NotEmpty(t, req.Token)
	_, err = f.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	token, err := f.svc.IssueToken(plan.Profile{Email: "jo@example.com", Timeline: plan.TimelineOneMonth})
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestHandleJobRejectsUnknownJobs(t *testing.T) {
	t.Parallel()

	f := newFixture(bonus.Config{}, nil)
	require.Error(t, f.svc.HandleJob(context.Background(), "other", json.RawMessage(`{}`)))
	require.Error(t, f.svc.HandleJob(context.Background(), bonus.JobName, json.RawMessage(`not json`)))
}
