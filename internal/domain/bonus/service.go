package bonus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/infra/mail"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

const notEligibleMessage = "No bonus required"

// Service renders and sends bonus roadmaps.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
	HandleJob(ctx context.Context, name string, payload json.RawMessage) error
	// IssueToken returns "" when tokens are not configured or the profile is
	// not eligible.
	IssueToken(profile plan.Profile) (string, error)
}

// ClaimStore guards against sending the same bonus twice.
type ClaimStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// JobLog records the outcome of every bonus run.
type JobLog interface {
	Record(ctx context.Context, rec JobRecord) error
}

type service struct {
	cfg      Config
	renderer document.Renderer
	mailer   mail.Sender
	claims   ClaimStore
	jobs     JobLog
	tokens   *Tokens
	logger   *slog.Logger
	now      func() time.Time
}

// NewService is a wire provider for the bonus domain. mailer and tokens may be nil.
func NewService(cfg Config, renderer document.Renderer, mailer mail.Sender, claims ClaimStore, jobs JobLog, tokens *Tokens, logger *slog.Logger) Service {
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = 24 * time.Hour
	}
	return &service{
		cfg:      cfg,
		renderer: renderer,
		mailer:   mailer,
		claims:   claims,
		jobs:     jobs,
		tokens:   tokens,
		logger:   logger.With("component", "bonus.service"),
		now:      time.Now,
	}
}

// Eligible reports whether a timeline earns the bonus roadmap.
func Eligible(t plan.Timeline) bool {
	return t.IsMultiCycle()
}

func (s *service) IssueToken(profile plan.Profile) (string, error) {
	if s.tokens == nil || !Eligible(profile.Timeline) {
		return "", nil
	}
	return s.tokens.Issue(profile)
}

// Generate serves client triggered requests and checks the bonus token when required.
func (s *service) Generate(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.FormData.Email) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing form data", nil)
	}
	if s.cfg.RequireToken && Eligible(req.FormData.Timeline) {
		if s.tokens == nil {
			return Response{}, apperrors.Wrap(apperrors.CodeUnauthorized, "Bonus tokens are not configured", nil)
		}
		if err := s.tokens.Verify(req.Token, req.FormData.Profile); err != nil {
			return Response{}, apperrors.Wrap(apperrors.CodeUnauthorized, "Invalid bonus token", err)
		}
	}
	if req.Source == "" {
		req.Source = SourceClient
	}
	return s.run(ctx, req)
}

// HandleJob runs a queued bonus request. Jobs come from the plan pipeline and
// are trusted without a token.
func (s *service) HandleJob(ctx context.Context, name string, payload json.RawMessage) error {
	if name != JobName {
		return fmt.Errorf("unexpected job %q", name)
	}
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("decode bonus job: %w", err)
	}
	if req.Source == "" {
		req.Source = SourcePipeline
	}
	if strings.TrimSpace(req.FormData.Email) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "Missing form data", nil)
	}
	_, err := s.run(ctx, req)
	return err
}

func (s *service) run(ctx context.Context, req Request) (Response, error) {
	profile := req.FormData.Profile
	if !Eligible(profile.Timeline) {
		s.logger.Info("profile not eligible for bonus", "timeline", profile.Timeline)
		return Response{Success: true, Message: notEligibleMessage}, nil
	}

	started := s.now()
	rec := JobRecord{
		ID:        uuid.NewString(),
		Job:       JobName,
		Email:     normalizeEmail(profile.Email),
		Timeline:  profile.Timeline,
		Source:    req.Source,
		StartedAt: started,
	}

	// Only runs that send an email take the claim; a render-only run must not
	// block a later emailed one.
	key := rec.Email + ":" + string(profile.Timeline)
	claimed := false
	if s.sendsEmail(req) {
		owned, err := s.claims.Claim(ctx, key, s.cfg.ClaimTTL)
		switch {
		case err != nil:
			s.logger.Warn("bonus claim failed, continuing without dedupe", "error", err)
		case !owned:
			rec.Status = StatusDuplicate
			s.record(ctx, rec)
			return Response{Success: true, Message: "Bonus already sent", Duplicate: true}, nil
		default:
			claimed = true
		}
	}

	status, err := s.deliver(ctx, req)
	rec.Duration = s.now().Sub(started)
	if err != nil {
		if claimed {
			if relErr := s.claims.Release(ctx, key); relErr != nil {
				s.logger.Warn("bonus claim release failed", "error", relErr)
			}
		}
		rec.Status = StatusFailed
		rec.Error = err.Error()
		s.record(ctx, rec)
		return Response{}, err
	}
	rec.Status = status
	s.record(ctx, rec)
	return Response{Success: true}, nil
}

func (s *service) sendsEmail(req Request) bool {
	return req.FormData.Want.Email && s.mailer != nil
}

func (s *service) deliver(ctx context.Context, req Request) (string, error) {
	profile := req.FormData.Profile
	roadmap := document.ComposeRoadmap(profile, s.now())
	pdf, err := s.renderer.RenderRoadmap(ctx, roadmap)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeRender, "Failed to generate bonus", err)
	}
	filename := document.RoadmapFilename(profile.Timeline)
	s.logger.Info("bonus pdf generated", "file", filename, "bytes", len(pdf), "source", req.Source)

	if !s.sendsEmail(req) {
		if req.FormData.Want.Email {
			s.logger.Warn("no mailer configured, skipping bonus email")
		}
		return StatusRendered, nil
	}
	content, err := composeEmail(profile)
	if err != nil {
		return "", err
	}
	err = s.mailer.Send(ctx, mail.Message{
		From:    s.cfg.From,
		To:      []string{strings.TrimSpace(profile.Email)},
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
		Attachments: []mail.Attachment{
			{Filename: filename, ContentType: "application/pdf", Content: pdf},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeMail, "Failed to send bonus email", err)
	}
	return StatusSent, nil
}

func (s *service) record(ctx context.Context, rec JobRecord) {
	s.logger.Info("bonus job finished", "id", rec.ID, "status", rec.Status, "source", rec.Source, "timeline", rec.Timeline, "error", rec.Error)
	if s.jobs == nil {
		return
	}
	if err := s.jobs.Record(ctx, rec); err != nil {
		s.logger.Error("bonus job log write failed", "id", rec.ID, "error", err)
	}
}
