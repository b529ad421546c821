package plan

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yanqian/fitness-wizard/internal/infra/llm"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
	"github.com/yanqian/fitness-wizard/pkg/metrics"
)

const (
	fallbackTitle        = "Your Custom Fitness Plan"
	fallbackIntroduction = "Your personalized fitness and nutrition plan has been generated. Due to formatting, some details may be simplified."
	fallbackExcerptLen   = 500
)

var tracer = otel.Tracer("github.com/yanqian/fitness-wizard/internal/domain/plan")

// Service generates structured fitness plans.
type Service interface {
	Generate(ctx context.Context, profile Profile) (Generation, error)
}

// Generation is the outcome of one successful model call.
type Generation struct {
	Plan  Document
	Usage metrics.TokenUsage
	// Degraded is set when the model output could not be decoded and the
	// plan carries the raw text instead.
	Degraded bool
}

type service struct {
	cfg     Config
	client  llm.Client
	counter metrics.TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the plan domain.
func NewService(cfg Config, client llm.Client, counter metrics.TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		client:  client,
		counter: counter,
		logger:  logger.With("component", "plan.service"),
	}
}

func (s *service) Generate(ctx context.Context, profile Profile) (Generation, error) {
	if err := profile.Validate(); err != nil {
		return Generation{}, err
	}

	ctx, span := tracer.Start(ctx, "plan.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("plan.model", s.cfg.Model),
		attribute.String("plan.timeline", string(profile.Timeline)),
	)

	req := llm.Request{
		Model:       s.cfg.Model,
		System:      buildSystemPrompt(profile),
		User:        buildUserPrompt(profile),
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		JSON:        true,
	}
	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return Generation{}, apperrors.Wrap(apperrors.CodeLLM, "Failed to generate plan", err)
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		span.SetStatus(codes.Error, "empty completion")
		return Generation{}, apperrors.Wrap(apperrors.CodeLLM, "No content from AI", nil)
	}

	usage := resp.Usage
	if usage.IsZero() {
		usage = metrics.Estimate(s.counter, s.cfg.Model, req.System+"\n"+req.User, content)
	}
	span.SetAttributes(attribute.Int("plan.tokens.total", usage.TotalTokens))

	doc, err := ParseDocument(content)
	if err != nil {
		s.logger.Warn("plan response could not be decoded, using raw fallback", "error", err, "length", len(content))
		span.SetAttributes(attribute.Bool("plan.degraded", true))
		return Generation{Plan: degradedDocument(content), Usage: usage, Degraded: true}, nil
	}

	s.logger.Info("plan generated",
		"weeks", len(doc.Weeks),
		"timeline", profile.Timeline,
		"total_tokens", usage.TotalTokens,
		"estimated_tokens", usage.Estimated,
	)
	return Generation{Plan: doc, Usage: usage}, nil
}

func degradedDocument(raw string) Document {
	return Document{
		Title:        fallbackTitle,
		Introduction: fallbackIntroduction,
		Weeks: []Week{{
			WeekTitle: "Week 1-4: Complete Plan",
			Days: []Day{{
				DayTitle: "Overview",
				Focus:    "Full Program",
				Workout:  excerpt(raw, fallbackExcerptLen) + "...",
				Meals:    "See full plan details",
				Timing:   "Flexible schedule",
			}},
		}},
	}
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
