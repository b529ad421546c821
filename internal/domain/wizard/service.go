// Package wizard runs the full plan pipeline for one submission: generate,
// compose, render both layouts, then deliver.
package wizard

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/fitness-wizard/internal/domain/delivery"
	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

const pdfDataURLPrefix = "data:application/pdf;base64,"

var tracer = otel.Tracer("github.com/yanqian/fitness-wizard/internal/domain/wizard")

// Service runs the plan pipeline.
type Service interface {
	GeneratePlan(ctx context.Context, req Request) (Response, error)
}

// TokenIssuer issues the token that authorizes a later bonus request.
type TokenIssuer interface {
	IssueToken(profile plan.Profile) (string, error)
}

type service struct {
	plans      plan.Service
	renderer   document.Renderer
	dispatcher delivery.Dispatcher
	tokens     TokenIssuer
	logger     *slog.Logger
	now        func() time.Time
}

// NewService is a wire provider for the wizard pipeline. tokens may be nil.
func NewService(plans plan.Service, renderer document.Renderer, dispatcher delivery.Dispatcher, tokens TokenIssuer, logger *slog.Logger) Service {
	return &service{
		plans:      plans,
		renderer:   renderer,
		dispatcher: dispatcher,
		tokens:     tokens,
		logger:     logger.With("component", "wizard.service"),
		now:        time.Now,
	}
}

func (s *service) GeneratePlan(ctx context.Context, req Request) (Response, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	ctx, span := tracer.Start(ctx, "wizard.GeneratePlan")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", req.RequestID),
		attribute.String("plan.timeline", string(req.Timeline)),
	)

	logger := s.logger.With("request_id", req.RequestID)
	started := s.now()

	gen, err := s.plans.Generate(ctx, req.Profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate plan")
		return Response{}, err
	}

	page := document.ComposePlan(req.Profile, gen.Plan, s.now())
	docs, err := s.render(ctx, page)
	if err != nil {
		logger.Error("render plan failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render plan")
		return Response{}, apperrors.Wrap(apperrors.CodeRender, "Failed to generate PDF", err)
	}

	result := s.dispatcher.Deliver(ctx, req.Profile, page, docs, delivery.Options{Want: req.Want, RequestID: req.RequestID})

	resp := Response{
		Success:         true,
		RequestID:       req.RequestID,
		Plan:            gen.Plan,
		Degraded:        gen.Degraded,
		EmailSent:       result.EmailSent,
		IsBonusEligible: result.BonusEligible,
		BonusStatus:     result.BonusStatus,
	}
	if result.EmailError != "" {
		msg := result.EmailError
		resp.EmailError = &msg
	}
	if req.Want.PDF {
		resp.PDFURL = pdfDataURL(docs.Desktop)
		resp.MobilePDFURL = pdfDataURL(docs.Mobile)
	}
	if !gen.Usage.IsZero() {
		usage := gen.Usage
		resp.TokenUsage = &usage
	}
	if bmi, ok := req.Profile.BMI(); ok {
		resp.BMI = &bmi
	}
	if s.tokens != nil && result.BonusEligible {
		token, err := s.tokens.IssueToken(req.Profile)
		if err != nil {
			logger.Warn("issue bonus token failed", "error", err)
		}
		resp.BonusToken = token
	}

	logger.Info("plan generated",
		"timeline", req.Timeline,
		"degraded", gen.Degraded,
		"desktop_bytes", len(docs.Desktop),
		"mobile_bytes", len(docs.Mobile),
		"email_sent", result.EmailSent,
		"bonus_status", result.BonusStatus,
		"total_tokens", gen.Usage.TotalTokens,
		"duration", s.now().Sub(started),
	)
	return resp, nil
}

// render draws the desktop and mobile layouts of the same page concurrently.
func (s *service) render(ctx context.Context, page document.PlanPage) (delivery.Documents, error) {
	var docs delivery.Documents
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.renderer.RenderPlan(gctx, page, document.LayoutDesktop)
		docs.Desktop = data
		return err
	})
	g.Go(func() error {
		data, err := s.renderer.RenderPlan(gctx, page, document.LayoutMobile)
		docs.Mobile = data
		return err
	})
	if err := g.Wait(); err != nil {
		return delivery.Documents{}, err
	}
	return docs, nil
}

func pdfDataURL(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return pdfDataURLPrefix + base64.StdEncoding.EncodeToString(data)
}
