// Package delivery sends a finished plan to the user and kicks off the
// follow-up work: the plan email, the PDF archive and the bonus roadmap job.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/infra/mail"
)

// Dispatcher delivers rendered plans.
type Dispatcher interface {
	Deliver(ctx context.Context, profile plan.Profile, page document.PlanPage, docs Documents, opts Options) Result
}

type dispatcher struct {
	cfg     Config
	mailer  mail.Sender
	queue   Enqueuer
	archive Archive
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher is a wire provider for delivery. mailer and archive may be nil.
func NewDispatcher(cfg Config, mailer mail.Sender, queue Enqueuer, archive Archive, logger *slog.Logger) Dispatcher {
	return &dispatcher{
		cfg:     cfg,
		mailer:  mailer,
		queue:   queue,
		archive: archive,
		logger:  logger.With("component", "delivery.dispatcher"),
		now:     time.Now,
	}
}

func (d *dispatcher) Deliver(ctx context.Context, profile plan.Profile, page document.PlanPage, docs Documents, opts Options) Result {
	logger := d.logger.With("request_id", opts.RequestID, "timeline", profile.Timeline)
	res := Result{BonusStatus: BonusNotTriggered}

	res.Archived = d.archiveDocuments(ctx, logger, docs, opts.RequestID)

	if opts.Want.Email && profile.Email != "" {
		if err := d.sendPlan(ctx, profile, page, docs.Desktop); err != nil {
			logger.Error("plan email failed", "error", err)
			res.EmailError = err.Error()
		} else if d.mailer != nil {
			res.EmailSent = true
			logger.Info("plan email sent")
		}
	}

	res.BonusEligible = bonus.Eligible(profile.Timeline)
	if res.BonusEligible {
		res.BonusStatus = d.enqueueBonus(ctx, logger, profile, opts.Want)
	}
	return res
}

func (d *dispatcher) sendPlan(ctx context.Context, profile plan.Profile, page document.PlanPage, pdf []byte) error {
	if d.mailer == nil {
		d.logger.Warn("no mail provider configured, skipping email")
		return nil
	}
	content, err := composePlanEmail(profile, page, d.cfg.ReplyTo)
	if err != nil {
		return err
	}
	msg := mail.Message{
		From:    d.cfg.From,
		To:      []string{profile.Email},
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	}
	if len(pdf) > 0 {
		msg.Attachments = []mail.Attachment{{
			Filename:    PlanAttachmentName,
			ContentType: "application/pdf",
			Content:     pdf,
		}}
	}
	return d.mailer.Send(ctx, msg)
}

func (d *dispatcher) enqueueBonus(ctx context.Context, logger *slog.Logger, profile plan.Profile, want plan.Want) string {
	if d.queue == nil {
		logger.Warn("no job queue configured, bonus not triggered")
		return BonusFailed
	}
	req := bonus.Request{
		FormData: bonus.FormData{Profile: profile, Want: want},
		Source:   bonus.SourcePipeline,
	}
	if err := d.queue.Enqueue(ctx, bonus.JobName, req); err != nil {
		logger.Error("enqueue bonus job failed", "error", err)
		return BonusFailed
	}
	logger.Info("bonus job queued")
	return BonusQueued
}

func (d *dispatcher) archiveDocuments(ctx context.Context, logger *slog.Logger, docs Documents, requestID string) []StoredObject {
	if d.archive == nil || requestID == "" {
		return nil
	}
	var stored []StoredObject
	for _, item := range []struct {
		layout document.Layout
		data   []byte
	}{
		{document.LayoutDesktop, docs.Desktop},
		{document.LayoutMobile, docs.Mobile},
	} {
		if len(item.data) == 0 {
			continue
		}
		key := ArchiveKey(d.now(), requestID, item.layout)
		obj, err := d.archive.Put(ctx, key, item.data, "application/pdf")
		if err != nil {
			logger.Warn("archive pdf failed", "key", key, "error", err)
			continue
		}
		stored = append(stored, obj)
	}
	return stored
}

// ArchiveKey is the object key of an archived plan PDF.
func ArchiveKey(at time.Time, requestID string, layout document.Layout) string {
	at = at.UTC()
	return fmt.Sprintf("plans/%04d/%02d/%s-%s.pdf", at.Year(), int(at.Month()), requestID, layout)
}
