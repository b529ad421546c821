// Package resend delivers mail through the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	resendapi "github.com/resend/resend-go/v2"

	"github.com/yanqian/fitness-wizard/internal/infra/mail"
)

type emails interface {
	SendWithContext(ctx context.Context, params *resendapi.SendEmailRequest) (*resendapi.SendEmailResponse, error)
}

// Sender implements mail.Sender.
type Sender struct {
	emails emails
	logger *slog.Logger
}

// NewSender builds a Resend sender from an API key.
func NewSender(apiKey string, logger *slog.Logger) (*Sender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("resend api key cannot be empty")
	}
	client := resendapi.NewClient(apiKey)
	return &Sender{emails: client.Emails, logger: logger.With("component", "mail.resend")}, nil
}

var _ mail.Sender = (*Sender)(nil)

// Send posts the message to Resend.
func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	req := &resendapi.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resendapi.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}
	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	s.logger.Info("email sent", "id", resp.Id, "subject", msg.Subject, "attachments", len(msg.Attachments))
	return nil
}
