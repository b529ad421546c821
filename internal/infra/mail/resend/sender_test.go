package resend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	resendapi "github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/infra/mail"
)

type stubEmails struct {
	last *resendapi.SendEmailRequest
	err  error
}

func (s *stubEmails) SendWithContext(_ context.Context, params *resendapi.SendEmailRequest) (*resendapi.SendEmailResponse, error) {
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &resendapi.SendEmailResponse{Id: "email_123"}, nil
}

func newTestSender(stub *stubEmails) *Sender {
	return &Sender{emails: stub, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSendMapsMessage(t *testing.T) {
	t.Parallel()

	stub := &stubEmails{}
	err := newTestSender(stub).Send(context.Background(), mail.Message{
		From:    "Fitness Wizard <hello@example.com>",
		To:      []string{"jo@example.com"},
		Subject: "Your plan",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		Attachments: []mail.Attachment{
			{Filename: "Your_4_Week_Plan.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"jo@example.com"}, stub.last.To)
	require.Equal(t, "<p>Hi</p>", stub.last.Html)
	require.Len(t, stub.last.Attachments, 1)
	require.Equal(t, "Your_4_Week_Plan.pdf", stub.last.Attachments[0].Filename)
	require.Equal(t, []byte("%PDF-1.3"), stub.last.Attachments[0].Content)
}

func TestSendErrors(t *testing.T) {
	t.Parallel()

	stub := &stubEmails{err: errors.New("invalid api key")}
	err := newTestSender(stub).Send(context.Background(), mail.Message{From: "a@example.com", To: []string{"b@example.com"}})
	require.ErrorContains(t, err, "invalid api key")

	err = newTestSender(&stubEmails{}).Send(context.Background(), mail.Message{From: "a@example.com"})
	require.ErrorIs(t, err, mail.ErrNoRecipient)
}
