package ses

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/mail"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"

	fwmail "github.com/yanqian/fitness-wizard/internal/infra/mail"
)

type stubSES struct {
	input *awsses.SendRawEmailInput
}

func (s *stubSES) SendRawEmail(_ context.Context, params *awsses.SendRawEmailInput, _ ...func(*awsses.Options)) (*awsses.SendRawEmailOutput, error) {
	s.input = params
	return &awsses.SendRawEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSendBuildsMultipartMessage(t *testing.T) {
	t.Parallel()

	stub := &stubSES{}
	sender := &Sender{client: stub, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	err := sender.Send(context.Background(), fwmail.Message{
		From:        "Fitness Wizard <hello@example.com>",
		To:          []string{"jo@example.com"},
		Subject:     "Your Personalized 4-Week Fitness Plan 🚀",
		HTML:        "<h1>Ready</h1>",
		Text:        "Ready",
		Attachments: []fwmail.Attachment{{Filename: "Your_4_Week_Plan.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3 test")}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"jo@example.com"}, stub.input.Destinations)

	parsed, err := mail.ReadMessage(bytes.NewReader(stub.input.RawMessage.Data))
	require.NoError(t, err)
	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	require.Equal(t, "Your Personalized 4-Week Fitness Plan 🚀", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	var filenames []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if name := part.FileName(); name != "" {
			filenames = append(filenames, name)
		}
	}
	require.Equal(t, []string{"Your_4_Week_Plan.pdf"}, filenames)
}

func TestSendRequiresRecipient(t *testing.T) {
	t.Parallel()

	sender := &Sender{client: &stubSES{}, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	err := sender.Send(context.Background(), fwmail.Message{From: "a@example.com"})
	require.ErrorIs(t, err, fwmail.ErrNoRecipient)
}
