// Package mail defines the outgoing email contract shared by the providers.
package mail

import (
	"context"
	"errors"
)

// ErrNoRecipient is returned when a message has no recipient.
var ErrNoRecipient = errors.New("mail: message has no recipient")

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outgoing email.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Validate checks the fields every provider needs.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.From == "" {
		return errors.New("mail: message has no sender")
	}
	return nil
}

// Sender delivers messages through a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
