// Package queue delivers background jobs to a single handler, either in
// process or through a Valkey list.
package queue

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("queue closed")

// Handler executes one job. Returned errors are logged by the queue.
type Handler func(ctx context.Context, name string, payload json.RawMessage) error

// Queue accepts jobs and runs them on the registered handler.
type Queue interface {
	Enqueue(ctx context.Context, name string, payload any) error
	SetHandler(handler Handler)
	// Close stops accepting jobs and waits for the running ones.
	Close() error
}

type jobEnvelope struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func encodePayload(payload any) (json.RawMessage, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(payload)
}
