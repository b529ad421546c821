// Package llm holds the provider-neutral completion contract shared by the
// chat model adapters.
package llm

import (
	"context"

	"github.com/yanqian/fitness-wizard/pkg/metrics"
)

// Request is a single system + user exchange.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// Completion is the text produced for a Request.
type Completion struct {
	Content string
	Usage   metrics.TokenUsage
}

// Client is implemented by every chat model adapter.
type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (Completion, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}
