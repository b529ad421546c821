// Package gemini adapts the Google GenAI SDK to the completion contract.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/fitness-wizard/internal/infra/llm"
	"github.com/yanqian/fitness-wizard/pkg/metrics"
)

// Config configures the Gemini client.
type Config struct {
	APIKey string
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on top of genai.
type Client struct {
	models generator
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{models: client.Models}, nil
}

var _ llm.Client = (*Client)(nil)

// Complete sends the system prompt as the system instruction and the user
// message as the only content.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		MaxOutputTokens:   int32(req.MaxTokens),
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.models.GenerateContent(ctx, req.Model, genai.Text(req.User), config)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("gemini generate content: %w", err)
	}
	out := llm.Completion{Content: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = metrics.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}
