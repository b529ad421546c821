package metrics

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int  `json:"promptTokens"`
	CompletionTokens int  `json:"completionTokens,omitempty"`
	TotalTokens      int  `json:"totalTokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// TokenCounter estimates the token count of a text for a model.
type TokenCounter func(model, text string) int

var (
	encMu    sync.Mutex
	encCache = map[string]*tiktoken.Tiktoken{}
)

// CountTokens estimates tokens with tiktoken, falling back to a 4 chars/token
// heuristic when no encoding can be loaded for the model.
func CountTokens(model, text string) int {
	if text == "" {
		return 0
	}
	enc := encodingFor(model)
	if enc == nil {
		return approxTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func encodingFor(model string) *tiktoken.Tiktoken {
	encMu.Lock()
	defer encMu.Unlock()
	if enc, ok := encCache[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		enc = nil
	}
	encCache[model] = enc
	return enc
}

func approxTokens(text string) int {
	return (len(text) + 3) / 4
}

// Estimate builds a usage record from prompt and completion texts.
func Estimate(counter TokenCounter, model, prompt, completion string) TokenUsage {
	if counter == nil {
		counter = func(_ string, text string) int { return approxTokens(text) }
	}
	p := counter(model, prompt)
	c := counter(model, completion)
	return TokenUsage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c, Estimated: true}
}
