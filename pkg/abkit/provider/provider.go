// Package provider contains AI provider adapters and their registry
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
	"github.com/promptchad/promptchad/pkg/httputil"
)

// Adapter performs a single completion call against one provider
type Adapter interface {
	// Name returns the provider name
	Name() string

	// Model returns the resolved model identifier
	Model() string

	// Generate performs one network request and returns the normalized
	// response. A failed call returns an error classified by the sentinels
	// in pkg/abkit/errors; it is never retried here.
	Generate(ctx context.Context, request Request) (Response, error)
}

// Factory creates Adapter instances from a provider configuration
type Factory interface {
	// Name returns the name of this provider factory
	Name() string

	// Create validates the configuration and returns a new Adapter
	Create(cfg config.ProviderConfig) (Adapter, error)
}

// Request contains the parameters for one generation call
type Request struct {
	// Prompt is the fully resolved prompt text
	Prompt string

	// Temperature controls randomness (0.0-1.0)
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the normalized output from a provider
type Response struct {
	// Content is the generated text
	Content string

	// Model identifies the model that produced the response
	Model string

	// Usage contains token usage information when the provider reports it
	Usage *Usage
}

// Usage contains normalized token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the terminal outcome of one (provider, variant) task. Provider
// and Variant are carried for grouping and excluded from the serialized
// form, which the run log and web UI consume.
type Result struct {
	Provider       string  `json:"-"`
	Variant        string  `json:"-"`
	Success        bool    `json:"success"`
	Response       string  `json:"response,omitempty"`
	Error          string  `json:"error,omitempty"`
	Model          string  `json:"model,omitempty"`
	Usage          *Usage  `json:"usage,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
}

// classifyWireError maps transport and status failures onto the error
// taxonomy. 401/403 is authentication, 429 is rate limiting, anything else
// non-2xx or transport-level is a network failure.
func classifyWireError(provider, op string, err error) error {
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 401, 403:
			return aberrors.New(provider, op, fmt.Errorf("%w: %v", aberrors.ErrAuthentication, err))
		case 429:
			return aberrors.New(provider, op, fmt.Errorf("%w: %v", aberrors.ErrRateLimit, err))
		}
	}
	return aberrors.New(provider, op, fmt.Errorf("%w: %v", aberrors.ErrNetwork, err))
}
