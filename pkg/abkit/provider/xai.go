package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
	"github.com/promptchad/promptchad/pkg/httputil"
)

const (
	defaultXAIURL       = "https://api.x.ai/v1/chat/completions"
	defaultXAIModel     = "grok-beta"
	defaultXAIMaxTokens = 1024
)

// SupportedXAIModels lists the Grok models selectable in configuration
var SupportedXAIModels = map[string]bool{
	"grok-beta":   true,
	"grok-2-1212": true,
}

// XAIAdapter implements the Adapter interface for xAI's Grok, which exposes
// an OpenAI-compatible chat completions endpoint.
type XAIAdapter struct {
	apiKey  string
	model   string
	baseURL string
}

// XAIFactory creates xAI adapters
type XAIFactory struct{}

// Name returns the provider name
func (f *XAIFactory) Name() string {
	return "xai"
}

// Create returns a new xAI adapter
func (f *XAIFactory) Create(cfg config.ProviderConfig) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, aberrors.New("xai", "create", aberrors.ErrInvalidConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultXAIModel
	}
	if !SupportedXAIModels[model] {
		model = defaultXAIModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultXAIURL
	}

	return &XAIAdapter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *XAIAdapter) Name() string {
	return "xai"
}

// Model returns the current model
func (p *XAIAdapter) Model() string {
	return p.model
}

// Generate sends a chat completion request to xAI
func (p *XAIAdapter) Generate(ctx context.Context, request Request) (Response, error) {
	maxTokens := defaultXAIMaxTokens
	if request.MaxTokens > 0 {
		maxTokens = request.MaxTokens
	}

	temperature := 0.7
	if request.Temperature > 0 {
		temperature = request.Temperature
	}

	xaiReq := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": request.Prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	details := httputil.RequestDetails{
		URL:         p.baseURL,
		APIKey:      p.apiKey,
		RequestBody: xaiReq,
	}

	responseBody, err := httputil.SendRequest(ctx, details)
	if err != nil {
		return Response{}, classifyWireError("xai", "generate", err)
	}

	var xaiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(responseBody, &xaiResp); err != nil {
		return Response{}, aberrors.New("xai", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse, err))
	}

	if len(xaiResp.Choices) == 0 {
		return Response{}, aberrors.New("xai", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse,
				errors.New("no choices returned from API")))
	}

	model := xaiResp.Model
	if model == "" {
		model = p.model
	}

	return Response{
		Content: xaiResp.Choices[0].Message.Content,
		Model:   model,
		Usage: &Usage{
			PromptTokens:     xaiResp.Usage.PromptTokens,
			CompletionTokens: xaiResp.Usage.CompletionTokens,
			TotalTokens:      xaiResp.Usage.TotalTokens,
		},
	}, nil
}
