package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
	"github.com/promptchad/promptchad/pkg/httputil"
)

const (
	defaultAnthropicURL       = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel     = "claude-3-5-sonnet-20241022"
	defaultAnthropicMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// SupportedAnthropicModels lists the Claude models selectable in configuration
var SupportedAnthropicModels = map[string]bool{
	"claude-3-5-sonnet-20241022": true,
	"claude-3-5-sonnet-20240620": true,
	"claude-3-5-haiku-20241022":  true,
	"claude-3-opus-20240229":     true,
	"claude-3-haiku-20240307":    true,
}

// AnthropicAdapter implements the Adapter interface for Anthropic's Claude
type AnthropicAdapter struct {
	apiKey  string
	model   string
	baseURL string
}

// AnthropicFactory creates Anthropic adapters
type AnthropicFactory struct{}

// Name returns the provider name
func (f *AnthropicFactory) Name() string {
	return "anthropic"
}

// Create returns a new Anthropic adapter
func (f *AnthropicFactory) Create(cfg config.ProviderConfig) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, aberrors.New("anthropic", "create", aberrors.ErrInvalidConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	if !SupportedAnthropicModels[model] {
		model = defaultAnthropicModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}

	return &AnthropicAdapter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Model returns the current model
func (p *AnthropicAdapter) Model() string {
	return p.model
}

// Generate sends a messages request to Anthropic
func (p *AnthropicAdapter) Generate(ctx context.Context, request Request) (Response, error) {
	maxTokens := defaultAnthropicMaxTokens
	if request.MaxTokens > 0 {
		maxTokens = request.MaxTokens
	}

	temperature := 0.7
	if request.Temperature > 0 {
		temperature = request.Temperature
	}

	anthropicReq := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": request.Prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	details := httputil.RequestDetails{
		URL:         p.baseURL,
		RequestBody: anthropicReq,
		AdditionalHeaders: map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": anthropicVersion,
		},
	}

	responseBody, err := httputil.SendRequest(ctx, details)
	if err != nil {
		return Response{}, classifyWireError("anthropic", "generate", err)
	}

	var anthropicResp struct {
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(responseBody, &anthropicResp); err != nil {
		return Response{}, aberrors.New("anthropic", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse, err))
	}

	if len(anthropicResp.Content) == 0 {
		return Response{}, aberrors.New("anthropic", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse,
				errors.New("no content returned from API")))
	}

	var textContent strings.Builder
	for _, content := range anthropicResp.Content {
		if content.Type == "text" {
			textContent.WriteString(content.Text)
		}
	}

	model := anthropicResp.Model
	if model == "" {
		model = p.model
	}

	return Response{
		Content: strings.TrimSpace(textContent.String()),
		Model:   model,
		Usage: &Usage{
			PromptTokens:     anthropicResp.Usage.InputTokens,
			CompletionTokens: anthropicResp.Usage.OutputTokens,
			TotalTokens:      anthropicResp.Usage.InputTokens + anthropicResp.Usage.OutputTokens,
		},
	}, nil
}
