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
	defaultOpenAIURL       = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel     = "gpt-4o"
	defaultOpenAIMaxTokens = 1024
)

// SupportedOpenAIModels lists the OpenAI models selectable in configuration
var SupportedOpenAIModels = map[string]bool{
	"gpt-4o":        true,
	"gpt-4o-mini":   true,
	"gpt-4-turbo":   true,
	"gpt-4":         true,
	"gpt-3.5-turbo": true,
}

// OpenAIAdapter implements the Adapter interface for OpenAI
type OpenAIAdapter struct {
	apiKey  string
	model   string
	baseURL string
}

// OpenAIFactory creates OpenAI adapters
type OpenAIFactory struct{}

// Name returns the provider name
func (f *OpenAIFactory) Name() string {
	return "openai"
}

// Create returns a new OpenAI adapter
func (f *OpenAIFactory) Create(cfg config.ProviderConfig) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, aberrors.New("openai", "create", aberrors.ErrInvalidConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	if !SupportedOpenAIModels[model] {
		model = defaultOpenAIModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}

	return &OpenAIAdapter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *OpenAIAdapter) Name() string {
	return "openai"
}

// Model returns the current model
func (p *OpenAIAdapter) Model() string {
	return p.model
}

// Generate sends a chat completion request to OpenAI
func (p *OpenAIAdapter) Generate(ctx context.Context, request Request) (Response, error) {
	maxTokens := defaultOpenAIMaxTokens
	if request.MaxTokens > 0 {
		maxTokens = request.MaxTokens
	}

	temperature := 0.7
	if request.Temperature > 0 {
		temperature = request.Temperature
	}

	openaiReq := map[string]interface{}{
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
		RequestBody: openaiReq,
	}

	responseBody, err := httputil.SendRequest(ctx, details)
	if err != nil {
		return Response{}, classifyWireError("openai", "generate", err)
	}

	var openaiResp struct {
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

	if err := json.Unmarshal(responseBody, &openaiResp); err != nil {
		return Response{}, aberrors.New("openai", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse, err))
	}

	if len(openaiResp.Choices) == 0 {
		return Response{}, aberrors.New("openai", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse,
				errors.New("no choices returned from API")))
	}

	model := openaiResp.Model
	if model == "" {
		model = p.model
	}

	return Response{
		Content: openaiResp.Choices[0].Message.Content,
		Model:   model,
		Usage: &Usage{
			PromptTokens:     openaiResp.Usage.PromptTokens,
			CompletionTokens: openaiResp.Usage.CompletionTokens,
			TotalTokens:      openaiResp.Usage.TotalTokens,
		},
	}, nil
}
