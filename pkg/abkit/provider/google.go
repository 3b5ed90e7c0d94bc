package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
)

const defaultGoogleModel = "gemini-1.5-pro"

// SupportedGoogleModels lists the Gemini models selectable in configuration
var SupportedGoogleModels = map[string]bool{
	"gemini-1.5-pro":   true,
	"gemini-1.5-flash": true,
	"gemini-1.0-pro":   true,
}

// GoogleAdapter implements the Adapter interface for Google's Gemini via the
// official SDK. The client is created per call so each task carries its own
// context through the whole exchange.
type GoogleAdapter struct {
	apiKey string
	model  string
}

// GoogleFactory creates Google adapters
type GoogleFactory struct{}

// Name returns the provider name
func (f *GoogleFactory) Name() string {
	return "google"
}

// Create returns a new Google adapter
func (f *GoogleFactory) Create(cfg config.ProviderConfig) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, aberrors.New("google", "create", aberrors.ErrInvalidConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGoogleModel
	}
	if !SupportedGoogleModels[model] {
		model = defaultGoogleModel
	}

	return &GoogleAdapter{
		apiKey: cfg.APIKey,
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *GoogleAdapter) Name() string {
	return "google"
}

// Model returns the current model
func (p *GoogleAdapter) Model() string {
	return p.model
}

// Generate sends a content generation request to Gemini
func (p *GoogleAdapter) Generate(ctx context.Context, request Request) (Response, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return Response{}, classifyGoogleError("create_client", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	if request.Temperature > 0 {
		model.SetTemperature(float32(request.Temperature))
	}
	if request.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(request.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(request.Prompt))
	if err != nil {
		return Response{}, classifyGoogleError("generate", err)
	}

	if len(resp.Candidates) == 0 {
		return Response{}, aberrors.New("google", "parse_response",
			fmt.Errorf("%w: %v", aberrors.ErrMalformedResponse,
				errors.New("no candidates returned from API")))
	}

	var textContent strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				textContent.WriteString(string(text))
			}
		}
	}

	response := Response{
		Content: strings.TrimSpace(textContent.String()),
		Model:   p.model,
	}

	if resp.UsageMetadata != nil {
		response.Usage = &Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return response, nil
}

// classifyGoogleError maps SDK failures onto the error taxonomy
func classifyGoogleError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 401, 403:
			return aberrors.New("google", op, fmt.Errorf("%w: %v", aberrors.ErrAuthentication, err))
		case 429:
			return aberrors.New("google", op, fmt.Errorf("%w: %v", aberrors.ErrRateLimit, err))
		}
	}
	return aberrors.New("google", op, fmt.Errorf("%w: %v", aberrors.ErrNetwork, err))
}
