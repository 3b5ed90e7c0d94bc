package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	aberrors "github.com/promptchad/promptchad/pkg/abkit/errors"
)

func openaiTestConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Name:        "openai",
		Enabled:     true,
		APIKey:      "sk-test",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   256,
		BaseURL:     baseURL,
	}
}

func TestOpenAIFactoryCreate(t *testing.T) {
	factory := &OpenAIFactory{}

	t.Run("missing api key", func(t *testing.T) {
		_, err := factory.Create(config.ProviderConfig{Name: "openai"})
		if !errors.Is(err, aberrors.ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("unknown model falls back to default", func(t *testing.T) {
		adapter, err := factory.Create(config.ProviderConfig{APIKey: "sk-test", Model: "gpt-99"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if adapter.Model() != defaultOpenAIModel {
			t.Errorf("Expected model %s, got %s", defaultOpenAIModel, adapter.Model())
		}
	})
}

func TestOpenAIGenerate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Errorf("Expected bearer auth header, got %q", got)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("Failed to decode request body: %v", err)
			}
			if body["model"] != "gpt-4o" {
				t.Errorf("Expected model gpt-4o, got %v", body["model"])
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"model": "gpt-4o-2024-08-06",
				"choices": [{"message": {"content": "hello there"}}],
				"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
			}`))
		}))
		defer server.Close()

		adapter, err := (&OpenAIFactory{}).Create(openaiTestConfig(server.URL))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		response, err := adapter.Generate(context.Background(), Request{Prompt: "Say hi"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if response.Content != "hello there" {
			t.Errorf("Expected content 'hello there', got %q", response.Content)
		}
		if response.Model != "gpt-4o-2024-08-06" {
			t.Errorf("Expected wire model name, got %q", response.Model)
		}
		if response.Usage == nil || response.Usage.TotalTokens != 15 {
			t.Errorf("Expected total tokens 15, got %+v", response.Usage)
		}
	})

	statusTests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, aberrors.ErrAuthentication},
		{"forbidden", http.StatusForbidden, aberrors.ErrAuthentication},
		{"rate limited", http.StatusTooManyRequests, aberrors.ErrRateLimit},
		{"server error", http.StatusInternalServerError, aberrors.ErrNetwork},
	}

	for _, tt := range statusTests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			adapter, err := (&OpenAIFactory{}).Create(openaiTestConfig(server.URL))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			_, err = adapter.Generate(context.Background(), Request{Prompt: "Say hi"})
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected %v, got %v", tt.sentinel, err)
			}
		})
	}

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		adapter, err := (&OpenAIFactory{}).Create(openaiTestConfig(server.URL))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		_, err = adapter.Generate(context.Background(), Request{Prompt: "Say hi"})
		if !errors.Is(err, aberrors.ErrMalformedResponse) {
			t.Errorf("Expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		adapter, err := (&OpenAIFactory{}).Create(openaiTestConfig(server.URL))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		_, err = adapter.Generate(context.Background(), Request{Prompt: "Say hi"})
		if !errors.Is(err, aberrors.ErrMalformedResponse) {
			t.Errorf("Expected ErrMalformedResponse, got %v", err)
		}
	})
}
