package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptchad/promptchad/internal/promptstore"
	"github.com/promptchad/promptchad/internal/runlog"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

// fakeRunner returns a canned RunResult
type fakeRunner struct {
	lastInput engine.Input
}

func (r *fakeRunner) Run(ctx context.Context, input engine.Input) (*engine.RunResult, error) {
	r.lastInput = input
	return engine.Assemble("run-1", time.Now().UTC(), input.PromptA, input.PromptB,
		input.SharedInput, input.Providers,
		[]provider.Result{{Provider: "p1", Variant: "a", Success: true, Response: "hi"}},
		[]provider.Result{{Provider: "p1", Variant: "b", Success: false, Error: "boom"}}), nil
}

func newTestServer(t *testing.T, writeConfig bool) (*Server, *fakeRunner, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if writeConfig {
		content := "[providers.p1]\nenabled = true\napi_key = \"k\"\nmodel = \"m\"\ntemperature = 0.7\nmax_tokens = 64\n"
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	}

	runner := &fakeRunner{}
	server := NewServer(runner, provider.DefaultRegistry(), configPath,
		promptstore.New(filepath.Join(dir, "prompts")),
		runlog.New(filepath.Join(dir, "logs")), nil)

	return server, runner, dir
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestRunRequiresPrompt(t *testing.T) {
	server, _, _ := newTestServer(t, true)

	w := doJSON(t, server, http.MethodPost, "/api/run",
		`{"prompt_a": "  ", "prompt_b": "", "shared_input": "x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "At least one prompt is required")
}

func TestRunRequiresConfig(t *testing.T) {
	server, _, _ := newTestServer(t, false)

	w := doJSON(t, server, http.MethodPost, "/api/run", `{"prompt_a": "Say hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Config file not found")
}

func TestRunHappyPath(t *testing.T) {
	server, runner, dir := newTestServer(t, true)

	w := doJSON(t, server, http.MethodPost, "/api/run",
		`{"prompt_a": "Say hi", "prompt_b": "Say bye", "shared_input": "ctx"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		PromptA  string                     `json:"prompt_a"`
		ResultsA map[string]provider.Result `json:"results_a"`
		ResultsB map[string]provider.Result `json:"results_b"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Say hi", body.PromptA)
	assert.True(t, body.ResultsA["p1"].Success)
	assert.Equal(t, "hi", body.ResultsA["p1"].Response)
	assert.False(t, body.ResultsB["p1"].Success)
	assert.Equal(t, "boom", body.ResultsB["p1"].Error)

	// The engine receives the parsed provider configs
	require.Len(t, runner.lastInput.Providers, 1)
	assert.Equal(t, "p1", runner.lastInput.Providers[0].Name)
	assert.Equal(t, "ctx", runner.lastInput.SharedInput)

	// The run is appended to the daily JSONL log
	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".jsonl"))
}

func TestConfigEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, false)

	// Missing config file yields an empty provider map
	w := doJSON(t, server, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"providers": {}}`, w.Body.String())

	// Save then read back
	w = doJSON(t, server, http.MethodPost, "/api/config",
		`{"providers": {"openai": {"enabled": true, "api_key": "sk", "model": "gpt-4o", "temperature": 0.7, "max_tokens": 64}}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openai"`)
}

func TestPromptEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t, false)

	w := doJSON(t, server, http.MethodGet, "/api/prompts/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Prompt not found")

	w = doJSON(t, server, http.MethodPost, "/api/prompts/greeting", `{"content": "Say hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/prompts/greeting", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content": "Say hi"}`, w.Body.String())

	w = doJSON(t, server, http.MethodGet, "/api/prompts", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["greeting"]`, w.Body.String())
}

func TestProvidersEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, true)

	w := doJSON(t, server, http.MethodGet, "/api/providers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var statuses []providerStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"anthropic", "google", "openai", "xai"}, names)
}
