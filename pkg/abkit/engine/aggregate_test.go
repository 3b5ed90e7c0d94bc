package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

func TestAssembleRedaction(t *testing.T) {
	configs := []config.ProviderConfig{
		{Name: "openai", Enabled: true, APIKey: "sk-super-secret", Model: "gpt-4o"},
		{Name: "anthropic", Enabled: true, APIKey: "", Model: "claude-3-5-sonnet-20241022"},
	}

	result := Assemble("run-1", time.Now().UTC(), "a", "b", "", configs, nil, nil)

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if bytes.Contains(data, []byte("sk-super-secret")) {
		t.Error("Serialized RunResult must not contain the literal api_key")
	}
	if !strings.Contains(string(data), RedactedPlaceholder) {
		t.Errorf("Expected placeholder %q in snapshot", RedactedPlaceholder)
	}

	// An empty key stays empty so a missing key is still diagnosable
	if result.Config.Providers["anthropic"].APIKey != "" {
		t.Errorf("Expected empty api_key to stay empty, got %q",
			result.Config.Providers["anthropic"].APIKey)
	}
	if result.Config.Providers["openai"].APIKey != RedactedPlaceholder {
		t.Errorf("Expected redacted api_key, got %q", result.Config.Providers["openai"].APIKey)
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	configs := []config.ProviderConfig{
		{Name: "openai", Enabled: true, APIKey: "sk-secret"},
	}

	Assemble("run-1", time.Now().UTC(), "a", "b", "", configs, nil, nil)

	if configs[0].APIKey != "sk-secret" {
		t.Error("Assemble must not mutate the caller's config slice")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	configs := []config.ProviderConfig{
		{Name: "p1", Enabled: true, APIKey: "k1"},
		{Name: "p2", Enabled: true, APIKey: "k2"},
	}

	r1 := provider.Result{Provider: "p1", Variant: "a", Success: true, Response: "one"}
	r2 := provider.Result{Provider: "p2", Variant: "a", Success: false, Error: "boom"}
	r3 := provider.Result{Provider: "p1", Variant: "b", Success: true, Response: "two"}
	r4 := provider.Result{Provider: "p2", Variant: "b", Success: true, Response: "three"}

	first := Assemble("run-1", timestamp, "a", "b", "shared", configs,
		[]provider.Result{r1, r2}, []provider.Result{r3, r4})
	second := Assemble("run-1", timestamp, "a", "b", "shared", configs,
		[]provider.Result{r2, r1}, []provider.Result{r4, r3})

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("Assemble output must be identical regardless of arrival order")
	}
}

func TestAssembleGrouping(t *testing.T) {
	timestamp := time.Now().UTC()
	results := []provider.Result{
		{Provider: "p1", Variant: "a", Success: true, Response: "hi"},
		{Provider: "p2", Variant: "a", Success: false, Error: "nope"},
	}

	result := Assemble("run-1", timestamp, "prompt a", "prompt b", "", nil, results, nil)

	if len(result.Outputs.ResultsA) != 2 {
		t.Fatalf("Expected 2 results in variant a, got %d", len(result.Outputs.ResultsA))
	}
	if result.Outputs.ResultsA["p1"].Response != "hi" {
		t.Errorf("Expected p1 response hi, got %q", result.Outputs.ResultsA["p1"].Response)
	}
	if result.Outputs.ResultsA["p2"].Error != "nope" {
		t.Errorf("Expected p2 error nope, got %q", result.Outputs.ResultsA["p2"].Error)
	}
	if len(result.Outputs.ResultsB) != 0 {
		t.Errorf("Expected empty variant b, got %v", result.Outputs.ResultsB)
	}

	if result.Inputs.PromptA != "prompt a" || result.Inputs.PromptB != "prompt b" {
		t.Error("Inputs not carried through to RunResult")
	}
}
