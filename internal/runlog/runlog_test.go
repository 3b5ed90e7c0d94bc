package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

func testRunResult(timestamp time.Time) *engine.RunResult {
	return engine.Assemble("run-1", timestamp, "Say hi", "Say bye", "",
		[]config.ProviderConfig{{Name: "p1", Enabled: true, APIKey: "secret"}},
		[]provider.Result{{Provider: "p1", Variant: "a", Success: true, Response: "hi"}},
		[]provider.Result{{Provider: "p1", Variant: "b", Success: true, Response: "bye"}})
}

func TestAppend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger := New(dir)

	timestamp := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	result := testRunResult(timestamp)

	if err := logger.Append(result); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := logger.Append(result); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	path := filepath.Join(dir, "2025-06-01.jsonl")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected daily log file %s: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines int
	for scanner.Scan() {
		lines++

		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", lines, err)
		}

		for _, key := range []string{"timestamp", "inputs", "config", "outputs"} {
			if _, ok := entry[key]; !ok {
				t.Errorf("Line %d missing %q field", lines, key)
			}
		}
	}

	if lines != 2 {
		t.Errorf("Expected 2 log lines, got %d", lines)
	}
}
