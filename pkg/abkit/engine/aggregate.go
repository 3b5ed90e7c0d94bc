package engine

import (
	"time"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

// RedactedPlaceholder replaces api_key values in the config snapshot
const RedactedPlaceholder = "[REDACTED]"

// RunInputs holds the raw user inputs of one run
type RunInputs struct {
	PromptA     string `json:"prompt_a"`
	PromptB     string `json:"prompt_b"`
	SharedInput string `json:"shared_input"`
}

// ConfigSnapshot is the redacted provider configuration of one run
type ConfigSnapshot struct {
	Providers map[string]config.ProviderConfig `json:"providers"`
}

// RunOutputs groups the per-provider results by variant
type RunOutputs struct {
	ResultsA map[string]provider.Result `json:"results_a"`
	ResultsB map[string]provider.Result `json:"results_b"`
}

// RunResult is the terminal artifact of one dispatch run. Its serialized
// shape is what the run log appends and the front ends render; it is
// immutable once assembled.
type RunResult struct {
	RunID     string         `json:"run_id"`
	Timestamp time.Time      `json:"timestamp"`
	Inputs    RunInputs      `json:"inputs"`
	Config    ConfigSnapshot `json:"config"`
	Outputs   RunOutputs     `json:"outputs"`
}

// Assemble groups results by provider per variant and snapshots the
// configuration with api_key values redacted. It is a pure function: the
// grouping is keyed, so arrival order never changes the output.
func Assemble(runID string, timestamp time.Time, promptA, promptB, sharedInput string,
	configs []config.ProviderConfig, resultsA, resultsB []provider.Result) *RunResult {

	snapshot := ConfigSnapshot{
		Providers: make(map[string]config.ProviderConfig, len(configs)),
	}
	for _, cfg := range configs {
		if cfg.APIKey != "" {
			cfg.APIKey = RedactedPlaceholder
		}
		snapshot.Providers[cfg.Name] = cfg
	}

	return &RunResult{
		RunID:     runID,
		Timestamp: timestamp,
		Inputs: RunInputs{
			PromptA:     promptA,
			PromptB:     promptB,
			SharedInput: sharedInput,
		},
		Config: snapshot,
		Outputs: RunOutputs{
			ResultsA: groupByProvider(resultsA),
			ResultsB: groupByProvider(resultsB),
		},
	}
}

func groupByProvider(results []provider.Result) map[string]provider.Result {
	grouped := make(map[string]provider.Result, len(results))
	for _, result := range results {
		grouped[result.Provider] = result
	}
	return grouped
}
