// Package report renders run results as human-readable text
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promptchad/promptchad/pkg/abkit/engine"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

const (
	bannerWidth    = 80
	promptPreview  = 500
	sectionDivider = 40
)

// Text renders the full A/B report for one run
func Text(result *engine.RunResult) string {
	var lines []string

	lines = append(lines, strings.Repeat("=", bannerWidth))
	lines = append(lines, "PROMPT A/B TEST RESULTS")
	lines = append(lines, strings.Repeat("=", bannerWidth))

	if result.Inputs.SharedInput != "" {
		lines = append(lines, "")
		lines = append(lines, "SHARED INPUT:")
		lines = append(lines, strings.Repeat("-", sectionDivider))
		lines = append(lines, truncate(result.Inputs.SharedInput))
	}

	lines = append(lines, variantSection("A", result.Inputs.PromptA, result.Outputs.ResultsA)...)
	lines = append(lines, variantSection("B", result.Inputs.PromptB, result.Outputs.ResultsB)...)

	return strings.Join(lines, "\n")
}

func variantSection(variant, prompt string, results map[string]provider.Result) []string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, strings.Repeat("=", bannerWidth))
	lines = append(lines, fmt.Sprintf("VARIANT %s", variant))
	lines = append(lines, strings.Repeat("-", sectionDivider))
	lines = append(lines, "PROMPT:")
	lines = append(lines, truncate(prompt))
	lines = append(lines, "")

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := results[name]

		lines = append(lines, fmt.Sprintf("PROVIDER: %s", strings.ToUpper(name)))
		lines = append(lines, strings.Repeat("-", sectionDivider))

		if result.Success {
			if result.Model != "" {
				lines = append(lines, fmt.Sprintf("Model: %s", result.Model))
			}
			if result.ElapsedSeconds > 0 {
				lines = append(lines, fmt.Sprintf("Time: %.2fs", result.ElapsedSeconds))
			}
			if result.Usage != nil {
				lines = append(lines, fmt.Sprintf("Usage: prompt_tokens: %d, completion_tokens: %d, total_tokens: %d",
					result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens))
			}
			lines = append(lines, "")
			lines = append(lines, "RESPONSE:")
			lines = append(lines, result.Response)
		} else {
			message := result.Error
			if message == "" {
				message = "Unknown error"
			}
			lines = append(lines, fmt.Sprintf("ERROR: %s", message))
		}

		lines = append(lines, "")
	}

	return lines
}

func truncate(text string) string {
	if len(text) > promptPreview {
		return text[:promptPreview] + "..."
	}
	return text
}
