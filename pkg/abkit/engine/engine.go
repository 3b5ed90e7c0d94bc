// Package engine implements the A/B dispatch engine: it fans one prompt pair
// out across the enabled providers, isolates per-task failures, and
// aggregates everything into a single RunResult.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/promptchad/promptchad/pkg/abkit/config"
	"github.com/promptchad/promptchad/pkg/abkit/provider"
)

// PromptSeparator joins a prompt with the shared input
const PromptSeparator = "\n\n---\n\n"

// DefaultTaskTimeout bounds each provider call so one hanging provider
// cannot stall the whole run.
const DefaultTaskTimeout = 60 * time.Second

// Variant identifies one side of the A/B comparison
type Variant string

const (
	// VariantA is the first prompt variant
	VariantA Variant = "a"

	// VariantB is the second prompt variant
	VariantB Variant = "b"
)

// Input carries everything one dispatch run needs
type Input struct {
	PromptA     string
	PromptB     string
	SharedInput string
	Providers   []config.ProviderConfig
}

// Engine dispatches prompt variants across providers
type Engine struct {
	registry    *provider.Registry
	logger      *logrus.Logger
	taskTimeout time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTaskTimeout overrides the per-task timeout
func WithTaskTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.taskTimeout = timeout
		}
	}
}

// New creates an Engine backed by the given provider registry
func New(registry *provider.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:    registry,
		logger:      logrus.New(),
		taskTimeout: DefaultTaskTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ResolvedPrompt combines a prompt with the shared input. An empty prompt
// stays empty even when shared input is present; an empty shared input
// leaves the prompt unchanged.
func ResolvedPrompt(prompt, shared string) string {
	if prompt == "" {
		return ""
	}
	if shared == "" {
		return prompt
	}
	return prompt + PromptSeparator + shared
}

// task is one (provider, variant) unit of work
type task struct {
	cfg     config.ProviderConfig
	adapter provider.Adapter
	variant Variant
	prompt  string
}

// Run dispatches both prompt variants against every enabled provider and
// returns the aggregated result. Provider-side failures are captured inside
// the per-provider results and never abort the run; the only error returned
// here is a malformed input list.
func (e *Engine) Run(ctx context.Context, input Input) (*RunResult, error) {
	seen := make(map[string]bool, len(input.Providers))
	for _, cfg := range input.Providers {
		if seen[cfg.Name] {
			return nil, fmt.Errorf("duplicate provider in input: %s", cfg.Name)
		}
		seen[cfg.Name] = true
	}

	runID := uuid.NewString()
	timestamp := time.Now().UTC()

	textA := ResolvedPrompt(input.PromptA, input.SharedInput)
	textB := ResolvedPrompt(input.PromptB, input.SharedInput)

	variants := make(map[Variant]string)
	if textA != "" {
		variants[VariantA] = textA
	}
	if textB != "" {
		variants[VariantB] = textB
	}

	var preflight []provider.Result
	var tasks []task

	for _, cfg := range input.Providers {
		if !cfg.Enabled {
			continue
		}

		if failure := e.prepare(cfg, &tasks, variants); failure != "" {
			for variant := range variants {
				preflight = append(preflight, provider.Result{
					Provider: cfg.Name,
					Variant:  string(variant),
					Success:  false,
					Error:    failure,
				})
			}
		}
	}

	e.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"tasks":  len(tasks),
	}).Debug("dispatching provider tasks")

	results := make(chan provider.Result, len(tasks))
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			results <- e.execute(ctx, t)
		}(t)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := preflight
	for result := range results {
		collected = append(collected, result)
	}

	var resultsA, resultsB []provider.Result
	for _, result := range collected {
		switch Variant(result.Variant) {
		case VariantA:
			resultsA = append(resultsA, result)
		case VariantB:
			resultsB = append(resultsB, result)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"results_a": len(resultsA),
		"results_b": len(resultsB),
	}).Info("dispatch complete")

	return Assemble(runID, timestamp, input.PromptA, input.PromptB, input.SharedInput,
		input.Providers, resultsA, resultsB), nil
}

// prepare resolves a provider's adapter and queues its tasks. It returns a
// non-empty message when the provider cannot be dispatched at all; the
// caller turns that into per-variant config-error results so the provider
// is visible in the output rather than silently skipped.
func (e *Engine) prepare(cfg config.ProviderConfig, tasks *[]task, variants map[Variant]string) string {
	factory, err := e.registry.Lookup(cfg.Name)
	if err != nil {
		return fmt.Sprintf("Unknown provider: %s", cfg.Name)
	}

	if cfg.APIKey == "" {
		return "API key not configured"
	}

	adapter, err := factory.Create(cfg)
	if err != nil {
		return err.Error()
	}

	for variant, prompt := range variants {
		*tasks = append(*tasks, task{
			cfg:     cfg,
			adapter: adapter,
			variant: variant,
			prompt:  prompt,
		})
	}

	return ""
}

// execute runs one task to completion, converting any adapter failure into
// a failed result. Nothing propagates and no sibling task is affected.
func (e *Engine) execute(ctx context.Context, t task) provider.Result {
	taskCtx, cancel := context.WithTimeout(ctx, e.taskTimeout)
	defer cancel()

	start := time.Now()
	response, err := t.adapter.Generate(taskCtx, provider.Request{
		Prompt:      t.prompt,
		Temperature: t.cfg.Temperature,
		MaxTokens:   t.cfg.MaxTokens,
	})

	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"provider": t.cfg.Name,
			"variant":  t.variant,
		}).WithError(err).Debug("provider task failed")

		return provider.Result{
			Provider: t.cfg.Name,
			Variant:  string(t.variant),
			Success:  false,
			Error:    err.Error(),
		}
	}

	return provider.Result{
		Provider:       t.cfg.Name,
		Variant:        string(t.variant),
		Success:        true,
		Response:       response.Content,
		Model:          response.Model,
		Usage:          response.Usage,
		ElapsedSeconds: roundSeconds(time.Since(start)),
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
