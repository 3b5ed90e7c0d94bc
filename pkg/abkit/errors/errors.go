// Package errors provides domain-specific error types for abkit
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be used with errors.Is()
var (
	// ErrInvalidConfig indicates a configuration error (missing key or model)
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuthentication indicates authentication failure
	ErrAuthentication = errors.New("authentication failed")

	// ErrRateLimit indicates provider rate limiting
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNetwork indicates a transport-level or non-2xx failure
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse indicates an unparseable provider payload
	ErrMalformedResponse = errors.New("malformed response")

	// ErrProviderNotFound indicates an unregistered provider identifier
	ErrProviderNotFound = errors.New("provider not found")
)

// ProviderError wraps provider-related errors with context
type ProviderError struct {
	// Provider is the name of the provider (e.g., "anthropic", "openai")
	Provider string

	// Operation being performed (e.g., "generate", "parse_response")
	Op string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// New creates a new ProviderError
func New(provider, op string, err error) error {
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// Wrap adds provider context to an existing error
func Wrap(err error, provider, op string) error {
	if err == nil {
		return nil
	}
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// Is enables custom error matching
func (e *ProviderError) Is(target error) bool {
	if errors.Is(e.Err, target) {
		return true
	}

	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}

	if t.Provider != "" && t.Provider != e.Provider {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}

	if t.Provider != "" || t.Op != "" {
		return true
	}

	return errors.Is(e.Err, t.Err)
}
