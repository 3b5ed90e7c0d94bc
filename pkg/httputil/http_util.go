// Package httputil provides shared HTTP glue for provider wire calls
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// RequestDetails holds the details for an HTTP request
type RequestDetails struct {
	URL               string
	APIKey            string
	RequestBody       interface{}
	AdditionalHeaders map[string]string
}

// ClientOptions holds options for customizing the HTTP client
type ClientOptions struct {
	Timeout time.Duration
}

// StatusError is returned for non-2xx responses so callers can classify
// the failure from the status code.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, body)
}

var (
	httpClient *http.Client
	clientOnce sync.Once
)

// initClient initializes the HTTP client with default options
func initClient() {
	httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}
}

// SetClientOptions allows customization of the HTTP client
func SetClientOptions(options ClientOptions) {
	clientOnce.Do(func() {
		httpClient = &http.Client{
			Timeout: options.Timeout,
		}
	})
}

func drainAndCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func createRequest(ctx context.Context, details RequestDetails) (*http.Request, error) {
	jsonBody, err := json.Marshal(details.RequestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", details.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request for URL %s: %w", details.URL, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if details.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+details.APIKey)
	}

	for key, value := range details.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

func executeRequest(req *http.Request) ([]byte, error) {
	clientOnce.Do(initClient)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request to %s: %w", req.URL, err)
	}
	defer drainAndCloseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// SendRequest performs a single JSON POST request. There is no retry: each
// dispatch task gets exactly one attempt per provider.
func SendRequest(ctx context.Context, details RequestDetails) ([]byte, error) {
	req, err := createRequest(ctx, details)
	if err != nil {
		return nil, err
	}

	return executeRequest(req)
}
