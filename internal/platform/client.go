// Package platform is the typed client for the remote Zentrix platform REST API.
// Every storefront flow composes calls through it; the storefront itself holds
// no durable commerce state.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("platform api unavailable")
)

// APIError is a non-2xx response decoded from the platform's error envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "platform-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Business rejections are not backend outages; only transport errors
		// and 5xx responses may trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, ErrNotFound) {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < 500
		},
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// do runs one JSON request through the circuit breaker and decodes the
// response body into out when out is non-nil. Session credentials ride along
// on the ambient cookie header taken from ctx by the caller's middleware.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	payload, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			raw, errMarshal := json.Marshal(body)
			if errMarshal != nil {
				return nil, fmt.Errorf("marshal request body: %w", errMarshal)
			}
			reader = bytes.NewReader(raw)
		}

		req, errReq := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if errReq != nil {
			return nil, fmt.Errorf("build request: %w", errReq)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, errDo := c.http.Do(req)
		if errDo != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, errDo)
		}
		defer resp.Body.Close()

		raw, errRead := io.ReadAll(resp.Body)
		if errRead != nil {
			return nil, fmt.Errorf("read response body: %w", errRead)
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			if errDecode := json.Unmarshal(raw, apiErr); errDecode != nil || apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
			return nil, apiErr
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
