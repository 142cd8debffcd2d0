package batchq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/validate"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultHTTPTimeout bounds a single batched request end to end.
	DefaultHTTPTimeout = 8 * time.Second

	// DefaultHTTPRetryCount is the number of connection-level retries.
	// HTTP status errors are never retried; a non-2xx reply means the
	// gateway saw the batch and retrying could double-apply it.
	DefaultHTTPRetryCount = 3
)

// HTTPTransportConfig holds the settings for the resty-backed Transport.
type HTTPTransportConfig struct {
	BaseURL    string        // Gateway root URL, e.g. "http://127.0.0.1:8418"
	Timeout    time.Duration // Per-request timeout
	RetryCount int           // Connection-error retries (0 disables)
	UserAgent  string        // User-Agent header for request attribution
}

// DefaultHTTPTransportConfig returns transport settings suitable for a
// gateway on the local machine. BaseURL must still be set by the caller.
func DefaultHTTPTransportConfig() *HTTPTransportConfig {
	return &HTTPTransportConfig{
		Timeout:    DefaultHTTPTimeout,
		RetryCount: DefaultHTTPRetryCount,
		UserAgent:  "batchq",
	}
}

// Validate checks the transport configuration before a client is built from
// it, so misconfiguration surfaces at construction time rather than on the
// first batch.
func (c *HTTPTransportConfig) Validate() error {
	if err := validate.ValidateRequiredString(c.BaseURL, "base URL"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(c.Timeout, "timeout"); err != nil {
		return err
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("retry count must be non-negative, got %d", c.RetryCount)
	}
	return nil
}

// HTTPTransport is the production Transport: it POSTs the JSON envelope to
// baseURL + destination and parses the reply as an ordered JSON array.
type HTTPTransport struct {
	client *resty.Client
}

// restyLogger routes resty's internal logging through the structured logger
// so transport chatter respects the configured log level.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { logging.Error(format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { logging.Warn(format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { logging.Debug(format, v...) }

// NewHTTPTransport builds an HTTPTransport from the given configuration.
// Retries fire only on connection errors, never on HTTP status errors.
func NewHTTPTransport(config *HTTPTransportConfig) (*HTTPTransport, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("transport config validation failed: %w", err)
	}

	client := resty.New()
	client.SetLogger(restyLogger{})

	client.
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", config.UserAgent)

	client.
		SetRetryCount(config.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only retry on connection errors, not HTTP errors
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Transport: Sending batch request: %s %s", req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Transport: Batch response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	return &HTTPTransport{client: client}, nil
}

// Do sends one batch envelope and returns the server's ordered result array.
// A non-2xx status is reported as an error carrying the response body, since
// the queue treats any failure here as a whole-batch drop.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) ([]json.RawMessage, error) {
	var results []json.RawMessage

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(req.Body).
		SetResult(&results).
		Post(req.Destination)

	if err != nil {
		return nil, fmt.Errorf("batch request to %s failed: %w", req.Destination, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("batch request to %s failed with status %d: %s",
			req.Destination, resp.StatusCode(), resp.String())
	}

	return results, nil
}
