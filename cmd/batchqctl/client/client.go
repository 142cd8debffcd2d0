// Package client provides the HTTP API client for the batchqctl CLI.
//
// The GatewayAPIClient wraps a Resty HTTP client with batchq-specific
// behavior: JSON serialization, structured debug logging, connection-error
// retries, and typed accessors for the gateway's management endpoints
// (health, destinations, stats).
//
// Batch submission itself does not go through this client. The send and
// bench commands use the batchq library's Registry and HTTPTransport, which
// is the same path a production caller would take; this client only covers
// the read-side management surface.
package client

import (
	"fmt"
	"time"

	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/cmd/batchqctl/utils"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/go-resty/resty/v2"
)

// APIResponse represents the standard response format from gateway
// management endpoints: status string, data payload, optional count.
type APIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Count  int    `json:"count,omitempty"`
}

// HealthInfo mirrors the gateway's health endpoint response.
type HealthInfo struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	Instance     string    `json:"instance"`
	Destinations int       `json:"destinations"`
}

// DestinationInfo mirrors one registered destination's counters as reported
// by the gateway.
type DestinationInfo struct {
	Path    string `json:"path"`
	Batches uint64 `json:"batches"`
	Items   uint64 `json:"items"`
	Errors  uint64 `json:"errors"`
}

// GatewayStats mirrors the gateway's aggregate statistics response.
type GatewayStats struct {
	Instance     string    `json:"instance"`
	Version      string    `json:"version"`
	StartTime    time.Time `json:"start_time"`
	Uptime       string    `json:"uptime"`
	Destinations int       `json:"destinations"`
	Batches      uint64    `json:"batches"`
	Items        uint64    `json:"items"`
	ItemErrors   uint64    `json:"item_errors"`
}

// GatewayAPIClient communicates with the batchq gateway management API
type GatewayAPIClient struct {
	client     *resty.Client
	baseURL    string
	gatewayURL string
}

// NewGatewayAPIClient creates a configured API client for the given gateway
// address with timeouts, headers, and connection-error retry logic.
func NewGatewayAPIClient(apiAddr string, timeout int) *GatewayAPIClient {
	client := resty.New()

	// Management endpoints live under /api/v1; batch destinations are
	// mounted at the server root, so the library transport gets gatewayURL.
	gatewayURL := fmt.Sprintf("http://%s", apiAddr)
	baseURL := gatewayURL + "/api/v1"

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	// Configure client with timeouts, headers, and retry logic
	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("batchqctl/%s", config.Version))

	// Add retry mechanism with custom retry conditions
	client.
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only retry on connection errors, not HTTP errors
			return err != nil
		})

	// Custom request logging using structured logging
	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	// Custom response logging using structured logging
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	return &GatewayAPIClient{
		client:     client,
		baseURL:    baseURL,
		gatewayURL: gatewayURL,
	}
}

// CreateAPIClient builds a client from the global CLI configuration
func CreateAPIClient() *GatewayAPIClient {
	return NewGatewayAPIClient(config.Global.APIAddr, config.Global.Timeout)
}

// BaseURL returns the management API base URL (with the /api/v1 prefix)
// this client talks to.
func (api *GatewayAPIClient) BaseURL() string {
	return api.baseURL
}

// GatewayURL returns the gateway's root URL, without the management API
// prefix. Batch destinations are mounted at the root, so this is the base
// URL the send and bench commands hand to the library transport; they reuse
// it from here so the CLI and the library always target the same gateway.
func (api *GatewayAPIClient) GatewayURL() string {
	return api.gatewayURL
}

// GetHealth fetches gateway health information
func (api *GatewayAPIClient) GetHealth() (*HealthInfo, error) {
	var health HealthInfo

	resp, err := api.client.R().
		SetResult(&health).
		Get("/health")

	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway at %s: %w", api.baseURL, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &health, nil
}

// GetDestinations fetches the registered destinations with their counters
func (api *GatewayAPIClient) GetDestinations() ([]DestinationInfo, error) {
	var response struct {
		Status string            `json:"status"`
		Data   []DestinationInfo `json:"data"`
		Count  int               `json:"count"`
	}

	resp, err := api.client.R().
		SetResult(&response).
		Get("/destinations")

	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway at %s: %w", api.baseURL, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return response.Data, nil
}

// GetStats fetches gateway-wide batch processing statistics
func (api *GatewayAPIClient) GetStats() (*GatewayStats, error) {
	var response struct {
		Status string       `json:"status"`
		Data   GatewayStats `json:"data"`
	}

	resp, err := api.client.R().
		SetResult(&response).
		Get("/stats")

	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway at %s: %w", api.baseURL, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &response.Data, nil
}
