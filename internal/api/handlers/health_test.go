package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/gin-gonic/gin"
)

// TestHandleHealth tests the health endpoint response fields
func TestHandleHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dispatcher := dispatch.New()
	if err := dispatcher.Register("/echo", func(payload map[string]string) (any, error) {
		return payload, nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	startTime := time.Now().Add(-2 * time.Second)
	router := gin.New()
	router.GET("/health", HandleHealth(dispatcher, "0.1.0-test", startTime, "swift-conveyor"))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want %q", resp.Status, "healthy")
	}
	if resp.Version != "0.1.0-test" {
		t.Errorf("Version = %q, want %q", resp.Version, "0.1.0-test")
	}
	if resp.Instance != "swift-conveyor" {
		t.Errorf("Instance = %q, want %q", resp.Instance, "swift-conveyor")
	}
	if resp.Uptime == "" {
		t.Error("Uptime should not be empty")
	}
	if resp.Destinations != 1 {
		t.Errorf("Destinations = %d, want 1", resp.Destinations)
	}
}

// TestHandleStats tests that gateway totals reflect dispatched batches
func TestHandleStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dispatcher := dispatch.New()
	if err := dispatcher.Register("/echo", func(payload map[string]string) (any, error) {
		return payload, nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := dispatcher.Dispatch("/echo", []map[string]string{{"a": "1"}, {"a": "2"}}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	router := gin.New()
	router.GET("/stats", HandleStats(dispatcher, "0.1.0-test", time.Now(), "swift-conveyor"))

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Status string        `json:"status"`
		Data   StatsResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want %q", resp.Status, "success")
	}
	if resp.Data.Batches != 1 {
		t.Errorf("Batches = %d, want 1", resp.Data.Batches)
	}
	if resp.Data.Items != 2 {
		t.Errorf("Items = %d, want 2", resp.Data.Items)
	}
	if resp.Data.Destinations != 1 {
		t.Errorf("Destinations = %d, want 1", resp.Data.Destinations)
	}
}
