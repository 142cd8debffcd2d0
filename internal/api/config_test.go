package api

import (
	"strings"
	"testing"

	"github.com/concave-dev/batchq/internal/api/dispatch"
)

// TestDefaultConfig tests default configuration values
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BindAddr != "127.0.0.1" {
		t.Errorf("BindAddr = %q, want 127.0.0.1", config.BindAddr)
	}
	if config.BindPort != 8418 {
		t.Errorf("BindPort = %d, want 8418", config.BindPort)
	}
	if config.MaxBatchItems != 1000 {
		t.Errorf("MaxBatchItems = %d, want 1000", config.MaxBatchItems)
	}
	if config.Dispatcher != nil {
		t.Error("Dispatcher should be nil by default (must be set by caller)")
	}
}

// TestConfigValidate tests configuration validation
func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BindAddr:      "127.0.0.1",
			BindPort:      8418,
			MaxBatchItems: 100,
			InstanceName:  "test-gateway",
			Version:       "0.1.0-dev",
			Dispatcher:    dispatch.New(),
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "empty bind address",
			mutate:      func(c *Config) { c.BindAddr = "" },
			wantErr:     true,
			errContains: "bind address",
		},
		{
			name:        "zero bind port",
			mutate:      func(c *Config) { c.BindPort = 0 },
			wantErr:     true,
			errContains: "bind port",
		},
		{
			name:        "port above range",
			mutate:      func(c *Config) { c.BindPort = 70000 },
			wantErr:     true,
			errContains: "bind port",
		},
		{
			name:        "negative item cap",
			mutate:      func(c *Config) { c.MaxBatchItems = -1 },
			wantErr:     true,
			errContains: "max batch items",
		},
		{
			name:    "zero item cap disables the limit",
			mutate:  func(c *Config) { c.MaxBatchItems = 0 },
			wantErr: false,
		},
		{
			name:        "invalid instance name",
			mutate:      func(c *Config) { c.InstanceName = "-bad-" },
			wantErr:     true,
			errContains: "instance name",
		},
		{
			name:        "nil dispatcher",
			mutate:      func(c *Config) { c.Dispatcher = nil },
			wantErr:     true,
			errContains: "dispatcher",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
