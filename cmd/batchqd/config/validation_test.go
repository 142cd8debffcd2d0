// Package config provides configuration validation tests for the batchq
// gateway daemon.
//
// The suite covers API address parsing and normalization, instance name
// handling (lowercasing, format rejection, generation when absent), and the
// batch item cap range check.
package config

import (
	"strings"
	"testing"
)

// resetGlobal restores a known-good baseline before each case so tests do
// not leak state through the package-level Global.
func resetGlobal() {
	Global = Config{
		APIAddr:       DefaultAPI,
		LogLevel:      DefaultLogLevel,
		MaxBatchItems: 1000,
		MaxPorts:      100,
	}
}

func TestValidateConfigAPIAddress(t *testing.T) {
	tests := []struct {
		name          string
		apiAddr       string
		expectError   bool
		errorContains string
		wantHost      string
		wantPort      int
	}{
		{
			name:     "host_and_port_ok",
			apiAddr:  "0.0.0.0:8418",
			wantHost: "0.0.0.0",
			wantPort: 8418,
		},
		{
			name:     "loopback_ok",
			apiAddr:  "127.0.0.1:9000",
			wantHost: "127.0.0.1",
			wantPort: 9000,
		},
		{
			name:          "port_zero_error",
			apiAddr:       "0.0.0.0:0",
			expectError:   true,
			errorContains: "invalid API address",
		},
		{
			name:          "garbage_error",
			apiAddr:       "not-an-address:port",
			expectError:   true,
			errorContains: "invalid API address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobal()
			Global.APIAddr = tt.apiAddr

			err := ValidateConfig()
			if tt.expectError {
				if err == nil {
					t.Fatalf("ValidateConfig succeeded, want error containing %q", tt.errorContains)
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error = %v, want it to contain %q", err, tt.errorContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateConfig failed: %v", err)
			}
			if Global.APIAddr != tt.wantHost {
				t.Errorf("APIAddr = %q, want %q", Global.APIAddr, tt.wantHost)
			}
			if Global.APIPort != tt.wantPort {
				t.Errorf("APIPort = %d, want %d", Global.APIPort, tt.wantPort)
			}
		})
	}
}

func TestValidateConfigInstanceName(t *testing.T) {
	resetGlobal()
	Global.InstanceName = "My-Gateway"
	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
	if Global.InstanceName != "my-gateway" {
		t.Errorf("InstanceName = %q, want lowercased %q", Global.InstanceName, "my-gateway")
	}

	resetGlobal()
	Global.InstanceName = "bad name with spaces"
	if err := ValidateConfig(); err == nil {
		t.Error("ValidateConfig should reject instance names with spaces")
	}

	resetGlobal()
	Global.InstanceName = ""
	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
	if Global.InstanceName == "" {
		t.Error("empty instance name should be replaced by a generated one")
	}
}

func TestValidateConfigBatchCap(t *testing.T) {
	resetGlobal()
	Global.MaxBatchItems = -1
	if err := ValidateConfig(); err == nil {
		t.Error("ValidateConfig should reject a negative batch cap")
	}

	resetGlobal()
	Global.MaxBatchItems = 0 // cap disabled
	if err := ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig failed for disabled cap: %v", err)
	}
}

func TestValidateConfigLogLevel(t *testing.T) {
	resetGlobal()
	Global.LogLevel = "LOUD"
	if err := ValidateConfig(); err == nil {
		t.Error("ValidateConfig should reject unknown log levels")
	}
}

func TestValidateConfigMaxPorts(t *testing.T) {
	resetGlobal()
	Global.MaxPorts = 0
	if err := ValidateConfig(); err == nil {
		t.Error("ValidateConfig should reject max-ports of 0")
	}

	resetGlobal()
	Global.MaxPorts = 20000
	if err := ValidateConfig(); err == nil {
		t.Error("ValidateConfig should reject max-ports above 10000")
	}
}
