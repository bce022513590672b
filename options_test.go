// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// TestCredentialOptions tests the Username and Password functional options
func TestCredentialOptions(t *testing.T) {
	client := &Client{}
	Username("admin")(client)
	Password("secret")(client)

	if client.username != "admin" {
		t.Errorf("Username() set username to %q, want %q", client.username, "admin")
	}
	if client.password != "secret" {
		t.Errorf("Password() set password to %q, want %q", client.password, "secret")
	}
}

// TestVerifyCertificateOption tests the VerifyCertificate functional option
func TestVerifyCertificateOption(t *testing.T) {
	for _, verify := range []bool{true, false} {
		client := &Client{}
		VerifyCertificate(verify)(client)
		if client.VerifyCertificate != verify {
			t.Errorf("VerifyCertificate(%v) set VerifyCertificate to %v", verify, client.VerifyCertificate)
		}
	}
}

// TestDurationOptions tests the timeout and backoff functional options
func TestDurationOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   func(time.Duration) func(*Client)
		field func(*Client) time.Duration
	}{
		{"OperationTimeout", OperationTimeout, func(c *Client) time.Duration { return c.OperationTimeout }},
		{"BackoffMinDelay", BackoffMinDelay, func(c *Client) time.Duration { return c.BackoffMinDelay }},
		{"BackoffMaxDelay", BackoffMaxDelay, func(c *Client) time.Duration { return c.BackoffMaxDelay }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, d := range []time.Duration{time.Millisecond, 30 * time.Second, 5 * time.Minute} {
				client := &Client{}
				tt.opt(d)(client)
				if got := tt.field(client); got != d {
					t.Errorf("%s(%v) set %v", tt.name, d, got)
				}
			}
		})
	}
}

// TestMaxRetriesOption tests the MaxRetries functional option
func TestMaxRetriesOption(t *testing.T) {
	tests := []struct {
		name    string
		retries int
	}{
		{"no retries", 0},
		{"three retries", 3},
		{"many retries", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{}
			MaxRetries(tt.retries)(client)
			if client.MaxRetries != tt.retries {
				t.Errorf("MaxRetries() set MaxRetries to %d, want %d", client.MaxRetries, tt.retries)
			}
		})
	}
}

// TestBackoffDelayFactorOption tests the BackoffDelayFactor functional option
func TestBackoffDelayFactorOption(t *testing.T) {
	client := &Client{}
	BackoffDelayFactor(1.5)(client)
	if client.BackoffDelayFactor != 1.5 {
		t.Errorf("BackoffDelayFactor() set BackoffDelayFactor to %v, want 1.5", client.BackoffDelayFactor)
	}
}

// TestWithLoggerOption tests the WithLogger functional option
func TestWithLoggerOption(t *testing.T) {
	customLogger := NewDefaultLogger(LogLevelDebug)
	client := &Client{logger: &NoOpLogger{}}
	WithLogger(customLogger)(client)
	if client.logger != customLogger {
		t.Error("WithLogger() did not set custom logger")
	}

	WithLogger(nil)(client)
	if client.logger != customLogger {
		t.Error("WithLogger(nil) should keep the existing logger")
	}
}

// TestWithPrettyPrintLogsOption tests the WithPrettyPrintLogs functional option
func TestWithPrettyPrintLogsOption(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		client := &Client{}
		WithPrettyPrintLogs(enabled)(client)
		if client.prettyPrintLogs != enabled {
			t.Errorf("WithPrettyPrintLogs(%v) set prettyPrintLogs to %v", enabled, client.prettyPrintLogs)
		}
	}
}

// TestWithHTTPClientOption tests that nil keeps the client's own transport
func TestWithHTTPClientOption(t *testing.T) {
	client := &Client{}
	WithHTTPClient(nil)(client)
	if client.httpClient != nil {
		t.Error("WithHTTPClient(nil) should not install a client")
	}

	hc := &http.Client{Timeout: time.Second}
	WithHTTPClient(hc)(client)
	if client.httpClient != hc {
		t.Error("WithHTTPClient() did not set the client")
	}
}

// TestWithTransformerOption tests the WithTransformer functional option
func TestWithTransformerOption(t *testing.T) {
	client := &Client{transformer: JSONTransformer{}}
	WithTransformer(nil)(client)
	if _, ok := client.transformer.(JSONTransformer); !ok {
		t.Error("WithTransformer(nil) should keep the default transformer")
	}

	custom := TransformerFunc(func(string, Res) (any, error) { return nil, nil })
	WithTransformer(custom)(client)
	if _, ok := client.transformer.(TransformerFunc); !ok {
		t.Errorf("WithTransformer() set %T, want TransformerFunc", client.transformer)
	}
}

// TestRegionOptions tests the RegionURL and Transformer region options
func TestRegionOptions(t *testing.T) {
	client, err := NewClient("http://localhost:8080")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close() //nolint:errcheck

	custom := TransformerFunc(func(string, Res) (any, error) { return "x", nil })
	r, err := client.NewRegion("orders", Replicate,
		RegionURL("http://other:9090/gemfire-api/v1/orders"),
		Transformer(custom),
		RegionURL(""),
		Transformer(nil))
	if err != nil {
		t.Fatalf("NewRegion() error = %v", err)
	}
	if r.URL != "http://other:9090/gemfire-api/v1/orders" {
		t.Errorf("URL = %s, want override", r.URL)
	}
	if _, ok := r.transformer.(TransformerFunc); !ok {
		t.Errorf("transformer = %T, want TransformerFunc", r.transformer)
	}
}

// TestOptionsCombination tests that options compose in NewClient
func TestOptionsCombination(t *testing.T) {
	client, err := NewClient("https://grid.example.com",
		Username("admin"),
		Password("secret"),
		MaxRetries(5),
		OperationTimeout(120*time.Second),
		BackoffMinDelay(2*time.Second),
		BackoffMaxDelay(30*time.Second),
		BackoffDelayFactor(3),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close() //nolint:errcheck

	if !client.HasCredentials() {
		t.Error("credentials should be configured")
	}
	if client.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, 5)
	}
	if client.OperationTimeout != 120*time.Second {
		t.Errorf("OperationTimeout = %v, want %v", client.OperationTimeout, 120*time.Second)
	}
	if client.BackoffDelayFactor != 3 {
		t.Errorf("BackoffDelayFactor = %v, want 3", client.BackoffDelayFactor)
	}
}

// TestSecurityWarnings tests security-related warnings
func TestSecurityWarnings(t *testing.T) {
	tests := []struct {
		name              string
		baseURL           string
		options           []func(*Client)
		expectWarnings    []string
		notExpectWarnings []string
	}{
		{
			name:    "certificate verification disabled",
			baseURL: "https://grid.example.com",
			options: []func(*Client){VerifyCertificate(false)},
			expectWarnings: []string{
				"TLS certificate verification disabled",
				"Man-in-the-Middle attacks possible",
			},
		},
		{
			name:    "credentials over plain HTTP",
			baseURL: "http://grid.example.com",
			options: []func(*Client){Username("admin"), Password("test")},
			expectWarnings: []string{
				"credentials configured over plain HTTP",
				"Credentials transmitted in clear text",
			},
		},
		{
			name:    "secure configuration",
			baseURL: "https://grid.example.com",
			options: []func(*Client){Username("admin"), Password("test"), VerifyCertificate(true)},
			notExpectWarnings: []string{
				"verification disabled",
				"plain HTTP",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			t.Cleanup(func() { log.SetOutput(os.Stderr) })

			opts := append(tt.options, WithLogger(NewDefaultLogger(LogLevelWarn)))
			client, err := NewClient(tt.baseURL, opts...)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			_ = client.Close()

			output := buf.String()
			for _, warning := range tt.expectWarnings {
				if !strings.Contains(output, warning) {
					t.Errorf("expected warning containing %q but got:\n%s", warning, output)
				}
			}
			for _, warning := range tt.notExpectWarnings {
				if strings.Contains(output, warning) {
					t.Errorf("unexpected warning containing %q in output:\n%s", warning, output)
				}
			}
		})
	}
}
