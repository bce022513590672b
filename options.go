// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"net/http"
	"time"
)

// Client configuration options using the functional options pattern

// Username sets the username for HTTP basic authentication
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for HTTP basic authentication
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Only use this in testing environments.
//
// Ignored when WithHTTPClient supplies the transport.
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// OperationTimeout sets the per-attempt timeout (default: 15s)
func OperationTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.OperationTimeout = duration
	}
}

// MaxRetries sets the maximum number of retry attempts for transient errors (default: 0)
//
// With the default every operation performs exactly one HTTP request.
// Transport failures are only retried for GET, PUT and DELETE; Create,
// NewQuery, RunQuery and ExecuteFunction are POSTs and are retried on
// transient status codes only.
func MaxRetries(retries int) func(*Client) {
	return func(c *Client) {
		c.MaxRetries = retries
	}
}

// BackoffMinDelay sets the minimum backoff delay (default: 1s)
func BackoffMinDelay(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.BackoffMinDelay = duration
	}
}

// BackoffMaxDelay sets the maximum backoff delay (default: 60s)
func BackoffMaxDelay(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.BackoffMaxDelay = duration
	}
}

// BackoffDelayFactor sets the backoff multiplication factor (default: 2.0)
func BackoffDelayFactor(factor float64) func(*Client) {
	return func(c *Client) {
		c.BackoffDelayFactor = factor
	}
}

// WithHTTPClient uses hc for all requests instead of the built-in pooled
// client. The caller keeps ownership: Close does not touch it.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTransformer sets the default ResponseTransformer for regions created by
// the client. Regions can override it with the Transformer region option.
func WithTransformer(t ResponseTransformer) func(*Client) {
	return func(c *Client) {
		if t != nil {
			c.transformer = t
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
//
// Example:
//
//	logger := gemfire.NewDefaultLogger(gemfire.LogLevelInfo)
//	client, _ := gemfire.NewClient("http://localhost:8080",
//	    gemfire.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in debug logs (default: false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Region options

// RegionURL overrides the base URL of a region (default: <client base URL>/<name>)
func RegionURL(u string) func(*Region) {
	return func(r *Region) {
		if u != "" {
			r.URL = u
		}
	}
}

// Transformer sets the ResponseTransformer used by a region's read operations
//
// Example:
//
//	region, _ := client.NewRegion("customers", gemfire.Partition,
//	    gemfire.Transformer(gemfire.TransformerFunc(func(name string, res gemfire.Res) (any, error) {
//	        var c []Customer
//	        err := res.Decode(&c)
//	        return c, err
//	    })))
func Transformer(t ResponseTransformer) func(*Region) {
	return func(r *Region) {
		if t != nil {
			r.transformer = t
		}
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that sets a custom timeout for the operation.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client.OperationTimeout - fallback default
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// Header returns a request modifier that adds an HTTP header to the request.
func Header(name, value string) func(*Req) {
	return func(req *Req) {
		if req.Header == nil {
			req.Header = http.Header{}
		}
		req.Header.Add(name, value)
	}
}
