// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"errors"
	"fmt"
	"net/http"
)

// GemfireError represents a failed REST call with operation context
//
// Every operation that does not receive its expected success status code
// returns a *GemfireError. Transport failures (connection refused, timeout)
// are reported the same way with StatusCode 0.
type GemfireError struct {
	// Operation name that failed (e.g. "put", "compare_and_set")
	Operation string

	// Region the operation targeted, empty for gateway-level calls
	Region string

	// StatusCode is the HTTP status code, 0 for transport failures
	StatusCode int

	// Reason is the HTTP reason phrase
	Reason string

	// Body is the raw response body returned by the gateway
	Body string

	// Human-readable error message
	Message string

	// InternalMsg contains detailed error information for internal logging
	InternalMsg string

	// Number of retry attempts made
	Retries int

	// IsTransient indicates if the error is transient and was retried
	IsTransient bool

	// cause is the underlying transport or context error, if any
	cause error
}

// Error implements the error interface
func (e *GemfireError) Error() string {
	target := e.Operation
	if e.Region != "" {
		target = fmt.Sprintf("%s on region %s", e.Operation, e.Region)
	}
	if e.Retries > 0 {
		return fmt.Sprintf("gemfire: %s failed: %s (retries: %d)", target, e.Message, e.Retries)
	}
	return fmt.Sprintf("gemfire: %s failed: %s", target, e.Message)
}

// Unwrap returns the underlying transport or context error, if any
func (e *GemfireError) Unwrap() error {
	return e.cause
}

// DetailedError returns the full error message including the response body
//
// The body may contain application data; only use this in logging contexts
// where that is acceptable.
func (e *GemfireError) DetailedError() string {
	internal := e.InternalMsg
	if internal == "" {
		internal = e.Body
	}
	if internal == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (internal: %s)", e.Error(), internal)
}

// ErrorModel represents a single error entry attached to a Res
type ErrorModel struct {
	// Code is the HTTP status code (0 for transport failures)
	Code int

	// Message is the error message
	Message string

	// Details contains the raw response body, if any
	Details string
}

// TransientStatusCodes lists the HTTP status codes that are retried when
// the client is configured with MaxRetries > 0.
//
// 500 is not retried: the gateway uses it for serialization and function
// failures.
var TransientStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// isTransientStatus reports whether code is listed in TransientStatusCodes
func isTransientStatus(code int) bool {
	for _, c := range TransientStatusCodes {
		if c == code {
			return true
		}
	}
	return false
}

// StatusCode returns the HTTP status code carried by err, or 0 if err is not
// a *GemfireError or was a transport failure.
func StatusCode(err error) int {
	var gErr *GemfireError
	if errors.As(err, &gErr) {
		return gErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response, e.g. Update on a missing key.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is a 409 response, e.g. Create on an existing key.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
