// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"net/http"
	"time"
)

// Req represents a request modifier target
//
// Operation parameters (keys, values) are passed directly to methods; Req
// carries per-call overrides applied via functional modifiers.
//
// Example:
//
//	res, err := region.Get(ctx, []any{"42"},
//	    gemfire.Timeout(30*time.Second))
type Req struct {
	// Timeout is the request-specific timeout
	// Overrides client default timeout if set
	Timeout time.Duration

	// Header holds extra HTTP headers sent with the request
	Header http.Header
}

// request is a fully resolved REST call
type request struct {
	// Operation is the logical operation name used for logs, errors and metrics
	Operation string

	// Region is the region name, empty for gateway-level calls
	Region string

	Method string
	URL    string

	// Body is the JSON payload, empty for bodiless requests
	Body string

	// Expect is the status code that signals success
	Expect int
}

// applyModifiers builds a Req from modifiers
func applyModifiers(mods []func(*Req)) *Req {
	req := &Req{}
	for _, mod := range mods {
		if mod != nil {
			mod(req)
		}
	}
	return req
}
