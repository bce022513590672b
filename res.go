// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Res represents the outcome of a single gateway operation
type Res struct {
	// Operation is the logical operation name (e.g. "get", "put_all")
	Operation string

	// Region is the region the operation targeted
	Region string

	// StatusCode is the HTTP status code, 0 if the request never completed
	StatusCode int

	// Reason is the HTTP reason phrase
	Reason string

	// Body is the raw response body
	Body string

	// Value is the decoded (or transformed) payload for read operations
	Value any

	// OK indicates if the gateway answered with the expected status code
	OK bool

	// Errors contains any error information
	Errors []ErrorModel
}

// GetValue retrieves a value from the response body using a gjson path.
//
// Example:
//
//	res, err := region.Item(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name := res.GetValue("name").String()
func (r Res) GetValue(path string) gjson.Result {
	if r.Body == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Body, path)
}

// Payload returns the part of the body that holds the operation's data.
//
// For get_all the gateway wraps the entries in a field named after the
// region; Payload unwraps it. For all other operations it is the whole body.
func (r Res) Payload() string {
	if r.Operation == OpGetAll && r.Region != "" {
		return gjson.Get(r.Body, gjson.Escape(r.Region)).Raw
	}
	return r.Body
}

// Decode unmarshals the payload into v.
//
// Example:
//
//	var c Customer
//	if err := res.Decode(&c); err != nil {
//	    log.Fatal(err)
//	}
func (r Res) Decode(v any) error {
	payload := r.Payload()
	if payload == "" {
		return fmt.Errorf("%s: response has no payload to decode", r.Operation)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%s: decode payload: %w", r.Operation, err)
	}
	return nil
}

// ResponseTransformer turns a successful read response into a value.
//
// Configure one per client (WithTransformer) or per region (Transformer) to
// map gateway JSON into domain types.
type ResponseTransformer interface {
	Transform(region string, res Res) (any, error)
}

// TransformerFunc adapts a function to the ResponseTransformer interface
type TransformerFunc func(region string, res Res) (any, error)

// Transform calls f(region, res)
func (f TransformerFunc) Transform(region string, res Res) (any, error) {
	return f(region, res)
}

// JSONTransformer is the default ResponseTransformer. It decodes the payload
// into generic Go values (map[string]any, []any, float64, string, bool, nil).
type JSONTransformer struct{}

// Transform decodes res.Payload()
func (JSONTransformer) Transform(_ string, res Res) (any, error) {
	payload := res.Payload()
	if payload == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}
