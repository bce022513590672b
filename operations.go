// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

// GetAll returns every entry of the region
//
// Without a custom transformer, Res.Value holds the decoded entries found
// under the field named after the region.
func (r *Region) GetAll(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := r.client.execute(ctx, request{
		Operation: OpGetAll,
		Region:    r.Name,
		Method:    http.MethodGet,
		URL:       r.URL + "?ALL",
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return res, err
	}
	return r.transform(ctx, res)
}

// Create stores value under key only if the key is absent
//
// The gateway answers 409 if the key exists; use IsConflict to detect it.
func (r *Region) Create(ctx context.Context, key, value any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys([]any{key}); err != nil {
		return r.invalid(OpCreate, err)
	}
	body, err := encodeValue(value)
	if err != nil {
		return r.invalid(OpCreate, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpCreate,
		Region:    r.Name,
		Method:    http.MethodPost,
		URL:       r.URL + "?key=" + url.QueryEscape(keyString(key)),
		Body:      body,
		Expect:    http.StatusCreated,
	}, mods)
	if err == nil {
		r.client.logger.Debug(ctx, "value created", "region", r.Name, "key", keyString(key))
	}
	return res, err
}

// Put inserts or replaces the value for key
func (r *Region) Put(ctx context.Context, key, value any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys([]any{key}); err != nil {
		return r.invalid(OpPut, err)
	}
	body, err := encodeValue(value)
	if err != nil {
		return r.invalid(OpPut, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpPut,
		Region:    r.Name,
		Method:    http.MethodPut,
		URL:       r.URL + "/" + joinKeys([]any{key}),
		Body:      body,
		Expect:    http.StatusOK,
	}, mods)
	if err == nil {
		r.client.logger.Debug(ctx, "value put", "region", r.Name, "key", keyString(key))
	}
	return res, err
}

// Keys returns the keys currently present in the region, in gateway order
func (r *Region) Keys(ctx context.Context, mods ...func(*Req)) ([]string, error) {
	res, err := r.client.execute(ctx, request{
		Operation: OpKeys,
		Region:    r.Name,
		Method:    http.MethodGet,
		URL:       r.URL + "/keys",
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return nil, err
	}

	field := res.GetValue("keys")
	if !field.IsArray() {
		return nil, fmt.Errorf("%s: response has no keys list", OpKeys)
	}
	arr := field.Array()
	keys := make([]string, 0, len(arr))
	for _, k := range arr {
		keys = append(keys, k.String())
	}
	return keys, nil
}

// Get returns the values stored under one or more keys
//
// Missing keys are ignored by the gateway (ignoreMissingKey=true). Res.Value
// holds the transformed response.
//
// Example:
//
//	res, err := region.Get(ctx, []any{93, 94})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Value)
func (r *Region) Get(ctx context.Context, keys []any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys(keys); err != nil {
		return r.invalid(OpGet, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpGet,
		Region:    r.Name,
		Method:    http.MethodGet,
		URL:       r.URL + "/" + joinKeys(keys) + "?ignoreMissingKey=true",
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return res, err
	}
	return r.transform(ctx, res)
}

// Item returns the value for a single key; shorthand for Get with one key.
func (r *Region) Item(ctx context.Context, key any, mods ...func(*Req)) (Res, error) {
	return r.Get(ctx, []any{key}, mods...)
}

// PutAll inserts or replaces several entries in one request
//
// Keys are sent in sorted order with the values aligned to them.
func (r *Region) PutAll(ctx context.Context, entries map[string]any, mods ...func(*Req)) (Res, error) {
	if len(entries) == 0 {
		return r.invalid(OpPutAll, fmt.Errorf("entries cannot be empty"))
	}

	names := make([]string, 0, len(entries))
	for k := range entries {
		names = append(names, k)
	}
	sort.Strings(names)

	keys := make([]any, len(names))
	list := NewBody("[]")
	for i, k := range names {
		keys[i] = k
		v, err := encodeValue(entries[k])
		if err != nil {
			return r.invalid(OpPutAll, fmt.Errorf("key %s: %w", k, err))
		}
		list = list.SetRaw("-1", v)
	}
	if err := validateKeys(keys); err != nil {
		return r.invalid(OpPutAll, err)
	}
	body, err := list.String()
	if err != nil {
		return r.invalid(OpPutAll, err)
	}

	return r.client.execute(ctx, request{
		Operation: OpPutAll,
		Region:    r.Name,
		Method:    http.MethodPut,
		URL:       r.URL + "/" + joinKeys(keys),
		Body:      body,
		Expect:    http.StatusOK,
	}, mods)
}

// Update replaces the value for key only if the key is present
//
// The gateway answers 404 for a missing key; use IsNotFound to detect it.
func (r *Region) Update(ctx context.Context, key, value any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys([]any{key}); err != nil {
		return r.invalid(OpUpdate, err)
	}
	body, err := encodeValue(value)
	if err != nil {
		return r.invalid(OpUpdate, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpUpdate,
		Region:    r.Name,
		Method:    http.MethodPut,
		URL:       r.URL + "/" + joinKeys([]any{key}) + "?op=REPLACE",
		Body:      body,
		Expect:    http.StatusOK,
	}, mods)
	if err == nil {
		r.client.logger.Debug(ctx, "value updated", "region", r.Name, "key", keyString(key))
	}
	return res, err
}

// CompareAndSet replaces the value for key with newValue only if the stored
// value equals oldValue. A mismatch is answered with 409.
func (r *Region) CompareAndSet(ctx context.Context, key, oldValue, newValue any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys([]any{key}); err != nil {
		return r.invalid(OpCompareAndSet, err)
	}
	oldJSON, err := encodeValue(oldValue)
	if err != nil {
		return r.invalid(OpCompareAndSet, fmt.Errorf("old value: %w", err))
	}
	newJSON, err := encodeValue(newValue)
	if err != nil {
		return r.invalid(OpCompareAndSet, fmt.Errorf("new value: %w", err))
	}

	envelope, err := json.Marshal(map[string]json.RawMessage{
		"@old": json.RawMessage(oldJSON),
		"@new": json.RawMessage(newJSON),
	})
	if err != nil {
		return r.invalid(OpCompareAndSet, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpCompareAndSet,
		Region:    r.Name,
		Method:    http.MethodPut,
		URL:       r.URL + "/" + joinKeys([]any{key}) + "?op=CAS",
		Body:      string(envelope),
		Expect:    http.StatusOK,
	}, mods)
	if err == nil {
		r.client.logger.Debug(ctx, "value swapped", "region", r.Name, "key", keyString(key))
	}
	return res, err
}

// Delete removes the entries for one or more keys
func (r *Region) Delete(ctx context.Context, keys []any, mods ...func(*Req)) (Res, error) {
	if err := validateKeys(keys); err != nil {
		return r.invalid(OpDelete, err)
	}

	res, err := r.client.execute(ctx, request{
		Operation: OpDelete,
		Region:    r.Name,
		Method:    http.MethodDelete,
		URL:       r.URL + "/" + joinKeys(keys),
		Expect:    http.StatusOK,
	}, mods)
	if err == nil {
		r.client.logger.Debug(ctx, "values deleted", "region", r.Name, "keys", len(keys))
	}
	return res, err
}

// Clear removes every entry of the region
//
// Replicate regions are cleared with a single DELETE of the region URL.
// Partition regions are cleared by listing the keys and deleting them in one
// request; this is not atomic, so entries created between the two calls
// survive. An empty partition region is cleared without a DELETE. Other
// topologies fail without contacting the gateway.
func (r *Region) Clear(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if r.Type != Replicate && r.Type != Partition {
		rq := request{Operation: OpClear, Region: r.Name}
		return r.client.errorResponse(ctx, rq, Res{Operation: OpClear, Region: r.Name},
			fmt.Errorf("clear is not supported for region type %s", r.Type), 0)
	}
	if r.Type == Replicate {
		res, err := r.client.execute(ctx, request{
			Operation: OpClear,
			Region:    r.Name,
			Method:    http.MethodDelete,
			URL:       r.URL,
			Expect:    http.StatusOK,
		}, mods)
		if err == nil {
			r.client.logger.Debug(ctx, "region cleared", "region", r.Name)
		}
		return res, err
	}

	keys, err := r.Keys(ctx, mods...)
	if err != nil {
		return Res{
			Operation: OpClear,
			Region:    r.Name,
			OK:        false,
			Errors:    []ErrorModel{{Code: StatusCode(err), Message: err.Error()}},
		}, err
	}
	if len(keys) == 0 {
		return Res{Operation: OpClear, Region: r.Name, OK: true}, nil
	}

	all := make([]any, len(keys))
	for i, k := range keys {
		all[i] = k
	}
	res, err := r.Delete(ctx, all, mods...)
	res.Operation = OpClear
	return res, err
}

// transform applies the region's ResponseTransformer to a successful read
func (r *Region) transform(ctx context.Context, res Res) (Res, error) {
	return r.client.transform(ctx, r.transformer, r.Name, res)
}

// transform runs t over a successful response and stores the result in
// Res.Value. A transformer error fails the operation.
func (c *Client) transform(ctx context.Context, t ResponseTransformer, name string, res Res) (Res, error) {
	v, err := t.Transform(name, res)
	if err != nil {
		c.logger.Warn(ctx, "response transformation failed",
			"operation", res.Operation,
			"region", name,
			"error", err.Error())
		res.OK = false
		res.Errors = []ErrorModel{{Code: res.StatusCode, Message: err.Error(), Details: res.Body}}
		return res, &GemfireError{
			Operation:  res.Operation,
			Region:     res.Region,
			StatusCode: res.StatusCode,
			Reason:     res.Reason,
			Body:       res.Body,
			Message:    fmt.Sprintf("transform response: %s", err.Error()),
		}
	}
	res.Value = v
	return res, nil
}

// invalid reports an argument error without contacting the gateway
func (r *Region) invalid(op string, err error) (Res, error) {
	return Res{
		Operation: op,
		Region:    r.Name,
		OK:        false,
		Errors:    []ErrorModel{{Message: err.Error()}},
	}, fmt.Errorf("%s: %w", op, err)
}
