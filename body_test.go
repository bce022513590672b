// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"context"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// TestBodySet tests basic Set operation
func TestBodySet(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		value    any
		wantJSON string
	}{
		{
			name:     "set string value",
			path:     "name",
			value:    "abc",
			wantJSON: `{"name":"abc"}`,
		},
		{
			name:     "set boolean value",
			path:     "active",
			value:    true,
			wantJSON: `{"active":true}`,
		},
		{
			name:     "set integer value",
			path:     "id",
			value:    13,
			wantJSON: `{"id":13}`,
		},
		{
			name:     "set nested value",
			path:     "address.city",
			value:    "Berlin",
			wantJSON: `{"address":{"city":"Berlin"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := Body{}.Set(tt.path, tt.value)
			json, err := body.String()
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if json != tt.wantJSON {
				t.Errorf("Expected JSON %s, got %s", tt.wantJSON, json)
			}
		})
	}
}

// TestBodySetChaining tests method chaining
func TestBodySetChaining(t *testing.T) {
	json, err := Body{}.
		Set("id", 13).
		Set("name", "abc").
		Set("surname", "def").
		String()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, want := range []string{`"id":13`, `"name":"abc"`, `"surname":"def"`} {
		if !strings.Contains(json, want) {
			t.Errorf("Expected JSON to contain %s, got %s", want, json)
		}
	}
}

// TestBodyDelete tests Delete operation
func TestBodyDelete(t *testing.T) {
	json, err := Body{}.
		Set("name", "abc").
		Set("note", "temp").
		Delete("note").
		String()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(json, "note") {
		t.Errorf("Expected note to be deleted, got: %s", json)
	}
	if !strings.Contains(json, `"name":"abc"`) {
		t.Errorf("Expected name field to remain, got: %s", json)
	}
}

// TestBodyList tests building a list with NewBody and SetRaw
func TestBodyList(t *testing.T) {
	json, err := NewBody("[]").
		SetRaw("-1", `{"id":1}`).
		SetRaw("-1", `"two"`).
		Set("-1", 3).
		String()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if json != `[{"id":1},"two",3]` {
		t.Errorf("Expected list, got %s", json)
	}
}

// TestBodyErrorPropagation tests that the first error is kept and later operations are no-ops
func TestBodyErrorPropagation(t *testing.T) {
	body := Body{}.
		Set("valid", "value1").
		Set("", "invalid-empty-path").
		Set("another", "value2").
		SetRaw("raw", `1`).
		Delete("valid")

	json, err := body.String()
	if err == nil {
		t.Fatal("Expected error from empty path, got nil")
	}
	if !strings.Contains(err.Error(), "Set") {
		t.Errorf("Expected error message to contain 'Set', got: %v", err)
	}
	if !strings.Contains(json, "value1") {
		t.Errorf("Expected JSON to contain value1 (set before error), got %s", json)
	}
	if strings.Contains(json, "value2") || strings.Contains(json, "raw") {
		t.Errorf("Operations after error should be no-ops, got %s", json)
	}
	if body.Err() == nil {
		t.Error("Err() should report the error")
	}
}

// TestBodyJSON tests the JSON() method
func TestBodyJSON(t *testing.T) {
	res := Body{}.Set("name", "abc").JSON()
	if gjson.Get(res, "name").String() != "abc" {
		t.Errorf("Expected name 'abc', got %s", res)
	}

	if res := (Body{}).Set("", "value").JSON(); res != "" {
		t.Fatalf("Expected empty string on error, got: %s", res)
	}
}

// TestBodyBytes tests Bytes() returns error
func TestBodyBytes(t *testing.T) {
	b, err := Body{}.Set("name", "value").Bytes()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(b) != `{"name":"value"}` {
		t.Errorf("Bytes() = %s", b)
	}

	b, err = Body{}.Set("", "value").Bytes()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if b != nil {
		t.Fatalf("Expected nil bytes on error, got: %v", b)
	}
}

// TestBodyImmutability tests that Body operations are immutable
func TestBodyImmutability(t *testing.T) {
	body1 := Body{}.Set("name", "value1")
	body2 := body1.Set("name", "value2")

	if json := body1.JSON(); !strings.Contains(json, "value1") {
		t.Errorf("Expected body1 to contain value1, got: %s", json)
	}
	if json := body2.JSON(); !strings.Contains(json, "value2") {
		t.Errorf("Expected body2 to contain value2, got: %s", json)
	}
}

// TestBodyEmptyBody tests behavior with empty body
func TestBodyEmptyBody(t *testing.T) {
	json, err := Body{}.String()
	if err != nil {
		t.Fatalf("Expected no error for empty body, got: %v", err)
	}
	if json != "" {
		t.Errorf("Expected empty string for empty body, got: %s", json)
	}
}

// TestBodyAsValue tests that a Body is stored verbatim by Put
func TestBodyAsValue(t *testing.T) {
	gw, client := newTestGateway(t)
	customers := mustRegion(t, client, "customers", Partition)

	customer := Body{}.
		Set("id", 13).
		Set("name", "abc").
		Set("address.city", "Berlin")

	if _, err := customers.Put(context.Background(), 13, customer); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	stored, _ := gw.Value("customers", "13")
	if gjson.Get(stored, "address.city").String() != "Berlin" {
		t.Errorf("stored = %s, want nested city", stored)
	}
}

// BenchmarkBodySet benchmarks building a small document
func BenchmarkBodySet(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Body{}.
			Set("id", i).
			Set("name", "abc").
			Set("address.city", "Berlin")
	}
}
