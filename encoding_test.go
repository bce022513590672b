// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

type orderID struct{ n int }

func (o orderID) String() string { return fmt.Sprintf("order-%04d", o.n) }

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  any
		want string
	}{
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"stringer", orderID{n: 7}, "order-0007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyString(tt.key); got != tt.want {
				t.Errorf("keyString(%v) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidateKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []any
		wantErr string
	}{
		{"single key", []any{1}, ""},
		{"several keys", []any{"a", 2, orderID{n: 1}}, ""},
		{"nil slice", nil, "keys cannot be empty"},
		{"empty slice", []any{}, "keys cannot be empty"},
		{"nil key", []any{"a", nil}, "key cannot be nil (at index 1)"},
		{"empty key", []any{""}, "key cannot be empty (at index 0)"},
		{"blank key", []any{1, "  "}, "key cannot be empty (at index 1)"},
		{"comma in key", []any{"a", "b,c"}, "key cannot contain a comma (at index 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeys(tt.keys)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateKeys() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("validateKeys() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestJoinKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []any
		want string
	}{
		{"single", []any{93}, "93"},
		{"several", []any{93, 94, "x"}, "93,94,x"},
		{"percent escaped", []any{"50%", "c"}, "50%25,c"},
		{"slash escaped", []any{"a/b"}, "a%2Fb"},
		{"space escaped", []any{"a b"}, "a%20b"},
		{"question mark escaped", []any{"a?b"}, "a%3Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinKeys(tt.keys); got != tt.want {
				t.Errorf("joinKeys() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr string
	}{
		{"string", "abc", `"abc"`, ""},
		{"number", 42, `42`, ""},
		{"nil", nil, `null`, ""},
		{"map", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`, ""},
		{"struct", customer{ID: 1, Name: "abc", Surname: "def"}, `{"id":1,"name":"abc","surname":"def"}`, ""},
		{"list", []int{1, 2}, `[1,2]`, ""},
		{"raw message", json.RawMessage(`{"raw":true}`), `{"raw":true}`, ""},
		{"bytes", []byte(`[1, 2]`), `[1, 2]`, ""},
		{"body", Body{}.Set("id", 1), `{"id":1}`, ""},
		{"invalid raw message", json.RawMessage(`{`), "", "value is not valid JSON"},
		{"invalid bytes", []byte(`nope`), "", "value is not valid JSON"},
		{"empty body", Body{}, "", "value is not valid JSON"},
		{"body with error", Body{}.Set("", 1), "", "Set"},
		{"unencodable", func() {}, "", "unable to encode value of type func()"},
		{"too large", strings.Repeat("a", MaxValueSize), "", "value size exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeValue(tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("encodeValue() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("encodeValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("encodeValue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func BenchmarkEncodeValue(b *testing.B) {
	value := customer{ID: 1, Name: "abc", Surname: "def"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = encodeValue(value)
	}
}
