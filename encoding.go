// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ContentTypeJSON is sent with every request that carries a body
const ContentTypeJSON = "application/json"

// MaxValueSize is the maximum size for a single encoded value in bytes (10MB)
const MaxValueSize = 10 * 1024 * 1024

// keyString stringifies a key the way the gateway expects it in URLs
func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

// validateKeys checks that at least one key is given and none is empty or
// contains a comma.
//
// The gateway decodes the key segment before splitting it on commas, so an
// escaped comma still separates two keys.
func validateKeys(keys []any) error {
	if len(keys) == 0 {
		return fmt.Errorf("keys cannot be empty")
	}
	for i, k := range keys {
		if k == nil {
			return fmt.Errorf("key cannot be nil (at index %d)", i)
		}
		if strings.TrimSpace(keyString(k)) == "" {
			return fmt.Errorf("key cannot be empty (at index %d)", i)
		}
		if strings.Contains(keyString(k), ",") {
			return fmt.Errorf("key cannot contain a comma (at index %d)", i)
		}
	}
	return nil
}

// joinKeys path-escapes each key and joins them with commas.
//
// Keys must have passed validateKeys.
func joinKeys(keys []any) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = url.PathEscape(keyString(k))
	}
	return strings.Join(parts, ",")
}

// encodeValue serializes a value to JSON text.
//
// json.RawMessage, Body and []byte values are treated as already-encoded JSON
// and must be valid.
func encodeValue(value any) (string, error) {
	var data string
	switch v := value.(type) {
	case json.RawMessage:
		data = string(v)
	case []byte:
		data = string(v)
	case Body:
		s, err := v.String()
		if err != nil {
			return "", err
		}
		data = s
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("unable to encode value of type %T: %w", value, err)
		}
		data = string(b)
	}

	if !json.Valid([]byte(data)) {
		return "", fmt.Errorf("value is not valid JSON")
	}
	if len(data) > MaxValueSize {
		return "", fmt.Errorf("value size exceeds maximum of %d bytes (got %d bytes)", MaxValueSize, len(data))
	}
	return data, nil
}
