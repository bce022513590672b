// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"reflect"
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     time.Duration
	}{
		{
			name:     "30 second timeout",
			duration: 30 * time.Second,
			want:     30 * time.Second,
		},
		{
			name:     "2 minute timeout",
			duration: 2 * time.Minute,
			want:     2 * time.Minute,
		},
		{
			name:     "zero timeout",
			duration: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Req{}
			modifier := Timeout(tt.duration)
			modifier(req)

			if req.Timeout != tt.want {
				t.Errorf("Timeout() timeout = %v, want %v", req.Timeout, tt.want)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	req := &Req{}
	Header("X-Request-Id", "1")(req)
	Header("x-request-id", "2")(req)
	Header("Accept-Language", "en")(req)

	if got := req.Header.Values("X-Request-Id"); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("X-Request-Id = %v, want [1 2]", got)
	}
	if got := req.Header.Get("Accept-Language"); got != "en" {
		t.Errorf("Accept-Language = %q, want en", got)
	}
}

func TestApplyModifiers(t *testing.T) {
	req := applyModifiers([]func(*Req){
		Timeout(10 * time.Second),
		nil,
		Header("X-A", "b"),
		Timeout(20 * time.Second),
	})

	if req.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want last modifier to win (20s)", req.Timeout)
	}
	if req.Header.Get("X-A") != "b" {
		t.Errorf("X-A = %q, want b", req.Header.Get("X-A"))
	}
}

func TestApplyModifiersEmpty(t *testing.T) {
	req := applyModifiers(nil)
	if req == nil {
		t.Fatal("applyModifiers(nil) returned nil")
	}
	if req.Timeout != 0 || req.Header != nil {
		t.Errorf("applyModifiers(nil) = %+v, want zero Req", req)
	}
}
