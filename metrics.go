// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"fmt"
	"io"
	"time"
)

// Metric names exported by WriteMetrics
const (
	MetricRequestsTotal   = "gemfire_requests_total"
	MetricRequestDuration = "gemfire_request_duration_seconds"
)

// observe records one HTTP round trip. status is 0 for transport failures.
func (c *Client) observe(operation string, status int, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.GetOrCreateCounter(requestsMetric(operation, status)).Inc()
	c.metrics.GetOrCreateHistogram(fmt.Sprintf(`%s{operation=%q}`, MetricRequestDuration, operation)).Update(d.Seconds())
}

// requestsMetric returns the counter name for an operation and status code
func requestsMetric(operation string, status int) string {
	return fmt.Sprintf(`%s{operation=%q,status="%d"}`, MetricRequestsTotal, operation, status)
}

// RequestCount returns how many round trips for operation ended with status.
func (c *Client) RequestCount(operation string, status int) uint64 {
	if c.metrics == nil {
		return 0
	}
	return c.metrics.GetOrCreateCounter(requestsMetric(operation, status)).Get()
}

// WriteMetrics writes the client's request metrics in Prometheus text format.
//
// Example:
//
//	http.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
//	    client.WriteMetrics(w)
//	})
func (c *Client) WriteMetrics(w io.Writer) {
	if c.metrics == nil {
		return
	}
	c.metrics.WritePrometheus(w)
}
