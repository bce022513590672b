// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// Default client configuration values
const (
	DefaultAPIPath            = "/gemfire-api/v1"
	DefaultMaxRetries         = 0
	DefaultBackoffMinDelay    = 1 * time.Second
	DefaultBackoffMaxDelay    = 60 * time.Second
	DefaultBackoffDelayFactor = 2
	DefaultOperationTimeout   = 15 * time.Second
	DefaultVerifyCertificate  = true
	DefaultPrettyPrintLogs    = false
)

// MaxResponseSize caps how much of a response body is read (64MB)
const MaxResponseSize = 64 * 1024 * 1024

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024
	MaxSensitiveFields    = 1000
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// ErrClientClosed is returned by every operation after Close
var ErrClientClosed = errors.New("client closed")

// defaultRedactionPatterns contains regex patterns for redacting sensitive data in logs
var defaultRedactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"key"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"auth"\s*:\s*"[^"]*"`),
}

var redactionReplacements = []string{
	`"password":"[REDACTED]"`,
	`"secret":"[REDACTED]"`,
	`"key":"[REDACTED]"`,
	`"token":"[REDACTED]"`,
	`"auth":"[REDACTED]"`,
}

// Client represents a connection to a GemFire REST gateway
//
// A Client owns the HTTP connection pool shared by all Region handles it
// creates. It is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	ownsHTTPClient bool

	// closed is set by Close; guarded by mu
	closed bool
	mu     sync.RWMutex

	// BaseURL is the gateway API root, e.g. http://localhost:8080/gemfire-api/v1
	BaseURL  string
	username string // unexported for security
	password string // unexported for security

	VerifyCertificate bool

	// Timeout configuration
	OperationTimeout time.Duration

	// Retry configuration
	MaxRetries         int
	BackoffMinDelay    time.Duration
	BackoffMaxDelay    time.Duration
	BackoffDelayFactor float64

	// transformer is the default ResponseTransformer for regions
	transformer ResponseTransformer

	// regions caches handles returned by Region
	regions *xsync.MapOf[string, *Region]

	metrics *metrics.Set

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new client for the gateway at baseURL
//
// If baseURL has no path, DefaultAPIPath is appended, so
// "http://localhost:8080" and "http://localhost:8080/gemfire-api/v1" are
// equivalent. No request is made; use Ping to verify connectivity.
//
// Example:
//
//	client, err := gemfire.NewClient(
//	    "http://localhost:8080",
//	    gemfire.Username("admin"),
//	    gemfire.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(baseURL string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		BaseURL:            baseURL,
		VerifyCertificate:  DefaultVerifyCertificate,
		OperationTimeout:   DefaultOperationTimeout,
		MaxRetries:         DefaultMaxRetries,
		BackoffMinDelay:    DefaultBackoffMinDelay,
		BackoffMaxDelay:    DefaultBackoffMaxDelay,
		BackoffDelayFactor: DefaultBackoffDelayFactor,
		transformer:        JSONTransformer{},
		regions:            xsync.NewMapOf[string, *Region](),
		metrics:            metrics.NewSet(),
		logger:             &NoOpLogger{},
		prettyPrintLogs:    DefaultPrettyPrintLogs,
		redactionPatterns:  defaultRedactionPatterns,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	if client.httpClient == nil {
		client.httpClient = client.newHTTPClient()
		client.ownsHTTPClient = true
	}

	client.logger.Info(context.Background(), "GemFire client created",
		"url", client.BaseURL,
		"max_retries", client.MaxRetries)

	return client, nil
}

// newHTTPClient builds the pooled transport used when no *http.Client is supplied
func (c *Client) newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			//nolint:gosec // G402: opt-in via VerifyCertificate(false)
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !c.VerifyCertificate},
		},
	}
}

// Close releases idle connections and invalidates all Region handles created
// by this client. Subsequent operations fail with ErrClientClosed.
//
// Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.ownsHTTPClient && c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	c.regions.Clear()

	c.logger.Info(context.Background(), "GemFire client closed",
		"url", c.BaseURL)

	return nil
}

// isClosed reports whether Close has been called
func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// HasCredentials returns true if credentials are configured
func (c *Client) HasCredentials() bool {
	return c.username != "" || c.password != ""
}

// Backoff calculates the backoff delay for retry attempt using exponential backoff with jitter
//
// The formula is: delay = min(minDelay * (factor ^ attempt), maxDelay) + jitter
// where jitter is a random value in [0, delay * 0.1).
func (c *Client) Backoff(attempt int) time.Duration {
	delay := float64(c.BackoffMinDelay) * math.Pow(c.BackoffDelayFactor, float64(attempt))

	if math.IsInf(delay, 1) || delay > float64(c.BackoffMaxDelay) {
		delay = float64(c.BackoffMaxDelay)
	}

	jitterMax := int64(delay * 0.1)
	if jitterMax > 0 {
		var jitterBytes [8]byte
		if _, err := rand.Read(jitterBytes[:]); err == nil {
			//nolint:gosec // G115: masked to a non-negative int64
			jitterVal := int64(binary.BigEndian.Uint64(jitterBytes[:]) & 0x7FFFFFFFFFFFFFFF)
			delay += float64(jitterVal % jitterMax)
		} else {
			timestamp := time.Now().UnixNano()
			delay += float64((timestamp%jitterMax + jitterMax) % jitterMax)
		}
	}

	return time.Duration(delay)
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// Oversized documents and documents with more than MaxSensitiveFields
// sensitive fields are replaced by a placeholder before any regex runs.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	sensitiveCount := strings.Count(jsonStr, `"password"`) +
		strings.Count(jsonStr, `"secret"`) +
		strings.Count(jsonStr, `"key"`) +
		strings.Count(jsonStr, `"token"`) +
		strings.Count(jsonStr, `"auth"`)
	if sensitiveCount > MaxSensitiveFields {
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}

	return redacted
}

// redactSensitiveData replaces sensitive string fields in JSON with [REDACTED]
func (c *Client) redactSensitiveData(json string) string {
	result := json
	for i, pattern := range c.redactionPatterns {
		if i >= len(redactionReplacements) {
			break
		}
		result = pattern.ReplaceAllString(result, redactionReplacements[i])
	}
	return result
}

// validateConfig validates client configuration
//
// The base URL is normalized in place: trailing slashes are removed and
// DefaultAPIPath is appended when no path is given.
func (c *Client) validateConfig() error {
	raw := strings.TrimSpace(c.BaseURL)
	if raw == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must include a host: %s", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = DefaultAPIPath
	}
	u.RawQuery = ""
	u.Fragment = ""
	c.BaseURL = u.String()

	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got: %v", c.OperationTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got: %d", c.MaxRetries)
	}
	if c.BackoffMinDelay <= 0 {
		return fmt.Errorf("backoff min delay must be positive, got: %v", c.BackoffMinDelay)
	}
	if c.BackoffMaxDelay <= c.BackoffMinDelay {
		return fmt.Errorf("backoff max delay (%v) must be greater than min delay (%v)",
			c.BackoffMaxDelay, c.BackoffMinDelay)
	}
	if c.BackoffDelayFactor < 1.0 {
		return fmt.Errorf("backoff delay factor must be >= 1.0, got: %f", c.BackoffDelayFactor)
	}

	if u.Scheme == "https" && !c.VerifyCertificate {
		c.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"url", c.BaseURL,
			"security_risk", "Man-in-the-Middle attacks possible")
	}
	if u.Scheme == "http" && c.HasCredentials() {
		c.logger.Warn(context.Background(), "credentials configured over plain HTTP",
			"url", c.BaseURL,
			"security_risk", "Credentials transmitted in clear text")
	}

	return nil
}

// url joins path segments onto the gateway base URL
func (c *Client) url(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.BaseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

// execute performs a request and interprets its status code
//
// Only transport failures and TransientStatusCodes are retried, and only up
// to MaxRetries times. Transport failures of POST requests are not retried:
// the first attempt may have reached the gateway. Every failure path goes
// through errorResponse.
func (c *Client) execute(ctx context.Context, rq request, mods []func(*Req)) (Res, error) {
	res := Res{Operation: rq.Operation, Region: rq.Region}

	if err := checkContextCancellation(ctx); err != nil {
		return c.errorResponse(ctx, rq, res, err, 0)
	}
	if c.isClosed() {
		return c.errorResponse(ctx, rq, res, ErrClientClosed, 0)
	}

	req := applyModifiers(mods)

	c.logger.Debug(ctx, "GemFire request",
		"operation", rq.Operation,
		"region", rq.Region,
		"method", rq.Method,
		"url", rq.URL)
	if rq.Body != "" {
		c.logger.Debug(ctx, "GemFire request body",
			"operation", rq.Operation,
			"body", c.prepareJSONForLogging(rq.Body))
	}

	for attempt := 0; ; attempt++ {
		var err error
		res, err = c.send(ctx, rq, req)
		if err == nil && res.StatusCode == rq.Expect {
			res.OK = true
			c.logger.Debug(ctx, "GemFire response",
				"operation", rq.Operation,
				"region", rq.Region,
				"status", res.StatusCode,
				"attempts", attempt+1)
			return res, nil
		}

		transient := ctx.Err() == nil && (isTransientStatus(res.StatusCode) || (err != nil && rq.Method != http.MethodPost))
		if !transient || attempt >= c.MaxRetries {
			return c.errorResponse(ctx, rq, res, err, attempt)
		}

		backoff := c.Backoff(attempt)
		c.logger.Warn(ctx, "transient error, retrying",
			"operation", rq.Operation,
			"attempt", attempt+1,
			"max_retries", c.MaxRetries,
			"status", res.StatusCode,
			"backoff", backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return c.errorResponse(ctx, rq, res, ctx.Err(), attempt)
		}
	}
}

// send performs exactly one HTTP round trip
//
// A non-nil error means no usable response was received.
func (c *Client) send(ctx context.Context, rq request, req *Req) (Res, error) {
	res := Res{Operation: rq.Operation, Region: rq.Region}

	attemptCtx, cancel := c.createAttemptContext(ctx, req)
	defer cancel()

	var body io.Reader
	if rq.Body != "" {
		body = strings.NewReader(rq.Body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, rq.Method, rq.URL, body)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", ContentTypeJSON)
	if rq.Body != "" {
		httpReq.Header.Set("Content-Type", ContentTypeJSON)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if c.HasCredentials() {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(rq.Operation, 0, time.Since(start))
		return res, err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	c.observe(rq.Operation, resp.StatusCode, time.Since(start))

	res.StatusCode = resp.StatusCode
	res.Reason = reasonPhrase(resp)
	res.Body = string(data)
	if err != nil {
		return res, fmt.Errorf("read response body: %w", err)
	}
	return res, nil
}

// errorResponse is the single failure handler: it logs status, reason phrase
// and body once, and converts the outcome into a failed Res and *GemfireError.
func (c *Client) errorResponse(ctx context.Context, rq request, res Res, cause error, retries int) (Res, error) {
	gErr := &GemfireError{
		Operation:   rq.Operation,
		Region:      rq.Region,
		StatusCode:  res.StatusCode,
		Reason:      res.Reason,
		Body:        res.Body,
		Retries:     retries,
		IsTransient: retries > 0,
		cause:       cause,
	}
	if cause != nil {
		gErr.Message = cause.Error()
	} else {
		gErr.Message = fmt.Sprintf("unexpected status %d %s (expected %d)",
			res.StatusCode, res.Reason, rq.Expect)
	}

	c.logger.Warn(ctx, "GemFire request failed",
		"operation", rq.Operation,
		"region", rq.Region,
		"status", res.StatusCode,
		"reason", res.Reason,
		"body", c.prepareJSONForLogging(res.Body),
		"error", gErr.Message)

	res.OK = false
	res.Errors = []ErrorModel{{
		Code:    res.StatusCode,
		Message: gErr.Message,
		Details: res.Body,
	}}
	return res, gErr
}

// reasonPhrase extracts the reason phrase from a response status line
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// checkContextCancellation checks if context is canceled or deadline exceeded
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// createAttemptContext creates a context for a single attempt
//
// Timeout priority model:
//  1. Request-specific timeout (req.Timeout > 0) - highest priority
//  2. Existing context deadline (ctx.Deadline() set) - medium priority
//  3. Client default timeout (c.OperationTimeout) - fallback
//
// Caller must call the returned cancel function.
func (c *Client) createAttemptContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		return context.WithTimeout(ctx, req.Timeout)
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.OperationTimeout)
}
