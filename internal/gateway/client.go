// Package gateway is the HTTP client for the remote ledger API.
//
// Every call is JSON over HTTP. Responses share one envelope:
//
//	{"status": true, "message": "...", "list": [...], "user": {...}}
//
// A non-2xx response or a falsy status is a failure and the envelope's
// message becomes the user-facing error text. Calls are never retried.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ledger/internal/logger"
)

// RequestIDHeader carries a per-call UUID for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a non-JSON error body is kept.
const maxErrorBody = 512

// Endpoints are the API paths relative to the base URL.
type Endpoints struct {
	UserList    string
	AddUser     string
	UpdateUser  string
	DeleteUser  string
	InvoiceList string
	AddInvoice  string
}

// DefaultEndpoints returns the stock API routes.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		UserList:    "user/list",
		AddUser:     "user/add",
		UpdateUser:  "user/update",
		DeleteUser:  "user/delete",
		InvoiceList: "user/invoice/list",
		AddInvoice:  "user/invoice/add",
	}
}

// Client talks to the remote API.
type Client struct {
	baseURL    *url.URL
	endpoints  Endpoints
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the API routes.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout. The HTTP
// client is copied first, so a shared client is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	const op = "NewClient"

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base URL: %w", op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: base URL must be http or https, got %q", op, baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s: base URL has no host: %q", op, baseURL)
	}

	c := &Client{
		baseURL:    u,
		endpoints:  DefaultEndpoints(),
		httpClient: newHTTPClient(),
		log:        logger.WithComponent("gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newHTTPClient returns a pooled client without an overall timeout; a hung
// request is only ended by cancelling its context.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{Transport: transport}
}

// envelope is the common response shape.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	List    json.RawMessage `json:"list"`
	User    json.RawMessage `json:"user"`
}

// do sends one request and returns the decoded envelope of a successful call.
func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, body any) (*envelope, error) {
	requestID := uuid.NewString()
	log := c.log.With().Str("request_id", requestID).Str("op", op).Logger()

	fail := func(status int, msg string, err error) error {
		return &APIError{Op: op, StatusCode: status, Message: msg, RequestID: requestID, Err: err}
	}

	target := c.baseURL.JoinPath(endpoint)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log.Debug().
		Str("method", method).
		Str("url", target.Redacted()).
		Msg("Sending API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("API request failed before a response arrived")
		return nil, fail(0, "", fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("Failed to read API response")
		return nil, fail(resp.StatusCode, "", fmt.Errorf("%w: %w", ErrTransport, err))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("duration", time.Since(start)).
		Msg("Received API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil {
			msg = strings.TrimSpace(truncate(string(raw), maxErrorBody))
		}
		log.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("API returned an error status")
		return nil, fail(resp.StatusCode, msg, ErrHTTPStatus)
	}

	if decodeErr != nil {
		log.Error().Err(decodeErr).Msg("API response is not a JSON envelope")
		return nil, fail(resp.StatusCode, "", fmt.Errorf("%w: %w", ErrDecode, decodeErr))
	}

	if !env.Status {
		log.Warn().Str("message", env.Message).Msg("API rejected the request")
		return nil, fail(resp.StatusCode, env.Message, ErrRejected)
	}

	return &env, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
