// ABOUTME: HTTP request adapter for the dairy-management API
// ABOUTME: Normalizes method/target/payload into one call and folds every failure into a Result

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Messages returned in Result.Message when the server gave none
const (
	MsgNetwork          = "Network issue. Please check your connection"
	MsgServer           = "An error occurred on the server"
	MsgInvalidResponse  = "Invalid response from server"
	MsgCanceled         = "Request canceled"
	MsgEndpointRequired = "Endpoint is required"
	MsgInvalidMethod    = "Invalid method type. Use GET, POST, PUT, or DELETE."
	MsgOffline          = "No internet connection."
)

const (
	// DefaultTimeout bounds connect plus response so a dead backend never hangs a form
	DefaultTimeout = 30 * time.Second

	// DefaultClientType is sent in the api_type header on every call
	DefaultClientType = "web"

	clientTypeHeader = "api_type"
	requestIDHeader  = "X-Request-ID"

	maxBodyBytes = 4 << 20
)

var (
	errEndpointRequired = errors.New(MsgEndpointRequired)
	errInvalidMethod    = errors.New(MsgInvalidMethod)
)

// TokenSource supplies the bearer token attached to outbound calls
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource
type TokenFunc func() string

// Token implements TokenSource
func (f TokenFunc) Token() string { return f() }

// Client is the API client for the dairy-management backend
type Client struct {
	baseURL    string
	clientType string
	httpClient *http.Client
	tokens     TokenSource
	online     func(ctx context.Context) bool
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientType overrides the api_type header value
func WithClientType(clientType string) Option {
	return func(c *Client) {
		if clientType != "" {
			c.clientType = clientType
		}
	}
}

// WithTokenSource attaches Authorization: Bearer when the source has a token
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithOnlineCheck replaces the network probe run before uploads
func WithOnlineCheck(probe func(ctx context.Context) bool) Option {
	return func(c *Client) {
		if probe != nil {
			c.online = probe
		}
	}
}

// New creates a new API client for the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		clientType: DefaultClientType,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	c.online = dialProbe(c.baseURL)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the origin every relative target is appended to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeBaseURL guarantees a single trailing slash so base+target joins cleanly
func NormalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/"
}

// Request describes one logical API call
type Request struct {
	Method   string
	Target   string
	Payload  Payload
	Absolute bool
	Header   http.Header
}

// Result is the uniform envelope every call resolves to.
// Token is populated by endpoints that issue a session.
type Result[T any] struct {
	Status  bool   `json:"status"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

func failure[T any](msg string) Result[T] {
	return Result[T]{Status: false, Message: msg}
}

// Do performs req and decodes the response envelope into Result[T].
// It never returns an error: transport, server and decode failures all
// terminate in a Result with Status false and a readable Message.
func Do[T any](ctx context.Context, c *Client, req Request) Result[T] {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return failure[T](err.Error())
	}

	start := time.Now()
	requestID := httpReq.Header.Get(requestIDHeader)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		msg := c.handleRequestError(ctx, err)
		slog.Warn("API request failed",
			"request_id", requestID,
			"method", httpReq.Method,
			"url", httpReq.URL.Redacted(),
			"error", err,
		)
		return failure[T](msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		slog.Warn("API response read failed", "request_id", requestID, "error", err)
		return failure[T](c.handleRequestError(ctx, err))
	}

	slog.Debug("API request completed",
		"request_id", requestID,
		"method", httpReq.Method,
		"url", httpReq.URL.Redacted(),
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure[T](handleErrorResponse(body, MsgServer))
	}

	var result Result[T]
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("API response is not JSON", "request_id", requestID, "status", resp.StatusCode)
		return failure[T](MsgInvalidResponse)
	}
	return withCause(result)
}

// withCause fills Message for a rejected result that carries none
func withCause[T any](r Result[T]) Result[T] {
	if !r.Status && r.Message == "" {
		r.Message = MsgServer
	}
	return r
}

// newRequest builds the outbound http.Request with merged headers
func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method, err := normalizeMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if req.Target == "" {
		return nil, errEndpointRequired
	}

	payload := req.Payload.Compact()
	target := c.resolve(req.Target, req.Absolute)

	var body io.Reader
	if method == http.MethodGet {
		target += Query(payload)
	} else {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.applyHeaders(httpReq, req.Header)
	return httpReq, nil
}

func (c *Client) resolve(target string, absolute bool) string {
	if absolute {
		return target
	}
	return c.baseURL + strings.TrimLeft(target, "/")
}

// applyHeaders sets the fixed header set then lets caller values win
func (c *Client) applyHeaders(req *http.Request, extra http.Header) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// api_type is sent verbatim; canonicalizing would turn it into Api_type
	req.Header[clientTypeHeader] = []string{c.clientType}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	mergeHeaders(req.Header, extra)
}

// mergeHeaders copies src into dst, replacing any case-insensitive match
func mergeHeaders(dst, src http.Header) {
	for key, values := range src {
		for existing := range dst {
			if strings.EqualFold(existing, key) {
				delete(dst, existing)
			}
		}
		dst[key] = append([]string(nil), values...)
	}
}

func normalizeMethod(method string) (string, error) {
	if method == "" {
		return http.MethodGet, nil
	}
	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m, nil
	default:
		return "", errInvalidMethod
	}
}

// handleRequestError converts transport errors to user-facing messages
func (c *Client) handleRequestError(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.Canceled) {
		return MsgCanceled
	}
	return MsgNetwork
}

// handleErrorResponse extracts the server's message from an error body
func handleErrorResponse(body []byte, fallback string) string {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return fallback
	}
	return errResp.Message
}
