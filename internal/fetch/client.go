package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
)

// maxPayload caps the body read from a successful response.
const maxPayload = 32 << 20

// httpDoer abstracts the HTTP transport for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface check.
var _ httpDoer = (*http.Client)(nil)

// Client fetches JSON payloads through the retry pipeline.
// A Client is safe for concurrent use.
type Client struct {
	http    httpDoer
	policy  Policy
	headers http.Header
	runOpts []RunOption
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. The default is a plain http.Client;
// per-attempt deadlines come from the Policy, not from the client.
func WithHTTPClient(c httpDoer) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(p Policy) Option {
	return func(cl *Client) { cl.policy = p }
}

// WithHeaders adds headers to every request. Values are passed through
// unchanged (auth tokens are opaque here).
func WithHeaders(h map[string]string) Option {
	return func(cl *Client) {
		for k, v := range h {
			cl.headers.Set(k, v)
		}
	}
}

// WithRunOptions forwards options to every Run invocation
// (sleeper, observer, logger).
func WithRunOptions(opts ...RunOption) Option {
	return func(cl *Client) { cl.runOpts = append(cl.runOpts, opts...) }
}

// NewClient creates a Client with DefaultPolicy.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		policy:  DefaultPolicy(),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the client's retry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// Get fetches url and returns its JSON payload.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do sends a request and returns the JSON payload of the response.
// Only idempotent methods are retried; any other method gets exactly one
// attempt.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	policy := c.policy
	if !isIdempotent(method) {
		policy.MaxRetries = 0
	}
	return Run(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return c.once(ctx, method, url, body)
	}, c.runOpts...)
}

// GetJSON fetches url and decodes its payload into T. A payload that does
// not decode into T is ErrInvalidResponseFormat.
func GetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var v T
	data, err := c.Get(ctx, url)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: decode: %w", ErrInvalidResponseFormat, err)
	}
	return v, nil
}

func (c *Client) once(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	return classifyResponse(resp)
}

// classifyResponse maps a received response to its payload or a sentinel.
func classifyResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, classifyTransport(err)
	}

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, newStatusError(code, data, ErrAccessDenied)
	case code < 200 || code > 299:
		return nil, newStatusError(code, data, ErrServer)
	}

	ct := resp.Header.Get("Content-Type")
	if !isJSONMediaType(ct) {
		return nil, fmt.Errorf("%w: content type %q", ErrInvalidResponseFormat, ct)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON body", ErrInvalidResponseFormat)
	}
	return data, nil
}

// isJSONMediaType accepts application/json and any +json suffix type.
func isJSONMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// classifyTransport maps a transport error to ErrTimeout or ErrNetwork.
// Errors that fit neither (bad URL, unsupported scheme) are returned
// unchanged and are not retried.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	if isNetworkFailure(err) {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return err
}

func isNetworkFailure(err error) bool {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return strings.Contains(err.Error(), "malformed chunked encoding")
}

func isIdempotent(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
