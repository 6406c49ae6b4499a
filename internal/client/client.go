// Package client implements the typed HTTP client for the admin backend
// plus one thin resource client per collection (auth, items, users).
//
// The request/response structs double as the validation schema: outbound
// payloads are checked before any network I/O, inbound bodies are checked
// after decoding, with the same struct tags serving both directions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer credential, or "" when the
// visitor is unauthenticated. The session manager implements it; the
// client never owns credential state.
type TokenSource interface {
	Token() string
}

// Client issues JSON requests against a single base URL. It is stateless
// per call apart from reading the ambient token source.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenSource
	onAuthFailure func(status int)
	log           zerolog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient replaces the underlying transport. Used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	// Cookie jar enabled so hybrid cookie+bearer backends keep working.
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource wires the credential getter. Called once at application
// wiring time, before any request is issued.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetAuthFailureHandler registers the callback invoked when a request that
// carried a bearer token is rejected with 401 or 403.
func (c *Client) SetAuthFailureHandler(fn func(status int)) {
	c.onAuthFailure = fn
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// PostNoAuth issues a POST without the bearer credential. The login call
// uses it so a held-but-unverified credential can never colour the
// outcome of a fresh sign-in attempt.
func (c *Client) PostNoAuth(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// Ping reports whether the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	token := ""
	if withAuth && c.tokens != nil {
		token = c.tokens.Token()
	}

	attempt := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.http.Do(req)
	}

	resp, err := attempt()
	if err != nil {
		// Reads get one transport-level retry. Mutations never do: a
		// dropped connection may already have been processed server-side.
		if method != http.MethodGet || ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("transport failure, retrying once")
		resp, err = attempt()
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := newAPIError(resp.StatusCode, raw)
		if token != "" && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			if c.onAuthFailure != nil {
				c.onAuthFailure(resp.StatusCode)
			}
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("request failed")
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	if err := checkResponse(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// newAPIError builds an APIError from a non-2xx response. Message
// resolution order: payload "detail" string, HTTP status text, generic
// default. A non-JSON body never makes this fail.
func newAPIError(status int, raw []byte) *APIError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = "request failed"
	}

	var payload map[string]any
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		if detail, ok := payload["detail"].(string); ok && detail != "" {
			msg = detail
		}
	} else {
		payload = nil
	}

	return &APIError{Status: status, Message: msg, Payload: payload}
}
