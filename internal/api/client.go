// Package api is the HTTP client for the StreamTracker service.
//
// Every call goes through Do, which attaches the bearer token from the
// shared token store and maps responses to typed errors. A 401 from any
// endpoint triggers the token store's unauthorized handler.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/streamtracker/streamtracker/internal/logging"
	"github.com/streamtracker/streamtracker/internal/tokenstore"
)

const maxBodyBytes = 4 << 20

// Client talks to one StreamTracker API base URL.
type Client struct {
	baseURL string
	tokens  *tokenstore.Store
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for baseURL (for example
// "http://localhost:8000/api/v1") reading its token from tokens.
func New(baseURL string, tokens *tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Do sends a JSON request and decodes the response into a T.
//
// A 204 response yields (nil, nil). A 401 triggers the unauthorized handler
// and returns *SessionExpiredError. Other non-2xx responses return
// *RequestFailedError carrying the server's detail message. A 2xx body that
// does not decode as T returns *MalformedResponseError.
func Do[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token, ok := c.tokens.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "err", err)
		return nil, &RequestFailedError{Message: "Could not reach the server", Err: err}
	}
	defer resp.Body.Close()

	// 204 and 401 never depend on the body being readable.
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusUnauthorized:
		c.tokens.TriggerUnauthorized()
		if readErr != nil {
			log.Warn("reading 401 body failed", "err", readErr)
		}
		return nil, &SessionExpiredError{Message: detailMessage(data)}
	}
	if readErr != nil {
		log.Warn("reading response failed", "status", resp.StatusCode, "err", readErr)
		return nil, &RequestFailedError{Status: resp.StatusCode, Message: genericFailure, Err: readErr}
	}
	log.Debug("request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := detailMessage(data)
		if msg == "" {
			msg = genericFailure
		}
		return nil, &RequestFailedError{Status: resp.StatusCode, Message: msg}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn("malformed response", "status", resp.StatusCode, "err", err)
		return nil, &MalformedResponseError{Status: resp.StatusCode, Err: err}
	}
	return &out, nil
}

// detailMessage extracts {"detail": "..."}. Validation errors carry a list
// of {"msg": "..."} objects instead; their messages are joined.
func detailMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// deref returns the zero value for a nil pointer, as a 204 on an endpoint
// that normally returns a body.
func deref[T any](v *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return *v, nil
}
