// Package apiclient talks to the travel-booking backend REST API on behalf of
// a signed-in admin. Every failure is reported once through the bound
// domain.Notifier and returned to the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

const (
	MsgUnauthorized = "Your session has expired. Please sign in again."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgGeneric      = "Something went wrong. Please try again."
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// IsAuth reports whether err is a 401 or 403 from the backend.
func IsAuth(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden
	}
	return false
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TokenSource returns the bearer token for the request in ctx, or "".
type TokenSource func(ctx context.Context) string

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	notes  domain.Notifier
}

func New(cfg Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if tokens == nil {
		tokens = func(context.Context) string { return "" }
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		notes:  domain.Discard,
	}
}

// WithNotifier returns a copy of c that reports failures to n.
func (c *Client) WithNotifier(n domain.Notifier) *Client {
	cp := *c
	if n == nil {
		n = domain.Discard
	}
	cp.notes = n
	return &cp
}

func (c *Client) BaseURL() string { return c.base }

// Do sends one JSON request and returns the raw response body of a 2xx reply.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	out, err := c.send(ctx, method, path, body)
	if err != nil {
		c.report(err)
	}
	return out, err
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: backendMessage(respBody)}
	}
	return respBody, nil
}

// report turns err into the single user-facing notification for it.
func (c *Client) report(err error) {
	var ae *APIError
	if !errors.As(err, &ae) {
		c.notes.Notify(domain.LevelError, MsgGeneric)
		return
	}
	switch ae.Status {
	case http.StatusUnauthorized:
		c.notes.Notify(domain.LevelError, MsgUnauthorized)
	case http.StatusForbidden:
		c.notes.Notify(domain.LevelError, MsgForbidden)
	default:
		if ae.Message != "" {
			c.notes.Notify(domain.LevelError, ae.Message)
		} else {
			c.notes.Notify(domain.LevelError, MsgGeneric)
		}
	}
}

// backendMessage extracts "message" or "error" from a JSON error body.
func backendMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error", "error.message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && strings.TrimSpace(r.String()) != "" {
			return strings.TrimSpace(r.String())
		}
	}
	return ""
}
