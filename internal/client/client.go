// Package client talks to the board API over HTTP. Every request asks its
// Credentials for the bearer token; there is no ambient token store.
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

	"github.com/yukikurage/project-board/internal/logging"
)

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

// ErrNoToken is returned when a request needs a token and none is configured.
var ErrNoToken = errors.New("no API token configured")

// Credentials supplies the bearer token for a request.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

// Token returns the token, or ErrNoToken when it is empty.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// String masks the token so it can be logged.
func (t StaticToken) String() string {
	if len(t) <= 8 {
		return "****"
	}
	return string(t[:4]) + "****"
}

// HTTPError is a non-2xx answer from the API. Code and Message come from the
// server's error body when it sent one.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *HTTPError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("board api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("board api: status %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(lg *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrDiscard(lg)
	}
}

// New returns a client for baseURL (for example "http://localhost:8080").
// creds may be nil for the unauthenticated login call.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	if creds == nil {
		creds = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("board api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	httpErr := &HTTPError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, httpErr); err != nil || httpErr.Message == "" {
		httpErr.Message = strings.TrimSpace(string(raw))
		if httpErr.Message == "" {
			httpErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return httpErr
}
