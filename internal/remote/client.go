// Package remote is the client side of the booking API. It maps between the
// domain model and the API's snake_case records, attaches the session token,
// and guards entity mutations against re-entry.
package remote

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

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/session"
)

const DefaultBaseURL = "http://localhost:5001/api"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	store   session.Store
	logger  *slog.Logger
	guard   *models.Guard
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithStore persists the session on login and clears it on logout.
func WithStore(s session.Store) Option {
	return func(c *Client) { c.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if sess == nil {
		sess = session.New()
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: sess,
		logger:  slog.Default(),
		guard:   models.NewGuard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Session() *session.Session {
	return c.session
}

// Busy reports whether a mutation on the entity is still outstanding, so a
// caller can disable the matching action.
func (c *Client) Busy(id string) bool {
	return c.guard.Busy(id)
}

// do sends one JSON request and decodes the answer into out when out is
// non-nil. Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("remote call failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
		c.logger.Error("remote call rejected", "method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the "error" field from an error body, falling back to
// the HTTP status text.
func errorMessage(raw []byte, status string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return status
}
