// Package library talks to the personal library backend that stores added books.
package library

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

	"github.com/lepinkainen/bibliotech/internal/errors"
	"github.com/lepinkainen/bibliotech/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client submits entries to, and reads books from, the library backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Add posts entry to /api/add. It returns nil only when the backend answers
// with status "success"; any other status yields a *errors.RejectedError
// carrying the server message. Transport and decode failures are returned
// wrapped and are not retried.
func (c *Client) Add(ctx context.Context, entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}

	action := fmt.Sprintf("add book %q", entry.Title)
	if err := c.send(ctx, http.MethodPost, "/api/add", body, action); err != nil {
		outcome := metrics.OutcomeError
		if errors.IsRejectedError(err) {
			outcome = metrics.OutcomeRejected
		}
		metrics.LibraryAddsTotal.WithLabelValues(outcome).Inc()
		return err
	}
	metrics.LibraryAddsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	slog.Info("Book added to library", "title", entry.Title, "author", entry.Author)
	return nil
}

// Issue marks an available book as borrowed.
func (c *Client) Issue(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/issue", id), nil, fmt.Sprintf("issue book %d", id))
}

// Return marks a borrowed book as available again.
func (c *Client) Return(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/return", id), nil, fmt.Sprintf("return book %d", id))
}

// Delete removes a book from the library.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, fmt.Sprintf("delete book %d", id))
}

// send performs a write against the backend and interprets its status reply.
func (c *Client) send(ctx context.Context, method, path string, body []byte, action string) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Library request failed", "action", action, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Error("Library request failed", "action", action, "status_code", resp.StatusCode, "error", err)
		return fmt.Errorf("%s: decoding response (HTTP %d): %w", action, resp.StatusCode, err)
	}

	if result.Status != StatusSuccess {
		slog.Warn("Library rejected request", "action", action, "status", result.Status, "message", result.Message)
		return errors.NewRejectedError(result.Status, result.Message)
	}
	return nil
}

// List fetches every book from /api/books.
func (c *Client) List(ctx context.Context) ([]Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list books: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var books []Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("list books: decoding response: %w", err)
	}
	return books, nil
}
