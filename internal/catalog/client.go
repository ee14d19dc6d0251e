// Package catalog provides a client for the Google Books volume search API.
package catalog

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/bibliotech/internal/ratelimit"
)

const (
	defaultBaseURL          = "https://www.googleapis.com/books/v1"
	defaultPlaceholderCover = "https://via.placeholder.com/150"
	defaultTimeout          = 10 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a Google Books API client.
type Client struct {
	baseURL          string
	apiKey           string
	placeholderCover string
	httpClient       HTTPDoer
	rateLimiter      *ratelimit.Limiter
}

// NewClient creates a new Google Books client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:          defaultBaseURL,
		placeholderCover: defaultPlaceholderCover,
		httpClient:       &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
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

// WithBaseURL sets a custom base URL for the catalog API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithAPIKey sets the Google Books API key sent with every request.
func WithAPIKey(key string) Option {
	return func(client *Client) {
		client.apiKey = key
	}
}

// WithPlaceholderCover sets the cover URL used for results without a thumbnail.
func WithPlaceholderCover(url string) Option {
	return func(client *Client) {
		if url != "" {
			client.placeholderCover = url
		}
	}
}

// WithRateLimiter throttles catalog requests. A nil limiter disables throttling.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}
