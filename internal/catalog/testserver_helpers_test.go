package catalog

import (
	"net/http/httptest"
)

func newTestClient(server *httptest.Server, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithRateLimiter(nil),
	}
	return NewClient(append(base, opts...)...)
}
