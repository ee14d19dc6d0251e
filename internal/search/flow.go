// Package search runs the catalog search flow: validate the query, fetch a
// capped result set and turn it into a results.View.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/lepinkainen/bibliotech/internal/catalog"
	"github.com/lepinkainen/bibliotech/internal/metrics"
	"github.com/lepinkainen/bibliotech/internal/results"
)

// ErrEmptyQuery is returned for blank queries; no request is made.
var ErrEmptyQuery = errors.New(results.EmptyQueryWarning)

// Catalog is the read side of the external book catalog.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]catalog.SearchResult, error)
}

// Request is one issued search. Seq increases with every Begin.
type Request struct {
	Seq   uint64
	Query string
}

// Outcome is a completed search. Err is set when the view is the failure
// placeholder; it is already logged and only kept for callers that report it.
type Outcome struct {
	Seq   uint64
	Query string
	View  results.View
	Err   error
}

// Flow issues searches against a catalog. It is safe for concurrent use.
type Flow struct {
	catalog Catalog
	limit   int
	issued  atomic.Uint64
}

// NewFlow creates a flow that asks the catalog for at most limit results.
func NewFlow(c Catalog, limit int) *Flow {
	return &Flow{catalog: c, limit: limit}
}

// Begin validates query and stamps it with the next sequence number.
// The query is passed to the catalog exactly as typed.
func (f *Flow) Begin(query string) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, ErrEmptyQuery
	}
	return Request{Seq: f.issued.Add(1), Query: query}, nil
}

// Run performs req against the catalog. Failures become the error view;
// nothing is retried.
func (f *Flow) Run(ctx context.Context, req Request) Outcome {
	items, err := f.catalog.Search(ctx, req.Query, f.limit)
	if err != nil {
		slog.Error("Error fetching books", "query", req.Query, "seq", req.Seq, "error", err)
		metrics.CatalogSearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return Outcome{Seq: req.Seq, Query: req.Query, View: results.Failure(), Err: err}
	}

	outcome := metrics.OutcomeOK
	if len(items) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.CatalogSearchesTotal.WithLabelValues(outcome).Inc()

	return Outcome{Seq: req.Seq, Query: req.Query, View: results.FromResults(items)}
}

// Search is Begin followed by Run, for callers that issue one search at a time.
func (f *Flow) Search(ctx context.Context, query string) (Outcome, error) {
	req, err := f.Begin(query)
	if err != nil {
		return Outcome{}, err
	}
	return f.Run(ctx, req), nil
}

// IsLatest reports whether o belongs to the most recently issued search.
// Outcomes of superseded searches must not replace the displayed results.
func (f *Flow) IsLatest(o Outcome) bool {
	if o.Seq == f.issued.Load() {
		return true
	}
	slog.Debug("Discarding stale search response", "query", o.Query, "seq", o.Seq, "latest", f.issued.Load())
	metrics.StaleSearchesTotal.Inc()
	return false
}
