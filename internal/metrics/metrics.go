// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the flow counters.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bibliotech_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bibliotech_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	CatalogSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bibliotech_catalog_searches_total",
		Help: "Catalog searches by outcome",
	}, []string{"outcome"})

	StaleSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bibliotech_stale_searches_total",
		Help: "Search responses discarded because a newer search was issued",
	})

	LibraryAddsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bibliotech_library_adds_total",
		Help: "Books submitted to the library by outcome",
	}, []string{"outcome"})
)
