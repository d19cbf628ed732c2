// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResolveTotal counts resolution calls per platform and outcome
// (live, not_live, schema, no_tiers, network, api, error).
var ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "seam_resolve_total",
	Help: "Number of room resolutions by outcome",
}, []string{"platform", "outcome"})

// ResolveDuration observes end-to-end resolution latency per platform.
var ResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "seam_resolve_duration_seconds",
	Help:    "Room resolution latency",
	Buckets: prometheus.DefBuckets,
}, []string{"platform"})

// UpstreamRequests counts outbound API requests by host and HTTP status
// ("error" when no response was received).
var UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "seam_upstream_requests_total",
	Help: "Outbound platform API requests",
}, []string{"host", "status"})
