package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess  = "success"
	ResultDegraded = "degraded"
	ResultError    = "error"
)

var (
	// Inspection metrics
	NodeInspections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgha_node_inspections_total",
			Help: "Total number of node inspections",
		},
		[]string{"result"}, // success, degraded or error
	)

	NodeInspectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pgha_node_inspection_duration_seconds",
			Help:    "Time taken to inspect one node",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	RemoteCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgha_remote_commands_total",
			Help: "Total number of remote commands executed",
		},
		[]string{"result"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgha_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pgha_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)
)
