package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_radar_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signal_radar_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ScorerCallsTotal counts outbound scoring calls by outcome (ok, error).
	ScorerCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_radar_scorer_calls_total",
		Help: "Total number of scorer calls by outcome",
	}, []string{"outcome"})

	// ScorerLatency records the duration of outbound scoring calls.
	ScorerLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_radar_scorer_latency_seconds",
		Help:    "Scorer call latency in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})

	// WebSocketConnections is the gauge of live chat connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signal_radar_websocket_connections",
		Help: "Number of live chat WebSocket connections",
	})

	// ChatDeliveriesTotal counts fan-out attempts by result (delivered, offline, dropped).
	ChatDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_radar_chat_deliveries_total",
		Help: "Total chat fan-out attempts by result",
	}, []string{"result"})
)
