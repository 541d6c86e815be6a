package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cid",
		Name:      "analyses_started_total",
		Help:      "Total number of analysis runs started",
	})

	AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cid",
		Name:      "analyses_completed_total",
		Help:      "Total number of analysis runs completed, by outcome",
	}, []string{"outcome"})

	AnalysisPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cid",
		Name:      "analysis_phase_duration_seconds",
		Help:      "Duration of analysis exchange phases",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"phase"})

	BackendHealthChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cid",
		Name:      "backend_health_checks_total",
		Help:      "Health probes against the ML backend, by result",
	}, []string{"result"})

	StagedFiles = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "cid",
		Name:      "staged_files",
		Help:      "Number of currently staged upload files, by kind",
	}, []string{"kind"})

	RecordCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cid",
		Name:      "records",
		Help:      "Number of person records in the store",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cid",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cid",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
