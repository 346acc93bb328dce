// Package metrics provides the centralized Prometheus registry for the
// picks pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "predictions_upserted_total",
		Help:      "Total number of prediction rows upserted",
	})
	GamesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped as unresolvable",
	})
	FallbackPicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "fallback_picks_total",
		Help:      "Total number of conservative fallback picks recorded",
	})
	GradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "graded_predictions_total",
		Help:      "Total number of graded prediction rows upserted",
	})
	CalibrationRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "calibration_runs_total",
		Help:      "Total number of completed calibration runs",
	})
	ProviderErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "peytons_picks",
		Name:      "provider_errors_total",
		Help:      "Total number of provider fetch failures",
	})
)

// Gauge metrics
var (
	CalibrationLogLoss = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "peytons_picks",
		Name:      "calibration_logloss",
		Help:      "Mean log-loss of the most recent calibration window",
	})
	MarketSnapshotsCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "peytons_picks",
		Name:      "market_snapshots_current",
		Help:      "Market snapshots refreshed in the most recent run",
	})
)

// Histogram metrics
var (
	ScoringRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "peytons_picks",
		Name:      "scoring_run_duration_seconds",
		Help:      "Duration of full week scoring runs",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global registry and registers all metrics
func InitRegistry() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsUpsertedTotal,
			GamesSkippedTotal,
			FallbackPicksTotal,
			GradedTotal,
			CalibrationRunsTotal,
			ProviderErrorsTotal,
			CalibrationLogLoss,
			MarketSnapshotsCurrent,
			ScoringRunDuration,
		)
	})
}

// GetRegistry returns the global registry, initializing it if needed
func GetRegistry() *prometheus.Registry {
	InitRegistry()
	return registry
}

// Handler returns the HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
