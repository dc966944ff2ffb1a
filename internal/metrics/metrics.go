// Package metrics provides the centralized Prometheus registry for the
// backtesting workbench.
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
	StrategiesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap_lab",
		Name:      "strategies_evaluated_total",
		Help:      "Total number of strategy combinations evaluated",
	})
	StrategiesRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap_lab",
		Name:      "strategies_rejected_total",
		Help:      "Total number of strategy combinations rejected at validation",
	})
	BetsSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap_lab",
		Name:      "bets_simulated_total",
		Help:      "Total number of simulated bets settled",
	})
	MatchesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap_lab",
		Name:      "matches_skipped_total",
		Help:      "Total number of matches skipped for data-quality reasons",
	})
	SeasonFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap_lab",
		Name:      "season_fetches_total",
		Help:      "Total number of season file downloads",
	})
)

// Gauge metrics
var (
	MatchesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handicap_lab",
		Name:      "matches_loaded",
		Help:      "Number of matches loaded for the current batch",
	})
	StrategyROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "handicap_lab",
		Name:      "strategy_roi",
		Help:      "ROI for each evaluated strategy combination",
	}, []string{"strategy", "combination"})
)

// Histogram metrics
var (
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handicap_lab",
		Name:      "batch_duration_seconds",
		Help:      "Duration of full batch runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	SeasonLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handicap_lab",
		Name:      "season_load_duration_seconds",
		Help:      "Duration of season file loads in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(StrategiesEvaluatedTotal)
		registry.MustRegister(StrategiesRejectedTotal)
		registry.MustRegister(BetsSimulatedTotal)
		registry.MustRegister(MatchesSkippedTotal)
		registry.MustRegister(SeasonFetchesTotal)

		registry.MustRegister(MatchesLoaded)
		registry.MustRegister(StrategyROI)

		registry.MustRegister(BatchDuration)
		registry.MustRegister(SeasonLoadDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBatch records a completed batch run.
func RecordBatch(durationSeconds float64) {
	BatchDuration.Observe(durationSeconds)
}

// RecordStrategyROI publishes the ROI gauge for one combination.
func RecordStrategyROI(strategy, combination string, roi float64) {
	StrategyROI.WithLabelValues(strategy, combination).Set(roi)
}
