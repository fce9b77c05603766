// Package metrics provides the centralized Prometheus registry for the
// recommendation pipeline.
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
	PhaseRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "phase_runs_total",
		Help:      "Total number of pipeline phase runs",
	}, []string{"phase"})
	PhaseFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "phase_failures_total",
		Help:      "Total number of pipeline phase runs that returned an error",
	}, []string{"phase"})
	ContestsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "contests_scored_total",
		Help:      "Total number of contests run through the composite scorer",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "recommendations_total",
		Help:      "Total number of recommendations generated, by bet type",
	}, []string{"bet_type"})
	DailyPicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "daily_picks_total",
		Help:      "Total number of daily picks selected",
	})
	CollectorErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "collector_errors_total",
		Help:      "Total number of signal collection failures, by collector",
	}, []string{"collector"})
	NotifyErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "notify_errors_total",
		Help:      "Total number of failed report deliveries",
	})
	ResultsLoggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "results_logged_total",
		Help:      "Total number of bet results logged, by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	WatchListSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "watch_list_size",
		Help:      "Number of contests on the current watch list",
	})
	DailyPickConfidence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "daily_pick_confidence",
		Help:      "Confidence score of the most recent daily pick",
	})
)

// Histogram metrics
var (
	PhaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "phase_duration_seconds",
		Help:      "Duration of pipeline phases in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"phase"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PhaseRunsTotal)
		registry.MustRegister(PhaseFailuresTotal)
		registry.MustRegister(ContestsScoredTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(DailyPicksTotal)
		registry.MustRegister(CollectorErrorsTotal)
		registry.MustRegister(NotifyErrorsTotal)
		registry.MustRegister(ResultsLoggedTotal)

		// Register gauge metrics
		registry.MustRegister(WatchListSize)
		registry.MustRegister(DailyPickConfidence)

		// Register histogram metrics
		registry.MustRegister(PhaseDuration)
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

// RecordPhase records one pipeline phase run.
func RecordPhase(phase string, durationSeconds float64, failed bool) {
	PhaseRunsTotal.WithLabelValues(phase).Inc()
	PhaseDuration.WithLabelValues(phase).Observe(durationSeconds)
	if failed {
		PhaseFailuresTotal.WithLabelValues(phase).Inc()
	}
}

// RecordContestScored records one composite scoring pass.
func RecordContestScored() {
	ContestsScoredTotal.Inc()
}

// RecordRecommendation records a generated recommendation.
func RecordRecommendation(betType string) {
	RecommendationsTotal.WithLabelValues(betType).Inc()
}

// RecordDailyPick records a daily pick selection.
func RecordDailyPick(confidence float64) {
	DailyPicksTotal.Inc()
	DailyPickConfidence.Set(confidence)
}

// RecordCollectorError records a signal collection failure.
func RecordCollectorError(collector string) {
	CollectorErrorsTotal.WithLabelValues(collector).Inc()
}

// RecordNotifyError records a failed report delivery.
func RecordNotifyError() {
	NotifyErrorsTotal.Inc()
}

// RecordResultLogged records a logged bet result.
func RecordResultLogged(result string) {
	ResultsLoggedTotal.WithLabelValues(result).Inc()
}

// SetWatchListSize updates the watch list size gauge.
func SetWatchListSize(count int) {
	WatchListSize.Set(float64(count))
}
