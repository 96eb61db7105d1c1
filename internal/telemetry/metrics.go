package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels how an evaluation resolved.
const (
	OutcomeScored   = "scored"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	EvaluationsTotal *prometheus.CounterVec
	ScorerLatency    *prometheus.HistogramVec
	ScorerFallbacks  *prometheus.CounterVec
	UtterancesTotal  *prometheus.CounterVec
	SessionsActive   prometheus.Gauge
	PlaybacksActive  prometheus.Gauge
)

// Init registers every collector on a private registry. It is safe to call
// more than once.
func Init() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		EvaluationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorecard_evaluations_total",
				Help: "Total number of transcript evaluations",
			},
			[]string{"scorer", "outcome"},
		)

		ScorerLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scorecard_scorer_latency_seconds",
				Help:    "Latency of external scorer calls",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"scorer"},
		)

		ScorerFallbacks = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorecard_scorer_fallbacks_total",
				Help: "Scorer calls replaced by the fallback score set",
			},
			[]string{"scorer", "reason"},
		)

		UtterancesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorecard_utterances_total",
				Help: "Utterances appended to session transcripts",
			},
			[]string{"sender"},
		)

		SessionsActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scorecard_sessions_active",
				Help: "Number of sessions held in memory",
			},
		)

		PlaybacksActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scorecard_playbacks_active",
				Help: "Number of scenario playbacks in progress",
			},
		)

		registry.MustRegister(
			EvaluationsTotal,
			ScorerLatency,
			ScorerFallbacks,
			UtterancesTotal,
			SessionsActive,
			PlaybacksActive,
		)
	})
}

// Registry returns the telemetry registry, initialising it on first use.
func Registry() *prometheus.Registry {
	Init()
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// RecordEvaluation counts one evaluation.
func RecordEvaluation(scorer, outcome string) {
	Init()
	EvaluationsTotal.WithLabelValues(scorer, outcome).Inc()
}

// RecordFallback counts one scorer failure.
func RecordFallback(scorer, reason string) {
	Init()
	ScorerFallbacks.WithLabelValues(scorer, reason).Inc()
}

// RecordUtterance counts one appended utterance.
func RecordUtterance(sender string) {
	Init()
	UtterancesTotal.WithLabelValues(sender).Inc()
}

// ObserveScorer starts a latency timer; call the returned func when the
// scorer returns.
func ObserveScorer(scorer string) func() {
	Init()
	start := time.Now()
	return func() {
		ScorerLatency.WithLabelValues(scorer).Observe(time.Since(start).Seconds())
	}
}

// SessionOpened and SessionClosed track in-memory sessions.
func SessionOpened() {
	Init()
	SessionsActive.Inc()
}

func SessionClosed() {
	Init()
	SessionsActive.Dec()
}

// StartPlayback marks a playback as running until the returned func is
// called.
func StartPlayback() func() {
	Init()
	PlaybacksActive.Inc()
	return PlaybacksActive.Dec
}
