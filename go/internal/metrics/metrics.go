package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcdev12/quizshow/go/internal/models"
)

// Collector defines the interface for collecting game metrics
type Collector interface {
	RecordSessionStarted(quizID string)
	RecordSessionFinished(outcome models.Outcome, level int)
	RecordLifelineUsed(id models.LifelineID)
	RecordAnswer(correct, timedOut bool, latency time.Duration)
	RecordCueFailure(cue string)
	RecordEventPublished(eventType string, success bool, duration time.Duration)
}

// NoOpCollector is a no-op implementation for when metrics aren't needed
type NoOpCollector struct{}

func (NoOpCollector) RecordSessionStarted(string)                      {}
func (NoOpCollector) RecordSessionFinished(models.Outcome, int)        {}
func (NoOpCollector) RecordLifelineUsed(models.LifelineID)             {}
func (NoOpCollector) RecordAnswer(bool, bool, time.Duration)           {}
func (NoOpCollector) RecordCueFailure(string)                          {}
func (NoOpCollector) RecordEventPublished(string, bool, time.Duration) {}

// PrometheusMetrics implements Collector using Prometheus
type PrometheusMetrics struct {
	sessionsStarted  *prometheus.CounterVec
	sessionsFinished *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	finalLevel       prometheus.Histogram
	lifelinesUsed    *prometheus.CounterVec
	answers          *prometheus.CounterVec
	answerLatency    prometheus.Histogram
	cueFailures      *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	publishDuration  prometheus.Histogram
}

// NewPrometheusMetrics creates the collectors and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_sessions_started_total",
			Help: "Total number of quiz sessions started",
		}, []string{"quiz"}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_sessions_finished_total",
			Help: "Total number of quiz sessions finished",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quiz_sessions_active",
			Help: "Sessions started and not yet finished",
		}),
		finalLevel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_session_final_level",
			Help:    "Question level reached when a session finished",
			Buckets: prometheus.LinearBuckets(1, 1, 15),
		}),
		lifelinesUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_lifelines_used_total",
			Help: "Total number of lifelines used",
		}, []string{"lifeline"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Total number of revealed answers",
		}, []string{"result"}),
		answerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_answer_latency_seconds",
			Help:    "Time from question start to answer lock-in",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 45, 60},
		}),
		cueFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_cue_failures_total",
			Help: "Total number of sound cues that failed to play",
		}, []string{"cue"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_events_published_total",
			Help: "Total number of session events published to the bus",
		}, []string{"event_type", "status"}),
		publishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_event_publish_duration_seconds",
			Help:    "Time spent publishing a session event",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.sessionsStarted,
		m.sessionsFinished,
		m.activeSessions,
		m.finalLevel,
		m.lifelinesUsed,
		m.answers,
		m.answerLatency,
		m.cueFailures,
		m.eventsPublished,
		m.publishDuration,
	)
	return m
}

func (m *PrometheusMetrics) RecordSessionStarted(quizID string) {
	if quizID == "" {
		quizID = "unknown"
	}
	m.sessionsStarted.WithLabelValues(quizID).Inc()
	m.activeSessions.Inc()
}

func (m *PrometheusMetrics) RecordSessionFinished(outcome models.Outcome, level int) {
	m.sessionsFinished.WithLabelValues(string(outcome)).Inc()
	m.activeSessions.Dec()
	m.finalLevel.Observe(float64(level))
}

func (m *PrometheusMetrics) RecordLifelineUsed(id models.LifelineID) {
	m.lifelinesUsed.WithLabelValues(string(id)).Inc()
}

func (m *PrometheusMetrics) RecordAnswer(correct, timedOut bool, latency time.Duration) {
	result := "wrong"
	switch {
	case timedOut:
		result = "timeout"
	case correct:
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
	if !timedOut {
		m.answerLatency.Observe(latency.Seconds())
	}
}

func (m *PrometheusMetrics) RecordCueFailure(cue string) {
	m.cueFailures.WithLabelValues(cue).Inc()
}

func (m *PrometheusMetrics) RecordEventPublished(eventType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.eventsPublished.WithLabelValues(eventType, status).Inc()
	m.publishDuration.Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
