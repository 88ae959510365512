package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics
const (
	MetricChatbotRequest      = "chatbot_request"
	MetricAIRequest           = "ai_request"
	MetricAIRequestFailed     = "ai_request_failed"
	MetricCircuitBreakerState = "circuit_breaker_state"
	MetricImportRows          = "import_rows"
	MetricImportCompleted     = "import_completed"
	MetricEntityMutation      = "entity_mutation"
	MetricReportGenerated     = "report_generated"
)

type PrometheusMetrics struct {
	chatbotRequests     *prometheus.CounterVec
	chatbotDuration     prometheus.Histogram
	aiRequestDuration   prometheus.Histogram
	aiFailures          *prometheus.CounterVec
	circuitBreakerState *prometheus.GaugeVec
	importRows          *prometheus.CounterVec
	importsTotal        *prometheus.CounterVec
	entityMutations     *prometheus.CounterVec
	reportDuration      prometheus.Histogram
}

// NewPrometheusMetrics registers the collectors with the default registry.
// It must be called once per process.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		chatbotRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_requests_total",
				Help: "Total number of answered chatbot questions by answer source",
			},
			[]string{"source"},
		),
		chatbotDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_request_duration_milliseconds",
				Help:    "Chatbot request duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(5, 2, 12),
			},
		),
		aiRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_milliseconds",
				Help:    "Text generation call duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(50, 2, 10),
			},
		),
		aiFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_request_failures_total",
				Help: "Total number of failed text generation calls by reason",
			},
			[]string{"reason"},
		),
		circuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		importRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csv_import_rows_total",
				Help: "Total number of CSV rows processed by validation result",
			},
			[]string{"status"},
		),
		importsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csv_imports_total",
				Help: "Total number of CSV uploads by outcome",
			},
			[]string{"status"},
		),
		entityMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entity_mutations_total",
				Help: "Total number of create, update and delete operations",
			},
			[]string{"resource", "action"},
		),
		reportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_generation_duration_milliseconds",
				Help:    "Summary report generation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricChatbotRequest:
		if source := tags["source"]; source != "" {
			m.chatbotRequests.WithLabelValues(source).Inc()
		}
	case MetricAIRequestFailed:
		if reason := tags["reason"]; reason != "" {
			m.aiFailures.WithLabelValues(reason).Inc()
		}
	case MetricImportCompleted:
		if status := tags["status"]; status != "" {
			m.importsTotal.WithLabelValues(status).Inc()
		}
	case MetricEntityMutation:
		m.entityMutations.WithLabelValues(tags["resource"], tags["action"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricChatbotRequest:
		m.chatbotDuration.Observe(float64(duration.Milliseconds()))
	case MetricAIRequest:
		m.aiRequestDuration.Observe(float64(duration.Milliseconds()))
	case MetricReportGenerated:
		m.reportDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	case MetricImportRows:
		if status := tags["status"]; status != "" && value > 0 {
			m.importRows.WithLabelValues(status).Add(value)
		}
	}
}
