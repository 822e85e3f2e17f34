// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medical_conversation"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Request metrics
	RequestsTotal   prometheus.Counter
	RequestsActive  prometheus.Gauge
	RequestsFailed  *prometheus.CounterVec
	RequestDuration prometheus.Histogram

	// Upload metrics
	UploadBytesReceived prometheus.Counter
	UploadsRejected     *prometheus.CounterVec

	// Transcription metrics
	TranscriptionLatency *prometheus.HistogramVec
	TranscriptionErrors  *prometheus.CounterVec
	TranscriptionRetries prometheus.Counter
	NoSpeechTotal        prometheus.Counter

	// Completion metrics
	CompletionLatency *prometheus.HistogramVec
	CompletionErrors  *prometheus.CounterVec

	// Extraction metrics
	ExtractionResults *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Request metrics
		RequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of processing requests started",
		}),
		RequestsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_active",
			Help:      "Number of requests currently in the pipeline",
		}),
		RequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_failed_total",
			Help:      "Total number of failed requests",
		}, []string{"reason"}),
		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end pipeline duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		// Upload metrics
		UploadBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_received_total",
			Help:      "Total audio upload bytes received",
		}),
		UploadsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Total number of uploads rejected by validation",
		}, []string{"reason"}),

		// Transcription metrics
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech-to-text latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total number of transcription errors",
		}, []string{"provider"}),
		TranscriptionRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_retries_total",
			Help:      "Total number of conservative transcription retries",
		}),
		NoSpeechTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_speech_total",
			Help:      "Total number of uploads with no detectable speech",
		}),

		// Completion metrics
		CompletionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_latency_seconds",
			Help:      "LLM completion latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"backend"}),
		CompletionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Total number of completion errors",
		}, []string{"backend"}),

		// Extraction metrics
		ExtractionResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_results_total",
			Help:      "Extraction outcomes by status",
		}, []string{"status"}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordRequestStart records a new pipeline request starting.
func (m *Metrics) RecordRequestStart() {
	m.RequestsTotal.Inc()
	m.RequestsActive.Inc()
}

// RecordRequestEnd records a pipeline request ending. A non-empty reason
// counts the request as failed.
func (m *Metrics) RecordRequestEnd(reason string, durationSeconds float64) {
	m.RequestsActive.Dec()
	m.RequestDuration.Observe(durationSeconds)
	if reason != "" {
		m.RequestsFailed.WithLabelValues(reason).Inc()
	}
}

// RecordUpload records accepted upload bytes.
func (m *Metrics) RecordUpload(bytes int) {
	m.UploadBytesReceived.Add(float64(bytes))
}

// RecordUploadRejected records an upload failing validation.
func (m *Metrics) RecordUploadRejected(reason string) {
	m.UploadsRejected.WithLabelValues(reason).Inc()
}

// RecordTranscription records a transcription attempt.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.TranscriptionErrors.WithLabelValues(provider).Inc()
	}
}

// RecordTranscriptionRetry records a conservative retry.
func (m *Metrics) RecordTranscriptionRetry() {
	m.TranscriptionRetries.Inc()
}

// RecordNoSpeech records an upload that contained no speech.
func (m *Metrics) RecordNoSpeech() {
	m.NoSpeechTotal.Inc()
}

// RecordCompletion records a completion attempt.
func (m *Metrics) RecordCompletion(backend string, err error, latencySeconds float64) {
	m.CompletionLatency.WithLabelValues(backend).Observe(latencySeconds)
	if err != nil {
		m.CompletionErrors.WithLabelValues(backend).Inc()
	}
}

// RecordExtraction records an extraction outcome.
func (m *Metrics) RecordExtraction(status string) {
	m.ExtractionResults.WithLabelValues(status).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
