// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcript_analysis"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Transcript metrics
	TranscriptsLoaded   prometheus.Counter
	ParagraphsSegmented prometheus.Counter

	// Classification metrics
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationLatency  *prometheus.HistogramVec
	ClassificationTimeouts prometheus.Counter

	// Entity detection metrics
	EntitiesDetected    *prometheus.CounterVec
	FallbackActivations prometheus.Counter
	SpansAnonymized     prometheus.Counter

	// Merge layer metrics
	ManualOverrides *prometheus.CounterVec
	AxisReverts     *prometheus.CounterVec

	// Coding metrics
	SchemeApplications prometheus.Counter
	CodesAssigned      *prometheus.CounterVec

	// Event publish metrics
	PublishTotal   *prometheus.CounterVec
	PublishErrors  *prometheus.CounterVec
	PublishLatency *prometheus.HistogramVec

	// Export metrics
	SnapshotExports prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Transcript metrics
		TranscriptsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_loaded_total",
			Help:      "Total number of transcripts uploaded and segmented",
		}),
		ParagraphsSegmented: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paragraphs_segmented_total",
			Help:      "Total number of paragraphs produced by segmentation",
		}),

		// Classification metrics
		ClassificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Total number of classification attempts",
		}, []string{"task", "outcome"}),
		ClassificationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_latency_seconds",
			Help:      "Per-paragraph classification latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"task"}),
		ClassificationTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_timeouts_total",
			Help:      "Classifications abandoned after the per-paragraph timeout",
		}),

		// Entity detection metrics
		EntitiesDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_detected_total",
			Help:      "Total entity spans detected",
		}, []string{"type"}),
		FallbackActivations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_fallback_activations_total",
			Help:      "Paragraphs whose spans came from the regex fallback tier",
		}),
		SpansAnonymized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spans_anonymized_total",
			Help:      "Entity spans toggled to anonymized",
		}),

		// Merge layer metrics
		ManualOverrides: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manual_overrides_total",
			Help:      "Manual overrides applied",
		}, []string{"axis"}),
		AxisReverts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "axis_reverts_total",
			Help:      "Reverts to automatic values",
		}, []string{"axis"}),

		// Coding metrics
		SchemeApplications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheme_applications_total",
			Help:      "Total coding scheme application runs",
		}),
		CodesAssigned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_assigned_total",
			Help:      "Code tags attached to paragraphs",
		}, []string{"source"}),

		// Event publish metrics
		PublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of annotation events published",
		}, []string{"topic", "event_type"}),
		PublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_publish_errors_total",
			Help:      "Total number of event publish errors",
		}, []string{"topic", "event_type"}),
		PublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "events_publish_latency_seconds",
			Help:      "Event publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// Export metrics
		SnapshotExports: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_exports_total",
			Help:      "Read-only snapshots handed to the export boundary",
		}),
	}
}

// RecordTranscriptLoaded records a new transcript entering the pipeline.
func (m *Metrics) RecordTranscriptLoaded(paragraphs int) {
	m.TranscriptsLoaded.Inc()
	m.ParagraphsSegmented.Add(float64(paragraphs))
}

// RecordClassification records one classification attempt.
func (m *Metrics) RecordClassification(task, outcome string, durationSeconds float64) {
	m.ClassificationsTotal.WithLabelValues(task, outcome).Inc()
	m.ClassificationLatency.WithLabelValues(task).Observe(durationSeconds)
}

// RecordEntity records a detected span by type.
func (m *Metrics) RecordEntity(entityType string) {
	m.EntitiesDetected.WithLabelValues(entityType).Inc()
}

// RecordPublish records one event publish attempt.
func (m *Metrics) RecordPublish(topic, eventType string, err error, durationSeconds float64) {
	m.PublishTotal.WithLabelValues(topic, eventType).Inc()
	m.PublishLatency.WithLabelValues(topic).Observe(durationSeconds)
	if err != nil {
		m.PublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordOverride records a manual override on an axis.
func (m *Metrics) RecordOverride(axis string) {
	m.ManualOverrides.WithLabelValues(axis).Inc()
}

// RecordRevert records a revert-to-automatic on an axis.
func (m *Metrics) RecordRevert(axis string) {
	m.AxisReverts.WithLabelValues(axis).Inc()
}
