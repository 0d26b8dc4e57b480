// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the interview assistant.
type Metrics struct {
	// Recording session metrics
	RecordingsStarted prometheus.Counter
	RecordingsSaved   prometheus.Counter
	RecordingsEmpty   prometheus.Counter
	ActiveRecordings  prometheus.Gauge
	RecordedSeconds   prometheus.Histogram
	CaptureErrors     prometheus.Counter

	// Transcription metrics
	TranscriptionDuration prometheus.Histogram
	TranscriptionFailures prometheus.Counter

	// Archive / retention metrics
	ArchiveUploads   prometheus.Counter
	ArchiveFailures  prometheus.Counter
	RecordingsPurged prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RecordingsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_recordings_started_total",
			Help: "Total number of capture sessions started",
		}),
		RecordingsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_recordings_saved_total",
			Help: "Total number of recordings persisted as WAV",
		}),
		RecordingsEmpty: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_recordings_empty_total",
			Help: "Total number of stop requests with no audio captured",
		}),
		ActiveRecordings: f.NewGauge(prometheus.GaugeOpts{
			Name: "interview_active_recordings",
			Help: "Current number of users recording",
		}),
		RecordedSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_recording_duration_seconds",
			Help:    "Length of persisted recordings",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		CaptureErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_capture_errors_total",
			Help: "Total number of capture loops ended by a device error",
		}),

		TranscriptionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_transcription_duration_seconds",
			Help:    "Time spent waiting for the transcription model",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		TranscriptionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),

		ArchiveUploads: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_archive_uploads_total",
			Help: "Total number of recordings uploaded to object storage",
		}),
		ArchiveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_archive_failures_total",
			Help: "Total number of failed object storage uploads",
		}),
		RecordingsPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_recordings_purged_total",
			Help: "Total number of local recordings removed by retention",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}
