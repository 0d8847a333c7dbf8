package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framepick_jobs_processed_total",
		Help: "Total number of extraction jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "framepick_job_processing_duration_seconds",
		Help:    "Duration of the key-frame extraction pipeline",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	KeyFramesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framepick_key_frames_extracted_total",
		Help: "Total number of key frames selected across all jobs",
	})

	TierSelectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framepick_tier_selected_total",
		Help: "Total number of extractions per duration tier",
	}, []string{"tier"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "framepick_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framepick_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
