package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the export pipeline

var (
	// Fetch metrics
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflverse_fetches_total",
			Help: "Total number of dataset fetches from nflverse",
		},
		[]string{"dataset", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nflverse_fetch_duration_seconds",
			Help:    "Duration of dataset fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	// Persistence metrics
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflverse_rows_written_total",
			Help: "Total number of rows written per dataset table",
		},
		[]string{"table"},
	)

	DatasetsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflverse_datasets_skipped_total",
			Help: "Total number of datasets skipped",
		},
		[]string{"dataset", "reason"},
	)

	SeasonsExported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nflverse_seasons_exported_total",
			Help: "Total number of seasons exported",
		},
	)

	// Dashboard run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflverse_exporter_runs_total",
			Help: "Total number of exporter runs triggered from the dashboard",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nflverse_exporter_run_duration_seconds",
			Help:    "Duration of exporter runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
)

// RecordFetch records a dataset fetch
func RecordFetch(dataset, status string, duration float64) {
	FetchesTotal.WithLabelValues(dataset, status).Inc()
	FetchDuration.WithLabelValues(dataset).Observe(duration)
}

// RecordRowsWritten records rows persisted into a dataset table
func RecordRowsWritten(table string, rows int) {
	RowsWritten.WithLabelValues(table).Add(float64(rows))
}

// RecordSkip records a skipped dataset (fetch failure or empty result)
func RecordSkip(dataset, reason string) {
	DatasetsSkipped.WithLabelValues(dataset, reason).Inc()
}

// RecordRun records a dashboard-triggered exporter run
func RecordRun(status string, duration float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration)
}
