// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Catalog metrics
	CurvesFetched    prometheus.Counter
	CatalogErrors    *prometheus.CounterVec
	CatalogLatency   *prometheus.HistogramVec

	// Pipeline metrics
	StarsAnalyzed     *prometheus.CounterVec
	SamplesRejected   *prometheus.CounterVec
	PeriodsEvaluated  prometheus.Counter
	CandidatesRanked  prometheus.Counter
	SearchDuration    prometheus.Histogram
	CleaningDuration  prometheus.Histogram

	// Persistence metrics
	ResultsPersisted   prometheus.Counter
	FluxPointsArchived prometheus.Counter
	ArtifactsUploaded  *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "transit_search_lab"
	}

	return &Metrics{
		// Catalog metrics
		CurvesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "curves_fetched_total",
			Help:      "Total number of raw light curves fetched from the archive",
		}),
		CatalogErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "errors_total",
			Help:      "Total number of catalog fetch errors by type",
		}, []string{"error_type"}),
		CatalogLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "request_latency_seconds",
			Help:      "Archive request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		// Pipeline metrics
		StarsAnalyzed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stars_analyzed_total",
			Help:      "Total number of stars analyzed by outcome status",
		}, []string{"status"}),
		SamplesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cleaning",
			Name:      "samples_rejected_total",
			Help:      "Total number of samples dropped during cleaning by stage",
		}, []string{"stage"}),
		PeriodsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "periods_evaluated_total",
			Help:      "Total number of candidate periods scored",
		}),
		CandidatesRanked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "candidates_ranked_total",
			Help:      "Total number of transit candidates ranked",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Periodogram search duration per star in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		CleaningDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cleaning",
			Name:      "duration_seconds",
			Help:      "Cleaning duration per star in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Persistence metrics
		ResultsPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "results_persisted_total",
			Help:      "Total number of analysis results written to PostgreSQL",
		}),
		FluxPointsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "flux_points_archived_total",
			Help:      "Total number of cleaned flux samples written to ClickHouse",
		}),
		ArtifactsUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "artifacts_uploaded_total",
			Help:      "Total number of artifacts uploaded by kind",
		}, []string{"kind"}),
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last fully successful batch run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCurveFetched increments the fetched curves counter.
func RecordCurveFetched() {
	DefaultMetrics.CurvesFetched.Inc()
}

// RecordCatalogError records a catalog fetch error.
func RecordCatalogError(errorType string) {
	DefaultMetrics.CatalogErrors.WithLabelValues(errorType).Inc()
}

// RecordStarAnalyzed records one analyzed star by outcome status.
func RecordStarAnalyzed(status string) {
	DefaultMetrics.StarsAnalyzed.WithLabelValues(status).Inc()
}

// RecordSamplesRejected adds to the rejected samples counter for one stage.
func RecordSamplesRejected(stage string, n int) {
	if n > 0 {
		DefaultMetrics.SamplesRejected.WithLabelValues(stage).Add(float64(n))
	}
}

// RecordPeriodsEvaluated adds to the evaluated periods counter.
func RecordPeriodsEvaluated(n int) {
	DefaultMetrics.PeriodsEvaluated.Add(float64(n))
}

// RecordCandidatesRanked adds to the ranked candidates counter.
func RecordCandidatesRanked(n int) {
	DefaultMetrics.CandidatesRanked.Add(float64(n))
}

// RecordSearchDuration records one periodogram search duration.
func RecordSearchDuration(seconds float64) {
	DefaultMetrics.SearchDuration.Observe(seconds)
}

// RecordArtifactUploaded increments the uploaded artifacts counter.
func RecordArtifactUploaded(kind string) {
	DefaultMetrics.ArtifactsUploaded.WithLabelValues(kind).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
