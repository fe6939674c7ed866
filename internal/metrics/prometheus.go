package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the career archival service

var (
	// Archival run metrics
	ArchivalRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refarchive_runs_total",
			Help: "Total number of archival runs",
		},
		[]string{"scope", "status"},
	)

	ArchivalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refarchive_run_duration_seconds",
			Help:    "Duration of archival runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"scope"},
	)

	EntriesArchivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refarchive_entries_archived_total",
			Help: "Total number of entries merged into career records",
		},
		[]string{"kind"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refarchive_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refarchive_cache_hits_total",
			Help: "Total number of career record cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refarchive_cache_misses_total",
			Help: "Total number of career record cache misses",
		},
	)

	// Migration metrics
	ImportProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_import_referees_processed",
			Help: "Referees processed by the current historical migration",
		},
	)

	CareerRecordsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_career_records_total",
			Help: "Total number of career records in database",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refarchive_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refarchive_last_successful_run_timestamp",
			Help: "Timestamp of last successful archival run",
		},
	)
)

// RecordArchival records an archival run
func RecordArchival(scope, status string, duration float64) {
	ArchivalRunsTotal.WithLabelValues(scope, status).Inc()
	ArchivalDuration.WithLabelValues(scope).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordEntriesArchived records entries merged into career records by kind
func RecordEntriesArchived(tournaments, assignments, availabilities int) {
	EntriesArchivedTotal.WithLabelValues("tournaments").Add(float64(tournaments))
	EntriesArchivedTotal.WithLabelValues("assignments").Add(float64(assignments))
	EntriesArchivedTotal.WithLabelValues("availabilities").Add(float64(availabilities))
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
