package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Cache Metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "hit"},
	)

	// Session Metrics
	SessionTerminationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_terminations_total",
			Help: "Total number of session terminations",
		},
		[]string{"result"}, // success, not_found, error
	)

	// Audit Metrics
	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events appended",
		},
		[]string{"action"},
	)

	AuditAdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_admin_actions_total",
			Help: "Total number of administrative actions on audit events",
		},
		[]string{"action", "result"},
	)

	// Threat Metrics
	ThreatTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threat_transitions_total",
			Help: "Total number of threat status transitions",
		},
		[]string{"to", "result"},
	)

	AlertsEscalatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_escalated_total",
			Help: "Total number of alerts escalated to the paging sink",
		},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "type"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackCacheOperation records a cache hit or miss
func TrackCacheOperation(cache string, hit bool) {
	if hit {
		CacheOperationsTotal.WithLabelValues(cache, "true").Inc()
		return
	}
	CacheOperationsTotal.WithLabelValues(cache, "false").Inc()
}

// TrackError increments the error counter for a component
func TrackError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// TrackSessionTermination records the outcome of a terminate call
func TrackSessionTermination(result string) {
	SessionTerminationsTotal.WithLabelValues(result).Inc()
}

// TrackAuditEvent counts an appended event by action
func TrackAuditEvent(action string) {
	AuditEventsTotal.WithLabelValues(action).Inc()
}

// TrackThreatTransition records a threat status transition attempt
func TrackThreatTransition(to, result string) {
	ThreatTransitionsTotal.WithLabelValues(to, result).Inc()
}
