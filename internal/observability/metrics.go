// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymbuddy_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gymbuddy_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SessionFeedLatency records session feed query latency.
	SessionFeedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gymbuddy_session_feed_latency_seconds",
		Help:    "Session feed query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// SessionJoins counts session join attempts by outcome.
	SessionJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymbuddy_session_joins_total",
		Help: "Total number of session join attempts by outcome",
	}, []string{"outcome"})

	// SessionCheckIns counts successful session check-ins.
	SessionCheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gymbuddy_session_checkins_total",
		Help: "Total number of session check-ins",
	})

	// PushDeliveries counts push notification deliveries by outcome.
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymbuddy_push_deliveries_total",
		Help: "Total number of push notification deliveries by outcome",
	}, []string{"outcome"})

	// PushTokensDeactivated counts tokens deactivated after provider rejection.
	PushTokensDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gymbuddy_push_tokens_deactivated_total",
		Help: "Total number of push tokens deactivated after provider rejection",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
