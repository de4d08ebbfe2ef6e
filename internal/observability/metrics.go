package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelationshipToggles counts toggle transitions by relationship kind
	// (like, follow, comment_like) and the state the pair ended up in.
	RelationshipToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aperture_relationship_toggles_total",
		Help: "Total relationship toggle transitions by kind and resulting state",
	}, []string{"kind", "state"})

	// CacheRequests counts cache lookups by key prefix and result (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aperture_cache_requests_total",
		Help: "Total cache lookups by key prefix and result",
	}, []string{"prefix", "result"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aperture_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aperture_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// NotificationsCreated counts notification records by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aperture_notifications_created_total",
		Help: "Total notification records created by type",
	}, []string{"type"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// QueryOperation extracts the leading SQL keyword for use as a metric label.
func QueryOperation(sql string) string {
	fields := strings.Fields(strings.TrimSpace(sql))
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
