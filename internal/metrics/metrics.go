package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obscond_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"route", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obscond_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	pointingsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obscond_recalc_pointings_total",
			Help: "Pointings handled by recalculation runs, by outcome.",
		},
		[]string{"outcome"},
	)

	partitionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "obscond_recalc_partition_duration_seconds",
			Help:    "Time to recalculate one partition.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	transmissionCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obscond_transmission_cache_total",
			Help: "Atmospheric transmission cache lookups, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(pointingsProcessed)
	prometheus.MustRegister(partitionDurationSeconds)
	prometheus.MustRegister(transmissionCache)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one served request. route is the matched route
// template; unmatched requests are collapsed into "other".
func ObserveRequest(route, method, code string, d time.Duration) {
	if route == "" {
		route = "other"
	}
	httpRequestsTotal.WithLabelValues(route, method, code).Inc()
	httpDurationSeconds.WithLabelValues(route, method).Observe(d.Seconds())
}

func PointingsComputed(n int) {
	pointingsProcessed.WithLabelValues("computed").Add(float64(n))
}

func PointingsSkipped(n int) {
	pointingsProcessed.WithLabelValues("skipped").Add(float64(n))
}

func ObservePartition(d time.Duration) {
	partitionDurationSeconds.Observe(d.Seconds())
}

func TransmissionCacheHit() {
	transmissionCache.WithLabelValues("hit").Inc()
}

func TransmissionCacheMiss() {
	transmissionCache.WithLabelValues("miss").Inc()
}
