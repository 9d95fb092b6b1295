package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	cacheTagFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_cache_tag_flushes_total",
			Help: "Total number of cache tag flushes by entity kind",
		},
		[]string{"kind"},
	)

	commentsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_comments_submitted_total",
			Help: "Total number of comment submissions by moderation outcome",
		},
		[]string{"state"},
	)
)

// Metrics returns a gin middleware that collects Prometheus metrics
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint itself
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// CountCacheTagFlush records one cache tag flush
func CountCacheTagFlush(kind string) {
	cacheTagFlushesTotal.WithLabelValues(kind).Inc()
}

// CountCommentSubmission records one comment submission outcome
func CountCommentSubmission(state string) {
	commentsSubmittedTotal.WithLabelValues(state).Inc()
}
