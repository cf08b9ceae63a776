package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	VotesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rating_votes_processed_total",
			Help: "Pairwise difficulty votes folded into problem ratings",
		},
	)

	AttemptsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_attempts_total",
			Help: "Solve attempts recorded, by outcome",
		},
		[]string{"outcome"},
	)

	VoteBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rating_vote_batch_duration_seconds",
			Help:    "Duration of a vote batch processing run",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(VotesProcessed)
	prometheus.MustRegister(AttemptsRecorded)
	prometheus.MustRegister(VoteBatchDuration)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
