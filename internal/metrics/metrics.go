package metrics

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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"method", "endpoint"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Exam submissions by outcome",
		},
		[]string{"outcome"},
	)

	GradedQuestions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_graded_questions",
			Help:    "Number of sub-questions graded per submission",
			Buckets: prometheus.LinearBuckets(0, 20, 8),
		},
	)

	IngestedQuestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_ingest_items_total",
			Help: "Extracted question items by outcome",
		},
		[]string{"outcome"},
	)
)

// Init registers the collectors with the default registry. Call once at startup.
func Init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, SubmissionsTotal, GradedQuestions, IngestedQuestions)
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
