package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	registrationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_registration_outcomes_total", Help: "Registration results by assigned status"},
		[]string{"status"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, registrationOutcomes) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// CountRegistrationOutcome 报名结果打点（PENDING / WAITLIST）
func CountRegistrationOutcome(status string) {
	registrationOutcomes.WithLabelValues(status).Inc()
}
