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

	AttemptsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_attempts_started_total",
			Help: "Attempts created",
		},
	)

	AttemptStartRefusals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_attempt_start_refusals_total",
			Help: "Start requests refused, by reason",
		},
		[]string{"reason"},
	)

	AttemptsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_attempts_finalized_total",
			Help: "Attempts closed, by trigger and verdict",
		},
		[]string{"trigger", "outcome"},
	)

	AttemptScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_attempt_score",
			Help:    "Score of finalized attempts",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	TrainingResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_training_resets_total",
			Help: "Training progress resets caused by failed attempts",
		},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_attempt_sweep_duration_seconds",
			Help:    "Duration of the expired attempt sweep",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AttemptsStarted)
	prometheus.MustRegister(AttemptStartRefusals)
	prometheus.MustRegister(AttemptsFinalized)
	prometheus.MustRegister(AttemptScores)
	prometheus.MustRegister(TrainingResets)
	prometheus.MustRegister(SweepDuration)
}

// ObserveFinalized records one closed attempt.
func ObserveFinalized(auto, passed bool, score float64) {
	trigger := "submit"
	if auto {
		trigger = "expiry"
	}
	outcome := "fail"
	if passed {
		outcome = "pass"
	}
	AttemptsFinalized.WithLabelValues(trigger, outcome).Inc()
	AttemptScores.Observe(score)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
