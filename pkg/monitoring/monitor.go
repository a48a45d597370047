package monitoring

import (
	"strconv"
	"sync"
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

	// AnswersGraded 按来源（题库/快速练习）和结果统计判题次数
	AnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitlab_answers_graded_total",
			Help: "Total number of graded answer submissions",
		},
		[]string{"source", "result"},
	)

	AIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitlab_ai_requests_total",
			Help: "Total number of chat-completion requests sent to AI providers",
		},
		[]string{"provider", "status"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bitlab_ai_request_duration_seconds",
			Help:    "Duration of chat-completion requests",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AnswersGraded)
		prometheus.MustRegister(AIRequests)
		prometheus.MustRegister(AIRequestDuration)
	})
}

func ObserveGrade(source string, correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	AnswersGraded.WithLabelValues(source, result).Inc()
}

func ObserveAIRequest(provider, status string, started time.Time) {
	AIRequests.WithLabelValues(provider, status).Inc()
	AIRequestDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// MetricsMiddleware endpoint 用路由模板，未匹配的请求归到 "unmatched"，避免标签爆炸
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
