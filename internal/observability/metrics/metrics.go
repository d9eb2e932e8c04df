package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hesabyar_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hesabyar_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	stockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hesabyar_stock_rejections_total",
		Help: "Count of invoice operations rejected for insufficient stock",
	})

	dividendAllocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hesabyar_dividend_allocations_total",
		Help: "Count of dividend allocation runs by profit source",
	}, []string{"source"})

	documentSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hesabyar_document_save_failures_total",
		Help: "Count of whole-document saves that failed after the in-memory state changed",
	})
)

// GinMiddleware records a request counter and duration for every route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveStockRejection counts one oversell attempt.
func ObserveStockRejection() {
	stockRejections.Inc()
}

// ObserveAllocation counts one dividend allocation run.
// source is "computed" or "overridden".
func ObserveAllocation(source string) {
	dividendAllocations.WithLabelValues(source).Inc()
}

// ObserveSaveFailure counts one failed whole-document save.
func ObserveSaveFailure() {
	documentSaveFailures.Inc()
}
