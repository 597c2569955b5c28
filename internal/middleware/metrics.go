package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpRequestSize     *prometheus.HistogramVec
	HttpResponseSize    *prometheus.HistogramVec

	// Warehouse statement metrics
	StatementTotal    *prometheus.CounterVec
	StatementDuration *prometheus.HistogramVec
	StatementRowsRead *prometheus.CounterVec
	StatementErrors   *prometheus.CounterVec

	// Schema save metrics
	SchemaSavesTotal *prometheus.CounterVec
	SchemaFieldCount *prometheus.HistogramVec
}

var (
	metrics *PrometheusMetrics
)

// InitMetrics initializes all Prometheus metrics
func InitMetrics() {
	metrics = &PrometheusMetrics{
		// HTTP request metrics
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tce_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tce_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HttpRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tce_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),
		HttpResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tce_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		// Warehouse statement metrics
		StatementTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tce_warehouse_statements_total",
				Help: "Total number of warehouse statements executed",
			},
			[]string{"backend", "status"},
		),
		StatementDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tce_warehouse_statement_duration_seconds",
				Help:    "Warehouse statement execution time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		StatementRowsRead: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tce_warehouse_rows_read_total",
				Help: "Total number of rows read from the warehouse",
			},
			[]string{"backend"},
		),
		StatementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tce_warehouse_statement_errors_total",
				Help: "Total number of warehouse statement errors",
			},
			[]string{"backend", "error_type"},
		),

		// Schema save metrics
		SchemaSavesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tce_schema_saves_total",
				Help: "Total number of schema save operations",
			},
			[]string{"status"},
		),
		SchemaFieldCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tce_schema_field_count",
				Help:    "Number of fields in saved schema documents",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
			[]string{},
		),
	}
}

// GetMetrics returns the initialized metrics
func GetMetrics() *PrometheusMetrics {
	return metrics
}

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		// Start timer
		start := time.Now()

		// Process request
		c.Next()

		// Calculate metrics
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()

		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		// Record metrics
		metrics.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		// Record request size if available
		if c.Request.ContentLength > 0 {
			metrics.HttpRequestSize.WithLabelValues(method, endpoint).Observe(float64(c.Request.ContentLength))
		}

		// Record response size if available
		if c.Writer.Size() > 0 {
			metrics.HttpResponseSize.WithLabelValues(method, endpoint).Observe(float64(c.Writer.Size()))
		}
	}
}

// RecordStatementMetrics records warehouse statement execution metrics
func RecordStatementMetrics(backend, status string, duration time.Duration, rowsRead int64) {
	if metrics == nil {
		return
	}

	metrics.StatementTotal.WithLabelValues(backend, status).Inc()
	metrics.StatementDuration.WithLabelValues(backend).Observe(duration.Seconds())

	if status == "success" && rowsRead > 0 {
		metrics.StatementRowsRead.WithLabelValues(backend).Add(float64(rowsRead))
	}
}

// RecordStatementError records a warehouse statement error
func RecordStatementError(backend, errorType string) {
	if metrics == nil {
		return
	}

	metrics.StatementErrors.WithLabelValues(backend, errorType).Inc()
}

// RecordSchemaSave records a schema save operation
func RecordSchemaSave(status string, fieldCount int) {
	if metrics == nil {
		return
	}

	metrics.SchemaSavesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		metrics.SchemaFieldCount.WithLabelValues().Observe(float64(fieldCount))
	}
}
