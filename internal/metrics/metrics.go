package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	ReadingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_readings_created_total",
			Help: "Readings created by metric and classified status",
		},
		[]string{"metric", "status"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_notifications_created_total",
			Help: "Breach notifications created by metric",
		},
		[]string{"metric"},
	)

	NotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kpi_notifications_failed_total",
			Help: "Breach notifications that could not be stored",
		},
	)

	SnapshotsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_snapshots_generated_total",
			Help: "KPI snapshots persisted by metric",
		},
		[]string{"metric"},
	)

	ReportExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_report_exports_total",
			Help: "Report exports by format and result",
		},
		[]string{"format", "result"},
	)

	ReportExportLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kpi_report_export_latency_seconds",
			Help:    "Report rendering latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	SearchIndexFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kpi_search_index_failures_total",
			Help: "Search index operations that failed",
		},
		[]string{"op"},
	)

	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kpi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)
)

// GinMiddleware records request latency labelled by the matched route pattern
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestLatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveExport records one report render
func ObserveExport(format string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	ReportExports.WithLabelValues(format, result).Inc()
	ReportExportLatency.WithLabelValues(format).Observe(time.Since(start).Seconds())
}
