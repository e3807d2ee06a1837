package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides Prometheus metrics.
var Module = fx.Module("telemetry",
	fx.Provide(NewMetrics),
)

// Metrics exposes Prometheus observability primitives for the dashboard API.
type Metrics struct {
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	invoicesCreated *prometheus.CounterVec
	invoiceAmount   *prometheus.HistogramVec
	statusChanges   *prometheus.CounterVec
	reportDuration  prometheus.Histogram
}

// NewMetrics registers and returns Prometheus metrics.
func NewMetrics() *Metrics {
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hisab_api_requests_total",
		Help: "Counts API requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hisab_api_duration_seconds",
		Help:    "API request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	invoicesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hisab_invoices_created_total",
		Help: "Invoices created by type.",
	}, []string{"type"})

	invoiceAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hisab_invoice_amount",
		Help:    "Invoice grand totals by type.",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	}, []string{"type"})

	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hisab_invoice_status_changes_total",
		Help: "Invoice status transitions by target status.",
	}, []string{"status"})

	reportDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hisab_report_duration_seconds",
		Help:    "Report aggregation latency.",
		Buckets: prometheus.DefBuckets,
	})

	prometheus.MustRegister(
		apiRequests,
		apiDuration,
		invoicesCreated,
		invoiceAmount,
		statusChanges,
		reportDuration,
	)

	return &Metrics{
		apiRequests:     apiRequests,
		apiDuration:     apiDuration,
		invoicesCreated: invoicesCreated,
		invoiceAmount:   invoiceAmount,
		statusChanges:   statusChanges,
		reportDuration:  reportDuration,
	}
}

func (m *Metrics) ObserveInvoiceCreated(invoiceType string, total float64) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(invoiceType).Inc()
	m.invoiceAmount.WithLabelValues(invoiceType).Observe(total)
}

func (m *Metrics) ObserveStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveReportDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.Observe(d.Seconds())
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.apiRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.apiDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
