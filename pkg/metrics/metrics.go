// Package metrics exposes the Prometheus collectors of the back-office
// service. All recording methods are safe to call on a nil *Metrics so that
// services can run without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and every collector
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	payrollRecords   *prometheus.CounterVec
	leaveDecisions   *prometheus.CounterVec
	supplierOrders   *prometheus.CounterVec
	stockReorders    prometheus.Counter
	salesAmount      prometheus.Counter
	dependencyErrors *prometheus.CounterVec
}

// New creates the collectors under the given name prefix
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		payrollRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_payroll_records_total",
				Help: "Payroll rows attempted, by outcome",
			},
			[]string{"outcome"},
		),
		leaveDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_leave_decisions_total",
				Help: "Leave requests approved or rejected",
			},
			[]string{"decision"},
		),
		supplierOrders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_supplier_order_transitions_total",
				Help: "Supplier order status transitions",
			},
			[]string{"status"},
		),
		stockReorders: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_stock_reorders_total",
				Help: "Automatic reorders placed by the stock alert sweep",
			},
		),
		salesAmount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sales_amount_total",
				Help: "Sum of billed sales amounts",
			},
		),
		dependencyErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_dependency_errors_total",
				Help: "Failures of external collaborators such as mail",
			},
			[]string{"dependency"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.payrollRecords,
		m.leaveDecisions,
		m.supplierOrders,
		m.stockReorders,
		m.salesAmount,
		m.dependencyErrors,
	)

	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count and latency labelled by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := strconv.Itoa(code)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

// RecordPayroll counts one payroll row attempt ("created" or "failed")
func (m *Metrics) RecordPayroll(outcome string) {
	if m == nil {
		return
	}
	m.payrollRecords.WithLabelValues(outcome).Inc()
}

// RecordLeaveDecision counts an approval or rejection
func (m *Metrics) RecordLeaveDecision(decision string) {
	if m == nil {
		return
	}
	m.leaveDecisions.WithLabelValues(decision).Inc()
}

// RecordOrderStatus counts a supplier order entering status
func (m *Metrics) RecordOrderStatus(status string) {
	if m == nil {
		return
	}
	m.supplierOrders.WithLabelValues(status).Inc()
}

// RecordReorder counts one automatic reorder
func (m *Metrics) RecordReorder() {
	if m == nil {
		return
	}
	m.stockReorders.Inc()
}

// RecordSale adds a billed amount
func (m *Metrics) RecordSale(amount float64) {
	if m == nil {
		return
	}
	m.salesAmount.Add(amount)
}

// RecordDependencyError counts a failed external call
func (m *Metrics) RecordDependencyError(dependency string) {
	if m == nil {
		return
	}
	m.dependencyErrors.WithLabelValues(dependency).Inc()
}
