package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/hr/payroll/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hr/payroll/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/hr/payroll/{employeeId}", "404"))
	assert.Equal(t, float64(2), got)
}

func TestDomainCounters(t *testing.T) {
	m := New("test")

	m.RecordPayroll("created")
	m.RecordPayroll("created")
	m.RecordPayroll("failed")
	m.RecordReorder()
	m.RecordSale(12.5)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.payrollRecords.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.payrollRecords.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stockReorders))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.salesAmount))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordPayroll("created")
		m.RecordLeaveDecision("approved")
		m.RecordOrderStatus("Completed")
		m.RecordReorder()
		m.RecordSale(1)
		m.RecordDependencyError("mail")
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.Middleware(next))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New("shop")
	m.RecordReorder()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "shop_stock_reorders_total 1"))
}
