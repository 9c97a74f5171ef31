package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/retailhub/backoffice/internal/admin/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func newAdminHandler(t *testing.T) (*AdminHandler, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	h := NewAdminHandler(repository.NewOverviewRepository(mockDB.Wrapped), mockDB.Wrapped, nil, logger.Nop())
	h.now = func() time.Time { return time.Date(2024, time.June, 10, 15, 45, 0, 0, time.UTC) }
	return h, mockDB
}

func TestAdminHandler_Dashboard(t *testing.T) {
	h, mockDB := newAdminHandler(t)

	mockDB.ExpectQuery(`(SELECT COUNT(*) FROM employees) AS employees`).
		WithArgs(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(testutil.MockRows(
			"employees", "departments", "products", "suppliers", "open_orders", "sales_today", "low_stock_alerts",
		).AddRow(42, 5, 310, 18, 3, "1520.50", 7))

	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Dashboard), testutil.NewHTTPRequest(http.MethodGet, "/api/admin/dashboard", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body struct {
		Data repository.Overview `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &body)
	assert.Equal(t, int64(42), body.Data.Employees)
	assert.Equal(t, int64(3), body.Data.OpenOrders)
	assert.Equal(t, "1520.5", body.Data.SalesToday.String())
	assert.Equal(t, int64(7), body.Data.LowStockAlerts)
	mockDB.ExpectationsWereMet(t)
}

func TestAdminHandler_HealthWithoutBroker(t *testing.T) {
	h, _ := newAdminHandler(t)

	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Health), testutil.NewHTTPRequest(http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body struct {
		Data map[string]map[string]string `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &body)
	assert.Equal(t, "up", body.Data["database"]["status"])
	assert.NotContains(t, body.Data, "rabbitmq")
}
