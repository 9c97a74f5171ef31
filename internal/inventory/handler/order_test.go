package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/internal/inventory/service"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

var placedAt = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func newOrderRouter(t *testing.T) (http.Handler, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	orderRepo := repository.NewOrderRepository(mockDB.Wrapped)
	batchRepo := repository.NewBatchRepository(mockDB.Wrapped)
	orders := service.NewOrderService(mockDB.Wrapped, orderRepo, batchRepo, nil, nil, logger.Nop())
	h := NewOrderHandler(orders, nil, logger.Nop())

	r := chi.NewRouter()
	r.Post("/supplier-orders", h.Place)
	r.Get("/supplier-orders/search", h.Search)
	r.Get("/supplier-orders/{invoice}", h.Track)
	r.Put("/supplier-orders/{invoice}/status", h.UpdateStatus)
	return r, mockDB
}

type errorResponse struct {
	Success bool               `json:"success"`
	Error   httputil.ErrorBody `json:"error"`
}

func TestOrderHandler_Place(t *testing.T) {
	t.Run("rejects an order without items", func(t *testing.T) {
		router, mockDB := newOrderRouter(t)

		req := testutil.NewHTTPRequest(http.MethodPost, "/supplier-orders", PlaceOrderRequest{SupplierID: 4})
		rr := testutil.ExecuteRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		var body errorResponse
		testutil.ParseJSONBody(t, rr, &body)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("rejects a negative rate", func(t *testing.T) {
		router, mockDB := newOrderRouter(t)

		req := testutil.NewHTTPRequest(http.MethodPost, "/supplier-orders", map[string]interface{}{
			"supplier_id": 4,
			"items":       []map[string]interface{}{{"product_id": 7, "quantity_supplied": 2, "rate": "-1"}},
		})
		rr := testutil.ExecuteRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertBodyContains(t, rr, "must not be negative")
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("stamps the acting employee on the order", func(t *testing.T) {
		router, mockDB := newOrderRouter(t)

		mockDB.ExpectBegin()
		mockDB.ExpectQuery(`INSERT INTO supplier_orders`).
			WithArgs(int64(4), "25", "Pending", int64(12)).
			WillReturnRows(testutil.MockRows("order_id", "order_date", "updated_at").AddRow(31, placedAt, placedAt))
		mockDB.ExpectExec(`UPDATE supplier_orders SET invoice_number = $2 WHERE order_id = $1`).
			WithArgs(int64(31), "SO-20240610-31").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectQuery(`INSERT INTO supplier_order_items`).
			WithArgs(int64(31), int64(7), int64(2), "12.5").
			WillReturnRows(testutil.MockRows("item_id").AddRow(101))
		mockDB.ExpectCommit()

		req := testutil.NewHTTPRequest(http.MethodPost, "/supplier-orders", map[string]interface{}{
			"supplier_id": 4,
			"items":       []map[string]interface{}{{"product_id": 7, "quantity_supplied": 2, "rate": "12.5"}},
		})
		req = req.WithContext(actor.WithActor(req.Context(), &actor.Actor{EmployeeID: 12, Name: "Asha", Role: "manager"}))
		rr := testutil.ExecuteRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertBodyContains(t, rr, "SO-20240610-31")
		mockDB.ExpectationsWereMet(t)
	})
}

func TestOrderHandler_UpdateStatusRejectsBadExpiryDate(t *testing.T) {
	router, mockDB := newOrderRouter(t)

	req := testutil.NewHTTPRequest(http.MethodPut, "/supplier-orders/SO-20240610-31/status", map[string]interface{}{
		"status":       "Completed",
		"expiry_dates": map[string]string{"7": "10/06/2025"},
	})
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertBodyContains(t, rr, "expiry_dates")
	mockDB.ExpectationsWereMet(t)
}

func TestOrderHandler_TrackUnknownInvoice(t *testing.T) {
	router, mockDB := newOrderRouter(t)

	mockDB.ExpectQuery(`WHERE o.invoice_number = $1`).
		WithArgs("SO-20240610-99").
		WillReturnRows(testutil.MockRows("order_id"))

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodGet, "/supplier-orders/SO-20240610-99", nil))

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	mockDB.ExpectationsWereMet(t)
}

func TestOrderHandler_SearchMakesEndDateInclusive(t *testing.T) {
	router, mockDB := newOrderRouter(t)

	endOfDay := time.Date(2024, time.June, 10, 23, 59, 59, 999999999, time.UTC)
	mockDB.ExpectQuery(`WHERE o.status = ANY($1) AND o.order_date <= $2 ORDER BY`).
		WithArgs(`{"Pending"}`, endOfDay).
		WillReturnRows(testutil.MockRows("order_id"))

	rr := testutil.ExecuteRequest(router,
		testutil.NewHTTPRequest(http.MethodGet, "/supplier-orders/search?status=Pending&to=2024-06-10", nil))

	testutil.AssertStatus(t, rr, http.StatusOK)
	mockDB.ExpectationsWereMet(t)
}
