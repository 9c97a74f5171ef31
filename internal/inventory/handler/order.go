package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/internal/inventory/service"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderHandler handles supplier order endpoints
type OrderHandler struct {
	service *service.OrderService
	scanner *service.AlertScanner
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc *service.OrderService, scanner *service.AlertScanner, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		scanner: scanner,
		logger:  log,
	}
}

// OrderItemRequest is one line of a new supplier order
type OrderItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity_supplied" validate:"required,gt=0"`
	Rate      decimal.Decimal `json:"rate"`
}

// PlaceOrderRequest is the body of a new supplier order
type PlaceOrderRequest struct {
	SupplierID int64              `json:"supplier_id" validate:"required,gt=0"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest moves an order to a new status. ExpiryDates maps
// product IDs to the expiry date of the batch received on completion.
type UpdateStatusRequest struct {
	Status      string           `json:"status" validate:"required"`
	ExpiryDates map[int64]string `json:"expiry_dates"`
}

// Place places a supplier order
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	in := service.NewOrder{
		SupplierID:  req.SupplierID,
		ProcessedBy: actor.FromContext(r.Context()).ProcessedBy(),
	}
	for _, item := range req.Items {
		if item.Rate.IsNegative() {
			httputil.Error(w, errors.Validation(map[string]string{"rate": "must not be negative"}))
			return
		}
		in.Lines = append(in.Lines, service.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Rate:      item.Rate,
		})
	}

	order, err := h.service.PlaceSupplierOrder(r.Context(), in)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, order)
}

// UpdateStatus changes an order's status by invoice number
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	expiry := make(map[int64]time.Time, len(req.ExpiryDates))
	for productID, raw := range req.ExpiryDates {
		t, err := httputil.ParseDate(raw, "expiry_dates")
		if err != nil {
			httputil.Error(w, err)
			return
		}
		expiry[productID] = t
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), chi.URLParam(r, "invoice"), req.Status, expiry)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}

// Cancel cancels an open order
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}

// Current lists orders in progress
func (h *OrderHandler) Current(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Current(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// History lists completed and cancelled orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.History(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// Search lists orders by invoice, supplier name, status and order date
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.OrderFilter{
		Invoice:      q.Get("invoice"),
		SupplierName: q.Get("supplier"),
	}
	if status := q.Get("status"); status != "" {
		filter.Statuses = []string{status}
	}

	var err error
	if filter.From, err = httputil.QueryDate(r, "from"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.To, err = httputil.QueryDate(r, "to"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.To != nil {
		// inclusive of the whole last day
		end := filter.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	orders, err := h.service.Search(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// Track returns an order with its items
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Track(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, order)
}

// Items lists the line items of an order
func (h *OrderHandler) Items(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Track(r.Context(), chi.URLParam(r, "invoice"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, order.Items)
}

// BySupplier lists a supplier's orders
func (h *OrderHandler) BySupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	orders, err := h.service.ListBySupplier(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// StockAlerts runs the stock alert sweep and reports what it did
func (h *OrderHandler) StockAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := h.scanner.ProcessStockAlerts(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, report)
}
