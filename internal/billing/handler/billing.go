package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/billing/service"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/shopspring/decimal"
)

// BillingHandler handles cashier endpoints
type BillingHandler struct {
	service *service.BillingService
	logger  *logger.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(svc *service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: svc,
		logger:  log,
	}
}

// BillItemRequest is one item of a bill
type BillItemRequest struct {
	ProductID    int64           `json:"product_id" validate:"required,gt=0"`
	BatchID      int64           `json:"batch_id" validate:"required,gt=0"`
	Quantity     int             `json:"quantity_sold" validate:"required,gt=0"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// CreateBillRequest is the body of a new bill
type CreateBillRequest struct {
	CustomerEmail string            `json:"customer_email" validate:"required,email"`
	PaymentMethod string            `json:"payment_method" validate:"required,max=30"`
	Items         []BillItemRequest `json:"items" validate:"required,min=1,dive"`
}

// FeedbackRequest is the body of a feedback submission
type FeedbackRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comments   *string `json:"comments"`
}

// CreateBill rings up a sale
func (h *BillingHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	in := service.NewBill{
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
		ProcessedBy:   actor.FromContext(r.Context()).ProcessedBy(),
	}
	for _, item := range req.Items {
		if item.SellingPrice.IsNegative() || item.Discount.IsNegative() {
			httputil.Error(w, errors.Validation(map[string]string{"items": "prices and discounts must not be negative"}))
			return
		}
		in.Lines = append(in.Lines, service.BillLine{
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			Price:     item.SellingPrice,
			Discount:  item.Discount,
		})
	}

	bill, err := h.service.CreateBill(r.Context(), in)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, bill)
}

// History lists past bills
func (h *BillingHandler) History(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.History(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, sales)
}

// Stock lists batch stock
func (h *BillingHandler) Stock(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.Stock(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, lines)
}

// Feedback stores customer feedback
func (h *BillingHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), req.CustomerID, req.Rating, req.Comments)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, feedback)
}
