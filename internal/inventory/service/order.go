package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/internal/inventory/events"
	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/metrics"
	"github.com/shopspring/decimal"
)

// OrderLine is one product requested in a new supplier order
type OrderLine struct {
	ProductID int64
	Quantity  int
	Rate      decimal.Decimal
}

// NewOrder describes a supplier order being placed
type NewOrder struct {
	SupplierID  int64
	Lines       []OrderLine
	ProcessedBy *int64
}

// OrderDetail is an order together with its line items
type OrderDetail struct {
	*repository.SupplierOrder
	Items []*repository.OrderItem `json:"items"`
}

var orderStatuses = map[string]bool{
	repository.OrderPending:    true,
	repository.OrderProcessing: true,
	repository.OrderPartial:    true,
	repository.OrderWaiting:    true,
	repository.OrderCompleted:  true,
	repository.OrderCancelled:  true,
}

// InvoiceNumber formats the invoice of a supplier order placed on date
func InvoiceNumber(orderID int64, date time.Time) string {
	return fmt.Sprintf("SO-%s-%d", date.Format("20060102"), orderID)
}

// OrderService handles the supplier order workflow
type OrderService struct {
	db        *database.DB
	orderRepo *repository.OrderRepository
	batchRepo *repository.BatchRepository
	publisher *events.InventoryEventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	db *database.DB,
	orderRepo *repository.OrderRepository,
	batchRepo *repository.BatchRepository,
	publisher *events.InventoryEventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		batchRepo: batchRepo,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// PlaceSupplierOrder creates a Pending order with one item per line. The
// total is computed here from the lines. The order, its invoice number and
// every item are written in one transaction.
func (s *OrderService) PlaceSupplierOrder(ctx context.Context, in NewOrder) (*OrderDetail, error) {
	if len(in.Lines) == 0 {
		return nil, errors.Validation(map[string]string{"items": "at least one item is required"})
	}

	detail, err := s.place(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Int64("supplier_id", in.SupplierID).Msg("failed to place supplier order")
		return nil, err
	}

	s.metrics.RecordOrderStatus(repository.OrderPending)
	s.publisher.PublishOrderPlaced(ctx, detail.SupplierOrder, false)

	s.logger.Info().
		Int64("order_id", detail.ID).
		Str("invoice_number", *detail.InvoiceNumber).
		Int("items", len(detail.Items)).
		Str("total_cost", detail.TotalCost.StringFixed(2)).
		Msg("supplier order placed")

	return detail, nil
}

func (s *OrderService) place(ctx context.Context, in NewOrder) (*OrderDetail, error) {
	total := decimal.Zero
	for _, line := range in.Lines {
		total = total.Add(line.Rate.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &repository.SupplierOrder{
		SupplierID:  in.SupplierID,
		TotalCost:   total,
		Status:      repository.OrderPending,
		ProcessedBy: in.ProcessedBy,
	}
	items := make([]*repository.OrderItem, 0, len(in.Lines))

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.orderRepo.Insert(ctx, tx, order); err != nil {
			return err
		}

		invoice := InvoiceNumber(order.ID, order.OrderDate)
		if err := s.orderRepo.SetInvoice(ctx, tx, order.ID, invoice); err != nil {
			return err
		}
		order.InvoiceNumber = &invoice

		for _, line := range in.Lines {
			rate := line.Rate
			item := &repository.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitCost:  &rate,
			}
			if err := s.orderRepo.InsertItem(ctx, tx, item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &OrderDetail{SupplierOrder: order, Items: items}, nil
}

// UpdateOrderStatus moves an open order to status. Completing an order
// appends one inventory batch per line item, with the expiry date supplied
// for that product if any. Batches and the status change share one
// transaction. Completed and Cancelled orders cannot change again.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, invoice, status string, expiryDates map[int64]time.Time) (*repository.SupplierOrder, error) {
	if !orderStatuses[status] {
		return nil, errors.Validation(map[string]string{"status": "unknown order status"})
	}

	var order *repository.SupplierOrder
	batches := 0

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		order, err = s.orderRepo.GetByInvoiceForUpdate(ctx, tx, invoice)
		if err != nil {
			return err
		}
		if isClosed(order.Status) {
			return errors.Conflict(fmt.Sprintf("order %s is already %s", invoice, order.Status))
		}

		if status == repository.OrderCompleted {
			items, err := s.orderRepo.Items(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				batch := &repository.Batch{
					ProductID:    item.ProductID,
					OrderID:      &order.ID,
					Quantity:     item.Quantity,
					CostPerUnit:  item.UnitCost,
					PurchaseRate: item.UnitCost,
				}
				if expiry, ok := expiryDates[item.ProductID]; ok {
					batch.ExpiryDate = &expiry
				}
				if err := s.batchRepo.Insert(ctx, tx, batch); err != nil {
					return err
				}
				batches++
			}
		}

		return s.orderRepo.UpdateStatus(ctx, tx, order.ID, status)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_number", invoice).Str("status", status).Msg("failed to update supplier order status")
		return nil, err
	}

	order.Status = status
	s.metrics.RecordOrderStatus(status)
	s.publisher.PublishOrderStatusChanged(ctx, order, batches)

	s.logger.Info().
		Str("invoice_number", invoice).
		Str("status", status).
		Int("batches_created", batches).
		Msg("supplier order status updated")

	return order, nil
}

// CancelOrder cancels an open order
func (s *OrderService) CancelOrder(ctx context.Context, invoice string) (*repository.SupplierOrder, error) {
	order, err := s.orderRepo.Cancel(ctx, invoice)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderStatus(repository.OrderCancelled)
	s.publisher.PublishOrderStatusChanged(ctx, order, 0)

	s.logger.Info().Str("invoice_number", invoice).Msg("supplier order cancelled")
	return order, nil
}

// Current lists orders still in progress
func (s *OrderService) Current(ctx context.Context) ([]*repository.SupplierOrder, error) {
	return s.orderRepo.List(ctx, repository.OrderFilter{Statuses: repository.OpenStatuses})
}

// History lists Completed and Cancelled orders
func (s *OrderService) History(ctx context.Context) ([]*repository.SupplierOrder, error) {
	return s.orderRepo.List(ctx, repository.OrderFilter{Statuses: repository.ClosedStatuses})
}

// Search lists orders matching filter
func (s *OrderService) Search(ctx context.Context, filter repository.OrderFilter) ([]*repository.SupplierOrder, error) {
	for _, status := range filter.Statuses {
		if !orderStatuses[status] {
			return nil, errors.Validation(map[string]string{"status": "unknown order status"})
		}
	}
	return s.orderRepo.List(ctx, filter)
}

// ListBySupplier lists a supplier's orders
func (s *OrderService) ListBySupplier(ctx context.Context, supplierID int64) ([]*repository.SupplierOrder, error) {
	return s.orderRepo.List(ctx, repository.OrderFilter{SupplierID: &supplierID})
}

// Track returns an order with its items
func (s *OrderService) Track(ctx context.Context, invoice string) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.Items(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{SupplierOrder: order, Items: items}, nil
}

func isClosed(status string) bool {
	return status == repository.OrderCompleted || status == repository.OrderCancelled
}
