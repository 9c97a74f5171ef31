package service

import (
	"context"
	"fmt"
	"time"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/metrics"
)

// reorderWindow is how long a placed order suppresses another automatic
// reorder of the same product from the same supplier
const reorderWindow = 24 * time.Hour

// Reorder records one automatic order placed by a sweep
type Reorder struct {
	ProductID     int64  `json:"product_id"`
	OrderID       int64  `json:"order_id"`
	InvoiceNumber string `json:"invoice_number"`
	Quantity      int    `json:"quantity"`
}

// StockAlertReport summarises one stock alert sweep
type StockAlertReport struct {
	Shortfalls []*repository.Shortfall `json:"shortfalls"`
	Reordered  []Reorder               `json:"reordered"`
	Skipped    []int64                 `json:"skipped"`
	Failed     []int64                 `json:"failed"`
}

// AlertScanner finds products below their reorder level and places
// replenishment orders for them
type AlertScanner struct {
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	batchRepo   *repository.BatchRepository
	orders      *OrderService
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         func() time.Time
}

// NewAlertScanner creates a new alert scanner
func NewAlertScanner(
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	batchRepo *repository.BatchRepository,
	orders *OrderService,
	m *metrics.Metrics,
	log *logger.Logger,
) *AlertScanner {
	return &AlertScanner{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		batchRepo:   batchRepo,
		orders:      orders,
		metrics:     m,
		logger:      log,
		now:         time.Now,
	}
}

// ProcessStockAlerts reorders every product short of its reorder level.
// A product is skipped when it has no supplier or when a Pending or
// Completed order for it was placed with its supplier within the last 24
// hours. Failures are logged per product and the sweep continues.
func (s *AlertScanner) ProcessStockAlerts(ctx context.Context) (*StockAlertReport, error) {
	shortfalls, err := s.productRepo.Shortfalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shortfalls: %w", err)
	}

	report := &StockAlertReport{
		Shortfalls: shortfalls,
		Reordered:  []Reorder{},
		Skipped:    []int64{},
		Failed:     []int64{},
	}
	alerted := make([]int64, 0, len(shortfalls))
	since := s.now().Add(-reorderWindow)

	for _, sf := range shortfalls {
		alerted = append(alerted, sf.ProductID)

		log := s.logger.With().Int64("product_id", sf.ProductID).Logger()

		if sf.SupplierID == nil {
			log.Warn().Msg("product below reorder level has no supplier")
			report.Skipped = append(report.Skipped, sf.ProductID)
			continue
		}

		reorder, placed, err := s.reorder(ctx, sf, since)
		if err != nil {
			log.Error().Err(err).Int64("supplier_id", *sf.SupplierID).Msg("automatic reorder failed")
			report.Failed = append(report.Failed, sf.ProductID)
			continue
		}
		if !placed {
			report.Skipped = append(report.Skipped, sf.ProductID)
			continue
		}

		report.Reordered = append(report.Reordered, *reorder)
	}

	if err := s.productRepo.SetThresholdAlerts(ctx, alerted); err != nil {
		s.logger.Error().Err(err).Msg("failed to refresh stock threshold flags")
	}

	s.logger.Info().
		Int("shortfalls", len(shortfalls)).
		Int("reordered", len(report.Reordered)).
		Int("skipped", len(report.Skipped)).
		Int("failed", len(report.Failed)).
		Msg("stock alert sweep completed")

	return report, nil
}

// Sweep adapts ProcessStockAlerts to the scheduler's job signature
func (s *AlertScanner) Sweep(ctx context.Context) error {
	_, err := s.ProcessStockAlerts(ctx)
	return err
}

func (s *AlertScanner) reorder(ctx context.Context, sf *repository.Shortfall, since time.Time) (*Reorder, bool, error) {
	recent, err := s.orderRepo.RecentOrderExists(ctx, *sf.SupplierID, sf.ProductID, since)
	if err != nil {
		return nil, false, err
	}
	if recent {
		return nil, false, nil
	}

	rate, ok, err := s.batchRepo.PurchaseRate(ctx, sf.ProductID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.logger.Warn().Int64("product_id", sf.ProductID).Msg("no purchase rate on record, reordering at zero cost")
	}

	detail, err := s.orders.place(ctx, NewOrder{
		SupplierID: *sf.SupplierID,
		Lines: []OrderLine{{
			ProductID: sf.ProductID,
			Quantity:  sf.Required(),
			Rate:      rate,
		}},
	})
	if err != nil {
		return nil, false, err
	}

	s.metrics.RecordReorder()
	s.orders.publisher.PublishOrderPlaced(ctx, detail.SupplierOrder, true)
	s.orders.publisher.PublishStockReordered(ctx, sf.ProductID, detail.ID, sf.Required())

	s.logger.Info().
		Int64("product_id", sf.ProductID).
		Str("invoice_number", *detail.InvoiceNumber).
		Int("quantity", sf.Required()).
		Msg("automatic reorder placed")

	return &Reorder{
		ProductID:     sf.ProductID,
		OrderID:       detail.ID,
		InvoiceNumber: *detail.InvoiceNumber,
		Quantity:      sf.Required(),
	}, true, nil
}
