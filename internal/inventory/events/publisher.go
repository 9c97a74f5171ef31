package events

import (
	"context"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher.
// It returns nil when no broker is configured; a nil publisher drops events.
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, exchange string, log *logger.Logger) (*InventoryEventPublisher, error) {
	if rmq == nil {
		return nil, nil
	}

	publisher, err := messaging.NewPublisher(rmq, exchange, "inventory", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishOrderPlaced publishes an order placed event
func (p *InventoryEventPublisher) PublishOrderPlaced(ctx context.Context, order *repository.SupplierOrder, automatic bool) {
	if p == nil {
		return
	}

	data := messaging.OrderPlacedEvent{
		OrderID:       order.ID,
		InvoiceNumber: deref(order.InvoiceNumber),
		SupplierID:    order.SupplierID,
		TotalCost:     order.TotalCost.StringFixed(2),
		Automatic:     automatic,
	}

	if err := p.publisher.Publish(ctx, messaging.EventOrderPlaced, data); err != nil {
		p.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to publish order placed event")
	}
}

// PublishOrderStatusChanged publishes an order status changed event
func (p *InventoryEventPublisher) PublishOrderStatusChanged(ctx context.Context, order *repository.SupplierOrder, batches int) {
	if p == nil {
		return
	}

	data := messaging.OrderStatusChangedEvent{
		OrderID:        order.ID,
		InvoiceNumber:  deref(order.InvoiceNumber),
		Status:         order.Status,
		BatchesCreated: batches,
	}

	if err := p.publisher.Publish(ctx, messaging.EventOrderStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to publish order status event")
	}
}

// PublishStockReordered publishes an automatic reorder event
func (p *InventoryEventPublisher) PublishStockReordered(ctx context.Context, productID, orderID int64, quantity int) {
	if p == nil {
		return
	}

	data := messaging.StockReorderedEvent{
		ProductID: productID,
		OrderID:   orderID,
		Quantity:  quantity,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockReordered, data); err != nil {
		p.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to publish stock reordered event")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
