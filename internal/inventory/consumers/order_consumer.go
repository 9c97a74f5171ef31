package consumers

import (
	"context"
	"fmt"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/document"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/mailer"
	"github.com/retailhub/backoffice/pkg/messaging"
	"github.com/shopspring/decimal"
)

// OrderEventConsumer notifies suppliers of orders placed with them
type OrderEventConsumer struct {
	consumer *messaging.Consumer
	notifier *SupplierNotifier
	logger   *logger.Logger
}

// NewOrderEventConsumer creates a new order event consumer
func NewOrderEventConsumer(rmq *messaging.RabbitMQ, exchange string, notifier *SupplierNotifier, log *logger.Logger) (*OrderEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "inventory.supplier-notifications", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(exchange, messaging.EventOrderPlaced); err != nil {
		return nil, err
	}

	c := &OrderEventConsumer{
		consumer: consumer,
		notifier: notifier,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventOrderPlaced, c.handleOrderPlaced)

	return c, nil
}

// Start starts consuming messages
func (c *OrderEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *OrderEventConsumer) handleOrderPlaced(ctx context.Context, event *messaging.Event) error {
	var data messaging.OrderPlacedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Int64("order_id", data.OrderID).
		Str("invoice_number", data.InvoiceNumber).
		Bool("automatic", data.Automatic).
		Msg("received order placed event")

	return c.notifier.Notify(ctx, data.OrderID)
}

// SupplierNotifier emails a supplier the purchase order summary of an order
type SupplierNotifier struct {
	db           *database.DB
	orderRepo    *repository.OrderRepository
	supplierRepo *repository.SupplierRepository
	mail         mailer.Sender
	logger       *logger.Logger
}

// NewSupplierNotifier creates a new supplier notifier
func NewSupplierNotifier(
	db *database.DB,
	orderRepo *repository.OrderRepository,
	supplierRepo *repository.SupplierRepository,
	mail mailer.Sender,
	log *logger.Logger,
) *SupplierNotifier {
	return &SupplierNotifier{
		db:           db,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		mail:         mail,
		logger:       log,
	}
}

// Notify sends the purchase order for orderID to its supplier
func (n *SupplierNotifier) Notify(ctx context.Context, orderID int64) error {
	order, err := n.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	supplier, err := n.supplierRepo.GetByID(ctx, order.SupplierID)
	if err != nil {
		return err
	}

	items, err := n.orderRepo.Items(ctx, n.db, order.ID)
	if err != nil {
		return err
	}

	invoice := ""
	if order.InvoiceNumber != nil {
		invoice = *order.InvoiceNumber
	}

	po := document.PurchaseOrder{
		InvoiceNumber: invoice,
		ContactPerson: supplier.ContactPerson,
		OrderDate:     order.OrderDate,
		TotalCost:     order.TotalCost,
	}
	for _, item := range items {
		cost := decimal.Zero
		if item.UnitCost != nil {
			cost = *item.UnitCost
		}
		po.Lines = append(po.Lines, document.PurchaseOrderLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitCost:    cost,
		})
	}

	body, err := document.RenderPurchaseOrderHTML(po)
	if err != nil {
		return fmt.Errorf("render purchase order: %w", err)
	}

	err = n.mail.Send(ctx, mailer.Message{
		To:      supplier.Email,
		Subject: "Purchase order " + invoice,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("send purchase order: %w", err)
	}

	n.logger.Info().
		Int64("order_id", order.ID).
		Str("supplier_email", supplier.Email).
		Msg("supplier notified of purchase order")

	return nil
}
