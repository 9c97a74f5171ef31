package events

import (
	"context"

	"github.com/retailhub/backoffice/internal/billing/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/messaging"
)

// BillingEventPublisher publishes sales events
type BillingEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewBillingEventPublisher creates a new billing event publisher, nil
// without a broker
func NewBillingEventPublisher(rmq *messaging.RabbitMQ, exchange string, log *logger.Logger) (*BillingEventPublisher, error) {
	if rmq == nil {
		return nil, nil
	}

	publisher, err := messaging.NewPublisher(rmq, exchange, "billing", log)
	if err != nil {
		return nil, err
	}

	return &BillingEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishSaleCompleted publishes a sale completed event
func (p *BillingEventPublisher) PublishSaleCompleted(ctx context.Context, sale *repository.Sale, receiptSent bool) {
	if p == nil {
		return
	}

	data := messaging.SaleCompletedEvent{
		TransactionID: sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID,
		TotalAmount:   sale.TotalAmount.StringFixed(2),
		ReceiptSent:   receiptSent,
	}

	if err := p.publisher.Publish(ctx, messaging.EventSaleCompleted, data); err != nil {
		p.logger.Error().Err(err).Int64("transaction_id", sale.ID).Msg("failed to publish sale completed event")
	}
}
