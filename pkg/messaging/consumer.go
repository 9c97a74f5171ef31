package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/retailhub/backoffice/pkg/logger"
)

// MessageHandler processes one decoded event
type MessageHandler func(ctx context.Context, event *Event) error

// Consumer dispatches events from one queue to handlers keyed by event type.
// The queue is a quorum queue so the broker tracks redeliveries; a message
// that keeps failing is dead-lettered to backoffice.dlq.
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	handlers  map[string]MessageHandler
	logger    *logger.Logger
}

// NewConsumer declares the queue and returns a consumer for it
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	ch, err := rmq.Channel()
	if err != nil {
		return nil, err
	}
	_, err = ch.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		amqp.QueueTypeArg:        amqp.QueueTypeQuorum,
		"x-dead-letter-exchange": deadLetterExchange,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		rmq:       rmq,
		queueName: queueName,
		handlers:  make(map[string]MessageHandler),
		logger:    log.WithComponent("consumer").WithField("queue", queueName),
	}, nil
}

// Subscribe binds the queue to routing keys on the exchange
func (c *Consumer) Subscribe(exchange string, routingKeys ...string) error {
	ch, err := c.rmq.Channel()
	if err != nil {
		return err
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(c.queueName, key, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", c.queueName, key, err)
		}
		c.logger.Info().Str("exchange", exchange).Str("routing_key", key).Msg("subscribed")
	}
	return nil
}

// RegisterHandler registers a handler for an event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start consumes in a goroutine until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.rmq.Channel()
	if err != nil {
		return err
	}
	msgs, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info().Msg("consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Msg("consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn().Msg("delivery channel closed")
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error().Err(err).Msg("dropping malformed event")
		_ = msg.Reject(false)
		return
	}

	handler, ok := c.handlers[event.Type]
	if !ok {
		_ = msg.Ack(false)
		return
	}

	ctx = WithCorrelationID(ctx, event.CorrelationID)
	if err := handler(ctx, &event); err != nil {
		deliveries := deliveryCount(msg)
		log := c.logger.Error().Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Int("deliveries", deliveries)

		if deliveries >= c.rmq.maxDeliveries() {
			log.Msg("event failed too often, dead-lettering")
			_ = msg.Reject(false)
			return
		}
		log.Msg("event failed, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

// deliveryCount reads the quorum-queue redelivery header. The first delivery
// carries no header.
func deliveryCount(msg amqp.Delivery) int {
	switch n := msg.Headers["x-delivery-count"].(type) {
	case int64:
		return int(n) + 1
	case int32:
		return int(n) + 1
	case int:
		return n + 1
	}
	return 1
}
