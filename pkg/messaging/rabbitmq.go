package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/logger"
)

const (
	deadLetterExchange = "backoffice.dlx"
	deadLetterQueue    = "backoffice.dlq"
	defaultMaxRetries  = 3
)

var errClosed = errors.New("rabbitmq connection closed")

// RabbitMQ owns the broker connection shared by every publisher and consumer
// in the process. A dropped connection is re-dialled in the background; the
// topology is declared again on every successful dial.
type RabbitMQ struct {
	cfg    *config.RabbitMQConfig
	logger *logger.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// New dials the broker and declares the events and dead-letter exchanges
func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{cfg: cfg, logger: log.WithComponent("rabbitmq")}
	if err := r.dial(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) dial() error {
	conn, err := amqp.Dial(r.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, r.exchange(), r.cfg.PrefetchCount); err != nil {
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn, r.channel = conn, ch
	r.mu.Unlock()

	go r.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	r.logger.Info().Str("exchange", r.exchange()).Msg("connected to RabbitMQ")
	return nil
}

func declareTopology(ch *amqp.Channel, exchange string, prefetch int) error {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	for _, name := range []string{exchange, deadLetterExchange} {
		if err := ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", name, err)
		}
	}
	if _, err := ch.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(deadLetterQueue, "#", deadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}
	return nil
}

// watch re-dials after an unexpected close. A clean Close sends nothing.
func (r *RabbitMQ) watch(closes <-chan *amqp.Error) {
	amqpErr, ok := <-closes
	if !ok || amqpErr == nil {
		return
	}
	r.logger.Warn().Err(amqpErr).Msg("RabbitMQ connection lost")

	ctx := context.Background()
	if err := r.reconnect(ctx); err != nil {
		r.logger.Error().Err(err).Msg("giving up on RabbitMQ, events will fail to publish")
	}
}

func (r *RabbitMQ) reconnect(ctx context.Context) error {
	attempts := r.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		if r.isClosed() {
			return errClosed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.ReconnectDelay):
		}

		if err := r.dial(); err != nil {
			r.logger.Warn().Err(err).Int("attempt", i).Msg("reconnect attempt failed")
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to reconnect after %d attempts", attempts)
}

func (r *RabbitMQ) exchange() string {
	if r.cfg.Exchange == "" {
		return DefaultExchange
	}
	return r.cfg.Exchange
}

func (r *RabbitMQ) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Channel returns the channel of the current connection
func (r *RabbitMQ) Channel() (*amqp.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed || r.channel == nil || r.channel.IsClosed() {
		return nil, errClosed
	}
	return r.channel, nil
}

// Close closes the channel and connection; nil is a no-op
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}

// Health reports "disabled" for a nil broker so health checks can include
// it unconditionally
func (r *RabbitMQ) Health() map[string]string {
	if r == nil {
		return map[string]string{"status": "disabled"}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil || r.conn.IsClosed() {
		return map[string]string{"status": "down", "error": "connection closed"}
	}
	return map[string]string{"status": "up"}
}

func (r *RabbitMQ) maxDeliveries() int {
	if r.cfg.MaxRetries > 0 {
		return r.cfg.MaxRetries
	}
	return defaultMaxRetries
}
