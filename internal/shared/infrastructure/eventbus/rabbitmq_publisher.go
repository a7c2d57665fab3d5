package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the topic exchange all domain events are published to.
	ExchangeName = "cadence.domain.events"
	// DeadLetterExchange receives deliveries a consumer gave up on.
	DeadLetterExchange = ExchangeName + ".dead"

	appID = "cadence"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes outbox payloads to ExchangeName. The event
// envelope is lifted into AMQP properties so brokers and consumers can trace
// a delivery without parsing the body.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewRabbitMQPublisher dials url and declares the durable topic exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("RabbitMQ publisher connected", "exchange", ExchangeName)

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: ExchangeName,
		logger:   logger,
	}, nil
}

// Publish sends payload under routingKey. A payload that is not a JSON event
// envelope is refused so the outbox retries and eventually dead-letters it
// instead of poisoning consumers.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	msg, err := newPublishing(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.logger.Error("failed to publish message",
			"routing_key", routingKey,
			"message_id", msg.MessageId,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published",
		"routing_key", routingKey,
		"message_id", msg.MessageId,
		"correlation_id", msg.CorrelationId,
		"size", len(payload),
	)
	return nil
}

// newPublishing maps an event envelope onto AMQP properties: the event id
// becomes MessageId, the metadata correlation id becomes CorrelationId and the
// occurrence time becomes Timestamp (now when the envelope has none).
func newPublishing(routingKey string, payload []byte, now time.Time) (amqp.Publishing, error) {
	event, err := DecodeEvent(routingKey, payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("publish %s: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		AppId:        appID,
		Type:         event.RoutingKey,
		Timestamp:    now.UTC(),
		Body:         payload,
	}
	if event.EventID != uuid.Nil {
		msg.MessageId = event.EventID.String()
	}
	if id := event.Metadata.CorrelationID; id != "" && id != uuid.Nil.String() {
		msg.CorrelationId = id
	}
	if !event.OccurredAt.IsZero() {
		msg.Timestamp = event.OccurredAt.UTC()
	}
	if event.AggregateID != uuid.Nil {
		msg.Headers = amqp.Table{
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID.String(),
		}
	}
	return msg, nil
}

// Close closes the publisher connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing channel", "error", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}

	p.logger.Info("RabbitMQ publisher closed")
	return nil
}
