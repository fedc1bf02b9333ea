// Package queue carries registration notifications over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"campusevents/internal/domain"
)

const (
	DefaultExchange = "campusevents.notifications"
	DefaultQueue    = "campusevents.registrations"

	routingKeyRegistration = "registration.created"
	contentTypeJSON        = "application/json"
)

// ErrDeliveriesClosed is returned by Consume when the broker closes the delivery channel.
var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// Client owns one connection and channel. Publishing is serialized because
// amqp channels are not safe for concurrent publishers.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    string
	logger   *slog.Logger
	mu       sync.Mutex
}

// Dial connects to url and declares a durable direct exchange with one
// durable queue bound to it.
func Dial(url, exchange, queue string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	c := &Client{conn: conn, ch: ch, exchange: exchange, queue: queue, logger: logger}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, routingKeyRegistration, exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}
	logger.Info("rabbitmq initialized", "exchange", exchange, "queue", queue)
	return c, nil
}

// Close releases the channel and connection.
func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// PublishRegistration implements domain.NotificationPublisher.
func (c *Client) PublishRegistration(ctx context.Context, n *domain.RegistrationNotification) error {
	msg, err := encodeNotification(n, time.Now())
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ch.PublishWithContext(ctx, c.exchange, routingKeyRegistration, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish registration %s: %w", n.RegistrationID, err)
	}
	c.logger.DebugContext(ctx, "registration notification published", "registration_id", n.RegistrationID)
	return nil
}

// Consume delivers message bodies to handle until ctx is cancelled. Messages
// are acked when handle succeeds and dropped without requeue when it fails.
func (c *Client) Consume(ctx context.Context, handle func(context.Context, []byte) error) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", c.queue, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			if err := handle(ctx, d.Body); err != nil {
				c.logger.WarnContext(ctx, "notification dropped", "message_id", d.MessageId, "err", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func encodeNotification(n *domain.RegistrationNotification, now time.Time) (amqp.Publishing, error) {
	if n == nil {
		return amqp.Publishing{}, fmt.Errorf("registration notification is nil")
	}
	body, err := json.Marshal(n)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode notification: %w", err)
	}
	return amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    n.RegistrationID,
		Timestamp:    now,
		Body:         body,
	}, nil
}
