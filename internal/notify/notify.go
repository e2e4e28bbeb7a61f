// Package notify publishes user-facing notification events to a message
// broker. The only producer today is the budget overrun check.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"cashew/internal/logger"
)

// BudgetOverrunEvent is emitted once per (owner, category, month) when a
// budget first crosses its limit.
type BudgetOverrunEvent struct {
	OwnerID  string  `json:"owner_id"`
	Category string  `json:"category"`
	Month    string  `json:"month"`
	Percent  float64 `json:"percent"`
}

// Notifier publishes notification events.
type Notifier interface {
	PublishBudgetOverrun(ctx context.Context, event BudgetOverrunEvent) error
	Close() error
}

// AMQPNotifier publishes events to a RabbitMQ direct exchange.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// NewAMQPNotifier dials the broker and declares the exchange and queue.
func NewAMQPNotifier(url, exchange, queue string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := n.setup(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup() error {
	if err := n.channel.ExchangeDeclare(n.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := n.channel.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := n.channel.QueueBind(n.queue, n.queue, n.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishBudgetOverrun publishes a persistent overrun event.
func (n *AMQPNotifier) PublishBudgetOverrun(ctx context.Context, event BudgetOverrunEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(ctx, n.exchange, n.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	logger.Get().Infow("published budget overrun event",
		"owner_id", event.OwnerID,
		"category", event.Category,
		"month", event.Month,
	)
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// NopNotifier discards events. Used when no broker is configured and in
// tests.
type NopNotifier struct{}

func (NopNotifier) PublishBudgetOverrun(context.Context, BudgetOverrunEvent) error { return nil }
func (NopNotifier) Close() error                                                  { return nil }
