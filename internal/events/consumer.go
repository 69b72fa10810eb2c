package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/log"
)

// Handler processes one decoded event. Returning an error requeues it.
type Handler func(ctx context.Context, e Event) error

// AMQPConsumer reads ledger events from a durable queue bound to the
// topic exchange the publisher writes to.
type AMQPConsumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
	logger  *log.Logger
}

// NewAMQPConsumer dials url, declares the exchange and queue and binds the
// queue to every event under routingKey.
func NewAMQPConsumer(url, exchangeName, routingKey, queue string, logger *log.Logger) (*AMQPConsumer, error) {
	if logger == nil {
		logger = log.Discard()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	c := &AMQPConsumer{conn: conn, channel: channel, queue: queue, logger: logger.WithComponent(log.ComponentEvents)}
	if err := c.setup(exchangeName, routingKey); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return c, nil
}

func (c *AMQPConsumer) setup(exchangeName, routingKey string) error {
	err := c.channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queue, routingKey+".#", exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Consume delivers events to handler until ctx is done or the broker
// closes the channel. Undecodable messages are dropped.
func (c *AMQPConsumer) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started consuming ledger events", "queue", c.queue)
	return consumeLoop(ctx, msgs, handler, c.logger)
}

func consumeLoop(ctx context.Context, msgs <-chan amqp091.Delivery, handler Handler, logger *log.Logger) error {
	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			handleDelivery(ctx, d, handler, logger)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp091.Delivery, handler Handler, logger *log.Logger) {
	e, err := EventFromJSON(d.Body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to decode event", log.FieldError, err)
		_ = d.Nack(false, false)
		return
	}
	if err := handler(ctx, e); err != nil {
		logger.ErrorContext(ctx, "Failed to handle event",
			log.FieldOperation, log.OpConsume, "kind", string(e.Kind), log.FieldTxID, e.ID, log.FieldError, err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
	logger.DebugContext(ctx, "Handled event", "kind", string(e.Kind), log.FieldTxID, e.ID)
}

func (c *AMQPConsumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
