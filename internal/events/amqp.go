package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/log"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// AMQPPublisher publishes events to a topic exchange. The routing key is
// the configured prefix plus the event kind, e.g. transactions.transaction.created.
// A broken connection is re-dialed on the next publish.
type AMQPPublisher struct {
	url          string
	exchangeName string
	routingKey   string
	logger       *log.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
	failMu       sync.Mutex
}

// NewAMQPPublisher dials url, retrying with exponential backoff up to
// attempts times, and declares the exchange.
func NewAMQPPublisher(ctx context.Context, url, exchangeName, routingKey string, attempts int, logger *log.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = log.Discard()
	}
	p := &AMQPPublisher{
		url:          url,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		logger:       logger.WithComponent(log.ComponentEvents),
	}

	var err error
	for attempt := 0; attempt < max(attempts, 1); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}
		p.mu.Lock()
		err = p.connectLocked()
		p.mu.Unlock()
		if err == nil {
			return p, nil
		}
		p.logger.Warn("AMQP connection attempt failed", "attempt", attempt+1, log.FieldError, err)
	}
	return nil, fmt.Errorf("connect AMQP: %w", err)
}

func (p *AMQPPublisher) connectLocked() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		p.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.conn, p.channel = conn, channel
	return nil
}

// Publish sends e as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.isCircuitOpen() {
		return fmt.Errorf("publish %s: %w", e.Kind, ErrCircuitOpen)
	}

	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.connectLocked(); err != nil {
			p.recordFailure()
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := p.routingKey + "." + string(e.Kind)
	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		key,            // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Type:         string(e.Kind),
			Body:         body,
		},
	)
	if err != nil {
		p.recordFailure()
		if isConnectionError(err) {
			p.dropLocked()
		}
		return fmt.Errorf("publish %s: %w", e.Kind, err)
	}
	p.recordSuccess()

	p.logger.InfoContext(ctx, "Published event",
		"kind", string(e.Kind), log.FieldTxID, e.ID, "exchange", p.exchangeName, "routing_key", key)
	return nil
}

func (p *AMQPPublisher) dropLocked() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	p.channel, p.conn = nil, nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	var err error
	if p.conn != nil {
		err = p.conn.Close()
	}
	p.channel, p.conn = nil, nil
	return err
}

// isCircuitOpen reports whether publishing is suspended. An open circuit
// turns half-open once openTimeout has passed, letting one attempt through.
func (p *AMQPPublisher) isCircuitOpen() bool {
	if atomic.LoadInt32(&p.state) != StateOpen {
		return false
	}
	p.failMu.Lock()
	last := p.lastFailure
	p.failMu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&p.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (p *AMQPPublisher) recordFailure() {
	p.failMu.Lock()
	p.lastFailure = time.Now()
	p.failMu.Unlock()
	if atomic.AddInt64(&p.failureCount, 1) >= maxFailures || atomic.LoadInt32(&p.state) == StateHalfOpen {
		atomic.StoreInt32(&p.state, StateOpen)
	}
}

func (p *AMQPPublisher) recordSuccess() {
	atomic.StoreInt64(&p.failureCount, 0)
	atomic.StoreInt32(&p.state, StateClosed)
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	return min(time.Second<<attempt, maxBackoff)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
