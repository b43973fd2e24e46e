package bus

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

const (
	defaultPrefetch   = 10
	defaultMaxRetries = 3

	retryCountHeader = "x-retry-count"
	deadReasonHeader = "x-dead-reason"
)

// Handler receives the decoded, schema-validated payload of one message.
// Returning an error counts as one failed attempt; the message is retried up
// to the subscription's retry budget and then dead-lettered.
type Handler func(ctx context.Context, payload events.Payload) error

// Subscription describes where to listen. Queues are durable and not
// auto-deleted so they survive broker restarts and consumer disconnects.
type Subscription struct {
	Exchange   string
	Queue      string
	RoutingKey string
	// Prefetch bounds how many unacked messages are in flight (default 10).
	Prefetch int
	// MaxRetries is the per-message attempt budget before the message is
	// moved to the dead-letter queue (default 3).
	MaxRetries int
}

func (s Subscription) deadLetterQueue() string { return s.Queue + ".dead" }

// Subscribe declares the exchange, the queue and its dead-letter companion,
// binds the routing key and starts a consume loop that runs until ctx is
// cancelled or the channel is torn down.
func (c *Client) Subscribe(ctx context.Context, sub Subscription, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnection(); err != nil {
		return err
	}

	prefetch := sub.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	if err := c.ch.ExchangeDeclare(sub.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", sub.Exchange, err)
	}
	q, err := c.ch.QueueDeclare(sub.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", sub.Queue, err)
	}
	if _, err = c.ch.QueueDeclare(sub.deadLetterQueue(), true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead-letter queue %s: %w", sub.deadLetterQueue(), err)
	}
	if err = c.ch.QueueBind(q.Name, sub.RoutingKey, sub.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s via %s: %w", q.Name, sub.Exchange, sub.RoutingKey, err)
	}

	deliveries, err := c.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}

	c.log.Info("listening",
		zap.String("queue", q.Name),
		zap.String("exchange", sub.Exchange),
		zap.String("routing_key", sub.RoutingKey))

	worker := &consumeWorker{
		sub:       sub,
		handler:   handler,
		log:       c.log,
		republish: c.publishToQueue,
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					c.log.Warn("delivery channel closed", zap.String("queue", sub.Queue))
					return
				}
				worker.process(ctx, d)
			}
		}
	}()
	return nil
}

// publishToQueue sends a message straight to a queue via the default exchange.
// Used for retry re-enqueueing and dead-lettering.
func (c *Client) publishToQueue(ctx context.Context, queue string, d amqp.Delivery, headers amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConnection(); err != nil {
		return err
	}
	return c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
		Body:         d.Body,
	})
}

type republishFunc func(ctx context.Context, queue string, d amqp.Delivery, headers amqp.Table) error

// consumeWorker holds the per-subscription message processing pipeline:
// unwrap envelope, decode against the schema, dispatch, then ack / retry /
// dead-letter depending on the outcome.
type consumeWorker struct {
	sub       Subscription
	handler   Handler
	log       *zap.Logger
	republish republishFunc
}

func (w *consumeWorker) process(ctx context.Context, d amqp.Delivery) {
	payload, err := events.Decode(w.sub.RoutingKey, events.Unwrap(d.Body))
	if err != nil {
		// Malformed or unknown payloads can never succeed, skip the retry
		// budget and dead-letter immediately.
		w.log.Error("undecodable message", zap.String("queue", w.sub.Queue), zap.Error(err))
		w.deadLetter(ctx, d, err)
		return
	}

	if err := w.handler(ctx, payload); err != nil {
		w.log.Error("handler failed",
			zap.String("queue", w.sub.Queue),
			zap.String("routing_key", w.sub.RoutingKey),
			zap.Error(err))
		w.retryOrDeadLetter(ctx, d, err)
		return
	}

	if err := d.Ack(false); err != nil {
		w.log.Error("ack failed", zap.String("queue", w.sub.Queue), zap.Error(err))
	}
}

func (w *consumeWorker) retryOrDeadLetter(ctx context.Context, d amqp.Delivery, cause error) {
	maxRetries := w.sub.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	attempts := retryCount(d.Headers) + 1
	if attempts >= maxRetries {
		w.log.Warn("retry budget exhausted, dead-lettering",
			zap.String("queue", w.sub.Queue),
			zap.Int("attempts", attempts))
		w.deadLetter(ctx, d, cause)
		return
	}

	headers := cloneHeaders(d.Headers)
	headers[retryCountHeader] = int32(attempts)
	if err := w.republish(ctx, w.sub.Queue, d, headers); err != nil {
		// Re-enqueue failed, fall back to a broker-side requeue so the
		// message is not lost. The retry counter stalls in this case.
		w.log.Error("re-enqueue failed, requeueing", zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			w.log.Error("nack failed", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.log.Error("ack after re-enqueue failed", zap.Error(err))
	}
}

func (w *consumeWorker) deadLetter(ctx context.Context, d amqp.Delivery, cause error) {
	headers := cloneHeaders(d.Headers)
	headers[deadReasonHeader] = cause.Error()
	if err := w.republish(ctx, w.sub.deadLetterQueue(), d, headers); err != nil {
		w.log.Error("dead-letter publish failed, requeueing", zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			w.log.Error("nack failed", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.log.Error("ack after dead-letter failed", zap.Error(err))
	}
}

func retryCount(headers amqp.Table) int {
	switch v := headers[retryCountHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func cloneHeaders(headers amqp.Table) amqp.Table {
	out := amqp.Table{}
	for k, v := range headers {
		out[k] = v
	}
	return out
}
