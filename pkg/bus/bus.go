// Package bus wraps the RabbitMQ connection lifecycle, topology declaration,
// publishing and consuming for all services. Every exchange is a durable topic
// exchange and the routing key of a message always equals its event type.
package bus

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// Config holds broker connection settings. URL wins when set; the discrete
// fields are fallbacks for local setups.
type Config struct {
	URL   string
	Host  string
	Port  string
	User  string
	Pass  string
	VHost string
}

func (c Config) connectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == "" {
		port = "5672"
	}
	user := c.User
	if user == "" {
		user = "guest"
	}
	pass := c.Pass
	if pass == "" {
		pass = "guest"
	}
	vhost := c.VHost
	if vhost == "" {
		vhost = "/"
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		url.QueryEscape(user), url.QueryEscape(pass), host, port, url.QueryEscape(vhost))
}

// Client is a single-connection, single-channel AMQP client. Connect is
// idempotent; a broker-side close nulls the handles so the next operation
// re-establishes connection and topology from scratch. There is no automatic
// retry loop.
type Client struct {
	mu   sync.Mutex
	cfg  Config
	log  *zap.Logger
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	return &Client{cfg: cfg, log: log}
}

// Connect establishes the connection and channel. Calling it while connected
// is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnection()
}

// ensureConnection must be called with c.mu held.
func (c *Client) ensureConnection() error {
	if c.conn != nil && c.ch != nil {
		return nil
	}

	conn, err := amqp.Dial(c.cfg.connectionURL())
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn = conn
	c.ch = ch

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		reason, ok := <-closed
		if !ok {
			return
		}
		c.log.Warn("broker connection closed", zap.Error(reason))
		c.mu.Lock()
		c.conn = nil
		c.ch = nil
		c.mu.Unlock()
	}()

	c.log.Info("connected to broker")
	return nil
}

// Publish persists payload to a durable topic exchange under the event's
// routing key. The exchange is declared on every call so a publish never
// fails on missing topology.
func (c *Client) Publish(ctx context.Context, exchange string, payload events.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnection(); err != nil {
		return err
	}

	if err := c.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	body, err := events.Marshal(payload)
	if err != nil {
		return err
	}

	routingKey := payload.EventType()
	err = c.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", routingKey, exchange, err)
	}

	c.log.Debug("published event",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey))
	return nil
}

// Close shuts the channel and connection down and nulls the handles.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.ch != nil {
		if err := c.ch.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.ch = nil
	c.conn = nil
	return firstErr
}
