package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/order-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// Subscriber is the slice of the bus client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, sub bus.Subscription, handler bus.Handler) error
}

// PaymentOutcomeConsumer drives the order lifecycle from downstream events:
// order.paid moves PENDING orders to PAID, payment.failed cancels them, and
// delivery.shipped closes the loop with PAID to SHIPPED.
type PaymentOutcomeConsumer struct {
	svc *service.OrderService
	log *zap.Logger
}

func NewPaymentOutcomeConsumer(svc *service.OrderService, log *zap.Logger) *PaymentOutcomeConsumer {
	return &PaymentOutcomeConsumer{svc: svc, log: log}
}

func (c *PaymentOutcomeConsumer) Start(ctx context.Context, sub Subscriber) error {
	if err := sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueueOrderPaymentCompleted,
		RoutingKey: events.TypeOrderPaid,
	}, c.handleOrderPaid); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TypeOrderPaid, err)
	}

	if err := sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangePaymentEvents,
		Queue:      events.QueueOrderPaymentFailures,
		RoutingKey: events.TypePaymentFailed,
	}, c.handlePaymentFailed); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TypePaymentFailed, err)
	}

	if err := sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeDeliveryEvents,
		Queue:      events.QueueOrderDeliveryShipped,
		RoutingKey: events.TypeDeliveryShipped,
	}, c.handleDeliveryShipped); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TypeDeliveryShipped, err)
	}

	return nil
}

func (c *PaymentOutcomeConsumer) handleOrderPaid(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderPaidData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("received payment confirmation",
		zap.Int64("order_id", data.OrderID),
		zap.Int64("payment_id", data.PaymentID))
	return c.svc.MarkPaid(ctx, data.OrderID)
}

func (c *PaymentOutcomeConsumer) handlePaymentFailed(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.PaymentFailedData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("payment failed, cancelling order",
		zap.Int64("order_id", data.OrderID),
		zap.String("reason", data.Reason))
	return c.svc.CancelOrder(ctx, data.OrderID, data.Reason)
}

func (c *PaymentOutcomeConsumer) handleDeliveryShipped(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.DeliveryShippedData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("delivery shipped",
		zap.Int64("order_id", data.OrderID),
		zap.String("tracking_number", data.TrackingNumber))
	return c.svc.MarkShipped(ctx, data.OrderID)
}
