package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// Subscriber is the slice of the bus client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, sub bus.Subscription, handler bus.Handler) error
}

// NotificationConsumer emails the buyer at each step of the order lifecycle:
// confirmation on creation, receipt on payment, tracking on shipment.
type NotificationConsumer struct {
	svc *service.EmailService
	log *zap.Logger
}

func NewNotificationConsumer(svc *service.EmailService, log *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{svc: svc, log: log}
}

func (c *NotificationConsumer) Start(ctx context.Context, sub Subscriber) error {
	if err := sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueueNotificationCreated,
		RoutingKey: events.TypeOrderCreated,
	}, c.handleOrderCreated); err != nil {
		return err
	}

	if err := sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueueNotificationPaid,
		RoutingKey: events.TypeOrderPaid,
	}, c.handleOrderPaid); err != nil {
		return err
	}

	return sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeDeliveryEvents,
		Queue:      events.QueueNotificationShipped,
		RoutingKey: events.TypeDeliveryShipped,
	}, c.handleDeliveryShipped)
}

func (c *NotificationConsumer) handleOrderCreated(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderCreatedData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("sending order confirmation", zap.Int64("order_id", data.OrderID))
	return c.svc.SendOrderConfirmation(ctx, data)
}

func (c *NotificationConsumer) handleOrderPaid(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderPaidData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("sending payment receipt", zap.Int64("order_id", data.OrderID))
	return c.svc.SendPaymentReceived(ctx, data)
}

func (c *NotificationConsumer) handleDeliveryShipped(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.DeliveryShippedData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("sending shipping update", zap.Int64("order_id", data.OrderID))
	return c.svc.SendShippingUpdate(ctx, data)
}
