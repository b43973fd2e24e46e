package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/delivery-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// Subscriber is the slice of the bus client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, sub bus.Subscription, handler bus.Handler) error
}

// OrderPaidConsumer opens a delivery for every successfully paid order.
type OrderPaidConsumer struct {
	svc *service.DeliveryService
	log *zap.Logger
}

func NewOrderPaidConsumer(svc *service.DeliveryService, log *zap.Logger) *OrderPaidConsumer {
	return &OrderPaidConsumer{svc: svc, log: log}
}

func (c *OrderPaidConsumer) Start(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueueDeliveryOrderPaid,
		RoutingKey: events.TypeOrderPaid,
	}, c.handleOrderPaid)
}

func (c *OrderPaidConsumer) handleOrderPaid(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderPaidData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("processing delivery for paid order", zap.Int64("order_id", data.OrderID))
	return c.svc.CreateDelivery(ctx, data.OrderID)
}
