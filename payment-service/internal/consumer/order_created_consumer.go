package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// Subscriber is the slice of the bus client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, sub bus.Subscription, handler bus.Handler) error
}

// OrderCreatedConsumer feeds freshly created orders into the payment decision.
type OrderCreatedConsumer struct {
	svc *service.PaymentService
	log *zap.Logger
}

func NewOrderCreatedConsumer(svc *service.PaymentService, log *zap.Logger) *OrderCreatedConsumer {
	return &OrderCreatedConsumer{svc: svc, log: log}
}

func (c *OrderCreatedConsumer) Start(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueuePaymentOrderCreated,
		RoutingKey: events.TypeOrderCreated,
	}, c.handleOrderCreated)
}

func (c *OrderCreatedConsumer) handleOrderCreated(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderCreatedData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}
	return c.svc.ProcessPayment(ctx, data)
}
