package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
)

// Subscriber is the slice of the bus client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, sub bus.Subscription, handler bus.Handler) error
}

// StockRestorationConsumer compensates cancelled orders: every item of an
// order.cancelled event gets its quantity added back to stock.
type StockRestorationConsumer struct {
	svc *service.ProductService
	log *zap.Logger
}

func NewStockRestorationConsumer(svc *service.ProductService, log *zap.Logger) *StockRestorationConsumer {
	return &StockRestorationConsumer{svc: svc, log: log}
}

func (c *StockRestorationConsumer) Start(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, bus.Subscription{
		Exchange:   events.ExchangeOrderEvents,
		Queue:      events.QueueProductStockRestoration,
		RoutingKey: events.TypeOrderCancelled,
	}, c.handleOrderCancelled)
}

func (c *StockRestorationConsumer) handleOrderCancelled(ctx context.Context, payload events.Payload) error {
	data, ok := payload.(events.OrderCancelledData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	c.log.Info("restoring stock for cancelled order",
		zap.Int64("order_id", data.OrderID),
		zap.Int("items", len(data.Items)))

	items := make([]r.StockRestoration, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, r.StockRestoration{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := c.svc.RestoreOrderStock(ctx, data.OrderID, items); err != nil {
		return fmt.Errorf("restore stock for order %d: %w", data.OrderID, err)
	}
	return nil
}
