// Package events declares the closed set of domain events exchanged between
// services, their routing keys and the broker topology names. The routing key
// of a message is always equal to its event type.
package events

// Exchange names. One durable topic exchange per originating domain.
const (
	ExchangeOrderEvents    = "order.events"
	ExchangePaymentEvents  = "payment.events"
	ExchangeDeliveryEvents = "delivery.events"
	ExchangeProductEvents  = "product.events"
)

// Routing keys / event types.
const (
	TypeOrderCreated    = "order.created"
	TypeOrderCancelled  = "order.cancelled"
	TypeOrderPaid       = "order.paid"
	TypePaymentFailed   = "payment.failed"
	TypeDeliveryShipped = "delivery.shipped"
	TypeProductUpdated  = "product.updated"
)

// Queue names. Each consuming service owns its queues so backlogs never
// interfere across services.
const (
	QueueProductStockRestoration = "product.stock.restoration.queue"
	QueueOrderPaymentCompleted   = "order.payment.completed.queue"
	QueueOrderPaymentFailures    = "order.payment.failures.queue"
	QueueOrderDeliveryShipped    = "order.delivery.shipped.queue"
	QueuePaymentOrderCreated     = "payment.order.created.queue"
	QueueDeliveryOrderPaid       = "delivery.order.paid.queue"
	QueueNotificationCreated     = "notification.service.queue.created"
	QueueNotificationPaid        = "notification.service.queue.paid"
	QueueNotificationShipped     = "notification.service.queue.shipped"
)

// Payload is implemented by every event payload in the schema.
type Payload interface {
	EventType() string
}
