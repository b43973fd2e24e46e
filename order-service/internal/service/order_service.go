package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/order-service/internal/client"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/order-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

var (
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Unpaid orders are considered abandoned after this long. Nothing enforces
// the expiry, it travels in order.created as information for downstreams.
const orderExpiry = time.Hour

const shippingAddressID = 1 // placeholder until a user service provides addresses

// StockReserver is the synchronous reservation client.
type StockReserver interface {
	DecreaseStock(ctx context.Context, productID int64, quantity int32) (*client.StockReservation, error)
	IncreaseStock(ctx context.Context, productID int64, quantity int32) error
}

// Publisher is the slice of the bus client this service needs.
type Publisher interface {
	Publish(ctx context.Context, exchange string, payload events.Payload) error
}

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type OrderService struct {
	repo      r.RepoInterface
	reserver  StockReserver
	publisher Publisher
	log       *zap.Logger
}

func NewOrderService(repo r.RepoInterface, reserver StockReserver, publisher Publisher, log *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		reserver:  reserver,
		publisher: publisher,
		log:       log,
	}
}

// CreateOrder reserves stock for every line item, persists the order in
// PENDING and announces order.created. Reservation is all-or-nothing: when
// any item fails, every previously reserved item is released before the
// error is returned, so no partial reservation outlives the request.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, items []ItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
	}

	var reserved []*client.StockReservation
	var orderItems []domain.OrderItem
	var totalAmount float64

	for _, item := range items {
		reservation, err := s.reserver.DecreaseStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseReservations(ctx, reserved)
			return nil, fmt.Errorf("failed to order product %d: %w", item.ProductID, err)
		}

		reserved = append(reserved, reservation)
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   reservation.ProductID,
			ProductName: reservation.Name,
			Price:       reservation.Price,
			Quantity:    reservation.Quantity,
		})
		totalAmount += reservation.Price * float64(reservation.Quantity)
	}

	order := &domain.Order{
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      domain.OrderStatusPending,
		Items:       orderItems,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.publishOrderCreated(ctx, order)
	return order, nil
}

// releaseReservations compensates the items reserved before a failure.
// Best effort: a release that fails is logged, not retried, because the
// message-level retry would re-run reservations that already succeeded.
func (s *OrderService) releaseReservations(ctx context.Context, reserved []*client.StockReservation) {
	for i := len(reserved) - 1; i >= 0; i-- {
		res := reserved[i]
		if err := s.reserver.IncreaseStock(ctx, res.ProductID, res.Quantity); err != nil {
			s.log.Error("failed to release reserved stock",
				zap.Int64("product_id", res.ProductID),
				zap.Int32("quantity", res.Quantity),
				zap.Error(err))
		}
	}
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	eventItems := make([]events.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		eventItems = append(eventItems, events.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	itemsPrice := order.TotalAmount
	shippingPrice := 0.0

	evt := events.OrderCreatedData{
		OrderID:           order.ID,
		UserID:            order.UserID,
		Items:             eventItems,
		ItemsPrice:        itemsPrice,
		ShippingPrice:     shippingPrice,
		TotalPrice:        itemsPrice + shippingPrice,
		ShippingAddressID: shippingAddressID,
		ExpireAt:          time.Now().Add(orderExpiry).UnixMilli(),
	}
	// The order is already committed. A publish failure leaves reserved stock
	// with no announced order, which is surfaced in the logs, not undone.
	if err := s.publisher.Publish(ctx, events.ExchangeOrderEvents, evt); err != nil {
		s.log.Error("failed to publish order.created",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

// MarkPaid moves a PENDING order to PAID. Repeated or out-of-order payment
// events are ignored: an order that already left PENDING keeps its status.
func (s *OrderService) MarkPaid(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, domain.OrderStatusPaid)
}

// MarkShipped moves a PAID order to SHIPPED when the delivery service
// announces shipment.
func (s *OrderService) MarkShipped(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, domain.OrderStatusShipped)
}

func (s *OrderService) transition(ctx context.Context, orderID int64, to domain.OrderStatus) error {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if errors.Is(err, r.ErrOrderNotFound) {
		s.log.Error("order not found for status update",
			zap.Int64("order_id", orderID),
			zap.String("target_status", string(to)))
		return nil
	}
	if err != nil {
		return err
	}

	if order.Status == to {
		return nil
	}
	if !domain.CanTransition(order.Status, to) {
		s.log.Warn("ignoring invalid order status transition",
			zap.Int64("order_id", orderID),
			zap.String("from", string(order.Status)),
			zap.String("to", string(to)))
		return nil
	}

	ok, err := s.repo.UpdateOrderStatus(ctx, orderID, order.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		// Another handler moved the order first; the conditional write
		// keeps the lifecycle monotonic, so there is nothing to redo.
		s.log.Info("order status changed concurrently, skipping update",
			zap.Int64("order_id", orderID),
			zap.String("to", string(to)))
		return nil
	}

	s.log.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)))
	return nil
}

// CancelOrder moves a PENDING order to CANCELLED and publishes
// order.cancelled with the original line items so the product service can
// restore the reserved stock.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if errors.Is(err, r.ErrOrderNotFound) {
		s.log.Error("order not found for cancellation", zap.Int64("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}

	if order.Status == domain.OrderStatusCancelled {
		return nil
	}
	if !domain.CanTransition(order.Status, domain.OrderStatusCancelled) {
		s.log.Warn("ignoring cancellation of non-pending order",
			zap.Int64("order_id", orderID),
			zap.String("status", string(order.Status)))
		return nil
	}

	ok, err := s.repo.UpdateOrderStatus(ctx, orderID, order.Status, domain.OrderStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info("order status changed concurrently, skipping cancellation",
			zap.Int64("order_id", orderID))
		return nil
	}

	s.log.Info("order cancelled",
		zap.Int64("order_id", orderID),
		zap.String("reason", reason))

	eventItems := make([]events.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		eventItems = append(eventItems, events.OrderItem{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	evt := events.OrderCancelledData{
		OrderID: order.ID,
		UserID:  order.UserID,
		Items:   eventItems,
		Reason:  reason,
	}
	// No transaction spans the status write and the publish. A publish
	// failure here leaves stock unrestored; requeueing would instead risk a
	// duplicate order.cancelled and a double restoration.
	if err := s.publisher.Publish(ctx, events.ExchangeOrderEvents, evt); err != nil {
		s.log.Error("failed to publish order.cancelled",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
	return nil
}
