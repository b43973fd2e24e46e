package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/delivery-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/delivery-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// ShipDelay is how long after creation a delivery becomes due for shipment.
const ShipDelay = 5 * time.Second

// The address normally comes from the user's shipping profile; until a user
// service exists every delivery goes to this placeholder.
const placeholderAddress = "123 Default St, Jakarta"

// Publisher is the slice of the bus client this service needs.
type Publisher interface {
	Publish(ctx context.Context, exchange string, payload events.Payload) error
}

type DeliveryService struct {
	repo      r.RepoInterface
	publisher Publisher
	log       *zap.Logger
}

func NewDeliveryService(repo r.RepoInterface, publisher Publisher, log *zap.Logger) *DeliveryService {
	return &DeliveryService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// CreateDelivery records a PENDING shipment for a paid order with its due
// time persisted. A redelivered order.paid finds the unique order_id taken
// and is treated as already done.
func (s *DeliveryService) CreateDelivery(ctx context.Context, orderID int64) error {
	delivery := &domain.Delivery{
		OrderID:   orderID,
		Address:   placeholderAddress,
		Status:    domain.DeliveryStatusPending,
		ShipDueAt: time.Now().Add(ShipDelay),
	}

	err := s.repo.CreateDelivery(ctx, delivery)
	if errors.Is(err, r.ErrDuplicateDelivery) {
		s.log.Info("delivery already exists for order, skipping",
			zap.Int64("order_id", orderID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create delivery for order %d: %w", orderID, err)
	}

	s.log.Info("delivery created",
		zap.Int64("delivery_id", delivery.ID),
		zap.Int64("order_id", orderID),
		zap.Time("ship_due_at", delivery.ShipDueAt))
	return nil
}

// ShipDueDeliveries ships every delivery whose due time has passed: assigns
// a tracking number, flips the status and publishes delivery.shipped. The
// conditional status write makes concurrent scheduler passes safe. Returns
// how many deliveries were shipped.
func (s *DeliveryService) ShipDueDeliveries(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDueDeliveries(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due deliveries: %w", err)
	}

	shipped := 0
	for _, delivery := range due {
		trackingNumber := newTrackingNumber()
		ok, err := s.repo.MarkShipped(ctx, delivery.ID, trackingNumber)
		if err != nil {
			return shipped, fmt.Errorf("ship delivery %d: %w", delivery.ID, err)
		}
		if !ok {
			continue
		}

		s.log.Info("delivery shipped",
			zap.Int64("delivery_id", delivery.ID),
			zap.Int64("order_id", delivery.OrderID),
			zap.String("tracking_number", trackingNumber))

		evt := events.DeliveryShippedData{
			DeliveryID:     delivery.ID,
			OrderID:        delivery.OrderID,
			TrackingNumber: trackingNumber,
			Status:         string(domain.DeliveryStatusShipped),
		}
		if err := s.publisher.Publish(ctx, events.ExchangeDeliveryEvents, evt); err != nil {
			// The shipment is committed; the event loss is logged, not undone.
			s.log.Error("failed to publish delivery.shipped",
				zap.Int64("delivery_id", delivery.ID),
				zap.Error(err))
		}
		shipped++
	}
	return shipped, nil
}

func (s *DeliveryService) ListDeliveries(ctx context.Context) ([]*domain.Delivery, error) {
	return s.repo.ListDeliveries(ctx)
}

func newTrackingNumber() string {
	return fmt.Sprintf("TKPD-%06d", rand.Intn(1000000))
}
