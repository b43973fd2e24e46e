package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/payment-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

// PaymentThreshold is the stand-in for a real gateway: order totals above it
// are declined, everything else succeeds.
const PaymentThreshold = 2000.0

// Publisher is the slice of the bus client this service needs.
type Publisher interface {
	Publish(ctx context.Context, exchange string, payload events.Payload) error
}

type PaymentService struct {
	repo           r.RepoInterface
	publisher      Publisher
	gatewayLatency time.Duration
	log            *zap.Logger
}

func NewPaymentService(repo r.RepoInterface, publisher Publisher, gatewayLatency time.Duration, log *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:           repo,
		publisher:      publisher,
		gatewayLatency: gatewayLatency,
		log:            log,
	}
}

// ProcessPayment decides the outcome for one order.created event. The
// decision is persisted before the outcome event goes out, so the audit trail
// never lags the announcement. Reprocessing an already-decided order creates
// no second record; it republishes the stored outcome instead, which also
// heals a crash between persist and publish.
func (s *PaymentService) ProcessPayment(ctx context.Context, order events.OrderCreatedData) error {
	existing, err := s.repo.GetPaymentByOrderID(ctx, order.OrderID)
	if err == nil {
		s.log.Info("payment already processed, republishing outcome",
			zap.Int64("order_id", order.OrderID),
			zap.String("status", string(existing.Status)))
		return s.publishOutcome(ctx, existing, order.UserID)
	}
	if !errors.Is(err, r.ErrPaymentNotFound) {
		return fmt.Errorf("check existing payment: %w", err)
	}

	s.log.Info("processing payment",
		zap.Int64("order_id", order.OrderID),
		zap.Float64("amount", order.TotalPrice))

	// Simulated gateway round trip.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.gatewayLatency):
	}

	payment := &domain.Payment{
		OrderID: order.OrderID,
		Amount:  order.TotalPrice,
	}
	if order.TotalPrice > PaymentThreshold {
		payment.Status = domain.PaymentStatusFailed
		payment.TransactionID = "err_" + uuid.NewString()
	} else {
		payment.Status = domain.PaymentStatusSuccess
		payment.TransactionID = "txn_" + uuid.NewString()
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, r.ErrDuplicatePayment) {
			// A concurrent redelivery won the insert race. Its handler owns
			// the outcome event.
			s.log.Info("payment created concurrently, skipping",
				zap.Int64("order_id", order.OrderID))
			return nil
		}
		return fmt.Errorf("persist payment: %w", err)
	}

	if payment.Status == domain.PaymentStatusFailed {
		s.log.Warn("payment rejected",
			zap.Int64("order_id", order.OrderID),
			zap.Float64("amount", payment.Amount))
	} else {
		s.log.Info("payment successful",
			zap.Int64("order_id", order.OrderID),
			zap.String("transaction_id", payment.TransactionID))
	}

	return s.publishOutcome(ctx, payment, order.UserID)
}

func (s *PaymentService) publishOutcome(ctx context.Context, payment *domain.Payment, userID int64) error {
	if payment.Status == domain.PaymentStatusFailed {
		evt := events.PaymentFailedData{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			UserID:    userID,
			Reason:    "Limit Exceeded",
		}
		if err := s.publisher.Publish(ctx, events.ExchangePaymentEvents, evt); err != nil {
			return fmt.Errorf("publish payment.failed: %w", err)
		}
		return nil
	}

	evt := events.OrderPaidData{
		OrderID:   payment.OrderID,
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		PaidAt:    payment.CreatedAt.UnixMilli(),
	}
	if err := s.publisher.Publish(ctx, events.ExchangeOrderEvents, evt); err != nil {
		return fmt.Errorf("publish order.paid: %w", err)
	}
	return nil
}
