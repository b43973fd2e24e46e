package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/domain"
	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

type EmailService struct {
	repo    repository.NotificationRepository
	latency time.Duration
	log     *zap.Logger
}

func NewEmailService(repo repository.NotificationRepository, latency time.Duration, log *zap.Logger) *EmailService {
	return &EmailService{
		repo:    repo,
		latency: latency,
		log:     log,
	}
}

// SendOrderConfirmation emails the buyer the order summary. The send is
// mocked; the notification itself is persisted as history.
func (s *EmailService) SendOrderConfirmation(ctx context.Context, data events.OrderCreatedData) error {
	var lines []string
	for _, item := range data.Items {
		lines = append(lines, fmt.Sprintf("- %s x%d @ %.2f", item.Name, item.Quantity, item.Price))
	}
	subject := fmt.Sprintf("Order #%d confirmed", data.OrderID)
	body := fmt.Sprintf("Thank you for your order!\n%s\nTotal: %.2f", strings.Join(lines, "\n"), data.TotalPrice)

	return s.send(ctx, &domain.Notification{
		OrderID: data.OrderID,
		UserID:  data.UserID,
		Kind:    domain.KindOrderConfirmation,
		Subject: subject,
		Body:    body,
	})
}

// SendPaymentReceived emails the buyer the payment receipt.
func (s *EmailService) SendPaymentReceived(ctx context.Context, data events.OrderPaidData) error {
	subject := fmt.Sprintf("Payment received for order #%d", data.OrderID)
	body := fmt.Sprintf("We received your payment of %.2f (payment id %d).", data.Amount, data.PaymentID)

	return s.send(ctx, &domain.Notification{
		OrderID: data.OrderID,
		Kind:    domain.KindPaymentReceived,
		Subject: subject,
		Body:    body,
	})
}

// SendShippingUpdate emails the buyer the tracking number.
func (s *EmailService) SendShippingUpdate(ctx context.Context, data events.DeliveryShippedData) error {
	subject := fmt.Sprintf("Order #%d has shipped", data.OrderID)
	body := fmt.Sprintf("Your order is on its way! Tracking number: %s", data.TrackingNumber)

	return s.send(ctx, &domain.Notification{
		OrderID: data.OrderID,
		Kind:    domain.KindShippingUpdate,
		Subject: subject,
		Body:    body,
	})
}

func (s *EmailService) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.Notification, error) {
	return s.repo.ListByOrderID(ctx, orderID)
}

func (s *EmailService) send(ctx context.Context, notification *domain.Notification) error {
	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.log.Info("Sent email",
		zap.String("kind", string(notification.Kind)),
		zap.Int64("order_id", notification.OrderID),
		zap.String("subject", notification.Subject),
	)

	notification.SentAt = time.Now()
	if err := s.repo.Insert(ctx, notification); err != nil {
		// The email already went out; losing the history row is not worth a
		// redelivery that would send it again.
		s.log.Error("Failed to record notification", zap.Error(err), zap.Int64("order_id", notification.OrderID))
	}
	return nil
}
