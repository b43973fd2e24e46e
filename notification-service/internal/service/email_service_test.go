package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/domain"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
)

type MockRepository struct {
	inserted []*domain.Notification
	err      error
}

func (m *MockRepository) Insert(_ context.Context, notification *domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	cp := *notification
	m.inserted = append(m.inserted, &cp)
	return nil
}

func (m *MockRepository) ListByOrderID(_ context.Context, orderID int64) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range m.inserted {
		if n.OrderID == orderID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateIndexes(context.Context) error { return nil }

func newTestService(repo *MockRepository) *EmailService {
	return NewEmailService(repo, 0, zap.NewNop())
}

func TestSendOrderConfirmation(t *testing.T) {
	repo := &MockRepository{}
	svc := newTestService(repo)

	err := svc.SendOrderConfirmation(context.Background(), events.OrderCreatedData{
		OrderID: 42,
		UserID:  1,
		Items: []events.OrderItem{
			{ProductID: 1, Name: "Mechanical Keyboard", Price: 150, Quantity: 2},
		},
		TotalPrice: 300,
	})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	sent := repo.inserted[0]
	assert.Equal(t, domain.KindOrderConfirmation, sent.Kind)
	assert.Equal(t, int64(42), sent.OrderID)
	assert.Equal(t, int64(1), sent.UserID)
	assert.Contains(t, sent.Subject, "#42")
	assert.Contains(t, sent.Body, "Mechanical Keyboard")
	assert.Contains(t, sent.Body, "300.00")
	assert.False(t, sent.SentAt.IsZero())
}

func TestSendPaymentReceived(t *testing.T) {
	repo := &MockRepository{}
	svc := newTestService(repo)

	err := svc.SendPaymentReceived(context.Background(), events.OrderPaidData{
		OrderID:   42,
		PaymentID: 7,
		Amount:    300,
	})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, domain.KindPaymentReceived, repo.inserted[0].Kind)
	assert.Contains(t, repo.inserted[0].Body, "300.00")
	assert.Contains(t, repo.inserted[0].Body, "payment id 7")
}

func TestSendShippingUpdate(t *testing.T) {
	repo := &MockRepository{}
	svc := newTestService(repo)

	err := svc.SendShippingUpdate(context.Background(), events.DeliveryShippedData{
		OrderID:        42,
		TrackingNumber: "TKPD-000123",
	})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, domain.KindShippingUpdate, repo.inserted[0].Kind)
	assert.Contains(t, repo.inserted[0].Body, "TKPD-000123")
}

// A cancelled context aborts the send before anything goes out.
func TestSend_ContextCancelled(t *testing.T) {
	repo := &MockRepository{}
	svc := NewEmailService(repo, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.SendShippingUpdate(ctx, events.DeliveryShippedData{OrderID: 42})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.inserted)
}

// The email went out; a failed history write must not trigger a redelivery
// that would send it again.
func TestSend_HistoryFailureIsNotRetried(t *testing.T) {
	repo := &MockRepository{err: errors.New("mongo down")}
	svc := newTestService(repo)

	err := svc.SendPaymentReceived(context.Background(), events.OrderPaidData{OrderID: 42})
	assert.NoError(t, err)
}

func TestListByOrderID(t *testing.T) {
	repo := &MockRepository{}
	svc := newTestService(repo)

	require.NoError(t, svc.SendPaymentReceived(context.Background(), events.OrderPaidData{OrderID: 1}))
	require.NoError(t, svc.SendShippingUpdate(context.Background(), events.DeliveryShippedData{OrderID: 1}))
	require.NoError(t, svc.SendPaymentReceived(context.Background(), events.OrderPaidData{OrderID: 2}))

	notifications, err := svc.ListByOrderID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}
