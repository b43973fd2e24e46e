package repository

import (
	"context"

	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/domain"
)

type NotificationRepository interface {
	Insert(ctx context.Context, notification *domain.Notification) error
	ListByOrderID(ctx context.Context, orderID int64) ([]*domain.Notification, error)
	CreateIndexes(ctx context.Context) error
}
