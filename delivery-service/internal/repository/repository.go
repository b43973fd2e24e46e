package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rakharan/tokopaedi-microservices/delivery-service/internal/domain"
)

var (
	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrDuplicateDelivery = errors.New("delivery already exists for order")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type RepoInterface interface {
	// CreateDelivery inserts the record. The deliveries table carries a
	// unique constraint on order_id, so a redelivered order.paid fails with
	// ErrDuplicateDelivery instead of creating a second shipment.
	CreateDelivery(ctx context.Context, delivery *domain.Delivery) error
	GetDeliveryByOrderID(ctx context.Context, orderID int64) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context) ([]*domain.Delivery, error)
	// ListDueDeliveries returns PENDING deliveries whose ship_due_at has
	// passed. After a restart this naturally re-surfaces transitions the
	// previous process never ran.
	ListDueDeliveries(ctx context.Context, now time.Time) ([]*domain.Delivery, error)
	// MarkShipped flips one delivery to SHIPPED, conditional on it still
	// being PENDING. Returns false when another scheduler pass won.
	MarkShipped(ctx context.Context, id int64, trackingNumber string) (bool, error)
	Close() error
	RunMigrations(cred *Credentials) error
}
