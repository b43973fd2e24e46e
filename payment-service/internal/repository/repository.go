package repository

import (
	"context"
	"errors"

	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/domain"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("payment already exists for order")
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
	// CreatePayment inserts the record. The payments table carries a unique
	// constraint on order_id, so a second insert for the same order fails
	// with ErrDuplicatePayment.
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
	Close() error
	RunMigrations(cred *Credentials) error
}
