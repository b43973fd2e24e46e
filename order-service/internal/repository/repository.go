package repository

import (
	"context"
	"errors"

	"github.com/rakharan/tokopaedi-microservices/order-service/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type RepoInterface interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	// UpdateOrderStatus moves an order between statuses conditionally: the
	// write only lands if the stored status still equals from. Returns false
	// when the order was in a different status by the time the write ran.
	UpdateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
	Close() error
	RunMigrations(cred *Credentials) error
}
