package repository

import (
	"context"
	"errors"

	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// StockRestoration is one line item of a cancelled order to put back.
type StockRestoration struct {
	ProductID int64
	Quantity  int32
}

type RepoInterface interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	// UpdateStockVersioned performs the conditional write of the optimistic
	// locking protocol: stock and version are updated only if the stored
	// version still equals expectedVersion. Returns false when another
	// writer won the race.
	UpdateStockVersioned(ctx context.Context, id int64, newStock int32, expectedVersion int64) (bool, error)
	// IncreaseStock unconditionally adds quantity back. Compensation only,
	// the quantity was previously removed by this system.
	IncreaseStock(ctx context.Context, id int64, quantity int32) (*domain.Product, error)
	// RestoreStock claims orderID and applies every item's increment in one
	// transaction. Returns false without touching stock when the order was
	// already restored; products that no longer exist are skipped.
	RestoreStock(ctx context.Context, orderID int64, items []StockRestoration) ([]*domain.Product, bool, error)
	Close() error
	RunMigrations(cred *Credentials) error
}
