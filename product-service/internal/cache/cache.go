package cache

import (
	"context"
	"errors"

	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
)

var ErrCacheMiss = errors.New("product not in cache")

// Cache is a read-through cache for product lookups. Stock mutations must
// invalidate the entry so readers never see a stale stock count for long.
type Cache interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}
