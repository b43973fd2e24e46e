package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/events"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/cache"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
)

// Publisher is the slice of the bus client this service needs.
type Publisher interface {
	Publish(ctx context.Context, exchange string, payload events.Payload) error
}

type ProductService struct {
	repo      r.RepoInterface
	cache     cache.Cache
	publisher Publisher
	log       *zap.Logger
}

func NewProductService(repo r.RepoInterface, c cache.Cache, publisher Publisher, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		log:       log,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, product); err != nil {
		s.log.Warn("cache set failed", zap.Int64("product_id", product.ID), zap.Error(err))
	}
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if product, err := s.cache.Get(ctx, id); err == nil {
		return product, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache get failed", zap.Int64("product_id", id), zap.Error(err))
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, product); err != nil {
		s.log.Warn("cache set failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

// DecreaseStock reserves quantity units of a product under optimistic
// concurrency control: read stock and version, verify availability, then
// write conditionally on the version being unchanged. A lost race surfaces
// as ErrConcurrencyConflict and leaves the row untouched.
func (s *ProductService) DecreaseStock(ctx context.Context, id int64, quantity int32) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, product.Stock, quantity)
	}

	newStock := product.Stock - quantity
	ok, err := s.repo.UpdateStockVersioned(ctx, id, newStock, product.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrencyConflict
	}

	product.Stock = newStock
	product.Version++

	s.invalidate(ctx, id)
	s.publishStockChange(ctx, product)
	return product, nil
}

// IncreaseStock adds quantity back unconditionally. It is the compensation
// path for cancelled or rolled-back orders and does not use the versioned
// check: it only ever restores stock this system removed.
func (s *ProductService) IncreaseStock(ctx context.Context, id int64, quantity int32) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.repo.IncreaseStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.publishStockChange(ctx, product)
	return product, nil
}

// RestoreOrderStock puts every item of a cancelled order back in stock,
// at most once per order: the per-order claim and all increments commit in
// one transaction, so a redelivered or half-failed message never restores
// an item twice.
func (s *ProductService) RestoreOrderStock(ctx context.Context, orderID int64, items []r.StockRestoration) error {
	updated, claimed, err := s.repo.RestoreStock(ctx, orderID, items)
	if err != nil {
		return err
	}
	if !claimed {
		s.log.Info("stock already restored for order", zap.Int64("order_id", orderID))
		return nil
	}
	if len(updated) < len(items) {
		// A vanished product cannot be restored; the claim stands so the
		// message is not retried.
		s.log.Error("some products could not be restored",
			zap.Int64("order_id", orderID),
			zap.Int("requested", len(items)),
			zap.Int("restored", len(updated)))
	}

	for _, product := range updated {
		s.invalidate(ctx, product.ID)
		s.publishStockChange(ctx, product)
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("cache invalidation failed", zap.Int64("product_id", id), zap.Error(err))
	}
}

// publishStockChange announces the mutation. The event is informational, a
// publish failure does not undo the committed stock change.
func (s *ProductService) publishStockChange(ctx context.Context, product *domain.Product) {
	stock := product.Stock
	price := product.Price
	evt := events.ProductUpdatedData{
		ProductID: product.ID,
		Changes: events.ProductChanges{
			Stock: &stock,
			Price: &price,
		},
	}
	if err := s.publisher.Publish(ctx, events.ExchangeProductEvents, evt); err != nil {
		s.log.Error("failed to publish product.updated",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
	}
}
