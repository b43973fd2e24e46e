package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/events"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/cache"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

type stubRepo struct {
	product *domain.Product
	updated bool
}

func (s *stubRepo) Close() error                       { return nil }
func (s *stubRepo) RunMigrations(*r.Credentials) error { return nil }

func (s *stubRepo) CreateProduct(context.Context, *domain.Product) error { return nil }

func (s *stubRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, r.ErrProductNotFound
	}
	cp := *s.product
	return &cp, nil
}

func (s *stubRepo) GetAllProducts(context.Context) ([]*domain.Product, error) { return nil, nil }

func (s *stubRepo) UpdateStockVersioned(_ context.Context, _ int64, newStock int32, expectedVersion int64) (bool, error) {
	if s.product.Version != expectedVersion {
		return false, nil
	}
	s.product.Stock = newStock
	s.product.Version++
	s.updated = true
	return true, nil
}

func (s *stubRepo) IncreaseStock(_ context.Context, _ int64, quantity int32) (*domain.Product, error) {
	s.product.Stock += quantity
	s.product.Version++
	cp := *s.product
	return &cp, nil
}

func (s *stubRepo) RestoreStock(context.Context, int64, []r.StockRestoration) ([]*domain.Product, bool, error) {
	return nil, false, nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*domain.Product, error) { return nil, cache.ErrCacheMiss }
func (noopCache) Set(context.Context, *domain.Product) error          { return nil }
func (noopCache) Delete(context.Context, int64) error                 { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, events.Payload) error { return nil }

func newServer(repo *stubRepo) *ProductServiceServer {
	svc := service.NewProductService(repo, noopCache{}, noopPublisher{}, zap.NewNop())
	return NewProductServiceServer(svc, zap.NewNop())
}

func TestDecreaseStock_Success(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: 1, Name: "Sepatu", Price: 250, Stock: 10, Version: 1}}
	server := newServer(repo)

	resp, err := server.DecreaseStock(context.Background(), &pb.DecreaseStockRequest{
		ProductId: 1,
		Quantity:  4,
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "Sepatu", resp.Name)
	assert.Equal(t, float64(250), resp.Price)
	assert.Equal(t, int32(6), resp.Stock)
	assert.Equal(t, int64(2), resp.Version)
}

// Business failures travel inside the response, not as gRPC status errors.
func TestDecreaseStock_InsufficientStockIsNotAStatusError(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: 1, Stock: 1, Version: 1}}
	server := newServer(repo)

	resp, err := server.DecreaseStock(context.Background(), &pb.DecreaseStockRequest{
		ProductId: 1,
		Quantity:  5,
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "insufficient stock")
	assert.False(t, repo.updated)
}

func TestIncreaseStock_Success(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: 3, Stock: 2, Version: 1}}
	server := newServer(repo)

	resp, err := server.IncreaseStock(context.Background(), &pb.IncreaseStockRequest{
		ProductId: 3,
		Quantity:  5,
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int32(7), resp.Stock)
}

func TestIsBusinessError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		business bool
	}{
		{"not found", r.ErrProductNotFound, true},
		{"insufficient stock", service.ErrInsufficientStock, true},
		{"wrapped insufficient stock", errors.Join(errors.New("ctx"), service.ErrInsufficientStock), true},
		{"concurrency conflict", service.ErrConcurrencyConflict, true},
		{"invalid quantity", service.ErrInvalidQuantity, true},
		{"database down", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.business, isBusinessError(tt.err))
		})
	}
}
