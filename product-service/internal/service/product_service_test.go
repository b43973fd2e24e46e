package service

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
)

// MockRepository implements r.RepoInterface with versioned semantics: the
// conditional update only succeeds when the expected version matches, and
// restorations are claimed once per order.
type MockRepository struct {
	products map[int64]*domain.Product
	restored map[int64]bool
	err      error
}

func NewMockRepository(products ...*domain.Product) *MockRepository {
	m := &MockRepository{
		products: make(map[int64]*domain.Product),
		restored: make(map[int64]bool),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockRepository) Close() error                       { return nil }
func (m *MockRepository) RunMigrations(*r.Credentials) error { return nil }

func (m *MockRepository) CreateProduct(_ context.Context, product *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	product.ID = int64(len(m.products) + 1)
	product.Version = 1
	m.products[product.ID] = product
	return nil
}

func (m *MockRepository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, r.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) GetAllProducts(_ context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockRepository) UpdateStockVersioned(_ context.Context, id int64, newStock int32, expectedVersion int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.products[id]
	if !ok || p.Version != expectedVersion {
		return false, nil
	}
	p.Stock = newStock
	p.Version++
	return true, nil
}

func (m *MockRepository) IncreaseStock(_ context.Context, id int64, quantity int32) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, r.ErrProductNotFound
	}
	p.Stock += quantity
	p.Version++
	cp := *p
	return &cp, nil
}

func (m *MockRepository) RestoreStock(_ context.Context, orderID int64, items []r.StockRestoration) ([]*domain.Product, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	if m.restored[orderID] {
		return nil, false, nil
	}
	m.restored[orderID] = true

	var updated []*domain.Product
	for _, item := range items {
		p, ok := m.products[item.ProductID]
		if !ok {
			continue
		}
		p.Stock += item.Quantity
		p.Version++
		cp := *p
		updated = append(updated, &cp)
	}
	return updated, true, nil
}

// MockCache records invalidations and never hits.
type MockCache struct {
	deleted []int64
	stored  []int64
}

func (m *MockCache) Get(_ context.Context, _ int64) (*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}

func (m *MockCache) Set(_ context.Context, product *domain.Product) error {
	m.stored = append(m.stored, product.ID)
	return nil
}

func (m *MockCache) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// MockPublisher records published events.
type MockPublisher struct {
	published []events.Payload
	err       error
}

func (m *MockPublisher) Publish(_ context.Context, _ string, payload events.Payload) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, payload)
	return nil
}

func newTestService(repo r.RepoInterface) (*ProductService, *MockCache, *MockPublisher) {
	c := &MockCache{}
	p := &MockPublisher{}
	return NewProductService(repo, c, p, zap.NewNop()), c, p
}

func TestDecreaseStock_Success(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Name: "Sepatu", Price: 250, Stock: 10, Version: 1})
	svc, mockCache, publisher := newTestService(repo)

	product, err := svc.DecreaseStock(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, int32(7), product.Stock)
	assert.Equal(t, int64(2), product.Version)
	assert.Equal(t, []int64{1}, mockCache.deleted)
	require.Len(t, publisher.published, 1)

	evt, ok := publisher.published[0].(events.ProductUpdatedData)
	require.True(t, ok)
	assert.Equal(t, int64(1), evt.ProductID)
	require.NotNil(t, evt.Changes.Stock)
	assert.Equal(t, int32(7), *evt.Changes.Stock)
}

func TestDecreaseStock_InsufficientStock(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 1})
	svc, _, publisher := newTestService(repo)

	product, err := svc.DecreaseStock(context.Background(), 1, 5)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, product)
	assert.Empty(t, publisher.published)

	// The row is untouched.
	stored, getErr := repo.GetProduct(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, int32(2), stored.Stock)
	assert.Equal(t, int64(1), stored.Version)
}

func TestDecreaseStock_InvalidQuantity(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 10, Version: 1})
	svc, _, _ := newTestService(repo)

	for _, qty := range []int32{0, -1} {
		_, err := svc.DecreaseStock(context.Background(), 1, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestDecreaseStock_NotFound(t *testing.T) {
	repo := NewMockRepository()
	svc, _, _ := newTestService(repo)

	_, err := svc.DecreaseStock(context.Background(), 42, 1)

	assert.ErrorIs(t, err, r.ErrProductNotFound)
}

// conflictingRepo bumps the version between the read and the conditional
// write, simulating a concurrent reservation winning the race.
type conflictingRepo struct {
	*MockRepository
}

func (c *conflictingRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := c.MockRepository.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.MockRepository.products[id].Version++
	return p, nil
}

func TestDecreaseStock_ConcurrencyConflict(t *testing.T) {
	repo := &conflictingRepo{NewMockRepository(&domain.Product{ID: 1, Stock: 10, Version: 1})}
	svc, mockCache, publisher := newTestService(repo)

	product, err := svc.DecreaseStock(context.Background(), 1, 3)

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Nil(t, product)
	assert.Empty(t, mockCache.deleted)
	assert.Empty(t, publisher.published)

	// The loser left the stock value untouched.
	stored := repo.MockRepository.products[1]
	assert.Equal(t, int32(10), stored.Stock)
}

// Two reservations racing for the last units: exactly one wins, and versions
// only ever move forward.
func TestDecreaseStock_ExactlyOneWinner(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 5, Version: 1})
	svc, _, _ := newTestService(repo)

	// First caller read version 1 and commits.
	first, err := svc.DecreaseStock(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(0), first.Stock)
	assert.Equal(t, int64(2), first.Version)

	// Second caller raced against the same stock and loses on availability.
	_, err = svc.DecreaseStock(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	stored := repo.products[1]
	assert.Equal(t, int32(0), stored.Stock)
	assert.Equal(t, int64(2), stored.Version)
}

func TestIncreaseStock_Success(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 3})
	svc, mockCache, publisher := newTestService(repo)

	product, err := svc.IncreaseStock(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Equal(t, int32(6), product.Stock)
	assert.Equal(t, int64(4), product.Version)
	assert.Equal(t, []int64{1}, mockCache.deleted)
	assert.Len(t, publisher.published, 1)
}

func TestIncreaseStock_InvalidQuantity(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 1})
	svc, _, _ := newTestService(repo)

	_, err := svc.IncreaseStock(context.Background(), 1, 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDecreaseStock_PublishFailureDoesNotUndo(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 10, Version: 1})
	c := &MockCache{}
	p := &MockPublisher{err: errors.New("broker down")}
	svc := NewProductService(repo, c, p, zap.NewNop())

	product, err := svc.DecreaseStock(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, int32(8), product.Stock)
	assert.Equal(t, int32(8), repo.products[1].Stock)
}

func TestRestoreOrderStock_RestoresEveryItem(t *testing.T) {
	repo := NewMockRepository(
		&domain.Product{ID: 1, Stock: 2, Version: 1},
		&domain.Product{ID: 2, Stock: 0, Version: 1},
	)
	svc, mockCache, publisher := newTestService(repo)

	err := svc.RestoreOrderStock(context.Background(), 55, []r.StockRestoration{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, int32(5), repo.products[1].Stock)
	assert.Equal(t, int32(1), repo.products[2].Stock)
	assert.ElementsMatch(t, []int64{1, 2}, mockCache.deleted)
	assert.Len(t, publisher.published, 2)
}

// A redelivered order.cancelled finds the claim and leaves stock alone.
func TestRestoreOrderStock_RedeliveryDoesNotDoubleRestore(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 1})
	svc, _, publisher := newTestService(repo)

	items := []r.StockRestoration{{ProductID: 1, Quantity: 3}}
	require.NoError(t, svc.RestoreOrderStock(context.Background(), 55, items))
	require.NoError(t, svc.RestoreOrderStock(context.Background(), 55, items))

	assert.Equal(t, int32(5), repo.products[1].Stock)
	assert.Len(t, publisher.published, 1)
}

// A vanished product is skipped without failing the whole restoration.
func TestRestoreOrderStock_SkipsMissingProducts(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 1})
	svc, _, _ := newTestService(repo)

	err := svc.RestoreOrderStock(context.Background(), 56, []r.StockRestoration{
		{ProductID: 9, Quantity: 1},
		{ProductID: 1, Quantity: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, int32(4), repo.products[1].Stock)
}

func TestRestoreOrderStock_InfrastructureFailureIsRetriable(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 1, Stock: 2, Version: 1})
	repo.err = errors.New("db down")
	svc, _, _ := newTestService(repo)

	err := svc.RestoreOrderStock(context.Background(), 57, []r.StockRestoration{{ProductID: 1, Quantity: 2}})

	assert.Error(t, err)
}

// hitCache returns a canned product without touching the repository.
type hitCache struct {
	MockCache
	product *domain.Product
}

func (h *hitCache) Get(_ context.Context, _ int64) (*domain.Product, error) {
	return h.product, nil
}

func TestGetProduct_CacheHit(t *testing.T) {
	repo := NewMockRepository()
	repo.err = errors.New("repo must not be called")
	cached := &domain.Product{ID: 7, Name: "Tas"}
	svc := NewProductService(repo, &hitCache{product: cached}, &MockPublisher{}, zap.NewNop())

	product, err := svc.GetProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, cached, product)
}

func TestGetProduct_CacheMissFillsCache(t *testing.T) {
	repo := NewMockRepository(&domain.Product{ID: 7, Name: "Tas", Version: 1})
	svc, mockCache, _ := newTestService(repo)

	product, err := svc.GetProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, []int64{7}, mockCache.stored)
}
