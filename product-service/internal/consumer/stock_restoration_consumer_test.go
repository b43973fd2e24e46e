package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/events"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/cache"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
	r "github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
)

type fakeRepo struct {
	stocks   map[int64]int32
	restored map[int64]bool
	err      error
}

func newFakeRepo(stocks map[int64]int32) *fakeRepo {
	return &fakeRepo{stocks: stocks, restored: make(map[int64]bool)}
}

func (f *fakeRepo) Close() error                       { return nil }
func (f *fakeRepo) RunMigrations(*r.Credentials) error { return nil }

func (f *fakeRepo) CreateProduct(context.Context, *domain.Product) error { return nil }

func (f *fakeRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	stock, ok := f.stocks[id]
	if !ok {
		return nil, r.ErrProductNotFound
	}
	return &domain.Product{ID: id, Stock: stock}, nil
}

func (f *fakeRepo) GetAllProducts(context.Context) ([]*domain.Product, error) { return nil, nil }

func (f *fakeRepo) UpdateStockVersioned(context.Context, int64, int32, int64) (bool, error) {
	return false, nil
}

func (f *fakeRepo) IncreaseStock(_ context.Context, id int64, quantity int32) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	stock, ok := f.stocks[id]
	if !ok {
		return nil, r.ErrProductNotFound
	}
	f.stocks[id] = stock + quantity
	return &domain.Product{ID: id, Stock: f.stocks[id]}, nil
}

func (f *fakeRepo) RestoreStock(_ context.Context, orderID int64, items []r.StockRestoration) ([]*domain.Product, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.restored[orderID] {
		return nil, false, nil
	}
	f.restored[orderID] = true

	var updated []*domain.Product
	for _, item := range items {
		stock, ok := f.stocks[item.ProductID]
		if !ok {
			continue
		}
		f.stocks[item.ProductID] = stock + item.Quantity
		updated = append(updated, &domain.Product{ID: item.ProductID, Stock: f.stocks[item.ProductID]})
	}
	return updated, true, nil
}

type fakeCache struct{}

func (fakeCache) Get(context.Context, int64) (*domain.Product, error) { return nil, cache.ErrCacheMiss }
func (fakeCache) Set(context.Context, *domain.Product) error          { return nil }
func (fakeCache) Delete(context.Context, int64) error                 { return nil }

type fakePublisher struct{}

func (fakePublisher) Publish(context.Context, string, events.Payload) error { return nil }

// fakeSubscriber records the subscription and hands the handler back.
type fakeSubscriber struct {
	sub     bus.Subscription
	handler bus.Handler
}

func (f *fakeSubscriber) Subscribe(_ context.Context, sub bus.Subscription, handler bus.Handler) error {
	f.sub = sub
	f.handler = handler
	return nil
}

func newConsumer(repo *fakeRepo) *StockRestorationConsumer {
	svc := service.NewProductService(repo, fakeCache{}, fakePublisher{}, zap.NewNop())
	return NewStockRestorationConsumer(svc, zap.NewNop())
}

func TestStart_SubscribesToOrderCancellations(t *testing.T) {
	c := newConsumer(newFakeRepo(map[int64]int32{}))
	sub := &fakeSubscriber{}

	require.NoError(t, c.Start(context.Background(), sub))

	assert.Equal(t, events.ExchangeOrderEvents, sub.sub.Exchange)
	assert.Equal(t, events.QueueProductStockRestoration, sub.sub.Queue)
	assert.Equal(t, events.TypeOrderCancelled, sub.sub.RoutingKey)
	assert.NotNil(t, sub.handler)
}

func TestHandleOrderCancelled_RestoresEveryItem(t *testing.T) {
	repo := newFakeRepo(map[int64]int32{1: 2, 2: 0})
	c := newConsumer(repo)

	err := c.handleOrderCancelled(context.Background(), events.OrderCancelledData{
		OrderID: 55,
		UserID:  1,
		Items: []events.OrderItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 1},
		},
		Reason: "payment failed",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(5), repo.stocks[1])
	assert.Equal(t, int32(1), repo.stocks[2])
}

// A redelivered order.cancelled finds the per-order claim and does not
// inflate stock a second time.
func TestHandleOrderCancelled_RedeliveryDoesNotDoubleRestore(t *testing.T) {
	repo := newFakeRepo(map[int64]int32{1: 2})
	c := newConsumer(repo)

	evt := events.OrderCancelledData{
		OrderID: 55,
		Items:   []events.OrderItem{{ProductID: 1, Quantity: 3}},
	}
	require.NoError(t, c.handleOrderCancelled(context.Background(), evt))
	require.NoError(t, c.handleOrderCancelled(context.Background(), evt))

	assert.Equal(t, int32(5), repo.stocks[1])
}

// A product that no longer exists is skipped so the message is not retried
// and the other items are not restored twice.
func TestHandleOrderCancelled_SkipsMissingProducts(t *testing.T) {
	repo := newFakeRepo(map[int64]int32{1: 2})
	c := newConsumer(repo)

	err := c.handleOrderCancelled(context.Background(), events.OrderCancelledData{
		OrderID: 56,
		Items: []events.OrderItem{
			{ProductID: 9, Quantity: 1},
			{ProductID: 1, Quantity: 2},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int32(4), repo.stocks[1])
}

func TestHandleOrderCancelled_InfrastructureFailureIsRetriable(t *testing.T) {
	repo := newFakeRepo(map[int64]int32{1: 2})
	repo.err = errors.New("db down")
	c := newConsumer(repo)

	err := c.handleOrderCancelled(context.Background(), events.OrderCancelledData{
		OrderID: 57,
		Items:   []events.OrderItem{{ProductID: 1, Quantity: 2}},
	})

	assert.Error(t, err)
}

func TestHandleOrderCancelled_WrongPayloadType(t *testing.T) {
	c := newConsumer(newFakeRepo(map[int64]int32{}))

	err := c.handleOrderCancelled(context.Background(), events.OrderPaidData{OrderID: 1})

	assert.Error(t, err)
}
