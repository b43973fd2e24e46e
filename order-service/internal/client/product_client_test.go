package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

// fakeProductService scripts DecreaseStock responses per call.
type fakeProductService struct {
	decreaseResponses []*pb.DecreaseStockResponse
	decreaseErr       error
	decreaseCalls     int
	increaseResp      *pb.IncreaseStockResponse
	increaseErr       error
}

func (f *fakeProductService) DecreaseStock(_ context.Context, _ *pb.DecreaseStockRequest, _ ...grpc.CallOption) (*pb.DecreaseStockResponse, error) {
	if f.decreaseErr != nil {
		return nil, f.decreaseErr
	}
	idx := f.decreaseCalls
	if idx >= len(f.decreaseResponses) {
		idx = len(f.decreaseResponses) - 1
	}
	f.decreaseCalls++
	return f.decreaseResponses[idx], nil
}

func (f *fakeProductService) IncreaseStock(_ context.Context, _ *pb.IncreaseStockRequest, _ ...grpc.CallOption) (*pb.IncreaseStockResponse, error) {
	if f.increaseErr != nil {
		return nil, f.increaseErr
	}
	return f.increaseResp, nil
}

func newTestClient(fake *fakeProductService) *ProductClient {
	return NewProductClient(fake, time.Second, zap.NewNop())
}

func TestDecreaseStock_Success(t *testing.T) {
	fake := &fakeProductService{
		decreaseResponses: []*pb.DecreaseStockResponse{
			{Success: true, Name: "Sepatu", Price: 250, Stock: 7, Version: 2},
		},
	}
	c := newTestClient(fake)

	reservation, err := c.DecreaseStock(context.Background(), 7, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(7), reservation.ProductID)
	assert.Equal(t, "Sepatu", reservation.Name)
	assert.Equal(t, float64(250), reservation.Price)
	assert.Equal(t, int32(3), reservation.Quantity)
	assert.Equal(t, 1, fake.decreaseCalls)
}

// A lost optimistic-lock race is retried; the second attempt wins here.
func TestDecreaseStock_RetriesConcurrencyConflict(t *testing.T) {
	fake := &fakeProductService{
		decreaseResponses: []*pb.DecreaseStockResponse{
			{Success: false, Error: "concurrency conflict: stock was updated by another transaction"},
			{Success: true, Name: "Sepatu", Price: 250},
		},
	}
	c := newTestClient(fake)

	reservation, err := c.DecreaseStock(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.NotNil(t, reservation)
	assert.Equal(t, 2, fake.decreaseCalls)
}

func TestDecreaseStock_ConflictRetriesAreBounded(t *testing.T) {
	fake := &fakeProductService{
		decreaseResponses: []*pb.DecreaseStockResponse{
			{Success: false, Error: "concurrency conflict: stock was updated by another transaction"},
		},
	}
	c := newTestClient(fake)

	_, err := c.DecreaseStock(context.Background(), 7, 1)

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, maxConflictRetries, fake.decreaseCalls)
}

// Business failures other than a conflict are terminal, no retry.
func TestDecreaseStock_InsufficientStockIsNotRetried(t *testing.T) {
	fake := &fakeProductService{
		decreaseResponses: []*pb.DecreaseStockResponse{
			{Success: false, Error: "insufficient stock: have 1, want 5"},
		},
	}
	c := newTestClient(fake)

	_, err := c.DecreaseStock(context.Background(), 7, 5)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, fake.decreaseCalls)
}

func TestDecreaseStock_NotFound(t *testing.T) {
	fake := &fakeProductService{
		decreaseResponses: []*pb.DecreaseStockResponse{
			{Success: false, Error: "product not found"},
		},
	}
	c := newTestClient(fake)

	_, err := c.DecreaseStock(context.Background(), 404, 1)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDecreaseStock_TransportError(t *testing.T) {
	fake := &fakeProductService{decreaseErr: errors.New("connection refused")}
	c := newTestClient(fake)

	_, err := c.DecreaseStock(context.Background(), 7, 1)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConcurrencyConflict)
	assert.Equal(t, 0, fake.decreaseCalls)
}

func TestIncreaseStock_Success(t *testing.T) {
	fake := &fakeProductService{increaseResp: &pb.IncreaseStockResponse{Success: true, Stock: 12}}
	c := newTestClient(fake)

	assert.NoError(t, c.IncreaseStock(context.Background(), 7, 2))
}

func TestIncreaseStock_BusinessFailure(t *testing.T) {
	fake := &fakeProductService{increaseResp: &pb.IncreaseStockResponse{Success: false, Error: "product not found"}}
	c := newTestClient(fake)

	err := c.IncreaseStock(context.Background(), 404, 2)

	assert.ErrorIs(t, err, ErrProductNotFound)
}
