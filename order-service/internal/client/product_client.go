// Package client holds the synchronous gRPC client to the product service.
// Stock reservation is the one synchronous call in the whole choreography, so
// it carries the protections the async paths get from the bus: a per-call
// timeout, a circuit breaker, and a bounded retry on optimistic-lock races.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/pkg/circuitbreaker"
	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

const (
	maxConflictRetries = 3
	conflictBackoff    = 50 * time.Millisecond
)

// StockReservation is what a successful DecreaseStock call returns: the data
// needed to price the order line.
type StockReservation struct {
	ProductID int64
	Name      string
	Price     float64
	Quantity  int32
}

type ProductClient struct {
	client          pb.ProductServiceClient
	decreaseBreaker *gobreaker.CircuitBreaker[*pb.DecreaseStockResponse]
	increaseBreaker *gobreaker.CircuitBreaker[*pb.IncreaseStockResponse]
	timeout         time.Duration
	log             *zap.Logger
}

func NewProductClient(client pb.ProductServiceClient, timeout time.Duration, log *zap.Logger) *ProductClient {
	return &ProductClient{
		client:          client,
		decreaseBreaker: circuitbreaker.New[*pb.DecreaseStockResponse]("product-service.decrease-stock"),
		increaseBreaker: circuitbreaker.New[*pb.IncreaseStockResponse]("product-service.increase-stock"),
		timeout:         timeout,
		log:             log,
	}
}

// DecreaseStock reserves quantity units of a product. A lost optimistic-lock
// race is retried up to maxConflictRetries times with a short backoff before
// it surfaces as ErrConcurrencyConflict; business failures are returned as
// sentinel errors, transport failures as-is.
func (c *ProductClient) DecreaseStock(ctx context.Context, productID int64, quantity int32) (*StockReservation, error) {
	var lastErr error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		reservation, err := c.decreaseOnce(ctx, productID, quantity)
		if !errors.Is(err, ErrConcurrencyConflict) {
			return reservation, err
		}

		lastErr = err
		c.log.Warn("stock reservation lost optimistic-lock race, retrying",
			zap.Int64("product_id", productID),
			zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * conflictBackoff):
		}
	}
	return nil, lastErr
}

func (c *ProductClient) decreaseOnce(ctx context.Context, productID int64, quantity int32) (*StockReservation, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.decreaseBreaker.Execute(func() (*pb.DecreaseStockResponse, error) {
		return c.client.DecreaseStock(callCtx, &pb.DecreaseStockRequest{
			ProductId: productID,
			Quantity:  quantity,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("decrease stock for product %d: %w", productID, err)
	}

	if !resp.Success {
		return nil, businessError(resp.Error)
	}

	return &StockReservation{
		ProductID: productID,
		Name:      resp.Name,
		Price:     resp.Price,
		Quantity:  quantity,
	}, nil
}

// IncreaseStock releases a previous reservation. Used on the compensation
// path, so it never retries: the caller logs and moves on.
func (c *ProductClient) IncreaseStock(ctx context.Context, productID int64, quantity int32) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.increaseBreaker.Execute(func() (*pb.IncreaseStockResponse, error) {
		return c.client.IncreaseStock(callCtx, &pb.IncreaseStockRequest{
			ProductId: productID,
			Quantity:  quantity,
		})
	})
	if err != nil {
		return fmt.Errorf("increase stock for product %d: %w", productID, err)
	}

	if !resp.Success {
		return businessError(resp.Error)
	}
	return nil
}

// businessError maps the error string of a success=false response back to a
// sentinel. The product service puts its own sentinel messages in that field,
// so substring matching is the wire contract here.
func businessError(msg string) error {
	switch {
	case strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: %s", ErrProductNotFound, msg)
	case strings.Contains(msg, "insufficient stock"):
		return fmt.Errorf("%w: %s", ErrInsufficientStock, msg)
	case strings.Contains(msg, "concurrency conflict"):
		return fmt.Errorf("%w: %s", ErrConcurrencyConflict, msg)
	default:
		return errors.New(msg)
	}
}
