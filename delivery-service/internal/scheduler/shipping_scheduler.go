// Package scheduler runs the durable PENDING to SHIPPED transition. Due
// times live in the database, so the poll loop doubles as the recovery scan:
// the first tick after a restart picks up whatever the previous process
// never shipped.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/delivery-service/internal/service"
)

type ShippingScheduler struct {
	svc      *service.DeliveryService
	interval time.Duration
	log      *zap.Logger
}

func NewShippingScheduler(svc *service.DeliveryService, interval time.Duration, log *zap.Logger) *ShippingScheduler {
	return &ShippingScheduler{
		svc:      svc,
		interval: interval,
		log:      log,
	}
}

// Run polls until the context is cancelled. The first pass runs immediately
// to recover deliveries that came due while the process was down.
func (s *ShippingScheduler) Run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("shipping scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ShippingScheduler) tick(ctx context.Context) {
	shipped, err := s.svc.ShipDueDeliveries(ctx, time.Now())
	if err != nil {
		s.log.Error("shipping pass failed", zap.Error(err))
		return
	}
	if shipped > 0 {
		s.log.Info("shipping pass completed", zap.Int("shipped", shipped))
	}
}
