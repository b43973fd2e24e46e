// Package circuitbreaker provides shared breaker settings for
// service-to-service RPC calls.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// New returns a circuit breaker for the named downstream. The breaker opens
// once at least five recent requests have run and 60% of them failed, then
// probes again after ten seconds. Business failures carried inside successful
// responses do not count against the breaker.
func New[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})
}
