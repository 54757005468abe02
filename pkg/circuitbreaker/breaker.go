// Package circuitbreaker wraps sony/gobreaker with settings shared by
// the storefront's cache lookups.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// New returns a breaker that trips after five consecutive failures and
// probes again after 30 seconds. isSuccessful lets callers keep
// domain-level misses (e.g. cache miss) from counting as failures;
// pass nil to treat every error as a failure.
func New[T any](name string, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isSuccessful,
	})
}
