package repositories

import (
	"context"
	"errors"

	"kanban-board/config"
	"kanban-board/logging"
	"kanban-board/models"

	"github.com/sony/gobreaker"
)

// NewStoreBreaker returns the circuit breaker that guards every store call.
// Expected outcomes such as a missing document or a duplicate email do not
// count as failures, nor does a call abandoned because its request context
// was cancelled. Only driver and connectivity errors trip it.
func NewStoreBreaker(name string, cfg *config.Config) *gobreaker.CircuitBreaker {
	maxFailures := cfg.BreakerMaxFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout.Duration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, models.ErrNotFound) ||
				errors.Is(err, models.ErrDuplicateEmail) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
