package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker is refusing index calls
var ErrCircuitOpen = errors.New("search: circuit breaker open")

// CircuitBreaker stops calling the search engine after repeated failures
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration
	now              func() time.Time

	consecutiveFailures int
	totalFailures       int
	isOpen              bool
	lastFailureTime     time.Time

	mutex sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
	}
}

// RecordSuccess closes the breaker and clears the failure streak
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.consecutiveFailures = 0
	cb.isOpen = false
}

// RecordFailure opens the breaker once the streak reaches the threshold
func (cb *CircuitBreaker) RecordFailure() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.consecutiveFailures++
	cb.totalFailures++
	cb.lastFailureTime = cb.now()
	if cb.consecutiveFailures >= cb.failureThreshold && !cb.isOpen {
		cb.isOpen = true
		return true
	}
	return false
}

// CanProceed reports whether a call may be attempted. After resetTimeout an
// open breaker lets one trial call through (half-open).
func (cb *CircuitBreaker) CanProceed() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return true
	}
	if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.isOpen = false
		cb.consecutiveFailures = cb.failureThreshold - 1
		return true
	}
	return false
}

// GetStatus returns current circuit breaker status
func (cb *CircuitBreaker) GetStatus() (isOpen bool, consecutive int, total int) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.isOpen, cb.consecutiveFailures, cb.totalFailures
}

type indexer interface {
	IndexReadings(ctx context.Context, rs ...models.MetricReading) error
	RemoveReading(ctx context.Context, id uint) error
}

// GuardedIndexer short-circuits index calls while the search engine is failing
type GuardedIndexer struct {
	next    indexer
	breaker *CircuitBreaker
	log     *zap.Logger
}

func NewGuardedIndexer(next indexer, breaker *CircuitBreaker, log *zap.Logger) *GuardedIndexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &GuardedIndexer{next: next, breaker: breaker, log: log.Named("search")}
}

func (g *GuardedIndexer) IndexReadings(ctx context.Context, rs ...models.MetricReading) error {
	return g.call(func() error { return g.next.IndexReadings(ctx, rs...) })
}

func (g *GuardedIndexer) RemoveReading(ctx context.Context, id uint) error {
	return g.call(func() error { return g.next.RemoveReading(ctx, id) })
}

func (g *GuardedIndexer) call(fn func() error) error {
	if !g.breaker.CanProceed() {
		return ErrCircuitOpen
	}
	if err := fn(); err != nil {
		if g.breaker.RecordFailure() {
			g.log.Warn("Search: circuit breaker open, pausing index updates",
				zap.Duration("resetAfter", g.breaker.resetTimeout), zap.Error(err))
		}
		return err
	}
	g.breaker.RecordSuccess()
	return nil
}
