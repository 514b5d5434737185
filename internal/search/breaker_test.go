package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-kpi-tracker/internal/models"
)

type flakyIndexer struct {
	err   error
	calls int
}

func (f *flakyIndexer) IndexReadings(ctx context.Context, rs ...models.MetricReading) error {
	f.calls++
	return f.err
}

func (f *flakyIndexer) RemoveReading(ctx context.Context, id uint) error {
	f.calls++
	return f.err
}

func TestGuardedIndexerOpensAndRecovers(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	next := &flakyIndexer{err: errors.New("connection refused")}
	g := NewGuardedIndexer(next, cb, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := g.IndexReadings(ctx, models.MetricReading{ID: 1}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if open, _, _ := cb.GetStatus(); !open {
		t.Fatal("breaker should be open after two failures")
	}

	if err := g.RemoveReading(ctx, 1); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if next.calls != 2 {
		t.Fatalf("calls = %d, open breaker must not reach the engine", next.calls)
	}

	// half-open trial after the reset timeout
	now = now.Add(2 * time.Minute)
	next.err = nil
	if err := g.IndexReadings(ctx, models.MetricReading{ID: 2}); err != nil {
		t.Fatalf("trial call: %v", err)
	}
	if open, consecutive, total := cb.GetStatus(); open || consecutive != 0 || total != 2 {
		t.Fatalf("status = open:%v consecutive:%d total:%d", open, consecutive, total)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(3, time.Minute)
	cb.now = func() time.Time { return now }
	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}

	now = now.Add(2 * time.Minute)
	if !cb.CanProceed() {
		t.Fatal("expected half-open trial")
	}
	if !cb.RecordFailure() {
		t.Fatal("a failed trial should reopen the breaker immediately")
	}
	if cb.CanProceed() {
		t.Fatal("breaker should refuse calls after reopening")
	}
}
