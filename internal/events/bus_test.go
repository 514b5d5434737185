package events

import (
	"context"
	"errors"
	"testing"

	"campus-kpi-tracker/internal/models"
)

func TestBusDeliversInOrderAndSwallowsErrors(t *testing.T) {
	bus := NewBus(nil)
	var calls []string

	bus.Subscribe(ReadingCreatedName, func(ctx context.Context, evt Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	bus.Subscribe(ReadingCreatedName, func(ctx context.Context, evt Event) error {
		rc, ok := evt.(ReadingCreated)
		if !ok {
			t.Fatalf("event type = %T", evt)
		}
		calls = append(calls, string(rc.Reading.Metric))
		return nil
	})
	bus.Subscribe("other", func(ctx context.Context, evt Event) error {
		calls = append(calls, "other")
		return nil
	})

	bus.Publish(context.Background(), ReadingCreated{Reading: models.MetricReading{Metric: models.MetricWater}})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "WATER" {
		t.Errorf("calls = %v, want [first WATER]", calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	NewBus(nil).Publish(context.Background(), ReadingCreated{})
}
