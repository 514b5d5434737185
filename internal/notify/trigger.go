// Package notify raises warning notifications when a new reading breaches its target.
package notify

import (
	"context"
	"fmt"

	"campus-kpi-tracker/internal/events"
	"campus-kpi-tracker/internal/kpi"
	"campus-kpi-tracker/internal/metrics"
	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

const unknownLocation = "Unknown location"

// Store persists notifications
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Trigger inspects created readings and stores an alert for each breach
type Trigger struct {
	store Store
	log   *zap.Logger
}

func NewTrigger(store Store, log *zap.Logger) *Trigger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trigger{store: store, log: log.Named("notify")}
}

// Register subscribes the trigger to reading creation events
func (t *Trigger) Register(bus *events.Bus) {
	bus.Subscribe(events.ReadingCreatedName, func(ctx context.Context, evt events.Event) error {
		rc, ok := evt.(events.ReadingCreated)
		if !ok {
			return fmt.Errorf("unexpected event %T", evt)
		}
		t.OnReadingCreated(ctx, rc.Reading)
		return nil
	})
}

// OnReadingCreated stores an alert when r breaches a positive target.
// Store failures are logged and counted, never returned.
func (t *Trigger) OnReadingCreated(ctx context.Context, r models.MetricReading) *models.Notification {
	n, ok := BuildAlert(r)
	if !ok {
		return nil
	}
	if err := t.store.CreateNotification(ctx, n); err != nil {
		metrics.NotificationsFailed.Inc()
		t.log.Error("Notify: failed to store alert",
			zap.Uint("readingId", r.ID),
			zap.String("metric", string(r.Metric)),
			zap.Error(err))
		return nil
	}
	metrics.NotificationsCreated.WithLabelValues(string(r.Metric)).Inc()
	t.log.Info("Notify: alert created",
		zap.Uint("notificationId", n.ID),
		zap.String("metric", string(r.Metric)),
		zap.String("location", n.Location))
	return n
}

// BuildAlert returns the warning for r, or false when r is on track or has no target
func BuildAlert(r models.MetricReading) (*models.Notification, bool) {
	if r.Target <= 0 || !kpi.IsBreach(r.Actual, r.Target, r.Metric) {
		return nil, false
	}

	location := r.Location
	if location == "" {
		location = unknownLocation
	}

	return &models.Notification{
		Kind:  models.NotificationWarning,
		Title: fmt.Sprintf("%s usage exceeds target", kpi.PolicyFor(r.Metric).Label),
		Message: fmt.Sprintf("%s: Actual %s vs Target %s for %s %d.",
			location, kpi.FormatNumber(r.Actual), kpi.FormatNumber(r.Target), r.Month, r.Year),
		Metric:      r.Metric,
		Location:    location,
		ActualValue: r.Actual,
		TargetValue: r.Target,
	}, true
}
