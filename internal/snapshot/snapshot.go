package snapshot

import (
	"context"
	"errors"
	"fmt"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/metrics"
	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

type Store interface {
	LatestReading(ctx context.Context, f database.ReadingFilter) (*models.MetricReading, error)
	CreateSnapshots(ctx context.Context, snaps []models.KpiSnapshot) error
	ListSnapshots(ctx context.Context, f database.SnapshotFilter) ([]models.KpiSnapshot, error)
}

// Service handles KPI snapshot operations
type Service struct {
	store Store
	clock clock.Clock
	log   *zap.Logger
}

// NewService creates a new snapshot service
func NewService(store Store, c clock.Clock, log *zap.Logger) *Service {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, clock: c, log: log.Named("snapshot")}
}

// Generate copies the latest reading of each metric for the period into
// immutable snapshots. Metrics without a reading are skipped.
func (s *Service) Generate(ctx context.Context, month string, year int) ([]models.KpiSnapshot, error) {
	normalized, ok := models.NormalizeMonth(month)
	if !ok {
		return nil, models.Invalid("month", "unknown month %q", month)
	}
	if year <= 0 {
		return nil, models.Invalid("year", "is required")
	}

	generatedAt := s.clock.Now().UTC()
	snaps := make([]models.KpiSnapshot, 0, len(models.MetricKinds))
	for _, kind := range models.MetricKinds {
		r, err := s.store.LatestReading(ctx, database.ReadingFilter{Metric: kind, Month: normalized, Year: year})
		if errors.Is(err, models.ErrNotFound) {
			s.log.Debug("Snapshot: no reading, skipping", zap.String("metric", string(kind)))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("latest %s reading: %w", kind, err)
		}
		snaps = append(snaps, models.KpiSnapshot{
			Metric:      kind,
			Month:       normalized,
			Year:        year,
			Actual:      r.Actual,
			Target:      r.Target,
			Status:      r.Status,
			Location:    r.Location,
			GeneratedAt: generatedAt,
		})
	}

	if err := s.store.CreateSnapshots(ctx, snaps); err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		metrics.SnapshotsGenerated.WithLabelValues(string(snap.Metric)).Inc()
	}
	s.log.Info("Snapshot: generated",
		zap.String("period", fmt.Sprintf("%s %d", normalized, year)),
		zap.Int("count", len(snaps)))
	return snaps, nil
}

// GeneratePrevious snapshots the calendar month before the clock's current month
func (s *Service) GeneratePrevious(ctx context.Context) ([]models.KpiSnapshot, error) {
	month, year := clock.PreviousPeriod(s.clock)
	return s.Generate(ctx, month, year)
}

// List returns stored snapshots, newest first
func (s *Service) List(ctx context.Context, f database.SnapshotFilter) ([]models.KpiSnapshot, error) {
	out, err := s.store.ListSnapshots(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.KpiSnapshot{}
	}
	return out, nil
}
