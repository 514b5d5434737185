package database

import (
	"context"
	"fmt"

	"campus-kpi-tracker/internal/models"
)

// SnapshotFilter narrows snapshot listings. Zero values mean "any".
type SnapshotFilter struct {
	Metric   models.MetricKind
	Year     int
	Month    string
	Location string
}

// CreateSnapshots inserts a batch of snapshots in one transaction
func (gdb *GormDB) CreateSnapshots(ctx context.Context, snaps []models.KpiSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	if err := gdb.db.WithContext(ctx).Create(&snaps).Error; err != nil {
		return fmt.Errorf("create snapshots: %w", err)
	}
	return nil
}

// ListSnapshots returns snapshots newest first
func (gdb *GormDB) ListSnapshots(ctx context.Context, f SnapshotFilter) ([]models.KpiSnapshot, error) {
	q := gdb.db.WithContext(ctx)
	if f.Metric != "" {
		q = q.Where("metric = ?", f.Metric)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Month != "" {
		q = q.Where("month = ?", f.Month)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	var out []models.KpiSnapshot
	if err := q.Order("generated_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}
