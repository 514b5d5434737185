package database

import (
	"context"
	"fmt"

	"campus-kpi-tracker/internal/models"
)

// TargetFilter narrows target listings. Zero values mean "any".
type TargetFilter struct {
	Metric   models.MetricKind
	Year     int
	Location string
}

func (gdb *GormDB) CreateTarget(ctx context.Context, t *models.Target) error {
	if err := gdb.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	return nil
}

func (gdb *GormDB) GetTarget(ctx context.Context, id uint) (*models.Target, error) {
	var t models.Target
	if err := gdb.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (gdb *GormDB) UpdateTarget(ctx context.Context, t *models.Target) error {
	if err := gdb.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("update target %d: %w", t.ID, err)
	}
	return nil
}

func (gdb *GormDB) DeleteTarget(ctx context.Context, id uint) error {
	res := gdb.db.WithContext(ctx).Delete(&models.Target{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete target %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListTargets returns targets newest year first
func (gdb *GormDB) ListTargets(ctx context.Context, f TargetFilter) ([]models.Target, error) {
	q := gdb.db.WithContext(ctx)
	if f.Metric != "" {
		q = q.Where("metric = ?", f.Metric)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	var out []models.Target
	if err := q.Order("year DESC").Order("metric ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return out, nil
}

// FindTarget returns the newest target for an exact (metric, year, location).
// An empty location selects the global target.
func (gdb *GormDB) FindTarget(ctx context.Context, metric models.MetricKind, year int, location string) (*models.Target, error) {
	var t models.Target
	err := gdb.db.WithContext(ctx).
		Where("metric = ? AND year = ? AND location = ?", metric, year, location).
		Order("id DESC").
		First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}
