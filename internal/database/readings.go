package database

import (
	"context"
	"fmt"

	"campus-kpi-tracker/internal/models"

	"gorm.io/gorm"
)

// ReadingFilter narrows reading queries. Zero values mean "any".
// Months matches any of the listed months; Month is folded into it.
type ReadingFilter struct {
	Metric   models.MetricKind
	Month    string
	Months   []string
	Year     int
	Location string
}

func (f ReadingFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Metric != "" {
		q = q.Where("metric = ?", f.Metric)
	}
	if f.Month != "" {
		q = q.Where("month = ?", f.Month)
	}
	if len(f.Months) > 0 {
		q = q.Where("month IN ?", f.Months)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	return q
}

// CreateReading inserts a reading
func (gdb *GormDB) CreateReading(ctx context.Context, r *models.MetricReading) error {
	if err := gdb.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create reading: %w", err)
	}
	return nil
}

// GetReading loads a reading by id
func (gdb *GormDB) GetReading(ctx context.Context, id uint) (*models.MetricReading, error) {
	var r models.MetricReading
	if err := gdb.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// UpdateReading saves every column of an existing reading
func (gdb *GormDB) UpdateReading(ctx context.Context, r *models.MetricReading) error {
	if err := gdb.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("update reading %d: %w", r.ID, err)
	}
	return nil
}

// DeleteReading removes a reading by id
func (gdb *GormDB) DeleteReading(ctx context.Context, id uint) error {
	res := gdb.db.WithContext(ctx).Delete(&models.MetricReading{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete reading %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListReadings returns readings newest period first, for API listings
func (gdb *GormDB) ListReadings(ctx context.Context, f ReadingFilter) ([]models.MetricReading, error) {
	var out []models.MetricReading
	err := f.apply(gdb.db.WithContext(ctx)).
		Order("year DESC").Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return out, nil
}

// FindReadings returns readings in insertion order, which ranking relies on
func (gdb *GormDB) FindReadings(ctx context.Context, f ReadingFilter) ([]models.MetricReading, error) {
	var out []models.MetricReading
	if err := f.apply(gdb.db.WithContext(ctx)).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find readings: %w", err)
	}
	return out, nil
}

// LatestReading returns the most recently created reading matching f
func (gdb *GormDB) LatestReading(ctx context.Context, f ReadingFilter) (*models.MetricReading, error) {
	var r models.MetricReading
	err := f.apply(gdb.db.WithContext(ctx)).
		Order("created_at DESC").Order("id DESC").
		First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// CountReadingsByMetric powers the admin stats endpoint
func (gdb *GormDB) CountReadingsByMetric(ctx context.Context) (map[models.MetricKind]int64, error) {
	var rows []struct {
		Metric models.MetricKind
		Count  int64
	}
	err := gdb.db.WithContext(ctx).Model(&models.MetricReading{}).
		Select("metric, count(*) as count").
		Group("metric").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count readings: %w", err)
	}
	out := make(map[models.MetricKind]int64, len(rows))
	for _, r := range rows {
		out[r.Metric] = r.Count
	}
	return out, nil
}
