package cleanup

import (
	"context"
	"fmt"
	"time"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service purges old notifications and keeps an audit trail of each run
type Service struct {
	db    *gorm.DB
	clock clock.Clock
	log   *zap.Logger
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB, c clock.Clock, log *zap.Logger) *Service {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, clock: c, log: log.Named("cleanup")}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays int    // Days to keep notifications before purging
	MaxPurgeCount int    // Maximum number of notifications to purge in one run (safety limit)
	OnlyRead      bool   // If true, unread notifications are never purged
	DryRun        bool   // If true, only report what would be purged
	Reason        string // Recorded on the purge log
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays: 180,
		MaxPurgeCount: 10000,
		OnlyRead:      true,
		Reason:        models.PurgeReasonRetention,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount  int       `json:"targetCount"`
	DeletedCount int       `json:"deletedCount"`
	DryRun       bool      `json:"dryRun"`
	Cutoff       time.Time `json:"cutoff"`
	ExecutedAt   time.Time `json:"executedAt"`
	DeletedIDs   []uint    `json:"deletedIds"`
}

// FindExpired lists notifications created before the retention cutoff
func (s *Service) FindExpired(ctx context.Context, cfg CleanupConfig) ([]models.Notification, time.Time, error) {
	cutoff := s.clock.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)

	q := s.db.WithContext(ctx).Where("created_at < ?", cutoff)
	if cfg.OnlyRead {
		q = q.Where("is_read = ?", true)
	}
	var expired []models.Notification
	if err := q.Order("id ASC").Find(&expired).Error; err != nil {
		return nil, cutoff, fmt.Errorf("failed to find expired notifications: %w", err)
	}
	return expired, cutoff, nil
}

// Purge deletes expired notifications and records a PurgeLog in the same transaction
func (s *Service) Purge(ctx context.Context, cfg CleanupConfig) (*CleanupResult, error) {
	if cfg.RetentionDays <= 0 {
		return nil, models.Invalid("retentionDays", "must be positive")
	}
	if cfg.Reason == "" {
		cfg.Reason = models.PurgeReasonRetention
	}

	expired, cutoff, err := s.FindExpired(ctx, cfg)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		TargetCount: len(expired),
		DryRun:      cfg.DryRun,
		Cutoff:      cutoff,
		ExecutedAt:  s.clock.Now().UTC(),
		DeletedIDs:  make([]uint, 0, len(expired)),
	}

	// Safety check: abort if too many notifications would be deleted
	if cfg.MaxPurgeCount > 0 && result.TargetCount > cfg.MaxPurgeCount {
		return nil, fmt.Errorf("safety check failed: %d notifications exceed max purge limit of %d",
			result.TargetCount, cfg.MaxPurgeCount)
	}

	ids := make([]uint, len(expired))
	for i, n := range expired {
		ids[i] = n.ID
	}

	if cfg.DryRun {
		s.log.Info("Cleanup: dry run",
			zap.Int("wouldDelete", len(ids)), zap.Time("cutoff", cutoff))
		result.DeletedIDs = ids
		result.DeletedCount = len(ids)
		return result, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) > 0 {
			res := tx.Where("id IN ?", ids).Delete(&models.Notification{})
			if res.Error != nil {
				return res.Error
			}
			result.DeletedCount = int(res.RowsAffected)
		}
		return tx.Create(&models.PurgeLog{
			Reason:        cfg.Reason,
			RetentionDays: cfg.RetentionDays,
			Cutoff:        cutoff,
			TargetCount:   result.TargetCount,
			DeletedCount:  result.DeletedCount,
			ExecutedAt:    result.ExecutedAt,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("purge notifications: %w", err)
	}
	result.DeletedIDs = ids

	s.log.Info("Cleanup: completed",
		zap.Int("deleted", result.DeletedCount),
		zap.Int("target", result.TargetCount),
		zap.Int("retentionDays", cfg.RetentionDays))
	return result, nil
}

// Stats summarises table sizes and purge history for the admin endpoint
func (s *Service) Stats(ctx context.Context, retentionDays int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	db := s.db.WithContext(ctx)

	var total, unread int64
	if err := db.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return nil, err
	}
	stats["notifications_total"] = total
	stats["notifications_unread"] = unread

	var purged struct {
		Runs    int64
		Deleted int64
	}
	if err := db.Model(&models.PurgeLog{}).
		Select("count(*) as runs, coalesce(sum(deleted_count), 0) as deleted").
		Scan(&purged).Error; err != nil {
		return nil, err
	}
	stats["purge_runs"] = purged.Runs
	stats["purged_total"] = purged.Deleted

	if retentionDays > 0 {
		cfg := DefaultCleanupConfig()
		cfg.RetentionDays = retentionDays
		expired, _, err := s.FindExpired(ctx, cfg)
		if err != nil {
			return nil, err
		}
		stats["expired_ready_for_purge"] = len(expired)
	}

	return stats, nil
}

// RecentLogs returns recent purge log entries
func (s *Service) RecentLogs(ctx context.Context, limit int) ([]models.PurgeLog, error) {
	var logs []models.PurgeLog
	err := s.db.WithContext(ctx).Order("executed_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
