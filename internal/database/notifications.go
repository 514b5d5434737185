package database

import (
	"context"
	"fmt"

	"campus-kpi-tracker/internal/models"
)

func (gdb *GormDB) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := gdb.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListNotifications returns notifications newest first. A nil read matches both states.
func (gdb *GormDB) ListNotifications(ctx context.Context, read *bool, limit int) ([]models.Notification, error) {
	q := gdb.db.WithContext(ctx)
	if read != nil {
		q = q.Where("is_read = ?", *read)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (gdb *GormDB) CountUnreadNotifications(ctx context.Context) (int64, error) {
	var n int64
	if err := gdb.db.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationRead flags one notification and returns it
func (gdb *GormDB) MarkNotificationRead(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := gdb.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, notFound(err)
	}
	if err := gdb.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	n.Read = true
	return &n, nil
}

// MarkAllNotificationsRead flags every unread notification and returns how many changed
func (gdb *GormDB) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res := gdb.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
