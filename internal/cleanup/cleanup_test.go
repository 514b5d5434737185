package cleanup

import (
	"context"
	"testing"
	"time"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/database/dbtest"
	"campus-kpi-tracker/internal/models"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *database.GormDB, age time.Duration, read bool) models.Notification {
	t.Helper()
	n := models.Notification{
		Kind: models.NotificationWarning, Title: "t", Message: "m",
		Read: read, CreatedAt: now.Add(-age),
	}
	if err := db.DB().Create(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestPurgeDeletesOnlyOldReadNotifications(t *testing.T) {
	db := dbtest.New(t)
	oldRead := seed(t, db, 200*24*time.Hour, true)
	seed(t, db, 200*24*time.Hour, false)
	seed(t, db, 10*24*time.Hour, true)

	svc := NewService(db.DB(), clock.Fixed(now), nil)
	cfg := DefaultCleanupConfig()

	res, err := svc.Purge(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if res.TargetCount != 1 || res.DeletedCount != 1 || res.DeletedIDs[0] != oldRead.ID {
		t.Errorf("result = %+v", res)
	}

	left, err := db.ListNotifications(context.Background(), nil, 0)
	if err != nil || len(left) != 2 {
		t.Errorf("remaining = %d, %v, want 2", len(left), err)
	}

	logs, err := svc.RecentLogs(context.Background(), 10)
	if err != nil || len(logs) != 1 || logs[0].DeletedCount != 1 {
		t.Errorf("logs = %+v, %v", logs, err)
	}
}

func TestPurgeDryRunKeepsRows(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db, 400*24*time.Hour, true)
	seed(t, db, 400*24*time.Hour, false)

	svc := NewService(db.DB(), clock.Fixed(now), nil)
	cfg := DefaultCleanupConfig()
	cfg.DryRun = true
	cfg.OnlyRead = false

	res, err := svc.Purge(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DryRun || res.DeletedCount != 2 {
		t.Errorf("result = %+v", res)
	}
	left, _ := db.ListNotifications(context.Background(), nil, 0)
	if len(left) != 2 {
		t.Errorf("dry run deleted rows: %d left", len(left))
	}
	logs, _ := svc.RecentLogs(context.Background(), 10)
	if len(logs) != 0 {
		t.Errorf("dry run wrote %d purge logs", len(logs))
	}
}

func TestPurgeSafetyLimit(t *testing.T) {
	db := dbtest.New(t)
	for i := 0; i < 3; i++ {
		seed(t, db, 400*24*time.Hour, true)
	}
	cfg := DefaultCleanupConfig()
	cfg.MaxPurgeCount = 2
	if _, err := NewService(db.DB(), clock.Fixed(now), nil).Purge(context.Background(), cfg); err == nil {
		t.Fatal("Purge above safety limit should fail")
	}
}

func TestStats(t *testing.T) {
	db := dbtest.New(t)
	seed(t, db, 400*24*time.Hour, true)
	seed(t, db, time.Hour, false)

	stats, err := NewService(db.DB(), clock.Fixed(now), nil).Stats(context.Background(), 180)
	if err != nil {
		t.Fatal(err)
	}
	if stats["notifications_total"] != int64(2) || stats["notifications_unread"] != int64(1) {
		t.Errorf("stats = %v", stats)
	}
	if stats["expired_ready_for_purge"] != 1 {
		t.Errorf("expired = %v, want 1", stats["expired_ready_for_purge"])
	}
}
