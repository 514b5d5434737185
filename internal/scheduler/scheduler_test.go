package scheduler

import (
	"context"
	"errors"
	"testing"

	"campus-kpi-tracker/internal/cleanup"
	"campus-kpi-tracker/internal/config"
	"campus-kpi-tracker/internal/models"
)

type fakeSnapshotter struct{ calls int }

func (f *fakeSnapshotter) GeneratePrevious(ctx context.Context) ([]models.KpiSnapshot, error) {
	f.calls++
	return []models.KpiSnapshot{{Metric: models.MetricEnergy}}, nil
}

type fakePurger struct {
	got cleanup.CleanupConfig
	err error
}

func (f *fakePurger) Purge(ctx context.Context, cfg cleanup.CleanupConfig) (*cleanup.CleanupResult, error) {
	f.got = cfg
	if f.err != nil {
		return nil, f.err
	}
	return &cleanup.CleanupResult{DeletedCount: 3}, nil
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep() int { f.calls++; return 0 }

func TestParseRunTimes(t *testing.T) {
	s := NewScheduler(config.DefaultConfig(), nil, nil, nil, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"02:00", "0 2 * * *"},
		{"23:45", "45 23 * * *"},
		{"bogus", "0 2 * * *"},
		{"25:00", "0 2 * * *"},
	}
	for _, tt := range tests {
		if got := s.parseDailyRunTime(tt.in); got != tt.want {
			t.Errorf("parseDailyRunTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := s.parseMonthlyRunTime("01:15", 3); got != "15 1 3 * *" {
		t.Errorf("monthly = %q", got)
	}
	if got := s.parseMonthlyRunTime("01:15", 31); got != "15 1 1 * *" {
		t.Errorf("monthly with out of range day = %q", got)
	}
}

func TestRunNow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notifications.RetentionDays = 30
	snap, purger, sweeper := &fakeSnapshotter{}, &fakePurger{}, &fakeSweeper{}
	s := NewScheduler(cfg, snap, purger, sweeper, nil)

	for _, job := range []string{JobSnapshot, JobCleanup, JobSweep} {
		if err := s.RunNow(job); err != nil {
			t.Fatalf("RunNow(%s): %v", job, err)
		}
	}
	if snap.calls != 1 || sweeper.calls != 1 {
		t.Errorf("calls: snapshot=%d sweep=%d", snap.calls, sweeper.calls)
	}
	if purger.got.RetentionDays != 30 || !purger.got.OnlyRead || purger.got.Reason != models.PurgeReasonRetention {
		t.Errorf("purge config = %+v", purger.got)
	}

	if err := s.RunNow("reindex"); err == nil {
		t.Error("expected error for unknown job")
	}

	purger.err = errors.New("db down")
	if err := s.RunNow(JobCleanup); err == nil {
		t.Error("expected purge error to surface")
	}
}

func TestRunNowUnconfiguredJob(t *testing.T) {
	s := NewScheduler(config.DefaultConfig(), nil, nil, nil, nil)
	if err := s.RunNow(JobSnapshot); err == nil {
		t.Error("expected error when snapshot job has no service")
	}
}

func TestStartRegistersEnabledJobs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scheduler.SnapshotEnabled = true
	cfg.Scheduler.CleanupEnabled = false
	s := NewScheduler(cfg, &fakeSnapshotter{}, &fakePurger{}, &fakeSweeper{}, nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2 (snapshot + sweep)", got)
	}
}
