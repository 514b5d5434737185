package scheduler

import (
	"context"
	"fmt"
	"time"

	"campus-kpi-tracker/internal/cleanup"
	"campus-kpi-tracker/internal/config"
	"campus-kpi-tracker/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job names accepted by RunNow
const (
	JobSnapshot = "snapshot"
	JobCleanup  = "cleanup"
	JobSweep    = "ratelimit-sweep"
)

const jobTimeout = 5 * time.Minute

type Snapshotter interface {
	GeneratePrevious(ctx context.Context) ([]models.KpiSnapshot, error)
}

type Purger interface {
	Purge(ctx context.Context, cfg cleanup.CleanupConfig) (*cleanup.CleanupResult, error)
}

type Sweeper interface {
	Sweep() int
}

// Scheduler runs the periodic snapshot, notification cleanup and limiter sweep jobs
type Scheduler struct {
	cron      *cron.Cron
	config    *config.Config
	snapshot  Snapshotter
	purger    Purger
	sweeper   Sweeper
	log       *zap.Logger
	isRunning bool
}

// NewScheduler creates a new scheduler. Any job dependency may be nil, which disables that job.
func NewScheduler(cfg *config.Config, snap Snapshotter, purger Purger, sweeper Sweeper, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		config:   cfg,
		snapshot: snap,
		purger:   purger,
		sweeper:  sweeper,
		log:      log.Named("scheduler"),
	}
}

// Start registers the enabled jobs and starts the cron loop
func (s *Scheduler) Start() error {
	sc := s.config.Scheduler

	if sc.SnapshotEnabled && s.snapshot != nil {
		spec := s.parseMonthlyRunTime(sc.SnapshotTime, sc.SnapshotDay)
		if err := s.add(JobSnapshot, spec); err != nil {
			return err
		}
	}
	if sc.CleanupEnabled && s.purger != nil {
		spec := s.parseDailyRunTime(sc.CleanupTime)
		if err := s.add(JobCleanup, spec); err != nil {
			return err
		}
	}
	if s.sweeper != nil {
		if err := s.add(JobSweep, "@every 10m"); err != nil {
			return err
		}
	}

	if len(s.cron.Entries()) == 0 {
		s.log.Info("Scheduler: no jobs enabled")
		return nil
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info("Scheduler: started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

func (s *Scheduler) add(name, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.RunNow(name); err != nil {
			s.log.Error("Scheduler: job failed", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%s): %w", name, spec, err)
	}
	s.log.Info("Scheduler: job registered", zap.String("job", name), zap.String("cron", spec))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.log.Info("Scheduler: stopped")
	}
}

// RunNow immediately executes the named job (for manual trigger)
func (s *Scheduler) RunNow(job string) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	switch job {
	case JobSnapshot:
		if s.snapshot == nil {
			return fmt.Errorf("job %q is not configured", job)
		}
		snaps, err := s.snapshot.GeneratePrevious(ctx)
		if err != nil {
			return err
		}
		s.log.Info("Scheduler: snapshot job completed", zap.Int("snapshots", len(snaps)))
	case JobCleanup:
		if s.purger == nil {
			return fmt.Errorf("job %q is not configured", job)
		}
		n := s.config.Notifications
		res, err := s.purger.Purge(ctx, cleanup.CleanupConfig{
			RetentionDays: n.RetentionDays,
			MaxPurgeCount: n.MaxPurgeCount,
			OnlyRead:      n.PurgeOnlyRead,
			Reason:        models.PurgeReasonRetention,
		})
		if err != nil {
			return err
		}
		s.log.Info("Scheduler: cleanup job completed", zap.Int("deleted", res.DeletedCount))
	case JobSweep:
		if s.sweeper == nil {
			return fmt.Errorf("job %q is not configured", job)
		}
		s.log.Debug("Scheduler: rate limiter swept", zap.Int("evicted", s.sweeper.Sweep()))
	default:
		return fmt.Errorf("unknown job %q", job)
	}
	return nil
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	hour, minute := s.parseClock(timeStr)
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// parseMonthlyRunTime is parseDailyRunTime pinned to a day of the month
// Example: ("01:00", 1) -> "0 1 1 * *"
func (s *Scheduler) parseMonthlyRunTime(timeStr string, day int) string {
	if day < 1 || day > 28 {
		day = 1
	}
	hour, minute := s.parseClock(timeStr)
	return fmt.Sprintf("%d %d %d * *", minute, hour, day)
}

func (s *Scheduler) parseClock(timeStr string) (int, int) {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return hour, minute
	}

	// Default to 2:00 AM if parsing fails
	s.log.Warn("Scheduler: failed to parse time, using default 02:00", zap.String("time", timeStr))
	return 2, 0
}
