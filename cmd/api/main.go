package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campus-kpi-tracker/internal/auth"
	"campus-kpi-tracker/internal/cleanup"
	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/config"
	"campus-kpi-tracker/internal/dashboard"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/events"
	"campus-kpi-tracker/internal/handlers"
	"campus-kpi-tracker/internal/logging"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/notify"
	"campus-kpi-tracker/internal/ratelimit"
	"campus-kpi-tracker/internal/readings"
	"campus-kpi-tracker/internal/report"
	"campus-kpi-tracker/internal/scheduler"
	"campus-kpi-tracker/internal/search"
	"campus-kpi-tracker/internal/snapshot"
	"campus-kpi-tracker/internal/targets"

	"github.com/alecthomas/kong"
	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CLI struct {
	Config string `help:"Path to the YAML config file." env:"CONFIG_PATH" default:"config/kpi_config.yaml" type:"path"`

	Serve     ServeCmd     `cmd:"" default:"1" help:"Run the HTTP API server."`
	Bootstrap BootstrapCmd `cmd:"" help:"Create or update a user account."`
	Snapshot  SnapshotCmd  `cmd:"" help:"Freeze the latest readings of a month into KPI snapshots."`
	Cleanup   CleanupCmd   `cmd:"" help:"Purge notifications older than the retention period."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kpitracker"),
		kong.Description("Campus sustainability KPI tracker."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}

// app holds what every subcommand needs
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *database.GormDB
	clock clock.Clock
}

func open(cli *CLI) (*app, error) {
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded configuration", zap.String("path", cli.Config))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.NewGormDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &app{cfg: cfg, log: log, db: db, clock: clock.System{Location: loc}}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

type ServeCmd struct{}

func (cmd *ServeCmd) Run(cli *CLI) error {
	a, err := open(cli)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	bus := events.NewBus(log)
	notify.NewTrigger(a.db, log).Register(bus)

	readingOpts := []readings.Option{readings.WithClock(a.clock)}
	var searcher handlers.Searcher
	if cfg.SearchEnabled() {
		ms := cfg.Search.Meilisearch
		client := search.NewSearchClient(ms.Host, ms.APIKey, ms.Index)
		initIndex := func() error { return client.InitIndex() }
		notifyRetry := func(err error, wait time.Duration) {
			log.Warn("Search: index not ready, retrying", zap.Duration("wait", wait), zap.Error(err))
		}
		if err := backoff.RetryNotify(initIndex, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), notifyRetry); err != nil {
			log.Warn("Search: failed to initialize index", zap.Error(err))
		}
		guarded := search.NewGuardedIndexer(client, search.NewCircuitBreaker(3, time.Minute), log)
		readingOpts = append(readingOpts, readings.WithIndexer(guarded))
		searcher = client
		log.Info("Search: enabled", zap.String("host", ms.Host), zap.String("index", ms.Index))
	}

	rateLimiter := ratelimit.NewRateLimiter(
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.RequestsPerHour,
		cfg.RateLimit.Enabled,
	)
	log.Info("Rate limiter initialized",
		zap.Int("perMinute", cfg.RateLimit.RequestsPerMinute),
		zap.Int("perHour", cfg.RateLimit.RequestsPerHour),
		zap.Bool("enabled", cfg.RateLimit.Enabled))

	snapshots := snapshot.NewService(a.db, a.clock, log)
	cleanups := cleanup.NewService(a.db.DB(), a.clock, log)

	sched := scheduler.NewScheduler(cfg, snapshots, cleanups, rateLimiter, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.GetTokenTTL())
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Deps{
		Config:        cfg,
		Log:           log,
		Tokens:        tokens,
		Auth:          auth.NewService(a.db, tokens, log),
		Readings:      readings.NewService(a.db, bus, log, readingOpts...),
		Targets:       targets.NewService(a.db, log),
		Dashboard:     dashboard.NewService(a.db, a.clock),
		Snapshots:     snapshots,
		Notifications: a.db,
		Reports:       report.NewBuilder(a.db, a.clock),
		Searcher:      searcher,
		Cleanup:       cleanups,
		Counter:       a.db,
		Jobs:          sched,
		RateLimiter:   rateLimiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

type BootstrapCmd struct {
	Email    string `help:"Account email." required:""`
	Username string `help:"Display name (defaults to the email's local part)."`
	Password string `help:"Account password." env:"BOOTSTRAP_PASSWORD" required:""`
	Role     string `help:"admin, data-entry or viewer." default:"admin" enum:"admin,data-entry,viewer,user"`
}

func (cmd *BootstrapCmd) Run(cli *CLI) error {
	a, err := open(cli)
	if err != nil {
		return err
	}
	defer a.close()

	tokens := auth.NewTokens(a.cfg.Auth.JWTSecret, a.cfg.Auth.GetTokenTTL())
	svc := auth.NewService(a.db, tokens, a.log)
	u, created, err := svc.Bootstrap(context.Background(), cmd.Email, cmd.Username, cmd.Password, cmd.Role)
	if err != nil {
		return err
	}

	verb := "Updated"
	if created {
		verb = "Created"
	}
	fmt.Printf("%s %s user %s (id %d)\n", verb, u.Role, u.Email, u.ID)
	return nil
}

type SnapshotCmd struct {
	Month string `help:"Month to snapshot (defaults to the previous month)."`
	Year  int    `help:"Year to snapshot (defaults to the previous month's year)."`
}

func (cmd *SnapshotCmd) Run(cli *CLI) error {
	a, err := open(cli)
	if err != nil {
		return err
	}
	defer a.close()

	svc := snapshot.NewService(a.db, a.clock, a.log)
	var snaps []models.KpiSnapshot
	if cmd.Month == "" && cmd.Year == 0 {
		snaps, err = svc.GeneratePrevious(context.Background())
	} else {
		snaps, err = svc.Generate(context.Background(), cmd.Month, cmd.Year)
	}
	if err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Printf("%-6s %s %d: actual %g target %g (%s)\n", s.Metric, s.Month, s.Year, s.Actual, s.Target, s.Status)
	}
	fmt.Printf("%d snapshot(s) generated\n", len(snaps))
	return nil
}

type CleanupCmd struct {
	DryRun        bool `help:"Only report what would be purged."`
	RetentionDays int  `help:"Override notifications.retention_days."`
}

func (cmd *CleanupCmd) Run(cli *CLI) error {
	a, err := open(cli)
	if err != nil {
		return err
	}
	defer a.close()

	n := a.cfg.Notifications
	cfg := cleanup.CleanupConfig{
		RetentionDays: n.RetentionDays,
		MaxPurgeCount: n.MaxPurgeCount,
		OnlyRead:      n.PurgeOnlyRead,
		DryRun:        cmd.DryRun,
		Reason:        models.PurgeReasonManual,
	}
	if cmd.RetentionDays > 0 {
		cfg.RetentionDays = cmd.RetentionDays
	}

	res, err := cleanup.NewService(a.db.DB(), a.clock, a.log).Purge(context.Background(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Purged %d/%d notification(s) older than %s (dry-run: %v)\n",
		res.DeletedCount, res.TargetCount, res.Cutoff.Format(time.DateOnly), res.DryRun)
	return nil
}
