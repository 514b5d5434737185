package handlers

import (
	"context"
	"net/http"

	"campus-kpi-tracker/internal/cleanup"
	"campus-kpi-tracker/internal/config"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/ratelimit"
	"campus-kpi-tracker/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReadingCounter interface {
	CountReadingsByMetric(ctx context.Context) (map[models.MetricKind]int64, error)
}

type JobRunner interface {
	RunNow(job string) error
}

// AdminHandler handles admin-related requests
type AdminHandler struct {
	counter     ReadingCounter
	cleanup     *cleanup.Service
	jobs        JobRunner
	rateLimiter *ratelimit.RateLimiter
	retention   config.NotificationsConfig
	log         *zap.Logger
}

// NewAdminHandler creates a new admin handler. jobs and limiter may be nil.
func NewAdminHandler(counter ReadingCounter, cleanupSvc *cleanup.Service, jobs JobRunner,
	limiter *ratelimit.RateLimiter, retention config.NotificationsConfig, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{
		counter:     counter,
		cleanup:     cleanupSvc,
		jobs:        jobs,
		rateLimiter: limiter,
		retention:   retention,
		log:         log.Named("admin"),
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := make(map[string]interface{})

	counts, err := h.counter.CountReadingsByMetric(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	var total int64
	byMetric := make(map[string]int64, len(models.MetricKinds))
	for _, kind := range models.MetricKinds {
		byMetric[string(kind)] = counts[kind]
		total += counts[kind]
	}
	byMetric["total"] = total
	stats["readings"] = byMetric

	notificationStats, err := h.cleanup.Stats(ctx, h.retention.RetentionDays)
	if err != nil {
		h.log.Warn("Admin: failed to get notification stats", zap.Error(err))
	} else {
		stats["notifications"] = notificationStats
	}

	if h.rateLimiter != nil {
		stats["rate_limit"] = h.rateLimiter.GetStats(c.ClientIP())
	}

	c.JSON(http.StatusOK, stats)
}

// RunCleanup purges expired notifications
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays int   `json:"retention_days"`  // Days to keep (default: config)
		MaxPurgeCount int   `json:"max_purge_count"` // Safety limit (default: config)
		OnlyRead      *bool `json:"only_read"`       // Keep unread notifications (default: config)
		DryRun        *bool `json:"dry_run"`         // Dry run mode (default: true)
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, models.Invalid("body", "%v", err))
		return
	}

	cfg := cleanup.DefaultCleanupConfig()
	cfg.Reason = models.PurgeReasonManual
	if h.retention.RetentionDays > 0 {
		cfg.RetentionDays = h.retention.RetentionDays
	}
	if h.retention.MaxPurgeCount > 0 {
		cfg.MaxPurgeCount = h.retention.MaxPurgeCount
	}
	cfg.OnlyRead = h.retention.PurgeOnlyRead
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	if req.MaxPurgeCount > 0 {
		cfg.MaxPurgeCount = req.MaxPurgeCount
	}
	if req.OnlyRead != nil {
		cfg.OnlyRead = *req.OnlyRead
	}
	cfg.DryRun = true
	if req.DryRun != nil {
		cfg.DryRun = *req.DryRun
	}

	h.log.Info("Admin: running cleanup",
		zap.Int("retentionDays", cfg.RetentionDays),
		zap.Int("max", cfg.MaxPurgeCount),
		zap.Bool("dryRun", cfg.DryRun))

	result, err := h.cleanup.Purge(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPurgeLogs returns recent purge log entries
func (h *AdminHandler) GetPurgeLogs(c *gin.Context) {
	logs, err := h.cleanup.RecentLogs(c.Request.Context(), queryLimit(c, 100, 500))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// TriggerJob runs a scheduler job in the background
func (h *AdminHandler) TriggerJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler not available"})
		return
	}
	job := c.Param("name")
	switch job {
	case scheduler.JobSnapshot, scheduler.JobCleanup, scheduler.JobSweep:
	default:
		respondError(c, models.Invalid("name", "unknown job %q", job))
		return
	}
	h.log.Info("Admin: manual job trigger requested", zap.String("job", job))

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.jobs.RunNow(job); err != nil {
			h.log.Error("Admin: manual job failed", zap.String("job", job), zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Job started",
		"job":     job,
	})
}
