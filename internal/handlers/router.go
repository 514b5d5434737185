package handlers

import (
	"net/http"
	"time"

	"campus-kpi-tracker/internal/auth"
	"campus-kpi-tracker/internal/cleanup"
	"campus-kpi-tracker/internal/config"
	"campus-kpi-tracker/internal/dashboard"
	"campus-kpi-tracker/internal/logging"
	"campus-kpi-tracker/internal/metrics"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/ratelimit"
	"campus-kpi-tracker/internal/readings"
	"campus-kpi-tracker/internal/report"
	"campus-kpi-tracker/internal/snapshot"
	"campus-kpi-tracker/internal/targets"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps carries everything the router wires into handlers.
// Searcher, Jobs and RateLimiter are optional.
type Deps struct {
	Config        *config.Config
	Log           *zap.Logger
	Tokens        *auth.Tokens
	Auth          *auth.Service
	Readings      *readings.Service
	Targets       *targets.Service
	Dashboard     *dashboard.Service
	Snapshots     *snapshot.Service
	Notifications NotificationStore
	Reports       *report.Builder
	Searcher      Searcher
	Cleanup       *cleanup.Service
	Counter       ReadingCounter
	Jobs          JobRunner
	RateLimiter   *ratelimit.RateLimiter
}

var (
	anyRole   = []models.Role{models.RoleAdmin, models.RoleDataEntry, models.RoleViewer}
	writeRole = []models.Role{models.RoleAdmin, models.RoleDataEntry}
	adminRole = []models.Role{models.RoleAdmin}
)

// NewRouter builds the gin engine with every API route registered
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(log, d.Config.Logging.LogRequests))
	r.Use(metrics.GinMiddleware())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     d.Config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Write routes are rate limited per client
	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.RateLimiter != nil {
		limited = d.RateLimiter.Middleware()
	}

	authHandler := NewAuthHandler(d.Auth)
	r.POST("/api/auth/login", limited, authHandler.Login)

	api := r.Group("/api", auth.Authenticate(d.Tokens))
	read := auth.RequireRole(anyRole...)
	write := []gin.HandlerFunc{auth.RequireRole(writeRole...), limited}
	admin := []gin.HandlerFunc{auth.RequireRole(adminRole...), limited}

	api.GET("/auth/me", read, authHandler.Me)

	// Readings, unified and per-kind
	readingHandler := NewReadingHandler(d.Readings)
	registerReadings(api.Group("/readings"), readingHandler, read, write, admin)
	registerReadings(api.Group("/energy"), readingHandler.ForKind(models.MetricEnergy), read, write, admin)
	registerReadings(api.Group("/water"), readingHandler.ForKind(models.MetricWater), read, write, admin)
	registerReadings(api.Group("/waste"), readingHandler.ForKind(models.MetricWaste), read, write, admin)

	targetHandler := NewTargetHandler(d.Targets)
	tg := api.Group("/targets")
	{
		tg.GET("", read, targetHandler.List)
		tg.GET("/resolve", read, targetHandler.Resolve)
		tg.POST("", chain(write, targetHandler.Create)...)
		tg.PUT("/:id", chain(write, targetHandler.Update)...)
		tg.DELETE("/:id", chain(admin, targetHandler.Delete)...)
	}

	dashboardHandler := NewDashboardHandler(d.Dashboard, d.Snapshots)
	dg := api.Group("/dashboard")
	{
		dg.GET("/summary", read, dashboardHandler.Summary)
		dg.GET("/highest-usage", read, dashboardHandler.HighestUsage)
		dg.GET("/snapshots", read, dashboardHandler.ListSnapshots)
		dg.POST("/snapshot", chain(admin, dashboardHandler.GenerateSnapshot)...)
	}

	notificationHandler := NewNotificationHandler(d.Notifications, d.Config.Notifications.ListLimit)
	ng := api.Group("/notifications", read)
	{
		ng.GET("", notificationHandler.List)
		ng.GET("/unread-count", notificationHandler.UnreadCount)
		ng.PUT("/read-all", notificationHandler.MarkAllRead)
		ng.PUT("/:id/read", notificationHandler.MarkRead)
	}

	reportHandler := NewReportHandler(d.Reports, log)
	api.GET("/reports/:file", read, reportHandler.Export)

	searchHandler := NewSearchHandler(d.Searcher)
	api.GET("/search/readings", read, searchHandler.Readings)

	adminHandler := NewAdminHandler(d.Counter, d.Cleanup, d.Jobs, d.RateLimiter, d.Config.Notifications, log)
	ag := api.Group("/admin", auth.RequireRole(adminRole...))
	{
		ag.GET("/stats", adminHandler.GetStats)
		ag.POST("/cleanup/run", adminHandler.RunCleanup)
		ag.GET("/cleanup/logs", adminHandler.GetPurgeLogs)
		ag.POST("/jobs/:name/run", adminHandler.TriggerJob)
	}

	log.Info("HTTP: routes registered", zap.Int("routes", len(r.Routes())))
	return r
}

func registerReadings(g *gin.RouterGroup, h *ReadingHandler, read gin.HandlerFunc, write, admin []gin.HandlerFunc) {
	g.GET("", read, h.List)
	g.GET("/:id", read, h.Get)
	g.POST("", chain(write, h.Create)...)
	g.PUT("/:id", chain(write, h.Update)...)
	g.DELETE("/:id", chain(admin, h.Delete)...)
}

// chain appends h to a copy of mw so shared middleware slices are never aliased
func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}
