package handlers

import (
	"net/http"
	"strings"

	"campus-kpi-tracker/internal/dashboard"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the MTD/YTD summary, location rankings and snapshots
type DashboardHandler struct {
	dashboard *dashboard.Service
	snapshots *snapshot.Service
}

func NewDashboardHandler(dash *dashboard.Service, snaps *snapshot.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dash, snapshots: snaps}
}

// Summary returns MTD and YTD figures for every metric.
// Month and year default to the current period.
func (h *DashboardHandler) Summary(c *gin.Context) {
	month, err := queryMonth(c)
	if err != nil {
		respondError(c, err)
		return
	}
	year, err := queryYear(c)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.dashboard.SummarizePeriod(c.Request.Context(), month, year, strings.TrimSpace(c.Query("location")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// HighestUsage returns the top locations per metric for a year
func (h *DashboardHandler) HighestUsage(c *gin.Context) {
	year, err := queryYear(c)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.dashboard.HighestUsage(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GenerateSnapshot freezes the latest readings of a period
func (h *DashboardHandler) GenerateSnapshot(c *gin.Context) {
	var req struct {
		Month string `json:"month"`
		Year  int    `json:"year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.Invalid("body", "%v", err))
		return
	}

	snaps, err := h.snapshots.Generate(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snaps)
}

func (h *DashboardHandler) ListSnapshots(c *gin.Context) {
	f := database.SnapshotFilter{Location: strings.TrimSpace(c.Query("location"))}
	var err error
	if f.Metric, err = queryMetric(c); err != nil {
		respondError(c, err)
		return
	}
	if f.Month, err = queryMonth(c); err != nil {
		respondError(c, err)
		return
	}
	if f.Year, err = queryYear(c); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.snapshots.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
