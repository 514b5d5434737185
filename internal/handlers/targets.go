package handlers

import (
	"net/http"
	"strings"

	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/targets"

	"github.com/gin-gonic/gin"
)

// TargetHandler handles annual target requests
type TargetHandler struct {
	targets *targets.Service
}

func NewTargetHandler(svc *targets.Service) *TargetHandler {
	return &TargetHandler{targets: svc}
}

func (h *TargetHandler) List(c *gin.Context) {
	f := database.TargetFilter{Location: strings.TrimSpace(c.Query("location"))}
	var err error
	if f.Metric, err = queryMetric(c); err != nil {
		respondError(c, err)
		return
	}
	if f.Year, err = queryYear(c); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.targets.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Resolve returns the target that applies to a location, falling back to the global one
func (h *TargetHandler) Resolve(c *gin.Context) {
	metric, err := queryMetric(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if metric == "" {
		respondError(c, models.Invalid("metric", "is required"))
		return
	}
	year, err := queryYear(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if year == 0 {
		respondError(c, models.Invalid("year", "is required"))
		return
	}

	t, err := h.targets.Resolve(c.Request.Context(), metric, year, c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TargetHandler) Create(c *gin.Context) {
	var in targets.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, models.Invalid("body", "%v", err))
		return
	}
	t, err := h.targets.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TargetHandler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in targets.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, models.Invalid("body", "%v", err))
		return
	}
	t, err := h.targets.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TargetHandler) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.targets.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "id": id})
}
