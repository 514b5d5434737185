package handlers

import (
	"net/http"
	"strings"

	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/readings"

	"github.com/gin-gonic/gin"
)

// ReadingHandler serves the unified /api/readings routes and the per-kind aliases.
// A handler with a fixed kind only sees readings of that kind.
type ReadingHandler struct {
	readings *readings.Service
	kind     models.MetricKind
}

func NewReadingHandler(svc *readings.Service) *ReadingHandler {
	return &ReadingHandler{readings: svc}
}

// ForKind returns a handler pinned to kind, used by /api/energy, /api/water and /api/waste
func (h *ReadingHandler) ForKind(kind models.MetricKind) *ReadingHandler {
	return &ReadingHandler{readings: h.readings, kind: kind}
}

// List returns readings newest first
func (h *ReadingHandler) List(c *gin.Context) {
	f := database.ReadingFilter{Location: strings.TrimSpace(c.Query("location"))}
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
	if h.kind != "" {
		f.Metric = h.kind
	}

	out, err := h.readings.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReadingHandler) Get(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create stores a reading; the status is always computed server-side
func (h *ReadingHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	r, err := h.readings.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Update patches a reading and reclassifies it
func (h *ReadingHandler) Update(c *gin.Context) {
	existing, ok := h.load(c)
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}
	r, err := h.readings.Update(c.Request.Context(), existing.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReadingHandler) Delete(c *gin.Context) {
	existing, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.readings.Delete(c.Request.Context(), existing.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "id": existing.ID})
}

// load fetches the :id reading, hiding readings of other kinds behind a 404
func (h *ReadingHandler) load(c *gin.Context) (*models.MetricReading, bool) {
	id, err := paramID(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	r, err := h.readings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if h.kind != "" && r.Metric != h.kind {
		respondError(c, models.ErrNotFound)
		return nil, false
	}
	return r, true
}

func (h *ReadingHandler) bind(c *gin.Context) (readings.Input, bool) {
	var in readings.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, models.Invalid("body", "%v", err))
		return in, false
	}
	if h.kind != "" {
		kind := string(h.kind)
		in.Metric = &kind
	}
	return in, true
}
