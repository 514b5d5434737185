package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/search"

	"github.com/gin-gonic/gin"
)

type Searcher interface {
	Search(ctx context.Context, params search.FilterParams) (*search.SearchResult, error)
}

// SearchHandler queries the reading index. A nil searcher answers 503.
type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(s Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

func (h *SearchHandler) Readings(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not enabled"})
		return
	}

	params := search.FilterParams{
		Query:    c.Query("q"),
		Location: strings.TrimSpace(c.Query("location")),
		SortBy:   c.Query("sort"),
		Limit:    int64(queryLimit(c, 20, 100)),
	}
	var err error
	if params.Metric, err = queryMetric(c); err != nil {
		respondError(c, err)
		return
	}
	if params.Month, err = queryMonth(c); err != nil {
		respondError(c, err)
		return
	}
	if params.Year, err = queryYear(c); err != nil {
		respondError(c, err)
		return
	}
	if offset, err := strconv.ParseInt(c.Query("offset"), 10, 64); err == nil && offset > 0 {
		params.Offset = offset
	}

	// Multi-select status filter (comma-separated)
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			params.Statuses = append(params.Statuses, models.Status(strings.ToUpper(strings.TrimSpace(s))))
		}
	}

	res, err := h.searcher.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
