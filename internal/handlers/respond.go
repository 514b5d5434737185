package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"campus-kpi-tracker/internal/auth"
	"campus-kpi-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("HTTP: internal error",
			zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, models.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}

// queryYear parses ?year; absent means zero
func queryYear(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Invalid("year", "must be a number")
	}
	return year, nil
}

// queryMonth normalizes ?month; absent means empty
func queryMonth(c *gin.Context) (string, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return "", nil
	}
	month, ok := models.NormalizeMonth(raw)
	if !ok {
		return "", models.Invalid("month", "unknown month %q", raw)
	}
	return month, nil
}

// queryMetric parses ?metric; absent means all metrics
func queryMetric(c *gin.Context) (models.MetricKind, error) {
	raw := strings.TrimSpace(c.Query("metric"))
	if raw == "" {
		return "", nil
	}
	kind, ok := models.ParseMetricKind(raw)
	if !ok {
		return "", models.Invalid("metric", "unknown metric %q", raw)
	}
	return kind, nil
}

func queryLimit(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
