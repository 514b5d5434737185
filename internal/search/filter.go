package search

import (
	"fmt"
	"strings"

	"campus-kpi-tracker/internal/models"
)

const defaultLimit = 20

type FilterParams struct {
	Query    string
	Metric   models.MetricKind
	Year     int
	Month    string
	Location string
	Statuses []models.Status
	SortBy   string
	Limit    int64
	Offset   int64
}

// Filter renders the params as a Meilisearch filter expression
func (p FilterParams) Filter() string {
	var filters []string

	if p.Metric != "" {
		filters = append(filters, fmt.Sprintf("metricKind = %s", quote(string(p.Metric))))
	}
	if p.Year != 0 {
		filters = append(filters, fmt.Sprintf("year = %d", p.Year))
	}
	if p.Month != "" {
		filters = append(filters, fmt.Sprintf("month = %s", quote(p.Month)))
	}
	if p.Location != "" {
		filters = append(filters, fmt.Sprintf("location = %s", quote(p.Location)))
	}

	// Status filter
	if len(p.Statuses) > 0 {
		parts := make([]string, len(p.Statuses))
		for i, st := range p.Statuses {
			parts[i] = fmt.Sprintf("status = %s", quote(string(st)))
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(parts, " OR ")))
	}

	return strings.Join(filters, " AND ")
}

func (p FilterParams) limit() int64 {
	if p.Limit <= 0 || p.Limit > 100 {
		return defaultLimit
	}
	return p.Limit
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
