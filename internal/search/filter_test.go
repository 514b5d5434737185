package search

import (
	"testing"
	"time"

	"campus-kpi-tracker/internal/models"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		params FilterParams
		want   string
	}{
		{"empty", FilterParams{}, ""},
		{"metric and year", FilterParams{Metric: models.MetricEnergy, Year: 2025}, `metricKind = "ENERGY" AND year = 2025`},
		{
			"location quoting",
			FilterParams{Location: `Dorm "A"`},
			`location = "Dorm \"A\""`,
		},
		{
			"statuses",
			FilterParams{Month: "March", Statuses: []models.Status{models.StatusRed, models.StatusYellow}},
			`month = "March" AND (status = "RED" OR status = "YELLOW")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Filter(); got != tt.want {
				t.Errorf("Filter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	if got := (FilterParams{}).limit(); got != defaultLimit {
		t.Errorf("limit() = %d", got)
	}
	if got := (FilterParams{Limit: 500}).limit(); got != defaultLimit {
		t.Errorf("limit(500) = %d", got)
	}
	if got := (FilterParams{Limit: 5}).limit(); got != 5 {
		t.Errorf("limit(5) = %d", got)
	}
}

func TestNewReadingDocument(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := NewReadingDocument(models.MetricReading{
		ID: 9, Metric: models.MetricWater, Month: "March", Year: 2025,
		Status: models.StatusRed, CreatedAt: at,
	})
	if doc.MonthNum != 3 || doc.Metric != "WATER" || doc.Status != "RED" || doc.CreatedAt != at.Unix() {
		t.Errorf("doc = %+v", doc)
	}
}
