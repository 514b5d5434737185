package kpi

import "campus-kpi-tracker/internal/models"

// MonthsToDate returns January..month in calendar order, or nil for an unknown month
func MonthsToDate(month string) []string {
	idx := models.MonthIndex(month)
	if idx < 0 {
		return nil
	}
	out := make([]string, idx+1)
	copy(out, models.Months[:idx+1])
	return out
}

// Totals is a summed actual/target pair with its derived status
type Totals struct {
	Actual float64       `json:"actual"`
	Target float64       `json:"target"`
	Status models.Status `json:"status"`
}

// SumReadings adds up every reading, duplicates included, and classifies the sums
func SumReadings(kind models.MetricKind, readings []models.MetricReading) Totals {
	var t Totals
	for _, r := range readings {
		t.Actual += r.Actual
		t.Target += r.Target
	}
	t.Status = Classify(t.Actual, t.Target, kind)
	return t
}

// Latest picks the newest reading by CreatedAt, breaking ties on the highest ID
func Latest(readings []models.MetricReading) (models.MetricReading, bool) {
	if len(readings) == 0 {
		return models.MetricReading{}, false
	}
	best := readings[0]
	for _, r := range readings[1:] {
		if r.CreatedAt.After(best.CreatedAt) || (r.CreatedAt.Equal(best.CreatedAt) && r.ID > best.ID) {
			best = r
		}
	}
	return best, true
}
