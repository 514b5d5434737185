// Package dashboard computes MTD/YTD rollups and location rankings on demand
// from the reading store. Nothing here is persisted.
package dashboard

import (
	"context"
	"errors"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/kpi"
	"campus-kpi-tracker/internal/models"
)

type Store interface {
	FindReadings(ctx context.Context, f database.ReadingFilter) ([]models.MetricReading, error)
	LatestReading(ctx context.Context, f database.ReadingFilter) (*models.MetricReading, error)
}

// MTD is the latest reading of the month, status copied verbatim
type MTD struct {
	Actual float64       `json:"actual"`
	Target float64       `json:"target"`
	Status models.Status `json:"status"`
	Unit   string        `json:"unit"`
}

// MetricSummary pairs the month-to-date and year-to-date views of one metric
type MetricSummary struct {
	Metric models.MetricKind `json:"metric"`
	MTD    *MTD              `json:"mtd"`
	YTD    kpi.Totals        `json:"ytd"`
}

// PeriodSummary is the dashboard header for every metric
type PeriodSummary struct {
	Month  string        `json:"month"`
	Year   int           `json:"year"`
	Energy MetricSummary `json:"energy"`
	Water  MetricSummary `json:"water"`
	Waste  MetricSummary `json:"waste"`
}

// HighestUsage groups the per-metric location rankings
type HighestUsage struct {
	Year   int                `json:"year"`
	Energy []kpi.LocationRank `json:"energy"`
	Water  []kpi.LocationRank `json:"water"`
	Waste  []kpi.LocationRank `json:"waste"`
}

type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, c clock.Clock) *Service {
	if c == nil {
		c = clock.System{}
	}
	return &Service{store: store, clock: c}
}

// Summarize returns MTD and YTD for kind. An unknown month yields an empty YTD window.
func (s *Service) Summarize(ctx context.Context, kind models.MetricKind, month string, year int, location string) (MetricSummary, error) {
	out := MetricSummary{Metric: kind}

	latest, err := s.store.LatestReading(ctx, database.ReadingFilter{
		Metric: kind, Month: month, Year: year, Location: location,
	})
	switch {
	case err == nil:
		out.MTD = &MTD{Actual: latest.Actual, Target: latest.Target, Status: latest.Status, Unit: latest.Unit}
	case !errors.Is(err, models.ErrNotFound):
		return out, err
	}

	var ytd []models.MetricReading
	if months := kpi.MonthsToDate(month); len(months) > 0 {
		ytd, err = s.store.FindReadings(ctx, database.ReadingFilter{
			Metric: kind, Months: months, Year: year, Location: location,
		})
		if err != nil {
			return out, err
		}
	}
	out.YTD = kpi.SumReadings(kind, ytd)
	return out, nil
}

// SummarizePeriod summarizes every metric. Empty month or zero year default to the clock's period.
func (s *Service) SummarizePeriod(ctx context.Context, month string, year int, location string) (PeriodSummary, error) {
	curMonth, curYear := clock.CurrentPeriod(s.clock)
	if month == "" {
		month = curMonth
	}
	if year == 0 {
		year = curYear
	}

	out := PeriodSummary{Month: month, Year: year}
	targets := []*MetricSummary{&out.Energy, &out.Water, &out.Waste}
	for i, kind := range models.MetricKinds {
		sum, err := s.Summarize(ctx, kind, month, year, location)
		if err != nil {
			return PeriodSummary{}, err
		}
		*targets[i] = sum
	}
	return out, nil
}

// TopLocations ranks locations for kind within year
func (s *Service) TopLocations(ctx context.Context, kind models.MetricKind, year int) ([]kpi.LocationRank, error) {
	readings, err := s.store.FindReadings(ctx, database.ReadingFilter{Metric: kind, Year: year})
	if err != nil {
		return nil, err
	}
	return kpi.RankLocations(kind, readings, kpi.DefaultRankLimit), nil
}

// HighestUsage ranks all three metrics. A zero year defaults to the clock's year.
func (s *Service) HighestUsage(ctx context.Context, year int) (HighestUsage, error) {
	if year == 0 {
		_, year = clock.CurrentPeriod(s.clock)
	}
	out := HighestUsage{Year: year}
	targets := []*[]kpi.LocationRank{&out.Energy, &out.Water, &out.Waste}
	for i, kind := range models.MetricKinds {
		ranks, err := s.TopLocations(ctx, kind, year)
		if err != nil {
			return HighestUsage{}, err
		}
		*targets[i] = ranks
	}
	return out, nil
}
