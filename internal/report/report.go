// Package report assembles KPI report data for a metric and renders it as PDF or XLSX.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/kpi"
	"campus-kpi-tracker/internal/models"
)

const (
	Title        = "Academic Green KPI Report"
	allLocations = "All Locations"
)

type Store interface {
	FindReadings(ctx context.Context, f database.ReadingFilter) ([]models.MetricReading, error)
}

// Request selects the readings of one metric within a month range of a year
type Request struct {
	Metric   models.MetricKind
	Year     int
	Location string
	From     string
	To       string
}

// Record is one row of the report table
type Record struct {
	Month      string        `json:"month"`
	Year       int           `json:"year"`
	Location   string        `json:"location"`
	Actual     float64       `json:"actual"`
	Target     float64       `json:"target"`
	Unit       string        `json:"unit"`
	Status     models.Status `json:"status"`
	Assessment string        `json:"assessment"`
}

// Totals summarise every record in the report
type Totals struct {
	Actual          float64       `json:"actual"`
	Target          float64       `json:"target"`
	Status          models.Status `json:"status"`
	OverTargetCount int           `json:"overTargetCount"`
}

// Report is the render-independent report contract
type Report struct {
	Metric      models.MetricKind `json:"metric"`
	Label       string            `json:"label"`
	Unit        string            `json:"unit"`
	Location    string            `json:"location"`
	Period      string            `json:"period"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Records     []Record          `json:"records"`
	Totals      Totals            `json:"totals"`
}

type Builder struct {
	store Store
	clock clock.Clock
}

func NewBuilder(store Store, c clock.Clock) *Builder {
	if c == nil {
		c = clock.System{}
	}
	return &Builder{store: store, clock: c}
}

// Build loads and assesses the readings selected by req
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	months, err := monthRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if req.Year == 0 {
		_, req.Year = clock.CurrentPeriod(b.clock)
	}

	readings, err := b.store.FindReadings(ctx, database.ReadingFilter{
		Metric: req.Metric, Year: req.Year, Months: months, Location: req.Location,
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return models.MonthIndex(readings[i].Month) < models.MonthIndex(readings[j].Month)
	})

	policy := kpi.PolicyFor(req.Metric)
	location := req.Location
	if location == "" {
		location = allLocations
	}

	rep := &Report{
		Metric:      req.Metric,
		Label:       policy.Label,
		Unit:        policy.DefaultUnit,
		Location:    location,
		Period:      fmt.Sprintf("%s - %s %d", months[0], months[len(months)-1], req.Year),
		GeneratedAt: b.clock.Now(),
		Records:     make([]Record, 0, len(readings)),
	}

	for _, r := range readings {
		loc := r.Location
		if loc == "" {
			loc = location
		}
		rep.Records = append(rep.Records, Record{
			Month:      r.Month,
			Year:       r.Year,
			Location:   loc,
			Actual:     r.Actual,
			Target:     r.Target,
			Unit:       r.Unit,
			Status:     r.Status,
			Assessment: kpi.Assessment(r.Actual, r.Target, r.Metric),
		})
		if kpi.IsBreach(r.Actual, r.Target, r.Metric) {
			rep.Totals.OverTargetCount++
		}
	}
	sums := kpi.SumReadings(req.Metric, readings)
	rep.Totals.Actual = sums.Actual
	rep.Totals.Target = sums.Target
	rep.Totals.Status = sums.Status
	return rep, nil
}

// monthRange expands from..to into calendar months, defaulting to the whole year
func monthRange(from, to string) ([]string, error) {
	start, end := 0, len(models.Months)-1
	if from != "" {
		m, ok := models.NormalizeMonth(from)
		if !ok {
			return nil, models.Invalid("from", "unknown month %q", from)
		}
		start = models.MonthIndex(m)
	}
	if to != "" {
		m, ok := models.NormalizeMonth(to)
		if !ok {
			return nil, models.Invalid("to", "unknown month %q", to)
		}
		end = models.MonthIndex(m)
	}
	if start > end {
		return nil, models.Invalid("from", "%s is after %s", models.Months[start], models.Months[end])
	}
	return models.Months[start : end+1], nil
}
