package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-kpi-tracker/internal/clock"
	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/database/dbtest"
	"campus-kpi-tracker/internal/models"
)

func addReading(t *testing.T, db *database.GormDB, kind models.MetricKind, month string, year int, actual float64, location string, at time.Time) {
	t.Helper()
	r := models.MetricReading{
		Metric: kind, Month: month, Year: year, Actual: actual, Target: 100,
		Unit: "u", Status: models.StatusGreen, Location: location, CreatedAt: at,
	}
	if err := db.CreateReading(context.Background(), &r); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateSkipsMissingMetric(t *testing.T) {
	db := dbtest.New(t)
	now := time.Date(2025, 4, 2, 1, 0, 0, 0, time.UTC)
	base := now.Add(-48 * time.Hour)

	addReading(t, db, models.MetricEnergy, "March", 2025, 10, "Library", base)
	addReading(t, db, models.MetricEnergy, "March", 2025, 20, "Gym", base.Add(time.Hour))
	addReading(t, db, models.MetricWaste, "March", 2025, 55, "", base)
	addReading(t, db, models.MetricWater, "February", 2025, 99, "", base)

	svc := NewService(db, clock.Fixed(now), nil)
	snaps, err := svc.Generate(context.Background(), "march", 2025)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len = %d, want 2 (no WATER)", len(snaps))
	}
	if snaps[0].Metric != models.MetricEnergy || snaps[0].Actual != 20 || snaps[0].Location != "Gym" {
		t.Errorf("energy snapshot = %+v, want latest Gym reading", snaps[0])
	}
	if snaps[1].Metric != models.MetricWaste || snaps[1].Month != "March" {
		t.Errorf("waste snapshot = %+v", snaps[1])
	}
	if !snaps[0].GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", snaps[0].GeneratedAt, now)
	}

	stored, err := svc.List(context.Background(), database.SnapshotFilter{Year: 2025})
	if err != nil || len(stored) != 2 {
		t.Errorf("List = %d, %v, want 2", len(stored), err)
	}
}

func TestGenerateEmptyPeriod(t *testing.T) {
	svc := NewService(dbtest.New(t), nil, nil)
	snaps, err := svc.Generate(context.Background(), "July", 2030)
	if err != nil {
		t.Fatal(err)
	}
	if snaps == nil || len(snaps) != 0 {
		t.Errorf("snaps = %#v, want empty", snaps)
	}
}

func TestGenerateValidation(t *testing.T) {
	svc := NewService(dbtest.New(t), nil, nil)
	if _, err := svc.Generate(context.Background(), "Smarch", 2025); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad month err = %v", err)
	}
	if _, err := svc.Generate(context.Background(), "March", 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing year err = %v", err)
	}
}

func TestGeneratePrevious(t *testing.T) {
	db := dbtest.New(t)
	now := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)
	addReading(t, db, models.MetricWater, "December", 2024, 42, "", now.Add(-time.Hour))

	snaps, err := NewService(db, clock.Fixed(now), nil).GeneratePrevious(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].Year != 2024 || snaps[0].Actual != 42 {
		t.Errorf("snaps = %+v", snaps)
	}
}
