package targets

import (
	"context"
	"errors"
	"testing"

	"campus-kpi-tracker/internal/database"
	"campus-kpi-tracker/internal/database/dbtest"
	"campus-kpi-tracker/internal/models"
)

func strp(s string) *string  { return &s }
func intp(i int) *int        { return &i }
func fp(f float64) *float64 { return &f }

func TestCreateRequiresUnit(t *testing.T) {
	svc := NewService(dbtest.New(t), nil)
	_, err := svc.Create(context.Background(), Input{
		Metric: strp("ENERGY"), Year: intp(2025), TargetValue: fp(100),
	})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Field != "unit" {
		t.Fatalf("err = %v, want unit validation error", err)
	}

	_, err = svc.Create(context.Background(), Input{
		Metric: strp("ENERGY"), Year: intp(2025), TargetValue: fp(-1), Unit: strp("kWh"),
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("negative target err = %v", err)
	}
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	svc := NewService(dbtest.New(t), nil)
	ctx := context.Background()

	global, err := svc.Create(ctx, Input{Metric: strp("WATER"), Year: intp(2025), TargetValue: fp(9000), Unit: strp("m³")})
	if err != nil {
		t.Fatal(err)
	}
	gym, err := svc.Create(ctx, Input{Metric: strp("water"), Year: intp(2025), TargetValue: fp(800), Unit: strp("m³"), Location: strp("Gym")})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Resolve(ctx, models.MetricWater, 2025, "Gym")
	if err != nil || got.ID != gym.ID {
		t.Errorf("Resolve(Gym) = %+v, %v, want id %d", got, err, gym.ID)
	}
	got, err = svc.Resolve(ctx, models.MetricWater, 2025, "Library")
	if err != nil || got.ID != global.ID {
		t.Errorf("Resolve(Library) = %+v, %v, want global %d", got, err, global.ID)
	}
	got, err = svc.Resolve(ctx, models.MetricWater, 2025, "")
	if err != nil || got.ID != global.ID {
		t.Errorf("Resolve(global) = %+v, %v", got, err)
	}
	if _, err := svc.Resolve(ctx, models.MetricWater, 2024, "Gym"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Resolve(2024) err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(dbtest.New(t), nil)
	ctx := context.Background()

	tg, err := svc.Create(ctx, Input{Metric: strp("WASTE"), Year: intp(2025), TargetValue: fp(60), Unit: strp("%")})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := svc.Update(ctx, tg.ID, Input{TargetValue: fp(65)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TargetValue != 65 || updated.Unit != "%" {
		t.Errorf("updated = %+v", updated)
	}
	if _, err := svc.Update(ctx, tg.ID, Input{Unit: strp(" ")}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank unit err = %v", err)
	}
	if err := svc.Delete(ctx, tg.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := svc.List(ctx, database.TargetFilter{})
	if err != nil || len(list) != 0 {
		t.Errorf("List after delete = %v, %v", list, err)
	}
}
