package kpi

import (
	"testing"

	"campus-kpi-tracker/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		actual float64
		target float64
		kind   models.MetricKind
		want   models.Status
	}{
		{"energy at target", 100, 100, models.MetricEnergy, models.StatusGreen},
		{"energy under target", 80, 100, models.MetricEnergy, models.StatusGreen},
		{"energy at yellow edge", 110, 100, models.MetricEnergy, models.StatusYellow},
		{"energy just over yellow", 110.01, 100, models.MetricEnergy, models.StatusRed},
		{"water over target", 105, 100, models.MetricWater, models.StatusYellow},
		{"water far over", 200, 100, models.MetricWater, models.StatusRed},
		{"waste at target", 60, 60, models.MetricWaste, models.StatusGreen},
		{"waste above target", 75, 60, models.MetricWaste, models.StatusGreen},
		{"waste at yellow edge", 90, 100, models.MetricWaste, models.StatusYellow},
		{"waste just below yellow", 89.99, 100, models.MetricWaste, models.StatusRed},
		{"energy zero target zero actual", 0, 0, models.MetricEnergy, models.StatusGreen},
		{"energy zero target positive actual", 1, 0, models.MetricEnergy, models.StatusRed},
		{"waste zero target", 0, 0, models.MetricWaste, models.StatusGreen},
		{"negative actual energy", -5, 10, models.MetricEnergy, models.StatusGreen},
		{"unknown kind is lower is better", 105, 100, models.MetricKind("CARBON"), models.StatusYellow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.actual, tt.target, tt.kind); got != tt.want {
				t.Errorf("Classify(%v, %v, %s) = %s, want %s", tt.actual, tt.target, tt.kind, got, tt.want)
			}
		})
	}
}

func TestIsBreach(t *testing.T) {
	tests := []struct {
		actual, target float64
		kind           models.MetricKind
		want           bool
	}{
		{5000, 4000, models.MetricEnergy, true},
		{3000, 4000, models.MetricEnergy, false},
		{4000, 4000, models.MetricWater, false},
		{50, 60, models.MetricWaste, true},
		{60, 60, models.MetricWaste, false},
	}
	for _, tt := range tests {
		if got := IsBreach(tt.actual, tt.target, tt.kind); got != tt.want {
			t.Errorf("IsBreach(%v, %v, %s) = %v, want %v", tt.actual, tt.target, tt.kind, got, tt.want)
		}
	}
}

func TestAssessment(t *testing.T) {
	if got := Assessment(120, 100, models.MetricEnergy); got != "Over Target" {
		t.Errorf("energy over = %q", got)
	}
	if got := Assessment(40, 60, models.MetricWaste); got != "Below Target" {
		t.Errorf("waste under = %q", got)
	}
	if got := Assessment(90, 100, models.MetricWater); got != "On Track" {
		t.Errorf("water under = %q", got)
	}
}

func TestPolicyFor(t *testing.T) {
	if p := PolicyFor(models.MetricWater); p.DefaultUnit != "m³" || p.Label != "Water" {
		t.Errorf("PolicyFor(WATER) = %+v", p)
	}
	if p := PolicyFor(models.MetricEnergy); p.Label != "Electricity" || p.HigherIsBetter {
		t.Errorf("PolicyFor(ENERGY) = %+v", p)
	}
	if p := PolicyFor(models.MetricWaste); !p.HigherIsBetter || p.DefaultUnit != "%" {
		t.Errorf("PolicyFor(WASTE) = %+v", p)
	}
}
