// Package kpi holds the pure status, aggregation and ranking rules shared by
// the reading service, the dashboard and report export.
package kpi

import "campus-kpi-tracker/internal/models"

const (
	// lowerTolerance is the YELLOW band above target for consumption metrics
	lowerTolerance = 1.1
	// higherTolerance is the YELLOW band below target for diversion metrics
	higherTolerance = 0.9
)

// Policy describes how one metric kind is judged and displayed
type Policy struct {
	Kind           models.MetricKind
	HigherIsBetter bool
	DefaultUnit    string
	Label          string
}

var policies = map[models.MetricKind]Policy{
	models.MetricEnergy: {Kind: models.MetricEnergy, DefaultUnit: "kWh", Label: "Electricity"},
	models.MetricWater:  {Kind: models.MetricWater, DefaultUnit: "m³", Label: "Water"},
	models.MetricWaste:  {Kind: models.MetricWaste, HigherIsBetter: true, DefaultUnit: "%", Label: "Waste"},
}

// PolicyFor returns the policy of kind. Unknown kinds are treated as
// lower-is-better consumption metrics labelled by their raw name.
func PolicyFor(kind models.MetricKind) Policy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return Policy{Kind: kind, Label: string(kind)}
}

// Classify compares actual against target for kind
func Classify(actual, target float64, kind models.MetricKind) models.Status {
	if PolicyFor(kind).HigherIsBetter {
		switch {
		case actual >= target:
			return models.StatusGreen
		case actual >= higherTolerance*target:
			return models.StatusYellow
		default:
			return models.StatusRed
		}
	}

	switch {
	case actual <= target:
		return models.StatusGreen
	case actual <= lowerTolerance*target:
		return models.StatusYellow
	default:
		return models.StatusRed
	}
}

// IsBreach reports whether actual is on the wrong side of target.
// Callers decide separately whether a zero target should alert.
func IsBreach(actual, target float64, kind models.MetricKind) bool {
	if PolicyFor(kind).HigherIsBetter {
		return actual < target
	}
	return actual > target
}

// Assessment is the human wording used in exported reports
func Assessment(actual, target float64, kind models.MetricKind) string {
	if !IsBreach(actual, target, kind) {
		return "On Track"
	}
	if PolicyFor(kind).HigherIsBetter {
		return "Below Target"
	}
	return "Over Target"
}
