package kpi

import (
	"sort"

	"campus-kpi-tracker/internal/models"
)

// DefaultRankLimit is how many locations a ranking returns
const DefaultRankLimit = 5

// LocationRank is one location's rolled-up consumption
type LocationRank struct {
	Location    string  `json:"location"`
	TotalActual float64 `json:"totalActual"`
	TotalTarget float64 `json:"totalTarget"`
	AvgActual   float64 `json:"avgActual"`
	AvgTarget   float64 `json:"avgTarget"`
	Count       int     `json:"count"`
}

// RankLocations groups readings by location and orders the groups.
// Consumption metrics rank by summed actual descending; diversion metrics
// rank by average actual ascending so the worst performers come first.
// Readings without a location are ignored and ties keep first-appearance order.
func RankLocations(kind models.MetricKind, readings []models.MetricReading, limit int) []LocationRank {
	groups := make([]LocationRank, 0)
	index := make(map[string]int)

	for _, r := range readings {
		if !r.HasLocation() {
			continue
		}
		i, ok := index[r.Location]
		if !ok {
			i = len(groups)
			index[r.Location] = i
			groups = append(groups, LocationRank{Location: r.Location})
		}
		groups[i].TotalActual += r.Actual
		groups[i].TotalTarget += r.Target
		groups[i].Count++
	}

	for i := range groups {
		n := float64(groups[i].Count)
		groups[i].AvgActual = groups[i].TotalActual / n
		groups[i].AvgTarget = groups[i].TotalTarget / n
	}

	if PolicyFor(kind).HigherIsBetter {
		sort.SliceStable(groups, func(a, b int) bool {
			return groups[a].AvgActual < groups[b].AvgActual
		})
	} else {
		sort.SliceStable(groups, func(a, b int) bool {
			return groups[a].TotalActual > groups[b].TotalActual
		})
	}

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
