package models

import "strings"

// MetricKind identifies which campus resource a reading measures
type MetricKind string

const (
	MetricEnergy MetricKind = "ENERGY"
	MetricWater  MetricKind = "WATER"
	MetricWaste  MetricKind = "WASTE"
)

// MetricKinds lists every supported kind in dashboard order
var MetricKinds = []MetricKind{MetricEnergy, MetricWater, MetricWaste}

// ParseMetricKind accepts any casing of a known kind
func ParseMetricKind(s string) (MetricKind, bool) {
	kind := MetricKind(strings.ToUpper(strings.TrimSpace(s)))
	switch kind {
	case MetricEnergy, MetricWater, MetricWaste:
		return kind, true
	}
	return "", false
}

// Status is the traffic-light classification of actual vs target
type Status string

const (
	StatusGreen  Status = "GREEN"
	StatusYellow Status = "YELLOW"
	StatusRed    Status = "RED"
)

// Months is the fixed calendar ordering used for YTD windows
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex returns the zero-based position of an exact month name, or -1
func MonthIndex(month string) int {
	for i, m := range Months {
		if m == month {
			return i
		}
	}
	return -1
}

// NormalizeMonth maps "march", "MARCH" or "Mar" to "March"
func NormalizeMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, m := range Months {
		if strings.EqualFold(m, s) || (len(s) == 3 && strings.EqualFold(m[:3], s)) {
			return m, true
		}
	}
	return "", false
}
