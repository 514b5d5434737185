package kpi

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders v with thousands separators and at most three decimals
func FormatNumber(v float64) string {
	return humanize.Commaf(math.Round(v*1000) / 1000)
}
