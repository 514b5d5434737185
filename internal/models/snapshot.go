package models

import "time"

// KpiSnapshot is an immutable copy of the latest reading for a period
type KpiSnapshot struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Metric      MetricKind `gorm:"type:varchar(10);not null;index:idx_snapshot_period,priority:1" json:"metricKind"`
	Year        int        `gorm:"not null;index:idx_snapshot_period,priority:2" json:"year"`
	Month       string     `gorm:"type:varchar(12);not null;index:idx_snapshot_period,priority:3" json:"month"`
	Actual      float64    `gorm:"not null" json:"actual"`
	Target      float64    `gorm:"not null" json:"target"`
	Status      Status     `gorm:"type:varchar(10);not null" json:"status"`
	Location    string     `gorm:"type:varchar(120)" json:"location,omitempty"`
	GeneratedAt time.Time  `gorm:"not null;index" json:"generatedAt"`
}

// TableName specifies the table name
func (KpiSnapshot) TableName() string {
	return "kpi_snapshots"
}
