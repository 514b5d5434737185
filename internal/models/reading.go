package models

import "time"

// MetricReading is one monthly submission for a metric, period and location.
// Several readings may exist for the same period; the newest is the MTD value.
type MetricReading struct {
	ID       uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Metric   MetricKind `gorm:"type:varchar(10);not null;index:idx_reading_period,priority:1" json:"metricKind"`
	Year     int        `gorm:"not null;index:idx_reading_period,priority:2" json:"year"`
	Month    string     `gorm:"type:varchar(12);not null;index:idx_reading_period,priority:3" json:"month"`
	Location string     `gorm:"type:varchar(120);index" json:"location,omitempty"`
	Actual   float64    `gorm:"not null" json:"actual"`
	Target   float64    `gorm:"not null" json:"target"`
	Unit     string     `gorm:"type:varchar(20);not null" json:"unit"`
	Source   string     `gorm:"type:varchar(120)" json:"source,omitempty"`
	Status   Status     `gorm:"type:varchar(10);not null" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name
func (MetricReading) TableName() string {
	return "metric_readings"
}

// HasLocation reports whether the reading is tagged with a location
func (r *MetricReading) HasLocation() bool {
	return r.Location != ""
}
