package models

// Target is the yearly goal for a metric. An empty Location is the campus-wide default.
type Target struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Metric      MetricKind `gorm:"type:varchar(10);not null;index:idx_target_lookup,priority:1" json:"metricKind"`
	Year        int        `gorm:"not null;index:idx_target_lookup,priority:2" json:"year"`
	Location    string     `gorm:"type:varchar(120);index:idx_target_lookup,priority:3" json:"location,omitempty"`
	TargetValue float64    `gorm:"not null" json:"targetValue"`
	Unit        string     `gorm:"type:varchar(20);not null" json:"unit"`
}

// TableName specifies the table name
func (Target) TableName() string {
	return "targets"
}

// IsGlobal reports whether the target applies campus-wide
func (t *Target) IsGlobal() bool {
	return t.Location == ""
}
