package models

import "time"

// NotificationKind is the severity shown in the dashboard
type NotificationKind string

const (
	NotificationWarning NotificationKind = "warning"
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
)

// Notification is an alert raised when a reading breaches its target
type Notification struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind        NotificationKind `gorm:"type:varchar(10);not null;default:'warning'" json:"kind"`
	Title       string           `gorm:"type:varchar(200);not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	Metric      MetricKind       `gorm:"type:varchar(10)" json:"metricKind"`
	Location    string           `gorm:"type:varchar(120)" json:"location"`
	ActualValue float64          `json:"actualValue"`
	TargetValue float64          `json:"targetValue"`
	Read        bool             `gorm:"column:is_read;not null;default:false;index" json:"read"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime;index" json:"createdAt"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
