package models

import "time"

// PurgeLog records one run of the notification retention purge
type PurgeLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Reason        string    `gorm:"type:varchar(50);not null" json:"reason"`
	RetentionDays int       `gorm:"not null" json:"retentionDays"`
	Cutoff        time.Time `gorm:"not null" json:"cutoff"`
	TargetCount   int       `gorm:"not null" json:"targetCount"`
	DeletedCount  int       `gorm:"not null" json:"deletedCount"`
	DryRun        bool      `gorm:"not null" json:"dryRun"`
	ExecutedAt    time.Time `gorm:"not null;autoCreateTime;index" json:"executedAt"`
}

// TableName specifies the table name
func (PurgeLog) TableName() string {
	return "purge_logs"
}

// PurgeReason constants
const (
	PurgeReasonRetention = "retention_expired"
	PurgeReasonManual    = "manual_run"
)
