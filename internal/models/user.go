package models

import "time"

// Role gates which API operations a user may call
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDataEntry Role = "data-entry"
	RoleViewer    Role = "viewer"
)

// ParseRole accepts the three known roles; "user" is the legacy name for viewer
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDataEntry, RoleViewer:
		return Role(s), true
	case "user":
		return RoleViewer, true
	}
	return "", false
}

// User is an account created by the bootstrap command
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(80);not null" json:"username"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
