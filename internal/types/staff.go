package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleNurse      = "nurse"
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

func ValidStaffRole(role string) bool {
	switch role {
	case RoleNurse, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

type Staff struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"not null;uniqueIndex" json:"username"`
	DisplayName  string     `gorm:"not null" json:"display_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:'nurse'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}
