package types

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque staff login session. The CSRF token travels with the
// session and must accompany every mutating staff request.
type Session struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	StaffName string    `gorm:"not null" json:"staff_name"`
	CSRFToken string    `gorm:"not null" json:"csrf_token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
