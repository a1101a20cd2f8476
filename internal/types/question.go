package types

import (
	"time"

	"github.com/google/uuid"
)

// Question is one logged turn of the resident-facing conversation: what was
// asked and what the companion answered.
type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID       string    `gorm:"not null;index" json:"room_id"`
	ResidentName string    `gorm:"not null" json:"resident_name"`
	Question     string    `gorm:"not null" json:"question"`
	Response     string    `json:"response"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}
