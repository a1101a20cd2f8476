package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertStatusNew      = "new"
	AlertStatusAck      = "ack"
	AlertStatusResolved = "resolved"
)

const AlertTypeHelp = "help"

type Alert struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID         string     `gorm:"not null;index" json:"room_id"`
	ResidentName   string     `gorm:"not null" json:"resident_name"`
	Type           string     `gorm:"not null" json:"type"`
	Message        string     `gorm:"not null" json:"message"`
	Status         string     `gorm:"not null;default:'new';index" json:"status"`
	Severity       string     `gorm:"not null;default:'routine';index" json:"severity"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}
