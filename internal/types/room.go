package types

import "time"

const (
	ModeStandard      = "standard"
	ModeMemorySupport = "memory_support"
)

// Room is a resident room profile. Mode selects the companion's persona
// layer; any value other than memory_support behaves as standard.
type Room struct {
	RoomID       string    `gorm:"primaryKey" json:"room_id"`
	ResidentName string    `gorm:"not null" json:"resident_name"`
	Mode         string    `gorm:"not null;default:'standard'" json:"mode"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
