package models

import "time"

// Session anchors one experiment run for a slot. The active session for a
// slot is the most recently created row with that slot; sessions are never
// deleted.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slot      int       `gorm:"not null;index" json:"slot"`
	StartTs   time.Time `gorm:"not null" json:"start_ts"`
	CreatedAt time.Time `json:"created_at"`
}
