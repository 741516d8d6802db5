package models

// Issue is static reference data: one reportable code placed on campus.
// An issue is only reportable within the session matching its SessionSlot.
type Issue struct {
	ID          string `gorm:"primaryKey;size:20" json:"id"`
	SessionSlot int    `gorm:"not null;index" json:"session_slot"`
}
