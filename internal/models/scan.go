package models

import "time"

// Scan is one immutable report event. The composite unique index makes a
// second report of the same issue by the same participant fail at the store
// level; the resulting duplicated-key error is the duplicate outcome.
type Scan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ParticipantID string    `gorm:"size:36;not null;uniqueIndex:idx_scan_participant_issue" json:"participant_id"`
	IssueID       string    `gorm:"size:20;not null;uniqueIndex:idx_scan_participant_issue" json:"issue_id"`
	SessionID     uint      `gorm:"not null;index" json:"session_id"`
	Treatment     string    `gorm:"size:20;not null" json:"treatment"`
	PeriodID      int       `gorm:"not null" json:"period_id"`
	Lat           *float64  `json:"lat,omitempty"`
	Lon           *float64  `json:"lon,omitempty"`
	Accuracy      *float64  `json:"accuracy,omitempty"`
	Ts            time.Time `gorm:"not null" json:"ts"`
}
