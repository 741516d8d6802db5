package models

import "time"

type Participant struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	PublicCode   string    `gorm:"size:100;not null;index" json:"public_code"`
	Treatment    string    `gorm:"size:20;not null" json:"treatment"`
	SessionID    uint      `gorm:"not null;index" json:"session_id"`
	TotalReports int       `gorm:"not null;default:0" json:"total_reports"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Treatment arms. Assignment is unweighted uniform random with no
// blocking/stratification, so cell sizes are not guaranteed balanced.
const (
	TreatmentControl     = "control"
	TreatmentIndividual  = "individual"
	TreatmentCooperative = "cooperative"
	TreatmentCompetitive = "competitive"
)

// Treatments lists the four arms in assignment order.
var Treatments = []string{
	TreatmentControl,
	TreatmentIndividual,
	TreatmentCooperative,
	TreatmentCompetitive,
}

func ValidTreatment(t string) bool {
	for _, known := range Treatments {
		if t == known {
			return true
		}
	}
	return false
}
