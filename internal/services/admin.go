package services

import (
	"errors"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/gorm"
)

type AdminService struct {
	db       *gorm.DB
	sessions *SessionService
}

func NewAdminService(db *gorm.DB, sessions *SessionService) *AdminService {
	return &AdminService{db: db, sessions: sessions}
}

type TreatmentCount struct {
	Treatment string `json:"treatment"`
	Count     int    `json:"count"`
}

type PeriodCount struct {
	PeriodID int `json:"periodId"`
	Count    int `json:"count"`
}

type AdminStats struct {
	ByTreatment []TreatmentCount `json:"byTreatment"`
	ByPeriod    []PeriodCount    `json:"byPeriod"`
}

// Stats breaks the active session down by treatment cell size and by
// 15-minute period activity. A slot without a session yields empty groups.
func (s *AdminService) Stats(slot int) (*AdminStats, error) {
	stats := &AdminStats{
		ByTreatment: []TreatmentCount{},
		ByPeriod:    []PeriodCount{},
	}

	session, err := s.sessions.Active(slot)
	if errors.Is(err, ErrNoSession) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Participant{}).
		Select("treatment, count(*) as count").
		Where("session_id = ?", session.ID).
		Group("treatment").
		Order("treatment ASC").
		Scan(&stats.ByTreatment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Scan{}).
		Select("period_id, count(*) as count").
		Where("session_id = ?", session.ID).
		Group("period_id").
		Order("period_id ASC").
		Scan(&stats.ByPeriod).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Roster lists the active session's participants in creation order.
func (s *AdminService) Roster(slot int) ([]models.Participant, error) {
	session, err := s.sessions.Active(slot)
	if errors.Is(err, ErrNoSession) {
		return []models.Participant{}, nil
	}
	if err != nil {
		return nil, err
	}

	var participants []models.Participant
	if err := s.db.Where("session_id = ?", session.ID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// ResetGroup zeroes totalReports for every participant of one treatment in
// the active session and reports how many rows changed.
func (s *AdminService) ResetGroup(slot int, treatment string) (int64, error) {
	session, err := s.sessions.Active(slot)
	if err != nil {
		return 0, err
	}

	result := s.db.Model(&models.Participant{}).
		Where("session_id = ? AND treatment = ?", session.ID, treatment).
		Update("total_reports", 0)
	return result.RowsAffected, result.Error
}

func (s *AdminService) ResetParticipant(participantID string) (*models.Participant, error) {
	return s.SetScore(participantID, 0)
}

// SetScore overwrites one participant's counter with an arbitrary
// non-negative value. Validation of the value happens at the handler.
func (s *AdminService) SetScore(participantID string, score int) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&participant).Update("total_reports", score).Error; err != nil {
		return nil, err
	}
	participant.TotalReports = score
	return &participant, nil
}

// ForceLogout deactivates one participant, invalidating their session on
// the next identity check.
func (s *AdminService) ForceLogout(participantID string) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&participant).Update("is_active", false).Error; err != nil {
		return nil, err
	}
	participant.IsActive = false
	return &participant, nil
}
