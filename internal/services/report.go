package services

import (
	"errors"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/gorm"
)

type ReportService struct {
	db       *gorm.DB
	sessions *SessionService
	feedback *FeedbackService
	slot     int
}

func NewReportService(db *gorm.DB, sessions *SessionService, feedback *FeedbackService, slot int) *ReportService {
	return &ReportService{db: db, sessions: sessions, feedback: feedback, slot: slot}
}

type ReportInput struct {
	IssueID  string
	Lat      *float64
	Lon      *float64
	Accuracy *float64
}

const (
	ReportStatusOK        = "ok"
	ReportStatusDuplicate = "duplicate"
	ReportStatusInvalid   = "invalid"
)

// ReportResult carries the soft outcomes (invalid, duplicate) alongside the
// success payload. Those are expected user-facing results, not HTTP errors.
type ReportResult struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Treatment string    `json:"treatment,omitempty"`
	Feedback  *Feedback `json:"feedback,omitempty"`
}

// Submit records one scan event for a participant. Exactly one scan per
// (participant, issue) pair can ever exist: the scans table carries a unique
// index on the pair, and a duplicated-key error from the insert is the
// duplicate outcome. Concurrent double-submissions therefore cannot produce
// two rows or a double increment.
func (s *ReportService) Submit(participantID string, input ReportInput) (*ReportResult, error) {
	var issue models.Issue
	err := s.db.First(&issue, "id = ?", input.IssueID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && issue.SessionSlot != s.slot) {
		return &ReportResult{Status: ReportStatusInvalid, Message: "Unknown issue"}, nil
	}
	if err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	session, err := s.sessions.Ensure(s.slot)
	if err != nil {
		return nil, err
	}
	period := PeriodID(session.StartTs, time.Now())

	scan := models.Scan{
		ParticipantID: participant.ID,
		IssueID:       issue.ID,
		SessionID:     session.ID,
		Treatment:     participant.Treatment,
		PeriodID:      period,
		Lat:           input.Lat,
		Lon:           input.Lon,
		Accuracy:      input.Accuracy,
		Ts:            time.Now(),
	}
	if err := s.db.Create(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ReportResult{Status: ReportStatusDuplicate, Message: "Already reported"}, nil
		}
		return nil, err
	}

	if err := s.db.Model(&models.Participant{}).
		Where("id = ?", participant.ID).
		Update("total_reports", gorm.Expr("total_reports + ?", 1)).Error; err != nil {
		return nil, err
	}
	participant.TotalReports++

	fb, err := s.feedback.ForReport(&participant, session, period)
	if err != nil {
		return nil, err
	}

	return &ReportResult{
		Status:    ReportStatusOK,
		Treatment: participant.Treatment,
		Feedback:  fb,
	}, nil
}
