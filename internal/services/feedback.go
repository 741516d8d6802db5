package services

import (
	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/gorm"
)

// leaderboardTopN is how many entries report feedback shows for the
// competitive arm. The live broadcast sends the full group instead.
const leaderboardTopN = 5

// leaderboardOrder ranks strictly by totalReports descending; ties break
// earliest-created-first so the ordering is stable across queries.
const leaderboardOrder = "total_reports DESC, created_at ASC, id ASC"

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type LeaderboardEntry struct {
	PublicCode   string `json:"publicCode"`
	TotalReports int    `json:"totalReports"`
}

// Feedback is the treatment-framed payload returned with a successful
// report. Only the fields for the participant's own arm are set.
type Feedback struct {
	Message     string             `json:"message,omitempty"`
	MyCount     *int               `json:"myCount,omitempty"`
	Found       *int               `json:"found,omitempty"`
	Total       *int               `json:"total,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	PeriodID    int                `json:"period_id"`
}

// ForReport builds the feedback for one participant right after a report.
// Aggregates are always scoped to the participant's own treatment group; a
// participant never sees data computed across groups.
func (s *FeedbackService) ForReport(participant *models.Participant, session *models.Session, period int) (*Feedback, error) {
	fb := &Feedback{PeriodID: period}

	switch participant.Treatment {
	case models.TreatmentControl:
		fb.Message = "Report received"

	case models.TreatmentIndividual:
		count := participant.TotalReports
		fb.MyCount = &count

	case models.TreatmentCooperative:
		found, total, err := s.CooperativeProgress(session)
		if err != nil {
			return nil, err
		}
		fb.Found = &found
		fb.Total = &total

	case models.TreatmentCompetitive:
		top, err := s.GroupLeaderboard(session.ID, participant.Treatment, leaderboardTopN)
		if err != nil {
			return nil, err
		}
		fb.Leaderboard = top
	}

	return fb, nil
}

// CooperativeProgress counts distinct issues scanned by cooperative group
// members only; scans from other arms in the same session never count.
// Total is the global issue count for the session's slot.
func (s *FeedbackService) CooperativeProgress(session *models.Session) (found, total int, err error) {
	var totalIssues int64
	if err := s.db.Model(&models.Issue{}).
		Where("session_slot = ?", session.Slot).
		Count(&totalIssues).Error; err != nil {
		return 0, 0, err
	}

	var coopIDs []string
	if err := s.db.Model(&models.Participant{}).
		Where("session_id = ? AND treatment = ?", session.ID, models.TreatmentCooperative).
		Pluck("id", &coopIDs).Error; err != nil {
		return 0, 0, err
	}

	// No cooperative participants yet: found is 0 without running the
	// distinct-scan query.
	if len(coopIDs) == 0 {
		return 0, int(totalIssues), nil
	}

	var distinctIssues int64
	if err := s.db.Model(&models.Scan{}).
		Where("session_id = ? AND participant_id IN ?", session.ID, coopIDs).
		Distinct("issue_id").
		Count(&distinctIssues).Error; err != nil {
		return 0, 0, err
	}

	return int(distinctIssues), int(totalIssues), nil
}

// GroupLeaderboard returns participants of one treatment group ordered by
// score. limit of 0 returns the whole group.
func (s *FeedbackService) GroupLeaderboard(sessionID uint, treatment string, limit int) ([]LeaderboardEntry, error) {
	query := s.db.Model(&models.Participant{}).
		Where("session_id = ? AND treatment = ?", sessionID, treatment).
		Order(leaderboardOrder)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var participants []models.Participant
	if err := query.Find(&participants).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(participants))
	for i, p := range participants {
		entries[i] = LeaderboardEntry{PublicCode: p.PublicCode, TotalReports: p.TotalReports}
	}
	return entries, nil
}

// SessionParticipants loads a session's full roster, used by the broadcast
// pass to resolve viewers without a per-client query.
func (s *FeedbackService) SessionParticipants(sessionID uint) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("session_id = ?", sessionID).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
