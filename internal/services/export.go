package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/gorm"
)

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// ScansCSV renders the scan event log. A nil sessionID exports everything.
func (s *ExportService) ScansCSV(sessionID *uint) ([]byte, error) {
	query := s.db.Order("ts ASC")
	if sessionID != nil {
		query = query.Where("session_id = ?", *sessionID)
	}

	var scans []models.Scan
	if err := query.Find(&scans).Error; err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "participant_id", "treatment", "issue_id", "session_id", "period_id", "lat", "lon", "accuracy", "ts"})
	for _, r := range scans {
		rec := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.ParticipantID,
			r.Treatment,
			r.IssueID,
			strconv.FormatUint(uint64(r.SessionID), 10),
			strconv.Itoa(r.PeriodID),
			formatCoord(r.Lat),
			formatCoord(r.Lon),
			formatCoord(r.Accuracy),
			r.Ts.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ParticipantsCSV renders the participant roster in creation order.
func (s *ExportService) ParticipantsCSV(sessionID *uint) ([]byte, error) {
	query := s.db.Order("created_at ASC")
	if sessionID != nil {
		query = query.Where("session_id = ?", *sessionID)
	}

	var participants []models.Participant
	if err := query.Find(&participants).Error; err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "public_code", "treatment", "session_id", "total_reports", "created_at"})
	for _, p := range participants {
		rec := []string{
			p.ID,
			p.PublicCode,
			p.Treatment,
			strconv.FormatUint(uint64(p.SessionID), 10),
			strconv.Itoa(p.TotalReports),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
