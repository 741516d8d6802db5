package services

import (
	"errors"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/gorm"
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// Active returns the current session for a slot: the most recently created
// row with that slot. Sessions are append-only, never deleted.
func (s *SessionService) Active(slot int) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("slot = ?", slot).Order("id DESC").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &session, nil
}

// Ensure returns the active session for a slot, creating one with the
// current time as origin if none exists yet (first-report bootstrapping).
func (s *SessionService) Ensure(slot int) (*models.Session, error) {
	session, err := s.Active(slot)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrNoSession) {
		return nil, err
	}

	created := models.Session{Slot: slot, StartTs: time.Now()}
	if err := s.db.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}
