package services

import (
	"errors"
	"strings"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthService issues and validates the signed participant identity carried
// in the pid cookie. Participants authenticate by public code alone; there
// is no password in this system.
type AuthService struct {
	db           *gorm.DB
	sessions     *SessionService
	cookieSecret []byte
	slot         int
}

func NewAuthService(db *gorm.DB, sessions *SessionService, cookieSecret string, slot int) *AuthService {
	return &AuthService{db: db, sessions: sessions, cookieSecret: []byte(cookieSecret), slot: slot}
}

// Login resolves a public code within the active session and marks the
// participant active. An already-active participant is rejected unless
// forceLogout is set, which deactivates the existing login first.
func (s *AuthService) Login(username string, forceLogout bool) (*models.Participant, string, error) {
	username = strings.TrimSpace(username)

	session, err := s.sessions.Active(s.slot)
	if err != nil {
		return nil, "", err
	}

	var participant models.Participant
	if err := s.db.Where("public_code = ? AND session_id = ?", username, session.ID).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrParticipantNotFound
		}
		return nil, "", err
	}

	if participant.IsActive && !forceLogout {
		return nil, "", ErrAlreadyActive
	}

	if err := s.db.Model(&participant).Update("is_active", true).Error; err != nil {
		return nil, "", err
	}
	participant.IsActive = true

	token, err := s.GenerateToken(participant.ID)
	if err != nil {
		return nil, "", err
	}
	return &participant, token, nil
}

// Logout marks a participant inactive. A stale id is not an error; the
// caller clears the cookie either way.
func (s *AuthService) Logout(participantID string) error {
	return s.db.Model(&models.Participant{}).
		Where("id = ?", participantID).
		Update("is_active", false).Error
}

func (s *AuthService) GetParticipant(participantID string) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (s *AuthService) GenerateToken(participantID string) (string, error) {
	claims := jwt.MapClaims{
		"pid": participantID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cookieSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.cookieSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	pid, ok := claims["pid"].(string)
	if !ok || pid == "" {
		return "", errors.New("invalid pid in token")
	}

	return pid, nil
}
