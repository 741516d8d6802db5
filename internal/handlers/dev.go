package handlers

import (
	"net/http"

	"github.com/rga610/citizen-reporting-react/internal/models"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DevHandler serves test-only endpoints. Only mounted outside release mode.
type DevHandler struct {
	db          *gorm.DB
	authService *services.AuthService
	sessions    *services.SessionService
	defaultSlot int
}

func NewDevHandler(db *gorm.DB, authService *services.AuthService, sessions *services.SessionService, defaultSlot int) *DevHandler {
	return &DevHandler{db: db, authService: authService, sessions: sessions, defaultSlot: defaultSlot}
}

func (h *DevHandler) ListParticipants(c *gin.Context) {
	session, err := h.sessions.Active(h.defaultSlot)
	if err != nil {
		c.JSON(http.StatusOK, []models.Participant{})
		return
	}

	var participants []models.Participant
	h.db.Where("session_id = ?", session.ID).Order("created_at DESC").Find(&participants)
	c.JSON(http.StatusOK, participants)
}

type SwitchUserRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

func (h *DevHandler) SwitchUser(c *gin.Context) {
	var req SwitchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participantId required"})
		return
	}

	participant, err := h.authService.GetParticipant(req.ParticipantID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Participant not found"})
		return
	}

	// Deactivate whoever the cookie pointed to before switching.
	if token, err := c.Cookie("pid"); err == nil && token != "" {
		if oldID, err := h.authService.ValidateToken(token); err == nil && oldID != participant.ID {
			_ = h.authService.Logout(oldID)
		}
	}

	h.db.Model(participant).Update("is_active", true)

	token, err := h.authService.GenerateToken(participant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("pid", token, cookieMaxAge, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"status":       "switched",
		"publicCode":   participant.PublicCode,
		"treatment":    participant.Treatment,
		"totalReports": participant.TotalReports,
	})
}
