package handlers

import (
	"errors"
	"net/http"

	"github.com/rga610/citizen-reporting-react/internal/middleware"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 24 * 60 * 60

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Username    string `json:"username" binding:"required" example:"skinny_deer"`
	ForceLogout bool   `json:"forceLogout" example:"false"`
}

type ParticipantSnapshot struct {
	Status        string `json:"status"`
	PublicCode    string `json:"publicCode"`
	Treatment     string `json:"treatment"`
	TotalReports  int    `json:"totalReports"`
	ParticipantID string `json:"participantId,omitempty"`
}

// Login godoc
// @Summary      Log in with an assigned public code
// @Description  Resolves the code within the active session, marks the participant active and sets the identity cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login data"
// @Success      200 {object} ParticipantSnapshot
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username is required"})
		return
	}

	participant, token, err := h.authService.Login(req.Username, req.ForceLogout)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSession):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No active session found"})
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Username not found"})
		case errors.Is(err, services.ErrAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{
				"error":         "This username is already logged in.",
				"alreadyActive": true,
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	h.setIdentityCookie(c, token)
	c.JSON(http.StatusOK, ParticipantSnapshot{
		Status:       "ok",
		PublicCode:   participant.PublicCode,
		Treatment:    participant.Treatment,
		TotalReports: participant.TotalReports,
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Marks the participant inactive and clears the identity cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.CookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Not logged in"})
		return
	}

	participantID, err := h.authService.ValidateToken(token)
	if err != nil {
		// Cookie is unreadable; clearing it is all we can do.
		h.clearIdentityCookie(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Session cleared"})
		return
	}

	if err := h.authService.Logout(participantID); err != nil {
		h.clearIdentityCookie(c)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to logout"})
		return
	}

	h.clearIdentityCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Logged out successfully"})
}

// Join godoc
// @Summary      Current participant snapshot
// @Description  Returns the logged-in participant's code, treatment and counter
// @Tags         auth
// @Produce      json
// @Success      200 {object} ParticipantSnapshot
// @Failure      401 {object} ErrorResponse
// @Router       /api/join [get]
func (h *AuthHandler) Join(c *gin.Context) {
	token, err := c.Cookie(middleware.CookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not logged in. Please log in first."})
		return
	}

	participantID, err := h.authService.ValidateToken(token)
	if err != nil {
		h.clearIdentityCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session invalid. Please log in again."})
		return
	}

	participant, err := h.authService.GetParticipant(participantID)
	if err != nil {
		h.clearIdentityCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session invalid. Please log in again."})
		return
	}

	if !participant.IsActive {
		h.clearIdentityCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session expired. Please log in again."})
		return
	}

	c.JSON(http.StatusOK, ParticipantSnapshot{
		Status:        "ok",
		PublicCode:    participant.PublicCode,
		Treatment:     participant.Treatment,
		TotalReports:  participant.TotalReports,
		ParticipantID: participant.ID,
	})
}

func (h *AuthHandler) setIdentityCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, token, cookieMaxAge, "/", "", true, true)
}

func (h *AuthHandler) clearIdentityCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", true, true)
}
