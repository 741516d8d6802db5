package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rga610/citizen-reporting-react/internal/models"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService  *services.AdminService
	exportService *services.ExportService
	seedService   *services.SeedService
	defaultSlot   int
}

func NewAdminHandler(adminService *services.AdminService, exportService *services.ExportService, seedService *services.SeedService, defaultSlot int) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		exportService: exportService,
		seedService:   seedService,
		defaultSlot:   defaultSlot,
	}
}

func (h *AdminHandler) slot(c *gin.Context) int {
	if raw := c.Query("slot"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return h.defaultSlot
}

// Stats godoc
// @Summary      Aggregate stats
// @Description  Participant counts by treatment and scan counts by period for the active session
// @Tags         admin
// @Produce      json
// @Param        slot query int false "Session slot"
// @Success      200 {object} services.AdminStats
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(h.slot(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Participants godoc
// @Summary      Participant roster
// @Tags         admin
// @Produce      json
// @Param        slot query int false "Session slot"
// @Success      200 {array} models.Participant
// @Router       /api/admin/participants [get]
func (h *AdminHandler) Participants(c *gin.Context) {
	roster, err := h.adminService.Roster(h.slot(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, roster)
}

// Export godoc
// @Summary      CSV export
// @Description  Exports scans or participants as CSV, optionally scoped to one session
// @Tags         admin
// @Produce      text/csv
// @Param        type path string true "scans or participants"
// @Param        sessionId query int false "Session ID"
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/export/{type} [get]
func (h *AdminHandler) Export(c *gin.Context) {
	var sessionID *uint
	if raw := c.Query("sessionId"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sessionId"})
			return
		}
		id := uint(n)
		sessionID = &id
	}

	var csvData []byte
	var err error
	switch c.Param("type") {
	case "scans":
		csvData, err = h.exportService.ScansCSV(sessionID)
	case "participants":
		csvData, err = h.exportService.ParticipantsCSV(sessionID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/csv", csvData)
}

type ResetGroupRequest struct {
	Treatment string `json:"treatment" binding:"required" example:"competitive"`
}

// ResetGroup godoc
// @Summary      Reset a treatment group's counters
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body ResetGroupRequest true "Group to reset"
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/reset-group [post]
func (h *AdminHandler) ResetGroup(c *gin.Context) {
	var req ResetGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "treatment is required"})
		return
	}
	if !models.ValidTreatment(req.Treatment) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown treatment"})
		return
	}

	updated, err := h.adminService.ResetGroup(h.slot(c), req.Treatment)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No active session found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": updated})
}

type ParticipantIDRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// ResetUser godoc
// @Summary      Reset one participant's counter to zero
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body ParticipantIDRequest true "Participant"
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/reset-user [post]
func (h *AdminHandler) ResetUser(c *gin.Context) {
	var req ParticipantIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participantId is required"})
		return
	}

	participant, err := h.adminService.ResetParticipant(req.ParticipantID)
	if err != nil {
		h.participantError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "participant": participantSummary(participant)})
}

type SetScoreRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
	Score         *int   `json:"score" binding:"required"`
}

// SetScore godoc
// @Summary      Set one participant's counter
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body SetScoreRequest true "Participant and score"
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/set-score [post]
func (h *AdminHandler) SetScore(c *gin.Context) {
	var req SetScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participantId and score are required"})
		return
	}
	if *req.Score < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "score must be a non-negative integer"})
		return
	}

	participant, err := h.adminService.SetScore(req.ParticipantID, *req.Score)
	if err != nil {
		h.participantError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "participant": participantSummary(participant)})
}

// LogoutUser godoc
// @Summary      Force-logout one participant
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body ParticipantIDRequest true "Participant"
// @Failure      404 {object} ErrorResponse
// @Router       /api/admin/logout-user [post]
func (h *AdminHandler) LogoutUser(c *gin.Context) {
	var req ParticipantIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participantId is required"})
		return
	}

	participant, err := h.adminService.ForceLogout(req.ParticipantID)
	if err != nil {
		h.participantError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "participant": gin.H{
		"id":         participant.ID,
		"publicCode": participant.PublicCode,
		"isActive":   false,
	}})
}

// Seed godoc
// @Summary      Seed issues and participants for the configured slot
// @Tags         admin
// @Produce      json
// @Router       /api/admin/seed [post]
func (h *AdminHandler) Seed(c *gin.Context) {
	issues, err := h.seedService.SeedIssues()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	participants, err := h.seedService.SeedParticipants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "issues": issues, "participants": participants})
}

func (h *AdminHandler) participantError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Participant not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func participantSummary(p *models.Participant) gin.H {
	return gin.H{
		"id":           p.ID,
		"publicCode":   p.PublicCode,
		"totalReports": p.TotalReports,
	}
}
