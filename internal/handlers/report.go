package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type ReportRequest struct {
	IssueID  string   `json:"issue_id" binding:"required" example:"ISSUE_A01"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// Submit godoc
// @Summary      Report an issue
// @Description  Records one scan event and returns treatment-framed feedback. Unknown or out-of-slot issues and duplicates are soft outcomes, not errors.
// @Tags         report
// @Accept       json
// @Produce      json
// @Param        request body ReportRequest true "Scan data"
// @Success      200 {object} services.ReportResult
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/report [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	participantID := c.GetString("participant_id")

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad payload"})
		return
	}
	req.IssueID = strings.TrimSpace(req.IssueID)
	if req.IssueID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad payload"})
		return
	}

	result, err := h.reportService.Submit(participantID, services.ReportInput{
		IssueID:  req.IssueID,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Accuracy: req.Accuracy,
	})
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no participant"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
