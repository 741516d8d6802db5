package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/rga610/citizen-reporting-react/internal/broadcast"
	"github.com/rga610/citizen-reporting-react/internal/middleware"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// LiveHandler serves the live feedback feed over SSE and over websocket.
// Both transports deliver the same per-tick event stream from the hub.
type LiveHandler struct {
	hub         *broadcast.Hub
	authService *services.AuthService
}

func NewLiveHandler(hub *broadcast.Hub, authService *services.AuthService) *LiveHandler {
	return &LiveHandler{hub: hub, authService: authService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleSSE godoc
// @Summary      Live feedback stream (SSE)
// @Description  Emits coop, comp, individual and period events on every tick
// @Tags         live
// @Param        slot path int true "Session slot"
// @Param        treatment query string false "Treatment fallback when no identity cookie is present"
// @Router       /api/sse/slot/{slot} [get]
func (h *LiveHandler) HandleSSE(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slot"})
		return
	}

	sub := h.hub.Subscribe(slot, h.resolveParticipant(c), c.Query("treatment"))
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("message", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// HandleWebSocket godoc
// @Summary      Live feedback stream (websocket)
// @Description  Same event stream as the SSE endpoint, as JSON messages
// @Tags         live
// @Param        slot path int true "Session slot"
// @Param        treatment query string false "Treatment fallback when no identity cookie is present"
// @Router       /ws/slot/{slot} [get]
func (h *LiveHandler) HandleWebSocket(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slot"})
		return
	}

	participantID := h.resolveParticipant(c)
	treatmentHint := c.Query("treatment")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(slot, participantID, treatmentHint)
	defer h.hub.Unsubscribe(sub)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// resolveParticipant extracts the viewer identity from the cookie when
// present. Failure is not an error here; the treatment query hint takes
// over downstream.
func (h *LiveHandler) resolveParticipant(c *gin.Context) string {
	token, err := c.Cookie(middleware.CookieName)
	if err != nil || token == "" {
		return ""
	}
	participantID, err := h.authService.ValidateToken(token)
	if err != nil {
		return ""
	}
	return participantID
}
