package middleware

import (
	"net/http"
	"strings"

	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
)

// CookieName carries the signed participant identity.
const CookieName = "pid"

// ParticipantAuth requires a valid identity cookie and puts the participant
// id into the context.
func ParticipantAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no participant"})
			return
		}

		participantID, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no participant"})
			return
		}

		c.Set("participant_id", participantID)
		c.Next()
	}
}

// AdminAuth compares the shared admin token from header or query against
// the configured value. A missing server-side token is a misconfiguration
// and reported as such, distinct from an invalid credential.
func AdminAuth(adminToken string) gin.HandlerFunc {
	expected := strings.TrimSpace(adminToken)
	return func(c *gin.Context) {
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Admin token not configured on server"})
			return
		}

		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" || token != expected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
