package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rga610/citizen-reporting-react/internal/middleware"
	"github.com/rga610/citizen-reporting-react/internal/models"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
)

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": testAdminToken}
}

func TestAdminAuthTaxonomy(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/stats", nil, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/stats", nil, nil,
			map[string]string{"X-Admin-Token": "wrong"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("token via query parameter", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/stats?token="+testAdminToken, nil, nil, nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("unconfigured server token is a misconfiguration", func(t *testing.T) {
		r := gin.New()
		r.GET("/api/admin/stats", middleware.AdminAuth(""), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("X-Admin-Token", "anything")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500 (distinct from invalid credential)", w.Code)
		}
		if !strings.Contains(w.Body.String(), "not configured") {
			t.Errorf("body = %s, want misconfiguration diagnostic", w.Body.String())
		}
	})
}

func TestAdminStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t)
	env.createParticipant(t, session, "gentle_dove", models.TreatmentCooperative)
	env.createParticipant(t, session, "silent_tiger", models.TreatmentCompetitive)

	w := env.request(t, http.MethodGet, "/api/admin/stats", nil, nil, adminHeaders())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats services.AdminStats
	decodeJSON(t, w, &stats)
	if len(stats.ByTreatment) != 2 {
		t.Errorf("byTreatment = %+v", stats.ByTreatment)
	}
}

func TestAdminSetScoreValidation(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t)
	participant := env.createParticipant(t, session, "bold_falcon", models.TreatmentCompetitive)

	t.Run("negative score rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/set-score",
			map[string]any{"participantId": participant.ID, "score": -1}, nil, adminHeaders())
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("valid score applied", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/set-score",
			map[string]any{"participantId": participant.ID, "score": 9}, nil, adminHeaders())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		var reloaded models.Participant
		env.db.First(&reloaded, "id = ?", participant.ID)
		if reloaded.TotalReports != 9 {
			t.Errorf("totalReports = %d, want 9", reloaded.TotalReports)
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/set-score",
			map[string]any{"participantId": "missing", "score": 1}, nil, adminHeaders())
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestAdminResetGroupEndpoint(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t)
	comp := env.createParticipant(t, session, "swift_hawk", models.TreatmentCompetitive)
	env.db.Model(comp).Update("total_reports", 5)

	w := env.request(t, http.MethodPost, "/api/admin/reset-group",
		map[string]any{"treatment": "competitive"}, nil, adminHeaders())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Updated int `json:"updated"`
	}
	decodeJSON(t, w, &resp)
	if resp.Updated != 1 {
		t.Errorf("updated = %d, want 1", resp.Updated)
	}

	var reloaded models.Participant
	env.db.First(&reloaded, "id = ?", comp.ID)
	if reloaded.TotalReports != 0 {
		t.Errorf("totalReports = %d, want 0", reloaded.TotalReports)
	}
}

func TestAdminExportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t)
	env.createParticipant(t, session, "wise_owl", models.TreatmentControl)

	t.Run("participants csv", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/export/participants", nil, nil, adminHeaders())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("content-type = %q", ct)
		}
		if !strings.Contains(w.Body.String(), "wise_owl") {
			t.Errorf("csv missing participant: %s", w.Body.String())
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/export/everything", nil, nil, adminHeaders())
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestAdminSeedEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/admin/seed", nil, nil, adminHeaders())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var issues, participants int64
	env.db.Model(&models.Issue{}).Count(&issues)
	env.db.Model(&models.Participant{}).Count(&participants)
	if issues != 45 || participants != 40 {
		t.Errorf("seeded issues=%d participants=%d, want 45/40", issues, participants)
	}
}
