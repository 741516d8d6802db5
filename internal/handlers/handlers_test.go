package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/middleware"
	"github.com/rga610/citizen-reporting-react/internal/models"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSlot       = 1
	testSecret     = "test-cookie-secret"
	testAdminToken = "test-admin-token"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}, &models.Issue{}, &models.Participant{}, &models.Scan{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sessionService := services.NewSessionService(db)
	feedbackService := services.NewFeedbackService(db)
	reportService := services.NewReportService(db, sessionService, feedbackService, testSlot)
	authService := services.NewAuthService(db, sessionService, testSecret, testSlot)
	adminService := services.NewAdminService(db, sessionService)
	exportService := services.NewExportService(db)
	seedService := services.NewSeedService(db, sessionService, testSlot)

	authHandler := NewAuthHandler(authService)
	reportHandler := NewReportHandler(reportService)
	adminHandler := NewAdminHandler(adminService, exportService, seedService, testSlot)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/join", authHandler.Join)
	api.POST("/report", middleware.ParticipantAuth(authService), reportHandler.Submit)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(testAdminToken))
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/participants", adminHandler.Participants)
	admin.GET("/export/:type", adminHandler.Export)
	admin.POST("/reset-group", adminHandler.ResetGroup)
	admin.POST("/reset-user", adminHandler.ResetUser)
	admin.POST("/set-score", adminHandler.SetScore)
	admin.POST("/logout-user", adminHandler.LogoutUser)
	admin.POST("/seed", adminHandler.Seed)

	return &testEnv{db: db, router: r, auth: authService}
}

func (e *testEnv) createSession(t *testing.T) *models.Session {
	t.Helper()
	session := models.Session{Slot: testSlot, StartTs: time.Now()}
	if err := e.db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return &session
}

func (e *testEnv) createParticipant(t *testing.T, session *models.Session, code, treatment string) *models.Participant {
	t.Helper()
	p := models.Participant{
		ID:         uuid.NewString(),
		PublicCode: code,
		Treatment:  treatment,
		SessionID:  session.ID,
	}
	if err := e.db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	return &p
}

func (e *testEnv) identityCookie(t *testing.T, participantID string) *http.Cookie {
	t.Helper()
	token, err := e.auth.GenerateToken(participantID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &http.Cookie{Name: middleware.CookieName, Value: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, cookie *http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
