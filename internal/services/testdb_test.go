package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory sqlite database, migrated like the real
// store. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey, same as the postgres deployment.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Session{},
		&models.Issue{},
		&models.Participant{},
		&models.Scan{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createSession(t *testing.T, db *gorm.DB, slot int, startTs time.Time) *models.Session {
	t.Helper()
	session := models.Session{Slot: slot, StartTs: startTs}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return &session
}

func createParticipant(t *testing.T, db *gorm.DB, session *models.Session, code, treatment string) *models.Participant {
	t.Helper()
	participant := models.Participant{
		ID:         uuid.NewString(),
		PublicCode: code,
		Treatment:  treatment,
		SessionID:  session.ID,
	}
	if err := db.Create(&participant).Error; err != nil {
		t.Fatalf("failed to create participant %s: %v", code, err)
	}
	return &participant
}

func createIssue(t *testing.T, db *gorm.DB, id string, slot int) *models.Issue {
	t.Helper()
	issue := models.Issue{ID: id, SessionSlot: slot}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatalf("failed to create issue %s: %v", id, err)
	}
	return &issue
}
