package database

import (
	"fmt"
	"log"

	"github.com/rga610/citizen-reporting-react/internal/config"
	"github.com/rga610/citizen-reporting-react/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns the driver's unique-violation into
	// gorm.ErrDuplicatedKey, which report ingestion relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	// Earlier deployments enforced duplicates in application code only.
	// Collapse any double-submissions that slipped through before the unique
	// index can be created.
	db.Exec(`DELETE FROM scans a USING scans b
		WHERE a.id > b.id
		  AND a.participant_id = b.participant_id
		  AND a.issue_id = b.issue_id`)

	err := db.AutoMigrate(
		&models.Session{},
		&models.Issue{},
		&models.Participant{},
		&models.Scan{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}
