package main

import (
	"log"

	"github.com/rga610/citizen-reporting-react/internal/config"
	"github.com/rga610/citizen-reporting-react/internal/database"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/joho/godotenv"
)

// Seeds the issue codes and the pseudonymous participant roster for the
// configured session slot. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := config.Load()
	db := database.Connect(cfg)
	database.AutoMigrate(db)

	sessionService := services.NewSessionService(db)
	seedService := services.NewSeedService(db, sessionService, cfg.SessionSlot)

	issues, err := seedService.SeedIssues()
	if err != nil {
		log.Fatalf("failed to seed issues: %v", err)
	}
	log.Printf("seeded %d issues for session slot %d", issues, cfg.SessionSlot)

	participants, err := seedService.SeedParticipants()
	if err != nil {
		log.Fatalf("failed to seed participants: %v", err)
	}
	log.Printf("seeded %d participants (10 per treatment group) for session slot %d", participants, cfg.SessionSlot)
}
