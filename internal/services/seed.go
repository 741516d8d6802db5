package services

import (
	"fmt"

	"github.com/rga610/citizen-reporting-react/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedNicknames are the pseudonymous login codes handed out to field
// participants. skinny_deer stays first; the list cycles if more than 40
// participants are seeded.
var seedNicknames = []string{
	"skinny_deer", "quick_fox", "brave_lion", "wise_owl", "swift_hawk",
	"calm_bear", "bright_star", "wild_wolf", "gentle_dove", "strong_eagle",
	"silent_tiger", "curious_cat", "happy_dolphin", "proud_peacock", "graceful_swan",
	"bold_falcon", "peaceful_panda", "energetic_rabbit", "mysterious_raven", "clever_squirrel",
	"noble_stag", "playful_otter", "majestic_whale", "colorful_parrot", "determined_ant",
	"free_spirit", "bright_moon", "wandering_soul", "morning_light", "evening_breeze",
	"mountain_peak", "ocean_wave", "forest_path", "desert_wind", "river_flow",
	"cloud_dreamer", "sunset_watcher", "star_gazer", "night_owl", "dawn_breaker",
}

const participantsPerTreatment = 10

type SeedService struct {
	db       *gorm.DB
	sessions *SessionService
	slot     int
}

func NewSeedService(db *gorm.DB, sessions *SessionService, slot int) *SeedService {
	return &SeedService{db: db, sessions: sessions, slot: slot}
}

// SeedIssues upserts the campus issue codes ISSUE_A01..ISSUE_C15 for the
// configured slot and returns how many codes were written.
func (s *SeedService) SeedIssues() (int, error) {
	var issues []models.Issue
	for _, letter := range []string{"A", "B", "C"} {
		for i := 1; i <= 15; i++ {
			issues = append(issues, models.Issue{
				ID:          fmt.Sprintf("ISSUE_%s%02d", letter, i),
				SessionSlot: s.slot,
			})
		}
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_slot"}),
	}).Create(&issues).Error
	if err != nil {
		return 0, err
	}
	return len(issues), nil
}

// SeedParticipants ensures a session for the slot and creates ten
// participants per treatment arm from the nickname list. Codes already
// present in the session are left untouched, so reseeding is safe.
func (s *SeedService) SeedParticipants() (int, error) {
	session, err := s.sessions.Ensure(s.slot)
	if err != nil {
		return 0, err
	}

	created := 0
	nicknameIndex := 0
	for _, treatment := range models.Treatments {
		for i := 0; i < participantsPerTreatment; i++ {
			code := seedNicknames[nicknameIndex%len(seedNicknames)]
			nicknameIndex++

			var count int64
			if err := s.db.Model(&models.Participant{}).
				Where("public_code = ? AND session_id = ?", code, session.ID).
				Count(&count).Error; err != nil {
				return created, err
			}
			if count > 0 {
				continue
			}

			participant := models.Participant{
				ID:         uuid.NewString(),
				PublicCode: code,
				Treatment:  treatment,
				SessionID:  session.ID,
			}
			if err := s.db.Create(&participant).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
