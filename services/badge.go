package services

import (
	"fmt"
	"log"

	"padel-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes upserts the predefined badge catalog at startup (idempotent).
func (s *BadgeService) SeedBadgeTypes() error {
	for _, trigger := range models.BadgeTriggers {
		var existing models.BadgeType
		err := s.DB.Where("code = ?", trigger.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			badge := trigger
			badge.ID = uuid.NewString()
			if err := s.DB.Create(&badge).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AutoAwardBadges checks all badge triggers for a player after a progress update
func (s *BadgeService) AutoAwardBadges(externalUserID string) error {
	var prog models.PlayerProgress
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
		return err
	}

	var catalog []models.BadgeType
	if err := s.DB.Find(&catalog).Error; err != nil {
		return err
	}

	for _, trigger := range catalog {
		if !s.meetsThreshold(&prog, trigger.Threshold) {
			continue
		}
		if err := s.AwardBadge(externalUserID, trigger, ""); err != nil {
			log.Printf("[BADGE] ⚠️ failed to award %s to %s: %v", trigger.Code, externalUserID, err)
		}
	}
	return nil
}

// AwardBadge grants a badge once; repeated calls are no-ops.
func (s *BadgeService) AwardBadge(externalUserID string, badge models.BadgeType, metadata string) error {
	var count int64
	s.DB.Model(&models.UserBadge{}).
		Where("external_user_id = ? AND badge_type_id = ?", externalUserID, badge.ID).
		Count(&count)
	if count > 0 {
		return nil
	}

	userBadge := models.UserBadge{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		BadgeTypeID:    badge.ID,
		Metadata:       metadata,
	}
	if err := s.DB.Create(&userBadge).Error; err != nil {
		return err
	}
	fmt.Printf("🎖️ Badge awarded: %s → %s\n", badge.Name, externalUserID)
	return nil
}

func (s *BadgeService) meetsThreshold(prog *models.PlayerProgress, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "total_matches":
			if prog.TotalMatches < required {
				return false
			}
		case "total_leagues":
			if prog.TotalLeagues < required {
				return false
			}
		case "total_tournaments":
			if prog.TotalTournaments < required {
				return false
			}
		case "tournament_wins":
			var wins int64
			s.DB.Model(&models.TournamentRegistration{}).
				Where("final_ranking = 1 AND (player1_id = ? OR player2_id = ?)",
					prog.ExternalUserID, prog.ExternalUserID).
				Count(&wins)
			if wins < required {
				return false
			}
		case "level":
			if int64(prog.Level) < required {
				return false
			}
		case "rank":
			if int64(prog.Rank) < required {
				return false
			}
		case "event": // special: always true (e.g., signup)
			return true
		}
	}
	return true
}
