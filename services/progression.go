package services

import (
	"fmt"
	"math"
	"time"

	"padel-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	MatchXP      int64 `default:"10"`
	LeagueXP     int64 `default:"50"`  // joining a league
	TournamentXP int64 `default:"100"` // 10× match
}

var DefaultXPWeights = XPWeights{
	MatchXP:      10,
	LeagueXP:     50,
	TournamentXP: 100,
}

// LevelConfig: XP needed for *next* level (e.g., level 1 → 2 needs BaseXPPerLevel * 1^1.2)
const BaseXPPerLevel = 100

// xpForNextLevel returns XP required to reach level+1 from current level
func xpForNextLevel(currentLevel int) int64 {
	if currentLevel < 1 {
		currentLevel = 1
	}
	// L_n = floor(BaseXPPerLevel * n^1.2)
	return int64(float64(BaseXPPerLevel) * math.Pow(float64(currentLevel), 1.2))
}

// RankThresholds: levels required before rank-up
var RankThresholds = map[int]int{ // rank → min level
	1: 1,   // Rookie (start)
	2: 10,  // Bronze
	3: 25,  // Silver
	4: 50,  // Gold
	5: 75,  // Platinum
	6: 100, // Diamond
}

func determineRank(level int) int {
	for rank := 6; rank >= 1; rank-- {
		if level >= RankThresholds[rank] {
			return rank
		}
	}
	return 1
}

type ProgressionService struct {
	DB     *gorm.DB
	Badges *BadgeService
}

func NewProgressionService(db *gorm.DB, badges *BadgeService) *ProgressionService {
	return &ProgressionService{DB: db, Badges: badges}
}

// EnsureProgressRecord ensures a PlayerProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(externalUserID string) (*models.PlayerProgress, error) {
	var prog models.PlayerProgress
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.PlayerProgress{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			TotalXP:        0,
			Level:          1,
			Rank:           1,
		}
		if err := s.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// AwardXP atomically updates XP, level, rank — returns updated progress
func (s *ProgressionService) AwardXP(externalUserID string, xp int64, reason string) (*models.PlayerProgress, error) {
	var updatedProg *models.PlayerProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prog models.PlayerProgress
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
			return fmt.Errorf("progress record not found for %s", externalUserID)
		}

		oldRank := prog.Rank

		prog.TotalXP += xp

		// Level-up logic: accumulate until enough for next level
		for prog.TotalXP >= int64(BaseXPPerLevel)*int64(prog.Level)+xpForNextLevel(prog.Level) {
			prog.Level++
			now := time.Now()
			prog.LastLevelUpAt = &now
		}

		// Rank-up logic
		newRank := determineRank(prog.Level)
		if newRank > oldRank {
			now := time.Now()
			prog.Rank = newRank
			prog.LastRankUpAt = &now
		}

		if err := tx.Save(&prog).Error; err != nil {
			return err
		}

		// Auto-award badges
		_ = s.Badges.AutoAwardBadges(externalUserID) // fire-and-forget

		updatedProg = &models.PlayerProgress{}
		*updatedProg = prog

		fmt.Printf("🎾 XP Awarded: %s → XP=%d, Lvl=%d, Rank=%d (reason: %s)\n",
			externalUserID, prog.TotalXP, prog.Level, prog.Rank, reason)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return updatedProg, nil
}

// RecordMatchPlayed bumps the match counter and awards match XP.
func (s *ProgressionService) RecordMatchPlayed(externalUserID string) error {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return err
	}
	prog.TotalMatches++
	if err := s.DB.Save(prog).Error; err != nil {
		return err
	}
	_, err = s.AwardXP(externalUserID, DefaultXPWeights.MatchXP, "match_played")
	return err
}

// RecordLeagueJoined bumps the league counter and awards league XP.
func (s *ProgressionService) RecordLeagueJoined(externalUserID, leagueID string) error {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return err
	}
	prog.TotalLeagues++
	if err := s.DB.Save(prog).Error; err != nil {
		return err
	}
	_, err = s.AwardXP(externalUserID, DefaultXPWeights.LeagueXP, fmt.Sprintf("league_%s_joined", leagueID))
	return err
}

// RecordTournamentResult credits tournament XP weighted by the final placement.
func (s *ProgressionService) RecordTournamentResult(externalUserID, tournamentID string, finalRank int) error {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return err
	}
	prog.TotalTournaments++
	if err := s.DB.Save(prog).Error; err != nil {
		return err
	}

	baseXP := DefaultXPWeights.TournamentXP
	if finalRank == 1 {
		baseXP *= 3 // triple for winners
	} else if finalRank <= 4 {
		baseXP *= 2 // double for the principal tableau
	}
	_, err = s.AwardXP(externalUserID, baseXP, fmt.Sprintf("tournament_%s_rank_%d", tournamentID, finalRank))
	return err
}

// GetRecentMatches returns confirmed matches the player was part of in the last N days.
func (s *ProgressionService) GetRecentMatches(externalUserID string, days int) ([]models.Match, error) {
	var matches []models.Match
	since := time.Now().AddDate(0, 0, -days)
	err := s.DB.
		Joins("INNER JOIN match_participants mp ON mp.match_id = matches.id AND mp.user_id = ?", externalUserID).
		Where("matches.status = ? AND matches.played_at >= ?", models.MatchStatusConfirmed, since).
		Order("matches.played_at DESC").
		Find(&matches).Error
	return matches, err
}
