package models

import (
	"time"

	"gorm.io/gorm"
)

// PlayerProgress tracks gamified progression for each player (denormalized for performance)
type PlayerProgress struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`
	Rank    int   `json:"rank" gorm:"default:1"` // Rookie(1)→Bronze(2)→Silver(3)→Gold(4)→Platinum(5)→Diamond(6)

	// Activity counters
	TotalMatches     int64 `json:"total_matches" gorm:"default:0"`
	TotalLeagues     int64 `json:"total_leagues" gorm:"default:0"`
	TotalTournaments int64 `json:"total_tournaments" gorm:"default:0"`

	TournamentsWon int64 `json:"tournaments_won,omitempty" gorm:"-"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt  *time.Time `json:"last_rank_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
