package models

import (
	"time"
)

const (
	LeagueStatusPending   = "pending"
	LeagueStatusActive    = "active"
	LeagueStatusCompleted = "completed"
	LeagueStatusCancelled = "cancelled"

	LeagueFormatClassic   = "classic"
	LeagueFormatDivisions = "divisions"
)

// DivisionSize is the fixed bracket size: divisions hold up to 4 players, a league
// whose player count is not a multiple of 4 has a smaller final division.
const DivisionSize = 4

// PhaseLength is the fixed competitive window of a divisions-format league. Phase
// boundaries stay on this calendar grid no matter how late a transition fires.
const PhaseLength = 14 * 24 * time.Hour

// League is a club competition. Divisions-format leagues run in phases: every
// PhaseLength the standings are snapshotted, divisions reshuffled and counters reset.
type League struct {
	ID     string `json:"id" gorm:"primaryKey"`
	ClubID string `json:"club_id" gorm:"index;not null"`
	Name   string `json:"name" gorm:"not null"`
	Slug   string `json:"slug" gorm:"index;not null"`
	Status string `json:"status" gorm:"type:varchar(16);default:'pending'"`
	Format string `json:"format" gorm:"type:varchar(16);default:'classic'"`

	// Phase clock (divisions format only). CurrentPhase doubles as the optimistic
	// concurrency token for the transition routine.
	CurrentPhase int       `json:"current_phase" gorm:"default:0"`
	PhaseEndsAt  time.Time `json:"phase_ends_at"`

	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	// Matches beyond this quota still count toward matches_played but earn no points.
	MaxMatchesPerPlayer int `json:"max_matches_per_player" gorm:"default:10"`

	Timestamps
}

// LeaguePlayer is one player's standing inside a league. Reset at every phase
// transition (divisions reassigned, points and matches_played zeroed).
type LeaguePlayer struct {
	ID            string `json:"id" gorm:"primaryKey"`
	LeagueID      string `json:"league_id" gorm:"uniqueIndex:idx_league_player;not null"`
	PlayerID      string `json:"player_id" gorm:"uniqueIndex:idx_league_player;not null"` // external user id
	Division      int    `json:"division" gorm:"default:1"`                               // 1 = top tier
	MatchesPlayed int    `json:"matches_played" gorm:"default:0"`
	Points        int    `json:"points" gorm:"default:0"`

	Timestamps
}

// LeaguePhaseHistory is an append-only snapshot of one player's standing at the
// moment a phase ended. Never updated after creation.
type LeaguePhaseHistory struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	LeagueID      string    `json:"league_id" gorm:"index:idx_phase_history;not null"`
	PhaseNumber   int       `json:"phase_number" gorm:"index:idx_phase_history;not null"`
	PlayerID      string    `json:"player_id" gorm:"not null"`
	Division      int       `json:"division"`
	Rank          int       `json:"rank"`
	MatchesPlayed int       `json:"matches_played"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
