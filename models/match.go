package models

import (
	"time"
)

const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusCancelled = "cancelled"

	ParticipantTypeUser  = "user"
	ParticipantTypeGuest = "guest"
)

// Match records a single padel match (2v2). League-bound matches feed the league
// point attribution on confirmation; LeagueID nil means a casual club match.
type Match struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	ClubID   string  `json:"club_id" gorm:"index;not null"`
	LeagueID *string `json:"league_id,omitempty" gorm:"index"`
	Status   string  `json:"status" gorm:"type:varchar(16);default:'pending'"`

	Team1ID      string  `json:"team1_id" gorm:"not null"`
	Team2ID      string  `json:"team2_id" gorm:"not null"`
	WinnerTeamID *string `json:"winner_team_id,omitempty"`

	Score     string    `json:"score"` // set string, e.g. "6-4 3-6 7-5"
	PlayedAt  time.Time `json:"played_at"`
	CreatedBy string    `json:"created_by" gorm:"index"`

	Timestamps

	Participants []MatchParticipant `json:"participants,omitempty" gorm:"foreignKey:MatchID"`
}

// MatchParticipant is one of the four players of a match. Guests (no account) can
// fill a court but never accrue league points or progression.
type MatchParticipant struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	MatchID         string  `json:"match_id" gorm:"index;not null"`
	ParticipantType string  `json:"participant_type" gorm:"type:varchar(8);default:'user'"`
	UserID          *string `json:"user_id,omitempty" gorm:"index"`
	GuestName       *string `json:"guest_name,omitempty"`
	TeamID          string  `json:"team_id" gorm:"not null"`
}
