package models

import (
	"time"
)

const (
	TournamentStatusDraft     = "draft"
	TournamentStatusOpen      = "open"
	TournamentStatusRunning   = "running"
	TournamentStatusCompleted = "completed"

	// BracketSize is the only supported draw: 16 teams over 4 tableaux.
	BracketSize = 16
	// FinalTour is the last tour; its 8 matches fully order the draw.
	FinalTour = 4
)

// Tableau identifies which placement bracket a match belongs to.
type Tableau int

const (
	TableauPrincipal Tableau = iota
	TableauConsolation              // tour 1-2 losers bracket, feeds places 9-16
	TableauPlaces5to8
	TableauPlaces9to12
	TableauPlaces13to16
)

// BaseRank is the placement offset of a tableau's final tour: its final decides
// base+1/base+2, its classification match base+3/base+4. The consolation bracket
// never reaches tour 4, so it has no base.
func (t Tableau) BaseRank() (int, bool) {
	switch t {
	case TableauPrincipal:
		return 0, true
	case TableauPlaces5to8:
		return 4, true
	case TableauPlaces9to12:
		return 8, true
	case TableauPlaces13to16:
		return 12, true
	case TableauConsolation:
		return 0, false
	}
	return 0, false
}

func (t Tableau) String() string {
	switch t {
	case TableauPrincipal:
		return "principal"
	case TableauConsolation:
		return "consolation"
	case TableauPlaces5to8:
		return "places_5_8"
	case TableauPlaces9to12:
		return "places_9_12"
	case TableauPlaces13to16:
		return "places_13_16"
	}
	return "unknown"
}

// RoundKind tags what a bracket match decides. Tours 1-3 are eliminatory; each
// tableau's tour 4 holds one final and one classification match.
type RoundKind int

const (
	RoundEliminatory RoundKind = iota
	RoundFinal
	RoundClassification
)

func (r RoundKind) String() string {
	switch r {
	case RoundEliminatory:
		return "eliminatory"
	case RoundFinal:
		return "final"
	case RoundClassification:
		return "classification"
	}
	return "unknown"
}

// Tournament is a club tournament played as a 16-team multi-chance bracket.
type Tournament struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	ClubID       string    `json:"club_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"index;not null"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"type:varchar(16);default:'draft'"`
	MainPhotoURL string    `json:"main_photo_url"`
	StartTime    time.Time `json:"start_time" gorm:"not null"`
	EndTime      time.Time `json:"end_time"`

	Timestamps

	Registrations []TournamentRegistration `json:"registrations,omitempty" gorm:"foreignKey:TournamentID"`
}

// TournamentRegistration is one team of two players. FinalRanking is 0 until the
// final-ranking calculation runs, then 1..16.
type TournamentRegistration struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"index;not null"`
	TeamName     string `json:"team_name"`
	Player1ID    string `json:"player1_id" gorm:"not null"`
	Player2ID    string `json:"player2_id" gorm:"not null"`
	Seed         int    `json:"seed" gorm:"default:0"`
	FinalRanking int    `json:"final_ranking" gorm:"default:0"`

	Timestamps
}

// BracketMatch is one node of the fixed 16-team bracket. WinnerTo/LoserTo wire the
// multi-chance shape: every team keeps playing until tour 4 orders all 16.
type BracketMatch struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	TournamentID string    `json:"tournament_id" gorm:"index;not null"`
	Tableau      Tableau   `json:"tableau" gorm:"not null"`
	Tour         int       `json:"tour" gorm:"not null"` // 1..4
	Slot         int       `json:"slot" gorm:"not null"` // position within (tableau, tour)
	Round        RoundKind `json:"round" gorm:"default:0"`

	Registration1ID      *string `json:"registration1_id,omitempty"`
	Registration2ID      *string `json:"registration2_id,omitempty"`
	WinnerRegistrationID *string `json:"winner_registration_id,omitempty"`

	WinnerToID   *string `json:"winner_to_id,omitempty"`
	WinnerToSide int     `json:"winner_to_side" gorm:"default:0"` // 1 or 2
	LoserToID    *string `json:"loser_to_id,omitempty"`
	LoserToSide  int     `json:"loser_to_side" gorm:"default:0"`

	Timestamps
}
