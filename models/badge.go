package models

import (
	"time"
)

// BadgeType: static config (seeded at startup, icons live in object storage)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "FIRST_MATCH", "TOURNAMENT_CHAMP"
	Name        string `gorm:"not null"`
	Description string
	IconURL     string           `gorm:"type:text"`
	Rarity      string           `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   map[string]int64 `gorm:"type:jsonb;serializer:json"`        // e.g., {"total_matches": 10}
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance (many-to-many)
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ExternalUserID string    `gorm:"index;not null"`
	BadgeTypeID    string    `gorm:"index;not null"`
	AwardedAt      time.Time `gorm:"autoCreateTime"`
	Metadata       string    `gorm:"type:jsonb"` // e.g., {"tournament_id": "...", "final_rank": 1}
}

// Predefined badge triggers
var BadgeTriggers = []BadgeType{
	{
		Code:        "WELCOME",
		Name:        "Welcome to the Club!",
		Description: "Joined the platform",
		Rarity:      "common",
		Threshold:   map[string]int64{"event": 1}, // awarded on first progress record
	},
	{
		Code:        "FIRST_MATCH",
		Name:        "First Rally",
		Description: "Played your first match",
		Rarity:      "common",
		Threshold:   map[string]int64{"total_matches": 1},
	},
	{
		Code:        "REGULAR",
		Name:        "Court Regular",
		Description: "Played 25 matches",
		Rarity:      "rare",
		Threshold:   map[string]int64{"total_matches": 25},
	},
	{
		Code:        "LEAGUE_PLAYER",
		Name:        "League Contender",
		Description: "Joined your first league",
		Rarity:      "common",
		Threshold:   map[string]int64{"total_leagues": 1},
	},
	{
		Code:        "TOURNAMENT_CHAMP",
		Name:        "Tournament Champion",
		Description: "Won a tournament",
		Rarity:      "epic",
		Threshold:   map[string]int64{"tournament_wins": 1},
	},
	{
		Code:        "LEVEL_25",
		Name:        "Seasoned Smasher",
		Description: "Reached Level 25",
		Rarity:      "rare",
		Threshold:   map[string]int64{"level": 25},
	},
	{
		Code:        "LEVEL_50",
		Name:        "Halfway There",
		Description: "Reached Level 50",
		Rarity:      "epic",
		Threshold:   map[string]int64{"level": 50},
	},
}
