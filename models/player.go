package models

import (
	"time"
)

// PlayerProfile mirrors the profile service locally (denormalized, synced by the
// profile sync worker). GlobalPoints is the cross-club ranking metric used as the
// secondary tiebreak inside league divisions.
type PlayerProfile struct {
	ID             string  `json:"id" gorm:"primaryKey"`
	ExternalUserID string  `json:"external_user_id" gorm:"uniqueIndex;not null"`
	DisplayName    string  `json:"display_name"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Level          string  `json:"level"` // self-declared playing level, e.g. "intermediate"
	GlobalPoints   int64   `json:"global_points" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
