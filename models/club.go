package models

import (
	"time"
)

// Club roles as stored on ClubMember.Role
const (
	ClubRoleMember = "member"
	ClubRoleAdmin  = "admin"
)

// Club is the tenant boundary: every league, tournament and match belongs to one club.
type Club struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	City        string `json:"city"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	CourtsCount int    `json:"courts_count" gorm:"default:0"`

	Timestamps
}

// ClubMember links an external user to a club. Role gates admin-only operations
// (tournament final-ranking, league creation).
type ClubMember struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	ClubID   string    `json:"club_id" gorm:"uniqueIndex:idx_club_member;not null"`
	UserID   string    `json:"user_id" gorm:"uniqueIndex:idx_club_member;not null"`
	Role     string    `json:"role" gorm:"type:varchar(16);default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
}
