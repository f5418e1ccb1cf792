package models

import (
	"time"
)

// Challenge definitions are JSON blobs maintained in object storage (not DB rows),
// so club staff can roll out seasonal challenges without a deploy. Completing one
// awards the linked badge.
type Challenge struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	BadgeCode   string           `json:"badge_code"`
	Threshold   map[string]int64 `json:"threshold"` // same keys as BadgeType.Threshold
	StartsAt    *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
}

// ChallengeManifest is the top-level shape of the stored blob.
type ChallengeManifest struct {
	Version    int         `json:"version"`
	Challenges []Challenge `json:"challenges"`
}
