package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"padel-club-system/models"
	"padel-club-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// challengeManifestKey is where the club staff drop the challenge definitions.
const challengeManifestKey = "challenges/manifest.json"

// challengeCacheTTL bounds how stale the in-memory manifest copy can get.
const challengeCacheTTL = 5 * time.Minute

// ChallengeService serves challenge definitions stored as a JSON blob in object
// storage and evaluates them against player progress, awarding the linked badge on
// completion.
type ChallengeService struct {
	DB     *gorm.DB
	Badges *BadgeService

	mu        sync.RWMutex
	cached    []models.Challenge
	fetchedAt time.Time
}

func NewChallengeService(db *gorm.DB, badges *BadgeService) *ChallengeService {
	return &ChallengeService{DB: db, Badges: badges}
}

// LoadChallenges returns the current challenge set, fetching from object storage
// when the cache has expired.
func (s *ChallengeService) LoadChallenges() ([]models.Challenge, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < challengeCacheTTL {
		defer s.mu.RUnlock()
		return s.cached, nil
	}
	s.mu.RUnlock()

	data, err := utils.FetchFromR2(challengeManifestKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge manifest: %w", err)
	}

	var manifest models.ChallengeManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode challenge manifest: %w", err)
	}

	s.mu.Lock()
	s.cached = manifest.Challenges
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return manifest.Challenges, nil
}

// activeChallenges filters out challenges outside their start/expiry window.
func activeChallenges(challenges []models.Challenge, now time.Time) []models.Challenge {
	out := make([]models.Challenge, 0, len(challenges))
	for _, ch := range challenges {
		if ch.StartsAt != nil && now.Before(*ch.StartsAt) {
			continue
		}
		if ch.ExpiresAt != nil && now.After(*ch.ExpiresAt) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// EvaluateForUser awards the badge of every active challenge the player has
// completed. Returns the codes of challenges currently met.
func (s *ChallengeService) EvaluateForUser(externalUserID string) ([]string, error) {
	challenges, err := s.LoadChallenges()
	if err != nil {
		return nil, err
	}

	var prog models.PlayerProgress
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // nothing played yet, nothing completed
		}
		return nil, err
	}

	var completed []string
	for _, ch := range activeChallenges(challenges, time.Now()) {
		if !s.Badges.meetsThreshold(&prog, ch.Threshold) {
			continue
		}
		completed = append(completed, ch.Code)

		var badge models.BadgeType
		if err := s.DB.Where("code = ?", ch.BadgeCode).First(&badge).Error; err != nil {
			log.Printf("[CHALLENGE] ⚠️ challenge %s references unknown badge %s", ch.Code, ch.BadgeCode)
			continue
		}
		metadata := fmt.Sprintf(`{"challenge": %q}`, ch.Code)
		if err := s.Badges.AwardBadge(externalUserID, badge, metadata); err != nil {
			log.Printf("[CHALLENGE] ⚠️ failed to award badge for challenge %s: %v", ch.Code, err)
		}
	}
	return completed, nil
}

// ListChallenges returns active challenges with the caller's completion status.
func (s *ChallengeService) ListChallenges(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	challenges, err := s.LoadChallenges()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenges", "cause": err.Error()})
	}

	completed, err := s.EvaluateForUser(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to evaluate challenges", "cause": err.Error()})
	}
	completedSet := make(map[string]bool, len(completed))
	for _, code := range completed {
		completedSet[code] = true
	}

	var response []fiber.Map
	for _, ch := range activeChallenges(challenges, time.Now()) {
		response = append(response, fiber.Map{
			"code":        ch.Code,
			"name":        ch.Name,
			"description": ch.Description,
			"badge_code":  ch.BadgeCode,
			"expires_at":  ch.ExpiresAt,
			"completed":   completedSet[ch.Code],
		})
	}
	return c.JSON(fiber.Map{"challenges": response})
}
