// services/player_service.go
package services

import (
	"errors"
	"strconv"
	"strings"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// SearchPlayers searches the mirrored player profiles (used to pick partners and
// opponents when recording a match).
func (s *PlayerService) SearchPlayers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var players []models.PlayerProfile
	db := s.DB.Model(&models.PlayerProfile{}).Limit(limit)

	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(display_name) LIKE ?", searchTerm)
	}

	if err := db.Order("global_points DESC").Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	type PlayerSummary struct {
		ExternalUserID string  `json:"external_user_id"`
		DisplayName    string  `json:"display_name"`
		AvatarURL      *string `json:"avatar_url,omitempty"`
		Level          string  `json:"level"`
		GlobalPoints   int64   `json:"global_points"`
	}
	res := make([]PlayerSummary, len(players))
	for i, p := range players {
		res[i] = PlayerSummary{
			ExternalUserID: p.ExternalUserID,
			DisplayName:    p.DisplayName,
			AvatarURL:      p.AvatarURL,
			Level:          p.Level,
			GlobalPoints:   p.GlobalPoints,
		}
	}
	return c.JSON(res)
}

// GetPlayer returns one mirrored profile by external user id.
func (s *PlayerService) GetPlayer(c *fiber.Ctx) error {
	externalID := c.Params("id")

	var player models.PlayerProfile
	if err := s.DB.Where("external_user_id = ?", externalID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching player", "cause": err.Error()})
	}
	return c.JSON(player)
}
