// handlers/progression_routes.go
package handlers

import (
	"strconv"

	"padel-club-system/middleware"
	"padel-club-system/models"
	"padel-club-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService, badgeService *services.BadgeService, challengeService *services.ChallengeService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog, err := progressionService.EnsureProgressRecord(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress record",
				"cause": err.Error(),
			})
		}

		// Tournaments won (registrations ranked first with this player on the team)
		var tournamentsWon int64
		if err := progressionService.DB.
			Model(&models.TournamentRegistration{}).
			Where("final_ranking = 1 AND (player1_id = ? OR player2_id = ?)", userID, userID).
			Count(&tournamentsWon).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count tournament wins",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"id":                prog.ID,
			"xp":                prog.TotalXP,
			"level":             prog.Level,
			"rank":              prog.Rank,
			"rank_name":         rankName(prog.Rank),
			"total_matches":     prog.TotalMatches,
			"total_leagues":     prog.TotalLeagues,
			"total_tournaments": prog.TotalTournaments,
			"tournaments_won":   tournamentsWon,
			"last_level_up_at":  prog.LastLevelUpAt,
			"last_rank_up_at":   prog.LastRankUpAt,
		})
	})

	securedGroup.Get("/user/progress/recent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "7"))
		matches, err := progressionService.GetRecentMatches(userID, days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get recent matches",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"matches": matches})
	})

	securedGroup.Get("/user/progress/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var userBadges []models.UserBadge
		if err := badgeService.DB.
			Where("external_user_id = ?", userID).
			Order("awarded_at DESC").
			Find(&userBadges).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}

		var response []fiber.Map
		for _, ub := range userBadges {
			var badgeType models.BadgeType
			if err := badgeService.DB.First(&badgeType, "id = ?", ub.BadgeTypeID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to get badge type",
					"cause": err.Error(),
				})
			}
			response = append(response, fiber.Map{
				"id":          ub.ID,
				"code":        badgeType.Code,
				"name":        badgeType.Name,
				"description": badgeType.Description,
				"icon_url":    badgeType.IconURL,
				"rarity":      badgeType.Rarity,
				"awarded_at":  ub.AwardedAt,
				"metadata":    ub.Metadata,
			})
		}
		return c.JSON(response)
	})

	securedGroup.Get("/challenges", challengeService.ListChallenges)

	// Admin endpoints
	adminGroup := app.Group("/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		if !middleware.HasRole(c, "platform_admin") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "platform admins only"})
		}

		type Req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.XP <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and a positive xp are required"})
		}

		if _, err := progressionService.AwardXP(req.UserID, req.XP, req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"xp":      req.XP,
		})
	})
}

func rankName(rank int) string {
	switch rank {
	case 1:
		return "Rookie"
	case 2:
		return "Bronze"
	case 3:
		return "Silver"
	case 4:
		return "Gold"
	case 5:
		return "Platinum"
	case 6:
		return "Diamond"
	default:
		if rank > 6 {
			return "Legend"
		}
		return "Rookie"
	}
}
