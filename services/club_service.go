package services

import (
	"errors"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ClubService struct {
	DB *gorm.DB
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{DB: db}
}

// CreateClub creates a club with the caller as its first admin.
func (s *ClubService) CreateClub(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		Name        string `json:"name"`
		City        string `json:"city"`
		Description string `json:"description"`
		CourtsCount int    `json:"courts_count"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	club := models.Club{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		City:        req.City,
		Description: req.Description,
		CourtsCount: req.CourtsCount,
	}
	member := models.ClubMember{
		ID:     uuid.NewString(),
		ClubID: club.ID,
		UserID: userID,
		Role:   models.ClubRoleAdmin,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create club", "cause": err.Error()})
	}
	return c.Status(201).JSON(club)
}

// JoinClub adds the caller as a regular member (idempotent).
func (s *ClubService) JoinClub(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	clubID := c.Params("id")

	var club models.Club
	if err := s.DB.First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "club not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching club", "cause": err.Error()})
	}

	member := models.ClubMember{
		ID:     uuid.NewString(),
		ClubID: clubID,
		UserID: userID,
		Role:   models.ClubRoleMember,
	}
	if err := s.DB.Where("club_id = ? AND user_id = ?", clubID, userID).
		FirstOrCreate(&member).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to join club", "cause": err.Error()})
	}
	return c.Status(201).JSON(member)
}

// GetClub returns a club with its member count.
func (s *ClubService) GetClub(c *fiber.Ctx) error {
	clubID := c.Params("id")

	var club models.Club
	if err := s.DB.First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "club not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching club", "cause": err.Error()})
	}

	var memberCount int64
	s.DB.Model(&models.ClubMember{}).Where("club_id = ?", clubID).Count(&memberCount)

	return c.JSON(fiber.Map{
		"club":          club,
		"members_count": memberCount,
	})
}
