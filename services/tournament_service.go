package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"padel-club-system/models"
	"padel-club-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewTournamentService(db *gorm.DB, progression *ProgressionService) *TournamentService {
	return &TournamentService{DB: db, Progression: progression}
}

// CreateTournament creates a draft tournament for a club. Club admins only.
// Accepts multipart form data so the main photo can be uploaded in the same call.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	clubID := c.FormValue("club_id")
	name := c.FormValue("name")
	description := c.FormValue("description")
	startTimeStr := c.FormValue("start_time")
	endTimeStr := c.FormValue("end_time")

	if clubID == "" || name == "" || startTimeStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "club_id, name and start_time are required"})
	}

	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
	}
	var endTime time.Time
	if endTimeStr != "" {
		endTime, err = time.Parse(time.RFC3339, endTimeStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid end_time (use RFC3339)"})
		}
	}

	if !s.isClubAdmin(clubID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "only club admins can create tournaments"})
	}

	var mainPhotoURL string
	if mainPhoto, err := c.FormFile("main_photo"); err == nil && mainPhoto.Size > 0 {
		ext := filepath.Ext(mainPhoto.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		photoKey := "tournaments/" + uuid.NewString() + ext
		url, err := utils.UploadToR2(mainPhoto, photoKey)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload main photo", "cause": err.Error()})
		}
		mainPhotoURL = url
	}

	tournament := models.Tournament{
		ID:           uuid.NewString(),
		ClubID:       clubID,
		Name:         name,
		Slug:         slug.Make(name),
		Description:  description,
		Status:       models.TournamentStatusDraft,
		MainPhotoURL: mainPhotoURL,
		StartTime:    startTime,
		EndTime:      endTime,
	}
	if err := s.DB.Create(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament", "cause": err.Error()})
	}
	return c.Status(201).JSON(tournament)
}

// GetTournament returns a tournament with its registrations.
func (s *TournamentService) GetTournament(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var tournament models.Tournament
	if err := s.DB.Preload("Registrations").First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "cause": err.Error()})
	}
	return c.JSON(tournament)
}

// RegisterTeam adds a team of two players to the draw, capped at BracketSize.
func (s *TournamentService) RegisterTeam(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tournamentID := c.Params("id")

	type Req struct {
		TeamName  string `json:"team_name"`
		Player1ID string `json:"player1_id"`
		Player2ID string `json:"player2_id"`
		Seed      int    `json:"seed"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Player1ID == "" || req.Player2ID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "player1_id and player2_id are required"})
	}
	if req.Player1ID == req.Player2ID {
		return c.Status(400).JSON(fiber.Map{"error": "a team needs two distinct players"})
	}
	if req.Player1ID != userID && req.Player2ID != userID && !s.isTournamentClubAdmin(tournamentID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "you can only register a team you play in"})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "cause": err.Error()})
	}
	if tournament.Status != models.TournamentStatusDraft && tournament.Status != models.TournamentStatusOpen {
		return c.Status(400).JSON(fiber.Map{"error": "registrations are closed"})
	}

	var count int64
	s.DB.Model(&models.TournamentRegistration{}).
		Where("tournament_id = ?", tournamentID).Count(&count)
	if count >= models.BracketSize {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("draw is full (%d teams)", models.BracketSize)})
	}

	registration := models.TournamentRegistration{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		TeamName:     req.TeamName,
		Player1ID:    req.Player1ID,
		Player2ID:    req.Player2ID,
		Seed:         req.Seed,
	}
	if registration.Seed == 0 {
		registration.Seed = int(count) + 1
	}
	if err := s.DB.Create(&registration).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to register team", "cause": err.Error()})
	}
	return c.Status(201).JSON(registration)
}

func (s *TournamentService) isClubAdmin(clubID, userID string) bool {
	var count int64
	s.DB.Model(&models.ClubMember{}).
		Where("club_id = ? AND user_id = ? AND role = ?", clubID, userID, models.ClubRoleAdmin).
		Count(&count)
	return count > 0
}

func (s *TournamentService) isTournamentClubAdmin(tournamentID, userID string) bool {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		return false
	}
	return s.isClubAdmin(tournament.ClubID, userID)
}
