package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type MatchService struct {
	DB          *gorm.DB
	Leagues     *LeagueService
	Progression *ProgressionService
}

func NewMatchService(db *gorm.DB, leagues *LeagueService, progression *ProgressionService) *MatchService {
	return &MatchService{DB: db, Leagues: leagues, Progression: progression}
}

var guestNameCaser = cases.Title(language.Und)

type participantPayload struct {
	Type      string `json:"type"`       // "user" | "guest"
	UserID    string `json:"user_id"`    // required for users
	GuestName string `json:"guest_name"` // required for guests
}

// RecordMatch creates a pending match with its four participants. The creator must
// be on one of the teams; guests are allowed but never accrue points.
func (s *MatchService) RecordMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		ClubID   string               `json:"club_id"`
		LeagueID string               `json:"league_id"`
		Score    string               `json:"score"`
		PlayedAt string               `json:"played_at"` // RFC3339, defaults to now
		Team1    []participantPayload `json:"team1"`
		Team2    []participantPayload `json:"team2"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.ClubID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "club_id is required"})
	}
	if len(req.Team1) != 2 || len(req.Team2) != 2 {
		return c.Status(400).JSON(fiber.Map{"error": "each team needs exactly 2 participants"})
	}

	playedAt := time.Now()
	if req.PlayedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.PlayedAt)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid played_at (use RFC3339)"})
		}
		playedAt = parsed
	}

	var leagueID *string
	if req.LeagueID != "" {
		var league models.League
		if err := s.DB.First(&league, "id = ?", req.LeagueID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "league_id not found"})
		}
		if league.ClubID != req.ClubID {
			return c.Status(400).JSON(fiber.Map{"error": "league does not belong to this club"})
		}
		leagueID = &league.ID
	}

	match := models.Match{
		ID:        uuid.NewString(),
		ClubID:    req.ClubID,
		LeagueID:  leagueID,
		Status:    models.MatchStatusPending,
		Team1ID:   uuid.NewString(),
		Team2ID:   uuid.NewString(),
		Score:     req.Score,
		PlayedAt:  playedAt,
		CreatedBy: userID,
	}

	participants, err := buildParticipants(match, req.Team1, req.Team2)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	creatorPlays := false
	for _, p := range participants {
		if p.UserID != nil && *p.UserID == userID {
			creatorPlays = true
			break
		}
	}
	if !creatorPlays {
		return c.Status(403).JSON(fiber.Map{"error": "match creator must be one of the participants"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		for i := range participants {
			if err := tx.Create(&participants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to record match", "cause": err.Error()})
	}

	match.Participants = participants
	return c.Status(201).JSON(match)
}

func buildParticipants(match models.Match, team1, team2 []participantPayload) ([]models.MatchParticipant, error) {
	var out []models.MatchParticipant
	appendTeam := func(teamID string, payloads []participantPayload) error {
		for _, pl := range payloads {
			p := models.MatchParticipant{
				ID:      uuid.NewString(),
				MatchID: match.ID,
				TeamID:  teamID,
			}
			switch pl.Type {
			case models.ParticipantTypeGuest:
				name := strings.TrimSpace(pl.GuestName)
				if name == "" {
					return errors.New("guest participants need a guest_name")
				}
				name = guestNameCaser.String(name)
				p.ParticipantType = models.ParticipantTypeGuest
				p.GuestName = &name
			case models.ParticipantTypeUser, "":
				if pl.UserID == "" {
					return errors.New("user participants need a user_id")
				}
				uid := pl.UserID
				p.ParticipantType = models.ParticipantTypeUser
				p.UserID = &uid
			default:
				return errors.New("participant type must be 'user' or 'guest'")
			}
			out = append(out, p)
		}
		return nil
	}
	if err := appendTeam(match.Team1ID, team1); err != nil {
		return nil, err
	}
	if err := appendTeam(match.Team2ID, team2); err != nil {
		return nil, err
	}
	return out, nil
}

// ConfirmMatch finalizes a pending match with its winner, then runs league point
// attribution and progression updates in-process. Attribution failures are logged,
// never surfaced: the match stays confirmed either way.
func (s *MatchService) ConfirmMatch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	matchID := c.Params("id")

	type Req struct {
		WinnerTeamID string `json:"winner_team_id"`
		Score        string `json:"score"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	var match models.Match
	if err := s.DB.Preload("Participants").First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "cause": err.Error()})
	}

	if match.Status != models.MatchStatusPending {
		return c.Status(400).JSON(fiber.Map{"error": "match is not pending confirmation"})
	}
	if req.WinnerTeamID != match.Team1ID && req.WinnerTeamID != match.Team2ID {
		return c.Status(400).JSON(fiber.Map{"error": "winner_team_id must be one of the match teams"})
	}

	isParticipant := false
	for _, p := range match.Participants {
		if p.UserID != nil && *p.UserID == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return c.Status(403).JSON(fiber.Map{"error": "only match participants can confirm"})
	}

	match.Status = models.MatchStatusConfirmed
	match.WinnerTeamID = &req.WinnerTeamID
	if req.Score != "" {
		match.Score = req.Score
	}
	if err := s.DB.Save(&match).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to confirm match", "cause": err.Error()})
	}

	if match.LeagueID != nil {
		if err := s.Leagues.AwardLeaguePoints(match.ID, *match.LeagueID, match.Participants, req.WinnerTeamID); err != nil {
			log.Printf("[MATCH] ⚠️ league point attribution failed for match %s: %v", match.ID, err)
		}
	}

	for _, p := range match.Participants {
		if p.ParticipantType != models.ParticipantTypeUser || p.UserID == nil {
			continue
		}
		if err := s.Progression.RecordMatchPlayed(*p.UserID); err != nil {
			log.Printf("[MATCH] ⚠️ progression update failed for %s: %v", *p.UserID, err)
		}
	}

	return c.JSON(match)
}

// GetMatch returns a match with its participants.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	matchID := c.Params("id")

	var match models.Match
	if err := s.DB.Preload("Participants").First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching match", "cause": err.Error()})
	}
	return c.JSON(match)
}

// ListUserMatches returns the caller's matches, newest first.
func (s *MatchService) ListUserMatches(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var matches []models.Match
	err := s.DB.
		Joins("INNER JOIN match_participants mp ON mp.match_id = matches.id AND mp.user_id = ?", userID).
		Preload("Participants").
		Order("matches.played_at DESC").
		Limit(50).
		Find(&matches).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list matches", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"matches": matches})
}
