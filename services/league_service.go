package services

import (
	"errors"
	"log"
	"time"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type LeagueService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewLeagueService(db *gorm.DB, progression *ProgressionService) *LeagueService {
	return &LeagueService{DB: db, Progression: progression}
}

// CreateLeague creates a league for a club. Club admins only.
func (s *LeagueService) CreateLeague(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		ClubID              string `json:"club_id"`
		Name                string `json:"name"`
		Format              string `json:"format"`
		StartsAt            string `json:"starts_at"` // RFC3339
		EndsAt              string `json:"ends_at"`   // RFC3339
		MaxMatchesPerPlayer int    `json:"max_matches_per_player"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	if req.ClubID == "" || req.Name == "" || req.StartsAt == "" || req.EndsAt == "" {
		return c.Status(400).JSON(fiber.Map{"error": "club_id, name, starts_at and ends_at are required"})
	}
	if req.Format == "" {
		req.Format = models.LeagueFormatClassic
	}
	if req.Format != models.LeagueFormatClassic && req.Format != models.LeagueFormatDivisions {
		return c.Status(400).JSON(fiber.Map{"error": "format must be 'classic' or 'divisions'"})
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid starts_at (use RFC3339)"})
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid ends_at (use RFC3339)"})
	}
	if !endsAt.After(startsAt) {
		return c.Status(400).JSON(fiber.Map{"error": "ends_at must be after starts_at"})
	}

	if !s.isClubAdmin(req.ClubID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "only club admins can create leagues"})
	}

	maxMatches := req.MaxMatchesPerPlayer
	if maxMatches <= 0 {
		maxMatches = 10
	}

	league := models.League{
		ID:                  uuid.NewString(),
		ClubID:              req.ClubID,
		Name:                req.Name,
		Slug:                slug.Make(req.Name),
		Status:              models.LeagueStatusPending,
		Format:              req.Format,
		CurrentPhase:        0,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		MaxMatchesPerPlayer: maxMatches,
	}
	if league.Format == models.LeagueFormatDivisions {
		league.PhaseEndsAt = startsAt.Add(models.PhaseLength)
	}

	if err := s.DB.Create(&league).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create league", "cause": err.Error()})
	}
	return c.Status(201).JSON(league)
}

// JoinLeague registers the calling club member as a league player.
func (s *LeagueService) JoinLeague(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	leagueID := c.Params("id")

	var league models.League
	if err := s.DB.First(&league, "id = ?", leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "league not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching league", "cause": err.Error()})
	}

	if league.Status == models.LeagueStatusCompleted || league.Status == models.LeagueStatusCancelled {
		return c.Status(400).JSON(fiber.Map{"error": "league is no longer open"})
	}
	if !s.isClubMember(league.ClubID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "not a member of this club"})
	}

	player := models.LeaguePlayer{
		ID:       uuid.NewString(),
		LeagueID: league.ID,
		PlayerID: userID,
		Division: 1,
	}
	result := s.DB.Where("league_id = ? AND player_id = ?", league.ID, userID).
		FirstOrCreate(&player)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to join league", "cause": result.Error.Error()})
	}
	if result.RowsAffected > 0 {
		if err := s.Progression.RecordLeagueJoined(userID, league.ID); err != nil {
			log.Printf("[LEAGUE] ⚠️ progression update failed for %s: %v", userID, err)
		}
	}
	return c.Status(201).JSON(player)
}

// GetLeagueDetail returns the league plus current standings. For a divisions-format
// league whose phase boundary has passed, the phase transition runs first, inside
// this request, before the standings are computed.
func (s *LeagueService) GetLeagueDetail(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing user context"})
	}
	leagueID := c.Params("id")

	var league models.League
	if err := s.DB.First(&league, "id = ?", leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "league not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching league", "cause": err.Error()})
	}

	var membership models.LeaguePlayer
	if err := s.DB.Where("league_id = ? AND player_id = ?", league.ID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(403).JSON(fiber.Map{"error": "not a member of this league"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching membership", "cause": err.Error()})
	}

	now := time.Now()
	if err := s.maybeRunPhaseTransition(&league, now); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "phase transition failed", "cause": err.Error()})
	}

	standings, err := s.buildStandings(&league, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to build standings", "cause": err.Error()})
	}

	remainingDays := int(time.Until(league.EndsAt).Hours() / 24)
	if remainingDays < 0 {
		remainingDays = 0
	}

	return c.JSON(fiber.Map{
		"league": fiber.Map{
			"id":                     league.ID,
			"club_id":                league.ClubID,
			"name":                   league.Name,
			"slug":                   league.Slug,
			"status":                 league.Status,
			"format":                 league.Format,
			"current_phase":          league.CurrentPhase,
			"phase_ends_at":          league.PhaseEndsAt,
			"starts_at":              league.StartsAt,
			"ends_at":                league.EndsAt,
			"max_matches_per_player": league.MaxMatchesPerPlayer,
			"remaining_days":         remainingDays,
			"is_expired":             now.After(league.EndsAt),
		},
		"standings": standings,
	})
}

// buildStandings ranks all league players and decorates them with mirrored profile
// data. Ordered division ascending, rank ascending.
func (s *LeagueService) buildStandings(league *models.League, currentUserID string) ([]fiber.Map, error) {
	var players []models.LeaguePlayer
	if err := s.DB.Where("league_id = ?", league.ID).Find(&players).Error; err != nil {
		return nil, err
	}

	globalPoints, err := loadGlobalPoints(s.DB, players)
	if err != nil {
		return nil, err
	}
	ranked := rankWithinDivisions(players, globalPoints)

	names := make(map[string]string, len(players))
	{
		ids := make([]string, 0, len(players))
		for _, p := range players {
			ids = append(ids, p.PlayerID)
		}
		var profiles []models.PlayerProfile
		if err := s.DB.Where("external_user_id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, err
		}
		for _, profile := range profiles {
			names[profile.ExternalUserID] = profile.DisplayName
		}
	}

	standings := make([]fiber.Map, 0, len(ranked))
	for _, st := range ranked {
		standings = append(standings, fiber.Map{
			"rank":            st.Rank,
			"player_id":       st.Player.PlayerID,
			"display_name":    names[st.Player.PlayerID],
			"matches_played":  st.Player.MatchesPlayed,
			"points":          st.Player.Points,
			"division":        st.Player.Division,
			"is_current_user": st.Player.PlayerID == currentUserID,
		})
	}
	return standings, nil
}

// GetPhaseHistory returns the append-only snapshots of past phases, newest first.
func (s *LeagueService) GetPhaseHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	leagueID := c.Params("id")

	var league models.League
	if err := s.DB.First(&league, "id = ?", leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "league not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching league", "cause": err.Error()})
	}

	var count int64
	s.DB.Model(&models.LeaguePlayer{}).
		Where("league_id = ? AND player_id = ?", league.ID, userID).Count(&count)
	if count == 0 {
		return c.Status(403).JSON(fiber.Map{"error": "not a member of this league"})
	}

	var history []models.LeaguePhaseHistory
	if err := s.DB.Where("league_id = ?", league.ID).
		Order("phase_number DESC, division ASC, rank ASC").
		Find(&history).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch phase history", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"history": history})
}

// ListClubLeagues lists a club's leagues (public behind the gateway).
func (s *LeagueService) ListClubLeagues(c *fiber.Ctx) error {
	clubID := c.Params("id")

	var leagues []models.League
	if err := s.DB.Where("club_id = ?", clubID).
		Order("starts_at DESC").
		Find(&leagues).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list leagues", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"leagues": leagues})
}

func (s *LeagueService) isClubMember(clubID, userID string) bool {
	var count int64
	s.DB.Model(&models.ClubMember{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&count)
	return count > 0
}

func (s *LeagueService) isClubAdmin(clubID, userID string) bool {
	var count int64
	s.DB.Model(&models.ClubMember{}).
		Where("club_id = ? AND user_id = ? AND role = ?", clubID, userID, models.ClubRoleAdmin).
		Count(&count)
	return count > 0
}
