package services

import (
	"errors"
	"fmt"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateBracket builds the fixed 16-team multi-chance draw: every team plays four
// tours, tour 1-2 losers drop into the consolation bracket, and by tour 4 each of
// the four placement tableaux holds a final plus a classification match. Requires a
// full draw; club admins only.
func (s *TournamentService) GenerateBracket(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tournamentID := c.Params("id")

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching tournament", "cause": err.Error()})
	}
	if !s.isClubAdmin(tournament.ClubID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "only club admins can generate the bracket"})
	}

	var existing int64
	s.DB.Model(&models.BracketMatch{}).Where("tournament_id = ?", tournamentID).Count(&existing)
	if existing > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "bracket already generated"})
	}

	var registrations []models.TournamentRegistration
	if err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("seed ASC").
		Find(&registrations).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load registrations", "cause": err.Error()})
	}
	if len(registrations) != models.BracketSize {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("bracket needs exactly %d registered teams, have %d", models.BracketSize, len(registrations)),
		})
	}

	matches := buildBracket(tournamentID, registrations)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range matches {
			if err := tx.Create(&matches[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Tournament{}).
			Where("id = ?", tournamentID).
			Update("status", models.TournamentStatusRunning).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate bracket", "cause": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"matches": matches})
}

// buildBracket wires the 32 matches of the draw. Links are by ID, so matches are
// allocated tour 4 first and stitched backwards.
func buildBracket(tournamentID string, registrations []models.TournamentRegistration) []models.BracketMatch {
	newMatch := func(tableau models.Tableau, tour, slot int, round models.RoundKind) *models.BracketMatch {
		return &models.BracketMatch{
			ID:           uuid.NewString(),
			TournamentID: tournamentID,
			Tableau:      tableau,
			Tour:         tour,
			Slot:         slot,
			Round:        round,
		}
	}
	link := func(m *models.BracketMatch, winnerTo *models.BracketMatch, winnerSide int, loserTo *models.BracketMatch, loserSide int) {
		m.WinnerToID = &winnerTo.ID
		m.WinnerToSide = winnerSide
		m.LoserToID = &loserTo.ID
		m.LoserToSide = loserSide
	}

	placementTableaux := []models.Tableau{
		models.TableauPrincipal,
		models.TableauPlaces5to8,
		models.TableauPlaces9to12,
		models.TableauPlaces13to16,
	}

	// Tour 4: one final and one classification match per placement tableau.
	finals := make(map[models.Tableau]*models.BracketMatch)
	classifications := make(map[models.Tableau]*models.BracketMatch)
	for _, t := range placementTableaux {
		finals[t] = newMatch(t, 4, 0, models.RoundFinal)
		classifications[t] = newMatch(t, 4, 1, models.RoundClassification)
	}

	// Tour 3: two semifinals per tableau feeding its final and classification match.
	semis := make(map[models.Tableau][]*models.BracketMatch)
	for _, t := range placementTableaux {
		for slot := 0; slot < 2; slot++ {
			m := newMatch(t, 3, slot, models.RoundEliminatory)
			link(m, finals[t], slot+1, classifications[t], slot+1)
			semis[t] = append(semis[t], m)
		}
	}

	// Tour 2: principal winners reach the principal semis, losers fight for 5-8;
	// consolation winners fight for 9-12, losers for 13-16.
	var tour2Principal, tour2Consolation []*models.BracketMatch
	for slot := 0; slot < 4; slot++ {
		side := slot%2 + 1
		p := newMatch(models.TableauPrincipal, 2, slot, models.RoundEliminatory)
		link(p, semis[models.TableauPrincipal][slot/2], side, semis[models.TableauPlaces5to8][slot/2], side)
		tour2Principal = append(tour2Principal, p)

		q := newMatch(models.TableauConsolation, 2, slot, models.RoundEliminatory)
		link(q, semis[models.TableauPlaces9to12][slot/2], side, semis[models.TableauPlaces13to16][slot/2], side)
		tour2Consolation = append(tour2Consolation, q)
	}

	// Tour 1: seeded 1v16, 2v15, ... winners advance in the principal bracket,
	// losers drop to the consolation bracket.
	var tour1 []*models.BracketMatch
	for slot := 0; slot < 8; slot++ {
		side := slot%2 + 1
		m := newMatch(models.TableauPrincipal, 1, slot, models.RoundEliminatory)
		high := registrations[slot].ID
		low := registrations[models.BracketSize-1-slot].ID
		m.Registration1ID = &high
		m.Registration2ID = &low
		link(m, tour2Principal[slot/2], side, tour2Consolation[slot/2], side)
		tour1 = append(tour1, m)
	}

	var out []models.BracketMatch
	for _, group := range [][]*models.BracketMatch{tour1, tour2Principal, tour2Consolation} {
		for _, m := range group {
			out = append(out, *m)
		}
	}
	for _, t := range placementTableaux {
		out = append(out, *semis[t][0], *semis[t][1])
	}
	for _, t := range placementTableaux {
		out = append(out, *finals[t], *classifications[t])
	}
	return out
}

// ReportBracketResult records a bracket match winner and routes both teams into
// their next matches.
func (s *TournamentService) ReportBracketResult(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tournamentID := c.Params("id")
	matchID := c.Params("match_id")

	type Req struct {
		WinnerRegistrationID string `json:"winner_registration_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	if !s.isTournamentClubAdmin(tournamentID, userID) {
		return c.Status(403).JSON(fiber.Map{"error": "only club admins can report results"})
	}

	var match models.BracketMatch
	if err := s.DB.First(&match, "id = ? AND tournament_id = ?", matchID, tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "bracket match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching bracket match", "cause": err.Error()})
	}

	if match.Registration1ID == nil || match.Registration2ID == nil {
		return c.Status(400).JSON(fiber.Map{"error": "both teams must be placed before reporting a result"})
	}
	if match.WinnerRegistrationID != nil {
		return c.Status(400).JSON(fiber.Map{"error": "result already reported"})
	}

	var loserID string
	switch req.WinnerRegistrationID {
	case *match.Registration1ID:
		loserID = *match.Registration2ID
	case *match.Registration2ID:
		loserID = *match.Registration1ID
	default:
		return c.Status(400).JSON(fiber.Map{"error": "winner_registration_id is not part of this match"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		match.WinnerRegistrationID = &req.WinnerRegistrationID
		if err := tx.Save(&match).Error; err != nil {
			return err
		}
		if match.WinnerToID != nil {
			if err := placeRegistration(tx, *match.WinnerToID, match.WinnerToSide, req.WinnerRegistrationID); err != nil {
				return err
			}
		}
		if match.LoserToID != nil {
			if err := placeRegistration(tx, *match.LoserToID, match.LoserToSide, loserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to report result", "cause": err.Error()})
	}
	return c.JSON(match)
}

func placeRegistration(tx *gorm.DB, matchID string, side int, registrationID string) error {
	column := "registration1_id"
	if side == 2 {
		column = "registration2_id"
	}
	return tx.Model(&models.BracketMatch{}).
		Where("id = ?", matchID).
		Update(column, registrationID).Error
}

// GetBracket lists the bracket matches of a tournament in play order.
func (s *TournamentService) GetBracket(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var matches []models.BracketMatch
	if err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("tour ASC, tableau ASC, slot ASC").
		Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load bracket", "cause": err.Error()})
	}
	if len(matches) == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "bracket not generated"})
	}
	return c.JSON(fiber.Map{"matches": matches})
}
