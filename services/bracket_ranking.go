package services

import (
	"errors"
	"fmt"
	"log"

	"padel-club-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// computeFinalRanking derives placements 1..16 from the eight tour-4 matches. Each
// placement tableau contributes a final (base+1/base+2) and a classification match
// (base+3/base+4); the winner of a pair takes the lower placement. The bracket
// already fully orders the draw, so there is no tie-break.
func computeFinalRanking(matches []models.BracketMatch) (map[string]int, error) {
	finalMatches := make([]models.BracketMatch, 0, 8)
	for _, m := range matches {
		if m.Tour == models.FinalTour {
			finalMatches = append(finalMatches, m)
		}
	}
	if len(finalMatches) != 8 {
		return nil, fmt.Errorf("expected 8 final-tour matches, found %d", len(finalMatches))
	}

	rankings := make(map[string]int, models.BracketSize)
	seen := make(map[string]bool, 8)

	for _, m := range finalMatches {
		base, ok := m.Tableau.BaseRank()
		if !ok {
			return nil, fmt.Errorf("match %s: tableau %s cannot reach the final tour", m.ID, m.Tableau)
		}

		var winnerRank int
		switch m.Round {
		case models.RoundFinal:
			winnerRank = base + 1
		case models.RoundClassification:
			winnerRank = base + 3
		case models.RoundEliminatory:
			return nil, fmt.Errorf("match %s: final-tour match tagged eliminatory", m.ID)
		default:
			return nil, fmt.Errorf("match %s: unknown round kind %d", m.ID, m.Round)
		}

		key := fmt.Sprintf("%s/%s", m.Tableau, m.Round)
		if seen[key] {
			return nil, fmt.Errorf("duplicate %s match in tableau %s", m.Round, m.Tableau)
		}
		seen[key] = true

		if m.Registration1ID == nil || m.Registration2ID == nil {
			return nil, fmt.Errorf("match %s is missing a team", m.ID)
		}
		if m.WinnerRegistrationID == nil {
			return nil, fmt.Errorf("match %s has no recorded winner", m.ID)
		}

		winner := *m.WinnerRegistrationID
		var loser string
		switch winner {
		case *m.Registration1ID:
			loser = *m.Registration2ID
		case *m.Registration2ID:
			loser = *m.Registration1ID
		default:
			return nil, fmt.Errorf("match %s: winner %s is not one of its teams", m.ID, winner)
		}

		rankings[winner] = winnerRank
		rankings[loser] = winnerRank + 1
	}

	if len(rankings) != models.BracketSize {
		return nil, fmt.Errorf("final-tour matches order %d teams, expected %d", len(rankings), models.BracketSize)
	}
	return rankings, nil
}

// CalculateFinalRanking derives and persists placements 1..16 once every tour-4
// match has a winner. Club admins only; returns 400 while the bracket is incomplete.
func (s *TournamentService) CalculateFinalRanking(c *fiber.Ctx) error {
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
		return c.Status(403).JSON(fiber.Map{"error": "only club admins can calculate the final ranking"})
	}

	var matches []models.BracketMatch
	if err := s.DB.Where("tournament_id = ?", tournamentID).Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load bracket", "cause": err.Error()})
	}

	rankings, err := computeFinalRanking(matches)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for registrationID, rank := range rankings {
			if err := tx.Model(&models.TournamentRegistration{}).
				Where("id = ? AND tournament_id = ?", registrationID, tournamentID).
				Update("final_ranking", rank).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Tournament{}).
			Where("id = ?", tournamentID).
			Update("status", models.TournamentStatusCompleted).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to persist final ranking", "cause": err.Error()})
	}

	// Progression credit per player, best-effort.
	var registrations []models.TournamentRegistration
	if err := s.DB.Where("tournament_id = ?", tournamentID).Find(&registrations).Error; err == nil {
		for _, reg := range registrations {
			rank := rankings[reg.ID]
			for _, playerID := range []string{reg.Player1ID, reg.Player2ID} {
				if err := s.Progression.RecordTournamentResult(playerID, tournamentID, rank); err != nil {
					log.Printf("[TOURNAMENT] ⚠️ progression update failed for %s: %v", playerID, err)
				}
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "rankings": rankings})
}
