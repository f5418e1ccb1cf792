package services

import (
	"errors"
	"log"
	"time"

	"padel-club-system/models"

	"gorm.io/gorm"
)

// pointsForMatch is the per-player point rule for one confirmed league match.
// Past the quota a match earns nothing. A loss earns 1. A win earns 3, except in
// divisions format where a pair that has already won together in this league earns
// 2 — the diversity bonus only pays out the first time a partnership wins.
func pointsForMatch(won bool, format string, underQuota bool, pairAlreadyWon bool) int {
	if !underQuota {
		return 0
	}
	if !won {
		return 1
	}
	if format == models.LeagueFormatDivisions && pairAlreadyWon {
		return 2
	}
	return 3
}

// AwardLeaguePoints attributes league points to every user participant of a
// confirmed match. Invoked in-process by the match confirmation flow.
//
// Updates are best-effort and per-player: a failed write is logged and does not
// roll back or block the remaining participants. matches_played always increments,
// even past the quota.
func (s *LeagueService) AwardLeaguePoints(matchID, leagueID string, participants []models.MatchParticipant, winnerTeamID string) error {
	var league models.League
	if err := s.DB.First(&league, "id = ?", leagueID).Error; err != nil {
		return err
	}
	if league.Status != models.LeagueStatusActive || league.EndsAt.Before(time.Now()) {
		log.Printf("[POINTS] league %s not active or expired, skipping match %s", leagueID, matchID)
		return nil
	}

	for _, p := range participants {
		if p.ParticipantType != models.ParticipantTypeUser || p.UserID == nil {
			continue // guests never accrue league points
		}
		userID := *p.UserID

		var player models.LeaguePlayer
		err := s.DB.Where("league_id = ? AND player_id = ?", leagueID, userID).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // participant plays the match but is not in the league
		}
		if err != nil {
			log.Printf("[POINTS] ⚠️ failed to load league player %s in league %s: %v", userID, leagueID, err)
			continue
		}

		won := p.TeamID == winnerTeamID
		underQuota := player.MatchesPlayed < league.MaxMatchesPerPlayer

		pairAlreadyWon := false
		if won && underQuota && league.Format == models.LeagueFormatDivisions {
			if partnerID, ok := teammateOf(participants, p); ok {
				pairAlreadyWon = s.pairHasWonTogether(leagueID, userID, partnerID, matchID)
			}
		}

		delta := pointsForMatch(won, league.Format, underQuota, pairAlreadyWon)

		if err := s.DB.Model(&models.LeaguePlayer{}).
			Where("league_id = ? AND player_id = ?", leagueID, userID).
			Updates(map[string]interface{}{
				"matches_played": gorm.Expr("matches_played + 1"),
				"points":         gorm.Expr("points + ?", delta),
			}).Error; err != nil {
			log.Printf("[POINTS] ⚠️ failed to update league player %s in league %s: %v — continuing with remaining players", userID, leagueID, err)
			continue
		}
	}
	return nil
}

// teammateOf finds the user-type partner sharing a participant's side. A guest
// partner yields no pair, so the diversity bonus never triggers against guests.
func teammateOf(participants []models.MatchParticipant, of models.MatchParticipant) (string, bool) {
	for _, p := range participants {
		if p.ID == of.ID || p.TeamID != of.TeamID {
			continue
		}
		if p.ParticipantType == models.ParticipantTypeUser && p.UserID != nil {
			return *p.UserID, true
		}
	}
	return "", false
}

// pairHasWonTogether reports whether these two players have already won a confirmed
// league match on the same team, excluding the match being scored.
func (s *LeagueService) pairHasWonTogether(leagueID, playerA, playerB, excludeMatchID string) bool {
	var count int64
	err := s.DB.Raw(`
		SELECT COUNT(*)
		FROM matches m
		INNER JOIN match_participants a ON a.match_id = m.id AND a.user_id = ?
		INNER JOIN match_participants b ON b.match_id = m.id AND b.user_id = ?
		WHERE m.league_id = ?
		  AND m.status = ?
		  AND m.id <> ?
		  AND a.team_id = b.team_id
		  AND m.winner_team_id = a.team_id
	`, playerA, playerB, leagueID, models.MatchStatusConfirmed, excludeMatchID).Scan(&count).Error
	if err != nil {
		log.Printf("[POINTS] ⚠️ pair history lookup failed for %s/%s in league %s: %v", playerA, playerB, leagueID, err)
		return false
	}
	return count > 0
}
