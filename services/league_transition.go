package services

import (
	"log"
	"sort"
	"time"

	"padel-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// divisionStanding is one player's ranked position inside their current division.
type divisionStanding struct {
	Player       models.LeaguePlayer
	GlobalPoints int64
	Rank         int // 1..N within the division
}

// rankWithinDivisions orders players inside each division by league points, tie-broken
// by the player's global ranking points, and assigns per-division ranks. The returned
// slice is ordered division ascending, rank ascending.
func rankWithinDivisions(players []models.LeaguePlayer, globalPoints map[string]int64) []divisionStanding {
	standings := make([]divisionStanding, 0, len(players))
	for _, p := range players {
		standings = append(standings, divisionStanding{
			Player:       p,
			GlobalPoints: globalPoints[p.PlayerID],
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Player.Division != standings[j].Player.Division {
			return standings[i].Player.Division < standings[j].Player.Division
		}
		if standings[i].Player.Points != standings[j].Player.Points {
			return standings[i].Player.Points > standings[j].Player.Points
		}
		return standings[i].GlobalPoints > standings[j].GlobalPoints
	})

	rank := 0
	currentDivision := -1
	for i := range standings {
		if standings[i].Player.Division != currentDivision {
			currentDivision = standings[i].Player.Division
			rank = 0
		}
		rank++
		standings[i].Rank = rank
	}
	return standings
}

// reassignDivisions computes each player's division for the next phase.
//
// Phase 0 is the seeding phase: existing divisions are ignored, all players are
// ordered globally by (rank, points, global points) and bucketed into divisions of
// DivisionSize. In steady state, the rank-1 player of every division below the top
// promotes one division, and the bottom-ranked player of a full division above the
// last one relegates. Everyone else stays put.
func reassignDivisions(standings []divisionStanding, currentPhase int) map[string]int {
	next := make(map[string]int, len(standings))

	if currentPhase == 0 {
		seeded := make([]divisionStanding, len(standings))
		copy(seeded, standings)
		sort.SliceStable(seeded, func(i, j int) bool {
			if seeded[i].Rank != seeded[j].Rank {
				return seeded[i].Rank < seeded[j].Rank
			}
			if seeded[i].Player.Points != seeded[j].Player.Points {
				return seeded[i].Player.Points > seeded[j].Player.Points
			}
			return seeded[i].GlobalPoints > seeded[j].GlobalPoints
		})
		for i, st := range seeded {
			next[st.Player.PlayerID] = i/models.DivisionSize + 1
		}
		return next
	}

	totalDivisions := (len(standings) + models.DivisionSize - 1) / models.DivisionSize

	divisionSizes := make(map[int]int)
	for _, st := range standings {
		divisionSizes[st.Player.Division]++
	}

	for _, st := range standings {
		division := st.Player.Division
		switch {
		case st.Rank == 1 && division > 1:
			division--
		case st.Rank >= models.DivisionSize && st.Rank == divisionSizes[st.Player.Division] && division < totalDivisions:
			division++
		}
		next[st.Player.PlayerID] = division
	}
	return next
}

// advancePhaseClock returns the next phase boundary and the number of phases jumped.
// The boundary always lands on the fixed 14-day grid anchored at the old boundary,
// never at now+14d: a league dormant through several boundaries catches up in one
// call, advancing multiple phases at once.
func advancePhaseClock(phaseEndsAt, now time.Time) (time.Time, int) {
	next := phaseEndsAt.Add(models.PhaseLength)
	jumps := 1
	for !next.After(now) {
		next = next.Add(models.PhaseLength)
		jumps++
	}
	return next, jumps
}

// maybeRunPhaseTransition checks the transition trigger conditions and runs the
// transition when the current phase is over. Safe to call on every league read.
func (s *LeagueService) maybeRunPhaseTransition(league *models.League, now time.Time) error {
	if league.Format != models.LeagueFormatDivisions || league.Status != models.LeagueStatusActive {
		return nil
	}
	if now.Before(league.PhaseEndsAt) || !now.Before(league.EndsAt) {
		return nil
	}
	return s.runPhaseTransition(league, now)
}

// runPhaseTransition snapshots the ending phase, reassigns divisions and resets
// per-phase counters, all in one transaction. The league row advance is a
// conditional update keyed on the phase counter, so a concurrent request that
// already transitioned makes this call a no-op instead of double-advancing.
func (s *LeagueService) runPhaseTransition(league *models.League, now time.Time) error {
	endingPhase := league.CurrentPhase

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var players []models.LeaguePlayer
		if err := tx.Where("league_id = ?", league.ID).Find(&players).Error; err != nil {
			return err
		}

		globalPoints, err := loadGlobalPoints(tx, players)
		if err != nil {
			return err
		}

		standings := rankWithinDivisions(players, globalPoints)
		newDivisions := reassignDivisions(standings, endingPhase)
		nextEnd, jumps := advancePhaseClock(league.PhaseEndsAt, now)

		res := tx.Model(&models.League{}).
			Where("id = ? AND current_phase = ?", league.ID, endingPhase).
			Updates(map[string]interface{}{
				"current_phase": endingPhase + jumps,
				"phase_ends_at": nextEnd,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("[LEAGUE] phase %d of league %s already advanced by a concurrent request, skipping", endingPhase, league.ID)
			return nil
		}

		// Snapshot the phase that just ended. Phases skipped by a dormant-league jump
		// saw no play and get no snapshot.
		for _, st := range standings {
			history := models.LeaguePhaseHistory{
				ID:            uuid.NewString(),
				LeagueID:      league.ID,
				PhaseNumber:   endingPhase,
				PlayerID:      st.Player.PlayerID,
				Division:      st.Player.Division,
				Rank:          st.Rank,
				MatchesPlayed: st.Player.MatchesPlayed,
				Points:        st.Player.Points,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}

		for _, st := range standings {
			if err := tx.Model(&models.LeaguePlayer{}).
				Where("league_id = ? AND player_id = ?", league.ID, st.Player.PlayerID).
				Updates(map[string]interface{}{
					"division":       newDivisions[st.Player.PlayerID],
					"points":         0,
					"matches_played": 0,
				}).Error; err != nil {
				return err
			}
		}

		league.CurrentPhase = endingPhase + jumps
		league.PhaseEndsAt = nextEnd

		log.Printf("[LEAGUE] ✅ league %s advanced %d phase(s): phase %d ended, next boundary %s",
			league.ID, jumps, endingPhase, nextEnd.Format(time.RFC3339))
		return nil
	})
}

// loadGlobalPoints fetches the global tiebreak metric from the mirrored profiles.
// Players without a mirror row tie-break at zero.
func loadGlobalPoints(tx *gorm.DB, players []models.LeaguePlayer) (map[string]int64, error) {
	points := make(map[string]int64, len(players))
	if len(players) == 0 {
		return points, nil
	}

	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.PlayerID)
	}

	var profiles []models.PlayerProfile
	if err := tx.Where("external_user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		points[profile.ExternalUserID] = profile.GlobalPoints
	}
	return points, nil
}
