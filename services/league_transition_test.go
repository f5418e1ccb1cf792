package services

import (
	"testing"
	"time"

	"padel-club-system/models"
)

func leaguePlayer(id string, division, points, matchesPlayed int) models.LeaguePlayer {
	return models.LeaguePlayer{
		ID:            "lp-" + id,
		LeagueID:      "league-1",
		PlayerID:      id,
		Division:      division,
		Points:        points,
		MatchesPlayed: matchesPlayed,
	}
}

func TestRankWithinDivisionsOrdersByPointsThenGlobalPoints(t *testing.T) {
	players := []models.LeaguePlayer{
		leaguePlayer("a", 1, 5, 3),
		leaguePlayer("b", 1, 9, 3),
		leaguePlayer("c", 1, 5, 3), // tied with a, higher global points
		leaguePlayer("d", 2, 7, 2),
	}
	global := map[string]int64{"a": 100, "b": 50, "c": 300, "d": 10}

	standings := rankWithinDivisions(players, global)

	if len(standings) != 4 {
		t.Fatalf("expected 4 standings, got %d", len(standings))
	}

	want := []struct {
		player   string
		division int
		rank     int
	}{
		{"b", 1, 1},
		{"c", 1, 2},
		{"a", 1, 3},
		{"d", 2, 1},
	}
	for i, w := range want {
		got := standings[i]
		if got.Player.PlayerID != w.player || got.Player.Division != w.division || got.Rank != w.rank {
			t.Errorf("standings[%d]: expected %s div=%d rank=%d, got %s div=%d rank=%d",
				i, w.player, w.division, w.rank, got.Player.PlayerID, got.Player.Division, got.Rank)
		}
	}
}

func TestReassignDivisionsPhaseZeroSeedsBucketsOfFour(t *testing.T) {
	// 10 players all in division 1 pre-seeding: expect divisions of 4, 4 and 2.
	var players []models.LeaguePlayer
	global := map[string]int64{}
	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10"}
	for i, id := range ids {
		players = append(players, leaguePlayer(id, 1, 100-i*10, 2))
		global[id] = int64(1000 - i)
	}

	standings := rankWithinDivisions(players, global)
	next := reassignDivisions(standings, 0)

	counts := map[int]int{}
	for _, div := range next {
		counts[div]++
	}
	if counts[1] != 4 || counts[2] != 4 || counts[3] != 2 {
		t.Fatalf("expected division sizes 4/4/2, got %v", counts)
	}

	// The 4 globally best-ranked players land in division 1.
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if next[id] != 1 {
			t.Errorf("expected %s in division 1, got %d", id, next[id])
		}
	}
	for _, id := range []string{"p9", "p10"} {
		if next[id] != 3 {
			t.Errorf("expected %s in division 3, got %d", id, next[id])
		}
	}
}

func TestReassignDivisionsPhaseZeroIgnoresExistingDivisions(t *testing.T) {
	// The strongest player sits in the bottom division before seeding.
	players := []models.LeaguePlayer{
		leaguePlayer("weak1", 1, 0, 1),
		leaguePlayer("weak2", 1, 0, 1),
		leaguePlayer("weak3", 1, 0, 1),
		leaguePlayer("weak4", 1, 0, 1),
		leaguePlayer("strong", 2, 50, 1),
	}
	global := map[string]int64{"strong": 999}

	standings := rankWithinDivisions(players, global)
	next := reassignDivisions(standings, 0)

	if next["strong"] != 1 {
		t.Errorf("expected strong seeded into division 1, got %d", next["strong"])
	}
}

func TestReassignDivisionsSteadyStatePromotesAndRelegates(t *testing.T) {
	// Two full divisions. Division 1's winner cannot promote further; its bottom
	// player relegates. Division 2's winner promotes; its bottom player has nowhere
	// to go.
	players := []models.LeaguePlayer{
		leaguePlayer("a1", 1, 12, 4),
		leaguePlayer("a2", 1, 9, 4),
		leaguePlayer("a3", 1, 6, 4),
		leaguePlayer("a4", 1, 3, 4),
		leaguePlayer("b1", 2, 11, 4),
		leaguePlayer("b2", 2, 8, 4),
		leaguePlayer("b3", 2, 5, 4),
		leaguePlayer("b4", 2, 2, 4),
	}
	standings := rankWithinDivisions(players, map[string]int64{})
	next := reassignDivisions(standings, 3)

	want := map[string]int{
		"a1": 1, // rank 1 of division 1: stays, no division above
		"a2": 1,
		"a3": 1,
		"a4": 2, // bottom of division 1: relegated
		"b1": 1, // rank 1 of division 2: promoted
		"b2": 2,
		"b3": 2,
		"b4": 2, // bottom of the last division: stays
	}
	for id, div := range want {
		if next[id] != div {
			t.Errorf("player %s: expected division %d, got %d", id, div, next[id])
		}
	}
}

func TestReassignDivisionsSmallDivisionBottomNotRelegated(t *testing.T) {
	// A final division of 3 players: its bottom rank is below DivisionSize, so
	// nobody relegates out of it, and nobody can relegate into a division that
	// does not exist.
	players := []models.LeaguePlayer{
		leaguePlayer("a1", 1, 10, 2),
		leaguePlayer("a2", 1, 8, 2),
		leaguePlayer("a3", 1, 6, 2),
		leaguePlayer("a4", 1, 4, 2),
		leaguePlayer("b1", 2, 9, 2),
		leaguePlayer("b2", 2, 7, 2),
		leaguePlayer("b3", 2, 5, 2),
	}
	standings := rankWithinDivisions(players, map[string]int64{})
	next := reassignDivisions(standings, 2)

	if next["b3"] != 2 {
		t.Errorf("bottom of a 3-player division should stay, got division %d", next["b3"])
	}
	if next["a4"] != 2 {
		t.Errorf("bottom of division 1 should relegate to division 2, got %d", next["a4"])
	}
	if next["b1"] != 1 {
		t.Errorf("winner of division 2 should promote, got %d", next["b1"])
	}
}

func TestAdvancePhaseClockStaysOnGrid(t *testing.T) {
	phaseEnd := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Checked 3 days late: next boundary is still old + 14d, not now + 14d.
	now := phaseEnd.Add(3 * 24 * time.Hour)
	next, jumps := advancePhaseClock(phaseEnd, now)
	if jumps != 1 {
		t.Errorf("expected 1 jump, got %d", jumps)
	}
	if !next.Equal(phaseEnd.Add(models.PhaseLength)) {
		t.Errorf("expected boundary on the 14-day grid, got %v", next)
	}
	if !next.After(now) {
		t.Errorf("next boundary %v must be strictly after now %v", next, now)
	}
}

func TestAdvancePhaseClockCatchesUpDormantLeagues(t *testing.T) {
	phaseEnd := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	// Dormant through 3 full phase lengths.
	now := phaseEnd.Add(3*models.PhaseLength + 2*time.Hour)
	next, jumps := advancePhaseClock(phaseEnd, now)
	if jumps != 4 {
		t.Errorf("expected 4 jumps, got %d", jumps)
	}
	if !next.Equal(phaseEnd.Add(4 * models.PhaseLength)) {
		t.Errorf("expected old+4*14d, got %v", next)
	}
	if !next.After(now) {
		t.Errorf("next boundary %v must be strictly after now %v", next, now)
	}
}

func TestAdvancePhaseClockExactBoundary(t *testing.T) {
	phaseEnd := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// now exactly on old+14d: the candidate is not strictly in the future, so a
	// second increment is required.
	now := phaseEnd.Add(models.PhaseLength)
	next, jumps := advancePhaseClock(phaseEnd, now)
	if jumps != 2 {
		t.Errorf("expected 2 jumps, got %d", jumps)
	}
	if !next.After(now) {
		t.Errorf("next boundary %v must be strictly after now %v", next, now)
	}
}
