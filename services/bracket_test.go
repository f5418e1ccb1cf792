package services

import (
	"fmt"
	"testing"

	"padel-club-system/models"
)

func seededRegistrations(n int) []models.TournamentRegistration {
	regs := make([]models.TournamentRegistration, 0, n)
	for i := 1; i <= n; i++ {
		regs = append(regs, models.TournamentRegistration{
			ID:           fmt.Sprintf("reg-%d", i),
			TournamentID: "tournament-1",
			TeamName:     fmt.Sprintf("Team %d", i),
			Seed:         i,
		})
	}
	return regs
}

func TestBuildBracketShape(t *testing.T) {
	matches := buildBracket("tournament-1", seededRegistrations(models.BracketSize))

	if len(matches) != 32 {
		t.Fatalf("expected 32 matches, got %d", len(matches))
	}

	perTour := map[int]int{}
	for _, m := range matches {
		perTour[m.Tour]++
	}
	for tour := 1; tour <= 4; tour++ {
		if perTour[tour] != 8 {
			t.Errorf("tour %d: expected 8 matches, got %d", tour, perTour[tour])
		}
	}

	finals := 0
	classifications := 0
	for _, m := range matches {
		switch {
		case m.Tour < models.FinalTour:
			if m.Round != models.RoundEliminatory {
				t.Errorf("match %s: tour %d should be eliminatory, got %s", m.ID, m.Tour, m.Round)
			}
			if m.WinnerToID == nil || m.LoserToID == nil {
				t.Errorf("match %s: every team keeps playing, both links must be set", m.ID)
			}
		case m.Round == models.RoundFinal:
			finals++
		case m.Round == models.RoundClassification:
			classifications++
		default:
			t.Errorf("match %s: final tour match tagged %s", m.ID, m.Round)
		}
		if m.Tour == models.FinalTour && (m.WinnerToID != nil || m.LoserToID != nil) {
			t.Errorf("match %s: final tour matches must not link onward", m.ID)
		}
	}
	if finals != 4 || classifications != 4 {
		t.Errorf("expected 4 finals and 4 classification matches, got %d and %d", finals, classifications)
	}
}

func TestBuildBracketSeedsTourOne(t *testing.T) {
	regs := seededRegistrations(models.BracketSize)
	matches := buildBracket("tournament-1", regs)

	tour1 := 0
	for _, m := range matches {
		if m.Tour != 1 {
			continue
		}
		tour1++
		if m.Registration1ID == nil || m.Registration2ID == nil {
			t.Fatalf("tour 1 slot %d: both teams must be pre-placed", m.Slot)
		}
		wantHigh := regs[m.Slot].ID
		wantLow := regs[models.BracketSize-1-m.Slot].ID
		if *m.Registration1ID != wantHigh || *m.Registration2ID != wantLow {
			t.Errorf("tour 1 slot %d: expected %s vs %s, got %s vs %s",
				m.Slot, wantHigh, wantLow, *m.Registration1ID, *m.Registration2ID)
		}
	}
	if tour1 != 8 {
		t.Errorf("expected 8 tour-1 matches, got %d", tour1)
	}
}

func TestBuildBracketLinksFillEverySlotOnce(t *testing.T) {
	matches := buildBracket("tournament-1", seededRegistrations(models.BracketSize))

	byID := map[string]models.BracketMatch{}
	for _, m := range matches {
		byID[m.ID] = m
	}

	type slot struct {
		matchID string
		side    int
	}
	filled := map[slot]int{}
	for _, m := range matches {
		if m.WinnerToID != nil {
			to, ok := byID[*m.WinnerToID]
			if !ok || to.Tour != m.Tour+1 {
				t.Errorf("match %s: winner link must target the next tour", m.ID)
			}
			filled[slot{*m.WinnerToID, m.WinnerToSide}]++
		}
		if m.LoserToID != nil {
			to, ok := byID[*m.LoserToID]
			if !ok || to.Tour != m.Tour+1 {
				t.Errorf("match %s: loser link must target the next tour", m.ID)
			}
			filled[slot{*m.LoserToID, m.LoserToSide}]++
		}
	}

	// Tours 2-4 hold 24 matches; their 48 team slots are each fed by exactly one link.
	if len(filled) != 48 {
		t.Fatalf("expected 48 distinct inbound slots, got %d", len(filled))
	}
	for s, n := range filled {
		if n != 1 {
			t.Errorf("slot (%s, side %d) is fed by %d links, want exactly 1", s.matchID, s.side, n)
		}
		if s.side != 1 && s.side != 2 {
			t.Errorf("slot (%s): invalid side %d", s.matchID, s.side)
		}
	}
}

// Replays the whole draw (side-1 team always wins) to check that the wiring fills
// every match and that the final tour orders all 16 teams.
func TestBuildBracketReplayOrdersSixteenTeams(t *testing.T) {
	matches := buildBracket("tournament-1", seededRegistrations(models.BracketSize))

	index := map[string]int{}
	for i, m := range matches {
		index[m.ID] = i
	}
	place := func(matchID string, side int, registrationID string) {
		m := &matches[index[matchID]]
		if side == 1 {
			m.Registration1ID = &registrationID
		} else {
			m.Registration2ID = &registrationID
		}
	}

	for tour := 1; tour <= models.FinalTour; tour++ {
		for i := range matches {
			m := &matches[i]
			if m.Tour != tour {
				continue
			}
			if m.Registration1ID == nil || m.Registration2ID == nil {
				t.Fatalf("match %s (tour %d) reached play with a missing team", m.ID, m.Tour)
			}
			winner, loser := *m.Registration1ID, *m.Registration2ID
			m.WinnerRegistrationID = &winner
			if m.WinnerToID != nil {
				place(*m.WinnerToID, m.WinnerToSide, winner)
			}
			if m.LoserToID != nil {
				place(*m.LoserToID, m.LoserToSide, loser)
			}
		}
	}

	rankings, err := computeFinalRanking(matches)
	if err != nil {
		t.Fatalf("replayed bracket failed to rank: %v", err)
	}
	if len(rankings) != models.BracketSize {
		t.Fatalf("expected %d placements, got %d", models.BracketSize, len(rankings))
	}
	seenPlacement := map[int]string{}
	for team, rank := range rankings {
		if rank < 1 || rank > models.BracketSize {
			t.Errorf("team %s placed %d, outside 1..%d", team, rank, models.BracketSize)
		}
		if other, dup := seenPlacement[rank]; dup {
			t.Errorf("placement %d assigned to both %s and %s", rank, other, team)
		}
		seenPlacement[rank] = team
	}
}
