package services

import (
	"testing"

	"padel-club-system/models"
)

func TestPointsForMatch(t *testing.T) {
	tests := []struct {
		name           string
		won            bool
		format         string
		underQuota     bool
		pairAlreadyWon bool
		want           int
	}{
		{"win under quota", true, models.LeagueFormatDivisions, true, false, 3},
		{"loss under quota", false, models.LeagueFormatDivisions, true, false, 1},
		{"repeat pair win pays the reduced bonus", true, models.LeagueFormatDivisions, true, true, 2},
		{"repeat pair only applies to divisions", true, models.LeagueFormatClassic, true, true, 3},
		{"win past quota earns nothing", true, models.LeagueFormatDivisions, false, false, 0},
		{"loss past quota earns nothing", false, models.LeagueFormatDivisions, false, false, 0},
		{"repeat pair past quota earns nothing", true, models.LeagueFormatDivisions, false, true, 0},
		{"classic loss", false, models.LeagueFormatClassic, true, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pointsForMatch(tt.won, tt.format, tt.underQuota, tt.pairAlreadyWon)
			if got != tt.want {
				t.Errorf("pointsForMatch(won=%v, format=%s, underQuota=%v, pairAlreadyWon=%v) = %d, want %d",
					tt.won, tt.format, tt.underQuota, tt.pairAlreadyWon, got, tt.want)
			}
		})
	}
}

// A pair that wins three matches in a league with a 2-match quota earns 3 for the
// first win, 2 for the repeat win, and 0 once past the quota.
func TestPointsForMatchRepeatPairSequence(t *testing.T) {
	const maxMatches = 2

	matchesPlayed := 0
	pairAlreadyWon := false
	var awarded []int

	for i := 0; i < 3; i++ {
		underQuota := matchesPlayed < maxMatches
		awarded = append(awarded, pointsForMatch(true, models.LeagueFormatDivisions, underQuota, pairAlreadyWon))
		matchesPlayed++
		pairAlreadyWon = true
	}

	want := []int{3, 2, 0}
	for i := range want {
		if awarded[i] != want[i] {
			t.Errorf("win %d: awarded %d points, want %d", i+1, awarded[i], want[i])
		}
	}
	if matchesPlayed != 3 {
		t.Errorf("matches_played should reach 3 even past the quota, got %d", matchesPlayed)
	}
}

func TestTeammateOf(t *testing.T) {
	userA := "user-a"
	userB := "user-b"
	userC := "user-c"
	guest := "Guest Gaston"

	participants := []models.MatchParticipant{
		{ID: "mp-1", ParticipantType: models.ParticipantTypeUser, UserID: &userA, TeamID: "t1"},
		{ID: "mp-2", ParticipantType: models.ParticipantTypeUser, UserID: &userB, TeamID: "t1"},
		{ID: "mp-3", ParticipantType: models.ParticipantTypeUser, UserID: &userC, TeamID: "t2"},
		{ID: "mp-4", ParticipantType: models.ParticipantTypeGuest, GuestName: &guest, TeamID: "t2"},
	}

	if partner, ok := teammateOf(participants, participants[0]); !ok || partner != userB {
		t.Errorf("expected user-a's partner to be user-b, got %q ok=%v", partner, ok)
	}

	// A guest partner yields no pair, so the diversity bonus can never trigger.
	if partner, ok := teammateOf(participants, participants[2]); ok {
		t.Errorf("expected no user partner for user-c, got %q", partner)
	}
}
