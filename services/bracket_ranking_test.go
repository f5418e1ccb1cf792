package services

import (
	"fmt"
	"testing"

	"padel-club-system/models"
)

// finalTourMatch builds one decided tour-4 match. Registration IDs are synthetic:
// the winner takes the lower placement of the pair the match decides.
func finalTourMatch(tableau models.Tableau, round models.RoundKind, winner, loser string) models.BracketMatch {
	w, l := winner, loser
	return models.BracketMatch{
		ID:                   fmt.Sprintf("bm-%s-%s", tableau, round),
		TournamentID:         "tournament-1",
		Tableau:              tableau,
		Tour:                 models.FinalTour,
		Round:                round,
		Registration1ID:      &w,
		Registration2ID:      &l,
		WinnerRegistrationID: &w,
	}
}

func completeFinalTour() []models.BracketMatch {
	return []models.BracketMatch{
		finalTourMatch(models.TableauPrincipal, models.RoundFinal, "team-1", "team-2"),
		finalTourMatch(models.TableauPrincipal, models.RoundClassification, "team-3", "team-4"),
		finalTourMatch(models.TableauPlaces5to8, models.RoundFinal, "team-5", "team-6"),
		finalTourMatch(models.TableauPlaces5to8, models.RoundClassification, "team-7", "team-8"),
		finalTourMatch(models.TableauPlaces9to12, models.RoundFinal, "team-9", "team-10"),
		finalTourMatch(models.TableauPlaces9to12, models.RoundClassification, "team-11", "team-12"),
		finalTourMatch(models.TableauPlaces13to16, models.RoundFinal, "team-13", "team-14"),
		finalTourMatch(models.TableauPlaces13to16, models.RoundClassification, "team-15", "team-16"),
	}
}

func TestComputeFinalRankingOrdersAllSixteenTeams(t *testing.T) {
	// Earlier tours must be ignored even when undecided.
	matches := append(completeFinalTour(), models.BracketMatch{
		ID:      "bm-early",
		Tableau: models.TableauPrincipal,
		Tour:    1,
		Round:   models.RoundEliminatory,
	})

	rankings, err := computeFinalRanking(matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rankings) != models.BracketSize {
		t.Fatalf("expected %d placements, got %d", models.BracketSize, len(rankings))
	}

	for i := 1; i <= models.BracketSize; i++ {
		team := fmt.Sprintf("team-%d", i)
		if rankings[team] != i {
			t.Errorf("expected %s at placement %d, got %d", team, i, rankings[team])
		}
	}
}

func TestComputeFinalRankingUpsetInClassificationMatch(t *testing.T) {
	matches := completeFinalTour()
	// Flip the 7th-place match: team-8 beats team-7.
	matches[3] = finalTourMatch(models.TableauPlaces5to8, models.RoundClassification, "team-8", "team-7")

	rankings, err := computeFinalRanking(matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rankings["team-8"] != 7 || rankings["team-7"] != 8 {
		t.Errorf("expected team-8 at 7 and team-7 at 8, got %d and %d", rankings["team-8"], rankings["team-7"])
	}
}

func TestComputeFinalRankingRejectsUndecidedMatch(t *testing.T) {
	matches := completeFinalTour()
	matches[0].WinnerRegistrationID = nil

	if _, err := computeFinalRanking(matches); err == nil {
		t.Fatal("expected an error for a final-tour match without a winner")
	}
}

func TestComputeFinalRankingRejectsMissingMatches(t *testing.T) {
	matches := completeFinalTour()[:7]

	if _, err := computeFinalRanking(matches); err == nil {
		t.Fatal("expected an error when fewer than 8 final-tour matches exist")
	}
}

func TestComputeFinalRankingRejectsDuplicateRound(t *testing.T) {
	matches := completeFinalTour()
	// Two finals in the principal tableau, one of them replacing its classification match.
	matches[1] = finalTourMatch(models.TableauPrincipal, models.RoundFinal, "team-3", "team-4")

	if _, err := computeFinalRanking(matches); err == nil {
		t.Fatal("expected an error for a duplicated final in one tableau")
	}
}

func TestComputeFinalRankingRejectsConsolationInFinalTour(t *testing.T) {
	matches := completeFinalTour()
	matches[7].Tableau = models.TableauConsolation

	if _, err := computeFinalRanking(matches); err == nil {
		t.Fatal("expected an error for a consolation match tagged as final tour")
	}
}

func TestComputeFinalRankingRejectsForeignWinner(t *testing.T) {
	matches := completeFinalTour()
	outsider := "team-99"
	matches[4].WinnerRegistrationID = &outsider

	if _, err := computeFinalRanking(matches); err == nil {
		t.Fatal("expected an error when the winner is not one of the match's teams")
	}
}

func TestTableauBaseRanks(t *testing.T) {
	tests := []struct {
		tableau models.Tableau
		base    int
		ok      bool
	}{
		{models.TableauPrincipal, 0, true},
		{models.TableauPlaces5to8, 4, true},
		{models.TableauPlaces9to12, 8, true},
		{models.TableauPlaces13to16, 12, true},
		{models.TableauConsolation, 0, false},
	}
	for _, tt := range tests {
		base, ok := tt.tableau.BaseRank()
		if base != tt.base || ok != tt.ok {
			t.Errorf("%s.BaseRank() = (%d, %v), want (%d, %v)", tt.tableau, base, ok, tt.base, tt.ok)
		}
	}
}
