package services

import "testing"

func TestXPForNextLevel(t *testing.T) {
	if got := xpForNextLevel(1); got != 100 {
		t.Errorf("level 1 should need 100 XP for the next level, got %d", got)
	}
	if got := xpForNextLevel(0); got != 100 {
		t.Errorf("levels below 1 clamp to level 1, got %d", got)
	}

	// The curve is strictly increasing.
	prev := xpForNextLevel(1)
	for level := 2; level <= 100; level++ {
		cur := xpForNextLevel(level)
		if cur <= prev {
			t.Fatalf("xpForNextLevel(%d)=%d is not above xpForNextLevel(%d)=%d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

func TestDetermineRank(t *testing.T) {
	tests := []struct {
		level int
		rank  int
	}{
		{1, 1},
		{9, 1},
		{10, 2},
		{24, 2},
		{25, 3},
		{50, 4},
		{74, 4},
		{75, 5},
		{100, 6},
		{250, 6},
	}
	for _, tt := range tests {
		if got := determineRank(tt.level); got != tt.rank {
			t.Errorf("determineRank(%d) = %d, want %d", tt.level, got, tt.rank)
		}
	}
}
