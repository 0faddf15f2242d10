package auth

import "testing"

func TestAccessLevelRanks(t *testing.T) {
	if !(AccessReadOnly.Rank() < AccessCreator.Rank()) {
		t.Fatalf("expected read-only < creator, got %d and %d", AccessReadOnly.Rank(), AccessCreator.Rank())
	}
	if AccessLevel("owner").Rank() != 0 {
		t.Fatalf("unknown level must rank 0")
	}
	if AccessLevel("owner").Known() {
		t.Fatalf("unknown level reported as known")
	}
}

func TestAccessLevelAllows(t *testing.T) {
	cases := []struct {
		held, required AccessLevel
		want           bool
	}{
		{AccessReadOnly, AccessReadOnly, true},
		{AccessReadOnly, AccessCreator, false},
		{AccessCreator, AccessReadOnly, true},
		{AccessCreator, AccessCreator, true},
		{AccessLevel("owner"), AccessReadOnly, false},
		{AccessCreator, AccessLevel("owner"), false},
		{AccessLevel(""), AccessReadOnly, false},
	}
	for _, c := range cases {
		if got := c.held.Allows(c.required); got != c.want {
			t.Fatalf("%q.Allows(%q) = %v, want %v", c.held, c.required, got, c.want)
		}
	}
}

func TestLevelsOrderedByRank(t *testing.T) {
	levels := Levels()
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].Rank() >= levels[i].Rank() {
			t.Fatalf("levels not ordered by rank: %v", levels)
		}
	}
}
