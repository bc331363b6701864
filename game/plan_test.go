package game

import (
	"math/rand/v2"
	"testing"
)

// applyPlan runs reqs directly against sq the way the session would.
func applyPlan(t *testing.T, sq *Square, reqs []Request, maxDepth int) {
	t.Helper()
	for i, r := range reqs {
		n := sq.Root().At(r.Path)
		var ok bool
		switch r.Action {
		case ActionSplit:
			ok = sq.Split(n, maxDepth)
		case ActionMerge:
			ok = sq.Merge(n)
		case ActionFlip:
			ok = sq.Flip(n)
		}
		if !ok {
			t.Fatalf("request %d (%v %v) refused on %q", i, r.Action, r.Path, sq.Key())
		}
	}
}

func TestPlanFromBlank(t *testing.T) {
	player := newTestSquare()
	target := NewSquare("target", 100, TargetPalette, false)
	target.Generate(rand.New(rand.NewPCG(1, 2)), 5, 4)

	applyPlan(t, player, Plan(player.Root(), target.Root()), 4)
	if player.Key() != target.Key() {
		t.Errorf("player %q, want %q", player.Key(), target.Key())
	}
}

func TestPlanCollapsesPlayerFirst(t *testing.T) {
	player := newTestSquare()
	player.Split(player.Root(), 4)
	player.Split(player.Root().Child(0), 4)
	player.Flip(player.Root().At([]int{0, 0}))

	target := newTestSquare()
	reqs := Plan(player.Root(), target.Root())
	if len(reqs) != 3 || reqs[0].Action != ActionMerge || reqs[1].Action != ActionMerge {
		t.Fatalf("plan = %+v, want two merges and a flip", reqs)
	}
	applyPlan(t, player, reqs, 4)
	if player.Key() != "0" {
		t.Errorf("player %q, want %q", player.Key(), "0")
	}
}

func TestPlanRandomPairs(t *testing.T) {
	rng := rand.New(rand.NewPCG(99, 100))
	for i := 0; i < 200; i++ {
		player := NewSquare("player", 100, PlayerPalette, true)
		player.Generate(rng, rng.IntN(8), 4)
		target := NewSquare("target", 100, TargetPalette, false)
		target.Generate(rng, rng.IntN(8), 4)

		applyPlan(t, player, Plan(player.Root(), target.Root()), 4)
		if player.Key() != target.Key() {
			t.Fatalf("pair %d: player %q, want %q", i, player.Key(), target.Key())
		}
	}
}
