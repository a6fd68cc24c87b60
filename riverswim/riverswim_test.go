package riverswim

import (
	"math"
	"testing"
)

func rowSum(row []float64) float64 {
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	return sum
}

func TestBuildTransitionRowsAreStochastic(t *testing.T) {
	cfg := Config{States: 5, ProgressChance: 0.35, BackflowChance: 0.05}
	legalActions, p, _ := Build(cfg)

	for x, acts := range legalActions {
		for _, a := range acts {
			sum := rowSum(p.Row(x, a))
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("state %d action %d: row sums to %v, want 1", x, a, sum)
			}
		}
	}
}

func TestBuildRewardsAtTheTwoEnds(t *testing.T) {
	cfg := Config{States: 4, ProgressChance: 0.3, BackflowChance: 0.1, LazyReward: 0.05, WinReward: 1.0}
	_, _, r := Build(cfg)

	if got := r.At(0, Left); got != cfg.LazyReward {
		t.Errorf("R(0,LEFT): got %v, want %v", got, cfg.LazyReward)
	}
	if got := r.At(cfg.States-1, Right); got != cfg.WinReward {
		t.Errorf("R(n-1,RIGHT): got %v, want %v", got, cfg.WinReward)
	}
	for x := 0; x < cfg.States; x++ {
		for a := 0; a < NumActions; a++ {
			if x == 0 && a == Left {
				continue
			}
			if x == cfg.States-1 && a == Right {
				continue
			}
			if r.At(x, a) != 0 {
				t.Errorf("R(%d,%d): got %v, want 0", x, a, r.At(x, a))
			}
		}
	}
}

func TestBuildInteriorTransitionShape(t *testing.T) {
	cfg := Config{States: 5, ProgressChance: 0.4, BackflowChance: 0.1}
	_, p, _ := Build(cfg)
	haltChance := 1 - cfg.ProgressChance - cfg.BackflowChance

	x := 2
	if got := p.At(x, Right, x+1); got != cfg.ProgressChance {
		t.Errorf("P(%d,RIGHT,%d): got %v, want %v", x, x+1, got, cfg.ProgressChance)
	}
	if got := p.At(x, Right, x); got != haltChance {
		t.Errorf("P(%d,RIGHT,%d): got %v, want %v", x, x, got, haltChance)
	}
	if got := p.At(x, Right, x-1); got != cfg.BackflowChance {
		t.Errorf("P(%d,RIGHT,%d): got %v, want %v", x, x-1, got, cfg.BackflowChance)
	}
	if got := p.At(x, Left, x-1); got != 1.0 {
		t.Errorf("P(%d,LEFT,%d): got %v, want 1.0", x, x-1, got)
	}
}

func TestNewDefaultsDiscountToOne(t *testing.T) {
	cfg := Config{States: 3, ProgressChance: 0.35, BackflowChance: 0.05, LazyReward: 0.05, WinReward: 1, Seed: 1}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m == nil {
		t.Fatal("New returned a nil MDP")
	}
}

func TestBuildEveryStateHasBothActions(t *testing.T) {
	legalActions, _, _ := Build(Config{States: 6, ProgressChance: 0.3, BackflowChance: 0.1})
	for x, acts := range legalActions {
		if len(acts) != 2 {
			t.Fatalf("state %d: got %d legal actions, want 2", x, len(acts))
		}
	}
}
