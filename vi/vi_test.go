package vi

import (
	"errors"
	"math"
	"testing"

	"github.com/asmuth-labs/ucrl2/confidence"
	"github.com/asmuth-labs/ucrl2/mdp"
	"github.com/asmuth-labs/ucrl2/tensor"
)

// singleLoopPlanner is a one-state, one-action chain that always pays reward
// and loops back to itself — the simplest possible fixed point for VI.
type singleLoopPlanner struct {
	reward float64
}

func (p singleLoopPlanner) LegalActions(x int) []int { return []int{0} }
func (p singleLoopPlanner) NumStates() int           { return 1 }
func (p singleLoopPlanner) NumActions() int          { return 1 }
func (p singleLoopPlanner) Reward(x, a int) float64  { return p.reward }
func (p singleLoopPlanner) TransitionRow(x, a int) []float64 {
	return []float64{1}
}

func TestRunConvergesOnSingleStateLoop(t *testing.T) {
	result, err := Run(singleLoopPlanner{reward: 0.7}, 1000, 1e-6)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(result.Gain-0.7) > 1e-6 {
		t.Errorf("Gain: got %v, want 0.7", result.Gain)
	}
	if len(result.Bias) != 1 || result.Bias[0] != 0 {
		t.Errorf("Bias on single state should be normalized to 0: got %v", result.Bias)
	}
}

func TestRunRejectsNonPositiveEps(t *testing.T) {
	_, err := Run(singleLoopPlanner{reward: 1}, 10, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestRunReturnsBestEffortResultOnNotConverged(t *testing.T) {
	// A two-state toggle paying reward only at state 1: the first Bellman
	// residual is (0, 1), so the span can't close in a single iteration.
	legal := [][]int{{0}, {0}}
	pt := tensor.NewDense3(2, 1, 2)
	pt.Set(0, 0, 1, 1)
	pt.Set(1, 0, 0, 1)
	rt := tensor.NewDense2(2, 1)
	rt.Set(1, 0, 1)
	p, err := mdp.NewOfflineMDP(legal, pt, rt, 1, 1.0, 1)
	if err != nil {
		t.Fatalf("NewOfflineMDP: %v", err)
	}
	result, err := Run(p, 1, 1e-9)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("got %v, want ErrNotConverged", err)
	}
	if result.Policy.Empty() {
		t.Error("best-effort Result should still carry a usable policy")
	}
}

// twoStatePlanner alternates a small and a large reward depending on which
// action is taken, with two states that swap into each other under either
// action, to exercise action selection.
type twoStatePlanner struct{}

func (twoStatePlanner) LegalActions(x int) []int { return []int{0, 1} }
func (twoStatePlanner) NumStates() int           { return 2 }
func (twoStatePlanner) NumActions() int          { return 2 }
func (twoStatePlanner) Reward(x, a int) float64 {
	if a == 1 {
		return 1.0
	}
	return 0.0
}
func (twoStatePlanner) TransitionRow(x, a int) []float64 {
	if x == 0 {
		return []float64{0, 1}
	}
	return []float64{1, 0}
}

func TestRunPrefersHigherRewardAction(t *testing.T) {
	result, err := Run(twoStatePlanner{}, 1000, 1e-9)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for x := 0; x < 2; x++ {
		if a := result.Policy.Action(x, 0); a != 1 {
			t.Errorf("state %d: got action %d, want 1 (the higher-reward action)", x, a)
		}
	}
	if math.Abs(result.Gain-1.0) > 1e-6 {
		t.Errorf("Gain: got %v, want 1", result.Gain)
	}
}

func TestRunExtendedOnDeterministicRegionMatchesRun(t *testing.T) {
	// Build a confidence region with zero radius and PHat/RHat equal to the
	// plain MDP above: RunExtended should then agree with Run exactly, since
	// the inner maximization has no slack to exploit.
	region := confidence.New(2, 2)
	region.RHat = tensor.NewDense2(2, 2)
	region.BetaR = tensor.NewDense2(2, 2)
	region.PHat = tensor.NewDense3(2, 2, 2)
	region.BetaP = tensor.NewDense2(2, 2)

	region.RHat.Set(0, 0, 0)
	region.RHat.Set(0, 1, 1)
	region.RHat.Set(1, 0, 0)
	region.RHat.Set(1, 1, 1)

	region.PHat.Set(0, 0, 1, 1)
	region.PHat.Set(0, 1, 1, 1)
	region.PHat.Set(1, 0, 0, 1)
	region.PHat.Set(1, 1, 0, 1)

	legal := func(x int) []int { return []int{0, 1} }

	result, err := RunExtended(region, legal, 1000, 1e-9)
	if err != nil {
		t.Fatalf("RunExtended: %v", err)
	}
	if math.Abs(result.Gain-1.0) > 1e-6 {
		t.Errorf("Gain: got %v, want 1", result.Gain)
	}
}

func TestRunExtendedExploitsOptimismWithinRadius(t *testing.T) {
	region := confidence.New(1, 1)
	region.RHat.Set(0, 0, 0.5)
	region.BetaR.Set(0, 0, 0.1)
	region.PHat.Set(0, 0, 0, 1)
	region.BetaP.Set(0, 0, 0)

	legal := func(x int) []int { return []int{0} }
	result, err := RunExtended(region, legal, 1000, 1e-9)
	if err != nil {
		t.Fatalf("RunExtended: %v", err)
	}
	if math.Abs(result.Gain-0.6) > 1e-6 {
		t.Errorf("Gain: got %v, want 0.6 (RHat+BetaR)", result.Gain)
	}
}
