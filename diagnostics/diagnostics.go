// Package diagnostics implements the auxiliary routines tightly coupled to
// value iteration and UCRL2: invariant-measure computation via a
// reward-redirection trick, gap-regret decomposition, performance replay,
// and locating the first episode whose policy diverged from a reference.
// See SPEC_FULL.md §4.8.
package diagnostics

import (
	"errors"
	"math"

	"github.com/asmuth-labs/ucrl2/confidence"
	"github.com/asmuth-labs/ucrl2/mdp"
	"github.com/asmuth-labs/ucrl2/tensor"
	"github.com/asmuth-labs/ucrl2/vi"
)

// subPlanner restricts a base Planner's legal actions and overrides its
// reward tensor while sharing its transition kernel by reference — the
// reward-redirection trick InvariantMeasure needs, without copying the
// S-by-A-by-S transition tensor.
type subPlanner struct {
	base         mdp.Planner
	legalActions [][]int
	rewards      tensor.Dense2
}

func (s *subPlanner) LegalActions(x int) []int {
	return s.legalActions[x]
}
func (s *subPlanner) NumStates() int { return s.base.NumStates() }
func (s *subPlanner) NumActions() int { return s.base.NumActions() }
func (s *subPlanner) Reward(x, a int) float64 { return s.rewards.At(x, a) }
func (s *subPlanner) TransitionRow(x, a int) []float64 {
	return s.base.TransitionRow(x, a)
}

// InvariantMeasure computes the stationary distribution of the Markov chain
// induced by policy on m, one state at a time: for each x0, build a
// single-action sub-MDP restricted to policy's actions with a unit reward
// placed only at (x0, policy(x0)), and run VI on it — the resulting gain is
// the invariant-measure mass at x0 (reward-redirection trick, SPEC_FULL.md
// §4.8). A vi.ErrNotConverged sub-solve is tolerated; its best-effort gain
// is used as-is.
func InvariantMeasure(m mdp.Planner, policy mdp.Policy) ([]float64, error) {
	n := m.NumStates()
	a := m.NumActions()

	legalActions := make([][]int, n)
	for y := 0; y < n; y++ {
		legalActions[y] = []int{policy.Action(y, 0)}
	}

	mu := make([]float64, n)
	for x0 := 0; x0 < n; x0++ {
		rewards := tensor.NewDense2(n, a)
		rewards.Set(x0, policy.Action(x0, 0), 1.0)

		sub := &subPlanner{base: m, legalActions: legalActions, rewards: rewards}
		result, err := vi.Run(sub, 1_000_000, 1e-6)
		if err != nil && !errors.Is(err, vi.ErrNotConverged) {
			return nil, err
		}
		mu[x0] = result.Gain
	}
	return mu, nil
}

// InvariantMeasureEstimate plays policy on agent's MDP for steps steps and
// returns the empirical visit frequency of every state — the simulation
// counterpart to InvariantMeasure, which should agree with it as steps
// grows.
func InvariantMeasureEstimate(agent *mdp.Agent, steps int) ([]float64, error) {
	n := agent.MDP.NumStates()
	freq := make([]float64, n)
	for i := 0; i < steps; i++ {
		if _, err := agent.StepPolicy(); err != nil {
			return nil, err
		}
		freq[agent.MDP.State()]++
	}
	for i := range freq {
		freq[i] /= float64(steps)
	}
	return freq, nil
}

// GapRegret computes the Bellman-gap decomposition
//
//	Delta(x,a) = (g - R(x,a)) + (h[x] - sum_y P(x,a,y)*h[y])
//
// for every legal (x,a), given the gain g and bias h VI computed on m. For
// the VI-optimal policy, Delta(x, pi*(x)) == 0 at every x.
func GapRegret(m mdp.Planner, g float64, h []float64) tensor.Dense2 {
	n := m.NumStates()
	out := tensor.NewDense2(n, m.NumActions())
	for x := 0; x < n; x++ {
		for _, a := range m.LegalActions(x) {
			expected := 0.0
			for y, p := range m.TransitionRow(x, a) {
				expected += p * h[y]
			}
			out.Set(x, a, (g-m.Reward(x, a))+(h[x]-expected))
		}
	}
	return out
}

// PerformanceReplay rebuilds the confidence region step by step from a
// recorded event trace, and at each step solves Extended Value Iteration
// twice: once over the full legal-action set (the unrestricted optimist,
// gOpt) and once restricted to restrictedPolicy's single action per state
// (gRestricted). The two series show how fast a suboptimal restricted
// policy's achievable gain diverges from the optimist's.
func PerformanceReplay(events mdp.History, legalActions [][]int, numActions int, restrictedPolicy mdp.Policy, delta float64) (gOpt, gRestricted []float64, err error) {
	numStates := len(legalActions)

	restrictedLegal := make([][]int, numStates)
	for x := 0; x < numStates; x++ {
		restrictedLegal[x] = []int{restrictedPolicy.Action(x, 0)}
	}
	fullLegalAt := func(x int) []int { return legalActions[x] }
	restrictedLegalAt := func(x int) []int { return restrictedLegal[x] }

	visits := tensor.NewDense2(numStates, numActions)
	rewardSums := tensor.NewDense2(numStates, numActions)
	transitionCounts := tensor.NewDense3(numStates, numActions, numStates)
	region := confidence.New(numStates, numActions)

	gOpt = make([]float64, 0, len(events))
	gRestricted = make([]float64, 0, len(events))

	for i, e := range events {
		visits.Add(e.X, e.A, 1)
		rewardSums.Add(e.X, e.A, e.R)
		transitionCounts.Add(e.X, e.A, e.Y, 1)

		t := i + 1
		if err := region.Update(legalActions, visits, rewardSums, transitionCounts, t, delta); err != nil {
			return nil, nil, err
		}
		epsEVI := 1 / math.Sqrt(float64(t))

		fullResult, fullErr := vi.RunExtended(region, fullLegalAt, 1000, epsEVI)
		if fullErr != nil && !errors.Is(fullErr, vi.ErrNotConverged) {
			return nil, nil, fullErr
		}
		gOpt = append(gOpt, fullResult.Gain)

		restrictedResult, restrictedErr := vi.RunExtended(region, restrictedLegalAt, 1000, epsEVI)
		if restrictedErr != nil && !errors.Is(restrictedErr, vi.ErrNotConverged) {
			return nil, nil, restrictedErr
		}
		gRestricted = append(gRestricted, restrictedResult.Gain)
	}
	return gOpt, gRestricted, nil
}

// FindBadEpisode returns the index of the first episode in episodes whose
// StartTime is at least minStart and whose policy differs from reference;
// -1 if none (0 is a valid slice index in Go, so it cannot double as the
// not-found sentinel the way it does in the original 1-based notation).
func FindBadEpisode(episodes mdp.EpisodeHistory, minStart int, reference mdp.Policy) int {
	for i, ep := range episodes {
		if ep.StartTime < minStart {
			continue
		}
		if !ep.Policy.Equal(reference) {
			return i
		}
	}
	return -1
}
