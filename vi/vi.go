// Package vi implements average-reward Value Iteration (C5) and its
// optimistic counterpart, Extended Value Iteration (C6). Both share one
// Bellman-span loop, parameterized by how the one-step backup computes
// q(x,a); see SPEC_FULL.md §4.5-4.6.
package vi

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/asmuth-labs/ucrl2/confidence"
	"github.com/asmuth-labs/ucrl2/mdp"
	"github.com/asmuth-labs/ucrl2/simplex"
)

// Result is the outcome of a (possibly not-yet-converged) VI/EVI run.
type Result struct {
	Policy mdp.Policy
	Gain   float64
	Bias   []float64
}

// backup runs the shared span-normalized Bellman iteration: repeatedly
// recompute q(x,a) via qFunc, take the best legal action per state, track
// the span of the Bellman residual, and normalize the bias against state 0.
// Terminates when the span falls below eps, or returns a best-effort Result
// with vi.ErrNotConverged when maxSteps is exhausted first.
func backup(numStates int, legalActions func(x int) []int, maxSteps int, eps float64, qFunc func(x, a int, v []float64) float64) (Result, error) {
	if eps <= 0 {
		return Result{}, invalidArgument("eps must be positive, got %v", eps)
	}

	v := make([]float64, numStates)
	w := make([]float64, numStates)
	bestAction := make([]int, numStates)
	var gain float64

	for t := 0; t < maxSteps; t++ {
		for x := 0; x < numStates; x++ {
			acts := legalActions(x)
			maxQ := math.Inf(-1)
			best := acts[0]
			for _, a := range acts {
				q := qFunc(x, a, v)
				if q > maxQ {
					maxQ = q
					best = a
				}
			}
			w[x] = maxQ
			bestAction[x] = best
		}

		deltaMax := math.Inf(-1)
		deltaMin := math.Inf(1)
		for x := 0; x < numStates; x++ {
			d := w[x] - v[x]
			if d > deltaMax {
				deltaMax = d
			}
			if d < deltaMin {
				deltaMin = d
			}
			v[x] = w[x]
		}
		v0 := v[0]
		for x := range v {
			v[x] -= v0
		}

		gain = (deltaMax + deltaMin) / 2

		if deltaMax-deltaMin < eps {
			return result(bestAction, gain, v), nil
		}
	}

	return result(bestAction, gain, v), notConverged("exhausted %d iterations with span >= %v", maxSteps, eps)
}

func result(bestAction []int, gain float64, v []float64) Result {
	policyCopy := make([]int, len(bestAction))
	copy(policyCopy, bestAction)
	bias := make([]float64, len(v))
	copy(bias, v)
	return Result{Policy: mdp.NewStationary(policyCopy), Gain: gain, Bias: bias}
}

// Run solves average-reward Value Iteration on planner: repeatedly apply the
// Bellman backup q(x,a) = R(x,a) + sum_y P(x,a,y)*v[y], selecting the first
// legal action achieving the maximum at each state, until the span of the
// Bellman residual falls below eps or maxSteps is exhausted. Returns
// vi.ErrInvalidArgument if eps <= 0, or vi.ErrNotConverged (with a
// best-effort Result) if the budget runs out first. This is average-reward
// iteration: an MDP's discount is never consulted.
func Run(planner mdp.Planner, maxSteps int, eps float64) (Result, error) {
	numStates := planner.NumStates()
	qFunc := func(x, a int, v []float64) float64 {
		return planner.Reward(x, a) + floats.Dot(planner.TransitionRow(x, a), v)
	}
	return backup(numStates, planner.LegalActions, maxSteps, eps, qFunc)
}

// RunExtended solves Extended Value Iteration over the confidence region:
// the same span-normalized Bellman backup as Run, but with the optimistic
// one-step update
//
//	q(x,a) = region.OptimistReward(x,a) + max_{q' in L1-ball(PHat[x,a],BetaP[x,a])} <q', v>
//
// where the inner maximization is simplex.Optimize. legalActions gives the
// action set to consider at each state (ucrl2 passes the full legal set; the
// restricted performance-replay diagnostic passes a policy-restricted one).
// As with Run, no discount is applied.
func RunExtended(region *confidence.Region, legalActions func(x int) []int, maxSteps int, eps float64) (Result, error) {
	numStates := region.NumStates()
	qFunc := func(x, a int, v []float64) float64 {
		_, innerValue := simplex.Optimize(region.PHat.Row(x, a), v, region.BetaP.At(x, a))
		return region.OptimistReward(x, a) + innerValue
	}
	return backup(numStates, legalActions, maxSteps, eps, qFunc)
}
