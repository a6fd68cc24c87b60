// Package confidence implements the UCRL2 confidence region (the "Extended
// MDP"): estimated reward/transition statistics plus the L1/L-infinity
// confidence radii derived from visit counts, per SPEC_FULL.md §4.3.
package confidence

import (
	"math"

	"github.com/asmuth-labs/ucrl2/tensor"
)

// Error is this package's error type for its one failure mode: an invalid t
// or delta passed to Update. Unlike mdp.Error it carries no Kind, only a
// message.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "confidence: " + e.Msg }

// ErrInvalidArgument is returned by Update when t <= 0 or delta <= 0.
var ErrInvalidArgument = &Error{Msg: "invalid argument"}

// Is lets errors.Is(err, ErrInvalidArgument) match regardless of message.
func (e *Error) Is(target error) bool {
	_, ok := target.(*Error)
	return ok
}

// Region holds the estimated reward and transition statistics and their
// confidence radii for every (state, action) pair, refreshed in place by
// Update so no per-episode allocation is needed.
type Region struct {
	numStates, numActions int

	RHat  tensor.Dense2 // estimated reward
	BetaR tensor.Dense2 // reward confidence radius
	PHat  tensor.Dense3 // estimated next-state distribution
	BetaP tensor.Dense2 // transition-mass confidence radius
}

// New allocates a zeroed confidence region for numStates states and
// numActions actions.
func New(numStates, numActions int) *Region {
	return &Region{
		numStates:  numStates,
		numActions: numActions,
		RHat:       tensor.NewDense2(numStates, numActions),
		BetaR:      tensor.NewDense2(numStates, numActions),
		PHat:       tensor.NewDense3(numStates, numActions, numStates),
		BetaP:      tensor.NewDense2(numStates, numActions),
	}
}

// Update refreshes every (x,a) statistic in place from the observed counts:
//
//	n            = max(1, visits[x][a])
//	RHat[x][a]   = rewardSums[x][a] / n
//	PHat[x][a][y]= transitionCounts[x][a][y] / n   (uniform 1/S if visits==0)
//	BetaR[x][a]  = sqrt(3.5 * ln(2*S*A*t/delta) / n)
//	BetaP[x][a]  = sqrt(14  * ln(2*A*t/delta)   / n)
//
// legalActions restricts which (x,a) pairs are refreshed; entries for
// illegal actions are left at their previous (zero, on first call) value.
// Returns confidence.ErrInvalidArgument if t <= 0 or delta <= 0.
func (r *Region) Update(legalActions [][]int, visits, rewardSums tensor.Dense2, transitionCounts tensor.Dense3, t int, delta float64) error {
	if t <= 0 {
		return &Error{Msg: "t must be positive"}
	}
	if delta <= 0 {
		return &Error{Msg: "delta must be positive"}
	}

	S, A := r.numStates, r.numActions
	logRewardTerm := math.Log(2 * float64(S) * float64(A) * float64(t) / delta)
	logTransitionTerm := math.Log(2 * float64(A) * float64(t) / delta)

	for x, acts := range legalActions {
		for _, a := range acts {
			n := visits.At(x, a)
			if n < 1 {
				n = 1
			}

			r.RHat.Set(x, a, rewardSums.At(x, a)/n)
			r.BetaR.Set(x, a, math.Sqrt(3.5*logRewardTerm/n))
			r.BetaP.Set(x, a, math.Sqrt(14*logTransitionTerm/n))

			row := r.PHat.Row(x, a)
			if visits.At(x, a) > 0 {
				counts := transitionCounts.Row(x, a)
				for y := range row {
					row[y] = counts[y] / n
				}
			} else {
				uniform := 1.0 / float64(S)
				for y := range row {
					row[y] = uniform
				}
			}
		}
	}
	return nil
}

// NumStates returns S.
func (r *Region) NumStates() int { return r.numStates }

// NumActions returns A.
func (r *Region) NumActions() int { return r.numActions }

// OptimistReward returns the optimistic reward estimate RHat[x][a] +
// BetaR[x][a] used as the immediate-reward term of Extended Value
// Iteration's Bellman backup.
func (r *Region) OptimistReward(x, a int) float64 {
	return r.RHat.At(x, a) + r.BetaR.At(x, a)
}
