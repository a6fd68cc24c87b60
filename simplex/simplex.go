// Package simplex solves the L1-constrained inner maximization that drives
// optimism under uncertainty in Extended Value Iteration: given a base
// distribution, a linear utility, and an L1 slack, find the feasible
// distribution on the simplex maximizing expected utility. See SPEC_FULL.md
// §4.4.
package simplex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// roundPlaces is the number of decimal places the output distribution is
// rounded to. This is a stability hack against floating-point drift that is
// load-bearing for Extended Value Iteration's span-based termination: an
// unrounded q can oscillate in the last few bits across iterations and never
// let the span test converge. Preserved verbatim from the source algorithm.
const roundPlaces = 5

// Optimize solves:
//
//	maximize   <q, u>
//	subject to ||q - p||_1 <= eps,  sum(q) = 1,  0 <= q[i] <= 1
//
// and returns the optimal q together with <q, u>. p must already be a valid
// distribution (entries in [0,1] summing to 1); eps must be >= 0.
//
// The feasible set is a polytope and u is linear, so the greedy
// water-filling algorithm below attains the true optimum: in utility order,
// move mass from the lowest-utility coordinates with room to give toward the
// highest-utility coordinates with room to grow, until the L1 budget is
// exhausted.
func Optimize(p, u []float64, eps float64) ([]float64, float64) {
	n := len(p)

	sigma := make([]int, n)
	for i := range sigma {
		sigma[i] = i
	}
	sort.SliceStable(sigma, func(a, b int) bool {
		return u[sigma[a]] > u[sigma[b]]
	})

	q := make([]float64, n)
	copy(q, p)

	i, j := 0, n-1
	for i < j {
		hi, lo := sigma[i], sigma[j]
		halfEps := eps / 2
		room := 1 - q[hi]
		mass := q[lo]

		m := halfEps
		if room < m {
			m = room
		}
		if mass < m {
			m = mass
		}

		q[hi] += m
		q[lo] -= m
		eps -= 2 * m

		if m == halfEps {
			// No slack left to redistribute.
			break
		}

		hitUpper := m == room
		hitLower := m == mass
		if hitUpper {
			i++
		}
		if hitLower {
			j--
		}
	}

	q = roundVector(q)
	return q, floats.Dot(q, u)
}

func roundVector(v []float64) []float64 {
	scale := math.Pow10(roundPlaces)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Round(x*scale) / scale
	}
	return out
}
