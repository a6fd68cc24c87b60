// Package riverswim constructs the RiverSwim benchmark MDP: a chain of n
// states with two actions, LEFT and RIGHT, a small reward for staying put at
// the left end and a large reward for reaching the right end. It is an
// external collaborator to the core (SPEC_FULL.md §1): the core never
// constructs its own benchmarks, it only consumes the tensors this package
// hands it. The wire contract documented on Build is bit-exact.
package riverswim

import (
	"github.com/asmuth-labs/ucrl2/mdp"
	"github.com/asmuth-labs/ucrl2/tensor"
)

// Action indices for RiverSwim.
const (
	Left = iota
	Right
)

// NumActions is the declared action-space width for every RiverSwim
// instance.
const NumActions = 2

// Config holds the parameters of one RiverSwim instance.
type Config struct {
	States         int     // n
	ProgressChance float64 // pF
	BackflowChance float64 // pB
	LazyReward     float64 // r_lazy, at state 0 under LEFT
	WinReward      float64 // r_win, at state n-1 under RIGHT
	Discount       float64
	Seed           int64
}

// Build constructs the dense (legalActions, P, R) tensors for cfg, bit-exact
// with the original wire contract:
//
//	interior x: P(x,RIGHT,x+1)=pF, P(x,RIGHT,x)=pH, P(x,RIGHT,x-1)=pB; P(x,LEFT,x-1)=1
//	x=0:        P(0,RIGHT,0)=pH,   P(0,RIGHT,1)=pF+pB;                P(0,LEFT,0)=1
//	x=n-1:      P(n-1,RIGHT,n-1)=pF+pH, P(n-1,RIGHT,n-2)=pB;          P(n-1,LEFT,n-2)=1
//	R(0,LEFT)=r_lazy, R(n-1,RIGHT)=r_win, all else 0
//
// where pH = 1 - pF - pB.
func Build(cfg Config) (legalActions [][]int, p tensor.Dense3, r tensor.Dense2) {
	n := cfg.States
	haltChance := 1.0 - cfg.ProgressChance - cfg.BackflowChance

	legalActions = make([][]int, n)
	for x := range legalActions {
		legalActions[x] = []int{Left, Right}
	}

	p = tensor.NewDense3(n, NumActions, n)
	r = tensor.NewDense2(n, NumActions)

	for x := 1; x < n-1; x++ {
		p.Set(x, Right, x+1, cfg.ProgressChance)
		p.Set(x, Right, x, haltChance)
		p.Set(x, Right, x-1, cfg.BackflowChance)
		p.Set(x, Left, x-1, 1.0)
	}

	p.Set(0, Right, 0, haltChance)
	p.Set(0, Right, 1, cfg.ProgressChance+cfg.BackflowChance)
	p.Set(0, Left, 0, 1.0)

	p.Set(n-1, Right, n-1, cfg.ProgressChance+haltChance)
	p.Set(n-1, Right, n-2, cfg.BackflowChance)
	p.Set(n-1, Left, n-2, 1.0)

	r.Set(0, Left, cfg.LazyReward)
	r.Set(n-1, Right, cfg.WinReward)

	return legalActions, p, r
}

// New constructs a ready-to-sample *mdp.OfflineMDP for cfg.
func New(cfg Config) (*mdp.OfflineMDP, error) {
	legalActions, p, r := Build(cfg)
	discount := cfg.Discount
	if discount == 0 {
		discount = 1.0
	}
	return mdp.NewOfflineMDP(legalActions, p, r, NumActions, discount, cfg.Seed)
}
