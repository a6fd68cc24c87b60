// Package mdp implements the tabular Markov decision process model: dense
// transition/reward tensors, Bernoulli-reward sampling, and the Policy/Agent
// pair that drives a policy through an MDP. See SPEC_FULL.md §4.1-4.2.
package mdp

import (
	"math/rand"

	"github.com/asmuth-labs/ucrl2/tensor"
)

// Sampler is the capability a learning agent gets: it may query legal
// actions and advance the chain, but never inspect the transition kernel or
// reward chances directly. ucrl2.Driver only ever sees a Sampler.
type Sampler interface {
	LegalActions(x int) []int
	Step(a int) (float64, error)
	RandomLegalAction() int
	State() int
	Time() int
	NumStates() int
	NumActions() int
}

// Planner is the capability value iteration needs: legal actions plus read
// access to the reward and transition tensors. *OfflineMDP implements both
// Sampler and Planner; Planner itself does not require sampling (the
// diagnostics package's sub-MDPs implement it over a borrowed kernel).
type Planner interface {
	LegalActions(x int) []int
	NumStates() int
	NumActions() int
	Reward(x, a int) float64
	TransitionRow(x, a int) []float64
}

// MDP is a tabular, Bernoulli-reward Markov decision process with hidden
// transition and reward tensors — the view handed to a learning algorithm
// that must estimate them from interaction.
type MDP struct {
	legalActions []int // flattened per-state slices, see legalStart/legalLen
	legalStart   []int
	legalLen     []int
	p            tensor.Dense3
	r            tensor.Dense2
	discount     float64 // scales sampled rewards only; package vi never reads it

	numStates, numActions int

	state        int
	t            int
	totalReward  float64
	maxRewardAtT float64
	rng          *rand.Rand
}

// NewMDP constructs an MDP from dense tensors. legalActions[x] need not
// contain every action in [0, numActions); numActions must be declared
// explicitly (the "action-space width" design note, SPEC_FULL.md §9) rather
// than derived, since legalActions rows may be narrower than the declared
// width. discount must be in (0, 1]; seed seeds this MDP's own PRNG stream
// so runs are independently reproducible.
func NewMDP(legalActions [][]int, p tensor.Dense3, r tensor.Dense2, numActions int, discount float64, seed int64) (*MDP, error) {
	numStates := len(legalActions)
	if numStates == 0 {
		return nil, invalidArgument("legalActions must have at least one state")
	}
	if p.D0 != numStates || p.D1 != numActions || p.D2 != numStates {
		return nil, invalidArgument("transition tensor shape (%d,%d,%d) does not match (%d,%d,%d)", p.D0, p.D1, p.D2, numStates, numActions, numStates)
	}
	if r.Rows != numStates || r.Cols != numActions {
		return nil, invalidArgument("reward tensor shape (%d,%d) does not match (%d,%d)", r.Rows, r.Cols, numStates, numActions)
	}
	if discount <= 0 || discount > 1 {
		return nil, invalidArgument("discount must be in (0,1], got %v", discount)
	}

	flat := make([]int, 0, numStates*numActions)
	start := make([]int, numStates)
	length := make([]int, numStates)
	for x, acts := range legalActions {
		start[x] = len(flat)
		length[x] = len(acts)
		for _, a := range acts {
			if a < 0 || a >= numActions {
				return nil, invalidArgument("legal action %d at state %d out of range [0,%d)", a, x, numActions)
			}
			flat = append(flat, a)
		}
	}

	return &MDP{
		legalActions: flat,
		legalStart:   start,
		legalLen:     length,
		p:            p,
		r:            r,
		discount:     discount,
		numStates:    numStates,
		numActions:   numActions,
		state:        0,
		t:            0,
		maxRewardAtT: 1.0,
		rng:          rand.New(rand.NewSource(seed)),
	}, nil
}

// LegalActions returns the ordered legal action indices for state x.
func (m *MDP) LegalActions(x int) []int {
	return m.legalActions[m.legalStart[x] : m.legalStart[x]+m.legalLen[x]]
}

// State returns the current state.
func (m *MDP) State() int { return m.state }

// Time returns the number of steps taken so far.
func (m *MDP) Time() int { return m.t }

// NumStates returns S.
func (m *MDP) NumStates() int { return m.numStates }

// NumActions returns the declared action-space width A.
func (m *MDP) NumActions() int { return m.numActions }

// TotalReward returns the cumulative sampled reward since construction.
func (m *MDP) TotalReward() float64 { return m.totalReward }

// SetState forcibly repositions the chain, bypassing Step's transition
// sampling. Used only to resume a Sampler from a previously recorded
// History (ucrl2.Driver's context replay) — never called mid-episode during
// ordinary play.
func (m *MDP) SetState(x int) { m.state = x }

func (m *MDP) isLegal(a int) bool {
	for _, la := range m.LegalActions(m.state) {
		if la == a {
			return true
		}
	}
	return false
}

// Step samples one transition under action a from the current state: first
// the next state y from P(state, a, ·), then independently a Bernoulli
// success from R(state, a), in that fixed order so replay is reproducible
// given the same seed. It updates state, increments t, accumulates the
// discounted reward, and returns the sampled reward. Returns
// mdp.ErrIllegalAction if a is not legal from the current state.
func (m *MDP) Step(a int) (float64, error) {
	if !m.isLegal(a) {
		return 0, illegalAction("action %d is not legal from state %d", a, m.state)
	}

	m.t++

	row := m.p.Row(m.state, a)
	y := sampleDiscrete(m.rng, row)

	success := m.rng.Float64() <= m.r.At(m.state, a)
	reward := 0.0
	if success {
		reward = m.maxRewardAtT
	}

	m.totalReward += reward
	m.maxRewardAtT *= m.discount
	m.state = y

	return reward, nil
}

// RandomLegalAction draws a uniformly random legal action from the current
// state using this MDP's own PRNG stream, never a package-level generator.
func (m *MDP) RandomLegalAction() int {
	legal := m.LegalActions(m.state)
	return legal[m.rng.Intn(len(legal))]
}

// sampleDiscrete draws an index from a categorical distribution given as a
// row of probabilities, in index order (stable, reproducible given a seeded
// rng). Falls back to the last index if rounding leaves a residual.
func sampleDiscrete(rng *rand.Rand, probs []float64) int {
	v := rng.Float64()
	cumulative := 0.0
	last := len(probs) - 1
	for i, p := range probs {
		cumulative += p
		if v <= cumulative {
			return i
		}
		last = i
	}
	return last
}

// OfflineMDP additionally exposes the transition kernel and reward tensor
// for planning. Constructed the same way as MDP, with the same sampling
// behavior, but also implements Planner.
type OfflineMDP struct {
	*MDP
}

// NewOfflineMDP builds an OfflineMDP with the same validation as NewMDP.
func NewOfflineMDP(legalActions [][]int, p tensor.Dense3, r tensor.Dense2, numActions int, discount float64, seed int64) (*OfflineMDP, error) {
	m, err := NewMDP(legalActions, p, r, numActions, discount, seed)
	if err != nil {
		return nil, err
	}
	return &OfflineMDP{MDP: m}, nil
}

// Reward returns R(x, a), the Bernoulli success chance.
func (m *OfflineMDP) Reward(x, a int) float64 { return m.r.At(x, a) }

// TransitionRow returns P(x, a, ·) aliasing the backing tensor; callers must
// not mutate it.
func (m *OfflineMDP) TransitionRow(x, a int) []float64 { return m.p.Row(x, a) }

// TransitionChance is the checked boundary API for a single (x, a, y) query,
// returning mdp.ErrInvalidArgument on an out-of-range index instead of
// panicking — unlike TransitionRow, which is the unchecked hot path vi uses.
func (m *OfflineMDP) TransitionChance(x, a, y int) (float64, error) {
	if x < 0 || x >= m.numStates || y < 0 || y >= m.numStates || a < 0 || a >= m.numActions {
		return 0, invalidArgument("transition query (x=%d,a=%d,y=%d) out of range", x, a, y)
	}
	return m.p.At(x, a, y), nil
}

// RewardTensor returns the full S-by-A reward tensor, aliasing the backing
// array.
func (m *OfflineMDP) RewardTensor() tensor.Dense2 { return m.r }

// TransitionTensor returns the full S-by-A-by-S transition kernel, aliasing
// the backing array.
func (m *OfflineMDP) TransitionTensor() tensor.Dense3 { return m.p }
