package mdp

// Policy is a finite ordered sequence of layers, each of length S, applied
// cyclically: Action(x, t) = Layers[t % len(Layers)][x]. A stationary policy
// has exactly one layer. The zero value, Policy{}, is the tagged
// "not converged, no policy available" variant (SPEC_FULL.md §9) — callers
// must check Empty() before calling Action.
type Policy struct {
	Layers [][]int
}

// NewStationary builds a single-layer policy from a per-state action
// assignment.
func NewStationary(actions []int) Policy {
	return Policy{Layers: [][]int{actions}}
}

// Empty reports whether this is the not-converged tagged variant.
func (p Policy) Empty() bool { return len(p.Layers) == 0 }

// Action returns the action this policy prescribes for state at time t. It
// panics if the policy is empty — callers own the responsibility of
// checking Empty() first, since an empty policy is a distinct, checkable
// condition rather than a silently-wrong action choice.
func (p Policy) Action(state, t int) int {
	if p.Empty() {
		panic("mdp: Action called on an empty (not-converged) policy")
	}
	layer := p.Layers[t%len(p.Layers)]
	return layer[state]
}

// Equal reports whether p and other prescribe the same action at every
// state under the matching layer index, modulo cycle length. Two stationary
// policies are Equal iff their per-state action assignments match.
func (p Policy) Equal(other Policy) bool {
	if len(p.Layers) != len(other.Layers) {
		return false
	}
	for i, layer := range p.Layers {
		o := other.Layers[i]
		if len(layer) != len(o) {
			return false
		}
		for x, a := range layer {
			if o[x] != a {
				return false
			}
		}
	}
	return true
}
