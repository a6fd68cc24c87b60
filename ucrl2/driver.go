// Package ucrl2 implements the UCRL2 episodic online control loop (C7): it
// estimates an MDP from interaction, builds a confidence region each
// episode, solves Extended Value Iteration over it, and plays the resulting
// policy under the doubling-visits stopping rule until a step or episode
// budget is exhausted. See SPEC_FULL.md §4.7.
package ucrl2

import (
	"errors"
	"math"

	"github.com/asmuth-labs/ucrl2/confidence"
	"github.com/asmuth-labs/ucrl2/mdp"
	"github.com/asmuth-labs/ucrl2/tensor"
	"github.com/asmuth-labs/ucrl2/vi"
)

// eviMaxSteps bounds the Extended Value Iteration solved once per episode.
const eviMaxSteps = 1000

// EpisodeReport is handed to an optional OnEpisode hook after each episode's
// EVI solve, before that episode is played. reporting.EpisodePrinter
// consumes these to render colored console summaries.
type EpisodeReport struct {
	Episode       int
	StartTime     int
	Result        vi.Result
	Converged     bool
	EVIIterations int
}

// Driver runs the UCRL2 loop over an mdp.Sampler. Its per-(x,a) statistics
// tensors are allocated once at construction and mutated in place for the
// life of the driver, matching the single-allocation-per-run resource model
// in SPEC_FULL.md §4.7.
type Driver struct {
	m                     mdp.Sampler
	numStates, numActions int
	delta                 float64
	tMax, kMax            int

	legalActions [][]int

	nBefore, nDuring tensor.Dense2
	rBefore, rDuring tensor.Dense2
	tBefore, tDuring tensor.Dense3

	region *confidence.Region

	t, k  int
	state int

	history  mdp.History
	episodes mdp.EpisodeHistory

	// OnEpisode, if set, is called once per episode right after EVI is
	// solved and before the episode is played out.
	OnEpisode func(EpisodeReport)
}

// NewDriver builds a driver over m, an MDP with numStates states and
// numActions declared actions. delta is UCRL2's confidence parameter,
// in (0,1). tMax and kMax are step and episode budgets; 0 means unlimited.
// context, if non-empty, seeds the during-episode statistics and resumes
// play from its last recorded next-state.
func NewDriver(m mdp.Sampler, numStates, numActions int, delta float64, tMax, kMax int, context mdp.History) (*Driver, error) {
	if numStates <= 0 || numActions <= 0 {
		return nil, invalidArgument("numStates and numActions must be positive, got (%d,%d)", numStates, numActions)
	}
	if delta <= 0 || delta >= 1 {
		return nil, invalidArgument("delta must be in (0,1), got %v", delta)
	}

	legalActions := make([][]int, numStates)
	for x := 0; x < numStates; x++ {
		acts := m.LegalActions(x)
		cp := make([]int, len(acts))
		copy(cp, acts)
		legalActions[x] = cp
	}

	d := &Driver{
		m:            m,
		numStates:    numStates,
		numActions:   numActions,
		delta:        delta,
		tMax:         tMax,
		kMax:         kMax,
		legalActions: legalActions,
		nBefore:      tensor.NewDense2(numStates, numActions),
		nDuring:      tensor.NewDense2(numStates, numActions),
		rBefore:      tensor.NewDense2(numStates, numActions),
		rDuring:      tensor.NewDense2(numStates, numActions),
		tBefore:      tensor.NewDense3(numStates, numActions, numStates),
		tDuring:      tensor.NewDense3(numStates, numActions, numStates),
		region:       confidence.New(numStates, numActions),
	}
	d.replayContext(context)
	return d, nil
}

func (d *Driver) replayContext(context mdp.History) {
	for _, e := range context {
		d.nDuring.Add(e.X, e.A, 1)
		d.rDuring.Add(e.X, e.A, e.R)
		d.tDuring.Add(e.X, e.A, e.Y, 1)
	}
	d.t = len(context) + 1

	if len(context) == 0 {
		d.state = d.m.State()
		return
	}
	last := context[len(context)-1]
	d.state = last.Y
	if setter, ok := d.m.(interface{ SetState(int) }); ok {
		setter.SetState(last.Y)
	}
}

func (d *Driver) legalActionsAt(x int) []int { return d.legalActions[x] }

// Run executes episodes until the step or episode budget is exhausted,
// returning the full event History and EpisodeHistory recorded along the
// way. A hard error (an invalid confidence-region refresh, or a sampling
// failure) stops the loop immediately and returns what was recorded so far
// alongside the error. vi.ErrNotConverged from a per-episode EVI solve is
// not such an error — the driver proceeds with the best-effort policy.
func (d *Driver) Run() (mdp.History, mdp.EpisodeHistory, error) {
	for {
		d.k++

		d.nBefore.AddFrom(d.nDuring)
		d.rBefore.AddFrom(d.rDuring)
		d.tBefore.AddFrom(d.tDuring)
		d.nDuring.Reset()
		d.rDuring.Reset()
		d.tDuring.Reset()

		tEpisodeStart := d.t
		if err := d.region.Update(d.legalActions, d.nBefore, d.rBefore, d.tBefore, tEpisodeStart, d.delta); err != nil {
			return d.history, d.episodes, err
		}

		epsEVI := 1 / math.Sqrt(float64(tEpisodeStart))
		result, err := vi.RunExtended(d.region, d.legalActionsAt, eviMaxSteps, epsEVI)
		converged := true
		if err != nil {
			if !errors.Is(err, vi.ErrNotConverged) {
				return d.history, d.episodes, err
			}
			converged = false
		}

		if d.OnEpisode != nil {
			d.OnEpisode(EpisodeReport{
				Episode:   d.k,
				StartTime: tEpisodeStart,
				Result:    result,
				Converged: converged,
			})
		}

		policyK := result.Policy
		d.episodes = append(d.episodes, mdp.EpisodeStart{StartTime: tEpisodeStart, Policy: policyK})

		if err := d.playEpisode(policyK); err != nil {
			return d.history, d.episodes, err
		}

		if (d.tMax != 0 && d.t == d.tMax) || (d.kMax != 0 && d.k == d.kMax) {
			return d.history, d.episodes, nil
		}
	}
}

// playEpisode plays policyK until the doubling-visits stopping rule fires:
// some (state, action) visited this episode matches its before-episode
// total, or the global step budget is hit.
func (d *Driver) playEpisode(policyK mdp.Policy) error {
	for {
		a := policyK.Action(d.state, 0)

		threshold := d.nBefore.At(d.state, a)
		if threshold < 1 {
			threshold = 1
		}
		if d.nDuring.At(d.state, a) >= threshold {
			return nil
		}

		x := d.state
		r, err := d.m.Step(a)
		if err != nil {
			return err
		}
		y := d.m.State()

		d.nDuring.Add(x, a, 1)
		d.rDuring.Add(x, a, r)
		d.tDuring.Add(x, a, y, 1)
		d.history = append(d.history, mdp.Event{X: x, A: a, Y: y, R: r})

		d.state = y
		d.t++

		if d.tMax != 0 && d.t == d.tMax {
			return nil
		}
	}
}
