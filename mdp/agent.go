package mdp

// Agent pairs a Sampler with a Policy and drives the sampler one step at a
// time. It records nothing itself — callers record what they need
// (diagnostics.InvariantMeasureEstimate counts visits after each step;
// ucrl2.Driver steps its Sampler directly and records its own events).
type Agent struct {
	MDP    Sampler
	Policy Policy
}

// StepPolicy reads the current (state, t) from the MDP, computes the
// prescribed action, and takes it. Returns the sampled reward.
func (a *Agent) StepPolicy() (float64, error) {
	state := a.MDP.State()
	t := a.MDP.Time()
	action := a.Policy.Action(state, t)
	return a.MDP.Step(action)
}

// StepRandom picks a uniformly random legal action from the current state
// and takes it, using the MDP's own PRNG stream rather than a package-level
// generator, so the draw remains reproducible given the MDP's seed.
func (a *Agent) StepRandom() (int, float64, error) {
	action := a.MDP.RandomLegalAction()
	r, err := a.MDP.Step(action)
	return action, r, err
}
