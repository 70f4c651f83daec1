/*
=================================================================================
SELF-MODEL / STRANGE-LOOP OBSERVER (C6)
=================================================================================

Grounded on the recursive self-observation pattern in
other_examples/62f2dc1f_..._autonomous_orchestrator.go and
other_examples/1d560181_..._autonomous_v4.go: a bounded stack of
"observing the observer" passes, each one a deterministic transform of
the previous level plus a slowly updated self-model running average,
checked afterward for the kind of fixed-point recurrence ("strange
loop") those sources treat as a signal of stable self-reference.
=================================================================================
*/

package selfmodel

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

const defaultLoopThreshold = 0.85

var insights = []string{
	"this cycle resembles a prior one",
	"the observer is stable under its own observation",
	"attention has folded back onto itself",
	"no new structure found at this depth",
	"the self-model has converged",
	"recursive observation reached a fixed point",
}

// Observation is one level of the observation stack.
type Observation struct {
	Depth int
	State types.Vector
}

// Result is what observe(state, depth) returns.
type Result struct {
	Levels       []Observation
	LoopDetected bool
	SelfReference float64
	Insight      string
}

// Observer is C6: a bounded-depth self-observation stack with an
// EMA-tracked self-model vector blended into every transform.
type Observer struct {
	maxDepth      int
	loopThreshold float64
	alpha         float64
	selfModel     types.Vector
	seeded        bool
}

// NewObserver creates an Observer with the given max recursion depth
// and dimension dim for its self-model vector.
func NewObserver(maxDepth, dim int, alpha float64) *Observer {
	return &Observer{
		maxDepth:      maxDepth,
		loopThreshold: defaultLoopThreshold,
		alpha:         alpha,
		selfModel:     types.Zeros(dim),
	}
}

// SetLoopThreshold overrides the default cosine-similarity loop
// detection threshold (theta_loop).
func (o *Observer) SetLoopThreshold(theta float64) { o.loopThreshold = theta }

// Observe builds the observation stack for state down to depth levels
// (inclusive), updates the self-model EMA from the final level, and
// reports whether any pair of levels forms a strange loop.
func (o *Observer) Observe(state types.Vector, depth int) (Result, error) {
	if depth > o.maxDepth {
		return Result{}, &cerrors.RecursionLimit{Depth: depth, Max: o.maxDepth}
	}
	if depth < 0 {
		depth = 0
	}

	levels := make([]Observation, 0, depth+1)
	levels = append(levels, Observation{Depth: 0, State: state.Clone()})

	for k := 1; k <= depth; k++ {
		levels = append(levels, Observation{Depth: k, State: o.transform(state, k)})
	}

	o.updateSelfModel(levels[len(levels)-1].State)

	loopDetected, selfReference := detectLoop(levels, o.loopThreshold)
	insight := insights[(depth+len(levels))%len(insights)]

	return Result{
		Levels:        levels,
		LoopDetected:  loopDetected,
		SelfReference: selfReference,
		Insight:       insight,
	}, nil
}

// transform applies a rotation by theta_k = k*pi/4 in state-space to
// the original observed state (pairwise-coordinate rotation across
// consecutive dimensions, the generalization of a 2D rotation to
// arbitrary dim), then mixes in the running self-model vector.
func (o *Observer) transform(state types.Vector, k int) types.Vector {
	theta := float64(k) * math.Pi / 4
	rotated := rotate(state, theta)
	if !o.seeded || len(o.selfModel) != len(rotated) {
		return rotated
	}
	mixed := make(types.Vector, len(rotated))
	for i := range rotated {
		mixed[i] = 0.7*rotated[i] + 0.3*o.selfModel[i]
	}
	return mixed
}

// rotate applies a 2D rotation by theta to each consecutive coordinate
// pair (0,1), (2,3), ...; an odd trailing coordinate passes through.
func rotate(v types.Vector, theta float64) types.Vector {
	out := v.Clone()
	c, s := math.Cos(theta), math.Sin(theta)
	for i := 0; i+1 < len(v); i += 2 {
		x, y := v[i], v[i+1]
		out[i] = x*c - y*s
		out[i+1] = x*s + y*c
	}
	return out
}

func (o *Observer) updateSelfModel(final types.Vector) {
	if len(final) != len(o.selfModel) {
		o.selfModel = final.Clone()
		o.seeded = true
		return
	}
	if !o.seeded {
		o.selfModel = final.Clone()
		o.seeded = true
		return
	}
	for i := range o.selfModel {
		o.selfModel[i] = (1-o.alpha)*o.selfModel[i] + o.alpha*final[i]
	}
}

// detectLoop reports whether any pair of levels has cosine similarity
// above threshold, and the mean pairwise similarity across all levels
// (the self-reference strength).
func detectLoop(levels []Observation, threshold float64) (bool, float64) {
	if len(levels) < 2 {
		return false, 0
	}
	sum, count := 0.0, 0
	loop := false
	for a := 0; a < len(levels); a++ {
		for b := a + 1; b < len(levels); b++ {
			sim := vecmath.CosineSimilarity(levels[a].State, levels[b].State)
			sum += sim
			count++
			if sim > threshold {
				loop = true
			}
		}
	}
	if count == 0 {
		return loop, 0
	}
	return loop, sum / float64(count)
}

// Reset clears the self-model EMA back to its unseeded zero state.
func (o *Observer) Reset() {
	for i := range o.selfModel {
		o.selfModel[i] = 0
	}
	o.seeded = false
}

// SelfModel returns a copy of the current self-model vector.
func (o *Observer) SelfModel() types.Vector { return o.selfModel.Clone() }
