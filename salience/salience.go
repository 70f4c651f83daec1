/*
=================================================================================
SALIENCE COMPUTER (C2) — BOTTOM-UP MULTI-FEATURE ATTENTION MAP
=================================================================================

Computes a per-item salience score in [0,1] from four bottom-up
features — novelty, contrast, change, intensity — the same
concentration-map-with-decay shape the teacher's chemical modulator
uses for neurotransmitter concentration fields (see
extracellular/chemical_modulator.go), generalized from "diffusing
ligand concentration per spatial bin" to "salience score per input
index". Edge and Motion are present in the Feature enumeration (the
source spec keeps them there even though they are not computed by this
single-frame, non-spatial model) so callers and tests can name them
without the package claiming to support image-like edge/motion
detection it has no pixel grid to compute from.
=================================================================================
*/

package salience

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// Feature names one of the salience components tracked per item.
type Feature int

const (
	Novelty Feature = iota
	Contrast
	Change
	Intensity
	Edge   // present in the enumeration; not computed by this model
	Motion // present in the enumeration; not computed by this model
)

// Weights is the mixture used to combine per-feature scores into the
// final salience score. Must sum to > 0.
type Weights struct {
	Novelty   float64
	Contrast  float64
	Change    float64
	Intensity float64
}

// DefaultWeights returns the source spec's default mixture:
// {novelty 0.3, contrast 0.25, change 0.25, intensity 0.2}.
func DefaultWeights() Weights {
	return Weights{Novelty: 0.3, Contrast: 0.25, Change: 0.25, Intensity: 0.2}
}

// Map is the per-item salience score together with its per-feature
// decomposition, keyed by item index.
type Map struct {
	Scores   types.Vector
	Novelty  types.Vector
	Contrast types.Vector
	Change   types.Vector
	Intensity types.Vector
}

// Computer is C2: a stateful, deterministic bottom-up salience map.
// Holds running mean/variance (EMA, alpha=0.1) and the previous input,
// so two consecutive Compute calls observe temporal change.
type Computer struct {
	weights Weights
	stats   *vecmath.RunningStats
	prev    types.Vector
}

// New creates a Computer with the given feature mixture. Falls back to
// DefaultWeights if the provided mixture sums to <= 0.
func New(w Weights) *Computer {
	if w.Novelty+w.Contrast+w.Change+w.Intensity <= 0 {
		w = DefaultWeights()
	}
	return &Computer{weights: w, stats: vecmath.NewRunningStats(0.1)}
}

// Compute returns the combined salience score per item in [0,1].
func (c *Computer) Compute(input types.Vector) types.Vector {
	return c.ComputeMap(input).Scores
}

// ComputeMap returns the full per-feature breakdown alongside the
// combined score. A zero-length input yields an empty Map (source spec
// invariant). The running statistics and previous-input memory are
// updated as a side effect, so ComputeMap must be called once per tick
// in presentation order.
func (c *Computer) ComputeMap(input types.Vector) Map {
	n := len(input)
	if n == 0 {
		return Map{}
	}

	novelty := c.novelty(input)
	contrast := c.contrast(input)
	change := c.change(input)
	intensity := c.intensity(input)

	combined := make(types.Vector, n)
	for i := 0; i < n; i++ {
		combined[i] = c.weights.Novelty*novelty[i] +
			c.weights.Contrast*contrast[i] +
			c.weights.Change*change[i] +
			c.weights.Intensity*intensity[i]
	}
	normalize(combined)

	c.stats.Update(input)
	c.prev = input.Clone()

	return Map{Scores: combined, Novelty: novelty, Contrast: contrast, Change: change, Intensity: intensity}
}

// normalize rescales v in place so its maximum element is 1, when any
// element is nonzero (source spec invariant: "scores normalized so
// max = 1 when any feature is active").
func normalize(v types.Vector) {
	m := vecmath.AbsMax(v)
	if m <= 0 {
		return
	}
	for i := range v {
		v[i] /= m
	}
}

// novelty returns the per-item |z-score| against running statistics,
// clamped at 3 standard deviations and mapped to [0,1]. Before any
// history has been observed, the source spec calls for a uniform 0.5
// ("no prior signal"), which RunningStats.ZScore already implements.
func (c *Computer) novelty(input types.Vector) types.Vector {
	return c.stats.ZScore(input, 3.0)
}

// contrast returns |x_i - mean(neighbors +/- 1)| normalized by the
// feature's own maximum.
func (c *Computer) contrast(input types.Vector) types.Vector {
	n := len(input)
	out := make(types.Vector, n)
	for i := 0; i < n; i++ {
		sum, count := 0.0, 0
		if i > 0 {
			sum += input[i-1]
			count++
		}
		if i < n-1 {
			sum += input[i+1]
			count++
		}
		if count == 0 {
			continue
		}
		out[i] = math.Abs(input[i] - sum/float64(count))
	}
	normalizeByMax(out)
	return out
}

// change returns |x_i - prev_i| normalized by its own maximum. On the
// first call (no previous input recorded yet) there is nothing to
// compare against, so change is all-zero.
func (c *Computer) change(input types.Vector) types.Vector {
	n := len(input)
	out := make(types.Vector, n)
	if c.prev == nil || len(c.prev) != n {
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = math.Abs(input[i] - c.prev[i])
	}
	normalizeByMax(out)
	return out
}

// intensity returns |x_i| normalized by its own maximum.
func (c *Computer) intensity(input types.Vector) types.Vector {
	n := len(input)
	out := make(types.Vector, n)
	for i, x := range input {
		out[i] = math.Abs(x)
	}
	normalizeByMax(out)
	return out
}

func normalizeByMax(v types.Vector) {
	m := vecmath.AbsMax(v)
	if m <= 0 {
		return
	}
	for i := range v {
		v[i] /= m
	}
}

// Reset clears all running statistics and the previous-input memory,
// returning the Computer to its freshly-constructed state.
func (c *Computer) Reset() {
	c.stats.Reset()
	c.prev = nil
}
