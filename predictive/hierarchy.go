/*
=================================================================================
PREDICTIVE HIERARCHY & FREE ENERGY (C5)
=================================================================================

Grounded on the teacher's homeostatic scaling loop (neuron/synaptic_scaling.go):
a target value tracked by EMA, compared against an observed value each tick,
with a bounded correction applied proportionally. Here the "target" is each
level's generative prediction, the "observed value" is its bottom-up input,
and the correction is the belief update `η·precision·error` instead of a
receptor gain.
=================================================================================
*/

package predictive

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

const (
	precisionEMA  = 0.1
	minPrecision  = 0.1
	maxPrecision  = 10.0
	precisionFuzz = 0.1
	kLLambda      = 0.1
	efeBeta       = 0.1
)

// Level is one layer of the predictive hierarchy: a belief mean mu, a
// generative prediction, and a scalar precision weighting how strongly
// this level's prediction error corrects its belief.
type Level struct {
	Dim        int
	Mu         types.Vector
	Prediction types.Vector
	Precision  float64
	LastError  types.Vector
}

func newLevel(dim int) Level {
	return Level{
		Dim:        dim,
		Mu:         types.Zeros(dim),
		Prediction: types.Zeros(dim),
		Precision:  1.0,
		LastError:  types.Zeros(dim),
	}
}

// Hierarchy is C5: an L-level stack of Levels, each processing the level
// below's prediction error and regenerating a top-down prediction.
type Hierarchy struct {
	levels       []Level
	learningRate float64
}

// NewHierarchy builds an L-level hierarchy with dims[i] the dimension of
// level i. learningRate is the default eta used in the belief update.
func NewHierarchy(dims []int, learningRate float64) *Hierarchy {
	levels := make([]Level, len(dims))
	for i, d := range dims {
		levels[i] = newLevel(d)
	}
	return &Hierarchy{levels: levels, learningRate: learningRate}
}

// Levels returns a read-only view of the hierarchy's levels.
func (h *Hierarchy) Levels() []Level { return h.levels }

// Step runs one tick: bottom-up error/precision update at every level
// seeded by levelInputs, then top-down prediction regeneration, and
// returns the resulting free energy against prior.
func (h *Hierarchy) Step(levelInputs []types.Vector, prior types.Vector) (float64, error) {
	if len(levelInputs) != len(h.levels) {
		return 0, &cerrors.DimensionMismatch{
			Component: "predictive.Hierarchy.Step",
			Expected:  len(h.levels),
			Got:       len(levelInputs),
		}
	}
	for i, input := range levelInputs {
		if err := vecmath.CheckDim("predictive.Hierarchy.Step", input, h.levels[i].Dim); err != nil {
			return 0, err
		}
	}

	h.bottomUp(levelInputs)
	h.topDown()
	return h.freeEnergy(prior), nil
}

// bottomUp computes error = input - prediction at each level, updates mu
// by eta*precision*error, and EMA-updates precision toward
// 1/(|error|+0.1), clamped to [0.1, 10].
func (h *Hierarchy) bottomUp(levelInputs []types.Vector) {
	for i := range h.levels {
		lvl := &h.levels[i]
		errVec := vecmath.Sub(levelInputs[i], lvl.Prediction)
		lvl.LastError = errVec

		update := vecmath.Scale(errVec, h.learningRate*lvl.Precision)
		lvl.Mu = vecmath.Add(lvl.Mu, update)

		meanAbsErr := vecmath.Mean(absVector(errVec))
		target := 1.0 / (meanAbsErr + precisionFuzz)
		lvl.Precision = (1-precisionEMA)*lvl.Precision + precisionEMA*target
		lvl.Precision = clampScalar(lvl.Precision, minPrecision, maxPrecision)
	}
}

// topDown regenerates each level's prediction from the level above's
// belief (identity mapping when dimensions match, truncate/pad
// otherwise), and the top level predicts from its own belief.
func (h *Hierarchy) topDown() {
	n := len(h.levels)
	for i := n - 1; i >= 0; i-- {
		lvl := &h.levels[i]
		if i == n-1 {
			lvl.Prediction = lvl.Mu.Clone()
			continue
		}
		above := h.levels[i+1].Mu
		lvl.Prediction = resize(above, lvl.Dim)
	}
}

// freeEnergy approximates Sum(precision*||error||) + lambda*KL(mu_0, prior).
func (h *Hierarchy) freeEnergy(prior types.Vector) float64 {
	sum := 0.0
	for _, lvl := range h.levels {
		sum += lvl.Precision * vecmath.Norm(lvl.LastError)
	}
	if len(h.levels) == 0 {
		return sum
	}
	sum += kLLambda * klDivergence(h.levels[0].Mu, prior)
	return sum
}

// SelectAction returns the index of the candidate successor state with
// the lowest expected free energy, and that EFE score. EFE(a) =
// KL(predicted, preferences) + entropy(predicted) - beta*info_gain.
func (h *Hierarchy) SelectAction(candidates []types.Vector, preferences types.Vector) (int, float64) {
	if len(h.levels) == 0 || len(candidates) == 0 {
		return -1, 0
	}
	current := h.levels[0].Mu

	best, bestEFE := -1, math.Inf(1)
	for i, predicted := range candidates {
		efe := klDivergence(predicted, preferences) + entropy(predicted) - efeBeta*infoGain(current, predicted)
		if efe < bestEFE {
			best, bestEFE = i, efe
		}
	}
	return best, bestEFE
}

// Reset zeroes every level's belief, prediction, and error, and resets
// its precision to 1.0.
func (h *Hierarchy) Reset() {
	for i := range h.levels {
		h.levels[i] = newLevel(h.levels[i].Dim)
	}
}
