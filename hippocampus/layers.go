/*
=================================================================================
ENTORHINAL / DENTATE GYRUS / CA3 / CA1 LAYERS
=================================================================================

Each layer is a thin struct around a fixed or slowly-adapted weight
matrix, in the teacher's "dense weight slice behind a small struct"
style (compare neuron/dendrite.go's per-synapse weight bookkeeping).
None of these layers hold a mutex of their own — they are only ever
touched from inside Pipeline's single write lock, matching the
single-writer-per-tick discipline SPEC_FULL.md §5 requires of every
component the orchestrator drives.
=================================================================================
*/

package hippocampus

import (
	"math"
	"sort"

	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// entorhinal projects between the input dimension and the DG
// dimension, and decodes CA1 output back to the input dimension.
type entorhinal struct {
	win [][]float64 // [dgSize][inputDim], fixed random projection
}

func newEntorhinal(inputDim, dgSize int, rng *vecmath.RNG) *entorhinal {
	e := &entorhinal{win: make([][]float64, dgSize)}
	for i := 0; i < dgSize; i++ {
		e.win[i] = make([]float64, inputDim)
		for j := 0; j < inputDim; j++ {
			e.win[i][j] = rng.Float64()*2 - 1
		}
	}
	return e
}

func (e *entorhinal) encode(input types.Vector) types.Vector {
	out := make(types.Vector, len(e.win))
	for i, row := range e.win {
		out[i] = vecmath.Dot(row, input)
	}
	return out
}

// decode is the final readout step back to input space. CA1's output
// is already trained (via ca1.trainAssociation) to reconstruct the
// original input directly from a CA3 pattern, so decode no longer
// needs to invert encode's per-column scaling the way a fixed random
// readout would have; it is a pass-through kept for symmetry with
// encode and as the one seam where a future EC-deep readout
// nonlinearity would go.
func (e *entorhinal) decode(v types.Vector) types.Vector {
	return v.Clone()
}

// dentateGyrus performs pattern separation: keep only the top-k
// activations by magnitude, zero the rest, preserving magnitudes on
// the surviving units (source spec invariant §4.3).
type dentateGyrus struct {
	sparsity float64 // rho
}

func newDentateGyrus(sparsity float64) *dentateGyrus {
	return &dentateGyrus{sparsity: sparsity}
}

func (d *dentateGyrus) separate(ec types.Vector) types.Vector {
	n := len(ec)
	k := int(math.Ceil(d.sparsity * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return math.Abs(ec[idx[a]]) > math.Abs(ec[idx[b]])
	})
	out := make(types.Vector, n)
	for i := 0; i < k; i++ {
		out[idx[i]] = ec[idx[i]]
	}
	return out
}

// ca3 is the autoassociative store: a projection into CA3 space plus a
// sparse recurrent weight matrix updated by Hebbian outer-product
// learning and read by synchronous fixed-point iteration.
type ca3 struct {
	projIn [][]float64 // [ca3Size][dgSize]
	rec    [][]float64 // [ca3Size][ca3Size]
	mask   [][]bool    // fixed recurrent connectivity, probability p_rec
	size   int

	activityEMA float64 // running mean |pattern| used for SWR gating
}

func newCA3(dgSize, ca3Size int, pRec float64, rng *vecmath.RNG) *ca3 {
	c := &ca3{
		projIn: make([][]float64, ca3Size),
		rec:    make([][]float64, ca3Size),
		mask:   make([][]bool, ca3Size),
		size:   ca3Size,
	}
	for i := 0; i < ca3Size; i++ {
		c.projIn[i] = make([]float64, dgSize)
		for j := 0; j < dgSize; j++ {
			c.projIn[i][j] = rng.Float64()*2 - 1
		}
		c.rec[i] = make([]float64, ca3Size)
		c.mask[i] = make([]bool, ca3Size)
		for j := 0; j < ca3Size; j++ {
			if i != j && rng.Float64() < pRec {
				c.mask[i][j] = true
			}
		}
	}
	return c
}

func (c *ca3) projectIn(dg types.Vector) types.Vector {
	out := make(types.Vector, c.size)
	for i, row := range c.projIn {
		out[i] = vecmath.Dot(row, dg)
	}
	return out
}

// encodeHebbian stores pattern via outer-product learning over the
// fixed recurrent mask, then settles it to a stable attractor.
func (c *ca3) encodeHebbian(pattern types.Vector, learningRate float64) types.Vector {
	for i := 0; i < c.size; i++ {
		for j := 0; j < c.size; j++ {
			if c.mask[i][j] {
				c.rec[i][j] += learningRate * pattern[i] * pattern[j]
			}
		}
	}
	c.updateActivity(pattern)
	return c.settle(pattern)
}

// complete performs T=5 synchronous iterations toward the nearest
// stored attractor starting from cue.
func (c *ca3) complete(cue types.Vector) types.Vector {
	out := c.settle(cue)
	c.updateActivity(out)
	return out
}

const ca3SettleIterations = 5

func (c *ca3) settle(start types.Vector) types.Vector {
	pattern := start.Clone()
	for iter := 0; iter < ca3SettleIterations; iter++ {
		next := make(types.Vector, c.size)
		for i := 0; i < c.size; i++ {
			next[i] = vecmath.Dot(c.rec[i], pattern) + pattern[i]
		}
		squash(next)
		pattern = next
	}
	return pattern
}

// squash applies a bounded nonlinearity (tanh) in place, keeping the
// attractor dynamics numerically stable across iterations.
func squash(v types.Vector) {
	for i, x := range v {
		v[i] = math.Tanh(x)
	}
}

// reactivate bumps the basin of attraction around pattern, the
// smaller-magnitude Hebbian nudge used during replay rather than
// initial encoding.
func (c *ca3) reactivate(pattern types.Vector, learningRate float64) {
	for i := 0; i < c.size; i++ {
		for j := 0; j < c.size; j++ {
			if c.mask[i][j] {
				c.rec[i][j] += 0.1 * learningRate * pattern[i] * pattern[j]
			}
		}
	}
	c.updateActivity(pattern)
}

func (c *ca3) updateActivity(pattern types.Vector) {
	mean := 0.0
	for _, x := range pattern {
		mean += math.Abs(x)
	}
	if c.size > 0 {
		mean /= float64(c.size)
	}
	const alpha = 0.1
	c.activityEMA = (1-alpha)*c.activityEMA + alpha*mean
}

// ca1 reads CA3 space back out to the input dimension. Unlike the
// feedforward layers above, projOut is not a fixed random projection:
// it starts at zero and is only ever populated by trainAssociation, the
// same zero-init-then-Hebbian-learn discipline ca3.rec uses for its
// recurrent weights (compare encodeHebbian). A fixed random readout has
// no relationship to the patterns it's asked to reconstruct; a learned
// one does.
type ca1 struct {
	projOut [][]float64 // [outDim][ca3Size]
}

func newCA1(ca3Size, outDim int, rng *vecmath.RNG) *ca1 {
	c := &ca1{projOut: make([][]float64, outDim)}
	for i := 0; i < outDim; i++ {
		c.projOut[i] = make([]float64, ca3Size)
	}
	return c
}

func (c *ca1) project(ca3Pattern types.Vector) types.Vector {
	out := make(types.Vector, len(c.projOut))
	for i, row := range c.projOut {
		out[i] = vecmath.Dot(row, ca3Pattern)
	}
	return out
}

// trainAssociation stores a hetero-associative key->target mapping via
// the normalized outer-product rule, adding target*key/|key|^2 to
// projOut. On an empty projOut (the first stored pair), project(key) ==
// target exactly afterwards. Later calls superimpose further pairs the
// same way CA3's recurrent matrix superimposes stored attractors, so
// project(key) then also picks up cross-talk from earlier pairs whose
// keys are not orthogonal to key.
func (c *ca1) trainAssociation(target, key types.Vector) {
	denom := vecmath.Dot(key, key)
	if denom == 0 {
		return
	}
	scale := 1.0 / denom
	for i, ti := range target {
		if ti == 0 {
			continue
		}
		row := c.projOut[i]
		for j, kj := range key {
			row[j] += scale * ti * kj
		}
	}
}
