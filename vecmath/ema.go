package vecmath

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

// RunningStats tracks a per-dimension exponential moving average of
// mean and variance, the running-statistics primitive behind salience's
// novelty feature. Construct it with NewRunningStats: the zero value has
// alpha 0, so its statistics never move after the first Update. The
// first Update seeds the mean directly rather than blending against
// zero (avoiding the classic EMA cold-start bias).
type RunningStats struct {
	alpha     float64
	mean      types.Vector
	variance  types.Vector
	seeded    bool
}

// NewRunningStats creates a tracker with EMA parameter alpha in (0, 1].
func NewRunningStats(alpha float64) *RunningStats {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	return &RunningStats{alpha: alpha}
}

// Update folds x into the running mean/variance estimate.
func (r *RunningStats) Update(x types.Vector) {
	if !r.seeded {
		r.mean = x.Clone()
		r.variance = types.Zeros(len(x))
		r.seeded = true
		return
	}
	if len(x) != len(r.mean) {
		// Dimension changed underneath us; reseed rather than panic,
		// since this is an internal bookkeeping structure, not a
		// public dimension-checked boundary.
		r.mean = x.Clone()
		r.variance = types.Zeros(len(x))
		return
	}
	for i, v := range x {
		delta := v - r.mean[i]
		r.mean[i] += r.alpha * delta
		r.variance[i] = (1-r.alpha)*(r.variance[i]+r.alpha*delta*delta)
	}
}

// Mean returns the current running mean. Nil until the first Update.
func (r *RunningStats) Mean() types.Vector { return r.mean }

// StdDev returns the current running per-dimension standard deviation.
func (r *RunningStats) StdDev() types.Vector {
	if r.variance == nil {
		return nil
	}
	out := make(types.Vector, len(r.variance))
	for i, v := range r.variance {
		out[i] = math.Sqrt(math.Max(v, 0))
	}
	return out
}

// Seeded reports whether at least one Update has occurred.
func (r *RunningStats) Seeded() bool { return r.seeded }

// ZScore returns the per-dimension absolute z-score of x against the
// running stats, clamped at clampAt standard deviations and mapped to
// [0,1] by dividing by clampAt. Returns an all-0.5 vector if the
// tracker has not yet seen any data (spec: "no prior signal").
func (r *RunningStats) ZScore(x types.Vector, clampAt float64) types.Vector {
	out := make(types.Vector, len(x))
	if !r.seeded {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	sd := r.StdDev()
	for i, v := range x {
		var z float64
		if i < len(sd) && sd[i] > 1e-9 {
			z = math.Abs(v-r.mean[i]) / sd[i]
		}
		if z > clampAt {
			z = clampAt
		}
		out[i] = z / clampAt
	}
	return out
}

// Reset clears all accumulated state.
func (r *RunningStats) Reset() {
	r.mean = nil
	r.variance = nil
	r.seeded = false
}
