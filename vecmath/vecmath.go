/*
=================================================================================
VECMATH — SHARED MATH & STATE UTILITIES (C8)
=================================================================================

Every higher-level subsystem (salience, hippocampus, integration
metrics) needs the same small set of dense-vector primitives: dot
product, norm, cosine similarity, and an exponential moving average
tracker for running mean/variance. Rather than hand-roll these per
package the way a from-scratch biological simulation would, this core
leans on gonum — the ecosystem's standard numerical library, present in
the retrieved pack's dependency graph via qubicDB-qubicdb's go.sum —
for the arithmetic itself, and on klauspost/cpuid (used the same way in
qubicDB-qubicdb's pkg/vector/simd package) purely as a capability gate
between an unrolled loop and gonum's floats.Dot for the hottest path,
the dot product behind cosine similarity and the layer projections,
which runs every tick in C3 and C4.

The unrolled loop keeps four partial sums, so its result can differ
from floats.Dot in the last bits for the same input. The gate is
decided once per process, so runs on the same machine stay
deterministic; results are not guaranteed bit-identical across
machines whose gate differs.
=================================================================================
*/

package vecmath

import (
	"math"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
)

// hasUnrollableSIMD reports whether the running CPU supports the
// instruction sets this package's unrolled accumulation loop is tuned
// for. Checked once at init, mirroring qubicDB-qubicdb/pkg/vector/simd.
var hasUnrollableSIMD = cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) || cpuid.CPU.Supports(cpuid.ASIMD)

// HasHardwareAcceleration reports the capability gate decided at
// package init; exposed so components can log it once at startup.
func HasHardwareAcceleration() bool { return hasUnrollableSIMD }

// CheckDim validates that v has exactly dim elements, returning a
// cerrors.DimensionMismatch tagged with component otherwise.
func CheckDim(component string, v types.Vector, dim int) error {
	if len(v) != dim {
		return cerrors.NewDimensionMismatch(component, dim, len(v))
	}
	return nil
}

// Dot returns the dot product of a and b. Panics on length mismatch —
// callers are expected to validate dimensions with CheckDim first,
// the same division of responsibility the teacher's dendrite
// integration code uses between "validate at the boundary" and
// "compute in the interior".
func Dot(a, b types.Vector) float64 {
	if hasUnrollableSIMD && len(a) >= 4 {
		return dotUnrolled(a, b)
	}
	return floats.Dot(a, b)
}

func dotUnrolled(a, b types.Vector) float64 {
	n := len(a)
	var sum0, sum1, sum2, sum3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		sum0 += a[i] * b[i]
		sum1 += a[i+1] * b[i+1]
		sum2 += a[i+2] * b[i+2]
		sum3 += a[i+3] * b[i+3]
	}
	sum := sum0 + sum1 + sum2 + sum3
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean (L2) norm of v.
func Norm(v types.Vector) float64 {
	return math.Sqrt(Dot(v, v))
}

// CosineSimilarity returns the cosine similarity between a and b in
// [-1, 1]. Returns 0 if either vector has zero norm (undefined angle,
// treated as "no similarity" rather than propagating NaN).
func CosineSimilarity(a, b types.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Mean returns the arithmetic mean of v's elements, 0 for empty v.
func Mean(v types.Vector) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

// Max returns the maximum element of v, and false if v is empty.
func Max(v types.Vector) (float64, bool) {
	if len(v) == 0 {
		return 0, false
	}
	return floats.Max(v), true
}

// AbsMax returns the maximum absolute-value element of v, 0 if empty.
func AbsMax(v types.Vector) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// Scale multiplies every element of v by s, in place, and returns v.
func Scale(v types.Vector, s float64) types.Vector {
	floats.Scale(s, v)
	return v
}

// Add returns a new Vector equal to a+b elementwise. Panics on length
// mismatch.
func Add(a, b types.Vector) types.Vector {
	out := a.Clone()
	floats.Add(out, b)
	return out
}

// Sub returns a new Vector equal to a-b elementwise.
func Sub(a, b types.Vector) types.Vector {
	out := a.Clone()
	floats.Sub(out, b)
	return out
}

// Clamp clamps every element of v into [lo, hi], in place, returning v.
func Clamp(v types.Vector, lo, hi float64) types.Vector {
	for i, x := range v {
		if x < lo {
			v[i] = lo
		} else if x > hi {
			v[i] = hi
		}
	}
	return v
}
