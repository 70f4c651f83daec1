package predictive

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

func clampScalar(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func absVector(v types.Vector) types.Vector {
	out := make(types.Vector, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}

// resize truncates or zero-pads v to length n.
func resize(v types.Vector, n int) types.Vector {
	out := make(types.Vector, n)
	copy(out, v)
	return out
}

// toDistribution normalizes v into a non-negative distribution that
// sums to 1, via softmax over v's signed values (shifted by the largest
// magnitude for numerical stability). An all-zero v yields the uniform
// distribution; an empty v is returned as is.
func toDistribution(v types.Vector) types.Vector {
	if len(v) == 0 {
		return v
	}
	maxAbs := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > maxAbs {
			maxAbs = a
		}
	}
	out := make(types.Vector, len(v))
	sum := 0.0
	for i, x := range v {
		e := math.Exp(x - maxAbs)
		out[i] = e
		sum += e
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// klDivergence computes KL(P||Q) over p and q treated as distributions
// (softmax-normalized first), with both sides truncated/padded to the
// shorter length.
func klDivergence(p, q types.Vector) float64 {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	if n == 0 {
		return 0
	}
	dp := toDistribution(p[:n])
	dq := toDistribution(q[:n])
	const eps = 1e-9
	sum := 0.0
	for i := 0; i < n; i++ {
		pi := dp[i]
		qi := math.Max(dq[i], eps)
		if pi <= 0 {
			continue
		}
		sum += pi * math.Log(pi/qi)
	}
	return sum
}

// entropy computes the Shannon entropy of v treated as a distribution.
func entropy(v types.Vector) float64 {
	d := toDistribution(v)
	sum := 0.0
	for _, p := range d {
		if p <= 0 {
			continue
		}
		sum -= p * math.Log(p)
	}
	return sum
}

// infoGain approximates expected information gain as the L2 distance
// between the current belief and a predicted successor state: larger
// moves in belief-space are treated as more informative.
func infoGain(current, predicted types.Vector) float64 {
	n := len(current)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return 0
	}
	return vecmath.Norm(vecmath.Sub(current[:n], predicted[:n]))
}
