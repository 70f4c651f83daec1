package salience

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

func TestEmptyInputYieldsEmptyMap(t *testing.T) {
	c := New(DefaultWeights())
	m := c.ComputeMap(types.Vector{})
	if m.Scores != nil {
		t.Fatalf("expected empty map for zero-length input, got %v", m.Scores)
	}
}

func TestFirstCallUsesUniformNovelty(t *testing.T) {
	c := New(DefaultWeights())
	sm := c.ComputeMap(types.Vector{0.1, 0.2, 0.3})
	for i, x := range sm.Novelty {
		if x != 0.5 {
			t.Fatalf("first-call novelty at index %d = %v, want 0.5", i, x)
		}
	}
	scores := sm.Scores
	if m, _ := vecmath.Max(scores); m > 1.0+1e-9 {
		t.Fatalf("max score should be <= 1.0, got %v", m)
	}
}

func TestNoveltyDetection(t *testing.T) {
	c := New(DefaultWeights())
	baseline := types.Vector{0.5, 0.5, 0.5, 0.5, 0.5}
	for i := 0; i < 10; i++ {
		c.Compute(baseline)
	}
	novel := types.Vector{0.5, 0.5, 0.95, 0.5, 0.5}
	scores := c.Compute(novel)

	argmax := 0
	for i, s := range scores {
		if s > scores[argmax] {
			argmax = i
		}
	}
	if argmax != 2 {
		t.Fatalf("expected argmax salience at index 2, got %d (scores=%v)", argmax, scores)
	}
}

func TestNormalizationInvariant(t *testing.T) {
	c := New(DefaultWeights())
	scores := c.Compute(types.Vector{1, 0, 0, 2})
	max, ok := vecmath.Max(scores)
	if !ok {
		t.Fatalf("expected non-empty scores")
	}
	if max > 1.0+1e-9 {
		t.Fatalf("max(scores) must be <= 1.0, got %v", max)
	}
	anyPositive := false
	for _, s := range scores {
		if s > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		t.Fatalf("expected at least one positive score for nonzero input")
	}
}
