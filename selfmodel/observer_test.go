package selfmodel

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
)

func TestObserveRejectsDepthBeyondMax(t *testing.T) {
	o := NewObserver(3, 4, 0.1)
	_, err := o.Observe(types.Vector{1, 2, 3, 4}, 4)
	if err == nil {
		t.Fatalf("expected RecursionLimit error")
	}
	if _, ok := err.(*cerrors.RecursionLimit); !ok {
		t.Fatalf("expected *cerrors.RecursionLimit, got %T", err)
	}
}

func TestObserveBuildsDepthPlusOneLevels(t *testing.T) {
	o := NewObserver(5, 4, 0.1)
	result, err := o.Observe(types.Vector{1, 0, 0, 0}, 3)
	if err != nil {
		t.Fatalf("observe failed: %v", err)
	}
	if len(result.Levels) != 4 {
		t.Fatalf("expected 4 levels (depth 0..3), got %d", len(result.Levels))
	}
}

func TestZeroDepthNeverLoops(t *testing.T) {
	o := NewObserver(5, 4, 0.1)
	result, err := o.Observe(types.Vector{1, 0, 0, 0}, 0)
	if err != nil {
		t.Fatalf("observe failed: %v", err)
	}
	if result.LoopDetected {
		t.Fatalf("a single level cannot form a loop")
	}
}

// TestLoopDetectedAtFullRotation is source-spec scenario S5: a
// rotation by pi/4 applied 8 times returns to (near) the original
// orientation, so levels 0 and 8 should be highly similar.
func TestLoopDetectedAtFullRotation(t *testing.T) {
	o := NewObserver(10, 4, 0.0) // fresh observer: self-model unseeded, so each level is a pure rotation
	result, err := o.Observe(types.Vector{1, 0, 0, 0}, 8)
	if err != nil {
		t.Fatalf("observe failed: %v", err)
	}
	if !result.LoopDetected {
		t.Fatalf("expected loop detection after a full 2*pi rotation cycle")
	}
}

func TestInsightIsDeterministicForSameDepth(t *testing.T) {
	o1 := NewObserver(5, 4, 0.1)
	o2 := NewObserver(5, 4, 0.1)
	r1, _ := o1.Observe(types.Vector{1, 2, 3, 4}, 2)
	r2, _ := o2.Observe(types.Vector{1, 2, 3, 4}, 2)
	if r1.Insight != r2.Insight {
		t.Fatalf("expected deterministic insight selection, got %q vs %q", r1.Insight, r2.Insight)
	}
}

func TestResetClearsSelfModel(t *testing.T) {
	o := NewObserver(5, 4, 0.5)
	o.Observe(types.Vector{1, 2, 3, 4}, 2)
	o.Reset()
	for _, x := range o.SelfModel() {
		if x != 0 {
			t.Fatalf("expected self-model cleared after reset")
		}
	}
}
