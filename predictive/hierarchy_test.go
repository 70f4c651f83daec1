package predictive

import (
	"math"
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

func TestStepRejectsWrongLevelCount(t *testing.T) {
	h := NewHierarchy([]int{4, 4}, 0.1)
	_, err := h.Step([]types.Vector{{1, 2, 3, 4}}, types.Vector{0, 0, 0, 0})
	if err == nil {
		t.Fatalf("expected error for mismatched level count")
	}
}

func TestStepRejectsWrongLevelDimension(t *testing.T) {
	h := NewHierarchy([]int{4}, 0.1)
	_, err := h.Step([]types.Vector{{1, 2, 3}}, types.Vector{0, 0, 0, 0})
	if err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestBottomUpReducesErrorOverRepeatedIdenticalInput(t *testing.T) {
	h := NewHierarchy([]int{3}, 0.3)
	input := types.Vector{0.5, 0.2, 0.9}

	_, err := h.Step([]types.Vector{input}, types.Vector{0, 0, 0})
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	firstErr := vecNorm(h.Levels()[0].LastError)

	for i := 0; i < 20; i++ {
		if _, err := h.Step([]types.Vector{input}, types.Vector{0, 0, 0}); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	laterErr := vecNorm(h.Levels()[0].LastError)

	if laterErr >= firstErr {
		t.Fatalf("expected belief to converge toward input, error did not shrink: first=%v later=%v", firstErr, laterErr)
	}
}

func TestPrecisionStaysClamped(t *testing.T) {
	h := NewHierarchy([]int{2}, 0.5)
	for i := 0; i < 50; i++ {
		h.Step([]types.Vector{{100, -100}}, types.Vector{0, 0})
	}
	p := h.Levels()[0].Precision
	if p < 0.1 || p > 10 {
		t.Fatalf("precision escaped clamp bounds: %v", p)
	}
}

func TestFreeEnergyNonNegativeAtZeroState(t *testing.T) {
	h := NewHierarchy([]int{3}, 0.1)
	fe, err := h.Step([]types.Vector{{0, 0, 0}}, types.Vector{0, 0, 0})
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if fe < 0 {
		t.Fatalf("expected non-negative free energy, got %v", fe)
	}
}

func TestSelectActionPicksLowestEFECandidate(t *testing.T) {
	h := NewHierarchy([]int{3}, 0.1)
	h.Step([]types.Vector{{0.1, 0.1, 0.1}}, types.Vector{0, 0, 0})

	preferences := types.Vector{1, 0, 0}
	candidates := []types.Vector{
		{0, 1, 0}, // far from preferences
		{1, 0, 0}, // matches preferences exactly
	}
	idx, _ := h.SelectAction(candidates, preferences)
	if idx != 1 {
		t.Fatalf("expected candidate 1 (matches preferences) to win, got %d", idx)
	}
}

func TestSelectActionEmptyCandidates(t *testing.T) {
	h := NewHierarchy([]int{2}, 0.1)
	idx, efe := h.SelectAction(nil, types.Vector{1, 0})
	if idx != -1 || efe != 0 {
		t.Fatalf("expected (-1, 0) for no candidates, got (%d, %v)", idx, efe)
	}
}

func TestResetZeroesLevels(t *testing.T) {
	h := NewHierarchy([]int{3}, 0.2)
	h.Step([]types.Vector{{1, 2, 3}}, types.Vector{0, 0, 0})
	h.Reset()
	for _, x := range h.Levels()[0].Mu {
		if x != 0 {
			t.Fatalf("expected belief to be zeroed after reset")
		}
	}
	if h.Levels()[0].Precision != 1.0 {
		t.Fatalf("expected precision reset to 1.0, got %v", h.Levels()[0].Precision)
	}
}

func vecNorm(v types.Vector) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
