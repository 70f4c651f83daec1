package integrate

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

func TestCompeteFillsCapacityThenRejectsLowActivation(t *testing.T) {
	w := NewWorkspace(2, 0.3, 0.1)
	if !w.Compete(Content{ID: "a", Vector: types.Vector{1, 0}, Activation: 0.5}) {
		t.Fatalf("expected admission into free slot")
	}
	if !w.Compete(Content{ID: "b", Vector: types.Vector{0, 1}, Activation: 0.5}) {
		t.Fatalf("expected admission into free slot")
	}
	if w.Compete(Content{ID: "c", Vector: types.Vector{1, 1}, Activation: 0.1}) {
		t.Fatalf("expected low-activation content to be rejected when full")
	}
	if len(w.Contents()) != 2 {
		t.Fatalf("expected 2 residents, got %d", len(w.Contents()))
	}
}

func TestCompeteEvictsLowestActivationWhenFull(t *testing.T) {
	w := NewWorkspace(1, 0.3, 0.1)
	w.Compete(Content{ID: "a", Vector: types.Vector{1, 0}, Activation: 0.2})
	if !w.Compete(Content{ID: "b", Vector: types.Vector{0, 1}, Activation: 0.9}) {
		t.Fatalf("expected higher-activation content to evict")
	}
	if w.Contents()[0].ID != "b" {
		t.Fatalf("expected b to have replaced a")
	}
}

func TestFormCoalitionsGroupsSimilarVectors(t *testing.T) {
	w := NewWorkspace(4, 0.1, 0.1)
	w.Compete(Content{ID: "a", Vector: types.Vector{1, 0, 0}, Activation: 0.8})
	w.Compete(Content{ID: "b", Vector: types.Vector{0.9, 0.1, 0}, Activation: 0.8})
	w.Compete(Content{ID: "c", Vector: types.Vector{0, 0, 1}, Activation: 0.8})

	coalitions := w.FormCoalitions()
	if len(coalitions) != 2 {
		t.Fatalf("expected 2 coalitions (a+b grouped, c alone), got %d", len(coalitions))
	}
}

func TestIgnitionRequiresActivationTimesCoherenceOverThreshold(t *testing.T) {
	w := NewWorkspace(4, 0.9, 0.1)
	w.Compete(Content{ID: "a", Vector: types.Vector{1, 0}, Activation: 0.3})
	w.Compete(Content{ID: "b", Vector: types.Vector{1, 0}, Activation: 0.3})

	coalitions := w.FormCoalitions()
	for _, c := range coalitions {
		if c.Ignited {
			t.Fatalf("expected no ignition: activation*coherence=%v should not exceed 0.9", 0.3*c.Coherence)
		}
	}
}

func TestBroadcastPicksHighestScoringIgnitedCoalition(t *testing.T) {
	w := NewWorkspace(4, 0.1, 0.1)
	w.Compete(Content{ID: "weak", Vector: types.Vector{1, 0}, Activation: 0.2})
	w.Compete(Content{ID: "weak2", Vector: types.Vector{1, 0}, Activation: 0.2})
	w.Compete(Content{ID: "strong", Vector: types.Vector{0, 1}, Activation: 0.9})
	w.Compete(Content{ID: "strong2", Vector: types.Vector{0, 1}, Activation: 0.9})

	event, ok := w.Broadcast()
	if !ok {
		t.Fatalf("expected a broadcast to occur")
	}
	if len(event.CoalitionMembers) != 2 {
		t.Fatalf("expected the strong pair to win broadcast, got members %v", event.CoalitionMembers)
	}
	for _, id := range event.CoalitionMembers {
		if id != "strong" && id != "strong2" {
			t.Fatalf("unexpected winner member %q", id)
		}
	}
}

func TestBroadcastDecaysNonWinnersAndPrunesBelowFloor(t *testing.T) {
	w := NewWorkspace(4, 0.01, 0.99)
	w.Compete(Content{ID: "winner", Vector: types.Vector{1, 0}, Activation: 0.9})
	w.Compete(Content{ID: "loser", Vector: types.Vector{0, 1}, Activation: 0.005})

	w.Broadcast()

	for _, c := range w.Contents() {
		if c.ID == "loser" {
			t.Fatalf("expected low-activation non-winner to be pruned after decay")
		}
	}
}

func TestBroadcastHistoryCapsAtMax(t *testing.T) {
	w := NewWorkspace(2, 0.01, 0.0)
	for i := 0; i < maxBroadcastHistory+10; i++ {
		w.Compete(Content{ID: "a", Vector: types.Vector{1, 0}, Activation: 0.9})
		w.Compete(Content{ID: "b", Vector: types.Vector{1, 0}, Activation: 0.9})
		w.Broadcast()
	}
	if len(w.History()) > maxBroadcastHistory {
		t.Fatalf("expected history capped at %d, got %d", maxBroadcastHistory, len(w.History()))
	}
}

func TestNoBroadcastWhenNothingIgnites(t *testing.T) {
	w := NewWorkspace(2, 0.99, 0.1)
	w.Compete(Content{ID: "a", Vector: types.Vector{1, 0}, Activation: 0.1})
	_, ok := w.Broadcast()
	if ok {
		t.Fatalf("expected no broadcast when no coalition ignites")
	}
}
