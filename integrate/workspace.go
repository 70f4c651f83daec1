/*
=================================================================================
GLOBAL WORKSPACE — COALITION FORMATION & BROADCAST (C4)
=================================================================================

Capacity-bounded competitive buffer, grounded on the teacher's
SignalMediator broadcast/coupling pattern (extracellular/signal_mediator.go):
a small fixed set of residents compete for admission, form groups by
similarity, and the highest-scoring group's members get an event fanned
out to them while the rest quietly decay.
=================================================================================
*/

package integrate

import (
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// Content is one item competing for the global workspace.
type Content struct {
	ID         string
	Vector     types.Vector
	Activation float64
	Source     string
	Coalition  int // -1 if unassigned
}

// Coalition is a cluster of mutually similar Contents, with Age
// supplementing the source spec's ring-buffered broadcast history with
// the original Rust source's per-coalition survival counter
// (omega-consciousness/global_workspace.rs): how many consecutive
// form_coalitions() calls this coalition has persisted without being
// broadcast or evicted.
type Coalition struct {
	Members   []string
	Coherence float64
	Ignited   bool
	Age       int
}

// BroadcastEvent records one workspace broadcast.
type BroadcastEvent struct {
	CoalitionMembers []string
	Score            float64
}

const maxBroadcastHistory = 100

// Workspace is C4's global workspace: fixed capacity K, competitive
// admission, greedy cosine-similarity coalition formation, and a
// single winner-takes-broadcast step per call.
type Workspace struct {
	capacity  int
	ignition  float64
	decayRate float64

	contents   []*Content
	coalitions []Coalition
	history    []BroadcastEvent
}

// NewWorkspace creates a Workspace with the given capacity K, ignition
// threshold theta_ign, and per-tick decay rate delta for non-winners.
func NewWorkspace(capacity int, ignitionThreshold, decayRate float64) *Workspace {
	return &Workspace{capacity: capacity, ignition: ignitionThreshold, decayRate: decayRate}
}

// Compete admits content if the workspace has room; otherwise it evicts
// the current lowest-activation resident only if content's activation
// strictly exceeds it, and rejects the admission otherwise.
func (w *Workspace) Compete(content Content) bool {
	content.Coalition = -1
	if len(w.contents) < w.capacity {
		c := content
		w.contents = append(w.contents, &c)
		return true
	}
	minIdx, minActivation := 0, w.contents[0].Activation
	for i, c := range w.contents {
		if c.Activation < minActivation {
			minIdx, minActivation = i, c.Activation
		}
	}
	if content.Activation <= minActivation {
		return false
	}
	c := content
	w.contents[minIdx] = &c
	return true
}

// FormCoalitions greedily clusters resident contents by cosine
// similarity >= 0.5, recording each coalition's mean pairwise
// similarity as its coherence, and marks a coalition ignited iff
// activation*coherence > theta_ign (the source spec's adopted product
// form, per SPEC_FULL.md §D's resolved Open Question).
func (w *Workspace) FormCoalitions() []Coalition {
	const similarityThreshold = 0.5
	n := len(w.contents)
	assigned := make([]bool, n)
	var coalitions []Coalition

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		group := []int{i}
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if vecmath.CosineSimilarity(w.contents[i].Vector, w.contents[j].Vector) >= similarityThreshold {
				group = append(group, j)
				assigned[j] = true
			}
		}

		members := make([]string, len(group))
		meanActivation := 0.0
		for k, idx := range group {
			members[k] = w.contents[idx].ID
			w.contents[idx].Coalition = len(coalitions)
			meanActivation += w.contents[idx].Activation
		}
		meanActivation /= float64(len(group))

		coherence := pairwiseMeanSimilarity(w.contents, group)
		ignited := meanActivation*coherence > w.ignition

		coalitions = append(coalitions, Coalition{
			Members:   members,
			Coherence: coherence,
			Ignited:   ignited,
		})
	}

	w.coalitions = mergeCoalitionAges(w.coalitions, coalitions)
	return w.coalitions
}

func pairwiseMeanSimilarity(contents []*Content, group []int) float64 {
	if len(group) < 2 {
		return 1.0
	}
	sum, count := 0.0, 0
	for a := 0; a < len(group); a++ {
		for b := a + 1; b < len(group); b++ {
			sum += vecmath.CosineSimilarity(contents[group[a]].Vector, contents[group[b]].Vector)
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	return sum / float64(count)
}

// mergeCoalitionAges carries Age forward for coalitions whose member
// set is identical to one from the previous call, and starts new
// coalitions at Age 0.
func mergeCoalitionAges(prev, next []Coalition) []Coalition {
	for i := range next {
		for _, p := range prev {
			if sameMembers(p.Members, next[i].Members) {
				next[i].Age = p.Age + 1
				break
			}
		}
	}
	return next
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, m := range a {
		set[m] = true
	}
	for _, m := range b {
		if !set[m] {
			return false
		}
	}
	return true
}

// Broadcast picks the highest activation*coherence among ignited
// coalitions, records a BroadcastEvent for its members, decays every
// other resident's activation by (1-delta), and drops residents whose
// activation falls below 0.01. Returns the winning event, or ok=false
// if no coalition is ignited.
func (w *Workspace) Broadcast() (BroadcastEvent, bool) {
	coalitions := w.coalitions
	if len(coalitions) == 0 {
		coalitions = w.FormCoalitions()
	}

	bestIdx, bestScore := -1, 0.0
	for i, c := range coalitions {
		if !c.Ignited {
			continue
		}
		score := w.coalitionScore(c)
		if bestIdx == -1 || score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx == -1 {
		w.decayNonWinners(nil)
		return BroadcastEvent{}, false
	}

	winner := coalitions[bestIdx]
	event := BroadcastEvent{CoalitionMembers: winner.Members, Score: bestScore}
	w.pushHistory(event)

	winnerSet := make(map[string]bool, len(winner.Members))
	for _, id := range winner.Members {
		winnerSet[id] = true
	}
	w.decayNonWinners(winnerSet)
	for i := range w.coalitions {
		if i == bestIdx {
			w.coalitions[i].Age = 0
		}
	}

	return event, true
}

func (w *Workspace) coalitionScore(c Coalition) float64 {
	mean := 0.0
	for _, id := range c.Members {
		for _, content := range w.contents {
			if content.ID == id {
				mean += content.Activation
			}
		}
	}
	if len(c.Members) > 0 {
		mean /= float64(len(c.Members))
	}
	return mean * c.Coherence
}

func (w *Workspace) decayNonWinners(winners map[string]bool) {
	var kept []*Content
	for _, c := range w.contents {
		if !winners[c.ID] {
			c.Activation *= 1 - w.decayRate
		}
		if c.Activation >= 0.01 {
			kept = append(kept, c)
		}
	}
	w.contents = kept
}

func (w *Workspace) pushHistory(e BroadcastEvent) {
	w.history = append(w.history, e)
	if len(w.history) > maxBroadcastHistory {
		w.history = w.history[len(w.history)-maxBroadcastHistory:]
	}
}

// History returns a copy of the broadcast event ring buffer.
func (w *Workspace) History() []BroadcastEvent {
	out := make([]BroadcastEvent, len(w.history))
	copy(out, w.history)
	return out
}

// Contents returns the workspace's current residents.
func (w *Workspace) Contents() []*Content { return w.contents }

// Reset clears all residents, coalitions, and broadcast history.
func (w *Workspace) Reset() {
	w.contents = nil
	w.coalitions = nil
	w.history = nil
}
