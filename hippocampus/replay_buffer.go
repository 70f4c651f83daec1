/*
Prioritized replay buffer: a fixed-capacity collection with
temperature-scaled softmax sampling over priorities, grounded on the
teacher's activity_monitor.go ring-buffer-of-events shape
(synapse/activity_monitor.go) generalized from "recent spike events"
to "recent, priority-weighted replay candidates".
*/
package hippocampus

import (
	"math"

	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// ReplayBuffer holds up to Capacity ReplayEvents. When full, inserting
// a new event evicts the current lowest-priority event only if the
// incoming priority is strictly higher; otherwise the insert is
// rejected (source spec invariant, SPEC_FULL.md §3).
type ReplayBuffer struct {
	Capacity int
	events   []ReplayEvent
}

// NewReplayBuffer creates an empty buffer with the given capacity.
func NewReplayBuffer(capacity int) *ReplayBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &ReplayBuffer{Capacity: capacity}
}

// Add inserts e, evicting the lowest-priority resident if the buffer is
// full and e.Priority is strictly greater. Returns whether the insert
// happened.
func (b *ReplayBuffer) Add(e ReplayEvent) bool {
	if len(b.events) < b.Capacity {
		b.events = append(b.events, e)
		return true
	}
	minIdx, minPriority := 0, b.events[0].Priority
	for i, ev := range b.events {
		if ev.Priority < minPriority {
			minIdx, minPriority = i, ev.Priority
		}
	}
	if e.Priority <= minPriority {
		return false
	}
	b.events[minIdx] = e
	return true
}

// Len returns the number of events currently stored.
func (b *ReplayBuffer) Len() int { return len(b.events) }

// Events returns a copy of the currently stored events.
func (b *ReplayBuffer) Events() []ReplayEvent {
	out := make([]ReplayEvent, len(b.events))
	copy(out, b.events)
	return out
}

// RemoveByMemoryID drops any event referencing the given memory id,
// used when a trace is dropped by decay (source spec §7: "replay
// events referencing deleted memories are skipped", here pre-emptively
// pruned rather than discovered lazily at sample time).
func (b *ReplayBuffer) RemoveByMemoryID(memoryID string) {
	out := b.events[:0]
	for _, e := range b.events {
		if e.MemoryID != memoryID {
			out = append(out, e)
		}
	}
	b.events = out
}

// SamplePrioritized draws k events (with replacement) using
// temperature-scaled softmax over priorities, floored at pMin so no
// event ever has exactly zero probability of being drawn.
func (b *ReplayBuffer) SamplePrioritized(k int, temperature, pMin float64, rng *vecmath.RNG) []ReplayEvent {
	if len(b.events) == 0 || k <= 0 {
		return nil
	}
	if temperature <= 0 {
		temperature = 1.0
	}
	weights := make([]float64, len(b.events))
	maxP := b.events[0].Priority
	for _, e := range b.events {
		if e.Priority > maxP {
			maxP = e.Priority
		}
	}
	sum := 0.0
	for i, e := range b.events {
		w := math.Exp((e.Priority - maxP) / temperature)
		if w < pMin {
			w = pMin
		}
		weights[i] = w
		sum += w
	}
	out := make([]ReplayEvent, 0, k)
	for i := 0; i < k; i++ {
		r := rng.Float64() * sum
		acc := 0.0
		chosen := len(weights) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				chosen = j
				break
			}
		}
		out = append(out, b.events[chosen])
	}
	return out
}

// TotalPriority returns the sum of stored priorities, monitored (not
// enforced) per the source spec's replay-buffer invariant.
func (b *ReplayBuffer) TotalPriority() float64 {
	sum := 0.0
	for _, e := range b.events {
		sum += e.Priority
	}
	return sum
}
