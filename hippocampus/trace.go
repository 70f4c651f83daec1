/*
=================================================================================
MEMORY TRACE & REPLAY EVENT TYPES
=================================================================================

Grounded on the same "registry of autonomous-but-passive records, keyed
by id, owned by one coordinator" shape as the teacher's astrocyte
spatial registry (extracellular/astrocyte_network.go) and health
registry (extracellular/microglia.go), but keyed by a time-ordered
string id (deterministic under the seed, not sortable by creation
time) instead of a spatial Position3D, and without the teacher's
goroutine-per-component lifecycle — traces are plain data, mutated only
through the Pipeline that owns them.
=================================================================================
*/

package hippocampus

import (
	"time"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

// MinTraceStrength is the floor below which a trace is dropped by Decay.
const MinTraceStrength = 0.01

// MaxTraceStrength caps replay-driven strengthening.
const MaxTraceStrength = 10.0

// Trace is a single hippocampal memory: immutable identity (ID, Input,
// the three pipeline codes, CreatedAt) plus mutable metadata (Strength,
// ReplayCount) updated by replay and consolidation.
type Trace struct {
	ID        string
	Input     types.Vector
	DGCode    types.Vector
	CA3Code   types.Vector
	CA1Output types.Vector
	Context   types.Vector // optional; nil when not supplied
	CreatedAt time.Duration
	Strength  float64
	ReplayCount int
}

// ReplayEvent references a stored trace for prioritized replay.
type ReplayEvent struct {
	MemoryID string
	Pattern  types.Vector
	Ts       time.Duration
	Priority float64
}

// Ripple describes one sharp-wave-ripple burst. Duration and Frequency
// are descriptive metadata only, per the source spec.
type Ripple struct {
	Patterns  []types.Vector
	MemberIDs []string
	Duration  time.Duration
	Frequency float64 // Hz
}
