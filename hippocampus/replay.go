package hippocampus

import (
	"time"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
)

// ReplayOutcome describes which traces a Replay or ripple pass touched.
type ReplayOutcome struct {
	ReplayedIDs []string
	Failed      []error // ReplayFailed entries, never panicked on; cortex.Engine does not read or log them
}

// Replay samples n events via prioritized softmax sampling and, for
// each surviving trace, strengthens it (x1.1, capped at
// MaxTraceStrength), increments its replay count, reactivates its CA3
// attractor basin, and recomputes its CA1 projection.
func (p *Pipeline) Replay(n int) ReplayOutcome {
	events := p.replayBuf.SamplePrioritized(n, p.cfg.ReplayTemperature, 0.01, p.rng)
	return p.applyReplay(events, 1.1)
}

func (p *Pipeline) applyReplay(events []ReplayEvent, factor float64) ReplayOutcome {
	var outcome ReplayOutcome
	for _, ev := range events {
		trace, ok := p.traces[ev.MemoryID]
		if !ok {
			outcome.Failed = append(outcome.Failed, &cerrors.ReplayFailed{
				Reason: "replay event references missing trace: " + ev.MemoryID,
			})
			continue
		}
		trace.Strength = minF(trace.Strength*factor, MaxTraceStrength)
		trace.ReplayCount++
		p.ca3.reactivate(trace.CA3Code, p.cfg.LearningRate)
		trace.CA1Output = p.ca1.project(trace.CA3Code)
		outcome.ReplayedIDs = append(outcome.ReplayedIDs, trace.ID)
	}
	return outcome
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ReplaySession checks the sharp-wave-ripple gate first and falls back
// to ordinary prioritized Replay(n) otherwise, returning which path
// ran. Supplements the distilled spec's independent replay(n)/SWR
// primitives with the original source's batched "replay session"
// shape (omega-hippocampus/replay.rs) without changing either
// primitive's own contract.
func (p *Pipeline) ReplaySession(n int) (ripple *Ripple, outcome ReplayOutcome) {
	if r, ok := p.TrySharpWaveRipple(); ok {
		return r, ReplayOutcome{ReplayedIDs: r.MemberIDs}
	}
	return nil, p.Replay(n)
}

const swrPatternCount = 5

// TrySharpWaveRipple emits a ripple if CA3's running activity exceeds
// the configured threshold, strengthening (x1.2) and incrementing the
// replay count of every participating trace. Returns ok=false with a
// nil ripple ("no ripple this tick") if the gate isn't met or no
// patterns are available to sample — never an error (source spec §7:
// SWR gating is best-effort).
func (p *Pipeline) TrySharpWaveRipple() (*Ripple, bool) {
	if p.ca3.activityEMA < p.cfg.RippleThreshold {
		return nil, false
	}
	events := p.replayBuf.SamplePrioritized(swrPatternCount, p.cfg.ReplayTemperature, 0.01, p.rng)
	if len(events) == 0 {
		return nil, false
	}
	outcome := p.applyReplay(events, 1.2)
	if len(outcome.ReplayedIDs) == 0 {
		return nil, false
	}
	patterns := make([]types.Vector, 0, len(outcome.ReplayedIDs))
	for _, id := range outcome.ReplayedIDs {
		if t, ok := p.traces[id]; ok {
			patterns = append(patterns, t.CA3Code)
		}
	}
	durationMs := 80.0 + p.rng.Float64()*20.0
	frequencyHz := 150.0 + p.rng.Float64()*30.0
	return &Ripple{
		Patterns:  patterns,
		MemberIDs: outcome.ReplayedIDs,
		Duration:  time.Duration(durationMs * float64(time.Millisecond)),
		Frequency: frequencyHz,
	}, true
}
