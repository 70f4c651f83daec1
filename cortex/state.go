package cortex

import (
	"time"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

const processingTimeEMA = 0.1

// commitCycle updates the running averages, monotonic counter, and
// cycle-local metrics after a successful cognitive cycle. Never called
// on cycle failure, per §4.7's "counter is not incremented on failure".
func (e *Engine) commitCycle(result types.ProcessingResult, stats cycleStats) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	e.cycleCount++
	if e.cycleCount == 1 {
		e.avgProcessingTime = float64(result.ProcessingTimeMs)
	} else {
		e.avgProcessingTime = (1-processingTimeEMA)*e.avgProcessingTime + processingTimeEMA*float64(result.ProcessingTimeMs)
	}
	if result.StrangeLoopDetected {
		e.strangeLoopCount++
	}
	e.lastPhi = stats.phi
	e.lastFreeEnergy = stats.freeEnergy
	e.lastSelfReference = stats.selfReference
}

// State returns a point-in-time snapshot safe to read concurrently
// with an in-flight Process call (snapshot semantics, §5).
func (e *Engine) State() types.State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	mode := "awake"
	if e.sleep.stage != types.SleepStageNone {
		mode = string(e.sleep.stage)
	}

	return types.State{
		CognitiveMode:      mode,
		ActivityLevel:      e.substrate.SpikeRate(),
		Integration:        e.lastPhi,
		ConsciousnessLevel: clamp01(e.lastPhi / (e.lastPhi + 1)),
		AttentionFocus:     e.observer.SelfModel(),
		SelfReference:      e.lastSelfReference,
		SleepStage:         e.sleep.stage,
		CycleCount:         e.cycleCount,
		TimestampMs:        time.Now().UnixMilli(),
	}
}

// Metrics returns accumulated running statistics across cycles.
func (e *Engine) Metrics() types.Metrics {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	return types.Metrics{
		Cycles:             e.cycleCount,
		AvgProcessingTime:  e.avgProcessingTime,
		Phi:                e.lastPhi,
		FreeEnergy:         e.lastFreeEnergy,
		ConsolidationRatio: e.lastConsolidation,
		StrangeLoopCount:   e.strangeLoopCount,
		SpikeRate:          e.substrate.SpikeRate(),
	}
}

// Deactivate causes subsequent Process calls to fail with NotActive,
// without interrupting any in-flight cycle (§5: cancellation model).
func (e *Engine) Deactivate() {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.active = false
}

// Activate re-enables Process after a Deactivate call.
func (e *Engine) Activate() {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.active = true
}

// Reset resets every component and zeros the cycle counter, per §4.7's
// reset() contract.
func (e *Engine) Reset() {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	e.substrate.Reset()
	e.salienceC.Reset()
	e.memory.Reset()
	e.workspace.Reset()
	e.phi.Reset()
	e.hierarchy.Reset()
	e.observer.Reset()

	e.cycleCount = 0
	e.avgProcessingTime = 0
	e.lastPhi = 0
	e.lastFreeEnergy = 0
	e.lastConsolidation = 0
	e.strangeLoopCount = 0
	e.contentSeq = 0
	e.lastSelfReference = 0
	e.sleep = sleepState{}
	e.active = true
}
