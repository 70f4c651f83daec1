package cortex

import (
	"time"

	"github.com/prancer-io/exogenesis-omega-core/types"
)

// sleepConsciousnessLevel is the fixed low-but-nonzero consciousness
// level reported while the sleep branch is active (source spec
// scenario S6: consciousness never fully flatlines during sleep).
const sleepConsciousnessLevel = 0.1

// advanceSleepPolicy implements the minimal two-stage automaton: after
// cfg.AwakeCyclesBeforeSleep consecutive awake cycles, spend
// cfg.SleepStageCycles cycles in SWS, then cfg.SleepStageCycles in REM,
// then return to awake. Returns the active sleep stage and ok=true iff
// this call should run the sleep branch instead of the cognitive cycle.
func (e *Engine) advanceSleepPolicy() (types.SleepStage, bool) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	switch e.sleep.stage {
	case types.SleepStageNone:
		if e.sleep.awakeStreak < e.cfg.AwakeCyclesBeforeSleep {
			e.sleep.awakeStreak++
			return types.SleepStageNone, false
		}
		e.sleep.stage = types.SleepStageSWS
		e.sleep.stageElapsed = 1
		e.sleep.awakeStreak = 0
		return e.sleep.stage, true

	case types.SleepStageSWS:
		if e.sleep.stageElapsed >= e.cfg.SleepStageCycles {
			e.sleep.stage = types.SleepStageREM
			e.sleep.stageElapsed = 0
		}
		e.sleep.stageElapsed++
		return e.sleep.stage, true

	case types.SleepStageREM:
		if e.sleep.stageElapsed >= e.cfg.SleepStageCycles {
			e.sleep.stage = types.SleepStageNone
			e.sleep.stageElapsed = 0
			e.sleep.awakeStreak = 1
			return types.SleepStageNone, false
		}
		e.sleep.stageElapsed++
		return types.SleepStageREM, true
	}
	return types.SleepStageNone, false
}

// runSleepBranch advances the hippocampal clock, invokes slow-wave or
// REM consolidation, and returns a minimal result per §4.7 step 2.
func (e *Engine) runSleepBranch(stage types.SleepStage, start time.Time) (types.ProcessingResult, error) {
	e.stateMu.Lock()
	e.memory.Advance(time.Duration(float64(time.Second) / e.cfg.ThetaFrequencyHz))

	var consolidated int
	switch stage {
	case types.SleepStageSWS:
		if _, ok := e.memory.TrySharpWaveRipple(); ok {
			consolidated = 1
		} else {
			outcome := e.memory.Replay(4)
			consolidated = len(outcome.ReplayedIDs)
		}
	case types.SleepStageREM:
		outcome := e.memory.Replay(2)
		e.memory.Decay(0.999)
		consolidated = len(outcome.ReplayedIDs)
	}

	total := e.memory.Len()
	if total > 0 {
		e.lastConsolidation = float64(consolidated) / float64(total)
	}
	e.stateMu.Unlock()

	return types.ProcessingResult{
		Output:             types.Zeros(e.cfg.InputDim),
		ConsciousnessLevel: sleepConsciousnessLevel,
		ProcessingTimeMs:   uint64(e.since(start).Milliseconds()),
	}, nil
}
