/*
=================================================================================
COGNITIVE-CYCLE ORCHESTRATOR (C7)
=================================================================================

Engine is the single coordinator-of-components pattern the teacher uses
for its ExtracellularMatrix (extracellular/matrix.go): one struct that
owns every subsystem, wires them together in a fixed order each tick,
and is the only thing any caller ever holds a reference to. Components
never reference each other or the Engine directly — they only ever
exchange types.Vector, the same decoupling discipline the teacher's
matrix enforces between neurons and synapses.

Per SPEC_FULL.md §5, process is not re-entrant: a single mutex
serializes calls, while reads (State, Metrics) use a second read/write
guard so snapshot reads can run concurrently with an in-flight cycle.
=================================================================================
*/

package cortex

import (
	"sync"
	"time"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/config"
	"github.com/prancer-io/exogenesis-omega-core/hippocampus"
	"github.com/prancer-io/exogenesis-omega-core/integrate"
	"github.com/prancer-io/exogenesis-omega-core/predictive"
	"github.com/prancer-io/exogenesis-omega-core/salience"
	"github.com/prancer-io/exogenesis-omega-core/selfmodel"
	"github.com/prancer-io/exogenesis-omega-core/spiking"
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// Engine is C7: the cognitive-cycle orchestrator wiring C1-C6.
type Engine struct {
	cycleMu sync.Mutex // serializes process(); not re-entrant

	stateMu sync.RWMutex // guards everything below for snapshot reads

	cfg config.Config

	substrate  *spiking.Substrate
	salienceC  *salience.Computer
	memory     *hippocampus.Pipeline
	workspace  *integrate.Workspace
	phi        *integrate.PhiEstimator
	hierarchy  *predictive.Hierarchy
	observer   *selfmodel.Observer

	active bool
	sleep  sleepState

	cycleCount        uint64
	avgProcessingTime float64 // ms, EMA alpha=0.1
	lastPhi           float64
	lastFreeEnergy    float64
	lastConsolidation float64
	lastSelfReference float64
	strangeLoopCount  uint64
	contentSeq        uint64
}

// sleepState tracks the minimal two-stage (SWS, REM) automaton
// described in SPEC_FULL.md §D: count awake cycles, then alternate
// fixed-length SWS/REM windows before waking again.
type sleepState struct {
	stage        types.SleepStage
	awakeStreak  uint64
	stageElapsed uint64
}

// New builds an Engine from cfg and activates it.
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	weights := salience.Weights{
		Novelty:   cfg.NoveltyWeight,
		Contrast:  cfg.ContrastWeight,
		Change:    cfg.ChangeWeight,
		Intensity: cfg.IntensityWeight,
	}

	dims := make([]int, cfg.PredictiveLevels)
	for i := range dims {
		dims[i] = cfg.InputDim
	}

	e := &Engine{
		cfg:       cfg,
		substrate: spiking.NewSubstrate(spiking.DefaultConfig(cfg.InputDim)),
		salienceC: salience.New(weights),
		memory: hippocampus.New(hippocampus.Config{
			InputDim:          cfg.InputDim,
			DGSize:            cfg.DGSize,
			CA3Size:           cfg.CA3Size,
			CA1Size:           cfg.CA1Size,
			DGSparsity:        cfg.DGSparsity,
			CA3Recurrence:     cfg.CA3Recurrence,
			LearningRate:      cfg.LearningRate,
			ReplayBufferSize:  cfg.ReplayBufferSize,
			RippleThreshold:   cfg.RippleThreshold,
			ReplayTemperature: cfg.ReplayTemperature,
			ThetaFrequencyHz:  cfg.ThetaFrequencyHz,
			RNGSeed:           cfg.RNGSeed,
		}),
		workspace: integrate.NewWorkspace(cfg.WorkspaceCapacity, cfg.IgnitionThreshold, cfg.WorkspaceDecayRate),
		phi:       integrate.NewPhiEstimator(cfg.InputDim, cfg.PhiEnumCap),
		hierarchy: predictive.NewHierarchy(dims, cfg.LearningRate),
		observer:  selfmodel.NewObserver(cfg.MaxDepth, cfg.InputDim, 0.1),
		active:    true,
	}
	return e, nil
}

// Process runs one cognitive cycle, or dispatches into the sleep
// branch if the sleep policy says to. Per §4.7/§5: not re-entrant,
// aborts with state unchanged on any component error, never partially
// mutates on failure.
func (e *Engine) Process(input types.Vector) (types.ProcessingResult, error) {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	start := e.now()

	e.stateMu.RLock()
	active := e.active
	e.stateMu.RUnlock()
	if !active {
		return types.ProcessingResult{}, &cerrors.NotActive{}
	}
	if err := vecmath.CheckDim("cortex.Engine.Process", input, e.cfg.InputDim); err != nil {
		return types.ProcessingResult{}, err
	}

	if stage, ok := e.advanceSleepPolicy(); ok {
		return e.runSleepBranch(stage, start)
	}

	result, stats, err := e.runCognitiveCycle(input)
	if err != nil {
		return types.ProcessingResult{}, err
	}

	result.ProcessingTimeMs = uint64(e.since(start).Milliseconds())
	e.commitCycle(result, stats)
	return result, nil
}

// cycleStats carries the cycle-local metrics produced while running
// the pipeline; they are only written into Engine state once, under
// stateMu, by commitCycle — never mutated mid-cycle on a field a
// concurrent State()/Metrics() read could observe torn.
type cycleStats struct {
	phi           float64
	freeEnergy    float64
	selfReference float64
}

// runCognitiveCycle implements §4.7 step 3's fixed pipeline order.
func (e *Engine) runCognitiveCycle(input types.Vector) (types.ProcessingResult, cycleStats, error) {
	var stats cycleStats

	neural, err := e.substrate.Process(input)
	if err != nil {
		return types.ProcessingResult{}, stats, err
	}

	attendedMap := e.salienceC.ComputeMap(neural)
	attended := attendedMap.Scores
	attentionStrength := vecmath.Mean(attended)

	conscious, consciousnessLevel := e.integrate(attended, &stats)

	memOut, memoryEncoded, err := e.processMemory(conscious)
	if err != nil {
		return types.ProcessingResult{}, stats, err
	}

	reflected, loopDetected, err := e.reflect(memOut, &stats)
	if err != nil {
		return types.ProcessingResult{}, stats, err
	}

	e.updatePredictive(neural, attended, conscious, &stats)

	return types.ProcessingResult{
		Output:              reflected,
		ConsciousnessLevel:  consciousnessLevel,
		AttentionStrength:   clamp01(attentionStrength),
		MemoryEncoded:       memoryEncoded,
		StrangeLoopDetected: loopDetected,
	}, stats, nil
}

// integrate runs C4: computes Phi over the attended state, admits it
// as workspace content, forms coalitions, and broadcasts. The
// conscious output is the broadcast winner's mean member vector when
// ignition occurs, else the attended vector itself (pre-conscious
// access, still the best available candidate).
func (e *Engine) integrate(attended types.Vector, stats *cycleStats) (types.Vector, float64) {
	phi := e.phi.Compute(attended)
	stats.phi = phi

	e.contentSeq++
	id := contentID(e.contentSeq)
	e.workspace.Compete(integrate.Content{
		ID:         id,
		Vector:     attended,
		Activation: vecmath.Mean(attended),
		Source:     "salience",
	})

	e.workspace.FormCoalitions()
	event, ignited := e.workspace.Broadcast()
	consciousnessLevel := clamp01(phi / (phi + 1))
	if !ignited {
		return attended, consciousnessLevel
	}

	winner := types.Zeros(len(attended))
	count := 0
	for _, c := range e.workspace.Contents() {
		for _, m := range event.CoalitionMembers {
			if c.ID == m {
				winner = vecmath.Add(winner, c.Vector)
				count++
			}
		}
	}
	if count == 0 {
		return attended, consciousnessLevel
	}
	return vecmath.Scale(winner, 1.0/float64(count)), clamp01((phi/(phi+1))*1.1)
}

// processMemory runs C3: encodes conscious into the hippocampal
// pipeline and retrieves its pattern-completed projection.
func (e *Engine) processMemory(conscious types.Vector) (types.Vector, bool, error) {
	_, err := e.memory.Encode(conscious)
	if err != nil {
		if _, ok := err.(*cerrors.EncodingFailed); ok {
			// Degenerate input never reaches the hippocampus with a
			// usable sparse code; the cycle continues with the
			// pre-memory conscious vector instead of aborting, since
			// §7's propagation rule only names replay/SWR as
			// best-effort, but an all-zero conscious state carries no
			// information to encode or retrieve in the first place.
			return conscious, false, nil
		}
		return nil, false, err
	}
	memOut, err := e.memory.Retrieve(conscious)
	if err != nil {
		return nil, false, err
	}
	return memOut, true, nil
}

// reflect runs C6 at the configured meta_levels depth.
func (e *Engine) reflect(memOut types.Vector, stats *cycleStats) (types.Vector, bool, error) {
	result, err := e.observer.Observe(memOut, e.cfg.MetaLevels)
	if err != nil {
		return nil, false, err
	}
	stats.selfReference = result.SelfReference
	return result.Levels[len(result.Levels)-1].State, result.LoopDetected, nil
}

// updatePredictive runs C5's error/precision update and free-energy
// computation every cycle so Metrics.FreeEnergy stays current, then
// feeds the bottom level's prediction error into C1 as a dopamine-like
// plasticity gate (source spec §2: C5's error signal modulates C1's
// STDP rate). Active inference's SelectAction is a separate,
// caller-invoked operation (SPEC_FULL.md §D) not on this mandatory path.
func (e *Engine) updatePredictive(neural, attended, conscious types.Vector, stats *cycleStats) {
	levelInputs := []types.Vector{neural, attended, conscious}
	if n := len(e.hierarchy.Levels()); n != len(levelInputs) {
		levelInputs = levelInputs[:min(n, len(levelInputs))]
		for len(levelInputs) < n {
			levelInputs = append(levelInputs, conscious)
		}
	}
	fe, err := e.hierarchy.Step(levelInputs, types.Zeros(e.cfg.InputDim))
	if err != nil {
		return
	}
	stats.freeEnergy = fe

	if levels := e.hierarchy.Levels(); len(levels) > 0 {
		errMag := meanAbs(levels[0].LastError)
		e.substrate.ModulatePlasticity(errMag / (errMag + 1))
	}
}

// meanAbs returns the mean absolute value of v's components, 0 for an
// empty vector.
func meanAbs(v types.Vector) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		sum += x
	}
	return sum / float64(len(v))
}

// Hierarchy exposes the predictive hierarchy for the optional
// post-cycle SelectAction call described in SPEC_FULL.md §D.
func (e *Engine) Hierarchy() *predictive.Hierarchy { return e.hierarchy }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func contentID(seq uint64) string {
	const digits = "0123456789abcdef"
	if seq == 0 {
		return "c0"
	}
	buf := make([]byte, 0, 16)
	for seq > 0 {
		buf = append([]byte{digits[seq%16]}, buf...)
		seq /= 16
	}
	return "c" + string(buf)
}

func (e *Engine) now() time.Time                  { return time.Now() }
func (e *Engine) since(t time.Time) time.Duration { return time.Since(t) }
