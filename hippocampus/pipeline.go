/*
=================================================================================
HIPPOCAMPAL PIPELINE (C3) — ENCODE / RETRIEVE / REPLAY / CONSOLIDATE
=================================================================================

Pipeline wires EC -> DG -> CA3 -> CA1 the way extracellular.Matrix wires
neurons and synapses together for the teacher (extracellular/matrix.go):
a single coordinating struct owns every layer and the memory table,
and nothing outside the pipeline ever holds a reference into a layer's
internals.
=================================================================================
*/

package hippocampus

import (
	"math"
	"time"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// Config configures a Pipeline.
type Config struct {
	InputDim          int
	DGSize            int
	CA3Size           int
	CA1Size           int
	DGSparsity        float64
	CA3Recurrence     float64
	LearningRate      float64
	ReplayBufferSize  int
	RippleThreshold   float64
	ReplayTemperature float64
	ThetaFrequencyHz  float64
	RNGSeed           int64
}

// Pipeline is C3: the hippocampal memory core.
type Pipeline struct {
	cfg Config
	rng *vecmath.RNG

	ec  *entorhinal
	dg  *dentateGyrus
	ca3 *ca3
	ca1 *ca1

	traces   map[string]*Trace
	order    []string // insertion order, consistent with creation time
	replayBuf *ReplayBuffer

	now   time.Duration
	theta float64 // phase in [0, 2*pi)
}

// New builds a Pipeline from cfg.
func New(cfg Config) *Pipeline {
	rng := vecmath.NewRNG(cfg.RNGSeed)
	return &Pipeline{
		cfg:       cfg,
		rng:       rng,
		ec:        newEntorhinal(cfg.InputDim, cfg.DGSize, rng),
		dg:        newDentateGyrus(cfg.DGSparsity),
		ca3:       newCA3(cfg.DGSize, cfg.CA3Size, cfg.CA3Recurrence, rng),
		ca1:       newCA1(cfg.CA3Size, cfg.CA1Size, rng),
		traces:    make(map[string]*Trace),
		replayBuf: NewReplayBuffer(cfg.ReplayBufferSize),
	}
}

// Encode runs input through EC -> DG -> CA3 -> CA1, stores the
// resulting Trace keyed by a new id from the seeded RNG, and pushes an
// initial-priority replay event. Returns the new trace's id. The id
// strings do not sort in creation order; creation order is kept by the
// pipeline's insertion-order list.
func (p *Pipeline) Encode(input types.Vector) (string, error) {
	if err := vecmath.CheckDim("hippocampus.Pipeline.Encode", input, p.cfg.InputDim); err != nil {
		return "", err
	}
	if vecmath.AbsMax(input) == 0 {
		return "", &cerrors.EncodingFailed{Reason: "input is degenerate (all-zero)"}
	}

	ecOut := p.ec.encode(input)
	dgCode := p.dg.separate(ecOut)
	ca3In := p.ca3.projectIn(dgCode)
	ca3Code := p.ca3.encodeHebbian(ca3In, p.cfg.LearningRate)
	p.ca1.trainAssociation(input, ca3Code)
	ca1Out := p.ca1.project(ca3Code)

	id := p.rng.NextID()
	if _, exists := p.traces[id]; exists {
		// Never overwrite a prior memory id (source spec invariant).
		return "", &cerrors.EncodingFailed{Reason: "generated id collided with an existing trace"}
	}
	trace := &Trace{
		ID:        id,
		Input:     input.Clone(),
		DGCode:    dgCode,
		CA3Code:   ca3Code,
		CA1Output: ca1Out,
		CreatedAt: p.now,
		Strength:  1.0,
	}
	p.traces[id] = trace
	p.order = append(p.order, id)

	p.replayBuf.Add(ReplayEvent{MemoryID: id, Pattern: ca3Code.Clone(), Ts: p.now, Priority: 1.0})

	return id, nil
}

// Retrieve runs cue through EC -> DG -> CA3.Complete -> CA1 -> EC.decode.
func (p *Pipeline) Retrieve(cue types.Vector) (types.Vector, error) {
	if err := vecmath.CheckDim("hippocampus.Pipeline.Retrieve", cue, p.cfg.InputDim); err != nil {
		return nil, err
	}
	ecOut := p.ec.encode(cue)
	dgCode := p.dg.separate(ecOut)
	ca3In := p.ca3.projectIn(dgCode)
	completed := p.ca3.complete(ca3In)
	ca1Out := p.ca1.project(completed)
	return p.ec.decode(ca1Out), nil
}

// Trace returns the trace with the given id, if it exists.
func (p *Pipeline) Trace(id string) (*Trace, bool) {
	t, ok := p.traces[id]
	return t, ok
}

// Len returns the number of traces currently stored.
func (p *Pipeline) Len() int { return len(p.traces) }

// Advance moves the pipeline's logical clock forward by dt, needed so
// CreatedAt and replay Ts timestamps advance between ticks.
// cortex.Engine calls this once per sleep-branch tick; its awake
// cognitive cycle does not advance the clock.
func (p *Pipeline) Advance(dt time.Duration) { p.now += dt }

// StepTheta advances the hippocampal theta phase by 2*pi*f*dt,
// wrapping into [0, 2*pi). f is cfg.ThetaFrequencyHz, or 8 Hz when that
// is <= 0.
func (p *Pipeline) StepTheta(dt time.Duration) float64 {
	f := p.cfg.ThetaFrequencyHz
	if f <= 0 {
		f = 8.0
	}
	p.theta += 2 * math.Pi * f * dt.Seconds()
	p.theta = math.Mod(p.theta, 2*math.Pi)
	if p.theta < 0 {
		p.theta += 2 * math.Pi
	}
	return p.theta
}

// ThetaPhase returns the current theta phase without advancing it.
func (p *Pipeline) ThetaPhase() float64 { return p.theta }

// Decay multiplies every trace's strength by factor and drops traces
// whose strength falls below MinTraceStrength, pruning their replay
// events along with them.
func (p *Pipeline) Decay(factor float64) {
	if factor <= 0 || factor >= 1 {
		return
	}
	var dropped []string
	for id, t := range p.traces {
		t.Strength *= factor
		if t.Strength < MinTraceStrength {
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		delete(p.traces, id)
		p.replayBuf.RemoveByMemoryID(id)
		p.removeFromOrder(id)
	}
}

func (p *Pipeline) removeFromOrder(id string) {
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Reset clears every trace, the replay buffer, and theta phase, and
// reinitializes all layers deterministically from the pipeline's seed.
func (p *Pipeline) Reset() {
	p.rng.Seed(p.cfg.RNGSeed)
	p.ec = newEntorhinal(p.cfg.InputDim, p.cfg.DGSize, p.rng)
	p.dg = newDentateGyrus(p.cfg.DGSparsity)
	p.ca3 = newCA3(p.cfg.DGSize, p.cfg.CA3Size, p.cfg.CA3Recurrence, p.rng)
	p.ca1 = newCA1(p.cfg.CA3Size, p.cfg.CA1Size, p.rng)
	p.traces = make(map[string]*Trace)
	p.order = nil
	p.replayBuf = NewReplayBuffer(p.cfg.ReplayBufferSize)
	p.now = 0
	p.theta = 0
}

// CA3Activity returns CA3's running activity estimate, the value the
// sharp-wave-ripple gate compares against RippleThreshold.
func (p *Pipeline) CA3Activity() float64 { return p.ca3.activityEMA }

// ReplayBufferLen reports the current number of stored replay events.
func (p *Pipeline) ReplayBufferLen() int { return p.replayBuf.Len() }
