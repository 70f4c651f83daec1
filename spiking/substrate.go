/*
=================================================================================
SPIKING SUBSTRATE (C1) — LEAKY INTEGRATE-AND-FIRE + NEUROMODULATED STDP
=================================================================================

This is the event-driven core of the cognitive cycle: a small recurrent
network of leaky integrate-and-fire neurons, one per input dimension,
whose connectivity is shaped online by neuromodulator-gated
spike-timing-dependent plasticity. It replaces the teacher's
goroutine-per-neuron, channel-connected design (neuron.Neuron +
synapse.Synapse, see neuron/neuron.go and synapse/plasticity.go) with a
single-struct, single-writer substrate that advances by one logical
tick per Process call — required by the orchestrator's
not-re-entrant, synchronous cycle model (SPEC_FULL.md §5) — while
keeping the same biological vocabulary: membrane potential, refractory
period, eligibility traces, LTP/LTD.

Connectivity is a dense N×N recurrent weight matrix (N = configured
neuron count = input dimension) rather than the teacher's dynamically
grown/pruned synapse graph, because SPEC_FULL.md's contract is a fixed
per-tick process(Vector) -> Vector with no topology-mutation operation
in scope.
=================================================================================
*/

package spiking

import (
	"sync"
	"time"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

// Modulators bundles the three scalar global neuromodulator levels
// this substrate responds to, replacing the original source's
// global mutable neuromodulator state (omega-snn/neuromodulators.rs)
// with a value held by each Substrate and set through its
// ModulatePlasticity, ModulateGain and ModulateEncoding calls.
type Modulators struct {
	Dopamine       float64 // gates plasticity magnitude
	Norepinephrine float64 // gates overall gain
	Acetylcholine  float64 // gates encoding/attention bias
}

// Config configures a Substrate.
type Config struct {
	NeuronCount int
	Tick        time.Duration
	Threshold   float64
	Tau         time.Duration
	Refractory  time.Duration
	ResetV      float64
	RestV       float64
	Window      time.Duration
	STDPWindow  time.Duration
	Asymmetry   float64
	MinWeight   float64
	MaxWeight   float64
	TraceDecay  float64
	LearningRate float64
	RNGSeed     int64
}

// DefaultConfig returns a Config populated with the package defaults
// for the given neuron count.
func DefaultConfig(neuronCount int) Config {
	return Config{
		NeuronCount:  neuronCount,
		Tick:         DefaultTick,
		Threshold:    DefaultThreshold,
		Tau:          DefaultTau,
		Refractory:   DefaultRefractory,
		ResetV:       DefaultResetPotential,
		RestV:        DefaultRestPotential,
		Window:       DefaultSpikeWindow,
		STDPWindow:   DefaultSTDPWindow,
		Asymmetry:    DefaultSTDPAsymmetry,
		MinWeight:    DefaultMinWeight,
		MaxWeight:    DefaultMaxWeight,
		TraceDecay:   DefaultTraceDecay,
		LearningRate: 0.05,
		RNGSeed:      1,
	}
}

type neuronState struct {
	v               float64
	refractoryUntil time.Duration
	lastSpike       time.Duration
	hasSpiked       bool
	preTrace        float64
	postTrace       float64
}

// Substrate is the spiking core, C1 of the cognitive cycle.
type Substrate struct {
	mu sync.RWMutex

	cfg Config
	rng *vecmath.RNG

	now     time.Duration
	neurons []neuronState
	weights [][]float64 // weights[post][pre]

	spikeBuf []types.Spike // monotonic append-then-prune, oldest first

	mod Modulators

	// for spike_rate(): count of spikes emitted in the most recent tick
	lastTickSpikes int
}

// NewSubstrate builds a Substrate with cfg.NeuronCount neurons and a
// small random recurrent weight matrix seeded by cfg.RNGSeed.
func NewSubstrate(cfg Config) *Substrate {
	if cfg.NeuronCount <= 0 {
		cfg.NeuronCount = 1
	}
	s := &Substrate{
		cfg:     cfg,
		rng:     vecmath.NewRNG(cfg.RNGSeed),
		neurons: make([]neuronState, cfg.NeuronCount),
		weights: make([][]float64, cfg.NeuronCount),
	}
	s.initWeights()
	return s
}

func (s *Substrate) initWeights() {
	n := s.cfg.NeuronCount
	for i := 0; i < n; i++ {
		s.weights[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			// Sparse, small initial recurrent connectivity.
			if s.rng.Float64() < 0.1 {
				s.weights[i][j] = s.rng.Float64() * 0.3
			}
		}
	}
}

// Process advances the substrate by one logical tick, injecting input
// as per-neuron excitatory drive, and returns the trailing-window
// firing rate of every neuron.
func (s *Substrate) Process(input types.Vector) (types.Vector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := vecmath.CheckDim("spiking.Substrate", input, s.cfg.NeuronCount); err != nil {
		return nil, err
	}
	if !input.IsFinite() {
		return nil, &cerrors.EncodingFailed{Reason: "input contains non-finite values"}
	}

	dt := s.cfg.Tick
	dtSec := dt.Seconds()
	tauSec := s.cfg.Tau.Seconds()
	n := s.cfg.NeuronCount

	prevSpiked := make([]bool, n)
	for i := range s.neurons {
		prevSpiked[i] = s.neurons[i].hasSpiked
		s.neurons[i].hasSpiked = false
	}

	s.now += dt
	spiked := make([]bool, n)
	spikeCount := 0

	for i := 0; i < n; i++ {
		ns := &s.neurons[i]
		if s.now < ns.refractoryUntil {
			// Still refractory: decay traces, no integration.
			ns.preTrace *= s.cfg.TraceDecay
			ns.postTrace *= s.cfg.TraceDecay
			continue
		}
		recurrent := 0.0
		for j := 0; j < n; j++ {
			if prevSpiked[j] {
				recurrent += s.weights[i][j]
			}
		}
		drive := (1.0 + 0.5*s.mod.Norepinephrine) * input[i]
		ns.v += (drive + recurrent - ns.v/tauSec) * dtSec

		ns.preTrace *= s.cfg.TraceDecay
		ns.postTrace *= s.cfg.TraceDecay

		if ns.v >= s.cfg.Threshold {
			spiked[i] = true
			ns.hasSpiked = true
			spikeCount++
			ns.v = s.cfg.ResetV
			ns.refractoryUntil = s.now + s.cfg.Refractory
			ns.lastSpike = s.now
			ns.postTrace += 1.0
			s.spikeBuf = append(s.spikeBuf, types.Spike{NeuronID: i, Time: s.now})
		}
	}

	s.applySTDP(spiked)

	// preTrace increments happen after STDP so the LTD branch for this
	// tick's pre-spikes uses the post-trace as it stood *before* this
	// neuron's own new pre-spike, matching the causal "pre before post"
	// asymmetry the formula in SPEC_FULL.md's source spec encodes.
	for i := 0; i < n; i++ {
		if spiked[i] {
			s.neurons[i].preTrace += 1.0
		}
	}

	s.lastTickSpikes = spikeCount
	s.pruneSpikeBuffer()

	return s.activityVectorLocked(), nil
}

// applySTDP performs the pairwise trace-based weight update: for every
// neuron that fired this tick (post), potentiate its incoming weights
// proportional to each presynaptic neuron's eligibility trace (LTP);
// for every neuron whose presynaptic trace is nonzero, depress outgoing
// weights proportional to postsynaptic traces of neurons that fired
// earlier (LTD), scaled by dopamine and the configured asymmetry.
func (s *Substrate) applySTDP(spiked []bool) {
	n := s.cfg.NeuronCount
	eta := s.cfg.LearningRate * s.mod.Dopamine
	if eta == 0 {
		return
	}
	for post := 0; post < n; post++ {
		if !spiked[post] {
			continue
		}
		for pre := 0; pre < n; pre++ {
			if pre == post {
				continue
			}
			dw := eta * s.neurons[pre].preTrace
			s.weights[post][pre] = clamp(s.weights[post][pre]+dw, s.cfg.MinWeight, s.cfg.MaxWeight)
		}
	}
	for pre := 0; pre < n; pre++ {
		if s.neurons[pre].preTrace <= 0 {
			continue
		}
		for post := 0; post < n; post++ {
			if post == pre || spiked[post] {
				continue
			}
			dw := -eta * s.cfg.Asymmetry * s.neurons[post].postTrace
			s.weights[post][pre] = clamp(s.weights[post][pre]+dw, s.cfg.MinWeight, s.cfg.MaxWeight)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Substrate) pruneSpikeBuffer() {
	cutoff := s.now - s.cfg.Window
	i := 0
	for i < len(s.spikeBuf) && s.spikeBuf[i].Time < cutoff {
		i++
	}
	if i > 0 {
		s.spikeBuf = s.spikeBuf[i:]
	}
}

// activityVectorLocked computes the trailing-window firing rate per
// neuron. Caller must hold s.mu.
func (s *Substrate) activityVectorLocked() types.Vector {
	n := s.cfg.NeuronCount
	counts := make([]int, n)
	for _, sp := range s.spikeBuf {
		counts[sp.NeuronID]++
	}
	windowSec := s.cfg.Window.Seconds()
	out := make(types.Vector, n)
	for i, c := range counts {
		if windowSec > 0 {
			out[i] = float64(c) / windowSec
		}
	}
	return out
}

// ModulatePlasticity sets the global dopamine-like modulator in [0,1].
func (s *Substrate) ModulatePlasticity(da float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mod.Dopamine = clamp(da, 0, 1)
}

// ModulateGain sets the global norepinephrine-like gain modulator in [0,1].
func (s *Substrate) ModulateGain(ne float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mod.Norepinephrine = clamp(ne, 0, 1)
}

// ModulateEncoding sets the global acetylcholine-like encoding modulator in [0,1].
func (s *Substrate) ModulateEncoding(ach float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mod.Acetylcholine = clamp(ach, 0, 1)
}

// Modulators returns the currently set neuromodulator bundle.
func (s *Substrate) Modulators() Modulators {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mod
}

// SpikeRate returns the mean per-neuron firing rate over the trailing window.
func (s *Substrate) SpikeRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.activityVectorLocked()
	return vecmath.Mean(v)
}

// Reset clears all membrane state, traces, the spike buffer, and
// reinitializes the recurrent weight matrix deterministically from the
// substrate's configured seed.
func (s *Substrate) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = 0
	s.neurons = make([]neuronState, s.cfg.NeuronCount)
	s.spikeBuf = nil
	s.mod = Modulators{}
	s.lastTickSpikes = 0
	s.rng.Seed(s.cfg.RNGSeed)
	s.initWeights()
}

// NeuronCount returns the configured number of neurons.
func (s *Substrate) NeuronCount() int { return s.cfg.NeuronCount }
