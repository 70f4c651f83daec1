/*
=================================================================================
SPIKING SUBSTRATE CONSTANTS — LEAKY INTEGRATE-AND-FIRE DEFAULTS
=================================================================================

Biological parameter defaults, kept in their own file the way the
teacher's neuron package separates constants_neuron.go,
constants_axon.go, and constants_coincidence.go from behavior. Values
are standard textbook LIF ranges, not tuned to any specific dataset.
=================================================================================
*/

package spiking

import "time"

const (
	// DefaultTick is the logical simulation step advanced by one
	// Process call (SPEC_FULL.md source spec §4.1: "default 1 ms logical").
	DefaultTick = 1 * time.Millisecond

	// DefaultThreshold is the membrane potential at which a neuron fires.
	DefaultThreshold = 1.0

	// DefaultTau is the membrane leak time constant.
	DefaultTau = 20 * time.Millisecond

	// DefaultRefractory is how long a neuron is unable to fire again
	// after firing.
	DefaultRefractory = 2 * time.Millisecond

	// DefaultResetPotential is what V is set to immediately after a fire.
	DefaultResetPotential = 0.0

	// DefaultRestPotential is the potential a neuron decays toward
	// between inputs.
	DefaultRestPotential = 0.0

	// DefaultSpikeWindow is the rolling buffer retention window (W).
	DefaultSpikeWindow = 200 * time.Millisecond

	// DefaultSTDPWindow is the pairing window (Delta) within which a
	// pre/post spike pair contributes to plasticity.
	DefaultSTDPWindow = 20 * time.Millisecond

	// DefaultSTDPAsymmetry (alpha) scales the depression branch of STDP
	// relative to potentiation.
	DefaultSTDPAsymmetry = 1.05

	// DefaultMinWeight / DefaultMaxWeight bound synaptic weights.
	DefaultMinWeight = 0.0
	DefaultMaxWeight = 2.0

	// DefaultTraceDecay is the exponential decay constant applied to
	// pre/post eligibility traces between spikes, expressed as a
	// per-millisecond multiplicative factor.
	DefaultTraceDecay = 0.95
)
