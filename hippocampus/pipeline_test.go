package hippocampus

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/types"
	"github.com/prancer-io/exogenesis-omega-core/vecmath"
)

func testConfig() Config {
	return Config{
		InputDim:          64,
		DGSize:            640,
		CA3Size:           160,
		CA1Size:           64,
		DGSparsity:        0.02,
		CA3Recurrence:     0.04,
		LearningRate:      0.05,
		ReplayBufferSize:  64,
		RippleThreshold:   0.7,
		ReplayTemperature: 1.0,
		ThetaFrequencyHz:  8.0,
		RNGSeed:           42,
	}
}

// TestMemoryRoundTrip is source-spec scenario S3: encode v, retrieve
// with the last half zeroed, expect cosine similarity > 0.7.
func TestMemoryRoundTrip(t *testing.T) {
	p := New(testConfig())
	v := make(types.Vector, 64)
	for i := range v {
		v[i] = float64(i) / 64.0
	}
	if _, err := p.Encode(v); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	cue := v.Clone()
	for i := 32; i < 64; i++ {
		cue[i] = 0
	}
	out, err := p.Retrieve(cue)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	sim := vecmath.CosineSimilarity(out, v)
	if sim <= 0.7 {
		t.Fatalf("cosine similarity %v did not clear the 0.7 threshold", sim)
	}
}

func TestEncodeRejectsWrongDimension(t *testing.T) {
	p := New(testConfig())
	_, err := p.Encode(types.Vector{1, 2, 3})
	if err == nil {
		t.Fatalf("expected DimensionMismatch")
	}
}

func TestDGSparsityInvariant(t *testing.T) {
	p := New(testConfig())
	v := make(types.Vector, 64)
	for i := range v {
		v[i] = float64(i+1) / 64.0
	}
	if _, err := p.Encode(v); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var last *Trace
	for _, id := range p.order {
		last, _ = p.Trace(id)
	}
	nonzero := 0
	for _, x := range last.DGCode {
		if x != 0 {
			nonzero++
		}
	}
	maxAllowed := int(0.02*float64(p.cfg.DGSize)) + 1
	if nonzero > maxAllowed {
		t.Fatalf("DG code has %d nonzero elements, want <= %d", nonzero, maxAllowed)
	}
}

func TestReplayBufferRejectsLowerPriorityWhenFull(t *testing.T) {
	b := NewReplayBuffer(2)
	b.Add(ReplayEvent{MemoryID: "a", Priority: 1.0})
	b.Add(ReplayEvent{MemoryID: "b", Priority: 1.0})
	ok := b.Add(ReplayEvent{MemoryID: "c", Priority: 0.5})
	if ok {
		t.Fatalf("expected insert of lower-priority event to be rejected when full")
	}
	if b.Len() != 2 {
		t.Fatalf("buffer length should remain 2, got %d", b.Len())
	}
}

func TestReplayBufferEvictsOnStrictlyHigherPriority(t *testing.T) {
	b := NewReplayBuffer(1)
	b.Add(ReplayEvent{MemoryID: "a", Priority: 1.0})
	ok := b.Add(ReplayEvent{MemoryID: "b", Priority: 2.0})
	if !ok {
		t.Fatalf("expected higher-priority insert to evict")
	}
	if b.Events()[0].MemoryID != "b" {
		t.Fatalf("expected b to have replaced a")
	}
}

// TestReplayPriorityBias is source-spec scenario S4.
func TestReplayPriorityBias(t *testing.T) {
	b := NewReplayBuffer(16)
	for i := 0; i < 10; i++ {
		b.Add(ReplayEvent{MemoryID: "low", Priority: 0.1})
	}
	b.Add(ReplayEvent{MemoryID: "high", Priority: 10.0})

	rng := vecmath.NewRNG(7)
	highCount := 0
	for i := 0; i < 100; i++ {
		events := b.SamplePrioritized(1, 1.0, 0.01, rng)
		if len(events) == 1 && events[0].MemoryID == "high" {
			highCount++
		}
	}
	if highCount <= 30 {
		t.Fatalf("expected high-priority event sampled > 30/100 times, got %d", highCount)
	}
}

func TestDecayDropsBelowFloor(t *testing.T) {
	p := New(testConfig())
	v := make(types.Vector, 64)
	v[0] = 1.0
	id, err := p.Encode(v)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		p.Decay(0.5)
	}
	if _, ok := p.Trace(id); ok {
		t.Fatalf("expected trace to be dropped after repeated decay")
	}
}
