package spiking

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/types"
)

func TestProcessRejectsWrongDimension(t *testing.T) {
	s := NewSubstrate(DefaultConfig(4))
	_, err := s.Process(types.Vector{0.1, 0.2})
	if err == nil {
		t.Fatalf("expected DimensionMismatch error")
	}
	var dm *cerrors.DimensionMismatch
	if !asDimMismatch(err, &dm) {
		t.Fatalf("expected *cerrors.DimensionMismatch, got %T: %v", err, err)
	}
}

func asDimMismatch(err error, target **cerrors.DimensionMismatch) bool {
	if dm, ok := err.(*cerrors.DimensionMismatch); ok {
		*target = dm
		return true
	}
	return false
}

func TestProcessIsDeterministicUnderSameSeed(t *testing.T) {
	cfg := DefaultConfig(8)
	cfg.RNGSeed = 42
	s1 := NewSubstrate(cfg)
	s2 := NewSubstrate(cfg)

	input := types.Vector{1, 1, 1, 1, 1, 1, 1, 1}
	for i := 0; i < 20; i++ {
		out1, err1 := s1.Process(input)
		out2, err2 := s2.Process(input)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v %v", err1, err2)
		}
		for j := range out1 {
			if out1[j] != out2[j] {
				t.Fatalf("tick %d: outputs diverged at %d: %v vs %v", i, j, out1[j], out2[j])
			}
		}
	}
}

func TestStrongDriveEventuallyFires(t *testing.T) {
	s := NewSubstrate(DefaultConfig(2))
	input := types.Vector{200, 200}
	fired := false
	for i := 0; i < 10; i++ {
		if _, err := s.Process(input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if s.SpikeRate() > 0 {
		fired = true
	}
	if !fired {
		t.Fatalf("expected strong sustained drive to produce spikes within 10 ticks")
	}
}

func TestResetClearsState(t *testing.T) {
	s := NewSubstrate(DefaultConfig(3))
	_, _ = s.Process(types.Vector{10, 10, 10})
	s.Reset()
	if s.SpikeRate() != 0 {
		t.Fatalf("expected zero spike rate after reset")
	}
}
