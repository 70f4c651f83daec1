package cortex

import (
	"testing"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
	"github.com/prancer-io/exogenesis-omega-core/config"
	"github.com/prancer-io/exogenesis-omega-core/types"
)

func testEngineConfig() config.Config {
	cfg := config.Default()
	cfg.InputDim = 8
	cfg.DGSize = 80
	cfg.CA3Size = 40
	cfg.CA1Size = 8
	cfg.AwakeCyclesBeforeSleep = 1000
	cfg.SleepStageCycles = 5
	return cfg
}

func testInput(dim int, seed float64) types.Vector {
	v := make(types.Vector, dim)
	for i := range v {
		v[i] = seed + float64(i)*0.1
	}
	return v
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testEngineConfig()
	cfg.InputDim = 0
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected ConfigInvalid for zero input dim")
	}
}

// TestProcessIsDeterministicUnderSameSeed is source-spec scenario S1.
func TestProcessIsDeterministicUnderSameSeed(t *testing.T) {
	cfg := testEngineConfig()
	e1, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	e2, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	input := testInput(cfg.InputDim, 0.3)
	r1, err := e1.Process(input)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	r2, err := e2.Process(input)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if r1.ConsciousnessLevel != r2.ConsciousnessLevel {
		t.Fatalf("consciousness level diverged: %v vs %v", r1.ConsciousnessLevel, r2.ConsciousnessLevel)
	}
	if r1.AttentionStrength != r2.AttentionStrength {
		t.Fatalf("attention strength diverged: %v vs %v", r1.AttentionStrength, r2.AttentionStrength)
	}
	if len(r1.Output) != len(r2.Output) {
		t.Fatalf("output dimension diverged")
	}
	for i := range r1.Output {
		if r1.Output[i] != r2.Output[i] {
			t.Fatalf("output diverged at index %d: %v vs %v", i, r1.Output[i], r2.Output[i])
		}
	}
}

func TestProcessRejectsWrongDimension(t *testing.T) {
	e, err := New(testEngineConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	_, err = e.Process(types.Vector{1, 2, 3})
	if err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestDeactivateCausesNotActive(t *testing.T) {
	e, _ := New(testEngineConfig())
	e.Deactivate()
	_, err := e.Process(testInput(8, 0.1))
	if _, ok := err.(*cerrors.NotActive); !ok {
		t.Fatalf("expected NotActive error, got %v", err)
	}
}

func TestCycleCounterIncrementsOnSuccessOnly(t *testing.T) {
	e, _ := New(testEngineConfig())
	if _, err := e.Process(testInput(8, 0.5)); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if e.State().CycleCount != 1 {
		t.Fatalf("expected cycle count 1, got %d", e.State().CycleCount)
	}

	if _, err := e.Process(types.Vector{1, 2}); err == nil {
		t.Fatalf("expected dimension error")
	}
	if e.State().CycleCount != 1 {
		t.Fatalf("expected cycle count to stay 1 after failed cycle, got %d", e.State().CycleCount)
	}
}

func TestResetZeroesCounterAndReactivates(t *testing.T) {
	e, _ := New(testEngineConfig())
	e.Process(testInput(8, 0.2))
	e.Deactivate()
	e.Reset()

	st := e.State()
	if st.CycleCount != 0 {
		t.Fatalf("expected cycle count reset to 0, got %d", st.CycleCount)
	}
	if _, err := e.Process(testInput(8, 0.2)); err != nil {
		t.Fatalf("expected engine reactivated after reset, process failed: %v", err)
	}
}

// TestSleepBranchEngagesAfterAwakeThreshold is source-spec scenario S6.
func TestSleepBranchEngagesAfterAwakeThreshold(t *testing.T) {
	cfg := testEngineConfig()
	cfg.AwakeCyclesBeforeSleep = 3
	cfg.SleepStageCycles = 2
	e, _ := New(cfg)

	var sawSleep bool
	for i := 0; i < 6; i++ {
		if _, err := e.Process(testInput(cfg.InputDim, float64(i)*0.05)); err != nil {
			t.Fatalf("process failed at cycle %d: %v", i, err)
		}
		if e.State().SleepStage != types.SleepStageNone {
			sawSleep = true
		}
	}
	if !sawSleep {
		t.Fatalf("expected the engine to enter a sleep stage within 6 cycles")
	}
}

func TestMetricsReflectProcessedCycles(t *testing.T) {
	e, _ := New(testEngineConfig())
	for i := 0; i < 3; i++ {
		if _, err := e.Process(testInput(8, float64(i))); err != nil {
			t.Fatalf("process failed: %v", err)
		}
	}
	m := e.Metrics()
	if m.Cycles != 3 {
		t.Fatalf("expected 3 cycles recorded, got %d", m.Cycles)
	}
}
