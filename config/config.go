/*
=================================================================================
CONFIG — ENGINE CONFIGURATION TREE
=================================================================================

Mirrors qubicDB-qubicdb's pkg/core Config: a plain Go struct tree with
yaml struct tags, resolved as defaults overlaid by an optional YAML
file. Unlike qubicdb this core has no environment-variable layer or CLI
override layer — SPEC_FULL.md §A scopes those out along with the rest
of the CLI surface — but the same "Defaults() then overlay a file"
shape is kept because every config field in §6 of the source spec needs
a documented, validated default.
=================================================================================
*/

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prancer-io/exogenesis-omega-core/cerrors"
)

// Config is the full set of recognized engine options from SPEC_FULL.md
// §6. Every field corresponds to one row of that table.
type Config struct {
	// Layer dimensions.
	InputDim int `yaml:"inputDim"`
	DGSize   int `yaml:"dgSize"`
	CA3Size  int `yaml:"ca3Size"`
	CA1Size  int `yaml:"ca1Size"`

	// Hippocampal pipeline.
	DGSparsity       float64 `yaml:"dgSparsity"`
	CA3Recurrence    float64 `yaml:"ca3Recurrence"`
	ReplayBufferSize int     `yaml:"replayBufferSize"`
	RippleThreshold  float64 `yaml:"rippleThreshold"`
	ThetaFrequencyHz float64 `yaml:"thetaFrequencyHz"`
	ReplayTemperature float64 `yaml:"replayTemperature"`

	// Learning.
	LearningRate float64 `yaml:"learningRate"`

	// Salience mixture.
	NoveltyWeight   float64 `yaml:"noveltyWeight"`
	ContrastWeight  float64 `yaml:"contrastWeight"`
	ChangeWeight    float64 `yaml:"changeWeight"`
	IntensityWeight float64 `yaml:"intensityWeight"`
	HistoryLength   int     `yaml:"historyLength"`

	// Self-model.
	MetaLevels int `yaml:"metaLevels"`
	MaxDepth   int `yaml:"maxDepth"`

	// Global workspace.
	WorkspaceCapacity  int     `yaml:"workspaceCapacity"`
	IgnitionThreshold  float64 `yaml:"ignitionThreshold"`
	WorkspaceDecayRate float64 `yaml:"workspaceDecayRate"`

	// Integration metrics.
	PhiEnumCap int `yaml:"phiEnumCap"`

	// Determinism.
	RNGSeed int64 `yaml:"rngSeed"`

	// Predictive hierarchy.
	PredictiveLevels int `yaml:"predictiveLevels"`

	// Sleep-stage automaton (SPEC_FULL.md §D): a minimal two-stage
	// (SWS, REM) duration-based policy, grounded on qubicDB-qubicdb's
	// LifecycleConfig threshold-duration style.
	AwakeCyclesBeforeSleep uint64 `yaml:"awakeCyclesBeforeSleep"`
	SleepStageCycles       uint64 `yaml:"sleepStageCycles"`
}

// Default returns a Config populated with the documented defaults from
// the source spec: dg_sparsity 2%, ca3_recurrence ~4%, ripple_threshold
// 0.7, theta 8Hz, workspace capacity 7, ignition 0.5, decay 0.1.
func Default() Config {
	return Config{
		InputDim: 16,
		DGSize:   160,
		CA3Size:  80,
		CA1Size:  16,

		DGSparsity:        0.02,
		CA3Recurrence:     0.04,
		ReplayBufferSize:  256,
		RippleThreshold:   0.7,
		ThetaFrequencyHz:  8.0,
		ReplayTemperature: 1.0,

		LearningRate: 0.05,

		NoveltyWeight:   0.3,
		ContrastWeight:  0.25,
		ChangeWeight:    0.25,
		IntensityWeight: 0.2,
		HistoryLength:   50,

		MetaLevels: 5,
		MaxDepth:   5,

		WorkspaceCapacity:  7,
		IgnitionThreshold:  0.5,
		WorkspaceDecayRate: 0.1,

		PhiEnumCap: 8,

		RNGSeed: 1,

		PredictiveLevels: 3,

		AwakeCyclesBeforeSleep: 200,
		SleepStageCycles:       20,
	}
}

// Load reads defaults and overlays the YAML file at path, then
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks every field against the bounds named in SPEC_FULL.md
// §6, returning the first violation as a cerrors.ConfigInvalid.
func (c Config) Validate() error {
	switch {
	case c.InputDim <= 0:
		return &cerrors.ConfigInvalid{Field: "inputDim", Reason: "must be positive"}
	case c.DGSize < c.InputDim:
		return &cerrors.ConfigInvalid{Field: "dgSize", Reason: "must be >= inputDim"}
	case c.CA3Size <= 0:
		return &cerrors.ConfigInvalid{Field: "ca3Size", Reason: "must be positive"}
	case c.CA1Size != c.InputDim:
		return &cerrors.ConfigInvalid{Field: "ca1Size", Reason: "CA1 projects back to inputDim"}
	case c.DGSparsity <= 0 || c.DGSparsity > 0.2:
		return &cerrors.ConfigInvalid{Field: "dgSparsity", Reason: "must be in (0, 0.2]"}
	case c.CA3Recurrence <= 0 || c.CA3Recurrence > 0.5:
		return &cerrors.ConfigInvalid{Field: "ca3Recurrence", Reason: "must be in (0, 0.5]"}
	case c.LearningRate <= 0 || c.LearningRate > 1:
		return &cerrors.ConfigInvalid{Field: "learningRate", Reason: "must be in (0, 1]"}
	case c.ReplayBufferSize <= 0:
		return &cerrors.ConfigInvalid{Field: "replayBufferSize", Reason: "must be positive"}
	case c.RippleThreshold <= 0 || c.RippleThreshold >= 1:
		return &cerrors.ConfigInvalid{Field: "rippleThreshold", Reason: "must be in (0, 1)"}
	case c.NoveltyWeight+c.ContrastWeight+c.ChangeWeight+c.IntensityWeight <= 0:
		return &cerrors.ConfigInvalid{Field: "salience weights", Reason: "must sum > 0"}
	case c.HistoryLength <= 0:
		return &cerrors.ConfigInvalid{Field: "historyLength", Reason: "must be positive"}
	case c.MetaLevels <= 0 || c.MaxDepth <= 0:
		return &cerrors.ConfigInvalid{Field: "metaLevels/maxDepth", Reason: "must be positive"}
	case c.MetaLevels > c.MaxDepth:
		return &cerrors.ConfigInvalid{Field: "metaLevels", Reason: "must be <= maxDepth"}
	case c.WorkspaceCapacity <= 0:
		return &cerrors.ConfigInvalid{Field: "workspaceCapacity", Reason: "must be positive"}
	case c.IgnitionThreshold <= 0:
		return &cerrors.ConfigInvalid{Field: "ignitionThreshold", Reason: "must be positive"}
	case c.WorkspaceDecayRate <= 0 || c.WorkspaceDecayRate >= 1:
		return &cerrors.ConfigInvalid{Field: "workspaceDecayRate", Reason: "must be in (0, 1)"}
	case c.PhiEnumCap <= 0:
		return &cerrors.ConfigInvalid{Field: "phiEnumCap", Reason: "must be positive"}
	case c.PredictiveLevels <= 0:
		return &cerrors.ConfigInvalid{Field: "predictiveLevels", Reason: "must be positive"}
	case c.AwakeCyclesBeforeSleep == 0:
		return &cerrors.ConfigInvalid{Field: "awakeCyclesBeforeSleep", Reason: "must be positive"}
	case c.SleepStageCycles == 0:
		return &cerrors.ConfigInvalid{Field: "sleepStageCycles", Reason: "must be positive"}
	}
	return nil
}
