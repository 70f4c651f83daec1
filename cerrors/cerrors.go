/*
=================================================================================
TYPED ERROR KINDS — COGNITIVE CYCLE ENGINE
=================================================================================

Every public operation in this module that can fail for a reason the
caller is expected to branch on (wrong vector length, a deactivated
orchestrator, a self-model stack gone too deep) returns one of the
typed errors defined here rather than an opaque fmt.Errorf string. Each
type implements the standard error interface so callers can use
errors.As to recover the structured fields when they need to, while
%v/%s output stays human-readable for logs.

These mirror the plain error-struct style used throughout the
biological packages this module grew out of (see component.HealthMetrics
for the analogous "exported struct, no hidden state" convention) rather
than introducing a third-party errors package: nothing in the retrieved
corpus reaches for pkg/errors or similar, so plain wrapped stdlib
errors are the grounded choice.
=================================================================================
*/

package cerrors

import "fmt"

// DimensionMismatch is returned whenever a Vector handed to a component
// does not match that component's configured dimensionality.
type DimensionMismatch struct {
	Component string
	Expected  int
	Got       int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("%s: dimension mismatch: expected %d, got %d", e.Component, e.Expected, e.Got)
}

// NewDimensionMismatch builds a DimensionMismatch for the named component.
func NewDimensionMismatch(component string, expected, got int) *DimensionMismatch {
	return &DimensionMismatch{Component: component, Expected: expected, Got: got}
}

// NotActive is returned when process is called on a deactivated orchestrator.
type NotActive struct{}

func (e *NotActive) Error() string { return "cognitive cycle orchestrator is not active" }

// RecursionLimit is returned when a self-model observation stack is
// asked to descend past its configured maximum depth.
type RecursionLimit struct {
	Depth int
	Max   int
}

func (e *RecursionLimit) Error() string {
	return fmt.Sprintf("self-model recursion limit exceeded: depth %d > max %d", e.Depth, e.Max)
}

// CapacityExceeded is returned when a bounded collection (the memory
// table, the replay buffer) is asked to grow past a hard cap.
type CapacityExceeded struct {
	What     string
	Capacity int
}

func (e *CapacityExceeded) Error() string {
	return fmt.Sprintf("capacity exceeded: %s (cap %d)", e.What, e.Capacity)
}

// EncodingFailed is returned when the hippocampal pipeline cannot
// produce a sparse code for an input (e.g. a degenerate all-zero vector).
type EncodingFailed struct {
	Reason string
}

func (e *EncodingFailed) Error() string { return fmt.Sprintf("encoding failed: %s", e.Reason) }

// ReplayFailed is returned (never panicked on) when a sampled replay
// event points at a trace that no longer exists. It is collected in
// hippocampus.ReplayOutcome.Failed; nothing in this module logs it.
type ReplayFailed struct {
	Reason string
}

func (e *ReplayFailed) Error() string { return fmt.Sprintf("replay failed: %s", e.Reason) }

// ConfigInvalid is returned by config validation at construction time.
type ConfigInvalid struct {
	Field  string
	Reason string
}

func (e *ConfigInvalid) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}
