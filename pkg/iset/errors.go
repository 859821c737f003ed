package iset

import (
	"fmt"
)

// InvalidBoundsError reports a bounds constructed with a reversed coordinate
// pair on one of the three axes.
type InvalidBoundsError struct {
	Axis   string
	Lo, Hi float64
}

// Error implements the error interface.
func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf("invalid bounds: %s1 (%v) exceeds %s2 (%v)", e.Axis, e.Lo, e.Axis, e.Hi)
}

func NewInvalidBoundsError(axis string, lo, hi float64) error {
	return &InvalidBoundsError{Axis: axis, Lo: lo, Hi: hi}
}

// KeyNotFoundError reports a lookup for a partition key the mapping does not
// hold.
type KeyNotFoundError struct {
	Key any
}

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("no interval set under key %v", e.Key)
}

func NewKeyNotFoundError(key any) error {
	return &KeyNotFoundError{Key: key}
}

// EvaluationError reports a predicate or merge callback that failed during a
// join. The join aborts on the first such failure: a partial result would be
// indistinguishable from a complete one.
type EvaluationError struct {
	Stage string
	Cause error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("join %s callback failed: %v", e.Stage, e.Cause)
}

// Unwrap exposes the underlying callback error.
func (e *EvaluationError) Unwrap() error { return e.Cause }

func newEvaluationError(stage string, cause error) error {
	return &EvaluationError{Stage: stage, Cause: cause}
}
