// Package errkind defines the sentinel error values that identify the error
// taxonomy used across the pipeline runtime. Call sites wrap one of these
// sentinels with fmt.Errorf("...: %w", ErrInvalidConfig) and callers recover
// the kind with errors.Is.
package errkind

import "errors"

var (
	// ErrInvalidConfig marks a node parameter that is missing, out of range,
	// or has the wrong semantic type.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidGraph marks a structural problem in a graph document: an
	// unknown node type, an unknown port, a type mismatch on an edge, a
	// cycle, or an absent/ambiguous source node.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrProcessingError marks a node's run failing on data. Subject to the
	// node's configured error policy.
	ErrProcessingError = errors.New("processing error")

	// ErrInvalidStateTransition marks a rejected pipeline state transition.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrDeviceError marks a hardware discovery, start, or stop failure.
	ErrDeviceError = errors.New("device error")

	// ErrResourceExhausted marks pool admission denied beyond a timeout.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrIO marks a persisted-state or memory-map failure.
	ErrIO = errors.New("io error")
)
