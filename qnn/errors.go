package qnn

import (
	"errors"

	"github.com/cwbudde/algo-qnn/internal/requant"
)

var (
	// ErrUninitialized reports an operator created without a successful
	// Initialize.
	ErrUninitialized = errors.New("qnn: library not initialized")

	// ErrInvalidParameter reports an argument outside its valid domain.
	ErrInvalidParameter = errors.New("qnn: invalid parameter")

	// ErrUnsupportedParameter reports a valid argument the kernels cannot
	// represent, such as a scale ratio outside the fixed-point range.
	ErrUnsupportedParameter = errors.New("qnn: unsupported parameter")

	// ErrUnsupportedHardware reports a host without the mandatory SIMD
	// baseline. It is terminal for the life of the process.
	ErrUnsupportedHardware = errors.New("qnn: unsupported hardware")

	// ErrOutOfMemory reports that the capability probe could not populate
	// its snapshot. Initialize may be retried.
	ErrOutOfMemory = errors.New("qnn: out of memory")
)

// Status is the coarse outcome of a library call.
type Status int

const (
	StatusSuccess Status = iota
	StatusUninitialized
	StatusInvalidParameter
	StatusUnsupportedParameter
	StatusUnsupportedHardware
	StatusOutOfMemory
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUninitialized:
		return "uninitialized"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusUnsupportedParameter:
		return "unsupported parameter"
	case StatusUnsupportedHardware:
		return "unsupported hardware"
	case StatusOutOfMemory:
		return "out of memory"
	default:
		return "unknown"
	}
}

// StatusOf classifies err. Errors from requantization setup map to the
// parameter statuses; any other non-nil error is an invalid parameter.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrUninitialized):
		return StatusUninitialized
	case errors.Is(err, ErrUnsupportedHardware):
		return StatusUnsupportedHardware
	case errors.Is(err, ErrOutOfMemory):
		return StatusOutOfMemory
	case errors.Is(err, ErrUnsupportedParameter), errors.Is(err, requant.ErrScaleRange):
		return StatusUnsupportedParameter
	default:
		return StatusInvalidParameter
	}
}
