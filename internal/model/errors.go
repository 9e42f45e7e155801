package model

import (
	"errors"
	"fmt"
)

// Domain errors for model handling.
var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// model's configuration dimension.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")

	// ErrUnknownSignal indicates a signal name the handle does not expose.
	ErrUnknownSignal = errors.New("model: unknown signal")

	// ErrUnknownProperty indicates an unrecognized computation-flag key.
	ErrUnknownProperty = errors.New("model: unknown property")

	// ErrUnknownReference indicates an op-point reference naming no joint.
	ErrUnknownReference = errors.New("model: unknown reference frame")

	// ErrComputationDisabled indicates a derived signal whose computation
	// flag is off.
	ErrComputationDisabled = errors.New("model: computation disabled")

	// ErrInvalidDescription indicates a structurally inconsistent model
	// description (bad parent index, missing mass, malformed axis).
	ErrInvalidDescription = errors.New("model: invalid description")
)

func dimensionError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d entries, model dimension is %d",
		ErrDimensionMismatch, what, got, want)
}
