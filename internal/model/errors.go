package model

import "errors"

var (
	// ErrInvalidGeometry is returned for degenerate pieces and non-positive surfaces.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrDivisionByZero is returned when a zero-area request reaches the deviation ratio.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrExhaustedPlanner signals that cutting is over and assignment should follow.
	// It is not a failure.
	ErrExhaustedPlanner = errors.New("planner exhausted")
)
