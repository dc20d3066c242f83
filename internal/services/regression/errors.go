package regression

import "errors"

// Input validation errors. The set is exhaustive: every failure mode of the
// engine maps to exactly one of these, matched with errors.Is.
var (
	// ErrEmptyData is returned when the input series has no elements.
	ErrEmptyData = errors.New("regression: empty data")

	// ErrInsufficientData is returned when the input series has a single
	// element; at least two points are needed to define a line.
	ErrInsufficientData = errors.New("regression: insufficient data")

	// ErrInvalidInput is returned when the input contains a non-finite
	// value, when the metric functions receive mismatched or empty slices,
	// or when the least-squares denominator underflows.
	ErrInvalidInput = errors.New("regression: invalid input")
)
