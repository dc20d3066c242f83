package regression

import "fmt"

// RSquared computes the coefficient of determination between actual and
// predicted values. The slices must be non-empty and of equal length.
//
// Degenerate policy: when total variance is zero (all actual values equal),
// the formula is undefined. If the residuals are also zero the fit is
// perfect by definition and 1.0 is reported; otherwise 0.0 is reported so
// the metric stays finite and reads as "no explanatory power beyond a
// constant". This is a deliberate policy, not floating-point coincidence,
// and downstream callers depend on the metric always being finite.
//
// Outside the degenerate case the value is not clamped and can fall below 0
// for predictions worse than the mean.
func RSquared(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}

	var sum float64
	for _, y := range actual {
		sum += y
	}
	mean := sum / float64(len(actual))

	var ssRes, ssTot float64
	for i, y := range actual {
		dr := y - predicted[i]
		dt := y - mean
		ssRes += dr * dr
		ssTot += dt * dt
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// MSE computes the mean squared error between actual and predicted values.
// The slices must be non-empty and of equal length.
func MSE(actual, predicted []float64) (float64, error) {
	if err := checkPair(actual, predicted); err != nil {
		return 0, err
	}

	var ssRes float64
	for i, y := range actual {
		d := y - predicted[i]
		ssRes += d * d
	}
	return ssRes / float64(len(actual)), nil
}

func checkPair(actual, predicted []float64) error {
	if len(actual) == 0 || len(predicted) == 0 {
		return fmt.Errorf("empty series: %w", ErrInvalidInput)
	}
	if len(actual) != len(predicted) {
		return fmt.Errorf("length mismatch %d != %d: %w", len(actual), len(predicted), ErrInvalidInput)
	}
	return nil
}
