package regression

import (
	"fmt"
	"math"
)

// Coefficients holds the parameters of a fitted line y = Slope*x + Intercept.
// A Coefficients value is immutable once produced by Fit.
type Coefficients struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Result bundles the fitted coefficients with goodness-of-fit metrics.
// N is the number of observations the fit was computed from; Predicted holds
// the in-sample fitted values for the original indices.
type Result struct {
	Coefficients Coefficients `json:"coefficients"`
	RSquared     float64      `json:"r_squared"`
	MSE          float64      `json:"mse"`
	N            int          `json:"n"`
	Predicted    []float64    `json:"predicted,omitempty"`
}

// Fit performs ordinary least-squares regression over an equally-spaced
// series, using the implicit index 0..n-1 as the independent variable.
// It returns either a fully populated Result or an error; a Result is never
// partially constructed.
//
// RSquared is not clamped: for pathological inputs it can fall outside [0,1].
// See RSquared for the degenerate-case policy on constant series.
func Fit(data []float64) (Result, error) {
	n := len(data)
	if n == 0 {
		return Result{}, ErrEmptyData
	}
	if n < 2 {
		return Result{}, ErrInsufficientData
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("non-finite value at index %d: %w", i, ErrInvalidInput)
		}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range data {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	fn := float64(n)
	// For n >= 2 with distinct integer indices the denominator is strictly
	// positive mathematically; the guard catches floating-point underflow
	// on extreme n rather than letting NaN/Inf escape.
	denom := fn*sumX2 - sumX*sumX
	if math.Abs(denom) < math.SmallestNonzeroFloat64 || math.IsInf(denom, 0) {
		return Result{}, fmt.Errorf("denominator degenerate for n=%d: %w", n, ErrInvalidInput)
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn
	coeffs := Coefficients{Slope: slope, Intercept: intercept}

	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = slope*float64(i) + intercept
	}

	r2, err := RSquared(data, predicted)
	if err != nil {
		return Result{}, fmt.Errorf("r_squared: %w", err)
	}
	mse, err := MSE(data, predicted)
	if err != nil {
		return Result{}, fmt.Errorf("mse: %w", err)
	}

	return Result{
		Coefficients: coeffs,
		RSquared:     r2,
		MSE:          mse,
		N:            n,
		Predicted:    predicted,
	}, nil
}

// Forecast extrapolates the fitted line for the horizon immediately after
// the observed range. It is shorthand for Forecast(r.Coefficients, r.N, periods).
func (r Result) Forecast(periods int) []float64 {
	return Forecast(r.Coefficients, r.N, periods)
}
