package regression

// Forecast extrapolates the fitted line for periods future steps starting at
// index origin. To continue a fitted series, origin must be the count of
// fitted observations (Result.N): the first forecast value is then the line
// evaluated at x = n, immediately after the last observed index n-1. The
// base is part of the contract; the function never assumes it.
//
// periods <= 0 yields an empty, non-nil slice. Forecast reads only the
// coefficients, never the original data, and has no error path.
func Forecast(c Coefficients, origin, periods int) []float64 {
	if periods < 0 {
		periods = 0
	}
	out := make([]float64, periods)
	for k := 0; k < periods; k++ {
		out[k] = c.Slope*float64(origin+k) + c.Intercept
	}
	return out
}
