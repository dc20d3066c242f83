package main

import (
	"fmt"
	"log"

	"TimeWise/internal/services/regression"
)

// Standalone demo of the regression engine: fits a few sample series and
// prints coefficients, fit quality, and a short forecast.
func main() {
	samples := map[string][]float64{
		"linear-up":   {1, 3, 5, 7, 9},
		"linear-down": {50, 45, 40, 35, 30},
		"noisy-up":    {100, 120, 130, 145, 160},
	}

	for name, values := range samples {
		res, err := regression.Fit(values)
		if err != nil {
			log.Fatalf("fit %s: %v", name, err)
		}

		fmt.Printf("series=%s n=%d\n", name, res.N)
		fmt.Printf("  slope=%.4f intercept=%.4f\n", res.Coefficients.Slope, res.Coefficients.Intercept)
		fmt.Printf("  r_squared=%.6f mse=%.6f\n", res.RSquared, res.MSE)
		fmt.Printf("  next 3: %v\n", res.Forecast(3))
	}
}
