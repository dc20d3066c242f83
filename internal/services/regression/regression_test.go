package regression

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestFitPerfectLine(t *testing.T) {
	// y = 2x + 1
	res, err := Fit([]float64{1, 3, 5, 7, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.Coefficients.Slope, 2, tol) {
		t.Fatalf("slope = %v, want 2", res.Coefficients.Slope)
	}
	if !approx(res.Coefficients.Intercept, 1, tol) {
		t.Fatalf("intercept = %v, want 1", res.Coefficients.Intercept)
	}
	if !approx(res.RSquared, 1, tol) {
		t.Fatalf("r_squared = %v, want 1", res.RSquared)
	}
	if !approx(res.MSE, 0, tol) {
		t.Fatalf("mse = %v, want 0", res.MSE)
	}
	if res.N != 5 {
		t.Fatalf("n = %d, want 5", res.N)
	}
}

func TestFitDecreasingLine(t *testing.T) {
	res, err := Fit([]float64{50, 45, 40, 35, 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.Coefficients.Slope, -5, tol) {
		t.Fatalf("slope = %v, want -5", res.Coefficients.Slope)
	}
	if !approx(res.Coefficients.Intercept, 50, tol) {
		t.Fatalf("intercept = %v, want 50", res.Coefficients.Intercept)
	}
	if !approx(res.RSquared, 1, tol) {
		t.Fatalf("r_squared = %v, want 1", res.RSquared)
	}
	if !approx(res.MSE, 0, tol) {
		t.Fatalf("mse = %v, want 0", res.MSE)
	}
}

func TestFitNoisySeries(t *testing.T) {
	res, err := Fit([]float64{100, 120, 130, 145, 160})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.Coefficients.Slope, 14.5, 1e-9) {
		t.Fatalf("slope = %v, want 14.5", res.Coefficients.Slope)
	}
	if !approx(res.Coefficients.Intercept, 102, 1e-9) {
		t.Fatalf("intercept = %v, want 102", res.Coefficients.Intercept)
	}
	if !approx(res.RSquared, 1-17.5/2120, 1e-9) {
		t.Fatalf("r_squared = %v, want %v", res.RSquared, 1-17.5/2120)
	}
	if !approx(res.MSE, 3.5, 1e-9) {
		t.Fatalf("mse = %v, want 3.5", res.MSE)
	}

	fc := res.Forecast(3)
	want := []float64{174.5, 189, 203.5}
	if len(fc) != len(want) {
		t.Fatalf("forecast len = %d, want %d", len(fc), len(want))
	}
	for i := range want {
		if !approx(fc[i], want[i], 1e-9) {
			t.Fatalf("forecast[%d] = %v, want %v", i, fc[i], want[i])
		}
	}
}

func TestFitConstantSeries(t *testing.T) {
	res, err := Fit([]float64{5, 5, 5, 5, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.Coefficients.Slope, 0, tol) {
		t.Fatalf("slope = %v, want 0", res.Coefficients.Slope)
	}
	if !approx(res.Coefficients.Intercept, 5, tol) {
		t.Fatalf("intercept = %v, want 5", res.Coefficients.Intercept)
	}
	// Perfect fit of a constant series reports 1.0 by policy.
	if !approx(res.RSquared, 1, tol) {
		t.Fatalf("r_squared = %v, want 1", res.RSquared)
	}
	if !approx(res.MSE, 0, tol) {
		t.Fatalf("mse = %v, want 0", res.MSE)
	}
}

func TestFitTwoPoints(t *testing.T) {
	res, err := Fit([]float64{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.Coefficients.Slope, 10, tol) || !approx(res.Coefficients.Intercept, 10, tol) {
		t.Fatalf("got %+v, want slope 10 intercept 10", res.Coefficients)
	}
}

func TestFitIdempotent(t *testing.T) {
	data := []float64{3.1, 2.7, 5.9, 4.2, 8.8, 7.3}
	a, err := Fit(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Fit(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Coefficients != b.Coefficients || a.RSquared != b.RSquared || a.MSE != b.MSE {
		t.Fatalf("fit not deterministic: %+v vs %+v", a, b)
	}
}

func TestFitEmptyData(t *testing.T) {
	if _, err := Fit(nil); !errors.Is(err, ErrEmptyData) {
		t.Fatalf("err = %v, want ErrEmptyData", err)
	}
	if _, err := Fit([]float64{}); !errors.Is(err, ErrEmptyData) {
		t.Fatalf("err = %v, want ErrEmptyData", err)
	}
}

func TestFitInsufficientData(t *testing.T) {
	if _, err := Fit([]float64{42}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestFitNonFinite(t *testing.T) {
	for _, data := range [][]float64{
		{1, math.NaN(), 3},
		{math.Inf(1), 2, 3},
		{1, 2, math.Inf(-1)},
	} {
		if _, err := Fit(data); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Fit(%v) err = %v, want ErrInvalidInput", data, err)
		}
	}
}

func TestFitPredictedValues(t *testing.T) {
	res, err := Fit([]float64{1, 3, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 3, 5}
	if len(res.Predicted) != len(want) {
		t.Fatalf("predicted len = %d, want %d", len(res.Predicted), len(want))
	}
	for i := range want {
		if !approx(res.Predicted[i], want[i], tol) {
			t.Fatalf("predicted[%d] = %v, want %v", i, res.Predicted[i], want[i])
		}
	}
}
