package regression

import (
	"errors"
	"math"
	"testing"
)

func TestRSquaredPerfect(t *testing.T) {
	actual := []float64{1, 2, 3, 4, 5}
	r2, err := RSquared(actual, actual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(r2, 1, tol) {
		t.Fatalf("r2 = %v, want 1", r2)
	}
}

func TestRSquaredImperfect(t *testing.T) {
	actual := []float64{1, 2, 3, 4, 5}
	predicted := []float64{2, 3, 4, 5, 6}
	r2, err := RSquared(actual, predicted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2 >= 1 {
		t.Fatalf("r2 = %v, want < 1", r2)
	}
	// ss_res = 5, ss_tot = 10
	if !approx(r2, 0.5, tol) {
		t.Fatalf("r2 = %v, want 0.5", r2)
	}
}

func TestRSquaredNotClamped(t *testing.T) {
	// Predictions far worse than the mean push R2 below zero; the value
	// must be reported as-is.
	actual := []float64{1, 2, 3}
	predicted := []float64{10, 20, 30}
	r2, err := RSquared(actual, predicted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2 >= 0 {
		t.Fatalf("r2 = %v, want negative", r2)
	}
}

func TestRSquaredConstantActual(t *testing.T) {
	constant := []float64{7, 7, 7}

	// Zero residuals on zero variance: perfect by definition.
	r2, err := RSquared(constant, []float64{7, 7, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2 != 1.0 {
		t.Fatalf("r2 = %v, want exactly 1.0", r2)
	}

	// Non-zero residuals on zero variance: 0.0 by policy, never NaN/Inf.
	r2, err = RSquared(constant, []float64{7, 8, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2 != 0.0 {
		t.Fatalf("r2 = %v, want exactly 0.0", r2)
	}
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		t.Fatalf("r2 = %v, want finite", r2)
	}
}

func TestRSquaredLengthMismatch(t *testing.T) {
	if _, err := RSquared([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := RSquared(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMSE(t *testing.T) {
	mse, err := MSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(mse, 0, tol) {
		t.Fatalf("mse = %v, want 0", mse)
	}

	mse, err = MSE([]float64{1, 2, 3}, []float64{2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(mse, 1, tol) {
		t.Fatalf("mse = %v, want 1", mse)
	}
}

func TestMSELengthMismatch(t *testing.T) {
	if _, err := MSE([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
