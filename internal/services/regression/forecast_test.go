package regression

import "testing"

func TestForecastZeroPeriods(t *testing.T) {
	fc := Forecast(Coefficients{Slope: 2, Intercept: 1}, 5, 0)
	if fc == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(fc) != 0 {
		t.Fatalf("len = %d, want 0", len(fc))
	}
}

func TestForecastNegativePeriods(t *testing.T) {
	if got := Forecast(Coefficients{Slope: 1, Intercept: 0}, 3, -2); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestForecastLength(t *testing.T) {
	for _, k := range []int{1, 3, 10, 100} {
		if got := Forecast(Coefficients{Slope: 0.5, Intercept: 2}, 7, k); len(got) != k {
			t.Fatalf("periods=%d len = %d", k, len(got))
		}
	}
}

func TestForecastOrigin(t *testing.T) {
	// Horizon continues the line from x = origin, not from zero.
	c := Coefficients{Slope: 1, Intercept: 10}
	fc := Forecast(c, 3, 3)
	want := []float64{13, 14, 15}
	for i := range want {
		if !approx(fc[i], want[i], tol) {
			t.Fatalf("forecast[%d] = %v, want %v", i, fc[i], want[i])
		}
	}
}

func TestResultForecastContinuesSeries(t *testing.T) {
	res, err := Fit([]float64{1, 3, 5, 7, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fc := res.Forecast(2)
	// y = 2x + 1 at x = 5, 6
	want := []float64{11, 13}
	for i := range want {
		if !approx(fc[i], want[i], tol) {
			t.Fatalf("forecast[%d] = %v, want %v", i, fc[i], want[i])
		}
	}
}
