package curve

import (
	"errors"
	"math"
	"testing"
)

func mustCurve(t *testing.T, xs, ys []float64) *Curve {
	t.Helper()
	c, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want error
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, ErrLengthMismatch},
		{"too short", []float64{1}, []float64{1}, ErrInvalidCurve},
		{"repeated x", []float64{1, 1, 2}, []float64{0, 0, 0}, ErrDegenerateCurve},
		{"decreasing x", []float64{1, 3, 2}, []float64{0, 0, 0}, ErrDegenerateCurve},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.xs, tt.ys)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{5, 6, 7}
	c := mustCurve(t, xs, ys)

	xs[0] = 99
	ys[0] = 99
	if c.X(0) != 0 || c.Y(0) != 5 {
		t.Error("curve shares backing storage with caller slices")
	}
}

func TestPreprocessSortAndDedup(t *testing.T) {
	// Unsorted with a duplicated x whose ys must be averaged.
	xs := []float64{3, 1, 2, 2, 0}
	ys := []float64{30, 10, 19, 21, 0}

	c, err := Preprocess(xs, ys, PreprocessOptions{})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	wantX := []float64{0, 1, 2, 3}
	wantY := []float64{0, 10, 20, 30}
	if c.Len() != len(wantX) {
		t.Fatalf("expected %d points, got %d", len(wantX), c.Len())
	}
	for i := range wantX {
		if c.X(i) != wantX[i] || c.Y(i) != wantY[i] {
			t.Errorf("point %d: got (%v, %v), want (%v, %v)", i, c.X(i), c.Y(i), wantX[i], wantY[i])
		}
	}
}

func TestPreprocessDropsNonFinite(t *testing.T) {
	xs := []float64{0, 1, math.NaN(), 2}
	ys := []float64{0, math.Inf(1), 5, 2}

	c, err := Preprocess(xs, ys, PreprocessOptions{})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 usable points, got %d", c.Len())
	}
}

func TestPreprocessTooFewPoints(t *testing.T) {
	_, err := Preprocess([]float64{1, 1}, []float64{2, 4}, PreprocessOptions{})
	if !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("expected ErrInvalidCurve, got %v", err)
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	xs := []float64{5, 1, 3, 3, 2}
	ys := []float64{50, 10, 29, 31, 20}

	c1, err := Preprocess(xs, ys, PreprocessOptions{})
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	c2, err := Preprocess(c1.Xs(), c1.Ys(), PreprocessOptions{})
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if c1.Len() != c2.Len() {
		t.Fatalf("length changed: %d vs %d", c1.Len(), c2.Len())
	}
	for i := 0; i < c1.Len(); i++ {
		if c1.X(i) != c2.X(i) || c1.Y(i) != c2.Y(i) {
			t.Errorf("point %d changed: (%v, %v) vs (%v, %v)", i, c1.X(i), c1.Y(i), c2.X(i), c2.Y(i))
		}
	}
}

func TestSmoothingPreservesLength(t *testing.T) {
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(i % 3)
	}

	c, err := Preprocess(xs, ys, PreprocessOptions{SmoothingWindow: 5})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if c.Len() != 20 {
		t.Errorf("smoothing changed length: got %d, want 20", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if c.X(i) != xs[i] {
			t.Errorf("x-axis shifted at %d: got %v, want %v", i, c.X(i), xs[i])
		}
	}
}

func TestSmoothingFlattensNoise(t *testing.T) {
	// Alternating noise around a constant level should contract toward it.
	xs := make([]float64, 50)
	ys := make([]float64, 50)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = 10.0
		if i%2 == 0 {
			ys[i] += 1.0
		} else {
			ys[i] -= 1.0
		}
	}

	c, err := Preprocess(xs, ys, PreprocessOptions{SmoothingWindow: 7})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	for i := 5; i < 45; i++ {
		if math.Abs(c.Y(i)-10.0) > 0.2 {
			t.Errorf("interior point %d not smoothed: %v", i, c.Y(i))
		}
	}
}

func TestDerivativeLengthAndValues(t *testing.T) {
	// y = x^2 on uneven spacing; dy/dx = 2x. Central differences are exact
	// for quadratics only on uniform grids, so allow spacing-scale error.
	xs := []float64{0, 0.5, 1.2, 2.0, 3.5, 4.0}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x * x
	}
	c := mustCurve(t, xs, ys)

	d, err := Derivative(c)
	if err != nil {
		t.Fatalf("derivative failed: %v", err)
	}
	if d.Len() != c.Len() {
		t.Fatalf("derivative length %d != curve length %d", d.Len(), c.Len())
	}
	for i := 1; i < d.Len()-1; i++ {
		if math.Abs(d.Y(i)-2*d.X(i)) > 1.0 {
			t.Errorf("interior derivative at x=%v: got %v, want %v", d.X(i), d.Y(i), 2*d.X(i))
		}
	}
}

func TestDerivativeIntegralReconstructsNetChange(t *testing.T) {
	// On a uniform grid the trapezoidal integral of the central-difference
	// derivative telescopes to exactly the curve's net change.
	n := 101
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * 0.05
		ys[i] = math.Sin(xs[i]) + 0.5*xs[i]
	}
	c := mustCurve(t, xs, ys)

	d, err := Derivative(c)
	if err != nil {
		t.Fatalf("derivative failed: %v", err)
	}

	netChange := ys[n-1] - ys[0]
	integral := Integrate(d)
	if math.Abs(integral-netChange) > 1e-9 {
		t.Errorf("integral of derivative %v != net change %v", integral, netChange)
	}
}

func TestDerivativeUnevenSpacingApproximation(t *testing.T) {
	xs := []float64{0, 0.3, 0.9, 1.4, 2.2, 3.0, 3.4, 4.0}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x) + 0.5*x
	}
	c := mustCurve(t, xs, ys)

	d, err := Derivative(c)
	if err != nil {
		t.Fatalf("derivative failed: %v", err)
	}

	netChange := ys[len(ys)-1] - ys[0]
	if math.Abs(Integrate(d)-netChange) > 0.5 {
		t.Errorf("uneven-grid integral %v too far from net change %v", Integrate(d), netChange)
	}
}

func TestInterpolate(t *testing.T) {
	c := mustCurve(t, []float64{0, 10, 20}, []float64{0, 100, 0})

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{5, 50},
		{10, 100},
		{15, 50},
		{20, 0},
	}
	for _, tt := range tests {
		got, err := Interpolate(c, tt.x)
		if err != nil {
			t.Fatalf("interpolate(%v) failed: %v", tt.x, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("interpolate(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}

	if _, err := Interpolate(c, -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange below domain, got %v", err)
	}
	if _, err := Interpolate(c, 21); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange above domain, got %v", err)
	}
}

func TestCrossingX(t *testing.T) {
	// Linear descent 100 -> 0 over x in [0, 100].
	c := mustCurve(t, []float64{0, 25, 50, 75, 100}, []float64{100, 75, 50, 25, 0})

	x, err := CrossingX(c, 95, Falling)
	if err != nil {
		t.Fatalf("crossing failed: %v", err)
	}
	if math.Abs(x-5) > 1e-12 {
		t.Errorf("95%% crossing: got %v, want 5", x)
	}

	x, err = CrossingX(c, 50, Falling)
	if err != nil {
		t.Fatalf("crossing failed: %v", err)
	}
	if math.Abs(x-50) > 1e-12 {
		t.Errorf("50%% crossing: got %v, want 50", x)
	}

	if _, err := CrossingX(c, -10, Falling); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for unreached level, got %v", err)
	}

	rising := mustCurve(t, []float64{0, 1, 2}, []float64{0, 10, 20})
	x, err = CrossingX(rising, 15, Rising)
	if err != nil {
		t.Fatalf("rising crossing failed: %v", err)
	}
	if math.Abs(x-1.5) > 1e-12 {
		t.Errorf("rising crossing: got %v, want 1.5", x)
	}
}

func TestRefinePeak(t *testing.T) {
	// Samples of y = -(x-2.3)^2 + 5; discrete max at x=2, true vertex at 2.3.
	xs := []float64{0, 1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = -(x-2.3)*(x-2.3) + 5
	}
	c := mustCurve(t, xs, ys)

	idx, _ := c.MaxY()
	x, y := RefinePeak(c, idx)
	if math.Abs(x-2.3) > 1e-9 {
		t.Errorf("refined peak x: got %v, want 2.3", x)
	}
	if math.Abs(y-5) > 1e-9 {
		t.Errorf("refined peak y: got %v, want 5", y)
	}
}

func TestRefinePeakBoundary(t *testing.T) {
	c := mustCurve(t, []float64{0, 1, 2}, []float64{5, 4, 3})
	x, y := RefinePeak(c, 0)
	if x != 0 || y != 5 {
		t.Errorf("boundary peak should return sample, got (%v, %v)", x, y)
	}
}

func TestIntegrateTo(t *testing.T) {
	// y = 2x; integral to x is x^2.
	c := mustCurve(t, []float64{0, 1, 2, 3}, []float64{0, 2, 4, 6})

	got, err := IntegrateTo(c, 2.5)
	if err != nil {
		t.Fatalf("integrateTo failed: %v", err)
	}
	if math.Abs(got-6.25) > 1e-12 {
		t.Errorf("integral to 2.5: got %v, want 6.25", got)
	}

	if _, err := IntegrateTo(c, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestMapYAndSlice(t *testing.T) {
	c := mustCurve(t, []float64{0, 1, 2, 3}, []float64{1, 10, 100, 1000})

	logc := c.MapY(math.Log10)
	for i := 0; i < logc.Len(); i++ {
		if math.Abs(logc.Y(i)-float64(i)) > 1e-12 {
			t.Errorf("log10 map at %d: got %v, want %d", i, logc.Y(i), i)
		}
	}

	sub, err := c.Slice(1, 3)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if sub.Len() != 2 || sub.X(0) != 1 || sub.X(1) != 2 {
		t.Errorf("unexpected slice contents: %v", sub.Xs())
	}

	if _, err := c.Slice(2, 3); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("expected ErrInvalidCurve for 1-point slice, got %v", err)
	}
}
