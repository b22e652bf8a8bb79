package curve

import "math"

// Curve is an ordered (x, y) series sharing one independent variable.
// After construction through New or Preprocess the x-values are strictly
// increasing and the curve is never mutated; transforms return new curves.
type Curve struct {
	xs []float64
	ys []float64
}

// New builds a curve from already-clean data: equal-length slices, x strictly
// increasing, at least two points. Use Preprocess for raw instrument data.
func New(xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	if len(xs) < 2 {
		return nil, ErrInvalidCurve
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, ErrDegenerateCurve
		}
	}
	c := &Curve{
		xs: make([]float64, len(xs)),
		ys: make([]float64, len(ys)),
	}
	copy(c.xs, xs)
	copy(c.ys, ys)
	return c, nil
}

func (c *Curve) Len() int { return len(c.xs) }

func (c *Curve) X(i int) float64 { return c.xs[i] }
func (c *Curve) Y(i int) float64 { return c.ys[i] }

// Xs returns the backing x slice. Callers must not modify it.
func (c *Curve) Xs() []float64 { return c.xs }

// Ys returns the backing y slice. Callers must not modify it.
func (c *Curve) Ys() []float64 { return c.ys }

// Domain returns the smallest and largest x.
func (c *Curve) Domain() (lo, hi float64) {
	return c.xs[0], c.xs[len(c.xs)-1]
}

// MaxY returns the index and value of the largest y.
func (c *Curve) MaxY() (int, float64) {
	idx, best := 0, c.ys[0]
	for i, v := range c.ys {
		if v > best {
			idx, best = i, v
		}
	}
	return idx, best
}

// MinY returns the index and value of the smallest y.
func (c *Curve) MinY() (int, float64) {
	idx, best := 0, c.ys[0]
	for i, v := range c.ys {
		if v < best {
			idx, best = i, v
		}
	}
	return idx, best
}

// Slice returns the sub-curve over index range [lo, hi) as a new curve.
func (c *Curve) Slice(lo, hi int) (*Curve, error) {
	if lo < 0 || hi > len(c.xs) || hi-lo < 2 {
		return nil, ErrInvalidCurve
	}
	return New(c.xs[lo:hi], c.ys[lo:hi])
}

// MapY returns a new curve with f applied to every y.
func (c *Curve) MapY(f func(float64) float64) *Curve {
	ys := make([]float64, len(c.ys))
	for i, v := range c.ys {
		ys[i] = f(v)
	}
	out, _ := New(c.xs, ys)
	return out
}

// IsValid reports whether every sample is finite.
func (c *Curve) IsValid() bool {
	for i := range c.xs {
		if math.IsNaN(c.xs[i]) || math.IsInf(c.xs[i], 0) ||
			math.IsNaN(c.ys[i]) || math.IsInf(c.ys[i], 0) {
			return false
		}
	}
	return true
}
