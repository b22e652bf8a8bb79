package curve

import "gonum.org/v1/gonum/integrate"

// Integrate returns the trapezoidal integral of y over the full x domain.
func Integrate(c *Curve) float64 {
	return integrate.Trapezoidal(c.Xs(), c.Ys())
}

// IntegrateTo returns the trapezoidal integral of y from the start of the
// domain up to the given x, with the final partial trapezoid cut at x by
// linear interpolation. Fails with ErrOutOfRange when x is outside the
// domain.
func IntegrateTo(c *Curve, x float64) (float64, error) {
	xs, ys := c.Xs(), c.Ys()
	if x < xs[0] || x > xs[len(xs)-1] {
		return 0, ErrOutOfRange
	}

	total := 0.0
	for i := 1; i < len(xs); i++ {
		if xs[i] >= x {
			yAt, err := Interpolate(c, x)
			if err != nil {
				return 0, err
			}
			total += (x - xs[i-1]) * (ys[i-1] + yAt) / 2
			return total, nil
		}
		total += (xs[i] - xs[i-1]) * (ys[i-1] + ys[i]) / 2
	}
	return total, nil
}
