package curve

// Derivative computes dy/dx at every sample. Interior points use central
// differences over the local spacing so unevenly sampled curves are handled;
// the two boundary points use one-sided differences. Output length equals
// input length.
func Derivative(c *Curve) (*Curve, error) {
	n := c.Len()
	if n < 2 {
		return nil, ErrInvalidCurve
	}
	xs, ys := c.Xs(), c.Ys()
	for i := 1; i < n; i++ {
		if xs[i] == xs[i-1] {
			return nil, ErrDegenerateCurve
		}
	}

	d := make([]float64, n)
	d[0] = (ys[1] - ys[0]) / (xs[1] - xs[0])
	d[n-1] = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
	for i := 1; i < n-1; i++ {
		d[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
	}

	return New(xs, d)
}
