package curve

// RefinePeak refines the discrete extremum at index i by fitting a parabola
// through (x, y) at i-1, i, i+1 and returning the vertex. This recovers the
// sub-sample position of a peak that falls between samples. At the curve
// boundaries, or when the three points are collinear, the sample itself is
// returned unchanged.
func RefinePeak(c *Curve, i int) (x, y float64) {
	xs, ys := c.Xs(), c.Ys()
	if i <= 0 || i >= len(xs)-1 {
		return xs[i], ys[i]
	}

	x0, x1, x2 := xs[i-1], xs[i], xs[i+1]
	y0, y1, y2 := ys[i-1], ys[i], ys[i+1]

	// Lagrange parabola through the three points; vertex from the quadratic
	// coefficients, robust to uneven spacing.
	d0 := (x0 - x1) * (x0 - x2)
	d1 := (x1 - x0) * (x1 - x2)
	d2 := (x2 - x0) * (x2 - x1)
	a := y0/d0 + y1/d1 + y2/d2
	b := -y0*(x1+x2)/d0 - y1*(x0+x2)/d1 - y2*(x0+x1)/d2
	if a == 0 {
		return x1, y1
	}

	vx := -b / (2 * a)
	if vx < x0 || vx > x2 {
		// Degenerate fit; trust the sample.
		return x1, y1
	}
	cc := y0*x1*x2/d0 + y1*x0*x2/d1 + y2*x0*x1/d2
	return vx, a*vx*vx + b*vx + cc
}
