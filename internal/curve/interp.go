package curve

// Interpolate returns y at the given x by linear interpolation between the
// bracketing samples. Fails with ErrOutOfRange when x lies outside [x0, xN].
func Interpolate(c *Curve, x float64) (float64, error) {
	xs, ys := c.Xs(), c.Ys()
	if x < xs[0] || x > xs[len(xs)-1] {
		return 0, ErrOutOfRange
	}
	// Binary search for the right bracket.
	lo, hi := 0, len(xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	if x == xs[lo] {
		return ys[lo], nil
	}
	t := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo]), nil
}

// Direction selects which way a threshold crossing is taken.
type Direction int

const (
	// Falling finds the first x where y drops to or below the level.
	Falling Direction = iota
	// Rising finds the first x where y climbs to or above the level.
	Rising
)

// CrossingX returns the first x at which y crosses the level in the given
// direction, linearly interpolated between the two bracketing samples for
// sub-resolution accuracy. If the curve starts on the far side of the level
// the first x is returned. Fails with ErrOutOfRange when the level is never
// crossed.
func CrossingX(c *Curve, level float64, dir Direction) (float64, error) {
	xs, ys := c.Xs(), c.Ys()

	crossed := func(y float64) bool {
		if dir == Falling {
			return y <= level
		}
		return y >= level
	}

	if crossed(ys[0]) {
		return xs[0], nil
	}
	for i := 1; i < len(ys); i++ {
		if !crossed(ys[i]) {
			continue
		}
		if ys[i] == ys[i-1] {
			return xs[i], nil
		}
		t := (level - ys[i-1]) / (ys[i] - ys[i-1])
		return xs[i-1] + t*(xs[i]-xs[i-1]), nil
	}
	return 0, ErrOutOfRange
}
