package linfit

import (
	"fmt"

	"github.com/polymerlab/mechtherm/internal/curve"
)

// RegionOptions configures the adaptive linear-region search. Zero values
// fall back to the defaults noted per field.
type RegionOptions struct {
	// MinR2 rejects the search outcome entirely when the best window's R²
	// falls below it. Default 0.98.
	MinR2 float64
	// MinWidthFraction is the smallest window width as a fraction of curve
	// length. Default 0.05, floored at 3 samples.
	MinWidthFraction float64
	// MaxWidthFraction is the largest window width as a fraction of curve
	// length. Default 0.50.
	MaxWidthFraction float64
	// R2Tolerance is the band below the maximum R² within which wider and
	// earlier windows are preferred. Default 0.001.
	R2Tolerance float64
}

func (o RegionOptions) withDefaults() RegionOptions {
	if o.MinR2 == 0 {
		o.MinR2 = 0.98
	}
	if o.MinWidthFraction == 0 {
		o.MinWidthFraction = 0.05
	}
	if o.MaxWidthFraction == 0 {
		o.MaxWidthFraction = 0.50
	}
	if o.R2Tolerance == 0 {
		o.R2Tolerance = 0.001
	}
	return o
}

// Region is the best-fitting linear window found in a curve. Start is
// inclusive and End exclusive.
type Region struct {
	Fit
	Start int
	End   int
}

// FindRegion scans windows of increasing width across the curve and returns
// the one maximizing R². Within R2Tolerance of the maximum, wider windows win
// (more stable slope), and among equal widths the earliest start wins (the
// true initial linear response for tensile curves). Raw instrument curves
// carry toe and slack regions at the start and go nonlinear near yield, so a
// fixed window is unreliable; the search adapts per curve.
func FindRegion(c *curve.Curve, opts RegionOptions) (Region, error) {
	opts = opts.withDefaults()
	n := c.Len()

	minW := int(opts.MinWidthFraction * float64(n))
	if minW < 3 {
		minW = 3
	}
	maxW := int(opts.MaxWidthFraction * float64(n))
	if maxW < minW {
		maxW = minW
	}
	if maxW > n {
		maxW = n
	}
	if n < minW {
		return Region{}, fmt.Errorf("%w: curve has %d points, window needs %d", ErrNoLinearRegion, n, minW)
	}

	sums := newWindowSums(c.Xs(), c.Ys())

	// First pass: the global R² maximum. The tie band must hang off this
	// value, not a running best, or each wider window inside the band could
	// replace it and let acceptance drift a full tolerance per width step.
	maxR2 := 0.0
	found := false
	for w := minW; w <= maxW; w++ {
		for start := 0; start+w <= n; start++ {
			f, ok := sums.fit(start, start+w)
			if !ok {
				continue
			}
			if !found || f.R2 > maxR2 {
				maxR2, found = f.R2, true
			}
		}
	}

	// Second pass: the widest window within the band of the maximum, and
	// among equal widths the earliest start. Width and start both ascend
	// through the scan, so the first qualifying window at each width is the
	// earliest and a strict width comparison suffices.
	var best Region
	if found {
		floor := maxR2 - opts.R2Tolerance
		for w := minW; w <= maxW; w++ {
			for start := 0; start+w <= n; start++ {
				f, ok := sums.fit(start, start+w)
				if !ok || f.R2 < floor {
					continue
				}
				if best.End == 0 || w > best.End-best.Start {
					best = Region{Fit: f, Start: start, End: start + w}
				}
			}
		}
	}

	if !found || best.R2 < opts.MinR2 {
		if found {
			return Region{}, fmt.Errorf("%w: best R²=%.4f over [%d,%d)", ErrNoLinearRegion, best.R2, best.Start, best.End)
		}
		return Region{}, ErrNoLinearRegion
	}
	return best, nil
}

// windowSums holds prefix sums so any window's least-squares fit is O(1);
// the full scan stays O(n²) instead of O(n³).
type windowSums struct {
	sx, sy, sxx, sxy, syy []float64
}

func newWindowSums(xs, ys []float64) *windowSums {
	n := len(xs)
	s := &windowSums{
		sx:  make([]float64, n+1),
		sy:  make([]float64, n+1),
		sxx: make([]float64, n+1),
		sxy: make([]float64, n+1),
		syy: make([]float64, n+1),
	}
	for i := 0; i < n; i++ {
		s.sx[i+1] = s.sx[i] + xs[i]
		s.sy[i+1] = s.sy[i] + ys[i]
		s.sxx[i+1] = s.sxx[i] + xs[i]*xs[i]
		s.sxy[i+1] = s.sxy[i] + xs[i]*ys[i]
		s.syy[i+1] = s.syy[i] + ys[i]*ys[i]
	}
	return s
}

func (s *windowSums) fit(lo, hi int) (Fit, bool) {
	n := float64(hi - lo)
	sx := s.sx[hi] - s.sx[lo]
	sy := s.sy[hi] - s.sy[lo]
	sxx := s.sxx[hi] - s.sxx[lo]
	sxy := s.sxy[hi] - s.sxy[lo]
	syy := s.syy[hi] - s.syy[lo]

	denom := n*sxx - sx*sx
	if denom == 0 {
		return Fit{}, false
	}
	slope := (n*sxy - sx*sy) / denom
	intercept := (sy - slope*sx) / n

	ssTot := syy - sy*sy/n
	if ssTot <= 0 {
		// Zero response variance carries no slope information; a noiseless
		// plateau must not outscore the elastic region.
		return Fit{}, false
	}
	ssRes := ssTot - slope*(sxy-sx*sy/n)
	if ssRes < 0 {
		ssRes = 0
	}
	return Fit{Slope: slope, Intercept: intercept, R2: 1 - ssRes/ssTot}, true
}
