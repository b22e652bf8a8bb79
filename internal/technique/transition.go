package technique

import (
	"fmt"
	"math"

	"github.com/polymerlab/mechtherm/internal/curve"
	"github.com/polymerlab/mechtherm/internal/linfit"
)

// transition is an index run of large-magnitude slope bounded by flatter
// baseline on both sides. lo and hi are inclusive; peak is the index of the
// steepest point.
type transition struct {
	lo, hi int
	peak   int
}

// findTransition scans a derivative curve for the widest contiguous run
// whose slope magnitude exceeds slopeFraction of the peak magnitude, keeping
// only runs with enough samples on both sides to fit baselines. All Tg
// estimators for one curve operate over the window found here.
func findTransition(d *curve.Curve, slopeFraction float64) (transition, error) {
	n := d.Len()
	maxMag := 0.0
	for i := 0; i < n; i++ {
		if m := math.Abs(d.Y(i)); m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		return transition{}, fmt.Errorf("%w: flat curve", ErrNoTransitionFound)
	}
	threshold := slopeFraction * maxMag

	minBaseline := n / 20
	if minBaseline < 3 {
		minBaseline = 3
	}

	bestSpan := -1.0
	var best transition
	for i := 0; i < n; {
		if math.Abs(d.Y(i)) < threshold {
			i++
			continue
		}
		j := i
		for j+1 < n && math.Abs(d.Y(j+1)) >= threshold {
			j++
		}
		// Baseline room on both sides keeps runs that butt against the
		// curve ends from masquerading as transitions.
		if i >= minBaseline && n-1-j >= minBaseline {
			if span := d.X(j) - d.X(i); span > bestSpan {
				peak := i
				for k := i; k <= j; k++ {
					if math.Abs(d.Y(k)) > math.Abs(d.Y(peak)) {
						peak = k
					}
				}
				best = transition{lo: i, hi: j, peak: peak}
				bestSpan = span
			}
		}
		i = j + 1
	}

	if bestSpan < 0 {
		return transition{}, ErrNoTransitionFound
	}
	return best, nil
}

// baselineFit fits the flattest available line over an index range using the
// adaptive region search with the looser baseline threshold, falling back to
// a plain least-squares line when the range is too short for a search.
func baselineFit(c *curve.Curve, lo, hi int, cfg baselineConfig) (linfit.Fit, error) {
	if hi-lo < 2 {
		return linfit.Fit{}, fmt.Errorf("%w: %d baseline samples", linfit.ErrNoLinearRegion, hi-lo)
	}
	sub, err := c.Slice(lo, hi)
	if err != nil {
		return linfit.Fit{}, err
	}
	region, err := linfit.FindRegion(sub, linfit.RegionOptions{
		MinR2:            cfg.minR2,
		MinWidthFraction: cfg.minWidthFraction,
		MaxWidthFraction: 1.0,
		R2Tolerance:      cfg.r2Tolerance,
	})
	if err != nil {
		return linfit.Fit{}, err
	}
	return region.Fit, nil
}

type baselineConfig struct {
	minR2            float64
	minWidthFraction float64
	r2Tolerance      float64
}

// onsetX intersects the pre-transition baseline with the tangent through the
// steepest point of the transition. The intersection's x is the onset
// temperature.
func onsetX(c, d *curve.Curve, tr transition, base linfit.Fit) (float64, error) {
	tanSlope := d.Y(tr.peak)
	if tanSlope == base.Slope {
		return 0, fmt.Errorf("%w: tangent parallel to baseline", ErrNoTransitionFound)
	}
	tanIntercept := c.Y(tr.peak) - tanSlope*c.X(tr.peak)
	return (base.Intercept - tanIntercept) / (tanSlope - base.Slope), nil
}

// midpointX finds where the curve crosses the average of the pre- and
// post-transition baseline levels, evaluated at the transition edges.
func midpointX(c *curve.Curve, tr transition, pre, post linfit.Fit) (float64, error) {
	preLevel := pre.LineThrough(c.X(tr.lo))
	postLevel := post.LineThrough(c.X(tr.hi))
	level := (preLevel + postLevel) / 2

	sub, err := c.Slice(tr.lo, tr.hi+1)
	if err != nil {
		return 0, err
	}
	dir := curve.Falling
	if postLevel > preLevel {
		dir = curve.Rising
	}
	x, err := curve.CrossingX(sub, level, dir)
	if err != nil {
		return 0, fmt.Errorf("%w: baseline average never crossed in window", ErrNoTransitionFound)
	}
	return x, nil
}

// inflectionX refines the derivative extremum to sub-sample resolution.
func inflectionX(d *curve.Curve, tr transition, refine bool) float64 {
	if !refine {
		return d.X(tr.peak)
	}
	mag := d.MapY(math.Abs)
	x, _ := curve.RefinePeak(mag, tr.peak)
	return x
}
