package curve

import (
	"math"
	"sort"
)

// PreprocessOptions controls raw-series cleanup.
type PreprocessOptions struct {
	// SmoothingWindow is the moving-average window in samples. 0 disables
	// smoothing. Boundary windows shrink so curve length is preserved.
	SmoothingWindow int
}

// Preprocess turns a raw instrument series into a canonical Curve: non-finite
// samples dropped, samples sorted by x, samples sharing an x averaged, and
// optionally smoothed. Returns ErrInvalidCurve when fewer than two usable
// points remain. With smoothing disabled the transform is idempotent.
func Preprocess(xs, ys []float64, opts PreprocessOptions) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}

	type sample struct{ x, y float64 }
	pts := make([]sample, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		pts = append(pts, sample{xs[i], ys[i]})
	}
	if len(pts) < 2 {
		return nil, ErrInvalidCurve
	}

	sort.SliceStable(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	// Average runs of equal x. Stable: input order within a run is kept by
	// the stable sort, and averaging is a single left-to-right pass.
	cx := make([]float64, 0, len(pts))
	cy := make([]float64, 0, len(pts))
	for i := 0; i < len(pts); {
		j := i + 1
		sum := pts[i].y
		for j < len(pts) && pts[j].x == pts[i].x {
			sum += pts[j].y
			j++
		}
		cx = append(cx, pts[i].x)
		cy = append(cy, sum/float64(j-i))
		i = j
	}
	if len(cx) < 2 {
		return nil, ErrInvalidCurve
	}

	if opts.SmoothingWindow > 1 {
		cy = movingAverage(cy, opts.SmoothingWindow)
	}

	return New(cx, cy)
}

// movingAverage smooths ys with a centered window of the given width,
// shrinking the window near the boundaries so output length equals input
// length and index alignment with x is preserved.
func movingAverage(ys []float64, window int) []float64 {
	half := window / 2
	out := make([]float64, len(ys))
	for i := range ys {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(ys)-1 {
			hi = len(ys) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += ys[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
