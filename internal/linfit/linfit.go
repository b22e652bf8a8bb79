// Package linfit implements least-squares line fitting and the adaptive
// linear-region search used for tensile modulus and onset detection.
package linfit

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrNoLinearRegion indicates the search found no window meeting the
// configured R² threshold.
var ErrNoLinearRegion = errors.New("linfit: no linear region above R² threshold")

// Fit is an ordinary least-squares line fit.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// LineThrough evaluates the fitted line at x.
func (f Fit) LineThrough(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Line fits y = intercept + slope*x over the full slices.
func Line(xs, ys []float64) Fit {
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Fit{
		Slope:     beta,
		Intercept: alpha,
		R2:        rSquared(xs, ys, alpha, beta),
	}
}

func rSquared(xs, ys []float64, alpha, beta float64) float64 {
	mean := stat.Mean(ys, nil)
	ssTot, ssRes := 0.0, 0.0
	for i := range xs {
		d := ys[i] - mean
		ssTot += d * d
		r := ys[i] - (alpha + beta*xs[i])
		ssRes += r * r
	}
	if ssTot == 0 {
		// A constant series is fit perfectly by a flat line.
		return 1
	}
	return 1 - ssRes/ssTot
}
