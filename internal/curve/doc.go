// Package curve provides the shared series type and numeric primitives for
// all analysis techniques.
//
// A [Curve] is an immutable (x, y) series with strictly increasing x. Raw
// instrument data is turned into one with [Preprocess], which deduplicates,
// sorts and optionally smooths the samples:
//
//	c, err := curve.Preprocess(xs, ys, curve.PreprocessOptions{SmoothingWindow: 5})
//	d, err := curve.Derivative(c)
//
// The primitives here back every technique module:
//
//   - [Derivative]: central-difference dy/dx tolerant of uneven spacing
//   - [Interpolate]: linear interpolation within the curve domain
//   - [CrossingX]: sub-sample threshold crossing (TGA T5/T50)
//   - [RefinePeak]: parabolic refinement of a discrete extremum (Tmax, tan δ)
//   - [Integrate]: trapezoidal integral (tensile toughness)
package curve
