package technique

import (
	"fmt"
	"math"

	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
)

// TGA analyzes a thermogravimetric weight-loss curve: raw weight over
// temperature. Weight is normalized to percent of the initial mass before
// any parameter is extracted, so raw mg and pre-normalized exports behave
// identically.
type TGA struct{}

func (*TGA) Name() string { return "tga" }

// Parameter names reported by TGA.
const (
	ParamT5         = "t5"
	ParamT50        = "t50"
	ParamTmax       = "tmax"
	ParamResidue    = "residue"
	ParamWeightLoss = "weight_loss"
)

func (tg *TGA) Analyze(t Trial, cfg config.Analysis) (*Record, error) {
	raw, err := preprocess(t.Primary, cfg)
	if err != nil {
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: tg.Name(), Wrapped: err}
	}

	initial := raw.Y(0)
	if initial == 0 {
		return nil, &TrialError{
			Sample: t.Sample, Trial: t.Name, Technique: tg.Name(),
			Wrapped: fmt.Errorf("%w: zero initial weight", curve.ErrInvalidCurve),
		}
	}
	pct := raw.MapY(func(y float64) float64 { return y / initial * 100 })

	rec := newRecord(t, tg.Name())

	if x, err := curve.CrossingX(pct, 95, curve.Falling); err != nil {
		rec.invalidate(ParamT5, fmt.Errorf("5%% weight loss never reached: %w", err))
	} else {
		rec.set(ParamT5, x)
	}
	if x, err := curve.CrossingX(pct, 50, curve.Falling); err != nil {
		rec.invalidate(ParamT50, fmt.Errorf("50%% weight loss never reached: %w", err))
	} else {
		rec.set(ParamT50, x)
	}

	dtg, err := curve.Derivative(pct)
	if err != nil {
		// Dedup should make this impossible; treat as fatal per the error
		// taxonomy if it happens anyway.
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: tg.Name(), Wrapped: err}
	}
	tg.findTmax(rec, dtg, cfg.TGA)
	tg.findResidue(rec, pct, cfg.TGA)

	_, minPct := pct.MinY()
	rec.set(ParamWeightLoss, 100-minPct)

	return rec, nil
}

// findTmax locates the temperature of maximum decomposition rate: the
// largest-magnitude DTG sample inside the decomposition window, parabola-
// refined to sub-sample resolution when enabled.
func (tg *TGA) findTmax(rec *Record, dtg *curve.Curve, cfg config.TGAConfig) {
	lo, hi := -1, -1
	for i := 0; i < dtg.Len(); i++ {
		if dtg.X(i) >= cfg.DecompStart && dtg.X(i) <= cfg.DecompEnd {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 || hi-lo < 1 {
		rec.invalidate(ParamTmax, fmt.Errorf("%w: curve does not reach decomposition window %g–%g",
			curve.ErrOutOfRange, cfg.DecompStart, cfg.DecompEnd))
		return
	}

	best := lo
	for i := lo; i <= hi; i++ {
		if math.Abs(dtg.Y(i)) > math.Abs(dtg.Y(best)) {
			best = i
		}
	}

	if cfg.PeakRefinement {
		// Refine on the magnitude curve so rate minima (mass loss) and
		// maxima are treated alike.
		mag := dtg.MapY(math.Abs)
		x, _ := curve.RefinePeak(mag, best)
		rec.set(ParamTmax, x)
		return
	}
	rec.set(ParamTmax, dtg.X(best))
}

// findResidue reads percent weight at the reference temperature. A curve
// ending short of the reference by no more than the tolerance reports the
// final sample with a note; anything shorter marks the parameter invalid.
func (tg *TGA) findResidue(rec *Record, pct *curve.Curve, cfg config.TGAConfig) {
	if y, err := curve.Interpolate(pct, cfg.ResidueTemperature); err == nil {
		rec.set(ParamResidue, y)
		return
	}
	_, hiX := pct.Domain()
	if hiX >= cfg.ResidueTemperature-cfg.ResidueTolerance {
		rec.setNote(ParamResidue, pct.Y(pct.Len()-1),
			fmt.Sprintf("curve ends at %.1f °C, within %.1f °C of reference", hiX, cfg.ResidueTolerance))
		return
	}
	rec.invalidate(ParamResidue, fmt.Errorf("%w: curve ends at %.1f °C, reference %.1f °C",
		curve.ErrOutOfRange, hiX, cfg.ResidueTemperature))
}
