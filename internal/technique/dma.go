package technique

import (
	"fmt"
	"math"

	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
)

// DMA analyzes a dynamic-mechanical-analysis temperature sweep. Primary is
// storage modulus E′ over temperature; Aux is tan δ over temperature.
type DMA struct{}

func (*DMA) Name() string { return "dma" }

// Parameter names reported by DMA. Modulus-at-temperature lookups are named
// dynamically, e.g. "storage_modulus_25C".
const (
	ParamTgTanDelta   = "tg_tan_delta"
	ParamTanDeltaPeak = "tan_delta_peak"
	ParamTgEPrime     = "tg_eprime_onset"
)

// ModulusParamName is the record key for a storage-modulus lookup at the
// given temperature.
func ModulusParamName(temp float64) string {
	return fmt.Sprintf("storage_modulus_%gC", temp)
}

func (dm *DMA) Analyze(t Trial, cfg config.Analysis) (*Record, error) {
	eprime, err := preprocess(t.Primary, cfg)
	if err != nil {
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: dm.Name(), Wrapped: err}
	}

	rec := newRecord(t, dm.Name())

	if t.Aux.Empty() {
		missing := fmt.Errorf("%w: tan δ channel missing", curve.ErrInvalidCurve)
		rec.invalidate(ParamTgTanDelta, missing)
		rec.invalidate(ParamTanDeltaPeak, missing)
	} else if tand, err := preprocess(t.Aux, cfg); err != nil {
		rec.invalidate(ParamTgTanDelta, err)
		rec.invalidate(ParamTanDeltaPeak, err)
	} else {
		idx, _ := tand.MaxY()
		if cfg.DMA.PeakRefinement {
			x, y := curve.RefinePeak(tand, idx)
			rec.set(ParamTgTanDelta, x)
			rec.set(ParamTanDeltaPeak, y)
		} else {
			rec.set(ParamTgTanDelta, tand.X(idx))
			rec.set(ParamTanDeltaPeak, tand.Y(idx))
		}
	}

	dm.findEPrimeOnset(rec, eprime, cfg)

	for _, temp := range cfg.DMA.ModulusAt {
		name := ModulusParamName(temp)
		if y, err := curve.Interpolate(eprime, temp); err != nil {
			rec.invalidate(name, fmt.Errorf("modulus at %g °C: %w", temp, err))
		} else {
			rec.set(name, y)
		}
	}

	return rec, nil
}

// findEPrimeOnset locates Tg as the onset of the storage-modulus drop: the
// intersection of the glassy-plateau baseline of log10(E′) with the tangent
// through the steepest descent, mirroring the DSC onset construction.
func (dm *DMA) findEPrimeOnset(rec *Record, eprime *curve.Curve, cfg config.Analysis) {
	for i := 0; i < eprime.Len(); i++ {
		if eprime.Y(i) <= 0 {
			rec.invalidate(ParamTgEPrime,
				fmt.Errorf("%w: non-positive E′ at %g °C, log scale undefined", curve.ErrInvalidCurve, eprime.X(i)))
			return
		}
	}
	logE := eprime.MapY(math.Log10)

	d, err := curve.Derivative(logE)
	if err != nil {
		rec.invalidate(ParamTgEPrime, err)
		return
	}
	tr, err := findTransition(d, cfg.DSC.SlopeThresholdFraction)
	if err != nil {
		rec.invalidate(ParamTgEPrime, err)
		return
	}
	base, err := baselineFit(logE, 0, tr.lo+1, baselineConfig{
		minR2:            cfg.DMA.OnsetMinR2,
		minWidthFraction: cfg.Region.MinWidthFraction,
		r2Tolerance:      cfg.Region.R2Tolerance,
	})
	if err != nil {
		rec.invalidate(ParamTgEPrime, err)
		return
	}
	x, err := onsetX(logE, d, tr, base)
	if err != nil {
		rec.invalidate(ParamTgEPrime, err)
		return
	}
	rec.set(ParamTgEPrime, x)
}
