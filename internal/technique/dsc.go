package technique

import (
	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
)

// DSC analyzes one pre-isolated heating segment of a differential-scanning-
// calorimetry run: heat flow over temperature. Cycle selection happens
// upstream; the analyzer assumes the segment it receives covers exactly one
// heating ramp.
//
// Three glass-transition conventions are reported side by side rather than
// reconciled into one number: onset, midpoint and inflection each have their
// own literature and their own biases, and papers quote whichever their
// field expects.
type DSC struct{}

func (*DSC) Name() string { return "dsc" }

// Parameter names reported by DSC.
const (
	ParamTgOnset      = "tg_onset"
	ParamTgMidpoint   = "tg_midpoint"
	ParamTgInflection = "tg_inflection"
)

func (ds *DSC) Analyze(t Trial, cfg config.Analysis) (*Record, error) {
	c, err := preprocess(t.Primary, cfg)
	if err != nil {
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: ds.Name(), Wrapped: err}
	}
	d, err := curve.Derivative(c)
	if err != nil {
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: ds.Name(), Wrapped: err}
	}

	rec := newRecord(t, ds.Name())

	tr, err := findTransition(d, cfg.DSC.SlopeThresholdFraction)
	if err != nil {
		rec.invalidate(ParamTgOnset, err)
		rec.invalidate(ParamTgMidpoint, err)
		rec.invalidate(ParamTgInflection, err)
		return rec, nil
	}

	bcfg := baselineConfig{
		minR2:            cfg.DSC.BaselineMinR2,
		minWidthFraction: cfg.Region.MinWidthFraction,
		r2Tolerance:      cfg.Region.R2Tolerance,
	}

	pre, preErr := baselineFit(c, 0, tr.lo+1, bcfg)
	post, postErr := baselineFit(c, tr.hi, c.Len(), bcfg)

	if preErr != nil {
		rec.invalidate(ParamTgOnset, preErr)
	} else if x, err := onsetX(c, d, tr, pre); err != nil {
		rec.invalidate(ParamTgOnset, err)
	} else {
		rec.set(ParamTgOnset, x)
	}

	switch {
	case preErr != nil:
		rec.invalidate(ParamTgMidpoint, preErr)
	case postErr != nil:
		rec.invalidate(ParamTgMidpoint, postErr)
	default:
		if x, err := midpointX(c, tr, pre, post); err != nil {
			rec.invalidate(ParamTgMidpoint, err)
		} else {
			rec.set(ParamTgMidpoint, x)
		}
	}

	rec.set(ParamTgInflection, inflectionX(d, tr, cfg.DSC.PeakRefinement))

	return rec, nil
}
