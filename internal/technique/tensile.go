package technique

import (
	"fmt"
	"math"

	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
	"github.com/polymerlab/mechtherm/internal/linfit"
)

// Tensile analyzes an engineering stress–strain curve. The ingest layer has
// already divided load by cross-section and extension by gauge length, so
// Primary arrives as stress (MPa) over strain (dimensionless). When the raw
// load–extension channel is supplied as Aux, peak load and extension are
// reported in instrument units too.
type Tensile struct{}

func (*Tensile) Name() string { return "tensile" }

// Parameter names reported by Tensile.
const (
	ParamYoungsModulus = "youngs_modulus"
	ParamModulusR2     = "modulus_r_squared"
	ParamUTS           = "uts"
	ParamStrainAtBreak = "strain_at_break"
	ParamToughness     = "toughness"
	ParamMaxLoad       = "max_load"
	ParamMaxExtension  = "max_extension"
)

func (tn *Tensile) Analyze(t Trial, cfg config.Analysis) (*Record, error) {
	c, err := preprocess(t.Primary, cfg)
	if err != nil {
		return nil, &TrialError{Sample: t.Sample, Trial: t.Name, Technique: tn.Name(), Wrapped: err}
	}

	rec := newRecord(t, tn.Name())

	region, err := linfit.FindRegion(c, regionOptions(cfg, cfg.Tensile.MinR2))
	if err != nil {
		rec.invalidate(ParamYoungsModulus, err)
		rec.invalidate(ParamModulusR2, err)
	} else {
		rec.set(ParamYoungsModulus, region.Slope)
		rec.set(ParamModulusR2, region.R2)
	}

	peak, uts := c.MaxY()
	rec.set(ParamUTS, uts)

	breakStrain, fractured := fractureStrain(c, peak, cfg.Tensile.FractureDropFraction)
	if fractured {
		rec.setNote(ParamStrainAtBreak, breakStrain, "fracture point detected by stress drop")
	} else {
		rec.set(ParamStrainAtBreak, breakStrain)
	}

	if tough, err := curve.IntegrateTo(c, breakStrain); err != nil {
		rec.invalidate(ParamToughness, fmt.Errorf("toughness integral: %w", err))
	} else {
		rec.set(ParamToughness, tough)
	}

	if !t.Aux.Empty() {
		maxLoad, maxExt := math.Inf(-1), math.Inf(-1)
		for i := range t.Aux.Xs {
			if ext := t.Aux.Xs[i]; !math.IsNaN(ext) && ext > maxExt {
				maxExt = ext
			}
			if load := t.Aux.Ys[i]; !math.IsNaN(load) && load > maxLoad {
				maxLoad = load
			}
		}
		if !math.IsInf(maxLoad, -1) {
			rec.set(ParamMaxLoad, maxLoad)
			rec.set(ParamMaxExtension, maxExt)
		}
	}

	return rec, nil
}

// fractureStrain returns the strain at break: the strain just before the
// first single-step stress drop exceeding dropFraction of the stress at peak,
// or the last sample's strain when no such drop exists. The scan starts at
// peak, so a pre-peak transient (a grip slip, a load-cell spike) cannot be
// mistaken for fracture. dropFraction <= 0 disables fracture detection.
func fractureStrain(c *curve.Curve, peak int, dropFraction float64) (float64, bool) {
	if dropFraction > 0 {
		threshold := dropFraction * c.Y(peak)
		for i := peak + 1; i < c.Len(); i++ {
			if c.Y(i-1)-c.Y(i) > threshold {
				return c.X(i - 1), true
			}
		}
	}
	return c.X(c.Len() - 1), false
}
