package technique

import (
	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
	"github.com/polymerlab/mechtherm/internal/linfit"
)

// Series is one raw (x, y) channel as delivered by the ingest layer, before
// preprocessing. Analyzers clean it themselves so every trial goes through
// the same dedup/sort/smoothing path.
type Series struct {
	Xs []float64
	Ys []float64
}

// Empty reports whether the channel carries no data.
func (s Series) Empty() bool { return len(s.Xs) == 0 }

// Trial is one physical specimen's data. Primary is the technique's main
// response channel (stress–strain, weight–temperature, heat flow–temperature,
// E′–temperature); Aux is the secondary channel where one exists (tan δ for
// DMA). A trial is owned by the analysis run that created it.
type Trial struct {
	Sample  string
	Name    string
	Primary Series
	Aux     Series
}

// Technique is the closed analysis contract: one cleaned trial in, one
// record of named parameters out.
type Technique interface {
	Name() string
	Analyze(t Trial, cfg config.Analysis) (*Record, error)
}

func preprocess(s Series, cfg config.Analysis) (*curve.Curve, error) {
	return curve.Preprocess(s.Xs, s.Ys, curve.PreprocessOptions{
		SmoothingWindow: cfg.SmoothingWindow,
	})
}

func regionOptions(cfg config.Analysis, minR2 float64) linfit.RegionOptions {
	return linfit.RegionOptions{
		MinR2:            minR2,
		MinWidthFraction: cfg.Region.MinWidthFraction,
		MaxWidthFraction: cfg.Region.MaxWidthFraction,
		R2Tolerance:      cfg.Region.R2Tolerance,
	}
}
