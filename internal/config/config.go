package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSmoothingWindow  = 0
	DefaultMinWidthFraction = 0.05
	DefaultMaxWidthFraction = 0.50
	DefaultR2Tolerance      = 0.001
	DefaultTensileMinR2     = 0.98
	DefaultBaselineMinR2    = 0.90
	DefaultFractureDrop     = 0.10
	DefaultResidueTemp      = 600.0
	DefaultResidueTolerance = 5.0
	DefaultDecompStart      = 200.0
	DefaultDecompEnd        = 600.0
	DefaultSlopeFraction    = 0.20
)

// Analysis is the full configuration surface of the analysis engine. It is
// passed by value into every Analyze call; the engine holds no ambient state.
type Analysis struct {
	SmoothingWindow int           `yaml:"smoothing_window"`
	Region          RegionConfig  `yaml:"region"`
	Tensile         TensileConfig `yaml:"tensile"`
	TGA             TGAConfig     `yaml:"tga"`
	DSC             DSCConfig     `yaml:"dsc"`
	DMA             DMAConfig     `yaml:"dma"`
}

// RegionConfig bounds the adaptive linear-region search.
type RegionConfig struct {
	MinWidthFraction float64 `yaml:"min_width_fraction"`
	MaxWidthFraction float64 `yaml:"max_width_fraction"`
	R2Tolerance      float64 `yaml:"r2_tolerance"`
}

type TensileConfig struct {
	// MinR2 is the acceptance threshold for the elastic-region fit.
	MinR2 float64 `yaml:"min_r_squared"`
	// FractureDropFraction flags a fracture when a single-step stress drop
	// exceeds this fraction of UTS.
	FractureDropFraction float64 `yaml:"fracture_drop_fraction"`
}

type TGAConfig struct {
	// ResidueTemperature is the reference temperature for the residue
	// reading, conventionally 600 °C.
	ResidueTemperature float64 `yaml:"residue_temperature"`
	// ResidueTolerance accepts a curve ending short of the reference by up
	// to this many degrees, reading the residue at the final sample.
	ResidueTolerance float64 `yaml:"residue_tolerance"`
	// DecompStart/DecompEnd bound the window searched for the maximum
	// decomposition rate.
	DecompStart float64 `yaml:"decomposition_start"`
	DecompEnd   float64 `yaml:"decomposition_end"`
	// PeakRefinement enables parabolic sub-sample refinement of Tmax.
	PeakRefinement bool `yaml:"peak_refinement"`
}

type DSCConfig struct {
	// SlopeThresholdFraction defines "large-magnitude slope" as this
	// fraction of the derivative's peak magnitude.
	SlopeThresholdFraction float64 `yaml:"slope_threshold_fraction"`
	// BaselineMinR2 is the (looser) acceptance threshold for the pre- and
	// post-transition baseline fits.
	BaselineMinR2 float64 `yaml:"baseline_min_r_squared"`
	// PeakRefinement enables parabolic refinement of the inflection Tg.
	PeakRefinement bool `yaml:"peak_refinement"`
}

type DMAConfig struct {
	// OnsetMinR2 is the acceptance threshold for the log(E′) baseline fit.
	OnsetMinR2 float64 `yaml:"onset_min_r_squared"`
	// PeakRefinement enables parabolic refinement of the tan δ peak.
	PeakRefinement bool `yaml:"peak_refinement"`
	// ModulusAt lists temperatures at which storage modulus is reported.
	ModulusAt []float64 `yaml:"modulus_at"`
}

// DefaultAnalysis returns the documented defaults for every threshold.
func DefaultAnalysis() Analysis {
	return Analysis{
		SmoothingWindow: DefaultSmoothingWindow,
		Region: RegionConfig{
			MinWidthFraction: DefaultMinWidthFraction,
			MaxWidthFraction: DefaultMaxWidthFraction,
			R2Tolerance:      DefaultR2Tolerance,
		},
		Tensile: TensileConfig{
			MinR2:                DefaultTensileMinR2,
			FractureDropFraction: DefaultFractureDrop,
		},
		TGA: TGAConfig{
			ResidueTemperature: DefaultResidueTemp,
			ResidueTolerance:   DefaultResidueTolerance,
			DecompStart:        DefaultDecompStart,
			DecompEnd:          DefaultDecompEnd,
			PeakRefinement:     true,
		},
		DSC: DSCConfig{
			SlopeThresholdFraction: DefaultSlopeFraction,
			BaselineMinR2:          DefaultBaselineMinR2,
			PeakRefinement:         true,
		},
		DMA: DMAConfig{
			OnsetMinR2:     DefaultBaselineMinR2,
			PeakRefinement: true,
		},
	}
}

// Load reads a yaml file over the defaults, so absent keys keep their
// documented values.
func Load(path string) (Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Analysis{}, err
	}
	cfg := DefaultAnalysis()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Analysis{}, err
	}
	return cfg, nil
}

// Save writes the configuration as yaml.
func Save(path string, cfg Analysis) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
