package config

// Presets holds named threshold bundles per technique, for instrument setups
// that need something other than the stock defaults.
var Presets = map[string]map[string]Analysis{
	"tensile": {
		// Elastomers show long toe regions and soft yielding; accept a
		// looser fit and a wider fracture drop.
		"elastomer": func() Analysis {
			c := DefaultAnalysis()
			c.Tensile.MinR2 = 0.95
			c.Tensile.FractureDropFraction = 0.20
			c.Region.MaxWidthFraction = 0.35
			return c
		}(),
		"rigid": func() Analysis {
			c := DefaultAnalysis()
			c.Tensile.MinR2 = 0.995
			c.Tensile.FractureDropFraction = 0.05
			return c
		}(),
	},
	"tga": {
		"noisy": func() Analysis {
			c := DefaultAnalysis()
			c.SmoothingWindow = 7
			return c
		}(),
		"char": func() Analysis {
			c := DefaultAnalysis()
			c.TGA.ResidueTemperature = 800
			c.TGA.DecompEnd = 800
			return c
		}(),
	},
	"dsc": {
		"weak_transition": func() Analysis {
			c := DefaultAnalysis()
			c.SmoothingWindow = 5
			c.DSC.SlopeThresholdFraction = 0.10
			return c
		}(),
	},
	"dma": {
		"film": func() Analysis {
			c := DefaultAnalysis()
			c.SmoothingWindow = 3
			c.DMA.ModulusAt = []float64{25, 50}
			return c
		}(),
	},
}

// GetPreset returns the named preset for a technique, or false when either
// the technique or the preset is unknown.
func GetPreset(technique, name string) (Analysis, bool) {
	group, ok := Presets[technique]
	if !ok {
		return Analysis{}, false
	}
	cfg, ok := group[name]
	return cfg, ok
}

// ListPresets returns the preset names for a technique, or nil when the
// technique has none.
func ListPresets(technique string) []string {
	group, ok := Presets[technique]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
