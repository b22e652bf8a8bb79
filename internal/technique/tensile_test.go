package technique

import (
	"errors"
	"math"
	"testing"

	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/curve"
)

// syntheticTensile builds an engineering stress–strain curve: linear at
// 2000 MPa to 50 MPa, a plateau at 50 MPa, and a sharp drop at strain 0.1.
func syntheticTensile() Series {
	var xs, ys []float64
	for e := 0.0; e <= 0.1001; e += 0.001 {
		stress := 2000 * e
		if stress > 50 {
			stress = 50
		}
		xs = append(xs, e)
		ys = append(ys, stress)
	}
	// Post-fracture tail.
	xs = append(xs, 0.101, 0.102)
	ys = append(ys, 5, 4)
	return Series{Xs: xs, Ys: ys}
}

func TestTensileAnalyze(t *testing.T) {
	tn := &Tensile{}
	cfg := config.DefaultAnalysis()

	rec, err := tn.Analyze(Trial{Sample: "PU-1", Name: "run1", Primary: syntheticTensile()}, cfg)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	mod, ok := rec.Get(ParamYoungsModulus)
	if !ok || !mod.Valid {
		t.Fatalf("modulus missing or invalid: %+v", mod)
	}
	if math.Abs(mod.V-2000) > 50 {
		t.Errorf("modulus: got %v, want 2000±50", mod.V)
	}

	uts, _ := rec.Get(ParamUTS)
	if math.Abs(uts.V-50) > 1e-9 {
		t.Errorf("UTS: got %v, want 50", uts.V)
	}

	brk, _ := rec.Get(ParamStrainAtBreak)
	if !brk.Valid || math.Abs(brk.V-0.1) > 0.001 {
		t.Errorf("strain at break: got %+v, want ~0.1", brk)
	}
	if brk.Note == "" {
		t.Error("expected fracture-point note on strain at break")
	}

	// ∫σdε = 0.025·50/2 + 0.075·50 = 4.375 MJ/m³.
	tough, _ := rec.Get(ParamToughness)
	if !tough.Valid || math.Abs(tough.V-4.375) > 0.05 {
		t.Errorf("toughness: got %+v, want ~4.375", tough)
	}

	r2, _ := rec.Get(ParamModulusR2)
	if !r2.Valid || r2.V < cfg.Tensile.MinR2 {
		t.Errorf("fit R²: got %+v, want >= %v", r2, cfg.Tensile.MinR2)
	}
}

func TestTensileRawChannels(t *testing.T) {
	tn := &Tensile{}
	aux := Series{
		Xs: []float64{0, 1.2, 2.4, 3.1, 2.9}, // crosshead extension, mm
		Ys: []float64{0, 40, 80, 95, 12},     // load, N
	}

	rec, err := tn.Analyze(Trial{Sample: "PU-1", Name: "run1", Primary: syntheticTensile(), Aux: aux}, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	load, ok := rec.Get(ParamMaxLoad)
	if !ok || !load.Valid || load.V != 95 {
		t.Errorf("max load: got %+v, want 95", load)
	}
	ext, ok := rec.Get(ParamMaxExtension)
	if !ok || !ext.Valid || ext.V != 3.1 {
		t.Errorf("max extension: got %+v, want 3.1", ext)
	}

	// Without the raw channel the parameters are simply absent.
	rec, err = tn.Analyze(Trial{Sample: "PU-1", Name: "run2", Primary: syntheticTensile()}, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if _, ok := rec.Get(ParamMaxLoad); ok {
		t.Error("max load should be absent without a raw channel")
	}
}

func TestTensileNoFracture(t *testing.T) {
	// Monotone ramp with no drop: break strain is the final sample, no note.
	var xs, ys []float64
	for e := 0.0; e <= 0.05001; e += 0.001 {
		xs = append(xs, e)
		ys = append(ys, 2000*e)
	}

	tn := &Tensile{}
	rec, err := tn.Analyze(Trial{Sample: "s", Name: "r", Primary: Series{Xs: xs, Ys: ys}}, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	brk, _ := rec.Get(ParamStrainAtBreak)
	if !brk.Valid || brk.Note != "" {
		t.Errorf("expected clean last-point break, got %+v", brk)
	}
	if math.Abs(brk.V-xs[len(xs)-1]) > 1e-12 {
		t.Errorf("break strain: got %v, want %v", brk.V, xs[len(xs)-1])
	}
}

func TestTensileNoLinearRegion(t *testing.T) {
	// y = x² over [0,1] bends everywhere; with a strict threshold the
	// modulus must be flagged invalid while UTS and break survive.
	var xs, ys []float64
	for x := 0.0; x <= 1.0001; x += 0.01 {
		xs = append(xs, x)
		ys = append(ys, x*x)
	}

	cfg := config.DefaultAnalysis()
	cfg.Tensile.MinR2 = 0.99999
	cfg.Region.MinWidthFraction = 0.30

	tn := &Tensile{}
	rec, err := tn.Analyze(Trial{Sample: "s", Name: "r", Primary: Series{Xs: xs, Ys: ys}}, cfg)
	if err != nil {
		t.Fatalf("analyze should contain the failure in the record: %v", err)
	}

	mod, _ := rec.Get(ParamYoungsModulus)
	if mod.Valid {
		t.Error("expected invalid modulus for curved response")
	}
	if mod.Note == "" {
		t.Error("expected diagnostic note on invalid modulus")
	}
	uts, _ := rec.Get(ParamUTS)
	if !uts.Valid || math.Abs(uts.V-1) > 1e-6 {
		t.Errorf("UTS should still be computed: %+v", uts)
	}
}

func TestTensileIgnoresPrePeakTransient(t *testing.T) {
	// Grip slip during loading: a one-sample stress dip at strain 0.010 that
	// exceeds the 10% drop threshold, followed by recovery, the plateau and
	// the real fracture at strain 0.101. The break must be the post-peak
	// drop, not the slip, and toughness must integrate through it.
	s := syntheticTensile()
	s.Ys[10] = 10 // between neighbours at 18 and 22 MPa

	tn := &Tensile{}
	rec, err := tn.Analyze(Trial{Sample: "PU-2", Name: "run1", Primary: s}, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	brk, _ := rec.Get(ParamStrainAtBreak)
	if !brk.Valid || math.Abs(brk.V-0.1) > 0.001 {
		t.Errorf("strain at break: got %+v, want ~0.1 (the post-peak drop)", brk)
	}
	if brk.Note == "" {
		t.Error("expected fracture-point note on strain at break")
	}

	tough, _ := rec.Get(ParamToughness)
	if !tough.Valid || tough.V < 4 {
		t.Errorf("toughness: got %+v, want the full-curve integral, not a slip-truncated one", tough)
	}
}

func TestTensileInvalidCurve(t *testing.T) {
	tn := &Tensile{}
	_, err := tn.Analyze(Trial{Sample: "s", Name: "r", Primary: Series{Xs: []float64{1}, Ys: []float64{1}}}, config.DefaultAnalysis())

	var te *TrialError
	if !errors.As(err, &te) {
		t.Fatalf("expected TrialError, got %v", err)
	}
	if !errors.Is(err, curve.ErrInvalidCurve) {
		t.Errorf("expected wrapped ErrInvalidCurve, got %v", err)
	}
	if te.Sample != "s" || te.Trial != "r" {
		t.Errorf("trial context lost: %+v", te)
	}
}
