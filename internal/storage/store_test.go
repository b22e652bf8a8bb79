package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polymerlab/mechtherm/internal/technique"
)

func testRecords() []*technique.Record {
	return []*technique.Record{
		{
			Sample: "MEK-5%", Trial: "run1", Technique: "tensile",
			Params: map[string]technique.Value{
				"youngs_modulus": {V: 2100, Valid: true},
				"uts":            {V: 48.5, Valid: true},
				"toughness":      {Valid: false, Note: "degenerate tail"},
			},
		},
		{
			Sample: "Bulk", Trial: "run1", Technique: "tensile",
			Params: map[string]technique.Value{
				"youngs_modulus": {V: 1900, Valid: true},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("tensile", "elastomer", testRecords())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Technique != "tensile" || meta.Trials != 2 {
		t.Errorf("metadata: got %+v", meta)
	}
	if len(meta.Samples) != 2 || meta.Samples[0] != "Bulk" {
		t.Errorf("samples: got %v, want sorted [Bulk MEK-5%%]", meta.Samples)
	}

	records, err := store.LoadRecords(runID)
	if err != nil {
		t.Fatalf("load records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	var mek *technique.Record
	for _, rec := range records {
		if rec.Sample == "MEK-5%" {
			mek = rec
		}
	}
	if mek == nil {
		t.Fatal("MEK-5% record not restored")
	}
	if v, ok := mek.Get("uts"); !ok || !v.Valid || v.V != 48.5 {
		t.Errorf("uts round trip: got %+v", v)
	}
	if v, ok := mek.Get("toughness"); !ok || v.Valid || v.Note != "degenerate tail" {
		t.Errorf("invalid value round trip: got %+v", v)
	}
}

func TestListSkipsJunk(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save("tga", "", testRecords()[:1]); err != nil {
		t.Fatal(err)
	}
	// A stray directory with no metadata must not break listing.
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(store.baseDir, "raw_exports"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Technique != "tga" {
		t.Errorf("runs: got %+v", runs)
	}
}

func TestListEmptyBase(t *testing.T) {
	store := New(t.TempDir() + "/never_created")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %v", runs)
	}
}
