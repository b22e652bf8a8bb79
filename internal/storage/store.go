package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/polymerlab/mechtherm/internal/technique"
)

// Store persists analysis runs under a base directory, one subdirectory per
// run holding metadata.json and records.csv. Anything in the base directory
// that is not a readable run is skipped rather than treated as an error, so
// the directory can be shared with notes and raw exports.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved analysis run.
type RunMetadata struct {
	ID        string    `json:"id"`
	Technique string    `json:"technique"`
	Timestamp time.Time `json:"timestamp"`
	Samples   []string  `json:"samples"`
	Trials    int       `json:"trials"`
	Config    string    `json:"config,omitempty"`
}

// Save writes the records of one analysis run and returns its run ID
// (technique name plus unix timestamp). The optional config string records
// which preset or file produced the numbers.
func (s *Store) Save(techniqueName, configName string, records []*technique.Record) (string, error) {
	runID := fmt.Sprintf("%s_%d", techniqueName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Technique: techniqueName,
		Timestamp: time.Now(),
		Samples:   sampleNames(records),
		Trials:    len(records),
		Config:    configName,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "records.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteRecordsCSV(csvFile, records); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteRecordsCSV writes records in long form: one row per parameter, so
// trials with different parameter sets share a file.
func WriteRecordsCSV(out io.Writer, records []*technique.Record) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"sample", "trial", "technique", "parameter", "value", "valid", "note"}); err != nil {
		return err
	}
	for _, rec := range records {
		for _, name := range rec.Names() {
			v, _ := rec.Get(name)
			row := []string{
				rec.Sample, rec.Trial, rec.Technique, name,
				strconv.FormatFloat(v.V, 'g', -1, 64),
				strconv.FormatBool(v.Valid),
				v.Note,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// List returns metadata for every saved run, newest first. A missing base
// directory is an empty store, not an error.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reconstructs the records of a saved run from its long-form CSV.
func (s *Store) LoadRecords(runID string) ([]*technique.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "records.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []*technique.Record{}, nil
	}

	byTrial := make(map[string]*technique.Record)
	var order []string
	for _, row := range rows[1:] {
		if len(row) < 7 {
			continue
		}
		key := row[0] + "\x00" + row[1]
		rec, ok := byTrial[key]
		if !ok {
			rec = &technique.Record{
				Sample:    row[0],
				Trial:     row[1],
				Technique: row[2],
				Params:    make(map[string]technique.Value),
			}
			byTrial[key] = rec
			order = append(order, key)
		}

		v, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		valid, err := strconv.ParseBool(row[5])
		if err != nil {
			continue
		}
		rec.Params[row[3]] = technique.Value{V: v, Valid: valid, Note: row[6]}
	}

	records := make([]*technique.Record, 0, len(order))
	for _, key := range order {
		records = append(records, byTrial[key])
	}
	return records, nil
}

func sampleNames(records []*technique.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		if !seen[rec.Sample] {
			seen[rec.Sample] = true
			names = append(names, rec.Sample)
		}
	}
	sort.Strings(names)
	return names
}
