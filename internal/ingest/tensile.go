package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polymerlab/mechtherm/internal/technique"
)

// ErrTooFewPoints indicates a data file with fewer rows than an analysis can
// support.
var ErrTooFewPoints = errors.New("ingest: too few data points")

// minTensilePoints matches the Instron export convention: anything shorter
// is a truncated or aborted run.
const minTensilePoints = 10

// Specimen is the geometry needed to convert an Instron load–extension
// export into engineering stress and strain.
type Specimen struct {
	GaugeLengthMM  float64
	CrossSectionMM float64
}

// ReadInstron parses an Instron text or CSV export: header lines of any
// shape followed by rows of crosshead (mm), load (N) and time columns.
// Tab, comma and space delimiters are accepted, as are decimal commas.
// The returned trial's primary series is stress (MPa) over strain.
func ReadInstron(r io.Reader, sample, trial string, spec Specimen) (technique.Trial, error) {
	if spec.GaugeLengthMM <= 0 || spec.CrossSectionMM <= 0 {
		return technique.Trial{}, fmt.Errorf("ingest: non-positive specimen geometry %+v", spec)
	}

	var strain, stress, exts, loads []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		crosshead, load, ok := parseInstronRow(line)
		if !ok {
			// Header or unit line; data rows resume below it.
			continue
		}
		strain = append(strain, crosshead/spec.GaugeLengthMM)
		stress = append(stress, load/spec.CrossSectionMM)
		exts = append(exts, crosshead)
		loads = append(loads, load)
	}
	if err := scanner.Err(); err != nil {
		return technique.Trial{}, err
	}
	if len(strain) < minTensilePoints {
		return technique.Trial{}, fmt.Errorf("%w: %d rows", ErrTooFewPoints, len(strain))
	}

	return technique.Trial{
		Sample:  sample,
		Name:    trial,
		Primary: technique.Series{Xs: strain, Ys: stress},
		// Raw channel, kept so the analyzer can report peak load and
		// extension in instrument units alongside the derived parameters.
		Aux: technique.Series{Xs: exts, Ys: loads},
	}, nil
}

func parseInstronRow(line string) (crosshead, load float64, ok bool) {
	for _, delim := range []string{"\t", ",", " "} {
		candidate := line
		if delim != "," {
			// European exports use decimal commas.
			candidate = strings.ReplaceAll(candidate, ",", ".")
		}
		fields := splitNonEmpty(candidate, delim)
		if len(fields) < 3 {
			continue
		}
		c, err1 := strconv.ParseFloat(fields[0], 64)
		l, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 == nil && err2 == nil {
			return c, l, true
		}
	}
	return 0, 0, false
}

func splitNonEmpty(s, delim string) []string {
	parts := strings.Split(s, delim)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
