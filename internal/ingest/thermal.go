package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polymerlab/mechtherm/internal/technique"
)

// ErrMissingColumn indicates a CSV without a required header column.
var ErrMissingColumn = errors.New("ingest: required column not found")

// ReadTGA parses a thermal-analysis CSV with Sample Temperature and
// Unsubtracted Weight columns (the Pyris export layout). Rows with
// unparsable cells are dropped; the weight stays in raw units since the
// analyzer normalizes to percent of initial mass itself.
func ReadTGA(r io.Reader, sample, trial string) (technique.Trial, error) {
	table, err := readColumns(r, map[string][]string{
		"temp":   {"sample temperature", "temperature"},
		"weight": {"unsubtracted weight", "weight"},
	})
	if err != nil {
		return technique.Trial{}, err
	}
	return technique.Trial{
		Sample:  sample,
		Name:    trial,
		Primary: technique.Series{Xs: table["temp"], Ys: table["weight"]},
	}, nil
}

// ReadDSC parses one already-isolated heating segment: Temperature and
// Heat Flow columns. Cycle selection happens before this point.
func ReadDSC(r io.Reader, sample, trial string) (technique.Trial, error) {
	table, err := readColumns(r, map[string][]string{
		"temp": {"sample temperature", "temperature"},
		"heat": {"heat flow", "unsubtracted heat flow"},
	})
	if err != nil {
		return technique.Trial{}, err
	}
	return technique.Trial{
		Sample:  sample,
		Name:    trial,
		Primary: technique.Series{Xs: table["temp"], Ys: table["heat"]},
	}, nil
}

// ReadDMA parses a temperature sweep table with storage modulus and tan δ
// columns.
func ReadDMA(r io.Reader, sample, trial string) (technique.Trial, error) {
	table, err := readColumns(r, map[string][]string{
		"temp":   {"temperature", "sample temperature"},
		"eprime": {"storage modulus", "e'", "eprime"},
		"tand":   {"tan delta", "tan d", "tand"},
	})
	if err != nil {
		return technique.Trial{}, err
	}
	return technique.Trial{
		Sample:  sample,
		Name:    trial,
		Primary: technique.Series{Xs: table["temp"], Ys: table["eprime"]},
		Aux:     technique.Series{Xs: table["temp"], Ys: table["tand"]},
	}, nil
}

// readColumns reads a CSV, resolving each logical column to the first header
// matching one of its aliases (case-insensitive, unit suffixes ignored), and
// returns aligned value slices. Rows where any required cell fails to parse
// are dropped whole so the columns stay aligned.
func readColumns(r io.Reader, wanted map[string][]string) (map[string][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading header: %w", err)
	}

	idx := make(map[string]int, len(wanted))
	for name, aliases := range wanted {
		col := -1
		for i, h := range header {
			if matchesAlias(h, aliases) {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, fmt.Errorf("%w: %s (any of %v)", ErrMissingColumn, name, aliases)
		}
		idx[name] = col
	}

	out := make(map[string][]float64, len(wanted))
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		vals := make(map[string]float64, len(idx))
		ok := true
		for name, col := range idx {
			if col >= len(row) {
				ok = false
				break
			}
			v, perr := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if perr != nil {
				ok = false
				break
			}
			vals[name] = v
		}
		if !ok {
			continue
		}
		for name, v := range vals {
			out[name] = append(out[name], v)
		}
	}

	for name := range wanted {
		if len(out[name]) < 2 {
			return nil, fmt.Errorf("%w: %d usable rows", ErrTooFewPoints, len(out[name]))
		}
	}
	return out, nil
}

func matchesAlias(header string, aliases []string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	// Strip a trailing unit annotation like "(mg)" or "(°C)".
	if i := strings.Index(h, "("); i > 0 {
		h = strings.TrimSpace(h[:i])
	}
	for _, a := range aliases {
		if h == a {
			return true
		}
	}
	return false
}
