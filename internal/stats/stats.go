// Package stats reduces per-trial analysis records into per-sample summary
// statistics: mean, sample standard deviation and coefficient of variation.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/polymerlab/mechtherm/internal/technique"
)

// Summary holds the statistics of one parameter across a sample group's
// trials. StdDev is the sample standard deviation and CV the coefficient of
// variation as a ratio (report layers render it as a percent). Excluded
// counts trials whose value for this parameter was flagged invalid; those
// never enter the math.
type Summary struct {
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	CV       float64  `json:"cv"`
	Count    int      `json:"count"`
	Excluded int      `json:"excluded"`
	Notes    []string `json:"notes,omitempty"`
}

// Available reports whether at least one valid trial contributed.
func (s Summary) Available() bool { return s.Count > 0 }

// SummaryRecord maps parameter names to cross-trial statistics for one
// sample group.
type SummaryRecord struct {
	Sample string             `json:"sample"`
	Trials int                `json:"trials"`
	Params map[string]Summary `json:"params"`
}

// Names returns the parameter names in sorted order.
func (r *SummaryRecord) Names() []string {
	names := make([]string, 0, len(r.Params))
	for name := range r.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summarize reduces one parameter across records. Invalid values are
// excluded from the statistics but counted and their notes retained. When
// every record is invalid the summary reports the parameter unavailable
// (Count 0) rather than a statistic over nothing. A single valid trial
// reports zero standard deviation, matching the replicate-table convention.
func Summarize(records []*technique.Record, param string) Summary {
	var values []float64
	out := Summary{}
	for _, rec := range records {
		v, ok := rec.Get(param)
		if !ok {
			continue
		}
		if !v.Valid {
			out.Excluded++
			if v.Note != "" {
				out.Notes = append(out.Notes, rec.Trial+": "+v.Note)
			}
			continue
		}
		values = append(values, v.V)
	}

	out.Count = len(values)
	if out.Count == 0 {
		out.Mean = math.NaN()
		out.StdDev = math.NaN()
		out.CV = math.NaN()
		return out
	}

	out.Mean = stat.Mean(values, nil)
	if out.Count > 1 {
		out.StdDev = stat.StdDev(values, nil)
	}
	if out.Mean == 0 {
		out.CV = math.NaN()
	} else {
		out.CV = out.StdDev / out.Mean
	}
	return out
}

// SummarizeAll reduces every parameter appearing in any record of one sample
// group. Records are assumed to share rec.Sample; the first one names the
// group.
func SummarizeAll(records []*technique.Record) *SummaryRecord {
	out := &SummaryRecord{Params: make(map[string]Summary)}
	if len(records) == 0 {
		return out
	}
	out.Sample = records[0].Sample
	out.Trials = len(records)

	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Params {
			if !seen[name] {
				seen[name] = true
				out.Params[name] = Summarize(records, name)
			}
		}
	}
	return out
}
