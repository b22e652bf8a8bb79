// Package report renders analysis results for humans (replicate tables in
// the mean ± std convention) and for downstream tools (CSV and JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/polymerlab/mechtherm/internal/stats"
	"github.com/polymerlab/mechtherm/internal/technique"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	paramStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Units maps well-known parameter names to their display units.
var Units = map[string]string{
	technique.ParamYoungsModulus: "MPa",
	technique.ParamUTS:           "MPa",
	technique.ParamStrainAtBreak: "mm/mm",
	technique.ParamToughness:     "MJ/m³",
	technique.ParamMaxLoad:       "N",
	technique.ParamMaxExtension:  "mm",
	technique.ParamT5:            "°C",
	technique.ParamT50:           "°C",
	technique.ParamTmax:          "°C",
	technique.ParamResidue:       "%",
	technique.ParamWeightLoss:    "%",
	technique.ParamTgOnset:       "°C",
	technique.ParamTgMidpoint:    "°C",
	technique.ParamTgInflection:  "°C",
	technique.ParamTgTanDelta:    "°C",
	technique.ParamTgEPrime:      "°C",
}

// SummaryTable writes one replicate table per sample: each parameter as
// "mean ± std (CV%)  n" with excluded-trial notes underneath. Styling is
// plain when color is false so output pipes cleanly.
func SummaryTable(out io.Writer, summaries []*stats.SummaryRecord, color bool) error {
	for i, sum := range summaries {
		if i > 0 {
			fmt.Fprintln(out)
		}

		title := fmt.Sprintf("%s  (%d trials)", sum.Sample, sum.Trials)
		if color {
			title = titleStyle.Render(title)
		}
		fmt.Fprintln(out, title)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, name := range sum.Names() {
			s := sum.Params[name]
			label := name
			if unit, ok := Units[name]; ok {
				label = fmt.Sprintf("%s (%s)", name, unit)
			}
			if color {
				label = paramStyle.Render(label)
			}
			fmt.Fprintf(w, "  %s\t%s\tn=%d\n", label, formatSummary(s), s.Count)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		for _, name := range sum.Names() {
			for _, note := range sum.Params[name].Notes {
				line := fmt.Sprintf("  ! %s: %s", name, note)
				if color {
					line = footerStyle.Render(line)
				}
				fmt.Fprintln(out, line)
			}
		}
	}
	return nil
}

func formatSummary(s stats.Summary) string {
	if !s.Available() {
		return "n/a"
	}
	base := fmt.Sprintf("%s ± %s", sig(s.Mean), sig(s.StdDev))
	if math.IsNaN(s.CV) {
		return base
	}
	return fmt.Sprintf("%s (%.1f%%)", base, s.CV*100)
}

// sig formats with enough digits for lab numbers across their usual ranges
// (moduli in the thousands, strains below one) without printf gymnastics at
// every call site.
func sig(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case v != 0 && math.Abs(v) < 0.01:
		return fmt.Sprintf("%.2e", v)
	case math.Abs(v) >= 1000:
		return fmt.Sprintf("%.0f", v)
	default:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
	}
}

// WriteSummariesCSV writes one row per sample/parameter pair.
func WriteSummariesCSV(out io.Writer, summaries []*stats.SummaryRecord) error {
	if _, err := fmt.Fprintln(out, "sample,parameter,mean,std_dev,cv_percent,count,excluded"); err != nil {
		return err
	}
	for _, sum := range summaries {
		for _, name := range sum.Names() {
			s := sum.Params[name]
			_, err := fmt.Fprintf(out, "%s,%s,%g,%g,%g,%d,%d\n",
				csvEscape(sum.Sample), csvEscape(name), s.Mean, s.StdDev, s.CV*100, s.Count, s.Excluded)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// WriteJSON writes any report payload (records, summaries) as indented JSON.
// NaN statistics are not representable in JSON, so they are nulled first.
func WriteJSON(out io.Writer, summaries []*stats.SummaryRecord) error {
	type jsonSummary struct {
		Mean     *float64 `json:"mean"`
		StdDev   *float64 `json:"std_dev"`
		CV       *float64 `json:"cv"`
		Count    int      `json:"count"`
		Excluded int      `json:"excluded"`
		Notes    []string `json:"notes,omitempty"`
	}
	type jsonSample struct {
		Sample string                 `json:"sample"`
		Trials int                    `json:"trials"`
		Params map[string]jsonSummary `json:"params"`
	}

	payload := make([]jsonSample, 0, len(summaries))
	for _, sum := range summaries {
		js := jsonSample{Sample: sum.Sample, Trials: sum.Trials, Params: make(map[string]jsonSummary)}
		for name, s := range sum.Params {
			js.Params[name] = jsonSummary{
				Mean:     finiteOrNil(s.Mean),
				StdDev:   finiteOrNil(s.StdDev),
				CV:       finiteOrNil(s.CV),
				Count:    s.Count,
				Excluded: s.Excluded,
				Notes:    s.Notes,
			}
		}
		payload = append(payload, js)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// WriteRecordsJSON dumps per-trial records as indented JSON.
func WriteRecordsJSON(out io.Writer, records []*technique.Record) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
