// Package batch fans independent trial analyses out across goroutines.
// Analyses share nothing and write only their own freshly allocated records,
// so the fan-out needs no coordination beyond the final join.
package batch

import (
	"context"
	"sort"
	"sync"

	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/stats"
	"github.com/polymerlab/mechtherm/internal/technique"
)

// Outcome is one trial's result: either a record or the error that aborted
// it. A failed trial never aborts the rest of the batch.
type Outcome struct {
	Sample string
	Trial  string
	Record *technique.Record
	Err    error
}

// Result collects every trial outcome of one batch run, in input order.
type Result struct {
	Outcomes []Outcome
}

// Run analyzes every trial with the given technique concurrently and returns
// all outcomes. The context is checked per trial: trials not yet started
// when it is canceled report ctx.Err() as their outcome.
func Run(ctx context.Context, tech technique.Technique, cfg config.Analysis, trials []technique.Trial) *Result {
	outcomes := make([]Outcome, len(trials))

	var wg sync.WaitGroup
	for i, tr := range trials {
		wg.Add(1)
		go func(idx int, tr technique.Trial) {
			defer wg.Done()

			out := Outcome{Sample: tr.Sample, Trial: tr.Name}
			select {
			case <-ctx.Done():
				out.Err = ctx.Err()
			default:
				out.Record, out.Err = tech.Analyze(tr, cfg)
			}
			outcomes[idx] = out
		}(i, tr)
	}
	wg.Wait()

	return &Result{Outcomes: outcomes}
}

// Records groups the successful records by sample identity. Grouping is by
// the caller-supplied sample name only; the engine never infers grouping.
func (r *Result) Records() map[string][]*technique.Record {
	groups := make(map[string][]*technique.Record)
	for _, out := range r.Outcomes {
		if out.Err == nil && out.Record != nil {
			groups[out.Sample] = append(groups[out.Sample], out.Record)
		}
	}
	return groups
}

// Failed returns the outcomes that produced no record.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, out := range r.Outcomes {
		if out.Err != nil {
			failed = append(failed, out)
		}
	}
	return failed
}

// Summaries reduces each sample group to its summary record, sorted by
// sample name for deterministic output.
func (r *Result) Summaries() []*stats.SummaryRecord {
	groups := r.Records()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*stats.SummaryRecord, 0, len(names))
	for _, name := range names {
		out = append(out, stats.SummarizeAll(groups[name]))
	}
	return out
}
