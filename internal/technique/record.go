package technique

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoTransitionFound indicates no slope region exceeded the configured
// threshold when locating a glass transition.
var ErrNoTransitionFound = errors.New("technique: no transition found above slope threshold")

// Value is one computed parameter. Invalid values keep a diagnostic note
// explaining why the number is absent; valid values may carry a note too
// (e.g. fracture-point detection).
type Value struct {
	V     float64 `json:"value"`
	Valid bool    `json:"valid"`
	Note  string  `json:"note,omitempty"`
}

// Record is the structured output of one trial's analysis: parameter name to
// value. Records are never mutated once an Analyze call returns them.
type Record struct {
	Sample    string           `json:"sample"`
	Trial     string           `json:"trial"`
	Technique string           `json:"technique"`
	Params    map[string]Value `json:"params"`
}

func newRecord(t Trial, technique string) *Record {
	return &Record{
		Sample:    t.Sample,
		Trial:     t.Name,
		Technique: technique,
		Params:    make(map[string]Value),
	}
}

func (r *Record) set(name string, v float64) {
	r.Params[name] = Value{V: v, Valid: true}
}

func (r *Record) setNote(name string, v float64, note string) {
	r.Params[name] = Value{V: v, Valid: true, Note: note}
}

func (r *Record) invalidate(name string, err error) {
	r.Params[name] = Value{Valid: false, Note: err.Error()}
}

// Get returns the named parameter and whether it exists.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// Names returns the parameter names in sorted order.
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.Params))
	for name := range r.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrialError wraps a curve-level failure with the trial it belongs to, so a
// batch can report which specimen failed and move on.
type TrialError struct {
	Sample    string
	Trial     string
	Technique string
	Wrapped   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Technique, e.Sample, e.Trial, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}
