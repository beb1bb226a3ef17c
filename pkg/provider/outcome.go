package provider

import (
	"fmt"

	"github.com/mpapenbr/f1-sectorwalk/log"
)

// Outcome is the result of processing a single record.
// Either it carries a value or the reason why the record was skipped.
type Outcome[T any] struct {
	Value   T
	Skipped bool
	Reason  string
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func Skip[T any](format string, args ...any) Outcome[T] {
	return Outcome[T]{Skipped: true, Reason: fmt.Sprintf(format, args...)}
}

// Report aggregates outcomes of a processing step
type Report struct {
	Name    string
	Ok      int
	Skipped int
	Reasons []string
}

func NewReport(name string) *Report {
	return &Report{Name: name}
}

// Track adds the outcome to the report and returns its value and whether it was ok.
func Track[T any](r *Report, o Outcome[T]) (T, bool) {
	if o.Skipped {
		r.Skipped++
		r.Reasons = append(r.Reasons, o.Reason)
		return o.Value, false
	}
	r.Ok++
	return o.Value, true
}

// Merge adds the counts of other to r
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Ok += other.Ok
	r.Skipped += other.Skipped
	r.Reasons = append(r.Reasons, other.Reasons...)
}

func (r *Report) Log(l *log.Logger) {
	l.Info("report",
		log.String("name", r.Name),
		log.Int("ok", r.Ok),
		log.Int("skipped", r.Skipped))
	for _, reason := range r.Reasons {
		l.Debug("skipped", log.String("name", r.Name), log.String("reason", reason))
	}
}
