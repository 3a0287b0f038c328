// Package reconcile decides which rows of an import file are not yet in the
// ledger. Transactions have no natural key, so the decision is made per day:
// days with no ledger data take every row, days inside a closed run of ledger
// data take none, and days at the edge of a run are merged by counting
// (description, amount) occurrences.
package reconcile

import "sort"

// Threshold constants. They are empirical and other stored data depends on
// the boundaries they produce, so they must not be retuned.
const (
	DefaultGapDays = 3
	GapMultiplier  = 3
)

// Key identifies interchangeable rows within one day.
type Key struct {
	Description string
	Amount      int64
}

// Row is one candidate row. Ref is an opaque caller index.
type Row struct {
	Day Day
	Key Key
	Ref int
}

// Counts holds existing ledger row counts per day and key.
type Counts map[Day]map[Key]int

// Decision is what happens to the incoming rows of one day.
type Decision int

const (
	// InsertAll applies when the ledger has no rows on the day.
	InsertAll Decision = iota
	// Skip applies when the day lies inside a closed run of ledger data.
	Skip
	// Merge applies on transition days: only the count delta is inserted.
	Merge
)

func (d Decision) String() string {
	switch d {
	case InsertAll:
		return "insert_all"
	case Skip:
		return "skip"
	case Merge:
		return "merge"
	}
	return "unknown"
}

// Plan is the per-day decision table for one import.
type Plan struct {
	ImportGap      int
	GapDays        int
	TransitionDays int
	Decisions      map[Day]Decision
}

// ImportGap returns the longest run of consecutive empty days strictly
// between the first and last of days. Order and duplicates do not matter.
func ImportGap(days []Day) int {
	sorted := distinctSorted(days)
	longest := 0
	for i := 1; i < len(sorted); i++ {
		if gap := int(sorted[i]-sorted[i-1]) - 1; gap > longest {
			longest = gap
		}
	}
	return longest
}

// GapThreshold derives the transition-day threshold from an import's
// internal gap. A continuous import gets the short default window; a sparse
// one widens it in proportion.
func GapThreshold(importGap int) int {
	if importGap == 0 {
		return DefaultGapDays
	}
	return importGap * GapMultiplier
}

// TransitionDays returns the existing days that sit at either edge of a
// contiguous run: no existing day within gapDays after, or none within
// gapDays before.
func TransitionDays(existing []Day, gapDays int) map[Day]bool {
	sorted := distinctSorted(existing)
	out := make(map[Day]bool)
	for i, d := range sorted {
		runEnd := i == len(sorted)-1 || int(sorted[i+1]-d) > gapDays
		runStart := i == 0 || int(d-sorted[i-1]) > gapDays
		if runEnd || runStart {
			out[d] = true
		}
	}
	return out
}

// NewPlan builds the decision table for the incoming days against the
// account's existing days.
func NewPlan(incoming, existing []Day) *Plan {
	gap := ImportGap(incoming)
	gapDays := GapThreshold(gap)
	transitions := TransitionDays(existing, gapDays)

	have := make(map[Day]bool, len(existing))
	for _, d := range existing {
		have[d] = true
	}

	decisions := make(map[Day]Decision)
	for _, d := range distinctSorted(incoming) {
		switch {
		case !have[d]:
			decisions[d] = InsertAll
		case !transitions[d]:
			decisions[d] = Skip
		default:
			decisions[d] = Merge
		}
	}

	return &Plan{
		ImportGap:      gap,
		GapDays:        gapDays,
		TransitionDays: len(transitions),
		Decisions:      decisions,
	}
}

// Days returns the incoming days with decision d, sorted.
func (p *Plan) Days(d Decision) []Day {
	var out []Day
	for day, dec := range p.Decisions {
		if dec == d {
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Select returns the rows to insert, in input order. On merge days the first
// existing-count rows of each key are treated as already present.
func (p *Plan) Select(rows []Row, existing Counts) []Row {
	consumed := make(map[Day]map[Key]int)
	var out []Row
	for _, r := range rows {
		dec, ok := p.Decisions[r.Day]
		if !ok {
			continue
		}
		switch dec {
		case InsertAll:
			out = append(out, r)
		case Merge:
			seen := consumed[r.Day]
			if seen == nil {
				seen = make(map[Key]int)
				consumed[r.Day] = seen
			}
			seen[r.Key]++
			if seen[r.Key] > existing[r.Day][r.Key] {
				out = append(out, r)
			}
		}
	}
	return out
}

func distinctSorted(days []Day) []Day {
	set := make(map[Day]struct{}, len(days))
	out := make([]Day, 0, len(days))
	for _, d := range days {
		if _, ok := set[d]; ok {
			continue
		}
		set[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
