package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) Day {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func span(t *testing.T, from, to string) []Day {
	t.Helper()
	var out []Day
	for d := day(t, from); d <= day(t, to); d++ {
		out = append(out, d)
	}
	return out
}

func TestDay(t *testing.T) {
	d := day(t, "2025-01-05")
	assert.Equal(t, "2025-01-05", d.String())
	assert.Equal(t, "2025-01-06", (d + 1).String())
	assert.Equal(t, "2025-03-01", (day(t, "2025-02-28") + 1).String())
	assert.Equal(t, d, DayOf(d.Time()))

	_, err := ParseDay("2025-02-30")
	assert.Error(t, err)
}

func TestImportGap(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, ImportGap(nil))
	})
	t.Run("single_day", func(t *testing.T) {
		assert.Equal(t, 0, ImportGap([]Day{day(t, "2025-01-01")}))
	})
	t.Run("continuous", func(t *testing.T) {
		assert.Equal(t, 0, ImportGap(span(t, "2025-01-01", "2025-01-31")))
	})
	t.Run("longest_run_wins", func(t *testing.T) {
		days := []Day{
			day(t, "2025-01-20"), // unsorted on purpose
			day(t, "2025-01-01"),
			day(t, "2025-01-04"), // gap of 2
			day(t, "2025-01-04"),
			day(t, "2025-01-09"), // gap of 10 to the 20th
		}
		assert.Equal(t, 10, ImportGap(days))
	})
}

func TestGapThreshold(t *testing.T) {
	assert.Equal(t, 3, GapThreshold(0))
	assert.Equal(t, 30, GapThreshold(10))
	assert.Equal(t, 3, GapThreshold(1))
	assert.Equal(t, 6, GapThreshold(2))
}

func TestTransitionDays(t *testing.T) {
	existing := append(span(t, "2025-01-01", "2025-01-05"), day(t, "2025-01-20"))
	got := TransitionDays(existing, 3)

	assert.True(t, got[day(t, "2025-01-01")], "first day of a run starts it")
	assert.True(t, got[day(t, "2025-01-05")], "next data is 15 days later")
	assert.True(t, got[day(t, "2025-01-20")])
	for _, d := range span(t, "2025-01-02", "2025-01-04") {
		assert.False(t, got[d], "%s has neighbours within 3 days", d)
	}
	assert.Len(t, got, 3)
}

func TestTransitionDays_ThresholdBoundary(t *testing.T) {
	a, b := day(t, "2025-01-01"), day(t, "2025-01-04")

	// Exactly gapDays apart is still the same run.
	got := TransitionDays([]Day{a, b}, 3)
	assert.True(t, got[a], "no predecessor")
	assert.True(t, got[b], "no successor")

	mid := day(t, "2025-01-02")
	got = TransitionDays([]Day{a, mid, b, day(t, "2025-01-05")}, 3)
	assert.False(t, got[mid])
}

func TestNewPlan(t *testing.T) {
	existing := append(span(t, "2025-01-01", "2025-01-05"), day(t, "2025-01-20"))
	incoming := span(t, "2025-01-03", "2025-01-07")

	p := NewPlan(incoming, existing)

	assert.Equal(t, 0, p.ImportGap)
	assert.Equal(t, 3, p.GapDays)
	assert.Equal(t, 3, p.TransitionDays)
	assert.Equal(t, Skip, p.Decisions[day(t, "2025-01-03")])
	assert.Equal(t, Skip, p.Decisions[day(t, "2025-01-04")])
	assert.Equal(t, Merge, p.Decisions[day(t, "2025-01-05")])
	assert.Equal(t, InsertAll, p.Decisions[day(t, "2025-01-06")])
	assert.Equal(t, InsertAll, p.Decisions[day(t, "2025-01-07")])

	assert.Equal(t, []Day{day(t, "2025-01-05")}, p.Days(Merge))
	assert.Equal(t, []Day{day(t, "2025-01-06"), day(t, "2025-01-07")}, p.Days(InsertAll))
}

func TestNewPlan_SparseImportWidensWindow(t *testing.T) {
	existing := append(span(t, "2025-01-01", "2025-01-05"), day(t, "2025-01-20"))
	// A 10-day hole in the import gives a 30-day window, so the 20th is now
	// part of the same run as the 5th and the 5th is no longer an edge.
	incoming := []Day{day(t, "2025-01-05"), day(t, "2025-01-16")}

	p := NewPlan(incoming, existing)
	assert.Equal(t, 10, p.ImportGap)
	assert.Equal(t, 30, p.GapDays)
	assert.Equal(t, 2, p.TransitionDays)
	assert.Equal(t, Skip, p.Decisions[day(t, "2025-01-05")])
	assert.Equal(t, InsertAll, p.Decisions[day(t, "2025-01-16")])
}

func TestSelect_CountDelta(t *testing.T) {
	d := day(t, "2025-01-05")
	coffee := Key{Description: "COFFEE", Amount: -450}
	book := Key{Description: "BOOK", Amount: -1299}

	rows := []Row{
		{Day: d, Key: coffee, Ref: 0},
		{Day: d, Key: coffee, Ref: 1},
		{Day: d, Key: coffee, Ref: 2},
		{Day: d, Key: book, Ref: 3},
	}
	p := &Plan{Decisions: map[Day]Decision{d: Merge}}
	existing := Counts{d: {coffee: 1, book: 2}}

	got := p.Select(rows, existing)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Ref)
	assert.Equal(t, 2, got[1].Ref)
}

func TestSelect_Decisions(t *testing.T) {
	newDay, closedDay, unknown := day(t, "2025-02-01"), day(t, "2025-02-02"), day(t, "2025-02-03")
	k := Key{Description: "X", Amount: 1}
	rows := []Row{
		{Day: newDay, Key: k, Ref: 0},
		{Day: newDay, Key: k, Ref: 1},
		{Day: closedDay, Key: k, Ref: 2},
		{Day: unknown, Key: k, Ref: 3},
	}
	p := &Plan{Decisions: map[Day]Decision{newDay: InsertAll, closedDay: Skip}}

	got := p.Select(rows, nil)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Ref)
	assert.Equal(t, 1, got[1].Ref)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "insert_all", InsertAll.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "merge", Merge.String())
}
