package results

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/session"
)

func rec(item string, status session.Status, attempts int) session.Record {
	return session.Record{Item: item, Status: status, Attempts: attempts}
}

func snapshotOf(durationMs int64, records ...session.Record) session.Snapshot {
	items := make([]string, len(records))
	for i, r := range records {
		items[i] = r.Item
	}
	return session.Snapshot{
		Descriptor: session.Descriptor{ID: "s-1", Date: "2024-03-09", Type: "practice", Level: "mixed"},
		Items:      items,
		Records:    records,
		State:      session.StateCompleted,
		DurationMs: durationMs,
	}
}

func kinds(recs []Recommendation) []Kind {
	var out []Kind
	for _, r := range recs {
		out = append(out, r.Kind)
	}
	return out
}

func TestAggregate_ABCScenario(t *testing.T) {
	snap := snapshotOf(120_000,
		rec("A", session.StatusMastered, 1),
		rec("B", session.StatusNeedsWork, 1),
		rec("C", session.StatusNotPracticed, 0),
	)

	r := Aggregate(snap, nil)

	assert.Equal(t, []string{"A"}, r.Mastered)
	assert.Equal(t, []string{"B"}, r.NeedsWork)
	assert.Equal(t, []string{"C"}, r.NotPracticed)
	assert.Equal(t, 50, r.SuccessRate)
	assert.Equal(t, 2, r.PracticedCount)
	assert.Equal(t, 67, r.CompletionPct)
	assert.Equal(t, 2, r.TotalAttempts)
	assert.Equal(t, 1, r.AverageAttempts)
	assert.Equal(t, 60, r.AverageTimePerItemSec)
}

func TestAggregate_EmptyPracticedSet(t *testing.T) {
	snap := snapshotOf(90_000,
		rec("A", session.StatusNotPracticed, 0),
		rec("B", session.StatusNotPracticed, 2),
	)

	r := Aggregate(snap, nil)

	assert.Equal(t, 0, r.SuccessRate)
	assert.Equal(t, 0, r.AverageAttempts)
	assert.Equal(t, 0, r.AverageTimePerItemSec)
	assert.Equal(t, 0, r.CompletionPct)
	assert.Equal(t, 2, r.TotalAttempts)
	assert.Equal(t, []Kind{KindCompletion}, kinds(r.Recommendations))
}

func TestAggregate_BucketsPartitionItems(t *testing.T) {
	statuses := session.AllStatuses()
	for n := 0; n < 30; n++ {
		var records []session.Record
		for i := range n {
			records = append(records, rec(fmt.Sprintf("i%d", i), statuses[(i*7+n)%3], i%4))
		}
		r := Aggregate(snapshotOf(int64(n)*1000, records...), nil)

		require.Equal(t, n, len(r.Mastered)+len(r.NeedsWork)+len(r.NotPracticed))
		seen := map[string]int{}
		for _, b := range [][]string{r.Mastered, r.NeedsWork, r.NotPracticed} {
			for _, id := range b {
				seen[id]++
			}
		}
		for _, rc := range records {
			assert.Equal(t, 1, seen[rc.Item], "item %s in exactly one bucket", rc.Item)
		}
		assert.GreaterOrEqual(t, r.SuccessRate, 0)
		assert.LessOrEqual(t, r.SuccessRate, 100)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	// 2 mastered of 3 attempted -> 66.67 -> 67; 5 attempts / 3 -> 1.67 -> 2.
	snap := snapshotOf(100_000,
		rec("A", session.StatusMastered, 1),
		rec("B", session.StatusMastered, 1),
		rec("C", session.StatusNeedsWork, 3),
	)
	r := Aggregate(snap, nil)
	assert.Equal(t, 67, r.SuccessRate)
	assert.Equal(t, 2, r.AverageAttempts)
	// 100s / 3 items = 33.3s -> 33
	assert.Equal(t, 33, r.AverageTimePerItemSec)

	// 1 mastered of 8 attempted -> 12.5 -> 13 (half up).
	var records []session.Record
	records = append(records, rec("m", session.StatusMastered, 1))
	for i := range 7 {
		records = append(records, rec(fmt.Sprintf("n%d", i), session.StatusNeedsWork, 1))
	}
	assert.Equal(t, 13, Aggregate(snapshotOf(0, records...), nil).SuccessRate)
}

func TestAggregate_Recommendations(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want []Kind
	}{
		{
			name: "all mastered good pace",
			snap: snapshotOf(120_000,
				rec("A", session.StatusMastered, 1),
				rec("B", session.StatusMastered, 1)),
			want: []Kind{KindSuccess},
		},
		{
			name: "everything fires",
			snap: snapshotOf(1_000,
				rec("A", session.StatusNeedsWork, 1),
				rec("B", session.StatusNotPracticed, 0)),
			want: []Kind{KindCompletion, KindNeedsWork, KindPacing, KindImprovement},
		},
		{
			name: "slow pace",
			snap: snapshotOf(500_000,
				rec("A", session.StatusMastered, 1),
				rec("B", session.StatusNeedsWork, 1)),
			want: []Kind{KindNeedsWork, KindPacing},
		},
		{
			name: "pace band edges are inside",
			snap: snapshotOf(60_000,
				rec("A", session.StatusMastered, 1),
				rec("B", session.StatusMastered, 1)),
			want: []Kind{KindSuccess},
		},
		{
			name: "nothing practiced",
			snap: snapshotOf(0, rec("A", session.StatusNotPracticed, 0)),
			want: []Kind{KindCompletion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Aggregate(tt.snap, nil)
			assert.Equal(t, tt.want, kinds(r.Recommendations))
		})
	}
}

func TestAggregate_RecommendationPriorities(t *testing.T) {
	r := Aggregate(snapshotOf(1_000,
		rec("A", session.StatusNeedsWork, 1),
		rec("B", session.StatusNotPracticed, 0)), nil)

	require.Len(t, r.Recommendations, 4)
	assert.Equal(t, PriorityHigh, r.Recommendations[0].Priority)
	assert.Equal(t, PriorityMedium, r.Recommendations[1].Priority)
	assert.Equal(t, PriorityLow, r.Recommendations[2].Priority)
	assert.Equal(t, PriorityMedium, r.Recommendations[3].Priority)
	assert.Equal(t, "1 of 2 items not practiced yet: B", r.Recommendations[0].Message)
	assert.Equal(t, "Review 1 item that needs work: A", r.Recommendations[1].Message)
}

func TestAggregate_ItemsCarryMetadata(t *testing.T) {
	snap := snapshotOf(0, session.Record{
		Item:     "水",
		Status:   session.StatusNeedsWork,
		Attempts: 2,
		Strokes:  []session.Stroke{{Pressure: 0.4}, {Pressure: 0.6}},
		Feedback: []session.Feedback{{Status: session.StatusNeedsWork, Note: "hook"}},
	}, rec("龍", session.StatusNotPracticed, 0))

	r := Aggregate(snap, glyph.Default())

	require.Len(t, r.Items, 2)
	assert.Equal(t, "water", r.Items[0].Meta.Meaning)
	assert.Equal(t, 2, r.Items[0].Strokes)
	assert.Equal(t, []string{"hook"}, r.Items[0].Notes)
	assert.Equal(t, glyph.UnknownMeaning, r.Items[1].Meta.Meaning)
	assert.Equal(t, 2, r.TotalStrokes)
}

func TestComplete(t *testing.T) {
	sched := &session.ManualScheduler{}
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tr, err := session.NewTracker([]string{"A", "B", "C"}, session.Descriptor{ID: "s"}, session.DefaultConfig(), session.Options{
		Now:       clock,
		Scheduler: sched,
	})
	require.NoError(t, err)

	tr.SetStatus("A", session.StatusMastered, "")
	tr.SetStatus("B", session.StatusNeedsWork, "")

	r := Complete(tr, nil)
	assert.Equal(t, session.StateCompleted, r.State)
	assert.Equal(t, session.StateCompleted, tr.State())
	assert.Equal(t, 50, r.SuccessRate)
	assert.Equal(t, 0, sched.Live())
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 0, Report{DurationMs: 29_999}.DurationMinutes())
	assert.Equal(t, 1, Report{DurationMs: 30_000}.DurationMinutes())
	assert.Equal(t, 2, Report{DurationMs: 119_000}.DurationMinutes())
}
