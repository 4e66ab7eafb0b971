package results

import (
	"fmt"
	"strings"

	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/round"
	"github.com/abhisek/inkdrill/internal/session"
)

// Pacing band, in seconds per practiced item.
const (
	MinPacingSec = 30
	MaxPacingSec = 120

	// Success-rate thresholds.
	StrongSuccessRate = 80
	WeakSuccessRate   = 50
)

// Aggregate buckets every item of snap by status and derives statistics.
// A nil lookup uses the built-in catalog.
func Aggregate(snap session.Snapshot, lookup glyph.Lookup) Report {
	if lookup == nil {
		lookup = glyph.Default()
	}

	r := Report{
		SessionID:  snap.Descriptor.ID,
		Date:       snap.Descriptor.Date,
		Type:       snap.Descriptor.Type,
		Level:      snap.Descriptor.Level,
		State:      snap.State,
		TotalItems: len(snap.Records),
		DurationMs: snap.DurationMs,
		Items:      make([]ItemResult, 0, len(snap.Records)),
	}

	for _, rec := range snap.Records {
		item := ItemResult{
			Item:        rec.Item,
			Meta:        lookup.Lookup(rec.Item),
			Status:      rec.Status,
			Attempts:    rec.Attempts,
			TimeSpentMs: rec.TimeSpentMs,
			Strokes:     len(rec.Strokes),
		}
		for _, fb := range rec.Feedback {
			item.Notes = append(item.Notes, fb.Note)
		}
		r.Items = append(r.Items, item)

		switch rec.Status {
		case session.StatusMastered:
			r.Mastered = append(r.Mastered, rec.Item)
		case session.StatusNeedsWork:
			r.NeedsWork = append(r.NeedsWork, rec.Item)
		default:
			r.NotPracticed = append(r.NotPracticed, rec.Item)
		}

		r.TotalAttempts += rec.Attempts
		r.TotalStrokes += len(rec.Strokes)
	}

	m, nw := len(r.Mastered), len(r.NeedsWork)
	r.PracticedCount = m + nw
	r.SuccessRate = round.Percent(m, max(1, m+nw))
	r.CompletionPct = round.Percent(r.PracticedCount, r.TotalItems)
	r.AverageAttempts = int(round.Div(int64(r.TotalAttempts), int64(r.PracticedCount)))
	r.AverageTimePerItemSec = int(round.Div(r.DurationMs, int64(r.PracticedCount)*1000))
	r.Recommendations = recommend(r)
	return r
}

// Complete completes the tracker's session and aggregates the final state.
func Complete(tr *session.Tracker, lookup glyph.Lookup) Report {
	return Aggregate(tr.Complete(), lookup)
}

// recommend evaluates the rules in a fixed order. Every matching rule
// contributes one recommendation. The pacing and improvement rules need at
// least one practiced item: with nothing practiced the success rate is 0 by
// definition rather than a measured result.
func recommend(r Report) []Recommendation {
	var out []Recommendation

	if n := len(r.NotPracticed); n > 0 {
		out = append(out, Recommendation{
			Kind:     KindCompletion,
			Priority: PriorityHigh,
			Message: fmt.Sprintf("%d of %d items not practiced yet: %s",
				n, r.TotalItems, strings.Join(r.NotPracticed, ", ")),
		})
	}

	if n := len(r.NeedsWork); n > 0 {
		out = append(out, Recommendation{
			Kind:     KindNeedsWork,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("Review %d %s work: %s", n, plural(n, "item that needs", "items that need"), strings.Join(r.NeedsWork, ", ")),
		})
	}

	if r.PracticedCount > 0 {
		switch avg := r.AverageTimePerItemSec; {
		case avg < MinPacingSec:
			out = append(out, Recommendation{
				Kind:     KindPacing,
				Priority: PriorityLow,
				Message:  fmt.Sprintf("Averaging %ds per item. Slow down and check stroke order on each item.", avg),
			})
		case avg > MaxPacingSec:
			out = append(out, Recommendation{
				Kind:     KindPacing,
				Priority: PriorityLow,
				Message:  fmt.Sprintf("Averaging %ds per item. Try shorter, more frequent repetitions.", avg),
			})
		}
	}

	if r.SuccessRate >= StrongSuccessRate {
		out = append(out, Recommendation{
			Kind:     KindSuccess,
			Priority: PriorityPositive,
			Message:  fmt.Sprintf("Success rate %d%%. Ready for a harder set.", r.SuccessRate),
		})
	}

	if r.PracticedCount > 0 && r.SuccessRate < WeakSuccessRate {
		out = append(out, Recommendation{
			Kind:     KindImprovement,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("Success rate %d%%. Repeat this set before moving on.", r.SuccessRate),
		})
	}

	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
