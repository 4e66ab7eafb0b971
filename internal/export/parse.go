package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/session"
)

// ParseJSON reads a document produced by JSON back into a report, so stored
// sessions can be rendered in the other formats. The document is validated
// against the export schema first.
func ParseJSON(data []byte) (results.Report, time.Time, error) {
	if err := ValidateJSON(data); err != nil {
		return results.Report{}, time.Time{}, err
	}

	var doc jsonReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return results.Report{}, time.Time{}, fmt.Errorf("decode report: %w", err)
	}
	exportedAt, err := time.Parse(time.RFC3339, doc.ExportedAt)
	if err != nil {
		return results.Report{}, time.Time{}, fmt.Errorf("parse exportedAt: %w", err)
	}

	r := results.Report{
		SessionID:             doc.Session.ID,
		Date:                  doc.Session.Date,
		Type:                  doc.Session.Type,
		Level:                 doc.Session.Level,
		State:                 session.State(doc.Session.State),
		Mastered:              doc.Buckets.Mastered,
		NeedsWork:             doc.Buckets.NeedsWork,
		NotPracticed:          doc.Buckets.NotPracticed,
		TotalItems:            doc.Summary.TotalItems,
		PracticedCount:        doc.Summary.Practiced,
		CompletionPct:         doc.Summary.CompletionPct,
		SuccessRate:           doc.Summary.SuccessRate,
		TotalAttempts:         doc.Summary.TotalAttempts,
		AverageAttempts:       doc.Summary.AverageAttempts,
		TotalStrokes:          doc.Summary.TotalStrokes,
		DurationMs:            doc.Session.DurationMs,
		AverageTimePerItemSec: doc.Summary.AverageTimePerItemSec,
	}

	for _, it := range doc.Items {
		r.Items = append(r.Items, results.ItemResult{
			Item: it.Item,
			Meta: glyph.Metadata{
				ID:            it.Item,
				Pronunciation: it.Pronunciation,
				Meaning:       it.Meaning,
				StrokeCount:   it.StrokeCount,
				Tier:          glyph.Tier(it.Tier),
			},
			Status:      session.Status(it.Status),
			Attempts:    it.Attempts,
			TimeSpentMs: it.TimeSpentMs,
			Strokes:     it.Strokes,
			Notes:       it.Notes,
		})
	}
	for _, rec := range doc.Recommendations {
		r.Recommendations = append(r.Recommendations, results.Recommendation{
			Kind:     results.Kind(rec.Kind),
			Priority: results.Priority(rec.Priority),
			Message:  rec.Message,
		})
	}
	return r, exportedAt, nil
}
