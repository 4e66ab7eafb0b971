package autosave

import (
	"fmt"
	"time"

	"github.com/abhisek/inkdrill/internal/export"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/store"
)

// FromReport builds the persisted form of r. The full JSON report is kept
// in Data so later exports do not need the live session.
func FromReport(r results.Report, now time.Time) (store.SessionRecord, error) {
	data, err := export.JSON(r, now)
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("encode report: %w", err)
	}
	return store.SessionRecord{
		ID:           r.SessionID,
		SavedAt:      now,
		Date:         r.Date,
		Type:         r.Type,
		Level:        r.Level,
		State:        string(r.State),
		TotalItems:   r.TotalItems,
		Mastered:     len(r.Mastered),
		NeedsWork:    len(r.NeedsWork),
		NotPracticed: len(r.NotPracticed),
		Attempts:     r.TotalAttempts,
		SuccessRate:  r.SuccessRate,
		DurationMs:   r.DurationMs,
		Data:         data,
	}, nil
}
