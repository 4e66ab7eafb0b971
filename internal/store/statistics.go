package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// statsDelta returns the counter changes caused by replacing old with rec.
// old is nil for a first save.
func statsDelta(old *SessionRecord, rec SessionRecord) Statistics {
	d := Statistics{
		ItemsPracticed: rec.Mastered + rec.NeedsWork,
		Mastered:       rec.Mastered,
		NeedsWork:      rec.NeedsWork,
		Attempts:       rec.Attempts,
		PracticeMs:     rec.DurationMs,
	}
	if rec.Completed() {
		d.CompletedSessions = 1
	}

	if old == nil {
		d.Sessions = 1
		return d
	}

	d.ItemsPracticed -= old.Mastered + old.NeedsWork
	d.Mastered -= old.Mastered
	d.NeedsWork -= old.NeedsWork
	d.Attempts -= old.Attempts
	d.PracticeMs -= old.DurationMs
	if old.Completed() {
		d.CompletedSessions--
	}
	return d
}

func addStatistics(ctx context.Context, tx *sql.Tx, d Statistics, at time.Time) error {
	query, args := builder.Insert(tableStatistics).
		Columns("id", "sessions", "completed_sessions", "items_practiced", "mastered",
			"needs_work", "attempts", "practice_ms", "updated_at_ms").
		Values(singletonID, 0, 0, 0, 0, 0, 0, 0, at.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithIgnore()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query, args = builder.Update(tableStatistics).
		Add("sessions", d.Sessions).
		Add("completed_sessions", d.CompletedSessions).
		Add("items_practiced", d.ItemsPracticed).
		Add("mastered", d.Mastered).
		Add("needs_work", d.NeedsWork).
		Add("attempts", d.Attempts).
		Add("practice_ms", d.PracticeMs).
		Set("updated_at_ms", at.UnixMilli()).
		Where(entsql.EQ("id", singletonID)).
		Query()
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Statistics returns the cumulative counters. A store with no saved
// sessions returns zero counters.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	query, args := builder.Select("sessions", "completed_sessions", "items_practiced",
		"mastered", "needs_work", "attempts", "practice_ms", "updated_at_ms").
		From(builder.Table(tableStatistics)).
		Where(entsql.EQ("id", singletonID)).
		Query()

	var (
		st        Statistics
		updatedMs int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&st.Sessions, &st.CompletedSessions, &st.ItemsPracticed,
		&st.Mastered, &st.NeedsWork, &st.Attempts, &st.PracticeMs, &updatedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Statistics{}, nil
	}
	if err != nil {
		return Statistics{}, fmt.Errorf("query statistics: %w", err)
	}
	st.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return st, nil
}
