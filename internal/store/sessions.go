package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders SQLite statements.
var builder = entsql.Dialect(dialect.SQLite)

var sessionColumns = []string{
	"id", "saved_at_ms", "date", "type", "level", "state",
	"total_items", "mastered", "needs_work", "not_practiced",
	"attempts", "success_rate", "duration_ms", "data",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var (
		rec     SessionRecord
		savedMs int64
		data    string
	)
	err := row.Scan(
		&rec.ID, &savedMs, &rec.Date, &rec.Type, &rec.Level, &rec.State,
		&rec.TotalItems, &rec.Mastered, &rec.NeedsWork, &rec.NotPracticed,
		&rec.Attempts, &rec.SuccessRate, &rec.DurationMs, &data,
	)
	if err != nil {
		return SessionRecord{}, err
	}
	rec.SavedAt = time.UnixMilli(savedMs).UTC()
	if data != "" {
		rec.Data = []byte(data)
	}
	return rec, nil
}

// SaveSession upserts rec, updates cumulative statistics by the difference
// to any previous version, and evicts sessions beyond MaxSessions.
func (s *Store) SaveSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		return errors.New("save session: empty id")
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prev, err := getSession(ctx, tx, rec.ID)
	existed := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("load previous session: %w", err)
	}

	query, args := builder.Insert(tableSessions).
		Columns(sessionColumns...).
		Values(
			rec.ID, rec.SavedAt.UnixMilli(), rec.Date, rec.Type, rec.Level, rec.State,
			rec.TotalItems, rec.Mastered, rec.NeedsWork, rec.NotPracticed,
			rec.Attempts, rec.SuccessRate, rec.DurationMs, string(rec.Data),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	var old *SessionRecord
	if existed {
		old = &prev
	}
	if err := addStatistics(ctx, tx, statsDelta(old, rec), rec.SavedAt); err != nil {
		return fmt.Errorf("update statistics: %w", err)
	}

	if err := pruneSessions(ctx, tx, MaxSessions); err != nil {
		return fmt.Errorf("evict sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// LoadRecent returns up to limit sessions, newest first. A limit below 1
// returns every retained session.
func (s *Store) LoadRecent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit < 1 || limit > MaxSessions {
		limit = MaxSessions
	}
	query, args := builder.Select(sessionColumns...).
		From(builder.Table(tableSessions)).
		OrderBy(entsql.Desc("saved_at_ms"), entsql.Desc("id")).
		Limit(limit).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetSession returns the session with id.
func (s *Store) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	return getSession(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSession(ctx context.Context, q queryRower, id string) (SessionRecord, error) {
	query, args := builder.Select(sessionColumns...).
		From(builder.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanSession(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("query session: %w", err)
	}
	return rec, nil
}

// pruneSessions deletes all but the keep most recent sessions.
func pruneSessions(ctx context.Context, tx *sql.Tx, keep int) error {
	overflow := builder.Select("id").
		From(builder.Table(tableSessions)).
		OrderBy(entsql.Desc("saved_at_ms"), entsql.Desc("id")).
		Limit(-1).
		Offset(keep)

	query, args := builder.Delete(tableSessions).
		Where(entsql.In("id", overflow)).
		Query()
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
