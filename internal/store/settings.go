package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SaveSettings merges the non-nil fields of patch into the stored settings.
func (s *Store) SaveSettings(ctx context.Context, patch Settings) error {
	now := patch.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := builder.Insert(tableSettings).
		Columns("id", "updated_at_ms").
		Values(singletonID, now.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithIgnore()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("init settings: %w", err)
	}

	upd := builder.Update(tableSettings).Set("updated_at_ms", now.UnixMilli())
	if patch.AutoAdvance != nil {
		upd.Set("auto_advance", *patch.AutoAdvance)
	}
	if patch.CountRepeatedStatus != nil {
		upd.Set("count_repeated_status", *patch.CountRepeatedStatus)
	}
	if patch.Shuffle != nil {
		upd.Set("shuffle", *patch.Shuffle)
	}
	if patch.DefaultType != nil {
		upd.Set("default_type", *patch.DefaultType)
	}
	if patch.DefaultLevel != nil {
		upd.Set("default_level", *patch.DefaultLevel)
	}
	if patch.CanvasWidth != nil {
		upd.Set("canvas_width", *patch.CanvasWidth)
	}
	if patch.CanvasHeight != nil {
		upd.Set("canvas_height", *patch.CanvasHeight)
	}

	query, args = upd.Where(entsql.EQ("id", singletonID)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// LoadSettings returns the stored settings.
func (s *Store) LoadSettings(ctx context.Context) (Settings, error) {
	query, args := builder.Select("auto_advance", "count_repeated_status", "shuffle",
		"default_type", "default_level", "canvas_width", "canvas_height", "updated_at_ms").
		From(builder.Table(tableSettings)).
		Where(entsql.EQ("id", singletonID)).
		Query()

	var (
		autoAdvance, countRepeated, shuffle sql.NullBool
		defaultType, defaultLevel           sql.NullString
		width, height                       sql.NullInt64
		updatedMs                           int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&autoAdvance, &countRepeated, &shuffle,
		&defaultType, &defaultLevel, &width, &height, &updatedMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}

	return Settings{
		AutoAdvance:         nullBool(autoAdvance),
		CountRepeatedStatus: nullBool(countRepeated),
		Shuffle:             nullBool(shuffle),
		DefaultType:         nullString(defaultType),
		DefaultLevel:        nullString(defaultLevel),
		CanvasWidth:         nullInt(width),
		CanvasHeight:        nullInt(height),
		UpdatedAt:           time.UnixMilli(updatedMs).UTC(),
	}, nil
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
