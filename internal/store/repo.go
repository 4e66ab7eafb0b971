package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// MaxSessions is the number of most recent sessions retained.
const MaxSessions = 50

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord is the persisted form of a practice session.
type SessionRecord struct {
	ID           string
	SavedAt      time.Time
	Date         string
	Type         string
	Level        string
	State        string
	TotalItems   int
	Mastered     int
	NeedsWork    int
	NotPracticed int
	Attempts     int
	SuccessRate  int
	DurationMs   int64

	// Data holds the full exported report document.
	Data json.RawMessage
}

// Completed reports whether the session had finished when saved.
func (r SessionRecord) Completed() bool {
	return r.State == "completed"
}

// Settings are the persisted user preferences. Unset fields are nil and
// fall back to configuration defaults.
type Settings struct {
	AutoAdvance         *bool
	CountRepeatedStatus *bool
	Shuffle             *bool
	DefaultType         *string
	DefaultLevel        *string
	CanvasWidth         *int
	CanvasHeight        *int
	UpdatedAt           time.Time
}

// Statistics are cumulative counters over every session ever saved.
// They are not reduced when old sessions are evicted.
type Statistics struct {
	Sessions          int
	CompletedSessions int
	ItemsPracticed    int
	Mastered          int
	NeedsWork         int
	Attempts          int
	PracticeMs        int64
	UpdatedAt         time.Time
}

// SessionRepo persists practice sessions.
type SessionRepo interface {
	// SaveSession inserts or replaces the session with rec.ID and evicts
	// sessions beyond MaxSessions, oldest first.
	SaveSession(ctx context.Context, rec SessionRecord) error

	// LoadRecent returns up to limit sessions, newest first.
	LoadRecent(ctx context.Context, limit int) ([]SessionRecord, error)

	// GetSession returns the session with id or ErrNotFound.
	GetSession(ctx context.Context, id string) (SessionRecord, error)
}

// SettingsRepo persists user settings.
type SettingsRepo interface {
	// SaveSettings merges the non-nil fields of patch into the stored settings.
	SaveSettings(ctx context.Context, patch Settings) error

	// LoadSettings returns the stored settings. Nothing stored yields zero Settings.
	LoadSettings(ctx context.Context) (Settings, error)
}

// StatisticsRepo exposes cumulative counters.
type StatisticsRepo interface {
	Statistics(ctx context.Context) (Statistics, error)
}

var (
	_ SessionRepo    = (*Store)(nil)
	_ SettingsRepo   = (*Store)(nil)
	_ StatisticsRepo = (*Store)(nil)
)
