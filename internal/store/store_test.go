package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sessionAt(id string, at time.Time) SessionRecord {
	return SessionRecord{
		ID:           id,
		SavedAt:      at,
		Date:         at.Format("2006-01-02"),
		Type:         "practice",
		Level:        "mixed",
		State:        "completed",
		TotalItems:   3,
		Mastered:     1,
		NeedsWork:    1,
		NotPracticed: 1,
		Attempts:     2,
		SuccessRate:  50,
		DurationMs:   120_000,
		Data:         json.RawMessage(`{"session":{"id":"` + id + `"}}`),
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"journal_mode", "wal"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSaveAndGetSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetSession(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	want := sessionAt("s-1", at)
	if err := s.SaveSession(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.SavedAt.Equal(at) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, at)
	}
	if got.Mastered != 1 || got.NeedsWork != 1 || got.SuccessRate != 50 || got.DurationMs != 120_000 {
		t.Errorf("counts = %+v", got)
	}
	if string(got.Data) != string(want.Data) {
		t.Errorf("Data = %s, want %s", got.Data, want.Data)
	}
	if !got.Completed() {
		t.Error("expected completed session")
	}
}

func TestSaveSession_EmptyID(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveSession(context.Background(), SessionRecord{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestSaveSession_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	first := sessionAt("s-1", at)
	first.State = "active"
	if err := s.SaveSession(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := sessionAt("s-1", at.Add(time.Minute))
	second.Mastered = 3
	second.NeedsWork = 0
	second.NotPracticed = 0
	second.Attempts = 3
	if err := s.SaveSession(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	recent, err := s.LoadRecent(ctx, 0)
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("len(recent) = %d, want 1", len(recent))
	}
	if recent[0].Mastered != 3 || recent[0].State != "completed" {
		t.Errorf("recent[0] = %+v", recent[0])
	}

	st, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	want := Statistics{
		Sessions:          1,
		CompletedSessions: 1,
		ItemsPracticed:    3,
		Mastered:          3,
		NeedsWork:         0,
		Attempts:          3,
		PracticeMs:        120_000,
	}
	st.UpdatedAt = time.Time{}
	if st != want {
		t.Errorf("statistics = %+v, want %+v", st, want)
	}
}

func TestLoadRecent_OrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		if err := s.SaveSession(ctx, sessionAt(fmt.Sprintf("s-%d", i), base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	recent, err := s.LoadRecent(ctx, 3)
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	for i, want := range []string{"s-4", "s-3", "s-2"} {
		if recent[i].ID != want {
			t.Errorf("recent[%d].ID = %q, want %q", i, recent[i].ID, want)
		}
	}
}

func TestSaveSession_EvictsOldest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	total := MaxSessions + 5
	for i := range total {
		if err := s.SaveSession(ctx, sessionAt(fmt.Sprintf("s-%03d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	recent, err := s.LoadRecent(ctx, 0)
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != MaxSessions {
		t.Fatalf("len(recent) = %d, want %d", len(recent), MaxSessions)
	}
	if recent[0].ID != fmt.Sprintf("s-%03d", total-1) {
		t.Errorf("newest = %q", recent[0].ID)
	}
	if recent[len(recent)-1].ID != "s-005" {
		t.Errorf("oldest retained = %q, want s-005", recent[len(recent)-1].ID)
	}

	for i := range 5 {
		if _, err := s.GetSession(ctx, fmt.Sprintf("s-%03d", i)); !errors.Is(err, ErrNotFound) {
			t.Errorf("s-%03d: err = %v, want ErrNotFound", i, err)
		}
	}

	// Cumulative statistics survive eviction.
	st, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if st.Sessions != total {
		t.Errorf("Sessions = %d, want %d", st.Sessions, total)
	}
	if st.Mastered != total {
		t.Errorf("Mastered = %d, want %d", st.Mastered, total)
	}
}

func TestStatistics_Empty(t *testing.T) {
	s := openTestStore(t)
	st, err := s.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if st != (Statistics{}) {
		t.Errorf("statistics = %+v, want zero", st)
	}
}

func TestSettingsMerge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if got.AutoAdvance != nil || got.DefaultType != nil {
		t.Fatalf("expected empty settings, got %+v", got)
	}

	yes, no := true, false
	level := "n5"
	if err := s.SaveSettings(ctx, Settings{AutoAdvance: &yes, DefaultLevel: &level}); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	width := 48
	if err := s.SaveSettings(ctx, Settings{AutoAdvance: &no, CanvasWidth: &width}); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	got, err = s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.AutoAdvance == nil || *got.AutoAdvance {
		t.Errorf("AutoAdvance = %v, want false", got.AutoAdvance)
	}
	if got.DefaultLevel == nil || *got.DefaultLevel != "n5" {
		t.Errorf("DefaultLevel = %v, want n5", got.DefaultLevel)
	}
	if got.CanvasWidth == nil || *got.CanvasWidth != 48 {
		t.Errorf("CanvasWidth = %v, want 48", got.CanvasWidth)
	}
	if got.Shuffle != nil || got.CanvasHeight != nil {
		t.Errorf("unset fields should stay nil: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStatsDelta(t *testing.T) {
	first := sessionAt("s", time.Now())
	first.State = "active"

	d := statsDelta(nil, first)
	if d.Sessions != 1 || d.CompletedSessions != 0 || d.ItemsPracticed != 2 {
		t.Errorf("first delta = %+v", d)
	}

	second := first
	second.State = "completed"
	second.Mastered = 2
	d = statsDelta(&first, second)
	if d.Sessions != 0 || d.CompletedSessions != 1 || d.Mastered != 1 || d.ItemsPracticed != 1 {
		t.Errorf("second delta = %+v", d)
	}
}
