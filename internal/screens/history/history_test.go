package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/inkdrill/internal/autosave"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
)

type stubLoader struct {
	records []store.SessionRecord
	err     error
	limit   int
}

func (l *stubLoader) LoadRecent(_ context.Context, limit int) ([]store.SessionRecord, error) {
	l.limit = limit
	return l.records, l.err
}

func testRecord(t *testing.T) store.SessionRecord {
	t.Helper()
	r := results.Aggregate(session.Snapshot{
		Descriptor: session.Descriptor{ID: "s-1", Date: "2024-03-09", Type: "practice", Level: "mixed"},
		Records: []session.Record{
			{Item: "水", Status: session.StatusMastered, Attempts: 1},
			{Item: "火", Status: session.StatusNeedsWork, Attempts: 1},
		},
		State:      session.StateCompleted,
		DurationMs: 90_000,
	}, nil)
	rec, err := autosave.FromReport(r, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FromReport: %v", err)
	}
	return rec
}

func load(s *HistoryScreen) {
	s.Update(s.Init()())
}

func TestHistory_ListsSessions(t *testing.T) {
	loader := &stubLoader{records: []store.SessionRecord{testRecord(t)}}
	s := New(loader)
	load(s)

	if loader.limit != store.MaxSessions {
		t.Errorf("limit = %d, want %d", loader.limit, store.MaxSessions)
	}
	view := s.View(100, 20)
	if !strings.Contains(view, "1/2  mastered") {
		t.Errorf("expected session summary line, got:\n%s", view)
	}
	if !strings.Contains(view, "1:30") {
		t.Error("expected duration in view")
	}
}

func TestHistory_ExpandShowsBuckets(t *testing.T) {
	s := New(&stubLoader{records: []store.SessionRecord{testRecord(t)}})
	load(s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 20)
	if !strings.Contains(view, "Needs work: ") || !strings.Contains(view, "火") {
		t.Errorf("expected bucket details, got:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if strings.Contains(s.View(100, 20), "Needs work: ") {
		t.Error("expected details collapsed")
	}
}

func TestHistory_CorruptDataDegrades(t *testing.T) {
	rec := testRecord(t)
	rec.Data = []byte(`{"broken":`)
	s := New(&stubLoader{records: []store.SessionRecord{rec}})
	load(s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 20), "Details unavailable") {
		t.Error("expected a placeholder for unreadable details")
	}
}

func TestHistory_Empty(t *testing.T) {
	s := New(&stubLoader{})
	load(s)
	if !strings.Contains(s.View(100, 20), "No sessions yet") {
		t.Error("expected the empty message")
	}
}

func TestHistory_LoadError(t *testing.T) {
	s := New(&stubLoader{err: errors.New("disk gone")})
	load(s)
	if !strings.Contains(s.View(100, 20), "disk gone") {
		t.Error("expected the load error")
	}
}

func TestHistory_Navigation(t *testing.T) {
	a, b := testRecord(t), testRecord(t)
	b.ID = "s-2"
	s := New(&stubLoader{records: []store.SessionRecord{a, b}})
	load(s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
