package summary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/inkdrill/internal/coach"
	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/session"
)

func testReport() results.Report {
	return results.Aggregate(session.Snapshot{
		Descriptor: session.Descriptor{ID: "abcdef0123456789", Date: "2024-03-09", Type: "practice", Level: "mixed"},
		Items:      []string{"水", "火"},
		Records: []session.Record{
			{Item: "水", Status: session.StatusMastered, Attempts: 1, TimeSpentMs: 40_000},
			{Item: "火", Status: session.StatusNeedsWork, Attempts: 2, TimeSpentMs: 80_000},
		},
		State:      session.StateCompleted,
		DurationMs: 120_000,
	}, glyph.Default())
}

type fakeAdvisor struct {
	advice *coach.Advice
	err    error
	calls  int
}

func (f *fakeAdvisor) Advise(_ context.Context, _ results.Report) (*coach.Advice, error) {
	f.calls++
	return f.advice, f.err
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testReport(), Deps{})
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testReport(), Deps{})
	view := s.View(100, 40)
	for _, want := range []string{"Session complete", "水", "water", "Success 50%", "Recommendations"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		s := New(testReport(), Deps{})
		_, cmd := s.Update(key)
		if cmd == nil {
			t.Fatalf("expected a command on %s", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg on %s", key.String())
		}
	}
}

func TestSummaryScreen_Export(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := New(testReport(), Deps{ExportDir: dir, Now: func() time.Time { return now }})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if cmd == nil {
		t.Fatal("expected an export command")
	}
	// A second press while exporting is ignored.
	if _, again := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"}); again != nil {
		t.Error("expected no command while an export is running")
	}

	s.Update(cmd())
	if len(s.exported) != 3 {
		t.Fatalf("exported %d files, want 3", len(s.exported))
	}
	for _, p := range s.exported {
		if filepath.Dir(p) != dir {
			t.Errorf("export %s outside %s", p, dir)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("stat %s: %v", p, err)
		}
	}
	if !strings.Contains(s.View(100, 60), "Exported:") {
		t.Error("expected export paths in view")
	}
}

func TestSummaryScreen_Advice(t *testing.T) {
	advisor := &fakeAdvisor{advice: &coach.Advice{
		Summary:   "Steady session.",
		Tips:      []coach.Tip{{Item: "火", Advice: "Keep the side dots short."}},
		NextFocus: []string{"火"},
	}}
	s := New(testReport(), Deps{Advisor: advisor})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if cmd == nil {
		t.Fatal("expected an advice command")
	}
	s.Update(cmd())

	if advisor.calls != 1 {
		t.Errorf("advisor called %d times, want 1", advisor.calls)
	}
	view := s.View(100, 60)
	if !strings.Contains(view, "Keep the side dots short.") {
		t.Error("expected tip in view")
	}
}

func TestSummaryScreen_AdviceError(t *testing.T) {
	s := New(testReport(), Deps{Advisor: &fakeAdvisor{err: errors.New("offline")}})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	s.Update(cmd())

	if !strings.Contains(s.View(100, 60), "Coach unavailable: offline") {
		t.Error("expected coach error in view")
	}
}

func TestSummaryScreen_NoAdvisor(t *testing.T) {
	s := New(testReport(), Deps{})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'a', Text: "a"}); cmd != nil {
		t.Error("expected no command without an advisor")
	}
	if got := len(s.KeyHints()); got != 3 {
		t.Errorf("KeyHints length = %d, want 3", got)
	}
}

func TestSummaryScreen_ScrollClamped(t *testing.T) {
	s := New(testReport(), Deps{})
	for range 200 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := s.View(100, 5)
	if got := strings.Count(view, "\n") + 1; got != 5 {
		t.Errorf("view has %d lines, want 5", got)
	}
}
