package practice

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screens/summary"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
)

// recordingSaver keeps every submitted record.
type recordingSaver struct {
	mu      sync.Mutex
	records []store.SessionRecord
	err     error
}

func (r *recordingSaver) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *recordingSaver) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *recordingSaver) Submit(rec store.SessionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *recordingSaver) last() store.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[len(r.records)-1]
}

type fixture struct {
	screen *PracticeScreen
	sched  *session.ManualScheduler
	saver  *recordingSaver
	now    time.Time
}

func newFixture(t *testing.T, items []string, cfg session.Config) *fixture {
	t.Helper()
	f := &fixture{
		sched: &session.ManualScheduler{},
		saver: &recordingSaver{},
		now:   time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	tr, err := session.NewTracker(items, session.Descriptor{ID: "sess-1"}, cfg, session.Options{
		Now:       clock,
		Scheduler: f.sched,
	})
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}

	f.screen = New(Deps{
		Tracker:      tr,
		Catalog:      glyph.Default(),
		Saver:        f.saver,
		CanvasWidth:  10,
		CanvasHeight: 5,
		HistoryLimit: 10,
		Now:          clock,
	})
	f.screen.Init()
	// View places the canvas; mouse coordinates depend on it.
	f.screen.View(100, 40)
	return f
}

// currentTick is the tick the screen's latest tea.Tick would deliver.
func (f *fixture) currentTick() tickMsg {
	return tickMsg{gen: f.screen.tickGen}
}

func key(s string) tea.KeyPressMsg {
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

func (f *fixture) stroke(x0, y0, x1, y1 int) {
	s := f.screen
	s.Update(tea.MouseClickMsg{X: s.originX + x0, Y: s.originY + y0, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: s.originX + x1, Y: s.originY + y1, Button: tea.MouseLeft})
	s.Update(tea.MouseReleaseMsg{X: s.originX + x1, Y: s.originY + y1, Button: tea.MouseLeft})
}

func TestPracticeScreen_InitSavesAndTicks(t *testing.T) {
	f := newFixture(t, []string{"水", "火"}, session.DefaultConfig())

	if len(f.saver.records) == 0 {
		t.Fatal("expected an initial save")
	}
	if got := f.saver.last().State; got != string(session.StateActive) {
		t.Errorf("saved state = %q, want active", got)
	}

	_, cmd := f.screen.Update(f.currentTick())
	if cmd == nil {
		t.Error("expected the tick to reschedule while active")
	}
}

func TestPracticeScreen_MarkStatus(t *testing.T) {
	f := newFixture(t, []string{"水", "火"}, session.DefaultConfig())

	f.screen.Update(key("m"))

	rec, _ := f.screen.tracker.Record("水")
	if rec.Status != session.StatusMastered || rec.Attempts != 1 {
		t.Errorf("record = %s/%d, want mastered/1", rec.Status, rec.Attempts)
	}
	if got := f.saver.last().Mastered; got != 1 {
		t.Errorf("saved mastered = %d, want 1", got)
	}
}

func TestPracticeScreen_StrokeRecordedAndUndoable(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())

	f.stroke(1, 1, 4, 1)

	rec, _ := f.screen.tracker.Record("水")
	if len(rec.Strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(rec.Strokes))
	}
	if got := f.screen.grid.Inked(); got != 4 {
		t.Errorf("inked = %d, want 4", got)
	}

	f.screen.Update(key("u"))
	if got := f.screen.grid.Inked(); got != 0 {
		t.Errorf("inked after undo = %d, want 0", got)
	}
	f.screen.Update(key("r"))
	if got := f.screen.grid.Inked(); got != 4 {
		t.Errorf("inked after redo = %d, want 4", got)
	}
}

func TestPracticeScreen_ClickOutsideCanvasIgnored(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())
	s := f.screen

	s.Update(tea.MouseClickMsg{X: s.originX - 1, Y: s.originY, Button: tea.MouseLeft})
	s.Update(tea.MouseClickMsg{X: s.originX, Y: s.originY, Button: tea.MouseRight})

	if s.grid.Drawing() {
		t.Error("expected no open stroke")
	}
}

func TestPracticeScreen_NavigationResetsCanvas(t *testing.T) {
	f := newFixture(t, []string{"水", "火"}, session.DefaultConfig())

	f.stroke(0, 0, 2, 0)
	f.screen.Update(tea.KeyPressMsg{Code: tea.KeyRight})

	if _, item := f.screen.tracker.Current(); item != "火" {
		t.Errorf("current = %q, want 火", item)
	}
	if f.screen.grid.Inked() != 0 {
		t.Error("expected a blank canvas for the next item")
	}
	if f.screen.editor.History().CanUndo() {
		t.Error("expected history reset for the next item")
	}

	f.screen.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if idx, _ := f.screen.tracker.Current(); idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
}

func TestPracticeScreen_AdvancePastLastShowsSummary(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())
	f.screen.Update(key("n"))

	_, cmd := f.screen.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if cmd == nil {
		t.Fatal("expected a command to show the summary")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	sum, ok := msg.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("expected summary screen, got %T", msg.Screen)
	}
	if got := sum.Report().NeedsWork; len(got) != 1 || got[0] != "水" {
		t.Errorf("needs work = %v, want [水]", got)
	}
	if f.screen.tracker.State() != session.StateCompleted {
		t.Error("expected the session to be completed")
	}
}

func TestPracticeScreen_AutoAdvanceCompletes(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.AutoAdvance = true
	f := newFixture(t, []string{"水", "火"}, cfg)

	if _, cmd := f.screen.Update(key("m")); cmd != nil {
		t.Error("expected no summary after the first item")
	}
	if _, item := f.screen.tracker.Current(); item != "火" {
		t.Errorf("current = %q, want 火", item)
	}

	_, cmd := f.screen.Update(key("m"))
	if cmd == nil {
		t.Fatal("expected the summary after the last item")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
}

func TestPracticeScreen_NoteInput(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())

	f.screen.Update(key("N"))
	if !f.screen.note.Focused() {
		t.Fatal("expected the note input to be focused")
	}
	// Keys go to the input, not to the shortcuts.
	for _, r := range "hook" {
		f.screen.Update(key(string(r)))
	}
	f.screen.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	rec, _ := f.screen.tracker.Record("水")
	if rec.Status != session.StatusNeedsWork {
		t.Errorf("status = %s, want needs-work", rec.Status)
	}
	if len(rec.Feedback) != 1 || rec.Feedback[0].Note != "hook" {
		t.Errorf("feedback = %+v, want one note %q", rec.Feedback, "hook")
	}
	if f.screen.note.Focused() {
		t.Error("expected the note input to close")
	}
}

func TestPracticeScreen_NoteCancel(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())

	f.screen.Update(key("M"))
	f.screen.Update(key("x"))
	_, cmd := f.screen.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	if cmd != nil {
		t.Error("expected Esc to only close the note input")
	}
	rec, _ := f.screen.tracker.Record("水")
	if rec.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", rec.Attempts)
	}
}

func TestPracticeScreen_PauseBlocksInput(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())

	f.screen.Update(key("p"))
	if f.screen.tracker.State() != session.StatePaused {
		t.Fatal("expected paused")
	}
	if f.sched.Live() != 0 {
		t.Errorf("live timers while paused = %d, want 0", f.sched.Live())
	}
	if f.screen.WantsMouse() {
		t.Error("expected no mouse while paused")
	}

	f.screen.Update(key("m"))
	f.stroke(0, 0, 1, 0)
	rec, _ := f.screen.tracker.Record("水")
	if rec.Attempts != 0 || len(rec.Strokes) != 0 {
		t.Errorf("record changed while paused: %+v", rec)
	}
	if !strings.Contains(f.screen.View(100, 40), "Paused") {
		t.Error("expected the paused banner")
	}

	f.screen.Update(key("p"))
	if f.screen.tracker.State() != session.StateActive {
		t.Error("expected active after resume")
	}
}

func TestPracticeScreen_TickStopsWhilePaused(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())
	beforePause := f.currentTick()

	_, cmd := f.screen.Update(key("p"))
	if cmd != nil {
		t.Error("expected pause to schedule nothing")
	}
	for i := 0; i < 3; i++ {
		if _, cmd := f.screen.Update(beforePause); cmd != nil {
			t.Fatalf("tick %d re-armed while paused", i+1)
		}
		if _, cmd := f.screen.Update(f.currentTick()); cmd != nil {
			t.Fatalf("current tick %d re-armed while paused", i+1)
		}
	}

	_, cmd = f.screen.Update(key("p"))
	if cmd == nil {
		t.Fatal("expected resume to restart the display tick")
	}
	if _, cmd := f.screen.Update(beforePause); cmd != nil {
		t.Error("expected a tick from before the pause to be dropped")
	}
	if _, cmd := f.screen.Update(f.currentTick()); cmd == nil {
		t.Error("expected the resumed tick to reschedule")
	}
}

func TestPracticeScreen_SaveFailureNotice(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())
	if strings.Contains(f.screen.View(100, 40), "Autosave failed") {
		t.Fatal("unexpected notice before any failure")
	}

	f.saver.fail(errors.New("disk full"))
	f.screen.Update(f.currentTick())
	if !strings.Contains(f.screen.View(100, 40), "Autosave failed: disk full") {
		t.Error("expected the autosave failure notice")
	}

	f.saver.fail(nil)
	f.screen.Update(f.currentTick())
	if strings.Contains(f.screen.View(100, 40), "Autosave failed") {
		t.Error("expected the notice to clear after a successful save")
	}
}

func TestPracticeScreen_NoSaverNotice(t *testing.T) {
	tr, err := session.NewTracker([]string{"水"}, session.Descriptor{}, session.DefaultConfig(), session.Options{
		Scheduler: &session.ManualScheduler{},
	})
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	s := New(Deps{Tracker: tr, CanvasWidth: 10, CanvasHeight: 5, HistoryLimit: 10})
	s.Init()

	if !strings.Contains(s.View(100, 40), "progress will not be saved") {
		t.Error("expected the storage unavailable notice")
	}
	s.Close()
}

func TestPracticeScreen_FinishAndClose(t *testing.T) {
	f := newFixture(t, []string{"水", "火"}, session.DefaultConfig())
	f.screen.Update(key("m"))

	_, cmd := f.screen.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected Esc to finish the session")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}

	r := router.New(f.screen)
	r.Update(msg)

	if f.sched.Live() != 0 {
		t.Errorf("live timers after close = %d, want 0", f.sched.Live())
	}
	if got := f.saver.last().State; got != string(session.StateCompleted) {
		t.Errorf("final saved state = %q, want completed", got)
	}
	if _, cmd := f.screen.Update(f.currentTick()); cmd != nil {
		t.Error("expected a closed screen to ignore ticks")
	}
}

func TestPracticeScreen_View(t *testing.T) {
	f := newFixture(t, []string{"水"}, session.DefaultConfig())
	view := f.screen.View(100, 40)

	for _, want := range []string{"Item 1/1", "water", "sui / mizu", "Not practiced"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := f.screen.HeaderStatus(); got.Total != 1 || got.Elapsed != "0:00" {
		t.Errorf("header status = %+v", got)
	}
}
