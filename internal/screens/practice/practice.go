package practice

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/inkdrill/internal/autosave"
	"github.com/abhisek/inkdrill/internal/canvas"
	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screen"
	"github.com/abhisek/inkdrill/internal/screens/summary"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/components"
	"github.com/abhisek/inkdrill/internal/ui/layout"
)

// Saver receives the latest session record after every change.
type Saver interface {
	Submit(rec store.SessionRecord)
}

// failureReporter is implemented by savers that save in the background and
// can report their most recent failure.
type failureReporter interface {
	Err() error
}

// Deps carries the practice screen's collaborators. Saver and Summary
// may be left empty. Without a Saver the screen warns that progress is
// not saved.
type Deps struct {
	Tracker *session.Tracker
	Catalog glyph.Lookup
	Saver   Saver
	Summary summary.Deps

	CanvasWidth  int
	CanvasHeight int
	HistoryLimit int

	// TickInterval paces the elapsed-time display. Zero means one second.
	TickInterval time.Duration

	Now    func() time.Time
	Logger *slog.Logger
}

// Pressure presets for terminals, which report no stylus pressure.
const (
	lightPressure = 0.25
	heavyPressure = 1.0
)

// PracticeScreen implements screen.Screen for an active session.
type PracticeScreen struct {
	tracker *session.Tracker
	catalog glyph.Lookup
	saver   Saver
	summary summary.Deps
	now     func() time.Time
	logger  *slog.Logger

	grid   *canvas.Grid
	editor *canvas.Editor

	note       components.TextInput
	noteStatus session.Status

	tickInterval time.Duration
	tickGen      int
	elapsed      time.Duration
	flash        string
	saveErr      error

	// originX and originY locate canvas cell (0, 0) in content coordinates.
	// They are refreshed on every View.
	originX, originY int
	pressure         float64

	closed bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.KeyCapturer = (*PracticeScreen)(nil)
var _ screen.MouseReceiver = (*PracticeScreen)(nil)
var _ layout.StatusProvider = (*PracticeScreen)(nil)
var _ router.Closer = (*PracticeScreen)(nil)

// New creates a PracticeScreen over a running tracker.
func New(deps Deps) *PracticeScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Catalog == nil {
		deps.Catalog = glyph.Default()
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}

	grid := canvas.NewGrid(deps.CanvasWidth, deps.CanvasHeight, canvas.Options{
		Now:    deps.Now,
		Logger: deps.Logger,
	})

	s := &PracticeScreen{
		tracker:      deps.Tracker,
		catalog:      deps.Catalog,
		saver:        deps.Saver,
		summary:      deps.Summary,
		now:          deps.Now,
		logger:       deps.Logger,
		grid:         grid,
		editor:       canvas.NewEditor(grid, deps.HistoryLimit, deps.Logger),
		note:         components.NewTextInput("note:", "what to fix next time", 40),
		tickInterval: deps.TickInterval,
		pressure:     canvas.DefaultPressure,
	}
	grid.OnStrokeCommitted(s.strokeCommitted)
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.save()
	return s.tick()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) CapturesKeys() bool { return true }

func (s *PracticeScreen) WantsMouse() bool {
	return !s.closed && s.tracker.State() == session.StateActive
}

func (s *PracticeScreen) HeaderStatus() layout.Status {
	p := s.tracker.Progress()
	return layout.Status{
		Practiced: p.Practiced,
		Total:     p.Total,
		Elapsed:   layout.FormatElapsed(int64(s.elapsed / time.Second)),
	}
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.note.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save " + s.noteStatus.Label()},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.tracker.State() == session.StatePaused {
		return []layout.KeyHint{
			{Key: "p", Description: "Resume"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "m/n/x", Description: "Mark"},
		{Key: "M/N", Description: "Mark+note"},
		{Key: "u/r", Description: "Undo/Redo"},
		{Key: "c", Description: "Clear"},
		{Key: "←→", Description: "Item"},
		{Key: "p", Description: "Pause"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.closed {
		return s, nil
	}
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != s.tickGen || s.tracker.State() != session.StateActive {
			return s, nil
		}
		s.elapsed = s.tracker.Duration()
		s.checkSaver()
		return s, s.tick()

	case tea.MouseClickMsg:
		s.handleMouseDown(tea.Mouse(msg))
		return s, nil

	case tea.MouseMotionMsg:
		s.handleMouseDrag(tea.Mouse(msg))
		return s, nil

	case tea.MouseReleaseMsg:
		s.handleMouseUp(tea.Mouse(msg))
		return s, nil

	case tea.KeyPressMsg:
		if s.note.Focused() {
			return s.handleNoteKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.note.Focused() {
		var cmd tea.Cmd
		s.note, cmd = s.note.Update(msg)
		return s, cmd
	}
	return s, nil
}

// Close stops the tracker's timers and flushes a final record. The router
// calls it when the screen leaves the stack.
func (s *PracticeScreen) Close() {
	if s.closed {
		return
	}
	s.tracker.Dispose()
	s.save()
	s.closed = true
}

func (s *PracticeScreen) tick() tea.Cmd {
	gen := s.tickGen
	return tea.Tick(s.tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// checkSaver picks up a background save failure, or its recovery.
func (s *PracticeScreen) checkSaver() {
	if fr, ok := s.saver.(failureReporter); ok {
		s.saveErr = fr.Err()
	}
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	paused := s.tracker.State() == session.StatePaused

	switch msg.String() {
	case "esc", "q":
		return s, s.finish()
	case "p", "space":
		return s, s.togglePause()
	}
	if paused {
		return s, nil
	}

	switch msg.String() {
	case "m":
		return s, s.mark(session.StatusMastered, "")
	case "n":
		return s, s.mark(session.StatusNeedsWork, "")
	case "x":
		return s, s.mark(session.StatusNotPracticed, "")
	case "M":
		return s, s.openNote(session.StatusMastered)
	case "N":
		return s, s.openNote(session.StatusNeedsWork)
	case "u", "ctrl+z":
		if s.editor.Undo() {
			s.flash = ""
		} else {
			s.flash = "Nothing to undo"
		}
	case "r", "ctrl+y":
		if s.editor.Redo() {
			s.flash = ""
		} else {
			s.flash = "Nothing to redo"
		}
	case "c":
		s.editor.Clear()
		s.flash = "Canvas cleared"
	case "1":
		s.pressure = lightPressure
		s.flash = "Light brush"
	case "2":
		s.pressure = canvas.DefaultPressure
		s.flash = "Medium brush"
	case "3":
		s.pressure = heavyPressure
		s.flash = "Heavy brush"
	case "right", "l", "tab":
		return s, s.next()
	case "left", "h", "shift+tab":
		if s.tracker.Retreat() {
			s.itemChanged()
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleNoteKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		note := s.note.Value()
		s.note.Reset()
		return s, s.mark(s.noteStatus, note)
	case "esc":
		s.note.Reset()
		s.flash = ""
		return s, nil
	}
	var cmd tea.Cmd
	s.note, cmd = s.note.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) openNote(status session.Status) tea.Cmd {
	s.noteStatus = status
	s.flash = ""
	return s.note.Focus()
}

// mark records status for the current item. With auto-advance the tracker
// may move on or complete the session as a result.
func (s *PracticeScreen) mark(status session.Status, note string) tea.Cmd {
	before, _ := s.tracker.Current()
	if !s.tracker.SetCurrentStatus(status, note) {
		return nil
	}
	s.flash = "Marked " + status.Label()
	s.save()

	if s.tracker.State() == session.StateCompleted {
		return s.showSummary(results.Aggregate(s.tracker.Snapshot(), s.catalog))
	}
	if after, _ := s.tracker.Current(); after != before {
		s.itemChanged()
	}
	return nil
}

func (s *PracticeScreen) next() tea.Cmd {
	switch s.tracker.Advance() {
	case session.StepMoved:
		s.itemChanged()
	case session.StepCompleted:
		s.save()
		return s.showSummary(results.Aggregate(s.tracker.Snapshot(), s.catalog))
	}
	return nil
}

func (s *PracticeScreen) finish() tea.Cmd {
	s.grid.Flush()
	return s.showSummary(results.Complete(s.tracker, s.catalog))
}

func (s *PracticeScreen) showSummary(r results.Report) tea.Cmd {
	s.elapsed = time.Duration(r.DurationMs) * time.Millisecond
	next := summary.New(r, s.summary)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// togglePause pauses or resumes the session. The display tick stops with
// the pause and a fresh one starts on resume.
func (s *PracticeScreen) togglePause() tea.Cmd {
	switch s.tracker.State() {
	case session.StateActive:
		s.grid.Flush()
		if s.tracker.Pause() {
			s.tickGen++
			s.flash = "Paused"
			s.elapsed = s.tracker.Duration()
			s.save()
		}
	case session.StatePaused:
		if s.tracker.Resume() {
			s.tickGen++
			s.flash = ""
			return s.tick()
		}
	}
	return nil
}

// itemChanged gives the new current item a blank canvas.
func (s *PracticeScreen) itemChanged() {
	s.editor.Reset()
	s.flash = ""
	s.save()
}

func (s *PracticeScreen) strokeCommitted(st canvas.Stroke) {
	s.tracker.RecordStroke(session.Stroke{
		At:         st.At,
		Pressure:   st.Pressure,
		DurationMs: st.DurationMs,
	})
	s.save()
}

func (s *PracticeScreen) save() {
	if s.saver == nil {
		return
	}
	rec, err := autosave.FromReport(results.Aggregate(s.tracker.Snapshot(), s.catalog), s.now())
	if err != nil {
		s.logger.Error("build session record", "error", err)
		return
	}
	s.saver.Submit(rec)
}

func (s *PracticeScreen) cell(m tea.Mouse) (int, int) {
	return m.X - s.originX, m.Y - s.originY
}

func (s *PracticeScreen) canDraw() bool {
	return !s.note.Focused() && s.tracker.State() == session.StateActive
}

func (s *PracticeScreen) handleMouseDown(m tea.Mouse) {
	if m.Button != tea.MouseLeft || !s.canDraw() {
		return
	}
	x, y := s.cell(m)
	if x < 0 || y < 0 || x >= s.grid.Width() || y >= s.grid.Height() {
		return
	}
	s.grid.Press(x, y, s.pressureFor(m))
}

func (s *PracticeScreen) handleMouseDrag(m tea.Mouse) {
	if !s.grid.Drawing() {
		return
	}
	x, y := s.cell(m)
	s.grid.Drag(x, y, s.pressureFor(m))
}

func (s *PracticeScreen) handleMouseUp(m tea.Mouse) {
	if !s.grid.Drawing() {
		return
	}
	x, y := s.cell(m)
	s.grid.Release(x, y)
}

// pressureFor lets shift press harder and alt lighter than the brush preset.
func (s *PracticeScreen) pressureFor(m tea.Mouse) float64 {
	switch {
	case m.Mod.Contains(tea.ModShift):
		return heavyPressure
	case m.Mod.Contains(tea.ModAlt):
		return lightPressure
	default:
		return s.pressure
	}
}
