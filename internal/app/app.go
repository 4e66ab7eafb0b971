package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/config"
	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screen"
	"github.com/abhisek/inkdrill/internal/screens/history"
	"github.com/abhisek/inkdrill/internal/screens/home"
	"github.com/abhisek/inkdrill/internal/screens/practice"
	"github.com/abhisek/inkdrill/internal/screens/summary"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/layout"
)

// Repo is the persistence the TUI reads from. *store.Store satisfies it.
type Repo interface {
	history.Loader
	store.StatisticsRepo
}

// Deps carries everything the TUI needs. Repo, Saver and Advisor may be nil.
type Deps struct {
	Config  config.Config
	Catalog *glyph.Catalog
	Repo    Repo
	Saver   practice.Saver
	Advisor summary.Advisor

	// Items is the raw item list from the command line. Empty means the
	// catalog's list for the configured level.
	Items string

	// Date labels the session (YYYY-MM-DD). Empty means the start date.
	Date string

	ExportDir string
	Logger    *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   Deps
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps Deps) AppModel {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Catalog == nil {
		deps.Catalog = glyph.Default()
	}
	m := AppModel{deps: deps}

	homeDeps := home.Deps{
		Practice: m.newPractice,
		Items:    describeItems(m.items(), deps.Config.Session.DefaultLevel),
	}
	if deps.Repo != nil {
		homeDeps.Stats = deps.Repo
		homeDeps.History = func() screen.Screen { return history.New(deps.Repo) }
	}
	m.router = router.New(home.New(homeDeps))
	return m
}

// items resolves the practice list: explicit items, then the catalog tier
// named by the level, then the catalog defaults.
func (m AppModel) items() []string {
	fallback := m.deps.Catalog.ByTier(glyph.Tier(m.deps.Config.Session.DefaultLevel))
	if len(fallback) == 0 {
		fallback = m.deps.Catalog.DefaultItems()
	}
	items, usedFallback := session.ParseItems(m.deps.Items, fallback)
	if usedFallback && strings.TrimSpace(m.deps.Items) != "" {
		m.deps.Logger.Warn("no usable items given, using defaults", "items", m.deps.Items)
	}
	return items
}

func (m AppModel) newTracker() (*session.Tracker, error) {
	cfg := m.deps.Config
	tr, err := session.NewTracker(m.items(), session.Descriptor{
		Date:  m.deps.Date,
		Type:  cfg.Session.DefaultType,
		Level: cfg.Session.DefaultLevel,
	}, cfg.Tracker(), session.Options{Logger: m.deps.Logger})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return tr, nil
}

func (m AppModel) newPractice() (screen.Screen, error) {
	cfg := m.deps.Config
	tr, err := m.newTracker()
	if err != nil {
		return nil, err
	}

	return practice.New(practice.Deps{
		Tracker: tr,
		Catalog: m.deps.Catalog,
		Saver:   m.deps.Saver,
		Summary: summary.Deps{
			ExportDir: m.deps.ExportDir,
			Advisor:   m.deps.Advisor,
			Logger:    m.deps.Logger,
		},
		CanvasWidth:  cfg.Canvas.Width,
		CanvasHeight: cfg.Canvas.Height,
		HistoryLimit: cfg.Canvas.HistoryLimit,
		Logger:       m.deps.Logger,
	}), nil
}

func describeItems(items []string, level string) string {
	return fmt.Sprintf("%d items · %s", len(items), level)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.KeyCapturer); ok && c.CapturesKeys() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case tea.MouseMsg:
		r, ok := m.router.Active().(screen.MouseReceiver)
		if !ok || !r.WantsMouse() {
			return m, nil
		}
		return m, m.router.Update(toContent(msg, layout.HeaderHeight))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// toContent shifts mouse coordinates from the terminal into the content
// area below the header.
func toContent(msg tea.MouseMsg, top int) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		msg.Y -= top
		return msg
	case tea.MouseMotionMsg:
		msg.Y -= top
		return msg
	case tea.MouseReleaseMsg:
		msg.Y -= top
		return msg
	case tea.MouseWheelMsg:
		msg.Y -= top
		return msg
	}
	return msg
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	if mr, ok := m.router.Active().(screen.MouseReceiver); ok && mr.WantsMouse() {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

// render draws the full frame: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(layout.StatusProvider); ok {
			status = sp.HeaderStatus()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Every open
// screen is closed on the way out so an active session gets its final save.
func Run(ctx context.Context, deps Deps) error {
	m := newAppModel(deps)
	defer m.router.CloseAll()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
