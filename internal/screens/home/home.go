package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screen"
	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/components"
	"github.com/abhisek/inkdrill/internal/ui/layout"
	"github.com/abhisek/inkdrill/internal/ui/theme"
)

const banner = `
 ┳┳┓┓┏┓┳┓┳┓┳┓┓ ┓
 ┃┃┃┃┫ ┃┃┣┫┃┃ ┃
 ┻┛┗┛┗┛┻┛┛┗┻┗┛┗┛`

// Deps wires the home menu to the rest of the app. Nil factories disable
// their menu entry.
type Deps struct {
	// Practice starts a new session and returns its screen.
	Practice func() (screen.Screen, error)
	// History returns the session history screen.
	History func() screen.Screen
	// Stats reads the cumulative counters shown under the banner.
	Stats store.StatisticsRepo
	// Items describes the practice list, e.g. "12 items · mixed".
	Items string
}

type statsLoadedMsg struct {
	Stats store.Statistics
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	stats  *store.Statistics
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ router.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Practice", Key: "p", Hint: deps.Items, Disabled: deps.Practice == nil, Action: h.startPractice},
		{Label: "History", Key: "h", Hint: "recent sessions", Disabled: deps.History == nil, Action: h.openHistory},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume refreshes the counters after a session or the history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err != nil {
			h.errMsg = "Could not load statistics: " + msg.Err.Error()
			return h, nil
		}
		h.stats = &msg.Stats
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Seal).Bold(true).Render(strings.TrimPrefix(banner, "\n")),
		theme.Hint.Render("brush practice in the terminal"),
	)

	if line := h.statsLine(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, theme.Card.Render(strings.TrimRight(h.menu.View(), "\n")))

	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Seal).Render(h.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) statsLine() string {
	if h.stats == nil || h.stats.Sessions == 0 {
		return ""
	}
	s := h.stats
	minutes := (s.PracticeMs + 30_000) / 60_000
	return lipgloss.NewStyle().Foreground(theme.InkDim).Render(fmt.Sprintf(
		"%d sessions   %d mastered   %d need work   %d min practiced",
		s.Sessions, s.Mastered, s.NeedsWork, minutes))
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.deps.Stats == nil {
		return nil
	}
	repo := h.deps.Stats
	return func() tea.Msg {
		st, err := repo.Statistics(context.Background())
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) startPractice() tea.Cmd {
	s, err := h.deps.Practice()
	if err != nil {
		h.errMsg = "Could not start a session: " + err.Error()
		return nil
	}
	h.errMsg = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	s := h.deps.History()
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}
