package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/export"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screen"
	"github.com/abhisek/inkdrill/internal/store"
	"github.com/abhisek/inkdrill/internal/ui/layout"
	"github.com/abhisek/inkdrill/internal/ui/theme"
)

// Loader reads recent sessions, newest first.
type Loader interface {
	LoadRecent(ctx context.Context, limit int) ([]store.SessionRecord, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

// HistoryScreen lists past sessions.
type HistoryScreen struct {
	loader   Loader
	sessions []store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(loader Loader) *HistoryScreen {
	return &HistoryScreen{
		loader:   loader,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	loader := s.loader
	return func() tea.Msg {
		sessions, err := loader.LoadRecent(context.Background(), store.MaxSessions)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Seal).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.InkDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.InkDim).Italic(true).
			Render("\n\n  No sessions yet. Pick up the brush!")
	}

	var lines []string
	selectedLine := 0
	for i, rec := range s.sessions {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
			selectedLine = len(lines)
		}

		state := ""
		if !rec.Completed() {
			state = "  (" + rec.State + ")"
		}
		line := fmt.Sprintf("%s%s  %-8s %6s  %2d/%-2d mastered  %3d%% success%s",
			prefix, rec.SavedAt.Local().Format("Jan 02 15:04"), rec.Type,
			layout.FormatElapsed(rec.DurationMs/1000), rec.Mastered, rec.TotalItems, rec.SuccessRate, state)
		lines = append(lines, style.Render(line))

		if s.expanded[i] {
			lines = append(lines, details(rec)...)
		}
	}

	// Keep the selection visible.
	start := 0
	if height > 0 && selectedLine >= height {
		start = selectedLine - height + 1
	}
	end := len(lines)
	if height > 0 {
		end = min(start+height, len(lines))
	}
	return "\n" + strings.Join(lines[start:end], "\n")
}

func details(rec store.SessionRecord) []string {
	dim := lipgloss.NewStyle().Foreground(theme.InkDim)
	r, _, err := export.ParseJSON(rec.Data)
	if err != nil {
		return []string{dim.Italic(true).Render("      Details unavailable")}
	}

	var out []string
	bucket := func(label string, items []string, status string) {
		if len(items) == 0 {
			return
		}
		out = append(out, "      "+
			lipgloss.NewStyle().Foreground(theme.StatusColor(status)).Render(label+": ")+
			theme.Body.Render(strings.Join(items, " ")))
	}
	bucket("Mastered", r.Mastered, "mastered")
	bucket("Needs work", r.NeedsWork, "needs-work")
	bucket("Not practiced", r.NotPracticed, "not-practiced")
	for _, rec := range r.Recommendations {
		out = append(out, dim.Render("      · "+rec.Message))
	}
	return out
}
