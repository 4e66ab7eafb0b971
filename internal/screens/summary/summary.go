package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/coach"
	"github.com/abhisek/inkdrill/internal/export"
	"github.com/abhisek/inkdrill/internal/results"
	"github.com/abhisek/inkdrill/internal/router"
	"github.com/abhisek/inkdrill/internal/screen"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/ui/layout"
	"github.com/abhisek/inkdrill/internal/ui/theme"
)

// Advisor produces coaching advice for a finished session.
type Advisor interface {
	Advise(ctx context.Context, r results.Report) (*coach.Advice, error)
}

// Deps carries the summary screen's collaborators. A nil Advisor hides the
// advice action; an empty ExportDir writes to the working directory.
type Deps struct {
	ExportDir string
	Advisor   Advisor
	Now       func() time.Time
	Logger    *slog.Logger
}

type exportDoneMsg struct {
	Paths []string
	Err   error
}

type adviceMsg struct {
	Advice *coach.Advice
	Err    error
}

// SummaryScreen displays the report of a finished session.
type SummaryScreen struct {
	report results.Report
	deps   Deps

	exported  []string
	exporting bool
	advice    *coach.Advice
	advising  bool
	errMsg    string
	offset    int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ layout.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(r results.Report, deps Deps) *SummaryScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &SummaryScreen{report: r, deps: deps}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

// Report returns the report on display.
func (s *SummaryScreen) Report() results.Report {
	return s.report
}

func (s *SummaryScreen) HeaderStatus() layout.Status {
	return layout.Status{
		Practiced: s.report.PracticedCount,
		Total:     s.report.TotalItems,
		Elapsed:   layout.FormatElapsed(s.report.DurationMs / 1000),
	}
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "e", Description: "Export"},
	}
	if s.deps.Advisor != nil {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Coach"})
	}
	return append(hints,
		layout.KeyHint{Key: "↑↓", Description: "Scroll"},
		layout.KeyHint{Key: "Enter", Description: "Home"},
	)
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		s.exporting = false
		if msg.Err != nil {
			s.errMsg = "Export failed: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.exported = msg.Paths
		return s, nil

	case adviceMsg:
		s.advising = false
		if msg.Err != nil {
			s.errMsg = "Coach unavailable: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.advice = msg.Advice
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "e":
			return s, s.export()
		case "a":
			return s, s.advise()
		case "up", "k":
			s.offset = max(s.offset-1, 0)
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) export() tea.Cmd {
	if s.exporting {
		return nil
	}
	s.exporting = true
	r, dir, now := s.report, s.deps.ExportDir, s.deps.Now()
	if dir == "" {
		dir = "."
	}
	logger := s.deps.Logger
	return func() tea.Msg {
		paths, err := export.WriteAll(context.Background(), dir, r, now)
		if err != nil {
			logger.Error("export session", "session", r.SessionID, "error", err)
		}
		return exportDoneMsg{Paths: paths, Err: err}
	}
}

func (s *SummaryScreen) advise() tea.Cmd {
	if s.deps.Advisor == nil || s.advising || s.report.PracticedCount == 0 {
		return nil
	}
	s.advising = true
	advisor, r := s.deps.Advisor, s.report
	return func() tea.Msg {
		advice, err := advisor.Advise(context.Background(), r)
		return adviceMsg{Advice: advice, Err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	lines := strings.Split(s.render(width), "\n")
	s.offset = min(s.offset, max(len(lines)-height, 0))
	end := min(s.offset+height, len(lines))
	return strings.Join(lines[s.offset:end], "\n")
}

func (s *SummaryScreen) render(width int) string {
	r := s.report
	var b strings.Builder

	title := "Session complete"
	if r.State != session.StateCompleted {
		title = "Session saved"
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%s · %s · %s · %d min", r.Date, r.Type, r.Level, r.DurationMinutes())))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Success %d%%     Completion %d%%     Attempts %d (avg %d)     Strokes %d     %ds per item",
		r.SuccessRate, r.CompletionPct, r.TotalAttempts, r.AverageAttempts, r.TotalStrokes, r.AverageTimePerItemSec)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(stats)))
	b.WriteString("\n\n")

	s.section(&b, "Items", width)
	for _, it := range r.Items {
		status := lipgloss.NewStyle().Foreground(theme.StatusColor(string(it.Status))).Render(fmt.Sprintf("%-14s", it.Status.Label()))
		line := fmt.Sprintf("  %s  %s  %-18s %d attempts  %ds",
			it.Item, status, truncate(it.Meta.Meaning, 18), it.Attempts, it.TimeSpentMs/1000)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n")
		s.section(&b, "Recommendations", width)
		for _, rec := range r.Recommendations {
			marker := lipgloss.NewStyle().Foreground(theme.PriorityColor(string(rec.Priority))).Bold(true).Render("●")
			b.WriteString("  " + marker + " " + theme.Body.Render(rec.Message) + "\n")
		}
	}

	if s.advice != nil {
		b.WriteString("\n")
		s.section(&b, "Coach", width)
		b.WriteString(lipgloss.NewStyle().Width(max(width-4, 20)).PaddingLeft(2).Foreground(theme.Ink).Render(s.advice.Summary))
		b.WriteString("\n")
		for _, tip := range s.advice.Tips {
			b.WriteString(fmt.Sprintf("  %s  %s\n", lipgloss.NewStyle().Foreground(theme.Seal).Render(tip.Item), tip.Advice))
		}
		if len(s.advice.NextFocus) > 0 {
			b.WriteString(theme.Hint.Render("  Next time: " + strings.Join(s.advice.NextFocus, " ")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Seal).Render("  " + s.errMsg))
	case s.exporting:
		b.WriteString(theme.Hint.Render("  Exporting..."))
	case s.advising:
		b.WriteString(theme.Hint.Render("  Asking the coach..."))
	case len(s.exported) > 0:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Jade).Render("  Exported:"))
		for _, p := range s.exported {
			b.WriteString("\n    " + p)
		}
	}
	return b.String()
}

func (s *SummaryScreen) section(b *strings.Builder, name string, width int) {
	b.WriteString(lipgloss.NewStyle().Foreground(theme.InkDim).Render("  " + name))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", min(max(width-8, 0), 60))))
	b.WriteString("\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
