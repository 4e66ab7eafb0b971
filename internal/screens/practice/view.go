package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/glyph"
	"github.com/abhisek/inkdrill/internal/session"
	"github.com/abhisek/inkdrill/internal/ui/components"
	"github.com/abhisek/inkdrill/internal/ui/theme"
)

const (
	marginLeft = 2
	// infoLines is the number of rows above the canvas box.
	infoLines = 2
)

func (s *PracticeScreen) View(width, height int) string {
	index, item := s.tracker.Current()
	meta := s.catalog.Lookup(item)
	rec, _ := s.tracker.Record(item)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(index, item, width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	paper := theme.Paper
	if s.tracker.State() != session.StateActive {
		paper = paper.Foreground(theme.InkDim)
	}
	canvasBox := paper.Render(s.grid.Render())
	panel := s.renderPanel(meta, rec, max(width-lipgloss.Width(canvasBox)-marginLeft*2-2, 20))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Repeat(" ", marginLeft), canvasBox, "  ", panel))
	b.WriteString("\n\n")

	p := s.tracker.Progress()
	bar := components.NewProgressBar("Progress", p.Mastered, p.NeedsWork, p.Total, max(width-marginLeft*2, 20))
	b.WriteString(strings.Repeat(" ", marginLeft) + bar.View())
	b.WriteString("\n\n")

	switch {
	case s.note.Focused():
		b.WriteString(strings.Repeat(" ", marginLeft) + s.note.View())
	case s.tracker.State() == session.StatePaused:
		b.WriteString(strings.Repeat(" ", marginLeft) +
			lipgloss.NewStyle().Foreground(theme.Ochre).Bold(true).Render("Paused. Press p to resume."))
	case s.flash != "":
		b.WriteString(strings.Repeat(" ", marginLeft) + theme.Hint.Render(s.flash))
	}

	if notice := s.saveNotice(); notice != "" {
		b.WriteString("\n" + strings.Repeat(" ", marginLeft) +
			lipgloss.NewStyle().Foreground(theme.Seal).Render(notice))
	}

	// The border adds one cell on each side.
	s.originX = marginLeft + 1
	s.originY = infoLines + 1
	return b.String()
}

func (s *PracticeScreen) renderInfoLine(index int, item string, width int) string {
	total := len(s.tracker.Items())
	left := lipgloss.NewStyle().
		Foreground(theme.Seal).
		Bold(true).
		Render(fmt.Sprintf("  Item %d/%d  %s", index+1, total, item))

	desc := s.tracker.Descriptor()
	right := lipgloss.NewStyle().
		Foreground(theme.InkDim).
		Render(fmt.Sprintf("%s · %s · %s", desc.Type, desc.Level, brushName(s.pressure)))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *PracticeScreen) renderPanel(meta glyph.Metadata, rec session.Record, width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Ink).Bold(true).Render(meta.ID))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(theme.Label.Render(label))
		b.WriteString(theme.Body.Render(value))
		b.WriteString("\n")
	}
	row("Meaning", meta.Meaning)
	row("Reading", meta.Pronunciation)
	if meta.StrokeCount > 0 {
		row("Strokes", fmt.Sprintf("%d", meta.StrokeCount))
	}
	row("Tier", meta.Tier.DisplayName())
	row("Parts", strings.Join(meta.Components, " "))
	row("Examples", strings.Join(meta.Examples, ", "))

	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Status"))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.StatusColor(string(rec.Status))).Bold(true).Render(rec.Status.Label()))
	b.WriteString("\n")
	row("Attempts", fmt.Sprintf("%d", rec.Attempts))
	row("Drawn", fmt.Sprintf("%d strokes", len(rec.Strokes)))
	if n := len(rec.Feedback); n > 0 {
		row("Last note", rec.Feedback[n-1].Note)
	}

	return theme.Card.Width(width).Render(b.String())
}

func brushName(p float64) string {
	switch {
	case p <= lightPressure:
		return "light brush"
	case p >= heavyPressure:
		return "heavy brush"
	default:
		return "medium brush"
	}
}

// saveNotice warns when progress is not reaching storage.
func (s *PracticeScreen) saveNotice() string {
	switch {
	case s.saver == nil:
		return "Storage unavailable: progress will not be saved."
	case s.saveErr != nil:
		return "Autosave failed: " + s.saveErr.Error()
	}
	return ""
}
