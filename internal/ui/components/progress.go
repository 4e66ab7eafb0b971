package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/inkdrill/internal/ui/theme"
)

// ProgressBar displays a horizontal bar split into mastered, needs-work and
// untouched segments.
type ProgressBar struct {
	Label     string
	Mastered  int
	NeedsWork int
	Total     int
	Width     int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, mastered, needsWork, total, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Mastered:  mastered,
		NeedsWork: needsWork,
		Total:     total,
		Width:     width,
	}
}

// segments splits barWidth cells proportionally. Rounding never pushes the
// practiced cells past barWidth.
func (p ProgressBar) segments(barWidth int) (mastered, needsWork, empty int) {
	if p.Total <= 0 || barWidth <= 0 {
		return 0, 0, max(barWidth, 0)
	}
	mastered = barWidth * clamp(p.Mastered, 0, p.Total) / p.Total
	practiced := barWidth * clamp(p.Mastered+p.NeedsWork, 0, p.Total) / p.Total
	needsWork = max(practiced-mastered, 0)
	empty = barWidth - mastered - needsWork
	return mastered, needsWork, empty
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Ink).Render(p.Label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Mastered+p.NeedsWork, p.Total)
	barWidth := max(p.Width-lipgloss.Width(result)-len(counter), 4)

	m, n, e := p.segments(barWidth)
	result += theme.ProgressFilled.Render(strings.Repeat(" ", m)) +
		lipgloss.NewStyle().Background(theme.Ochre).Render(strings.Repeat(" ", n)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", e))

	result += lipgloss.NewStyle().Foreground(theme.InkDim).Render(counter)
	return result
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
