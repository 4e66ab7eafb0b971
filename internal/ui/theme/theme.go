package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: sumi ink on warm paper, with a vermilion seal accent.
var (
	Ink       = lipgloss.Color("#E7E1D3") // Paper white, used for text
	InkDim    = lipgloss.Color("#8C8778") // Faded ink
	Seal      = lipgloss.Color("#D9412B") // Vermilion
	Jade      = lipgloss.Color("#3FA37C")
	Ochre     = lipgloss.Color("#D6A23A")
	Indigo    = lipgloss.Color("#6D7FCC")
	BgDark    = lipgloss.Color("#17150F")
	BgCard    = lipgloss.Color("#24211A")
	BgCanvas  = lipgloss.Color("#F4EEDC")
	CanvasInk = lipgloss.Color("#1B1A17")
	Border    = lipgloss.Color("#3B372D")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Seal).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(InkDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Ink)

	Hint = lipgloss.NewStyle().
		Foreground(InkDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(InkDim).
		Width(14)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Paper = lipgloss.NewStyle().
		Background(BgCanvas).
		Foreground(CanvasInk).
		Border(lipgloss.NormalBorder()).
		BorderForeground(InkDim)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Seal).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Ink)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Jade)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// StatusColor returns the color used for a practice status label.
func StatusColor(status string) color.Color {
	switch status {
	case "mastered":
		return Jade
	case "needs-work":
		return Ochre
	default:
		return InkDim
	}
}

// PriorityColor returns the color used for a recommendation priority.
func PriorityColor(priority string) color.Color {
	switch priority {
	case "high":
		return Seal
	case "medium":
		return Ochre
	case "positive":
		return Jade
	default:
		return Indigo
	}
}
