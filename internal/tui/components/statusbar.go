package components

import (
	"github.com/theirongolddev/spent/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left and the
// storage location plus save state on the right.
func RenderStatusBar(width int, hints, location string, dirty bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	right := location
	if dirty {
		right = "● unsaved  " + right
	}
	right += " "
	left := " " + hints

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
