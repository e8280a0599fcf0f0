// Package components holds small render helpers for the dashboard.
package components

import (
	"fmt"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/model"
	"github.com/theirongolddev/spent/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// BudgetPanel renders the budget summary with a usage bar.
// An unset budget renders a hint instead of a bar.
func BudgetPanel(s model.BudgetStatus, width int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if s.Unset {
		return labelStyle.Render("Spent ") +
			valueStyle.Render(cli.FormatMoney(s.Spent)) +
			hintStyle.Render("   no monthly budget set, press b to set one")
	}

	pct := s.UsedFraction()
	color := t.ForUsage(pct)
	accentStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	line := labelStyle.Render("Spent ") + valueStyle.Render(cli.FormatMoney(s.Spent)) +
		labelStyle.Render(" of ") + valueStyle.Render(cli.FormatMoney(s.Budget)) + "   "
	if s.OverBudget {
		line += accentStyle.Render("Over budget by " + cli.FormatMoney(s.OverBy()))
	} else {
		line += accentStyle.Render(cli.FormatMoney(s.Remaining) + " remaining")
	}

	return line + "\n" + BudgetBar(pct, width)
}

// BudgetBar renders a budget usage bar followed by its percentage.
// The bar itself is clamped to full; the percentage is not.
func BudgetBar(pct float64, width int) string {
	t := theme.Active
	color := t.ForUsage(pct)

	pctStr := fmt.Sprintf(" %3.0f%%", pct*100)
	barW := width - lipgloss.Width(pctStr)
	if barW < 4 {
		barW = 4
	}

	fill := pct
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return bar.ViewAs(fill) + pctStyle.Render(pctStr)
}
