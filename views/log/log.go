package log

import (
	"fmt"

	"vault-wallet-tui/helpers"
	"vault-wallet-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Height returns the log viewport height for a terminal of the given height:
// at most a third of the screen and never more than 15 lines.
func Height(termHeight int) int {
	// header (3 lines), nav (1 line), title + borders (4 lines), margins (2 lines)
	available := helpers.Max(5, termHeight-10)
	return helpers.Min(available, helpers.Min(termHeight/3, 15))
}

// Render renders the log panel around the viewport
func Render(width int, ready bool, spinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(vp.Height + 2) // title and spacing

	if !ready {
		return border.Render(title + "\n\n" + "initializing...\n" + spinnerView)
	}

	info := ""
	if lines := vp.TotalLineCount(); lines > 0 {
		info = fmt.Sprintf(" %d lines", lines)
		if lines > vp.Height {
			info += fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100))
		}
		info = lipgloss.NewStyle().Foreground(styles.CMuted).Render(info)
	}

	return border.Render(title + info + "\n\n" + vp.View())
}
