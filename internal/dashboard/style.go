package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Padding(0, 1)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	agentStatusColors = map[string]lipgloss.Color{
		"idle":    lipgloss.Color("8"),
		"working": lipgloss.Color("10"),
		"blocked": lipgloss.Color("9"),
		"offline": lipgloss.Color("8"),
	}

	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func agentStatusStyle(status string) lipgloss.Style {
	color, ok := agentStatusColors[status]
	if !ok {
		color = lipgloss.Color("7")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// progressBar renders a fixed-width block-character bar for percent in
// [0,100], matching spec §4.5's "terminal-safe: box-drawing and block
// characters only" rule reused here for the live agent view.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := width * percent / 100
	return barFilledStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}
