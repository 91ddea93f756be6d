package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the bubbletea program and blocks until the user quits or
// an unrecoverable error occurs. tea.Program.Run guarantees terminal
// mode is restored on every exit path, including panics, satisfying
// spec §5's cancellation requirement.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
