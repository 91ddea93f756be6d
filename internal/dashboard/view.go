package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskweave/orchestrator/internal/store"
)

// View renders the dashboard per spec §4.3.4 step 3: a header, the
// agent table, a recent-activity feed, and (when toggled) a help
// overlay, using only box-drawing/block characters beyond the color
// collaborator.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	} else if m.filter != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("filter: %q (esc via / to clear)", m.filter)))
		b.WriteString("\n")
	}
	b.WriteString(m.renderAgents())
	b.WriteString("\n")
	b.WriteString(m.renderActivity())
	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("last read error: %v", m.lastErr)))
	}
	if m.showHelp {
		b.WriteString("\n\n")
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString("\n")
		b.WriteString(helpDescStyle.Render("press h for help"))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	completed, total := countCompleted(m.snapshot.Tasks)
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	return headerStyle.Render(fmt.Sprintf("orchestrator  |  %d/%d tasks complete (%d%%)  |  %s",
		completed, total, pct, m.snapshot.TakenAt.Format(time.Kitchen)))
}

func (m Model) renderAgents() string {
	agents := m.filteredAgents()
	if len(agents) == 0 {
		return dimStyle.Render("no agents registered")
	}

	var b strings.Builder
	for _, a := range agents {
		task := "-"
		if a.CurrentTask != nil {
			task = fmt.Sprintf("TASK-%d", *a.CurrentTask)
		}
		row := fmt.Sprintf("%-12s %-9s %-10s %s %3d%%  %s",
			a.Name,
			agentStatusStyle(string(a.Status)).Render(string(a.Status)),
			task,
			progressBar(a.Percent, 20),
			a.Percent,
			formatElapsed(a.Elapsed),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderActivity() string {
	if len(m.snapshot.RecentEvents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(dimStyle.Render("recent activity"))
	b.WriteString("\n")
	for _, e := range m.snapshot.RecentEvents {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%s] %s: %s", e.CreatedAt.Format("15:04:05"), e.Type, e.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	lines := []struct{ key, desc string }{
		{"q", "quit"},
		{"r", "force an immediate refresh"},
		{"s", "run reconciliation now"},
		{"h", "toggle this help overlay"},
		{"/", "filter the agent table by name or ID"},
	}
	var parts []string
	for _, l := range lines {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Left, helpKeyStyle.Render(l.key), helpDescStyle.Render("  "+l.desc)))
	}
	return strings.Join(parts, "\n")
}

// filteredAgents applies m.filter (set via the "/" keystroke) as a
// case-insensitive substring match against agent name or ID.
func (m Model) filteredAgents() []AgentDisplay {
	if m.filter == "" {
		return m.agents
	}
	needle := strings.ToLower(m.filter)
	out := make([]AgentDisplay, 0, len(m.agents))
	for _, a := range m.agents {
		if strings.Contains(strings.ToLower(a.Name), needle) || strings.Contains(strings.ToLower(a.ID), needle) {
			out = append(out, a)
		}
	}
	return out
}

func countCompleted(tasks []store.Task) (completed, total int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Status == store.TaskCompleted {
			completed++
		}
	}
	return completed, total
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	return d.String()
}
