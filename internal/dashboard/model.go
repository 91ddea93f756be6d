// Package dashboard implements the single-threaded cooperative render
// loop of spec §4.3.4: a bubbletea Model-Update-View loop that reads a
// store snapshot on each tick, renders it, diffs it through the
// notifier, and reacts to the q/r/s/h keystrokes plus `/` to filter
// the agent table. Grounded on the
// Model/Update/View shape used throughout the retrieval pack's
// bubbletea programs (cklxx-elephant.ai's tui_chat.Model in
// particular), adapted from a chat UI to a read-mostly status board.
package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/notify"
	"github.com/taskweave/orchestrator/internal/reconcile"
	"github.com/taskweave/orchestrator/internal/store"
)

// AgentDisplay is the per-agent row the view renders: current status,
// assigned task, latest progress percent, and Elapsed, computed fresh
// each tick per spec §4.3.4 step 2. Elapsed is the time since the
// agent's latest progress report (zero if it has never reported); it
// is not measured from when the agent started the task.
type AgentDisplay struct {
	ID          string
	Name        string
	Status      store.AgentStatus
	CurrentTask *int64
	Percent     int
	Message     string
	Elapsed     time.Duration
}

type tickMsg time.Time

type snapshotMsg struct {
	snap store.Snapshot
	err  error
}

type syncMsg struct {
	result reconcile.Result
	err    error
}

// Model is the dashboard's bubbletea model. It holds no writable
// handle beyond the ones it was constructed with; all mutation goes
// through the store or reconciler.
type Model struct {
	db          *store.DB
	reconciler  *reconcile.Reconciler
	notifier    *notify.Manager
	interval    time.Duration
	recentLimit int
	log         zerolog.Logger

	width, height int
	snapshot      store.Snapshot
	agents        []AgentDisplay
	showHelp      bool
	quitting      bool
	lastErr       error
	lastSync      *reconcile.Result

	filtering   bool
	filterInput textinput.Model
	filter      string
}

// New builds a dashboard Model. interval is the refresh tick period
// (config.RefreshInterval's clamped value); recentLimit bounds how
// many activity events a read pulls per tick.
func New(db *store.DB, reconciler *reconcile.Reconciler, notifier *notify.Manager, interval time.Duration, recentLimit int, log zerolog.Logger) Model {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	fi := textinput.New()
	fi.Placeholder = "filter agents by name or ID"
	fi.CharLimit = 64
	return Model{
		db:          db,
		reconciler:  reconciler,
		notifier:    notifier,
		interval:    interval,
		recentLimit: recentLimit,
		log:         log,
		filterInput: fi,
	}
}

// Init starts the tick loop and performs the first read immediately
// so the screen is not blank for a full interval.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.readCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) readCmd() tea.Cmd {
	db := m.db
	limit := m.recentLimit
	return func() tea.Msg {
		snap, err := db.TakeSnapshot(limit)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) syncCmd() tea.Cmd {
	r := m.reconciler
	return func() tea.Msg {
		result, err := r.Sync(reconcile.Apply)
		return syncMsg{result: result, err: err}
	}
}

// Update handles bubbletea messages: keystrokes, window resizes,
// ticks, and the async results of reads/syncs.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.readCmd())

	case snapshotMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.log.Warn().Err(msg.err).Msg("dashboard snapshot read failed")
			return m, nil
		}
		m.lastErr = nil
		m.snapshot = msg.snap
		m.agents = buildAgentDisplay(msg.snap)
		if m.notifier != nil {
			m.notifier.Notify(msg.snap)
		}
		return m, nil

	case syncMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.log.Warn().Err(msg.err).Msg("dashboard-triggered sync failed")
			return m, nil
		}
		m.lastSync = &msg.result
		return m, m.readCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m, m.readCmd()
	case "s":
		return m, m.syncCmd()
	case "h":
		m.showHelp = !m.showHelp
		return m, nil
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filter)
		m.filterInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// handleFilterKey routes keystrokes to the filter textinput while
// filtering is active, confirming on Enter and discarding on Esc.
// Grounded on cklxx-elephant.ai's tui_chat.Model.handleKeyPress, which
// hands unmatched keys to its textarea the same way.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filter = ""
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func buildAgentDisplay(snap store.Snapshot) []AgentDisplay {
	out := make([]AgentDisplay, 0, len(snap.Agents))
	for _, a := range snap.Agents {
		d := AgentDisplay{
			ID:          a.ID,
			Name:        a.Name,
			Status:      a.Status,
			CurrentTask: a.CurrentTask,
		}
		if p, ok := snap.LatestProgress[a.ID]; ok {
			d.Percent = p.Percent
			d.Message = p.Message
			d.Elapsed = snap.TakenAt.Sub(p.Timestamp)
		}
		out = append(out, d)
	}
	return out
}
