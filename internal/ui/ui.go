package ui

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/getlrc/internal/models"
	"github.com/desertthunder/getlrc/internal/tasks"
)

const (
	maxBarWidth = 80
	chromeLines = 10 // header, bar, legend, status and help around the log
)

// Model represents the TUI application state.
type Model struct {
	bus      *tasks.EventBus
	root     string
	width    int
	height   int
	state    tasks.State
	progress tasks.ProgressUpdate
	status   string // last phase message
	hint     string // feedback for a key press until the orchestrator acts on it
	log      *activityLog
	bar      progress.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	started  bool // at least one update received
	quitting bool
	closed   bool
}

// NewModel creates a display for the run on root that reads from and sends intents to bus.
func NewModel(bus *tasks.EventBus, root string) *Model {
	return &Model{
		bus:     bus,
		root:    root,
		state:   tasks.StateRunning,
		status:  "Scanning…",
		log:     newActivityLog(MaxLogLines),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the spinner and waits for the first progress update.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.apply(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgBusClosed:
			m.closed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the progress screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("getlrc  " + m.root))
	b.WriteString("\n")
	b.WriteString(m.renderState())
	b.WriteString("\n\n")
	percent := 0.0
	if m.started {
		percent = m.progress.Percent()
	}
	b.WriteString(m.bar.ViewAs(percent))
	fmt.Fprintf(&b, "  %d/%d\n", m.progress.Step, m.progress.Total)
	b.WriteString(m.renderLegend())
	b.WriteString("\n")
	if line := cmp.Or(m.hint, m.status); line != "" {
		b.WriteString(styles.help.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range m.log.tail(m.logHeight()) {
		b.WriteString(styles.Outcome(line.status).Render(line.text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forState(m.state == tasks.StateRunning, m.state == tasks.StatePaused)))
	return b.String()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.quitting || m.closed || m.state.Terminal() {
			return m, tea.Quit
		}
		m.quitting = true
		m.bus.Send(tasks.IntentQuit)
		m.hint = "Stopping after the current file… (press again to exit now)"
	case key.Matches(msg, m.keys.pause):
		if m.state != tasks.StateRunning || m.quitting {
			return m, nil
		}
		m.bus.Send(tasks.IntentPause)
		m.hint = "Pausing after the current file…"
	case key.Matches(msg, m.keys.resume):
		if m.state != tasks.StatePaused || m.quitting {
			return m, nil
		}
		m.bus.Send(tasks.IntentResume)
		m.hint = "Resuming…"
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// apply folds one update into the view state.
func (m *Model) apply(u tasks.ProgressUpdate) {
	m.progress = u
	m.state = u.State
	m.started = true

	switch u.Phase {
	case tasks.PhaseRestore:
		for _, e := range u.History {
			m.log.addEntry(e)
		}
		m.log.addNotice(u.Message)
		m.status = u.Message
	case tasks.PhaseProcess:
		if u.Entry != nil {
			m.log.addEntry(*u.Entry)
		}
		m.status = ""
	case tasks.PhaseCheckpoint:
		m.status = u.Message
	default:
		m.log.addNotice(u.Message)
		m.status = u.Message
		m.hint = ""
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	updates := m.bus.Updates()
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return busClosedMsg()
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderState() string {
	switch m.state {
	case tasks.StateRunning:
		return m.spinner.View() + " " + styles.ok.Render("Running")
	case tasks.StatePaused:
		return styles.warn.Render("⏸ Paused")
	case tasks.StateCompleted:
		return styles.ok.Render("✓ Completed")
	case tasks.StateCancelled:
		return styles.err.Render("■ Stopped")
	default:
		return m.state.String()
	}
}

func (m *Model) renderLegend() string {
	c := m.progress.Counts
	parts := []string{
		legendItem(models.OutcomeDownloaded, c.Downloaded, "downloaded"),
		legendItem(models.OutcomeCachedMiss, c.Cached, "cached"),
		legendItem(models.OutcomeAlreadyExists, c.Existing, "existing"),
		legendItem(models.OutcomeError, c.Failed, "failed"),
	}
	return strings.Join(parts, "  ")
}

func legendItem(o models.Outcome, n int, label string) string {
	return styles.Outcome(o).Render(fmt.Sprintf("%s %d %s", o.Symbol(), n, label))
}

// logHeight returns how many log lines fit; zero (unknown height) shows everything.
func (m *Model) logHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}
