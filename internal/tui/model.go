// Package tui is a terminal front end for headtype. It shows the keypad,
// the spelling, the candidates and the committed text, and forwards key
// presses to the running app.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ui"
)

// statusInterval is how often the pipeline status is refreshed.
const statusInterval = time.Second

// Controller is the part of app.App the terminal UI drives.
type Controller interface {
	Snapshot() app.Snapshot
	Status() app.Status
	Reset() app.RenderCommands
	NextCandidate() app.RenderCommands
	SelectCandidate(i int) app.RenderCommands
	SetEnabled(enabled bool)
	IsEnabled() bool
	Pause()
	Resume() error
	Restart() error
}

// Model is the root bubbletea model.
type Model struct {
	ctrl   Controller
	events <-chan tea.Msg

	active    gesture.Cell
	spelling  string
	items     []string
	selected  int
	committed string
	openness  float64
	mouthOpen bool
	status    app.Status

	errorMessage string
	width        int
	height       int
}

// New creates a Model that starts from the controller's current state and
// follows the events of a Bridge.
func New(ctrl Controller, events <-chan tea.Msg) Model {
	snap := ctrl.Snapshot()
	return Model{
		ctrl:      ctrl,
		events:    events,
		active:    snap.ActiveCell,
		spelling:  snap.Spelling,
		items:     snap.Candidates.Items,
		selected:  snap.Candidates.Selected,
		committed: snap.Committed,
		mouthOpen: snap.MouthOpen,
		status:    ctrl.Status(),
	}
}

// Init starts reading bridge events and polling the status.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), statusTickCmd())
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// refreshStatusCmd reads the pipeline status.
func refreshStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Status: ctrl.Status()}
	}
}

// sessionCmd runs a session command. Its output arrives through the bridge.
func sessionCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// lifecycleCmd runs a pipeline command and reports the resulting status.
func lifecycleCmd(ctrl Controller, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return CommandErrorMsg{Err: err}
		}
		return StatusMsg{Status: ctrl.Status()}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ActiveCellMsg:
		m.active = msg.Cell
		return m, waitForEvent(m.events)

	case CandidatesMsg:
		m.items = msg.Items
		m.selected = msg.Selected
		return m, waitForEvent(m.events)

	case SpellingMsg:
		m.spelling = msg.Spelling
		return m, waitForEvent(m.events)

	case TextMsg:
		m.committed = msg.Text
		return m, waitForEvent(m.events)

	case MouthMsg:
		m.openness = msg.Openness
		m.mouthOpen = msg.IsOpen
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, nil

	case StatusMsg:
		m.status = msg.Status
		if m.status.State != app.StateFailed {
			m.errorMessage = ""
		}
		return m, nil

	case statusTickMsg:
		return m, tea.Batch(refreshStatusCmd(m.ctrl), statusTickCmd())

	case CommandErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, refreshStatusCmd(m.ctrl)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case KeyQuit, KeyCtrlC:
		return m, tea.Quit

	case KeyReset:
		return m, sessionCmd(func() { m.ctrl.Reset() })

	case KeyNext, KeyNextAlt:
		return m, sessionCmd(func() { m.ctrl.NextCandidate() })

	case KeyToggle:
		ctrl := m.ctrl
		return m, lifecycleCmd(ctrl, func() error {
			ctrl.SetEnabled(!ctrl.IsEnabled())
			return nil
		})

	case KeyPause:
		ctrl := m.ctrl
		if m.status.State == app.StatePaused {
			return m, lifecycleCmd(ctrl, ctrl.Resume)
		}
		return m, lifecycleCmd(ctrl, func() error {
			ctrl.Pause()
			return nil
		})

	case KeyRestart:
		return m, lifecycleCmd(m.ctrl, m.ctrl.Restart)
	}

	// 1-9 select a candidate.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(m.items) {
			return m, sessionCmd(func() { m.ctrl.SelectCandidate(i) })
		}
	}

	return m, nil
}

// View renders the full screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("headtype"))
	b.WriteString("  ")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	b.WriteString(ui.RenderKeypad(m.active))
	b.WriteString("\n\n")

	b.WriteString(row("Spelling", ui.RenderSpelling(m.spelling)))
	b.WriteString(row("Candidates", ui.RenderCandidates(m.items, m.selected)))
	b.WriteString(row("Text", ui.CommittedStyle.Render(m.committed)))
	b.WriteString(row("Mouth", ui.RenderMouth(m.openness, m.mouthOpen)))

	if m.errorMessage != "" {
		b.WriteString("\n")
		b.WriteString(ui.ErrorStyle.Render("Error: " + m.errorMessage))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.RenderFooter([][2]string{
		{"tab", "next"},
		{"1-9", "select"},
		{"r", "reset"},
		{"space", "enable"},
		{"p", "pause"},
		{"R", "restart"},
		{"q", "quit"},
	}))

	return b.String()
}

func (m Model) renderStatus() string {
	s := m.status
	text := string(s.State)
	if !s.Enabled {
		text += ", disabled"
	}
	if s.State == app.StateRunning {
		text += fmt.Sprintf(", %d fps", s.FPS)
	}
	if s.State == app.StateFailed {
		return ui.ErrorStyle.Render(text + ": " + s.Reason)
	}
	return ui.StatusStyle.Render(text)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, ui.DimStyle.Width(12).Render(label), value) + "\n"
}
