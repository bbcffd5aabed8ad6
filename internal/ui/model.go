// ABOUTME: Bubbletea model for the clock TUI
// ABOUTME: Defines display state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinysync/tinysync-go/pkg/ntp"
)

// Model represents the TUI state
type Model struct {
	// Connection
	server string

	// Sync
	synced    bool
	syncCount int
	lastError string

	// Time
	millis   uint64
	calendar ntp.CivilTime

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	syncCtrl *SyncControl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := titleStyle.Render("TinySync Clock") + "\n\n"
	s += m.renderClock()
	s += m.renderStatus()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += "\n" + helpStyle.Render("s:Sync now  d:Debug  q:Quit") + "\n"

	return s
}

// renderClock renders the current time, or a placeholder before first sync
func (m Model) renderClock() string {
	if !m.synced {
		return clockStyle.Render("--:--:--") + "\n" +
			labelStyle.Render("waiting for first sync") + "\n\n"
	}

	cal := m.calendar
	clock := fmt.Sprintf("%02d:%02d:%02d", cal.Hour, cal.Minute, cal.Second)
	date := fmt.Sprintf("%s %04d-%02d-%02d", cal.Weekday, cal.Year, cal.Month, cal.Day)

	return clockStyle.Render(clock) + "\n" + labelStyle.Render(date) + "\n\n"
}

// renderStatus renders server and sync state
func (m Model) renderStatus() string {
	syncIcon := "✗"
	syncText := "never synchronized"
	if m.synced {
		syncIcon = "✓"
		syncText = fmt.Sprintf("synced %d time(s)", m.syncCount)
	}

	s := labelStyle.Render(fmt.Sprintf("Server: %s", m.server)) + "\n"
	s += labelStyle.Render(fmt.Sprintf("Sync:   %s %s", syncIcon, syncText)) + "\n"

	if m.lastError != "" {
		s += errorStyle.Render(fmt.Sprintf("Last error: %s", m.lastError)) + "\n"
	}

	return s
}

// renderDebug renders raw counters
func (m Model) renderDebug() string {
	return labelStyle.Render(fmt.Sprintf("DEBUG: millis=%d", m.millis)) + "\n"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.syncCtrl != nil {
			select {
			case m.syncCtrl.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "s":
		if m.syncCtrl != nil {
			select {
			case m.syncCtrl.Requests <- SyncRequestMsg{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Server != "" {
		m.server = msg.Server
	}
	if msg.Synced != nil {
		m.synced = *msg.Synced
	}
	if msg.SyncCount != 0 {
		m.syncCount = msg.SyncCount
	}
	if msg.Millis != 0 {
		m.millis = msg.Millis
		m.calendar = msg.Calendar
	}
	if msg.LastError != "" {
		m.lastError = msg.LastError
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Server    string
	Synced    *bool
	SyncCount int
	Millis    uint64
	Calendar  ntp.CivilTime
	LastError string
}
