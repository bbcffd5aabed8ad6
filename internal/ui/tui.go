// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the clock UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SyncRequestMsg asks the app to re-sync immediately
type SyncRequestMsg struct{}

// QuitMsg signals shutdown
type QuitMsg struct{}

// SyncControl holds channels for TUI-to-app communication
type SyncControl struct {
	Requests chan SyncRequestMsg
	Quit     chan QuitMsg
}

// NewSyncControl creates a new sync control handler
func NewSyncControl() *SyncControl {
	return &SyncControl{
		Requests: make(chan SyncRequestMsg, 10),
		Quit:     make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(syncCtrl *SyncControl) Model {
	return Model{
		server:   "(none)",
		syncCtrl: syncCtrl,
	}
}

// Run starts the TUI
func Run(syncCtrl *SyncControl) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(syncCtrl), tea.WithAltScreen())
	return p, nil
}
