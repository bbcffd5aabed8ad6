// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, message handling, and state transitions
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinysync/tinysync-go/pkg/ntp"
)

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // SyncControl is optional for testing

	if model.synced {
		t.Error("expected synced to be false initially")
	}

	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}

	if model.server != "(none)" {
		t.Errorf("expected placeholder server, got %q", model.server)
	}
}

func TestStatusMsgSynced(t *testing.T) {
	model := NewModel(nil)

	synced := true
	model.applyStatus(StatusMsg{
		Synced:    &synced,
		Server:    "pool.ntp.org",
		SyncCount: 1,
	})

	if !model.synced {
		t.Error("expected synced after status update")
	}
	if model.server != "pool.ntp.org" {
		t.Errorf("expected server 'pool.ntp.org', got %q", model.server)
	}
	if model.syncCount != 1 {
		t.Errorf("expected syncCount 1, got %d", model.syncCount)
	}
}

func TestStatusMsgTime(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Millis: 1704164645000,
		Calendar: ntp.CivilTime{
			Year: 2024, Month: 1, Day: 2,
			Hour: 3, Minute: 4, Second: 5,
		},
	})

	if model.millis != 1704164645000 {
		t.Errorf("expected millis applied, got %d", model.millis)
	}
	if model.calendar.Year != 2024 {
		t.Errorf("expected calendar applied, got %+v", model.calendar)
	}
}

func TestPartialUpdatesRetainState(t *testing.T) {
	model := NewModel(nil)

	synced := true
	model.applyStatus(StatusMsg{Synced: &synced, Server: "a.ntp.test"})
	model.applyStatus(StatusMsg{Millis: 1000})

	// Previous values should be retained
	if !model.synced || model.server != "a.ntp.test" {
		t.Error("partial update lost previous state")
	}
}

func TestViewBeforeFirstSync(t *testing.T) {
	model := NewModel(nil)
	model.width = 80
	model.height = 24

	view := model.View()
	if !strings.Contains(view, "--:--:--") {
		t.Error("expected placeholder clock before first sync")
	}
	if !strings.Contains(view, "never synchronized") {
		t.Error("expected never-synchronized status line")
	}
}

func TestViewAfterSync(t *testing.T) {
	model := NewModel(nil)
	model.width = 80
	model.height = 24

	synced := true
	model.applyStatus(StatusMsg{
		Synced: &synced,
		Millis: 1704164645000,
		Calendar: ntp.CivilTime{
			Year: 2024, Month: 1, Day: 2,
			Hour: 3, Minute: 4, Second: 5,
		},
	})

	view := model.View()
	if !strings.Contains(view, "03:04:05") {
		t.Errorf("expected clock in view, got:\n%s", view)
	}
	if !strings.Contains(view, "2024-01-02") {
		t.Errorf("expected date in view, got:\n%s", view)
	}
}

func TestDebugToggle(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m := updated.(Model)
	if !m.showDebug {
		t.Error("expected debug enabled after 'd'")
	}
}

func TestSyncKeySignalsControl(t *testing.T) {
	ctrl := NewSyncControl()
	model := NewModel(ctrl)

	model.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	select {
	case <-ctrl.Requests:
	default:
		t.Error("expected a sync request on the control channel")
	}
}
