// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg carries a volume adjustment from the TUI.
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// VolumeControl holds channels for TUI to player communication
type VolumeControl struct {
	Changes chan VolumeChangeMsg
	Quit    chan struct{}
}

// NewVolumeControl creates a new volume control handler
func NewVolumeControl() *VolumeControl {
	return &VolumeControl{
		Changes: make(chan VolumeChangeMsg, 10),
		Quit:    make(chan struct{}, 1),
	}
}

// SetVolume publishes a volume change without blocking the TUI loop.
func (v *VolumeControl) SetVolume(volume int, muted bool) {
	select {
	case v.Changes <- VolumeChangeMsg{Volume: volume, Muted: muted}:
	default:
	}
}

// RequestQuit signals the player to stop.
func (v *VolumeControl) RequestQuit() {
	select {
	case v.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(volCtrl *VolumeControl) Model {
	return Model{
		volume:     100,
		state:      "initializing",
		volumeCtrl: volCtrl,
	}
}

// Run starts the TUI
func Run(volCtrl *VolumeControl) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(volCtrl), tea.WithAltScreen())
	return p, nil
}
