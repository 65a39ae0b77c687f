// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/spindle-audio/spindle-go/internal/version"
)

// Model represents the TUI state
type Model struct {
	// Stream
	file       string
	codec      string
	sampleRate int
	channels   int
	bitDepth   int
	vbr        bool

	// Buffer plan
	bufferBytes      int
	packetsPerBuffer int

	// Playback
	state  string
	volume int
	muted  bool

	// Stats
	refills   int64
	packets   int64
	bytesRead int64

	// Dimensions
	width  int
	height int

	volumeCtrl *VolumeControl
}

// StatusMsg updates TUI state; zero-valued fields are left unchanged.
type StatusMsg struct {
	File             string
	Codec            string
	SampleRate       int
	Channels         int
	BitDepth         int
	VBR              bool
	BufferBytes      int
	PacketsPerBuffer int
	State            string
	Refills          int64
	Packets          int64
	BytesRead        int64
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

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := fmt.Sprintf("┌─ %s %s ─────────────────────────────────┐\n", version.Product, version.Version)
	s += m.renderStream()
	s += m.renderControls()
	s += m.renderStats()
	s += "│ ↑/↓:Volume  m:Mute  q:Quit                           │\n"
	s += "└──────────────────────────────────────────────────────┘\n"
	return s
}

// renderStream renders the file and format lines
func (m Model) renderStream() string {
	if m.codec == "" {
		return "│ No stream                                            │\n"
	}

	rate := "CBR"
	if m.vbr {
		rate = "VBR"
	}

	s := fmt.Sprintf("│ File:   %-44s │\n", truncate(m.file, 44))
	s += fmt.Sprintf("│ Format: %s %dHz %s %d-bit %s%-14s │\n",
		m.codec, m.sampleRate, channelName(m.channels), m.bitDepth, rate, "")
	s += fmt.Sprintf("│ Buffer: %s x 3 (%d packets each)%-12s │\n",
		humanize.IBytes(uint64(m.bufferBytes)), m.packetsPerBuffer, "")
	return s
}

// renderControls renders state and volume
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " (muted)"
	}

	return fmt.Sprintf("│ State:  %-44s │\n│ Volume: [%s] %d%%%s%-17s │\n",
		m.state, renderBar(m.volume, 100, 10), m.volume, muteIcon, "")
}

// renderStats renders refill accounting
func (m Model) renderStats() string {
	return fmt.Sprintf("│ Played: %s in %d refills (%d packets)%-8s │\n",
		humanize.IBytes(uint64(m.bytesRead)), m.refills, m.packets, "")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.volumeCtrl.RequestQuit()
		return m, tea.Quit
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.volumeCtrl.SetVolume(m.volume, m.muted)
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.volumeCtrl.SetVolume(m.volume, m.muted)
	case "m":
		m.muted = !m.muted
		m.volumeCtrl.SetVolume(m.volume, m.muted)
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.File != "" {
		m.file = msg.File
	}
	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.bitDepth = msg.BitDepth
		m.vbr = msg.VBR
		m.bufferBytes = msg.BufferBytes
		m.packetsPerBuffer = msg.PacketsPerBuffer
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Refills != 0 {
		m.refills = msg.Refills
		m.packets = msg.Packets
		m.bytesRead = msg.BytesRead
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
