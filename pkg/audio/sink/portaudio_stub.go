//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package sink

import (
	"github.com/cockroachdb/errors"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// PortAudio playback sink (stub)
type PortAudio struct{}

// NewPortAudio creates a PortAudio-backed sink (stub).
func NewPortAudio(format audio.Format, onAvailable Callback) (*PortAudio, error) {
	return nil, errors.New("PortAudio support not enabled (build with -tags portaudio)")
}

// AllocateBuffer returns a new buffer of the given capacity.
func (s *PortAudio) AllocateBuffer(size int) *Buffer { return nil }

// Enqueue submits a buffer for playback.
func (s *PortAudio) Enqueue(buf *Buffer, used int, descs []audio.PacketDescriptor) error {
	return errors.New("PortAudio support not enabled (build with -tags portaudio)")
}

// Start begins the output stream.
func (s *PortAudio) Start() error {
	return errors.New("PortAudio support not enabled (build with -tags portaudio)")
}

// SetVolume sets the playback gain in [0, 1].
func (s *PortAudio) SetVolume(gain float64) {}

// StopAfterDrain stops accepting buffers.
func (s *PortAudio) StopAfterDrain() {}

// Done is closed once all queued audio has been played.
func (s *PortAudio) Done() <-chan struct{} { return nil }

// Dispose releases the output device.
func (s *PortAudio) Dispose() error { return nil }
