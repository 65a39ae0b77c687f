// ABOUTME: Playback sink interface definition
// ABOUTME: Common contract for audio output backends
package sink

import (
	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// Buffer is one playback buffer. It is owned either by the caller (while
// being filled) or by the sink (while enqueued); only the owner writes.
type Buffer struct {
	Data []byte
	Used int // valid bytes after the most recent fill
}

// Callback is invoked by the sink, on its own goroutine, each time a
// previously enqueued buffer has been consumed and is free for refilling.
type Callback func(*Buffer)

// Sink plays enqueued buffers in order and hands each one back through
// the Callback it was constructed with.
type Sink interface {
	// AllocateBuffer returns a new buffer of the given capacity.
	AllocateBuffer(size int) *Buffer

	// Enqueue submits a buffer with used valid bytes for playback. For
	// variable-bit-rate streams descs carries one descriptor per packet
	// in the buffer; constant-bit-rate callers pass nil.
	Enqueue(buf *Buffer, used int, descs []audio.PacketDescriptor) error

	// Start begins consuming enqueued buffers.
	Start() error

	// SetVolume sets the playback gain in [0, 1].
	SetVolume(gain float64)

	// StopAfterDrain stops accepting new buffers; buffers already
	// enqueued still play to completion.
	StopAfterDrain()

	// Done is closed once all enqueued audio has been played after a
	// StopAfterDrain.
	Done() <-chan struct{}

	// Dispose releases the output device. The sink cannot be restarted.
	Dispose() error
}
