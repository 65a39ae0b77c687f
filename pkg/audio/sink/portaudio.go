//go:build portaudio

// ABOUTME: PortAudio playback sink
// ABOUTME: Fills the device callback from queued buffers
package sink

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/gordonklaus/portaudio"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// PortAudio plays buffers through a PortAudio output stream. The device
// callback drains queued buffers sample by sample; a buffer is handed
// back through the callback once fully consumed.
type PortAudio struct {
	format      audio.Format
	onAvailable Callback
	stream      *portaudio.Stream

	mu      sync.Mutex
	pending []*Buffer
	offset  int // bytes consumed from pending[0]
	closed  bool
	drained bool

	gainBits atomic.Uint64
	done     chan struct{}
}

// NewPortAudio creates a PortAudio-backed sink for the given format.
func NewPortAudio(format audio.Format, onAvailable Callback) (*PortAudio, error) {
	if format.BitDepth != 16 {
		return nil, errors.Newf("portaudio sink requires 16-bit PCM, got %d-bit", format.BitDepth)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "initialize portaudio")
	}

	s := &PortAudio{
		format:      format,
		onAvailable: onAvailable,
		done:        make(chan struct{}),
	}
	s.gainBits.Store(math.Float64bits(1.0))

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, s.fill)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, errors.Wrap(err, "open portaudio stream")
	}
	s.stream = stream

	return s, nil
}

// AllocateBuffer returns a new buffer of the given capacity.
func (s *PortAudio) AllocateBuffer(size int) *Buffer {
	return &Buffer{Data: make([]byte, size)}
}

// Enqueue submits a buffer for playback.
func (s *PortAudio) Enqueue(buf *Buffer, used int, _ []audio.PacketDescriptor) error {
	if used < 0 || used > len(buf.Data) {
		return errors.Newf("used %d out of range for buffer of %d bytes", used, len(buf.Data))
	}
	buf.Used = used

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("sink is stopping")
	}
	s.pending = append(s.pending, buf)
	return nil
}

// Start begins the output stream.
func (s *PortAudio) Start() error {
	return errors.Wrap(s.stream.Start(), "start portaudio stream")
}

// fill is the device callback. Consumed buffers are handed back from this
// goroutine, mirroring the hardware-driven refill timing.
func (s *PortAudio) fill(out []int16) {
	gain := math.Float64frombits(s.gainBits.Load())

	var freed []*Buffer

	s.mu.Lock()
	for i := range out {
		if len(s.pending) == 0 {
			out[i] = 0
			continue
		}

		buf := s.pending[0]
		sample := int16(binary.LittleEndian.Uint16(buf.Data[s.offset:]))
		out[i] = audio.ClampInt16(int(float64(sample) * gain))
		s.offset += 2

		if s.offset >= buf.Used {
			freed = append(freed, buf)
			s.pending = s.pending[1:]
			s.offset = 0
		}
	}
	finished := s.closed && len(s.pending) == 0 && !s.drained
	if finished {
		s.drained = true
	}
	s.mu.Unlock()

	for _, buf := range freed {
		s.onAvailable(buf)
	}
	if finished {
		close(s.done)
	}
}

// SetVolume sets the playback gain in [0, 1].
func (s *PortAudio) SetVolume(gain float64) {
	s.gainBits.Store(math.Float64bits(clampGain(gain)))
}

// StopAfterDrain stops accepting buffers; queued audio still plays out.
func (s *PortAudio) StopAfterDrain() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Done is closed once all queued audio has been played.
func (s *PortAudio) Done() <-chan struct{} {
	return s.done
}

// Dispose releases the output device.
func (s *PortAudio) Dispose() error {
	if s.stream != nil {
		_ = s.stream.Stop()
		_ = s.stream.Close()
	}
	return portaudio.Terminate()
}
