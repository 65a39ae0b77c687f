// ABOUTME: Oto-based playback sink
// ABOUTME: Feeds a persistent oto player from an io.Pipe with software volume
package sink

import (
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// queueDepth bounds how many buffers may be enqueued at once. The cycle
// manager owns only a handful of buffers, so this is never reached in
// normal operation.
const queueDepth = 32

// Oto plays buffers through an oto player that reads from an io.Pipe.
// A pump goroutine dequeues submitted buffers, writes their bytes to the
// pipe and hands each buffer back through the callback once its data has
// been consumed, so a buffer is never handed back while still queued.
type Oto struct {
	format      audio.Format
	onAvailable Callback

	otoCtx *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter

	mu     sync.Mutex
	queue  chan *Buffer
	closed bool

	gainBits atomic.Uint64
	done     chan struct{}
}

// NewOto creates an oto-backed sink for the given format. The callback is
// invoked from the sink's pump goroutine.
func NewOto(format audio.Format, onAvailable Callback) (*Oto, error) {
	if format.BitDepth != 16 {
		return nil, errors.Newf("oto sink requires 16-bit PCM, got %d-bit", format.BitDepth)
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "create oto context")
	}
	<-readyChan

	if len(format.CodecHeader) > 0 {
		log.Debug().Int("bytes", len(format.CodecHeader)).Msg("Codec header present (ignored by PCM sink)")
	} else {
		log.Debug().Msg("No codec header")
	}

	s := &Oto{
		format:      format,
		onAvailable: onAvailable,
		otoCtx:      otoCtx,
		queue:       make(chan *Buffer, queueDepth),
		done:        make(chan struct{}),
	}
	s.gainBits.Store(math.Float64bits(1.0))

	log.Info().
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("Audio output initialized")

	return s, nil
}

// AllocateBuffer returns a new buffer of the given capacity.
func (s *Oto) AllocateBuffer(size int) *Buffer {
	return &Buffer{Data: make([]byte, size)}
}

// Enqueue submits a buffer for playback. Packet descriptors are accepted
// for contract parity but unused: the buffer already holds raw PCM and
// boundaries are irrelevant to the device.
func (s *Oto) Enqueue(buf *Buffer, used int, _ []audio.PacketDescriptor) error {
	if used < 0 || used > len(buf.Data) {
		return errors.Newf("used %d out of range for buffer of %d bytes", used, len(buf.Data))
	}
	buf.Used = used

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("sink is stopping")
	}

	select {
	case s.queue <- buf:
		return nil
	default:
		return errors.New("sink queue full")
	}
}

// Start creates the player and begins consuming enqueued buffers.
func (s *Oto) Start() error {
	if s.player != nil {
		return errors.New("sink already started")
	}

	s.pr, s.pw = io.Pipe()
	s.player = s.otoCtx.NewPlayer(s.pr)
	s.player.Play()

	go s.pump()
	return nil
}

// pump moves buffers from the queue into the pipe and hands them back.
func (s *Oto) pump() {
	for buf := range s.queue {
		data := buf.Data[:buf.Used]
		applyGain(data, s.gain())

		if _, err := s.pw.Write(data); err != nil {
			log.Error().Err(err).Msg("Playback pipe write failed")
			break
		}
		s.onAvailable(buf)
	}

	_ = s.pw.Close()

	// Let the device finish what it already pulled off the pipe.
	for s.player.BufferedSize() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	close(s.done)
}

// SetVolume sets the playback gain in [0, 1].
func (s *Oto) SetVolume(gain float64) {
	s.gainBits.Store(math.Float64bits(clampGain(gain)))
}

func (s *Oto) gain() float64 {
	return math.Float64frombits(s.gainBits.Load())
}

// StopAfterDrain stops accepting buffers; queued audio still plays out.
func (s *Oto) StopAfterDrain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
}

// Done is closed once all queued audio has been played.
func (s *Oto) Done() <-chan struct{} {
	return s.done
}

// Dispose releases the output device.
func (s *Oto) Dispose() error {
	s.StopAfterDrain()
	if s.player != nil {
		_ = s.player.Close()
	}
	if s.pr != nil {
		_ = s.pr.Close()
	}
	s.otoCtx.Suspend()
	return nil
}
