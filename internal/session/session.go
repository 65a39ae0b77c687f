package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spindle-audio/spindle-go/pkg/audio"
	"github.com/spindle-audio/spindle-go/pkg/audio/sink"
	"github.com/spindle-audio/spindle-go/pkg/audio/source"
)

// NumBuffers is the playback buffer pool size.
const NumBuffers = 3

// Defaults for Options left zero.
const (
	DefaultBufferSeconds = 0.5
	DefaultPollInterval  = 250 * time.Millisecond
	DefaultDrainGrace    = time.Second
)

// Options tune one playback session.
type Options struct {
	BufferSeconds float64       // target playback duration per buffer
	Gain          float64       // initial volume in [0, 1]
	PollInterval  time.Duration // driver loop wake-up interval
	DrainGrace    time.Duration // extra wait for the last buffer to play out
}

func (o Options) withDefaults() Options {
	if o.BufferSeconds <= 0 {
		o.BufferSeconds = DefaultBufferSeconds
	}
	if o.Gain <= 0 {
		o.Gain = 1.0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.DrainGrace <= 0 {
		o.DrainGrace = DefaultDrainGrace
	}
	return o
}

// SinkFactory builds the playback sink for a session, registering the
// session's refill callback with it.
type SinkFactory func(format audio.Format, onAvailable sink.Callback) (sink.Sink, error)

// Session owns one playback run. The sink invokes OnBufferAvailable from
// its own goroutine, so cursor, running and state live behind one mutex.
type Session struct {
	id     uuid.UUID
	src    source.Source
	snk    sink.Sink
	format audio.Format
	plan   Plan
	opts   Options
	descs  []audio.PacketDescriptor // nil for constant-bit-rate formats

	mu            sync.Mutex
	cursor        int64 // next packet index to read, monotone
	running       bool
	stopRequested bool
	state         State
	stats         Stats
	err           error

	events chan Event
	log    zerolog.Logger
}

// New creates a session for the given source, building its sink through
// the factory so the refill callback is registered at creation time.
func New(src source.Source, newSink SinkFactory, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	id := uuid.New()
	s := &Session{
		id:     id,
		src:    src,
		format: src.Format(),
		opts:   opts,
		state:  StateInitializing,
		events: make(chan Event, 64),
		log:    log.With().Str("session", id.String()[:8]).Logger(),
	}

	maxPacket := src.MaxPacketSize()
	plan, err := DerivePlan(s.format, maxPacket, opts.BufferSeconds)
	if err != nil {
		return nil, errors.Wrap(err, "derive buffer plan")
	}
	s.plan = plan

	if s.format.VBR() {
		s.descs = make([]audio.PacketDescriptor, plan.PacketsPerBuffer)
	}

	snk, err := newSink(s.format, s.OnBufferAvailable)
	if err != nil {
		return nil, errors.Wrap(err, "create playback sink")
	}
	s.snk = snk

	s.log.Info().
		Str("codec", s.format.Codec).
		Int("sample_rate", s.format.SampleRate).
		Int("channels", s.format.Channels).
		Int("bit_depth", s.format.BitDepth).
		Bool("vbr", s.format.VBR()).
		Int("max_packet_size", maxPacket).
		Str("buffer_size", humanize.IBytes(uint64(plan.BufferBytes))).
		Int("packets_per_buffer", plan.PacketsPerBuffer).
		Int("buffers", NumBuffers).
		Msg("Session initialized")

	return s, nil
}

// Start primes every buffer in the pool, sets the gain and starts the
// sink. All buffers are queued before playback begins, so the device
// never starts against an empty queue.
func (s *Session) Start() error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	for i := 0; i < NumBuffers; i++ {
		s.OnBufferAvailable(s.snk.AllocateBuffer(s.plan.BufferBytes))
	}

	s.snk.SetVolume(s.opts.Gain)

	if err := s.snk.Start(); err != nil {
		s.mu.Lock()
		s.running = false
		s.err = errors.Wrap(err, "start sink")
		s.setStateLocked(StateStopped)
		err = s.err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.setStateLocked(StateRunning)
	s.mu.Unlock()
	return nil
}

// OnBufferAvailable refills one free buffer and resubmits it. Zero
// packets read means the source is exhausted: the sink is told to stop
// once its queue drains and no further refills happen.
func (s *Session) OnBufferAvailable(buf *sink.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	if s.stopRequested {
		s.log.Info().Int64("cursor", s.cursor).Msg("Stop requested, draining")
		s.finishLocked(nil)
		return
	}

	n, packets, err := s.src.ReadPackets(buf.Data, s.cursor, s.plan.PacketsPerBuffer, s.descs)
	if err != nil {
		// A mid-stream read fault ends playback the same way end of
		// source does; the log line keeps the two distinguishable.
		s.log.Warn().Err(err).Int64("cursor", s.cursor).Msg("Packet read failed, treating as end of source")
		packets = 0
	}

	if packets == 0 {
		s.log.Info().Int64("cursor", s.cursor).Msg("Source exhausted, draining")
		s.finishLocked(nil)
		return
	}

	var descs []audio.PacketDescriptor
	if s.descs != nil {
		descs = s.descs[:packets]
	}
	if err := s.snk.Enqueue(buf, n, descs); err != nil {
		s.log.Error().Err(err).Msg("Enqueue failed")
		s.finishLocked(errors.Wrap(err, "enqueue buffer"))
		return
	}

	s.cursor += int64(packets)
	s.stats.Refills++
	s.stats.PacketsRead += int64(packets)
	s.stats.BytesRead += int64(n)
	s.emit(Event{Type: EventProgress, State: s.state, Stats: s.stats})
}

// finishLocked stops intake and flips running. Callers hold s.mu.
func (s *Session) finishLocked(err error) {
	s.snk.StopAfterDrain()
	s.running = false
	if err != nil && s.err == nil {
		s.err = err
	}
}

// Run blocks until playback completes: it polls the running flag, then
// waits out the drain before reporting the terminal state. Cancelling ctx
// acts as a stop request honored at the next refill.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	cancel := ctx.Done()
	for {
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if !running {
			break
		}

		select {
		case <-cancel:
			s.Stop()
			cancel = nil // keep polling on the ticker alone
		case <-ticker.C:
		}
	}

	s.mu.Lock()
	s.setStateLocked(StateDraining)
	s.mu.Unlock()

	select {
	case <-s.snk.Done():
	case <-time.After(s.opts.DrainGrace):
	}

	s.mu.Lock()
	s.setStateLocked(StateStopped)
	stats := s.stats
	err := s.err
	s.mu.Unlock()

	s.log.Info().
		Int64("refills", stats.Refills).
		Int64("packets", stats.PacketsRead).
		Str("played", humanize.IBytes(uint64(stats.BytesRead))).
		Msg("Session finished")
	s.emit(Event{Type: EventFinished, State: StateStopped, Stats: stats, Err: err})
	close(s.events)

	return err
}

// Stop requests an orderly stop, honored at the next buffer refill.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRequested = true
}

// SetVolume adjusts the sink gain mid-playback.
func (s *Session) SetVolume(gain float64) {
	s.snk.SetVolume(gain)
}

// Close releases the sink and the source.
func (s *Session) Close() error {
	var err error
	if s.snk != nil {
		err = errors.CombineErrors(err, s.snk.Dispose())
	}
	err = errors.CombineErrors(err, s.src.Close())
	return err
}

// Events returns the session event stream. The channel closes when Run
// returns.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current driver state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a snapshot of refill accounting.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Format returns the stream format being played.
func (s *Session) Format() audio.Format {
	return s.format
}

// Plan returns the derived buffer sizing.
func (s *Session) Plan() Plan {
	return s.plan
}

// setStateLocked transitions the driver state. Callers hold s.mu.
func (s *Session) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.log.Debug().Str("from", s.state.String()).Str("to", state.String()).Msg("State change")
	s.state = state
	s.emit(Event{Type: EventStateChanged, State: state, Stats: s.stats})
}

// emit publishes an event without ever blocking the refill path.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
