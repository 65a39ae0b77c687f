// ABOUTME: Main playback application orchestration
// ABOUTME: Coordinates source, session, output sink and UI
package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spindle-audio/spindle-go/internal/config"
	"github.com/spindle-audio/spindle-go/internal/session"
	"github.com/spindle-audio/spindle-go/internal/ui"
	"github.com/spindle-audio/spindle-go/pkg/audio"
	"github.com/spindle-audio/spindle-go/pkg/audio/sink"
	"github.com/spindle-audio/spindle-go/pkg/audio/source"
	tea "github.com/charmbracelet/bubbletea"
)

// Options holds everything a playback run needs.
type Options struct {
	File   string
	Config *config.Config
	UseTUI bool
}

// App drives one file from open to drained.
type App struct {
	opts    Options
	sess    *session.Session
	tuiProg *tea.Program
	volCtrl *ui.VolumeControl
}

// New creates a new app
func New(opts Options) *App {
	return &App{opts: opts}
}

// SinkFor returns the session sink factory for the configured backend.
func SinkFor(backend string) (session.SinkFactory, error) {
	switch backend {
	case "oto":
		return func(format audio.Format, onAvailable sink.Callback) (sink.Sink, error) {
			return sink.NewOto(format, onAvailable)
		}, nil
	case "portaudio":
		return func(format audio.Format, onAvailable sink.Callback) (sink.Sink, error) {
			return sink.NewPortAudio(format, onAvailable)
		}, nil
	default:
		return nil, errors.Newf("unknown output backend: %s", backend)
	}
}

// Run plays the configured file to completion. Open or setup failures
// return before any audio is queued; cancelling ctx stops playback at
// the next refill.
func (a *App) Run(ctx context.Context) error {
	cfg := a.opts.Config

	src, err := source.Open(a.opts.File)
	if err != nil {
		return errors.Wrapf(err, "open %s", a.opts.File)
	}

	newSink, err := SinkFor(cfg.Output.Backend)
	if err != nil {
		_ = src.Close()
		return err
	}

	sess, err := session.New(src, newSink, session.Options{
		BufferSeconds: cfg.Playback.BufferSeconds,
		Gain:          cfg.Playback.Gain(),
		PollInterval:  cfg.Playback.PollInterval(),
		DrainGrace:    cfg.Playback.DrainGrace(),
	})
	if err != nil {
		_ = src.Close()
		return err
	}
	a.sess = sess
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Close after playback")
		}
	}()

	if a.opts.UseTUI {
		a.volCtrl = ui.NewVolumeControl()
		a.tuiProg, err = ui.Run(a.volCtrl)
		if err != nil {
			return errors.Wrap(err, "start TUI")
		}
		go a.tuiProg.Run()
		defer a.tuiProg.Quit()

		a.tuiProg.Send(a.initialStatus())
		go a.handleControls(ctx)
	}

	go a.handleEvents()

	if err := sess.Start(); err != nil {
		return err
	}
	return sess.Run(ctx)
}

// initialStatus describes the stream before the first refill.
func (a *App) initialStatus() ui.StatusMsg {
	format := a.sess.Format()
	plan := a.sess.Plan()
	return ui.StatusMsg{
		File:             a.opts.File,
		Codec:            format.Codec,
		SampleRate:       format.SampleRate,
		Channels:         format.Channels,
		BitDepth:         format.BitDepth,
		VBR:              format.VBR(),
		BufferBytes:      plan.BufferBytes,
		PacketsPerBuffer: plan.PacketsPerBuffer,
		State:            a.sess.State().String(),
	}
}

// handleEvents forwards session events to the TUI until playback ends.
func (a *App) handleEvents() {
	for ev := range a.sess.Events() {
		if a.tuiProg == nil {
			continue
		}
		a.tuiProg.Send(ui.StatusMsg{
			State:     ev.State.String(),
			Refills:   ev.Stats.Refills,
			Packets:   ev.Stats.PacketsRead,
			BytesRead: ev.Stats.BytesRead,
		})
	}
}

// handleControls applies TUI volume and quit requests to the session.
func (a *App) handleControls(ctx context.Context) {
	for {
		select {
		case change := <-a.volCtrl.Changes:
			gain := float64(change.Volume) / 100
			if change.Muted {
				gain = 0
			}
			a.sess.SetVolume(gain)

		case <-a.volCtrl.Quit:
			a.sess.Stop()
			return

		case <-ctx.Done():
			return
		}
	}
}
