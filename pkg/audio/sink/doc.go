// ABOUTME: Playback sink package for audio output
// ABOUTME: Provides Sink interface with oto and PortAudio backends
// Package sink provides playback sinks that consume PCM buffers and hand
// them back once played.
//
// The default backend uses oto; a PortAudio backend is available behind
// the "portaudio" build tag.
//
// Example:
//
//	snk, err := sink.NewOto(format, onBufferFree)
//	buf := snk.AllocateBuffer(size)
//	err = snk.Enqueue(buf, used, nil)
//	err = snk.Start()
package sink
