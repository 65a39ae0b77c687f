// ABOUTME: Tests for app orchestration
// ABOUTME: Covers backend selection and open failure handling
package app

import (
	"context"
	"testing"

	"github.com/spindle-audio/spindle-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkForKnownBackends(t *testing.T) {
	for _, backend := range []string{"oto", "portaudio"} {
		factory, err := SinkFor(backend)
		require.NoError(t, err, backend)
		assert.NotNil(t, factory, backend)
	}
}

func TestSinkForUnknownBackend(t *testing.T) {
	factory, err := SinkFor("jack")
	assert.Error(t, err)
	assert.Nil(t, factory)
}

func TestRunMissingFileFailsBeforePlayback(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	app := New(Options{File: "/nonexistent/track.wav", Config: cfg})
	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/track.wav")
}

func TestRunUnsupportedExtensionFailsBeforePlayback(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	app := New(Options{File: "track.aiff", Config: cfg})
	err = app.Run(context.Background())
	assert.Error(t, err)
}
