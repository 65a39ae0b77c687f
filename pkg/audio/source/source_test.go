// ABOUTME: Tests for source file-type dispatch
// ABOUTME: Covers extension routing and open failures
package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DispatchesWAV(t *testing.T) {
	path := writeTestWAV(t, sineFrames(10), 22050)

	src, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.Equal(t, "wav", src.Format().Codec)
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	_, err := Open("track.aiff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestOpen_MissingFile(t *testing.T) {
	for _, name := range []string{"no.mp3", "no.wav", "no.ogg", "no.flac"} {
		_, err := Open(filepath.Join(t.TempDir(), name))
		assert.Error(t, err, name)
	}
}

func TestOpenMP3_InvalidData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mp3")
	require.NoError(t, os.WriteFile(path, []byte("definitely not mpeg audio"), 0644))

	_, err := OpenMP3(path)
	assert.Error(t, err)
}

func TestOpenFLAC_InvalidData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.flac")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a flac stream"), 0644))

	_, err := OpenFLAC(path)
	assert.Error(t, err)
}
