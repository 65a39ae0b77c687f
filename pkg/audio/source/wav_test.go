// ABOUTME: Tests for the WAV packet source
// ABOUTME: Reads hand-built RIFF files and checks packet accounting
package source

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes a 16-bit stereo PCM WAV file with the given frames.
func writeTestWAV(t *testing.T, frames [][2]int16, sampleRate int) string {
	t.Helper()

	const channels = 2
	dataSize := len(frames) * channels * 2

	buf := make([]byte, 0, 44+dataSize)
	u16 := func(v int) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b
	}
	u32 := func(v int) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(36+dataSize)...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(channels)...)
	buf = append(buf, u32(sampleRate)...)
	buf = append(buf, u32(sampleRate*channels*2)...)
	buf = append(buf, u16(channels*2)...)
	buf = append(buf, u16(16)...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(dataSize)...)
	for _, frame := range frames {
		buf = append(buf, u16(int(uint16(frame[0])))...)
		buf = append(buf, u16(int(uint16(frame[1])))...)
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func sineFrames(n int) [][2]int16 {
	frames := make([][2]int16, n)
	for i := range frames {
		v := int16(16000 * math.Sin(float64(i)/10))
		frames[i] = [2]int16{v, -v}
	}
	return frames
}

func TestOpenWAV_Format(t *testing.T) {
	path := writeTestWAV(t, sineFrames(50), 44100)

	src, err := OpenWAV(path)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	format := src.Format()
	assert.Equal(t, "wav", format.Codec)
	assert.Equal(t, 44100, format.SampleRate)
	assert.Equal(t, 2, format.Channels)
	assert.Equal(t, 16, format.BitDepth)
	assert.False(t, format.VBR())
	assert.Equal(t, 4, src.MaxPacketSize())
}

func TestWAVReadPackets(t *testing.T) {
	path := writeTestWAV(t, sineFrames(100), 8000)

	src, err := OpenWAV(path)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	buf := make([]byte, 4*60)

	n, packets, err := src.ReadPackets(buf, 0, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, packets)
	assert.Equal(t, 240, n)

	// Short read near end of source.
	n, packets, err = src.ReadPackets(buf, 60, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, packets)
	assert.Equal(t, 160, n)

	// Exhausted source reads zero packets.
	n, packets, err = src.ReadPackets(buf, 100, 60, nil)
	require.NoError(t, err)
	assert.Zero(t, packets)
	assert.Zero(t, n)
}

func TestWAVReadValues(t *testing.T) {
	frames := [][2]int16{{0, 0}, {1000, -1000}, {16000, -16000}}
	path := writeTestWAV(t, frames, 8000)

	src, err := OpenWAV(path)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	buf := make([]byte, 4*len(frames))
	n, packets, err := src.ReadPackets(buf, 0, len(frames), nil)
	require.NoError(t, err)
	require.Equal(t, len(frames), packets)
	require.Equal(t, len(buf), n)

	// The float round trip through the decoder may be off by one LSB.
	for i, frame := range frames {
		left := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		assert.InDelta(t, frame[0], left, 2, "frame %d left", i)
		assert.InDelta(t, frame[1], right, 2, "frame %d right", i)
	}
}
