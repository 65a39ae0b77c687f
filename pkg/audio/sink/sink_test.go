// ABOUTME: Tests for sink volume handling
// ABOUTME: Verifies gain clamping and in-place sample scaling
package sink

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampGain(t *testing.T) {
	tests := []struct {
		name     string
		gain     float64
		expected float64
	}{
		{"unity", 1.0, 1.0},
		{"half", 0.5, 0.5},
		{"silent", 0.0, 0.0},
		{"above range", 1.5, 1.0},
		{"below range", -0.2, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampGain(tt.gain))
		})
	}
}

func TestApplyGain(t *testing.T) {
	samples := []int16{1000, -1000, 500, -500}
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	applyGain(data, 0.5)

	expected := []int16{500, -500, 250, -250}
	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(data[i*2:]))
		assert.Equal(t, want, got, "sample %d", i)
	}
}

func TestApplyGainUnityIsNoop(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78}
	original := append([]byte(nil), data...)

	applyGain(data, 1.0)

	assert.Equal(t, original, data)
}

func TestApplyGainSilence(t *testing.T) {
	samples := []int16{32767, -32768, 123}
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	applyGain(data, 0)

	for i := range samples {
		got := int16(binary.LittleEndian.Uint16(data[i*2:]))
		assert.Zero(t, got, "sample %d", i)
	}
}

func TestBackendsImplementSink(t *testing.T) {
	var _ Sink = (*Oto)(nil)
	var _ Sink = (*PortAudio)(nil)
}
