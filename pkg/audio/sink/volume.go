// ABOUTME: Software volume for PCM sinks
// ABOUTME: Scales 16-bit little-endian samples in place with clamping
package sink

import (
	"encoding/binary"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// clampGain limits a gain value to [0, 1].
func clampGain(gain float64) float64 {
	if gain < 0 {
		return 0
	}
	if gain > 1 {
		return 1
	}
	return gain
}

// applyGain scales 16-bit little-endian PCM in place.
func applyGain(data []byte, gain float64) {
	if gain == 1 {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i:]))
		scaled := audio.ClampInt16(int(float64(sample) * gain))
		binary.LittleEndian.PutUint16(data[i:], uint16(scaled))
	}
}
