package session

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// Buffer capacity bounds. A single packet larger than maxBufferBytes is
// still allowed to size the buffer, so at least one packet always fits.
const (
	maxBufferBytes = 0x50000 // 320 KiB
	minBufferBytes = 0x4000  // 16 KiB
)

// Plan is the buffer sizing for one session: the capacity of every buffer
// in the pool and how many packets each refill requests.
type Plan struct {
	BufferBytes      int
	PacketsPerBuffer int
}

// DerivePlan picks a buffer capacity targeting the given playback seconds
// per buffer, clamped to [minBufferBytes, maxBufferBytes].
//
// Formats with a fixed packet duration are sized from the sample rate;
// formats without one fall back to the upper bound, since duration-based
// sizing is not meaningful there.
func DerivePlan(format audio.Format, maxPacketSize int, seconds float64) (Plan, error) {
	if maxPacketSize <= 0 {
		return Plan{}, errors.Newf("invalid max packet size %d", maxPacketSize)
	}

	var size int
	if format.FramesPerPacket != 0 {
		packetsForTime := math.Ceil(float64(format.SampleRate) / float64(format.FramesPerPacket) * seconds)
		size = int(packetsForTime) * maxPacketSize
	} else {
		size = maxBufferBytes
		if maxPacketSize > size {
			size = maxPacketSize
		}
	}

	if size > maxBufferBytes && size > maxPacketSize {
		size = maxBufferBytes
	} else if size < minBufferBytes {
		size = minBufferBytes
	}

	packets := size / maxPacketSize
	if packets < 1 {
		return Plan{}, errors.Newf("buffer of %d bytes cannot hold a %d byte packet", size, maxPacketSize)
	}

	return Plan{BufferBytes: size, PacketsPerBuffer: packets}, nil
}
