// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and packet descriptors
package audio

// Format describes an audio stream.
//
// BytesPerPacket and FramesPerPacket are zero when the corresponding
// quantity varies from packet to packet. A stream with either field zero
// is variable bit rate and needs per-packet descriptors to locate packet
// boundaries inside a filled buffer.
type Format struct {
	Codec           string
	SampleRate      int
	Channels        int
	BitDepth        int
	BytesPerPacket  int    // 0 if variable
	FramesPerPacket int    // 0 if variable
	CodecHeader     []byte // out-of-band codec configuration, nil if none
}

// VBR reports whether packet boundaries must be described explicitly.
func (f Format) VBR() bool {
	return f.BytesPerPacket == 0 || f.FramesPerPacket == 0
}

// FrameBytes returns the size of one decoded PCM frame in bytes.
func (f Format) FrameBytes() int {
	return f.Channels * f.BitDepth / 8
}

// PacketDescriptor locates one packet inside a filled buffer.
// Only variable-bit-rate streams carry descriptors; constant-bit-rate
// packet boundaries are implied by BytesPerPacket.
type PacketDescriptor struct {
	StartOffset int64 // byte offset of the packet within the buffer
	ByteCount   int
	FrameCount  int
}

// ClampInt16 clamps a sample to the signed 16-bit range.
func ClampInt16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}
