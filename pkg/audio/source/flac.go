// ABOUTME: FLAC packet source
// ABOUTME: Reads FLAC frames as variable-size PCM packets via mewkiz/flac
package source

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/mewkiz/flac"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// FLAC reads a FLAC file as a variable-bit-rate packet stream. One packet
// is one FLAC frame, decoded to 16-bit PCM; packet byte sizes vary with
// the frame block size, so reads fill packet descriptors.
//
// FLAC frames are parsed sequentially; ReadPackets rejects any cursor
// other than the one following the previous read.
type FLAC struct {
	stream    *flac.Stream
	format    audio.Format
	maxPacket int
	next      int64 // next packet index the stream is positioned at
}

// OpenFLAC opens a FLAC file as a packet source.
func OpenFLAC(path string) (*FLAC, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open flac file")
	}

	info := stream.Info
	if info.NChannels > 2 {
		_ = stream.Close()
		return nil, errors.Newf("unsupported flac channel count: %d", info.NChannels)
	}

	// The stream MD5 signature stands in for the codec's out-of-band
	// configuration blob; PCM sinks only log it.
	cookie := append([]byte(nil), info.MD5sum[:]...)

	channels := int(info.NChannels)
	return &FLAC{
		stream: stream,
		format: audio.Format{
			Codec:       "flac",
			SampleRate:  int(info.SampleRate),
			Channels:    channels,
			BitDepth:    16,
			CodecHeader: cookie,
		},
		maxPacket: int(info.BlockSizeMax) * channels * 2,
	}, nil
}

// Format describes the decoded stream.
func (s *FLAC) Format() audio.Format {
	return s.format
}

// MaxPacketSize returns the largest possible decoded frame in bytes.
func (s *FLAC) MaxPacketSize() int {
	return s.maxPacket
}

// ReadPackets decodes up to maxPackets FLAC frames into dst, one
// descriptor per frame.
func (s *FLAC) ReadPackets(dst []byte, fromPacket int64, maxPackets int, descs []audio.PacketDescriptor) (int, int, error) {
	if fromPacket != s.next {
		return 0, 0, errors.Newf("flac source is sequential: packet %d requested, stream at %d", fromPacket, s.next)
	}

	bytesRead := 0
	packets := 0
	for packets < maxPackets && bytesRead+s.maxPacket <= len(dst) {
		f, err := s.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.next += int64(packets)
			return bytesRead, packets, errors.Wrap(err, "parse flac frame")
		}

		frames := int(f.BlockSize)
		shift := int(f.BitsPerSample) - 16
		pktBytes := 0
		for i := 0; i < frames; i++ {
			for _, sf := range f.Subframes {
				v := sf.Samples[i]
				if shift > 0 {
					v >>= shift
				} else if shift < 0 {
					v <<= -shift
				}
				binary.LittleEndian.PutUint16(dst[bytesRead+pktBytes:], uint16(int16(v)))
				pktBytes += 2
			}
		}

		if packets < len(descs) {
			descs[packets] = audio.PacketDescriptor{
				StartOffset: int64(bytesRead),
				ByteCount:   pktBytes,
				FrameCount:  frames,
			}
		}
		bytesRead += pktBytes
		packets++
	}

	s.next += int64(packets)
	return bytesRead, packets, nil
}

// Close releases the underlying file.
func (s *FLAC) Close() error {
	return s.stream.Close()
}
