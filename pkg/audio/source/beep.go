// ABOUTME: WAV and Ogg Vorbis packet sources
// ABOUTME: Wraps beep decoders as fixed-size PCM packet streams
package source

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// scratchFrames is the number of frames decoded per inner read.
const scratchFrames = 512

// beepSource adapts a beep streamer to the Source interface.
// beep streamers always yield stereo float64 frames, so the stream is
// presented as 16-bit stereo with one 4-byte packet per frame.
type beepSource struct {
	stream  beep.StreamSeekCloser
	format  audio.Format
	scratch [scratchFrames][2]float64
}

// OpenWAV opens a WAV file as a packet source.
func OpenWAV(path string) (Source, error) {
	return openBeep(path, "wav")
}

// OpenVorbis opens an Ogg Vorbis file as a packet source.
func OpenVorbis(path string) (Source, error) {
	return openBeep(path, "vorbis")
}

func openBeep(path, codec string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s file", codec)
	}

	var stream beep.StreamSeekCloser
	var bf beep.Format
	switch codec {
	case "wav":
		stream, bf, err = wav.Decode(f)
	case "vorbis":
		stream, bf, err = vorbis.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "decode %s header", codec)
	}

	return &beepSource{
		stream: stream,
		format: audio.Format{
			Codec:           codec,
			SampleRate:      int(bf.SampleRate),
			Channels:        2,
			BitDepth:        16,
			BytesPerPacket:  4,
			FramesPerPacket: 1,
		},
	}, nil
}

// Format describes the decoded stream.
func (s *beepSource) Format() audio.Format {
	return s.format
}

// MaxPacketSize returns the fixed packet size.
func (s *beepSource) MaxPacketSize() int {
	return s.format.BytesPerPacket
}

// ReadPackets reads up to maxPackets PCM frames starting at fromPacket.
func (s *beepSource) ReadPackets(dst []byte, fromPacket int64, maxPackets int, _ []audio.PacketDescriptor) (int, int, error) {
	packetSize := s.format.BytesPerPacket
	if maxPackets > len(dst)/packetSize {
		maxPackets = len(dst) / packetSize
	}
	if maxPackets == 0 || fromPacket >= int64(s.stream.Len()) {
		return 0, 0, nil
	}

	if int64(s.stream.Position()) != fromPacket {
		if err := s.stream.Seek(int(fromPacket)); err != nil {
			return 0, 0, errors.Wrapf(err, "seek %s stream", s.format.Codec)
		}
	}

	total := 0
	for total < maxPackets {
		want := maxPackets - total
		if want > scratchFrames {
			want = scratchFrames
		}

		n, ok := s.stream.Stream(s.scratch[:want])
		for i := 0; i < n; i++ {
			left := audio.ClampInt16(int(s.scratch[i][0] * 32767))
			right := audio.ClampInt16(int(s.scratch[i][1] * 32767))
			binary.LittleEndian.PutUint16(dst[(total+i)*packetSize:], uint16(left))
			binary.LittleEndian.PutUint16(dst[(total+i)*packetSize+2:], uint16(right))
		}
		total += n

		if !ok {
			break
		}
	}

	if err := s.stream.Err(); err != nil {
		return total * packetSize, total, errors.Wrapf(err, "decode %s packets", s.format.Codec)
	}
	return total * packetSize, total, nil
}

// Close releases the decoder and the underlying file.
func (s *beepSource) Close() error {
	return s.stream.Close()
}
