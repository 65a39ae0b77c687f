// ABOUTME: MP3 packet source
// ABOUTME: Reads MP3 files as fixed-size PCM packets via go-mp3
package source

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/go-mp3"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// MP3 reads an MP3 file as a constant-bit-rate packet stream.
// go-mp3 always decodes to 16-bit stereo, so one packet is one 4-byte PCM
// frame and random access by packet index is a byte seek.
type MP3 struct {
	f      *os.File
	dec    *mp3.Decoder
	format audio.Format
}

// OpenMP3 opens an MP3 file as a packet source.
func OpenMP3(path string) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open mp3 file")
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "decode mp3 header")
	}

	return &MP3{
		f:   f,
		dec: dec,
		format: audio.Format{
			Codec:           "mp3",
			SampleRate:      dec.SampleRate(),
			Channels:        2,
			BitDepth:        16,
			BytesPerPacket:  4,
			FramesPerPacket: 1,
		},
	}, nil
}

// Format describes the decoded stream.
func (s *MP3) Format() audio.Format {
	return s.format
}

// MaxPacketSize returns the fixed packet size.
func (s *MP3) MaxPacketSize() int {
	return s.format.BytesPerPacket
}

// ReadPackets reads up to maxPackets PCM frames starting at fromPacket.
func (s *MP3) ReadPackets(dst []byte, fromPacket int64, maxPackets int, _ []audio.PacketDescriptor) (int, int, error) {
	packetSize := s.format.BytesPerPacket
	if maxPackets > len(dst)/packetSize {
		maxPackets = len(dst) / packetSize
	}
	if maxPackets == 0 {
		return 0, 0, nil
	}

	if _, err := s.dec.Seek(fromPacket*int64(packetSize), io.SeekStart); err != nil {
		return 0, 0, errors.Wrap(err, "seek mp3 stream")
	}

	n, err := io.ReadFull(s.dec, dst[:maxPackets*packetSize])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return 0, 0, errors.Wrap(err, "read mp3 packets")
	}

	packets := n / packetSize
	return packets * packetSize, packets, nil
}

// Close releases the underlying file.
func (s *MP3) Close() error {
	return s.f.Close()
}
