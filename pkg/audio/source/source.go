// ABOUTME: Source interface definition and file-type dispatch
// ABOUTME: Common interface for all packet sources
package source

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spindle-audio/spindle-go/pkg/audio"
)

// Source reads packets of decoded audio from a file.
type Source interface {
	// Format describes the stream the source produces.
	Format() audio.Format

	// MaxPacketSize returns an upper bound, in bytes, on any single packet.
	MaxPacketSize() int

	// ReadPackets reads up to maxPackets packets starting at packet index
	// fromPacket into dst. For variable-bit-rate sources, descs is filled
	// with one descriptor per packet read; constant-bit-rate callers pass
	// nil. Returns bytes and packets actually read; (0, 0, nil) signals
	// end of source.
	ReadPackets(dst []byte, fromPacket int64, maxPackets int, descs []audio.PacketDescriptor) (bytesRead, packetsRead int, err error)

	// Close releases the underlying file.
	Close() error
}

// Open opens a packet source for the given file, dispatching on extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return OpenMP3(path)
	case ".wav":
		return OpenWAV(path)
	case ".ogg":
		return OpenVorbis(path)
	case ".flac":
		return OpenFLAC(path)
	default:
		return nil, errors.Newf("unsupported audio format: %q", filepath.Ext(path))
	}
}
