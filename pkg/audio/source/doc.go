// ABOUTME: Packet source package for reading audio files
// ABOUTME: Provides Source interface and MP3, WAV, Vorbis, FLAC implementations
// Package source provides sequential packet readers for audio files.
//
// A Source hands out decoded PCM packets addressed by a monotone packet
// index. MP3, WAV and Vorbis sources are constant bit rate (one PCM frame
// per packet); the FLAC source is variable bit rate and fills a packet
// descriptor per FLAC frame.
//
// Example:
//
//	src, err := source.Open("song.mp3")
//	n, packets, err := src.ReadPackets(buf, 0, 1024, nil)
package source
