// ABOUTME: Core audio types shared by sources and sinks
// ABOUTME: Formats, packet descriptors, sample helpers
// Package audio defines the types shared between packet sources and
// playback sinks.
//
// A packet is the unit of audio data a source hands out; a frame is one
// sample per channel. Constant-bit-rate streams have a fixed packet size,
// variable-bit-rate streams describe each packet with a PacketDescriptor.
package audio
