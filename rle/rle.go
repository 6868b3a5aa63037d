/*
Package rle implements the run-length encoding used by TGA data types 10 and
11.

The pixel stream is split into packets, each starting with a single header
byte. If the high bit is clear the packet is a raw packet and the header is
followed by header+1 literal pixels. If the high bit is set the packet is a
run packet and the header is followed by a single pixel that is repeated
(header&0x7f)+1 times. Packets may cross scanline boundaries.
*/
package rle

import "errors"

const (
	maxPacket = 128
	runFlag   = 0x80
)

var (
	// ErrUnexpectedEOF is returned when the input ends before all of the
	// pixels have been decoded.
	ErrUnexpectedEOF = errors.New("rle: unexpected end of stream")
	// ErrPixelCountOverflow is returned when a packet describes more
	// pixels than remain in the buffer.
	ErrPixelCountOverflow = errors.New("rle: pixel count overflow")
)
