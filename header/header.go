/*
Package header implements the fixed 18 byte header found at the start of
every Truevision TGA file.

All multi-byte fields are stored little-endian and the header has no
padding:

	offset  size  field
	0       1     ID length
	1       1     color map type
	2       1     data type code
	3       2     color map origin
	5       2     color map length
	7       1     color map depth
	8       2     X origin
	10      2     Y origin
	12      2     width
	14      2     height
	16      1     bits per pixel
	17      1     image descriptor
*/
package header

import (
	"encoding/binary"
	"errors"
)

// Size is the length in bytes of an encoded header.
const Size = 18

// Data type codes.
const (
	NoImage      = 0
	RawTrueColor = 2
	RawGrayscale = 3
	RLETrueColor = 10
	RLEGrayscale = 11
)

// Image descriptor bits.
const (
	RightToLeft = 0x10
	TopToBottom = 0x20
)

// ErrSizeMismatch is returned when decoding from a slice that is not
// exactly Size bytes long.
var ErrSizeMismatch = errors.New("header: size mismatch")

// Header is the decoded TGA header. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	IDLength       uint8
	ColorMapType   uint8
	DataTypeCode   uint8
	ColorMapOrigin int16
	ColorMapLength int16
	ColorMapDepth  uint8
	XOrigin        int16
	YOrigin        int16
	Width          uint16
	Height         uint16
	BitsPerPixel   uint8
	Descriptor     uint8
}

// Parse decodes b into a new Header.
func Parse(b []byte) (*Header, error) {
	h := new(Header)
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return h, nil
}

// UnmarshalBinary decodes the header from binary form. Only the length of b
// is checked, the fields themselves are not validated.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return ErrSizeMismatch
	}

	le := binary.LittleEndian

	h.IDLength = b[0]
	h.ColorMapType = b[1]
	h.DataTypeCode = b[2]
	h.ColorMapOrigin = int16(le.Uint16(b[3:5]))
	h.ColorMapLength = int16(le.Uint16(b[5:7]))
	h.ColorMapDepth = b[7]
	h.XOrigin = int16(le.Uint16(b[8:10]))
	h.YOrigin = int16(le.Uint16(b[10:12]))
	h.Width = le.Uint16(b[12:14])
	h.Height = le.Uint16(b[14:16])
	h.BitsPerPixel = b[16]
	h.Descriptor = b[17]

	return nil
}

// MarshalBinary encodes the header into binary form and returns the result,
// which is always Size bytes long.
func (h *Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)

	le := binary.LittleEndian

	b[0] = h.IDLength
	b[1] = h.ColorMapType
	b[2] = h.DataTypeCode
	le.PutUint16(b[3:5], uint16(h.ColorMapOrigin))
	le.PutUint16(b[5:7], uint16(h.ColorMapLength))
	b[7] = h.ColorMapDepth
	le.PutUint16(b[8:10], uint16(h.XOrigin))
	le.PutUint16(b[10:12], uint16(h.YOrigin))
	le.PutUint16(b[12:14], h.Width)
	le.PutUint16(b[14:16], h.Height)
	b[16] = h.BitsPerPixel
	b[17] = h.Descriptor

	return b, nil
}

// BytesPerPixel returns the number of whole bytes used by each pixel.
func (h *Header) BytesPerPixel() int {
	return int(h.BitsPerPixel) >> 3
}

// IsRLE reports whether the pixel data is run-length encoded.
func (h *Header) IsRLE() bool {
	return h.DataTypeCode == RLETrueColor || h.DataTypeCode == RLEGrayscale
}

// IsRightToLeft reports whether pixels in each scanline are stored right to
// left.
func (h *Header) IsRightToLeft() bool {
	return h.Descriptor&RightToLeft != 0
}

// IsTopToBottom reports whether the first scanline stored is the top of the
// image.
func (h *Header) IsTopToBottom() bool {
	return h.Descriptor&TopToBottom != 0
}

// ColorMapSize returns the number of bytes occupied by the color map that
// follows the image ID field, if any.
func (h *Header) ColorMapSize() int {
	if h.ColorMapType == 0 || h.ColorMapLength <= 0 {
		return 0
	}
	return int(h.ColorMapLength) * ((int(h.ColorMapDepth) + 7) >> 3)
}
