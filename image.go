package tga

import (
	"image"
	"image/color"

	"github.com/bodgit/tga/header"
	"github.com/bodgit/tga/pixel"
)

// Image is an in-memory TGA image with its origin in the top-left corner.
// It owns its pixels; nothing returned by its methods aliases them.
//
// Image implements the image.Image and draw.Image interfaces so it can be
// used with the standard library codecs and draw.Draw.
type Image struct {
	h   header.Header
	buf *pixel.Buffer
}

// NewImage returns a new zeroed Image.
func NewImage(width, height int, f Format) (*Image, error) {
	buf, err := pixel.New(width, height, int(f))
	if err != nil {
		return nil, err
	}
	return &Image{
		h: header.Header{
			DataTypeCode: f.dataType(false),
			Width:        uint16(width),
			Height:       uint16(height),
			BitsPerPixel: uint8(f) << 3,
			Descriptor:   header.TopToBottom,
		},
		buf: buf,
	}, nil
}

// NewImageFromHeader returns a new zeroed Image sized and formatted
// according to h. The header is retained as-is and returned by Header.
func NewImageFromHeader(h *header.Header) (*Image, error) {
	if err := pixel.ValidBytesPerPixel(h.BytesPerPixel()); err != nil || h.BitsPerPixel&7 != 0 {
		return nil, ErrInvalidFormat
	}
	buf, err := pixel.New(int(h.Width), int(h.Height), h.BytesPerPixel())
	if err != nil {
		return nil, err
	}
	return &Image{
		h:   *h,
		buf: buf,
	}, nil
}

// Header returns a copy of the header describing m.
func (m *Image) Header() header.Header {
	return m.h
}

// Width returns the width of m in pixels.
func (m *Image) Width() int {
	return m.buf.Width
}

// Height returns the height of m in pixels.
func (m *Image) Height() int {
	return m.buf.Height
}

// Format returns the pixel format of m.
func (m *Image) Format() Format {
	return Format(m.buf.BytesPerPixel)
}

// Pix returns a copy of the raw pixel data, row-major from the top-left
// corner in blue, green, red, alpha order.
func (m *Image) Pix() []byte {
	return append([]byte(nil), m.buf.Pix...)
}

// Pixel returns the color at (x, y).
func (m *Image) Pixel(x, y int) (pixel.Color, error) {
	return m.buf.At(x, y)
}

// SetPixel sets the color at (x, y).
func (m *Image) SetPixel(x, y int, c pixel.Color) error {
	return m.buf.Set(x, y, c)
}

// Clear sets every pixel to zero.
func (m *Image) Clear() {
	m.buf.Clear()
}

// FlipHorizontal mirrors the image left to right.
func (m *Image) FlipHorizontal() {
	m.buf.FlipHorizontal()
}

// FlipVertical mirrors the image top to bottom.
func (m *Image) FlipVertical() {
	m.buf.FlipVertical()
}

// Scale resizes m to width by height. On error m is unchanged.
func (m *Image) Scale(width, height int) error {
	buf, err := m.buf.Scale(width, height)
	if err != nil {
		return err
	}
	m.buf = buf
	m.h.Width, m.h.Height = uint16(width), uint16(height)
	return nil
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	return &Image{
		h:   m.h,
		buf: m.buf.Clone(),
	}
}

// ColorModel returns color.GrayModel for grayscale images and
// color.NRGBAModel otherwise.
func (m *Image) ColorModel() color.Model {
	if m.Format() == Grayscale {
		return color.GrayModel
	}
	return color.NRGBAModel
}

// Bounds returns the domain for which At can return non-zero color.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.buf.Width, m.buf.Height)
}

// At returns the color of the pixel at (x, y). RGB images are reported as
// fully opaque.
func (m *Image) At(x, y int) color.Color {
	c, err := m.buf.At(x, y)
	switch {
	case m.Format() == Grayscale:
		if err != nil {
			return color.Gray{}
		}
		return color.Gray{Y: c.Channel(pixel.Blue)}
	case err != nil:
		return color.NRGBA{}
	}

	r, g, b, a := c.Unpack()
	if m.Format() == RGB {
		a = 0xff
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Set sets the pixel at (x, y) to c converted to the color model of m.
// Points outside the image are ignored.
func (m *Image) Set(x, y int, c color.Color) {
	var p pixel.Color
	switch v := m.ColorModel().Convert(c).(type) {
	case color.Gray:
		p = pixel.Gray(v.Y)
	case color.NRGBA:
		p = pixel.Pack(v.R, v.G, v.B, v.A)
	}
	_ = m.buf.Set(x, y, p)
}

// Opaque reports whether every pixel is fully opaque.
func (m *Image) Opaque() bool {
	if m.Format() != RGBA {
		return true
	}
	for i := pixel.Alpha; i < len(m.buf.Pix); i += 4 {
		if m.buf.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
