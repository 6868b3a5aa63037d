/*
Package pixel implements the packed pixel buffer that backs a TGA image.

Pixels are stored row-major from the top-left corner, each pixel occupying
1, 3 or 4 bytes in blue, green, red, alpha order. A pixel is read and written
through a Color which always holds four channels; only as many bytes as the
buffer uses per pixel are copied.
*/
package pixel

import "errors"

// MaxDimension is the largest width or height a 16-bit header can describe.
const MaxDimension = 1<<16 - 1

var (
	// ErrInvalidDimensions is returned when a width or height is outside
	// 1 to MaxDimension.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")
	// ErrInvalidFormat is returned for anything other than 1, 3 or 4
	// bytes per pixel.
	ErrInvalidFormat = errors.New("pixel: invalid format")
	// ErrOutOfBounds is returned when accessing a pixel outside the
	// buffer.
	ErrOutOfBounds = errors.New("pixel: coordinate out of bounds")
)

// ValidDimensions returns ErrInvalidDimensions unless both width and height
// are within 1 to MaxDimension.
func ValidDimensions(width, height int) error {
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return ErrInvalidDimensions
	}
	return nil
}

// ValidBytesPerPixel returns ErrInvalidFormat unless bpp is 1, 3 or 4.
func ValidBytesPerPixel(bpp int) error {
	switch bpp {
	case 1, 3, 4:
		return nil
	default:
		return ErrInvalidFormat
	}
}

// Buffer holds the pixels of an image.
type Buffer struct {
	// Pix holds the pixels, Width*BytesPerPixel bytes per scanline.
	Pix           []byte
	Width, Height int
	BytesPerPixel int
}

// New returns a zeroed Buffer of the given size.
func New(width, height, bpp int) (*Buffer, error) {
	if err := ValidDimensions(width, height); err != nil {
		return nil, err
	}
	if err := ValidBytesPerPixel(bpp); err != nil {
		return nil, err
	}
	return &Buffer{
		Pix:           make([]byte, width*height*bpp),
		Width:         width,
		Height:        height,
		BytesPerPixel: bpp,
	}, nil
}

// Stride returns the number of bytes in each scanline.
func (b *Buffer) Stride() int {
	return b.Width * b.BytesPerPixel
}

// Len returns the number of pixels in the buffer.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

func (b *Buffer) offset(x, y int) (int, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return 0, ErrOutOfBounds
	}
	return (y*b.Width + x) * b.BytesPerPixel, nil
}

// At returns the color of the pixel at (x, y). Channels beyond the bytes
// per pixel of the buffer are zero.
func (b *Buffer) At(x, y int) (Color, error) {
	i, err := b.offset(x, y)
	if err != nil {
		return 0, err
	}
	var raw [4]byte
	copy(raw[:b.BytesPerPixel], b.Pix[i:])
	return FromRaw(raw[:])
}

// Set sets the pixel at (x, y) to c.
func (b *Buffer) Set(x, y int, c Color) error {
	i, err := b.offset(x, y)
	if err != nil {
		return err
	}
	raw := c.Raw()
	copy(b.Pix[i:i+b.BytesPerPixel], raw[:])
	return nil
}

// Clear sets every pixel to zero.
func (b *Buffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = 0
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	dup := *b
	dup.Pix = append([]byte(nil), b.Pix...)
	return &dup
}

// FlipHorizontal mirrors each scanline in place.
func (b *Buffer) FlipHorizontal() {
	bpp := b.BytesPerPixel
	var tmp [4]byte
	for y := 0; y < b.Height; y++ {
		line := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		for i := 0; i < b.Width>>1; i++ {
			l := line[i*bpp : (i+1)*bpp]
			r := line[(b.Width-1-i)*bpp : (b.Width-i)*bpp]
			copy(tmp[:bpp], l)
			copy(l, r)
			copy(r, tmp[:bpp])
		}
	}
}

// FlipVertical swaps scanlines top to bottom in place.
func (b *Buffer) FlipVertical() {
	stride := b.Stride()
	tmp := make([]byte, stride)
	for i := 0; i < b.Height>>1; i++ {
		top := b.Pix[i*stride : (i+1)*stride]
		bottom := b.Pix[(b.Height-1-i)*stride : (b.Height-i)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
