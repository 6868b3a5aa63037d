package tga

import (
	"bufio"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/bodgit/tga/header"
	"github.com/bodgit/tga/rle"
	"github.com/ericpauley/go-quantize/quantize"
)

// Options are the encoding parameters.
type Options struct {
	// RLE selects data type 10 or 11 rather than 2 or 3.
	RLE bool
	// Colors, if non-zero, reduces the image to at most this many
	// distinct colors before encoding. Fewer colors produce longer runs
	// and so smaller RLE output.
	Colors int
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *Image, compress bool) error {
	h := header.Header{
		DataTypeCode: m.Format().dataType(compress),
		Width:        uint16(m.Width()),
		Height:       uint16(m.Height()),
		BitsPerPixel: uint8(m.Format()) << 3,
		Descriptor:   header.TopToBottom,
	}

	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := e.w.Write(b); err != nil {
		return err
	}

	if compress {
		err = rle.Encode(e.w, m.buf)
	} else {
		_, err = e.w.Write(m.buf.Pix)
	}
	if err != nil {
		return err
	}

	// Developer and extension area offsets, both unused
	if _, err := e.w.Write(make([]byte, extensionSize)); err != nil {
		return err
	}

	_, err = io.WriteString(e.w, signature)

	return err
}

// formatOf picks the smallest format that can represent m.
func formatOf(m image.Image) Format {
	if v, ok := m.(*Image); ok {
		return v.Format()
	}
	if m.ColorModel() == color.GrayModel {
		return Grayscale
	}
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		return RGB
	}
	return RGBA
}

// FromImage converts any image into an Image of format f with its origin
// moved to (0, 0).
func FromImage(m image.Image, f Format) (*Image, error) {
	b := m.Bounds()
	dst, err := NewImage(b.Dx(), b.Dy(), f)
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst, nil
}

func reduce(m image.Image, colors int) image.Image {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes the Image m to w in TGA format. A nil *Options writes
// uncompressed data.
func Encode(w io.Writer, m image.Image, o *Options) error {
	if o == nil {
		o = &Options{}
	}

	f := formatOf(m)

	tm, _ := m.(*Image)
	if o.Colors > 0 {
		m = reduce(m, o.Colors)
		tm = nil
	}
	if tm == nil {
		var err error
		if tm, err = FromImage(m, f); err != nil {
			return err
		}
	}

	e := encoder{w: w}

	return ioErr(e.encode(tm, o.RLE))
}

// Save writes m to file, replacing any existing file. If compress is true
// the pixel data is run-length encoded.
func Save(file string, m *Image, compress bool) error {
	f, err := os.Create(file)
	if err != nil {
		return ioErr(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	e := encoder{w: w}
	if err := e.encode(m, compress); err != nil {
		return ioErr(err)
	}
	if err := w.Flush(); err != nil {
		return ioErr(err)
	}

	return ioErr(f.Close())
}
