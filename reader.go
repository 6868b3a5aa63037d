package tga

import (
	"bufio"
	"image"
	"io"
	"io/ioutil"
	"os"

	"github.com/bodgit/tga/header"
	"github.com/bodgit/tga/pixel"
	"github.com/bodgit/tga/rle"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	h header.Header

	image *Image

	tmp [header.Size]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	if err := d.h.UnmarshalBinary(d.tmp[:]); err != nil {
		return err
	}

	if d.h.BitsPerPixel&7 != 0 || pixel.ValidBytesPerPixel(d.h.BytesPerPixel()) != nil {
		return ErrInvalidFormat
	}

	if d.h.Width == 0 || d.h.Height == 0 {
		return ErrInvalidDimensions
	}

	switch d.h.DataTypeCode {
	case header.RawTrueColor, header.RawGrayscale, header.RLETrueColor, header.RLEGrayscale:
	default:
		return ErrUnsupportedDataType
	}

	return nil
}

// skip discards the image ID and any color map preceding the pixel data
func (d *decoder) skip() error {
	n := int64(d.h.IDLength) + int64(d.h.ColorMapSize())
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(ioutil.Discard, d.r, n); err != nil {
		if err == io.EOF {
			return ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (d *decoder) readPixels() error {
	buf, err := pixel.New(int(d.h.Width), int(d.h.Height), d.h.BytesPerPixel())
	if err != nil {
		return err
	}

	if d.h.IsRLE() {
		err = rle.Decode(d.r, buf)
	} else {
		err = readFull(d.r, buf.Pix)
	}
	if err != nil {
		return err
	}

	// Normalize to a top-left origin
	if !d.h.IsTopToBottom() {
		buf.FlipVertical()
	}
	if d.h.IsRightToLeft() {
		buf.FlipHorizontal()
	}

	h := d.h
	h.Descriptor = h.Descriptor&^header.RightToLeft | header.TopToBottom

	d.image = &Image{
		h:   h,
		buf: buf,
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return ioErr(err)
	}

	if configOnly {
		return nil
	}

	if err := d.skip(); err != nil {
		return ioErr(err)
	}

	return ioErr(d.readPixels())
}

// Decode reads a TGA image from r and returns it as an image.Image. The
// concrete type is *Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a TGA image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	m := Image{buf: &pixel.Buffer{BytesPerPixel: d.h.BytesPerPixel()}}
	return image.Config{
		ColorModel: m.ColorModel(),
		Width:      int(d.h.Width),
		Height:     int(d.h.Height),
	}, nil
}

// Load reads the TGA image stored in file.
func Load(file string) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, ioErr(err)
	}
	defer f.Close()

	var d decoder
	if err := d.decode(bufio.NewReader(f), false); err != nil {
		return nil, err
	}
	return d.image, nil
}
