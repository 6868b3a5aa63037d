package rle

import (
	"io"

	"github.com/bodgit/tga/pixel"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r   io.Reader
	buf *pixel.Buffer

	// Number of pixels decoded so far
	n int

	tmp [1]byte
}

func (d *decoder) readPacket() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	count := int(d.tmp[0]&^runFlag) + 1
	if d.n+count > d.buf.Len() {
		return ErrPixelCountOverflow
	}

	bpp := d.buf.BytesPerPixel
	start := d.n * bpp

	if d.tmp[0]&runFlag == 0 {
		if err := readFull(d.r, d.buf.Pix[start:start+count*bpp]); err != nil {
			return err
		}
	} else {
		p := d.buf.Pix[start : start+bpp]
		if err := readFull(d.r, p); err != nil {
			return err
		}
		for i := 1; i < count; i++ {
			copy(d.buf.Pix[start+i*bpp:], p)
		}
	}

	d.n += count

	return nil
}

// Decode reads packets from r until every pixel in b has been filled. It
// does not read beyond the final packet.
func Decode(r io.Reader, b *pixel.Buffer) error {
	d := decoder{r: r, buf: b}
	for d.n < b.Len() {
		if err := d.readPacket(); err != nil {
			return err
		}
	}
	return nil
}
