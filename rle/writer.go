package rle

import (
	"bytes"
	"io"

	"github.com/bodgit/tga/pixel"
)

type encoder struct {
	w   io.Writer
	buf *pixel.Buffer
}

func (e *encoder) pixel(i int) []byte {
	bpp := e.buf.BytesPerPixel
	return e.buf.Pix[i*bpp : (i+1)*bpp]
}

// packet returns the length of the packet starting at pixel i and whether
// it is a run. The kind is fixed by comparing the first two pixels; a raw
// packet stops short of any repeated pair so that it can start the next run
// packet.
func (e *encoder) packet(i int) (int, bool) {
	n := e.buf.Len()
	length, run := 1, false
	for i+length < n && length < maxPacket {
		same := bytes.Equal(e.pixel(i+length-1), e.pixel(i+length))
		if length == 1 {
			run = same
		}
		if !run && same {
			length--
			break
		}
		if run && !same {
			break
		}
		length++
	}
	return length, run
}

func (e *encoder) encode() error {
	bpp := e.buf.BytesPerPixel
	for i := 0; i < e.buf.Len(); {
		length, run := e.packet(i)

		var err error
		if run {
			_, err = e.w.Write(append([]byte{runFlag | byte(length-1)}, e.pixel(i)...))
		} else {
			_, err = e.w.Write(append([]byte{byte(length - 1)}, e.buf.Pix[i*bpp:(i+length)*bpp]...))
		}
		if err != nil {
			return err
		}

		i += length
	}
	return nil
}

// Encode writes every pixel in b to w as a sequence of packets.
func Encode(w io.Writer, b *pixel.Buffer) error {
	e := encoder{w: w, buf: b}
	return e.encode()
}
