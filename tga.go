/*
Package tga implements a Truevision TGA image decoder and encoder.

Only true-color and grayscale images are supported, either uncompressed
(data types 2 and 3) or run-length encoded (data types 10 and 11), with 8, 24
or 32 bits per pixel. Color-mapped images are not supported.

The file is written as an 18 byte header, followed by the pixel data and
finally a TGA 2.0 footer consisting of zeroed extension and developer area
offsets and the "TRUEVISION-XFILE." signature. Images are always written with
a top-left origin; when decoding, the orientation bits of the header are
honoured so that the in-memory image always has its origin in the top-left
corner.
*/
package tga

import (
	"errors"
	"fmt"

	"github.com/bodgit/tga/header"
	"github.com/bodgit/tga/pixel"
	"github.com/bodgit/tga/rle"
)

// Format describes the number of bytes used by each pixel.
type Format int

// Supported formats. None is never valid and exists as the zero value.
const (
	None      Format = 0
	Grayscale Format = 1
	RGB       Format = 3
	RGBA      Format = 4
)

func (f Format) String() string {
	switch f {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f Format) dataType(compress bool) uint8 {
	switch {
	case f == Grayscale && compress:
		return header.RLEGrayscale
	case f == Grayscale:
		return header.RawGrayscale
	case compress:
		return header.RLETrueColor
	default:
		return header.RawTrueColor
	}
}

var (
	// ErrInvalidDimensions is returned for a width or height outside 1
	// to 65535.
	ErrInvalidDimensions = pixel.ErrInvalidDimensions
	// ErrInvalidFormat is returned when the bytes per pixel are not 1, 3
	// or 4.
	ErrInvalidFormat = pixel.ErrInvalidFormat
	// ErrOutOfBounds is returned when accessing a pixel outside the
	// image.
	ErrOutOfBounds = pixel.ErrOutOfBounds
	// ErrSizeMismatch is returned when a header is not exactly 18 bytes.
	ErrSizeMismatch = header.ErrSizeMismatch
	// ErrUnexpectedEOF is returned when the pixel data is truncated.
	ErrUnexpectedEOF = rle.ErrUnexpectedEOF
	// ErrPixelCountOverflow is returned when RLE data describes more
	// pixels than the image holds.
	ErrPixelCountOverflow = rle.ErrPixelCountOverflow
	// ErrUnsupportedDataType is returned for any data type other than 2,
	// 3, 10 or 11.
	ErrUnsupportedDataType = errors.New("tga: unsupported data type")
	// ErrIO is matched by any error caused by the underlying file or
	// stream.
	ErrIO = errors.New("tga: i/o failure")
)

type ioError struct {
	err error
}

func (e *ioError) Error() string {
	return "tga: " + e.err.Error()
}

func (e *ioError) Unwrap() error {
	return e.err
}

func (e *ioError) Is(target error) bool {
	return target == ErrIO
}

var sentinels = []error{
	ErrInvalidDimensions,
	ErrInvalidFormat,
	ErrOutOfBounds,
	ErrSizeMismatch,
	ErrUnexpectedEOF,
	ErrPixelCountOverflow,
	ErrUnsupportedDataType,
	ErrIO,
}

// ioErr wraps err so that it matches ErrIO unless it is already one of the
// package errors.
func ioErr(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}
	return &ioError{err}
}

const (
	extensionSize = 8
	signature     = "TRUEVISION-XFILE.\x00"
)
