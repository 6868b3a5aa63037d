package tga

import (
	"bytes"
	"image"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/tga/header"
	"github.com/bodgit/tga/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var footer = append(make([]byte, 8), []byte("TRUEVISION-XFILE.\x00")...)

func TestSaveRed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "red.tga")

	require.NoError(t, Save(file, newFilled(t, 10, 10, RGBA, red), true))

	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)

	want := []byte{0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10, 0, 10, 0, 32, 0x20}
	want = append(want, 0xe3, 0x00, 0x00, 0xff, 0x00)
	want = append(want, footer...)
	assert.Equal(t, want, b)

	m, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 10, m.Width())
	assert.Equal(t, 10, m.Height())
	assert.Equal(t, RGBA, m.Format())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c, err := m.Pixel(x, y)
			require.NoError(t, err)
			assert.Equal(t, red, c)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []Format{Grayscale, RGB, RGBA} {
		for _, compress := range []bool{true, false} {
			m := newGradient(t, 33, 17, f)
			file := filepath.Join(dir, "image.tga")
			require.NoError(t, Save(file, m, compress))

			got, err := Load(file)
			require.NoError(t, err)

			h := got.Header()
			assert.Equal(t, f.dataType(compress), h.DataTypeCode)
			h.DataTypeCode = m.Header().DataTypeCode
			assert.Equal(t, m.Header(), h)
			assert.Equal(t, m.Pix(), got.Pix())
		}
	}
}

func TestSaveRaw(t *testing.T) {
	m := newFilled(t, 2, 1, RGB, pixel.Pack(1, 2, 3, 4))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, &Options{}))

	want := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 1, 0, 24, 0x20, 3, 2, 1, 3, 2, 1}
	want = append(want, footer...)
	assert.Equal(t, want, b.Bytes())
}

func TestSaveGrayscaleRLE(t *testing.T) {
	m := newFilled(t, 3, 1, Grayscale, pixel.Gray(9))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, &Options{RLE: true}))
	assert.Equal(t, byte(header.RLEGrayscale), b.Bytes()[2])
	assert.Equal(t, byte(8), b.Bytes()[16])
	assert.Equal(t, []byte{0x82, 9}, b.Bytes()[header.Size:header.Size+2])
}

// encodeFile builds a file by hand so the orientation bits can be varied
func encodeFile(t *testing.T, h header.Header, pix []byte) []byte {
	t.Helper()
	b, err := h.MarshalBinary()
	require.NoError(t, err)
	return append(b, pix...)
}

func TestDecodeOrientation(t *testing.T) {
	// Stored order of a 2x2 grayscale image
	pix := []byte{1, 2, 3, 4}

	tables := []struct {
		descriptor uint8
		want       []byte
	}{
		{header.TopToBottom, []byte{1, 2, 3, 4}},
		{0, []byte{3, 4, 1, 2}},
		{header.TopToBottom | header.RightToLeft, []byte{2, 1, 4, 3}},
		{header.RightToLeft, []byte{4, 3, 2, 1}},
	}

	for _, table := range tables {
		h := header.Header{
			DataTypeCode: header.RawGrayscale,
			Width:        2,
			Height:       2,
			BitsPerPixel: 8,
			Descriptor:   table.descriptor,
		}
		m, err := Decode(bytes.NewReader(encodeFile(t, h, pix)))
		require.NoError(t, err)

		tm := m.(*Image)
		assert.Equal(t, table.want, tm.Pix(), "descriptor %#02x", table.descriptor)
		assert.Equal(t, uint8(header.TopToBottom), tm.Header().Descriptor)
	}
}

func TestDecodeSkipsIDAndColorMap(t *testing.T) {
	h := header.Header{
		IDLength:       3,
		ColorMapType:   1,
		ColorMapLength: 2,
		ColorMapDepth:  24,
		DataTypeCode:   header.RLETrueColor,
		Width:          2,
		Height:         1,
		BitsPerPixel:   24,
		Descriptor:     header.TopToBottom,
	}
	data := []byte{'a', 'b', 'c', 9, 9, 9, 9, 9, 9, 0x81, 1, 2, 3}

	m, err := Decode(bytes.NewReader(encodeFile(t, h, data)))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 1, 2, 3}, m.(*Image).Pix())
}

func TestDecodeErrors(t *testing.T) {
	valid := header.Header{
		DataTypeCode: header.RawTrueColor,
		Width:        2,
		Height:       2,
		BitsPerPixel: 32,
		Descriptor:   header.TopToBottom,
	}

	tables := []struct {
		name   string
		modify func(*header.Header)
		pix    []byte
		err    error
	}{
		{"16 bit", func(h *header.Header) { h.BitsPerPixel = 16 }, nil, ErrInvalidFormat},
		{"odd bits", func(h *header.Header) { h.BitsPerPixel = 33 }, nil, ErrInvalidFormat},
		{"zero width", func(h *header.Header) { h.Width = 0 }, nil, ErrInvalidDimensions},
		{"zero height", func(h *header.Header) { h.Height = 0 }, nil, ErrInvalidDimensions},
		{"color mapped", func(h *header.Header) { h.DataTypeCode = 1 }, nil, ErrUnsupportedDataType},
		{"rle color mapped", func(h *header.Header) { h.DataTypeCode = 9 }, nil, ErrUnsupportedDataType},
		{"no image", func(h *header.Header) { h.DataTypeCode = header.NoImage }, nil, ErrUnsupportedDataType},
		{"truncated raw", func(h *header.Header) {}, make([]byte, 15), ErrUnexpectedEOF},
		{"truncated rle", func(h *header.Header) { h.DataTypeCode = header.RLETrueColor }, []byte{0x81, 1, 2, 3, 4}, ErrUnexpectedEOF},
		{"rle overflow", func(h *header.Header) { h.DataTypeCode = header.RLETrueColor }, []byte{0x84, 1, 2, 3, 4}, ErrPixelCountOverflow},
		{"truncated id", func(h *header.Header) { h.IDLength = 10 }, []byte{1, 2}, ErrUnexpectedEOF},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			h := valid
			table.modify(&h)
			_, err := Decode(bytes.NewReader(encodeFile(t, h, table.pix)))
			assert.ErrorIs(t, err, table.err)
			assert.NotErrorIs(t, err, ErrIO)
		})
	}
}

func TestDecodeShortHeader(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0, 0, 2}))
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecodeConfig(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, newFilled(t, 7, 3, Grayscale, pixel.Gray(1)), &Options{RLE: true}))

	c, err := DecodeConfig(b)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Width)
	assert.Equal(t, 3, c.Height)
	assert.Equal(t, color.GrayModel, c.ColorModel)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tga"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveUnwritable(t *testing.T) {
	m := newFilled(t, 1, 1, RGB, red)
	err := Save(filepath.Join(t.TempDir(), "missing", "out.tga"), m, true)
	assert.ErrorIs(t, err, ErrIO)
}

func TestEncodeStandardImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 16)
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, src, nil))

	m, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, Grayscale, m.(*Image).Format())
	assert.Equal(t, src.Pix, m.(*Image).Pix())

	opaque := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range opaque.Pix {
		opaque.Pix[i] = 0xff
	}
	b.Reset()
	require.NoError(t, Encode(b, opaque, nil))
	assert.Equal(t, byte(24), b.Bytes()[16])

	b.Reset()
	require.NoError(t, Encode(b, image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil))
	assert.Equal(t, byte(32), b.Bytes()[16])
}

func TestEncodeColors(t *testing.T) {
	m := newGradient(t, 16, 16, RGB)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, &Options{RLE: true, Colors: 4}))

	got, err := Decode(b)
	require.NoError(t, err)

	tm := got.(*Image)
	assert.Equal(t, RGB, tm.Format())
	assert.Equal(t, 16, tm.Width())

	colors := make(map[pixel.Color]struct{})
	for y := 0; y < tm.Height(); y++ {
		for x := 0; x < tm.Width(); x++ {
			c, err := tm.Pixel(x, y)
			require.NoError(t, err)
			colors[c] = struct{}{}
		}
	}
	assert.LessOrEqual(t, len(colors), 4)

	// The source image is not modified
	assert.Equal(t, newGradient(t, 16, 16, RGB).Pix(), m.Pix())
}
