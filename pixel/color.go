package pixel

// Channel indices within a packed Color, in the order they are stored on
// disk.
const (
	Blue = iota
	Green
	Red
	Alpha
)

// Color is a packed 32-bit value holding the blue, green, red and alpha
// channels from the least significant byte to the most significant.
// Grayscale pixels only use the blue channel.
type Color uint32

// Pack returns the Color for the given channel values.
func Pack(r, g, b, a uint8) Color {
	return Color(b) | Color(g)<<8 | Color(r)<<16 | Color(a)<<24
}

// Unpack returns the individual channel values of c.
func (c Color) Unpack() (r, g, b, a uint8) {
	return c.Channel(Red), c.Channel(Green), c.Channel(Blue), c.Channel(Alpha)
}

// Channel returns the value of channel i, one of Blue, Green, Red or Alpha.
func (c Color) Channel(i int) uint8 {
	return uint8(c >> (uint(i&3) << 3))
}

// SetChannel returns c with channel i replaced by v.
func (c Color) SetChannel(i int, v uint8) Color {
	shift := uint(i&3) << 3
	return c&^(0xff<<shift) | Color(v)<<shift
}

// Raw returns the channels in on-disk order.
func (c Color) Raw() [4]byte {
	return [4]byte{c.Channel(Blue), c.Channel(Green), c.Channel(Red), c.Channel(Alpha)}
}

// FromRaw packs exactly four bytes in on-disk order into a Color.
func FromRaw(b []byte) (Color, error) {
	if len(b) != 4 {
		return 0, ErrInvalidFormat
	}
	return Color(b[0]) | Color(b[1])<<8 | Color(b[2])<<16 | Color(b[3])<<24, nil
}

// Gray returns a grayscale Color with value v.
func Gray(v uint8) Color {
	return Color(v)
}
