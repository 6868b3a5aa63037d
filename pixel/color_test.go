package pixel

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorRaw(t *testing.T) {
	for _, v := range []uint32{0xfaffaadd, 0xff434411, 0x00ff0000} {
		var want [4]byte
		binary.LittleEndian.PutUint32(want[:], v)
		assert.Equal(t, want, Color(v).Raw())
	}
}

func TestFromRaw(t *testing.T) {
	for _, raw := range [][]byte{{1, 2, 3, 4}, {4, 65, 123, 42}, {255, 23, 63, 76}} {
		c, err := FromRaw(raw)
		require.NoError(t, err)
		got := c.Raw()
		assert.Equal(t, raw, got[:])
	}

	for _, raw := range [][]byte{{1, 2, 3, 4, 14, 22, 32}, {4, 65}, nil} {
		_, err := FromRaw(raw)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	}
}

func TestChannel(t *testing.T) {
	tables := []struct {
		c       Color
		channel int
		want    uint8
	}{
		{0xf0ffaa3c, Alpha, 0xf0},
		{0x1f434224, Alpha, 0x1f},
		{0xf0ffa1c0, Red, 0xff},
		{0x1f434423, Red, 0x43},
		{0xf0ff0a1c, Green, 0x0a},
		{0x1f3748c7, Green, 0x48},
		{0xf0ffa43c, Blue, 0x3c},
		{0x0043c26d, Blue, 0x6d},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, table.c.Channel(table.channel), "%#08x", uint32(table.c))
	}
}

func TestSetChannel(t *testing.T) {
	for _, channel := range []int{Blue, Green, Red, Alpha} {
		for _, v := range []uint8{0, 7, 124, 201, 254} {
			c := Color(0x5a5a5a5a).SetChannel(channel, v)
			assert.Equal(t, v, c.Channel(channel))
			for other := Blue; other <= Alpha; other++ {
				if other != channel {
					assert.Equal(t, uint8(0x5a), c.Channel(other))
				}
			}
		}
	}
}

func TestPackUnpack(t *testing.T) {
	c := Pack(0xff, 0x00, 0x00, 0x00)
	assert.Equal(t, Color(0x00ff0000), c)
	assert.Equal(t, [4]byte{0x00, 0x00, 0xff, 0x00}, c.Raw())

	r, g, b, a := Pack(1, 2, 3, 4).Unpack()
	assert.Equal(t, []uint8{1, 2, 3, 4}, []uint8{r, g, b, a})

	assert.Equal(t, uint8(0x80), Gray(0x80).Channel(Blue))
}
