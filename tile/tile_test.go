package tile

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			m.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 0x80, 0xff})
		}
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	p := palette.Default()
	m := image.NewNRGBA(image.Rect(0, 0, tileX, tileY))
	for x := 0; x < tileX; x++ {
		for y := 0; y < tileY; y++ {
			c, err := p.At(x*tileY + y + 500)
			require.NoError(t, err)
			m.Set(x, y, c)
		}
	}
	m.Set(0, 0, palette.Transparent)

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, m))
	assert.True(t, strings.HasPrefix(buf.String(), "eN"))

	out, format, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "gravityrun", format)
	assert.Equal(t, m, out)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "gravityrun", format)
	assert.Equal(t, tileX, cfg.Width)
	assert.Equal(t, tileY, cfg.Height)
}

func TestEncodeScales(t *testing.T) {
	e := Encoder{}
	b, err := e.Block(gradient(64, 32))
	require.NoError(t, err)

	p := palette.Default()
	for x := 0; x < tileX; x++ {
		for y := 0; y < tileY; y++ {
			c, err := b.Color(x, y)
			require.NoError(t, err)
			assert.True(t, p.Contains(c))
		}
	}

	// Red increases left to right, green top to bottom
	left, err := b.Color(0, 8)
	require.NoError(t, err)
	right, err := b.Color(15, 8)
	require.NoError(t, err)
	assert.True(t, left.R < right.R)

	top, err := b.Color(8, 0)
	require.NoError(t, err)
	bottom, err := b.Color(8, 15)
	require.NoError(t, err)
	assert.True(t, top.G < bottom.G)
}

func TestEncodeColors(t *testing.T) {
	e := Encoder{Colors: 4}
	b, err := e.Block(gradient(tileX, tileY))
	require.NoError(t, err)

	unique := make(map[uint16]struct{})
	for _, i := range b.All() {
		unique[i] = struct{}{}
	}
	assert.True(t, len(unique) <= 4, "%d colors", len(unique))
}

func TestEncodeTransparent(t *testing.T) {
	m := gradient(tileX, tileY)
	m.Set(3, 3, color.Transparent)

	b, err := (&Encoder{}).Block(m)
	require.NoError(t, err)

	c, err := b.ColorWithAlpha(3, 3)
	require.NoError(t, err)
	assert.Equal(t, palette.TransparentRGBA, c)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), image.NewNRGBA(image.Rectangle{})))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("eNotvalid"))
	assert.ErrorIs(t, err, block.ErrFormat)

	_, err = DecodeConfig(strings.NewReader(""))
	assert.ErrorIs(t, err, block.ErrFormat)

	_, err = Decode(strings.NewReader(strings.Repeat("A", maxText+1)))
	assert.Equal(t, errTooMuch, err)
}

func TestDecodeBlock(t *testing.T) {
	b := block.New(nil)
	b.Init()
	require.NoError(t, b.SetRegion(2, 2, 4, 4, 1000))

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeBlock(buf, b))
	buf.WriteString("\n")

	c, err := DecodeBlock(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, b.All(), c.All())
}
