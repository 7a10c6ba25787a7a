package game

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/layer"
	"github.com/bodgit/gravityrun/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ layer.Layer = new(Game)

func flat() (image.Image, error) {
	m := image.NewNRGBA(image.Rect(0, 0, block.TileCount, block.TileCount))
	for x := 0; x < block.TileCount; x++ {
		for y := 0; y < block.TileCount; y++ {
			c := palette.Transparent
			if y > 11 {
				c = color.RGBA{135, 87, 39, 0xff}
			}
			m.Set(x, y, c)
		}
	}
	return m, nil
}

func TestEnter(t *testing.T) {
	g := New(FromImage(palette.Default(), flat))
	assert.Nil(t, g.Block())

	require.NoError(t, g.Enter())
	require.NotNil(t, g.Block())

	c, err := g.Block().ColorWithAlpha(4, 4)
	require.NoError(t, err)
	assert.Equal(t, palette.TransparentRGBA, c)

	c, err = g.Block().Color(4, 12)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{135, 87, 39, 0xff}, c)

	assert.NoError(t, g.Update(1.0/60))
	g.Exit()
}

func TestEnterErrors(t *testing.T) {
	boom := errors.New("boom")

	g := New(FromImage(nil, func() (image.Image, error) { return nil, boom }))
	assert.Equal(t, boom, g.Enter())

	g = New(FromImage(nil, func() (image.Image, error) { return image.NewNRGBA(image.Rect(0, 0, 8, 8)), nil }))
	assert.ErrorIs(t, g.Enter(), block.ErrImageSize)

	g = New(func() (*block.Block, error) { return block.New(nil), nil })
	assert.Equal(t, errNoBlock, g.Enter())

	var s layer.Stack
	assert.Error(t, s.Add(g))
	assert.Equal(t, 0, s.Len())
}
