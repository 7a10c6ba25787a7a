package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(p *Palette, c color.RGBA) int {
	for i, x := range p.colors {
		if x == c {
			return i
		}
	}
	return -1
}

func TestNew(t *testing.T) {
	tables := map[string]struct {
		step int
		len  int
		err  bool
	}{
		"default": {step: 8, len: 33 * 33 * 33},
		"coarse":  {step: 64, len: 5 * 5 * 5},
		"uneven":  {step: 10, len: 26 * 26 * 26},
		"zero":    {step: 0, err: true},
		"fine":    {step: 4, err: true},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			p, err := New(table.step)
			if table.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.len, p.Len())
			assert.Equal(t, table.step, p.Step())
		})
	}
}

func TestGeneration(t *testing.T) {
	p := Default()

	c, err := p.At(0)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, c)

	c, err = p.At(1)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 7, 0xff}, c)

	c, err = p.At(33)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 7, 0, 0xff}, c)

	c, err = p.At(33 * 33)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{7, 0, 0, 0xff}, c)

	c, err = p.At(p.Len() - 1)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c)

	// Regenerating must give an identical table
	assert.Equal(t, p.colors, MustNew(DefaultStep).colors)
}

func TestAtOutOfRange(t *testing.T) {
	p := Default()

	for _, i := range []int{-1, p.Len(), 65535} {
		_, err := p.At(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = p.AtWithAlpha(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = p.RGB(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestIndexOfRoundTrip(t *testing.T) {
	for _, step := range []int{DefaultStep, 10, 64} {
		p := MustNew(step)
		for i := 0; i < p.Len(); i++ {
			c, err := p.At(i)
			require.NoError(t, err)
			if !assert.Equal(t, i, p.IndexOf(c), "step %d index %d", step, i) {
				return
			}
		}
	}
}

func TestIndexOfMatchesScan(t *testing.T) {
	p := Default()

	for r := 0; r < 256; r += 3 {
		for g := 0; g < 256; g += 5 {
			for _, b := range []uint8{0, 1, 7, 8, 15, 128, 254, 255} {
				c := color.RGBA{uint8(r), uint8(g), b, 0xff}
				if !assert.Equal(t, scan(p, c), p.IndexOf(c), "%v", c) {
					return
				}
			}
		}
	}
}

func TestIndexOf(t *testing.T) {
	p := Default()

	tables := map[string]struct {
		c    color.Color
		want int
	}{
		"black":       {c: color.Black, want: 0},
		"white":       {c: color.White, want: p.Len() - 1},
		"off grid":    {c: color.RGBA{1, 0, 0, 0xff}, want: -1},
		"translucent": {c: color.NRGBA{0, 0, 7, 0x80}, want: -1},
		"nrgba":       {c: color.NRGBA{0, 0, 7, 0xff}, want: 1},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, table.want, p.IndexOf(table.c))
			assert.Equal(t, table.want >= 0, p.Contains(table.c))
		})
	}
}

func TestIndexOfRGB(t *testing.T) {
	p := Default()

	i := p.IndexOfRGB(0x00ff00ff)
	require.True(t, i >= 0)
	c, err := p.At(i)
	require.NoError(t, err)
	assert.Equal(t, Transparent, c)

	// Alpha byte is ignored
	assert.Equal(t, i, p.IndexOfRGB(0x12ff00ff))
	assert.Equal(t, -1, p.IndexOfRGB(0x010203))

	rgb, err := p.RGB(i)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffff00ff), rgb)
}

func TestTransparency(t *testing.T) {
	p := Default()

	i := p.IndexOf(Transparent)
	require.True(t, i >= 0)

	c, err := p.At(i)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0x00, 0xff, 0xff}, c)

	c, err = p.AtWithAlpha(i)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{}, c)

	c, err = p.AtWithAlpha(0)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, c)
}

func TestNearest(t *testing.T) {
	p := Default()

	tables := map[string]struct {
		c    color.Color
		want color.RGBA
	}{
		"exact":       {c: color.RGBA{7, 15, 255, 0xff}, want: color.RGBA{7, 15, 255, 0xff}},
		"round down":  {c: color.RGBA{3, 10, 250, 0xff}, want: color.RGBA{0, 7, 247, 0xff}},
		"round up":    {c: color.RGBA{5, 12, 252, 0xff}, want: color.RGBA{7, 15, 255, 0xff}},
		"transparent": {c: color.Transparent, want: Transparent},
		"opaque gray": {c: color.Gray{0x80}, want: color.RGBA{127, 127, 127, 0xff}},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			i := p.Nearest(table.c)
			c, err := p.At(i)
			require.NoError(t, err)
			assert.Equal(t, table.want, c)
			assert.Equal(t, color.Color(table.want), p.Convert(table.c))
		})
	}
}

func TestModel(t *testing.T) {
	var m color.Model = Default()
	assert.True(t, Default().Contains(m.Convert(color.RGBA{100, 150, 200, 0xff})))
}
