/*
Package sheet renders a block as an image for export, optionally scaled up
and with the tile grid drawn over it.
*/
package sheet

import (
	"errors"
	"io"

	"github.com/bodgit/gravityrun/block"
	"github.com/gogpu/gg"
)

var errNotInitialized = errors.New("sheet: block is not initialized")

// Options control how a block is rendered.
type Options struct {
	// Scale multiplies the block size, values below 1 are treated as 1.
	Scale int
	// Grid draws a line around every tile.
	Grid bool
	// GridColor of the grid lines, the zero value selects half-transparent
	// white.
	GridColor gg.RGBA
	// Background fills the image behind transparent tiles.
	Background gg.RGBA
}

func (o *Options) scale() int {
	if o == nil || o.Scale < 1 {
		return 1
	}
	return o.Scale
}

// Render draws b into a new context. The caller should Close it.
func Render(b *block.Block, o *Options) (*gg.Context, error) {
	if !b.IsInitialized() {
		return nil, errNotInitialized
	}

	s := o.scale()
	size := float64(block.Size * s)

	dc := gg.NewContext(block.Size*s, block.Size*s)
	if o != nil {
		dc.ClearWithColor(o.Background)
	}

	dc.DrawImageEx(gg.ImageBufFromImage(b.Batch()), gg.DrawImageOptions{
		DstWidth:      size,
		DstHeight:     size,
		Interpolation: gg.InterpNearest,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})

	if o != nil && o.Grid {
		c := o.GridColor
		if c == (gg.RGBA{}) {
			c = gg.RGBA{R: 1, G: 1, B: 1, A: 0.5}
		}
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(1)
		step := float64(block.TileSize * s)
		for i := 1; i < block.TileCount; i++ {
			p := float64(i) * step
			dc.DrawLine(p, 0, p, size)
			dc.DrawLine(0, p, size, p)
		}
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, err
		}
	}

	return dc, nil
}

// Encode renders b and writes it to w as a PNG.
func Encode(w io.Writer, b *block.Block, o *Options) error {
	dc, err := Render(b, o)
	if err != nil {
		return err
	}
	defer dc.Close()

	return dc.EncodePNG(w)
}
