package tile

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/palette"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var errEmpty = errors.New("tile: image is empty")

// Encoder configures how images are converted into blocks.
type Encoder struct {
	// Palette the tiles are snapped to, nil selects palette.Default.
	Palette *palette.Palette

	// Colors, if positive, reduces the image to at most that many colours
	// with a median cut before snapping them to the palette.
	Colors int

	// Scaler resizes images that are not exactly 16 by 16, nil selects
	// draw.NearestNeighbor which keeps pixel art crisp.
	Scaler draw.Scaler
}

// Block converts m into an initialized block.
func (e *Encoder) Block(m image.Image) (*block.Block, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, errEmpty
	}

	r := image.Rect(0, 0, tileX, tileY)

	if b.Dx() != tileX || b.Dy() != tileY {
		scaler := e.Scaler
		if scaler == nil {
			scaler = draw.NearestNeighbor
		}
		dst := image.NewNRGBA(r)
		scaler.Scale(dst, r, m, b, draw.Src, nil)
		m, b = dst, r
	}

	if e.Colors > 0 {
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(r, q.Quantize(make(color.Palette, 0, e.Colors), m))
		draw.Draw(pm, r, m, b.Min, draw.Src)
		m, b = pm, r
	}

	p := e.Palette
	if p == nil {
		p = palette.Default()
	}

	// Snap every pixel to the palette, transparent pixels become the
	// sentinel
	snapped := image.NewNRGBA(r)
	for y := 0; y < tileY; y++ {
		for x := 0; x < tileX; x++ {
			snapped.Set(x, y, p.Convert(m.At(b.Min.X+x, b.Min.Y+y)))
		}
	}

	blk := block.New(p)
	if err := blk.Load(snapped); err != nil {
		return nil, err
	}
	return blk, nil
}

// Encode writes the image m to w as a serialized block.
func (e *Encoder) Encode(w io.Writer, m image.Image) error {
	b, err := e.Block(m)
	if err != nil {
		return err
	}
	return EncodeBlock(w, b)
}

// Encode writes the image m to w as a serialized block using the default
// palette and no colour reduction.
func Encode(w io.Writer, m image.Image) error {
	var e Encoder
	return e.Encode(w, m)
}
