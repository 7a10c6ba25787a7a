/*
Package palette implements the fixed colour table used to store tiles as
16-bit indices rather than RGB values.

The table is generated by stepping each of the red, green and blue channels
from 0 to 256 inclusive in increments of Step, subtracting one and clamping
at zero, with red as the outermost loop and blue as the innermost. With the
default step of 8 this gives 33 values per channel (0, 7, 15, ..., 255) and
33^3 = 35937 colours, which fits into an unsigned 16-bit index.

Persisted tiles only store indices so the generation order and step must
never change.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

// DefaultStep is the channel quantization step of the default palette.
const DefaultStep = 8

const maxEntries = 1 << 16

var (
	// Transparent is the colour reinterpreted as fully transparent when
	// rendering. The table stores it as opaque magenta.
	Transparent = color.RGBA{0xff, 0x00, 0xff, 0xff}

	// TransparentRGBA is what the sentinel is rendered as.
	TransparentRGBA = color.RGBA{}
)

var (
	// ErrIndexOutOfRange is returned when looking up an index not in the
	// table.
	ErrIndexOutOfRange = errors.New("palette: index out of range")
	// ErrNotFound is returned when a colour is not in the table.
	ErrNotFound = errors.New("palette: color not found")
	errBadStep  = errors.New("palette: invalid step")
)

// Palette is an immutable table of quantized colours. It is safe for
// concurrent use.
type Palette struct {
	step   int
	values int // per channel
	colors []color.RGBA

	sentinel int
}

var defaultPalette = MustNew(DefaultStep)

// Default returns the palette generated with DefaultStep.
func Default() *Palette {
	return defaultPalette
}

func channels(step int) int {
	return (256 + step) / step
}

// New generates the palette for the given step.
func New(step int) (*Palette, error) {
	if step < 1 || step > 256 {
		return nil, errBadStep
	}
	n := channels(step)
	if n*n*n > maxEntries {
		return nil, fmt.Errorf("%w: %d colors do not fit into 16 bits", errBadStep, n*n*n)
	}

	p := &Palette{
		step:   step,
		values: n,
		colors: make([]color.RGBA, 0, n*n*n),
	}
	for i := 0; i <= 256; i += step {
		for j := 0; j <= 256; j += step {
			for k := 0; k <= 256; k += step {
				p.colors = append(p.colors, color.RGBA{level(i), level(j), level(k), 0xff})
			}
		}
	}
	p.sentinel = p.IndexOf(Transparent)
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(step int) *Palette {
	p, err := New(step)
	if err != nil {
		panic(err)
	}
	return p
}

func level(v int) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(v - 1)
}

// Step returns the quantization step the palette was generated with.
func (p *Palette) Step() int {
	return p.step
}

// Len returns the number of colours.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the colour stored at index i.
func (p *Palette) At(i int) (color.RGBA, error) {
	if i < 0 || i >= len(p.colors) {
		return color.RGBA{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return p.colors[i], nil
}

// AtWithAlpha is like At but returns TransparentRGBA in place of the
// Transparent sentinel.
func (p *Palette) AtWithAlpha(i int) (color.RGBA, error) {
	c, err := p.At(i)
	if err != nil {
		return c, err
	}
	if c == Transparent {
		return TransparentRGBA, nil
	}
	return c, nil
}

// RGB returns the colour at index i packed as 0xAARRGGBB.
func (p *Palette) RGB(i int) (uint32, error) {
	c, err := p.At(i)
	if err != nil {
		return 0, err
	}
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B), nil
}

// position returns the channel position of v, or -1 if v is not a value the
// generator produces.
func (p *Palette) position(v uint8) int {
	if v == 0 {
		return 0
	}
	if (int(v)+1)%p.step != 0 {
		return -1
	}
	return (int(v) + 1) / p.step
}

// IndexOf returns the first index whose colour equals c, or -1. Only opaque
// colours can match. The result is computed directly from the channel values
// and is the same as scanning the table.
func (p *Palette) IndexOf(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A != 0xff {
		return -1
	}
	return p.indexOf(n.R, n.G, n.B)
}

// IndexOfRGB is like IndexOf for a colour packed as 0xRRGGBB. The top byte is
// ignored.
func (p *Palette) IndexOfRGB(rgb uint32) int {
	return p.indexOf(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}

func (p *Palette) indexOf(r, g, b uint8) int {
	ri, gi, bi := p.position(r), p.position(g), p.position(b)
	if ri < 0 || gi < 0 || bi < 0 {
		return -1
	}
	return (ri*p.values+gi)*p.values + bi
}

// Contains reports whether c is in the table.
func (p *Palette) Contains(c color.Color) bool {
	return p.IndexOf(c) >= 0
}

func (p *Palette) nearest(v uint8) int {
	i := (int(v) + 1 + p.step/2) / p.step
	if i >= p.values {
		i = p.values - 1
	}
	// level(0) is 0 rather than -1 so the bottom of the scale is uneven
	if i > 0 && absDiff(v, p.colors[i*p.values*p.values].R) > absDiff(v, p.colors[(i-1)*p.values*p.values].R) {
		i--
	}
	return i
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Nearest returns the index of the table colour closest to c. Fully
// transparent colours map to the Transparent sentinel when the table
// contains it.
func (p *Palette) Nearest(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 && p.sentinel >= 0 {
		return p.sentinel
	}
	return (p.nearest(n.R)*p.values+p.nearest(n.G))*p.values + p.nearest(n.B)
}

// Convert returns the table colour closest to c, so a Palette can be used as
// a color.Model.
func (p *Palette) Convert(c color.Color) color.Color {
	return p.colors[p.Nearest(c)]
}
