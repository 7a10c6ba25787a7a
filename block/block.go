/*
Package block implements a fixed square region of tiles.

Each tile stores the index of its colour in a palette rather than the colour
itself. A block keeps a pre-rendered RGBA batch of TileCount*TileSize pixels
square which is updated tile by tile as indices change, so drawing a block is
a single blit.

A block must be initialized with Init before it is read or written;
Deserialize and Load initialize the block themselves.
*/
package block

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/gravityrun/palette"
)

const (
	// TileSize is the number of pixels along the edge of a tile.
	TileSize = 16
	// TileCount is the number of tiles along the edge of a block.
	TileCount = 16
	// Size is the number of pixels along the edge of a block.
	Size     = TileCount * TileSize
	numTiles = TileCount * TileCount
)

var (
	// ErrOutOfBounds is returned for tile coordinates outside the block.
	ErrOutOfBounds = errors.New("block: coordinates out of bounds")
	// ErrNotInitialized is returned when using a block before Init.
	ErrNotInitialized = errors.New("block: not initialized")
	// ErrImageSize is returned by Load for images that are not exactly
	// TileCount pixels square.
	ErrImageSize = errors.New("block: invalid image size")
)

// Block is a TileCount by TileCount grid of palette indices with a cached
// rendering. A Block is not safe for concurrent use.
type Block struct {
	x, y float64

	palette *palette.Palette

	// Indexed by x*TileCount + y
	tiles []uint16
	batch *image.RGBA
	rev   uint64
}

// New returns an uninitialized block using palette p. A nil palette selects
// palette.Default.
func New(p *palette.Palette) *Block {
	return &Block{
		palette: p,
	}
}

// Palette returns the palette the block resolves indices with.
func (b *Block) Palette() *palette.Palette {
	if b.palette == nil {
		return palette.Default()
	}
	return b.palette
}

// Init allocates the tiles, all set to index 0, and the batch. It does
// nothing if the block is already initialized.
func (b *Block) Init() {
	if b.IsInitialized() {
		return
	}

	b.tiles = make([]uint16, numTiles)
	b.batch = image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(b.batch, b.batch.Rect, &image.Uniform{b.resolve(0)}, image.Point{}, draw.Src)
	b.rev++
}

// IsInitialized returns true if Init has been called.
func (b *Block) IsInitialized() bool {
	return b.tiles != nil && b.batch != nil
}

func (b *Block) check(x, y int) error {
	if !b.IsInitialized() {
		return ErrNotInitialized
	}
	if x < 0 || y < 0 || x >= TileCount || y >= TileCount {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return nil
}

// resolve returns the colour a tile with index i is rendered as. Indices
// beyond the palette render as transparent.
func (b *Block) resolve(i uint16) color.RGBA {
	c, err := b.Palette().AtWithAlpha(int(i))
	if err != nil {
		return palette.TransparentRGBA
	}
	return c
}

func (b *Block) set(x, y int, i uint16) {
	old := b.tiles[x*TileCount+y]
	b.tiles[x*TileCount+y] = i

	if c := b.resolve(i); c != b.resolve(old) {
		r := image.Rect(x*TileSize, y*TileSize, (x+1)*TileSize, (y+1)*TileSize)
		draw.Draw(b.batch, r, &image.Uniform{c}, image.Point{}, draw.Src)
		b.rev++
	}
}

// Set sets the palette index of the tile at x, y.
func (b *Block) Set(x, y int, i uint16) error {
	if err := b.check(x, y); err != nil {
		return err
	}
	b.set(x, y, i)
	return nil
}

func (b *Block) indexOf(c color.Color) (uint16, error) {
	i := b.Palette().IndexOf(c)
	if i < 0 {
		return 0, fmt.Errorf("%w: %v", palette.ErrNotFound, c)
	}
	return uint16(i), nil
}

// SetColor sets the tile at x, y to colour c which must be in the palette.
func (b *Block) SetColor(x, y int, c color.Color) error {
	i, err := b.indexOf(c)
	if err != nil {
		return err
	}
	return b.Set(x, y, i)
}

// SetRegion sets every tile in the width by height rectangle with its
// top-left corner at x, y. The whole rectangle is checked before any tile
// is changed.
func (b *Block) SetRegion(x, y, width, height int, i uint16) error {
	if err := b.check(x, y); err != nil {
		return err
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d region", ErrOutOfBounds, width, height)
	}
	if err := b.check(x+width-1, y+height-1); err != nil {
		return err
	}

	for dx := 0; dx < width; dx++ {
		for dy := 0; dy < height; dy++ {
			b.set(x+dx, y+dy, i)
		}
	}
	return nil
}

// SetRegionColor is like SetRegion but with a colour from the palette.
func (b *Block) SetRegionColor(x, y, width, height int, c color.Color) error {
	i, err := b.indexOf(c)
	if err != nil {
		return err
	}
	return b.SetRegion(x, y, width, height, i)
}

// Get returns the palette index of the tile at x, y.
func (b *Block) Get(x, y int) (uint16, error) {
	if err := b.check(x, y); err != nil {
		return 0, err
	}
	return b.tiles[x*TileCount+y], nil
}

// Color returns the palette colour of the tile at x, y.
func (b *Block) Color(x, y int) (color.RGBA, error) {
	i, err := b.Get(x, y)
	if err != nil {
		return color.RGBA{}, err
	}
	return b.Palette().At(int(i))
}

// ColorWithAlpha is like Color but the transparency sentinel is returned as
// a transparent colour.
func (b *Block) ColorWithAlpha(x, y int) (color.RGBA, error) {
	i, err := b.Get(x, y)
	if err != nil {
		return color.RGBA{}, err
	}
	return b.Palette().AtWithAlpha(int(i))
}

// All returns the tile indices, indexed by x*TileCount + y. The slice is
// shared with the block and is nil before Init. Writing to it directly
// bypasses the batch.
func (b *Block) All() []uint16 {
	return b.tiles
}

// Load sets every tile from the pixel at the same position in m, which must
// be exactly TileCount pixels square. Fully transparent pixels select the
// transparency sentinel, any other pixel must be a palette colour.
func (b *Block) Load(m image.Image) error {
	r := m.Bounds()
	if r.Dx() != TileCount || r.Dy() != TileCount {
		return fmt.Errorf("%w: %dx%d", ErrImageSize, r.Dx(), r.Dy())
	}

	p := b.Palette()
	var tiles [numTiles]uint16
	for x := 0; x < TileCount; x++ {
		for y := 0; y < TileCount; y++ {
			c := m.At(r.Min.X+x, r.Min.Y+y)
			if _, _, _, a := c.RGBA(); a == 0 {
				c = palette.Transparent
			}
			i := p.IndexOf(c)
			if i < 0 {
				return fmt.Errorf("%w: %v at (%d, %d)", palette.ErrNotFound, c, x, y)
			}
			tiles[x*TileCount+y] = uint16(i)
		}
	}

	b.fill(tiles[:])
	return nil
}

// fill initializes the block and writes every tile through set so the batch
// stays in step.
func (b *Block) fill(tiles []uint16) {
	b.Init()
	for x := 0; x < TileCount; x++ {
		for y := 0; y < TileCount; y++ {
			b.set(x, y, tiles[x*TileCount+y])
		}
	}
}

// Batch returns the pre-rendered block, Size pixels square, or nil before
// Init.
func (b *Block) Batch() *image.RGBA {
	return b.batch
}

// Revision returns a counter that changes whenever the batch changes.
func (b *Block) Revision() uint64 {
	return b.rev
}

// Thumbnail returns an image with one opaque pixel per tile holding its
// palette colour. Indices beyond the palette are transparent.
func (b *Block) Thumbnail() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, TileCount, TileCount))
	if !b.IsInitialized() {
		return m
	}
	p := b.Palette()
	for x := 0; x < TileCount; x++ {
		for y := 0; y < TileCount; y++ {
			if c, err := p.At(int(b.tiles[x*TileCount+y])); err == nil {
				m.Set(x, y, c)
			}
		}
	}
	return m
}

// X returns the horizontal screen position.
func (b *Block) X() float64 {
	return b.x
}

// Y returns the vertical screen position.
func (b *Block) Y() float64 {
	return b.y
}

// SetX sets the horizontal screen position.
func (b *Block) SetX(x float64) {
	b.x = x
}

// SetY sets the vertical screen position.
func (b *Block) SetY(y float64) {
	b.y = y
}

// SetPosition sets both screen coordinates.
func (b *Block) SetPosition(x, y float64) {
	b.x, b.y = x, y
}
