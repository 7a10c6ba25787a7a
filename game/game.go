// Package game implements the layer that shows the playing field.
package game

import (
	"errors"
	"image"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/palette"
	"github.com/hajimehoshi/ebiten/v2"
)

var errNoBlock = errors.New("game: source returned no block")

// Source supplies the block shown by a Game.
type Source func() (*block.Block, error)

// FromImage returns a Source that loads the image returned by load into a
// new block using palette p.
func FromImage(p *palette.Palette, load func() (image.Image, error)) Source {
	return func() (*block.Block, error) {
		m, err := load()
		if err != nil {
			return nil, err
		}
		b := block.New(p)
		if err := b.Load(m); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// Game is the central layer of the game. It implements layer.Layer.
type Game struct {
	source Source
	block  *block.Block

	// Block batch uploaded to the GPU and the revision it was taken at
	image *ebiten.Image
	rev   uint64
}

// New returns a Game showing the block from source once entered.
func New(source Source) *Game {
	return &Game{
		source: source,
	}
}

// Block returns the block being shown, nil until the Game is entered.
func (g *Game) Block() *block.Block {
	return g.block
}

// Enter loads the block.
func (g *Game) Enter() error {
	b, err := g.source()
	if err != nil {
		return err
	}
	if b == nil || !b.IsInitialized() {
		return errNoBlock
	}
	g.block = b
	return nil
}

// Exit releases the uploaded image.
func (g *Game) Exit() {
	if g.image != nil {
		g.image.Deallocate()
		g.image = nil
	}
	g.rev = 0
}

// Update does nothing yet.
func (g *Game) Update(dt float64) error {
	return nil
}

// Draw draws the block batch at the block position, uploading it again
// whenever it has changed.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.block == nil {
		return
	}

	if g.image == nil {
		g.image = ebiten.NewImage(block.Size, block.Size)
		g.rev = 0
	}
	if rev := g.block.Revision(); rev != g.rev {
		g.image.WritePixels(g.block.Batch().Pix)
		g.rev = rev
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(g.block.X(), g.block.Y())
	screen.DrawImage(g.image, op)
}
