/*
Package gravityrun is the GravityRun game: a window showing a stack of
layers, the first of which is the playing field built from blocks of
palette-indexed tiles.
*/
package gravityrun

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log"
	"time"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/game"
	"github.com/bodgit/gravityrun/layer"
	"github.com/bodgit/gravityrun/palette"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Title is the default window title.
	Title = "GravityRun"
	// Width is the default window width.
	Width = 800
	// Height is the default window height.
	Height = 600

	// FlatTile is the image the playing field starts with when no block
	// is selected.
	FlatTile = "tiles/flat.png"
)

var errNoDB = errors.New("gravityrun: no block database")

// GravityRun is the application. It implements ebiten.Game.
type GravityRun struct {
	db      *BlockDB
	logger  *log.Logger
	palette *palette.Palette
	images  *ImageCache
	layers  layer.Stack

	width, height int

	now  func() time.Time
	last time.Time
}

// New returns the application using the block database db, which may be
// nil, and logging to logger. Images are loaded from the embedded assets.
func New(db *BlockDB, logger *log.Logger) *GravityRun {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return &GravityRun{
		db:      db,
		logger:  logger,
		palette: palette.Default(),
		images:  NewImageCache(sub),
		width:   Width,
		height:  Height,
		now:     time.Now,
	}
}

// SetSize sets the logical screen size.
func (g *GravityRun) SetSize(width, height int) {
	g.width, g.height = width, height
}

// Palette returns the palette shared by every block.
func (g *GravityRun) Palette() *palette.Palette {
	return g.palette
}

// Layers returns the layer stack.
func (g *GravityRun) Layers() *layer.Stack {
	return &g.layers
}

// Image returns the named image from the image cache.
func (g *GravityRun) Image(name string) (image.Image, error) {
	return g.images.Get(name)
}

// Start adds the game layer showing the named block from the database, or
// FlatTile if name is empty.
func (g *GravityRun) Start(name string) error {
	source := game.FromImage(g.palette, func() (image.Image, error) {
		return g.Image(FlatTile)
	})

	if name != "" {
		source = func() (*block.Block, error) {
			if g.db == nil {
				return nil, errNoDB
			}
			b, err := g.db.Get(name, g.palette)
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, fmt.Errorf("gravityrun: no block named %q", name)
			}
			return b, nil
		}
	}

	if err := g.layers.Add(game.New(source)); err != nil {
		return err
	}
	g.logger.Printf("Started with %d layer(s)\n", g.layers.Len())
	return nil
}

// Update updates every layer with the time in seconds since the previous
// frame.
func (g *GravityRun) Update() error {
	now := g.now()
	var dt float64
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	return g.layers.Update(dt)
}

// Draw clears the screen and draws every layer.
func (g *GravityRun) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.layers.Draw(screen)
}

// Layout returns the logical screen size regardless of the window size.
func (g *GravityRun) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and runs the frame loop until the window is closed.
func (g *GravityRun) Run(title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(g)
}
