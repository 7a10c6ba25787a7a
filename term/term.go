/*
Package term previews a block in a true colour terminal.

Each tile is drawn as two adjacent cells so tiles come out roughly square.
Transparent tiles are drawn as a checkerboard.
*/
package term

import (
	"errors"

	"github.com/bodgit/gravityrun/block"
	"github.com/gdamore/tcell/v2"
)

const cellsPerTile = 2

var (
	errNotInitialized = errors.New("term: block is not initialized")

	checkerLight = tcell.NewRGBColor(0x99, 0x99, 0x99)
	checkerDark  = tcell.NewRGBColor(0x66, 0x66, 0x66)
)

func style(b *block.Block, x, y int) tcell.Style {
	c, err := b.ColorWithAlpha(x, y)
	if err != nil || c.A == 0 {
		if (x+y)%2 == 0 {
			return tcell.StyleDefault.Background(checkerLight)
		}
		return tcell.StyleDefault.Background(checkerDark)
	}
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// Draw draws b onto s with its top-left tile at column col, row row. Tiles
// falling outside the screen are clipped by s.
func Draw(s tcell.Screen, b *block.Block, col, row int) error {
	if !b.IsInitialized() {
		return errNotInitialized
	}
	for x := 0; x < block.TileCount; x++ {
		for y := 0; y < block.TileCount; y++ {
			st := style(b, x, y)
			for i := 0; i < cellsPerTile; i++ {
				s.SetContent(col+x*cellsPerTile+i, row+y, ' ', nil, st)
			}
		}
	}
	return nil
}

// View shows b on s until q, Esc or Ctrl-C is pressed. s must already be
// initialized; View finalizes it before returning.
func View(s tcell.Screen, b *block.Block, title string) error {
	defer s.Fini()

	redraw := func() error {
		s.Clear()
		for i, r := range title {
			s.SetContent(i, 0, r, nil, tcell.StyleDefault.Bold(true))
		}
		if err := Draw(s, b, 0, 1); err != nil {
			return err
		}
		s.Show()
		return nil
	}

	if err := redraw(); err != nil {
		return err
	}

	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
			if err := redraw(); err != nil {
				return err
			}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		}
	}
}

// Show opens the terminal and views b.
func Show(b *block.Block, title string) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	return View(s, b, title)
}
