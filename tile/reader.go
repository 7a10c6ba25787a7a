package tile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/palette"
)

var errTooMuch = errors.New("tile: too much data")

func init() {
	image.RegisterFormat("gravityrun", "eN", Decode, DecodeConfig)
}

func readText(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxText+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxText {
		return "", errTooMuch
	}
	return strings.TrimSpace(string(b)), nil
}

// DecodeBlock reads a serialized block from r using palette p, or the
// default palette if p is nil.
func DecodeBlock(r io.Reader, p *palette.Palette) (*block.Block, error) {
	s, err := readText(r)
	if err != nil {
		return nil, err
	}
	b := block.New(p)
	if err := b.Deserialize(s); err != nil {
		return nil, err
	}
	return b, nil
}

// Decode reads a serialized block from r and returns it as an image.Image
// with one pixel per tile.
func Decode(r io.Reader) (image.Image, error) {
	b, err := DecodeBlock(r, nil)
	if err != nil {
		return nil, err
	}
	return b.Thumbnail(), nil
}

// DecodeConfig returns the color model and dimensions of a serialized block.
// The whole block is decoded to validate it.
func DecodeConfig(r io.Reader) (image.Config, error) {
	if _, err := DecodeBlock(r, nil); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      tileX,
		Height:     tileY,
	}, nil
}

// EncodeBlock writes the serialized form of b to w.
func EncodeBlock(w io.Writer, b *block.Block) error {
	s, err := b.Serialize()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("tile: %w", err)
	}
	return nil
}
