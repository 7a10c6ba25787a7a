/*
Package tile implements an image decoder and encoder for serialized blocks.

A serialized block is the base64 text of a zlib stream holding 16 by 16
big-endian 16-bit palette indices, 512 bytes uncompressed. Decoding yields a
16 by 16 image with one pixel per tile. Encoding accepts any image; images
of a different size are scaled to 16 by 16, optionally reduced to a number
of colours and then snapped to the palette.

The format is registered with the image package so image.Decode recognises
it once this package is imported.
*/
package tile

import "github.com/bodgit/gravityrun/block"

const (
	tileX = block.TileCount
	tileY = block.TileCount

	// Generous upper bound on the text of a serialized block
	maxText = 64 << 10
)
