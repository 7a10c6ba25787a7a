package block

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// RawSize is the length of the uncompressed tile data; every index is
// stored as a big-endian uint16 in x-major order.
const RawSize = 2 * numTiles

// ErrFormat is returned when serialized tile data cannot be decoded.
var ErrFormat = errors.New("block: invalid tile data")

// Pack returns the uncompressed tile data.
func (b *Block) Pack() ([]byte, error) {
	if !b.IsInitialized() {
		return nil, ErrNotInitialized
	}
	raw := make([]byte, RawSize)
	for i, t := range b.tiles {
		binary.BigEndian.PutUint16(raw[i<<1:], t)
	}
	return raw, nil
}

// Compress packs the tiles and compresses them as a zlib stream at the best
// compression level.
func (b *Block) Compress() ([]byte, error) {
	raw, err := b.Pack()
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	w, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize returns the compressed tiles encoded with standard, padded
// base64. Identical tiles always serialize to the same string.
func (b *Block) Serialize() (string, error) {
	data, err := b.Compress()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Inflate decompresses data produced by Compress. A raw deflate stream
// without the zlib wrapper is also accepted. The result must be exactly
// RawSize bytes.
func Inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	switch {
	case err == nil:
	case errors.Is(err, zlib.ErrHeader):
		r = flate.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, RawSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(raw) != RawSize {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", ErrFormat, len(raw), RawSize)
	}
	return raw, nil
}

// Unpack sets every tile from uncompressed tile data as returned by Pack.
func (b *Block) Unpack(raw []byte) error {
	if len(raw) != RawSize {
		return fmt.Errorf("%w: %d bytes, expected %d", ErrFormat, len(raw), RawSize)
	}
	tiles := make([]uint16, numTiles)
	for i := range tiles {
		tiles[i] = binary.BigEndian.Uint16(raw[i<<1:])
	}
	b.fill(tiles)
	return nil
}

// Deserialize reverses Serialize, overwriting every tile. The block is
// initialized if necessary. Nothing is changed if s cannot be decoded.
func (b *Block) Deserialize(s string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	raw, err := Inflate(data)
	if err != nil {
		return err
	}
	return b.Unpack(raw)
}

// MarshalText implements encoding.TextMarshaler using Serialize.
func (b *Block) MarshalText() ([]byte, error) {
	s, err := b.Serialize()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Deserialize.
func (b *Block) UnmarshalText(text []byte) error {
	return b.Deserialize(string(text))
}
