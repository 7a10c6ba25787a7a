package gravityrun

import (
	"embed"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/fs"
	"path"
	"strings"
)

//go:embed assets
var assets embed.FS

// ImageCache decodes images from a filesystem once and keeps them. It is
// not safe for concurrent use.
type ImageCache struct {
	fsys   fs.FS
	images map[string]image.Image
}

// NewImageCache returns an empty cache reading from fsys.
func NewImageCache(fsys fs.FS) *ImageCache {
	return &ImageCache{
		fsys:   fsys,
		images: make(map[string]image.Image),
	}
}

// Get returns the image at name, decoding it on first use. Failures are
// not cached.
func (c *ImageCache) Get(name string) (image.Image, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if m, ok := c.images[name]; ok {
		return m, nil
	}

	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	c.images[name] = m
	return m, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	return len(c.images)
}
