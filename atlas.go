package texcache

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasRegion is what a renderer needs to draw one texture: the uploaded
// source pixels and the UVs that orient them.
type AtlasRegion struct {
	// Image holds the unoriented source pixels. All orientations of the
	// same content share it.
	Image *ebiten.Image
	// TexCoords are the UVs for the upper-left, upper-right, lower-left and
	// lower-right corners of the displayed quad.
	TexCoords [4]Point
	// Width and Height are the displayed size.
	Width, Height int
}

// Atlas uploads texture pixels to ebiten images and tracks who uses them.
// Pixels are uploaded once per content hash and released when the last
// texture using them is removed; regions are kept per atlas name.
type Atlas struct {
	imageRefs   *RefCounter
	textureRefs *RefCounter
	images      map[string]*ebiten.Image
	regions     map[string]AtlasRegion
}

// NewAtlas returns an empty atlas.
func NewAtlas() *Atlas {
	return &Atlas{
		imageRefs:   NewRefCounter(),
		textureRefs: NewRefCounter(),
		images:      make(map[string]*ebiten.Image),
		regions:     make(map[string]AtlasRegion),
	}
}

// Add registers one use of t and returns its region, uploading the pixels
// on first use of its content.
func (a *Atlas) Add(t *Texture) (AtlasRegion, error) {
	if t == nil {
		return AtlasRegion{}, fmt.Errorf("%w: nil texture", ErrInvalidConfig)
	}
	hash, name := t.Record().Hash(), t.AtlasName()
	img, ok := a.images[hash]
	if !ok {
		img = ebiten.NewImageFromImage(t.Record().Image())
		a.images[hash] = img
		logger().Debug("atlas upload", "hash", hash, "w", t.Record().Width(), "h", t.Record().Height())
	}
	r, ok := a.regions[name]
	if !ok {
		r = AtlasRegion{Image: img, TexCoords: t.TexCoords(), Width: t.Width(), Height: t.Height()}
		a.regions[name] = r
	}
	a.imageRefs.Increment(hash)
	a.textureRefs.Increment(name)
	return r, nil
}

// Remove releases one use of t. The region goes away when no texture with
// the same atlas name is left, and the uploaded image when no texture with
// the same content is left. Removing more often than adding returns
// ErrCounterUnderflow and changes nothing.
func (a *Atlas) Remove(t *Texture) error {
	if t == nil {
		return fmt.Errorf("%w: nil texture", ErrInvalidConfig)
	}
	hash, name := t.Record().Hash(), t.AtlasName()
	if a.imageRefs.Count(hash) == 0 || a.textureRefs.Count(name) == 0 {
		return fmt.Errorf("%w: atlas remove %q", ErrCounterUnderflow, name)
	}
	tn, err := a.textureRefs.Decrement(name)
	if err != nil {
		return err
	}
	in, err := a.imageRefs.Decrement(hash)
	if err != nil {
		return err
	}
	if tn == 0 {
		delete(a.regions, name)
	}
	if in == 0 {
		if img, ok := a.images[hash]; ok {
			img.Deallocate()
			delete(a.images, hash)
		}
		logger().Debug("atlas release", "hash", hash)
	}
	return nil
}

// Region returns the region registered under an atlas name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Has reports whether t currently has a region.
func (a *Atlas) Has(t *Texture) bool {
	_, ok := a.regions[t.AtlasName()]
	return ok
}

// ImageRefs returns the per-content-hash counter.
func (a *Atlas) ImageRefs() *RefCounter { return a.imageRefs }

// TextureRefs returns the per-atlas-name counter.
func (a *Atlas) TextureRefs() *RefCounter { return a.textureRefs }

// Images returns the number of uploaded images.
func (a *Atlas) Images() int { return len(a.images) }

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }
