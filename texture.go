package texcache

import (
	"fmt"
	"image"
	"math"
)

// Texture is an oriented view of an ImageRecord with a hit-box algorithm.
// Transforms and crops return new textures and never modify the receiver.
// Textures from a CacheManager route those operations through its caches,
// so repeating a transform returns the same object.
type Texture struct {
	image  *ImageRecord
	algo   HitBoxAlgorithm
	order  VertexOrder
	width  int
	height int
	hitBox *HitBox
	mgr    *CacheManager
}

// NewTexture returns a standalone texture that uses no cache. A nil algo
// selects DefaultHitBoxAlgorithm.
func NewTexture(img *ImageRecord, algo HitBoxAlgorithm) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: texture needs an image", ErrInvalidConfig)
	}
	if err := img.valid(); err != nil {
		return nil, err
	}
	return newTexture(img, orDefault(algo), OrderIdentity, nil), nil
}

func newTexture(img *ImageRecord, algo HitBoxAlgorithm, order VertexOrder, mgr *CacheManager) *Texture {
	w, h := img.Size()
	if order.SwapsAxes() {
		w, h = h, w
	}
	return &Texture{image: img, algo: algo, order: order, width: w, height: h, mgr: mgr}
}

func cacheName(hash string, order VertexOrder, algo HitBoxAlgorithm) string {
	return hash + "|" + order.String() + "|" + algo.Name() + "|" + algo.ParamString()
}

func atlasName(hash string, order VertexOrder) string {
	return hash + "|" + order.String()
}

// Record returns the source pixels, unoriented.
func (t *Texture) Record() *ImageRecord { return t.image }

// HitBoxAlgorithm returns the algorithm used for the hit box.
func (t *Texture) HitBoxAlgorithm() HitBoxAlgorithm { return t.algo }

// Order returns the vertex order.
func (t *Texture) Order() VertexOrder { return t.order }

// Width returns the displayed width, after rotation.
func (t *Texture) Width() int { return t.width }

// Height returns the displayed height, after rotation.
func (t *Texture) Height() int { return t.height }

// Size returns the displayed width and height.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// CacheName returns "<hash>|<order>|<algorithm>|<params>".
func (t *Texture) CacheName() string { return cacheName(t.image.Hash(), t.order, t.algo) }

// AtlasName returns "<hash>|<order>", shared by textures that differ only
// in hit-box algorithm.
func (t *Texture) AtlasName() string { return atlasName(t.image.Hash(), t.order) }

// Equal reports whether both textures have the same cache name.
func (t *Texture) Equal(o *Texture) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.CacheName() == o.CacheName()
}

func (t *Texture) String() string {
	return fmt.Sprintf("Texture(%s %dx%d)", t.CacheName(), t.width, t.height)
}

// HitBox returns the hit box, computing it on first use. The manager's
// hit-box cache is consulted before computing and filled afterwards.
func (t *Texture) HitBox() *HitBox {
	if t.hitBox != nil {
		return t.hitBox
	}
	key := t.CacheName()
	cached := t.mgr != nil && t.algo.Cacheable()
	if cached {
		if hb, ok := t.mgr.hitBoxes.Get(key); ok {
			t.hitBox = hb
			return hb
		}
	}
	pts := t.algo.Calculate(t.image)
	if pts == nil {
		pts = []Point{}
	}
	t.hitBox = &HitBox{Points: t.order.TransformPoints(pts)}
	if cached {
		t.mgr.hitBoxes.Put(key, t.hitBox, !t.mgr.cfg.WeakHitBoxes)
	}
	logger().Debug("computed hit box", "key", key, "points", len(pts))
	return t.hitBox
}

// HitBoxPoints returns the hit-box polygon, empty for a fully transparent
// image.
func (t *Texture) HitBoxPoints() []Point { return t.HitBox().Points }

// InvalidateHitBox drops the computed hit box, including the manager's
// cached copy, so the next HitBox call recomputes it. Use after editing
// the record's pixels in place.
func (t *Texture) InvalidateHitBox() {
	t.hitBox = nil
	if t.mgr != nil {
		t.mgr.hitBoxes.Delete(t.CacheName())
	}
}

// FlipLeftRight mirrors the texture horizontally.
func (t *Texture) FlipLeftRight() *Texture { return t.transform(OrderFlipLeftRight) }

// FlipTopBottom mirrors the texture vertically.
func (t *Texture) FlipTopBottom() *Texture { return t.transform(OrderFlipTopBottom) }

// Transpose mirrors the texture across its upper-left to lower-right
// diagonal.
func (t *Texture) Transpose() *Texture { return t.transform(OrderTranspose) }

// Transverse mirrors the texture across its upper-right to lower-left
// diagonal.
func (t *Texture) Transverse() *Texture { return t.transform(OrderTransverse) }

// Rotate90 rotates the texture clockwise by n quarter turns. Negative n
// rotates counter-clockwise.
func (t *Texture) Rotate90(n int) *Texture {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return t.transform(OrderRotate90)
	case 2:
		return t.transform(OrderRotate180)
	case 3:
		return t.transform(OrderRotate270)
	}
	return t.transform(OrderIdentity)
}

// Rotate180 rotates the texture by half a turn.
func (t *Texture) Rotate180() *Texture { return t.transform(OrderRotate180) }

// Rotate270 rotates the texture clockwise by three quarter turns.
func (t *Texture) Rotate270() *Texture { return t.transform(OrderRotate270) }

func (t *Texture) transform(tr VertexOrder) *Texture {
	order := t.order.Then(tr)
	if order == t.order {
		return t
	}
	name := cacheName(t.image.Hash(), order, t.algo)
	if t.mgr != nil {
		if c, ok := t.mgr.textures.Get(name); ok {
			logger().Debug("texture cache hit", "key", name)
			return c
		}
	}
	nt := newTexture(t.image, t.algo, order, t.mgr)
	if t.hitBox != nil {
		nt.hitBox = &HitBox{Points: tr.TransformPoints(t.hitBox.Points)}
		if t.mgr != nil && t.algo.Cacheable() {
			t.mgr.hitBoxes.Put(name, nt.hitBox, !t.mgr.cfg.WeakHitBoxes)
		}
	}
	if t.mgr != nil {
		t.mgr.textures.Put(nt, !t.mgr.cfg.WeakTextures)
	}
	return nt
}

// Crop returns a texture over the sub-rectangle (x, y, w, h) of the source
// image. Coordinates are in source pixels, ignoring the texture's
// orientation, and the result is unrotated. The full rectangle and the
// all-zero rectangle return t itself. Rectangles outside the image or
// with one zero side fail with ErrOutOfBounds and change nothing.
func (t *Texture) Crop(x, y, w, h int) (*Texture, error) {
	r := Rect{X: x, Y: y, Width: w, Height: h}
	if r.isNoop() {
		return t, nil
	}
	iw, ih := t.image.Size()
	if err := r.within(iw, ih); err != nil {
		return nil, err
	}
	if r.covers(iw, ih) {
		return t, nil
	}

	key := t.image.Hash() + "|" + r.String()
	if t.mgr != nil {
		if img, ok := t.mgr.images.Get(key); ok {
			if c, ok := t.mgr.textures.GetWithConfig(img.Hash(), t.algo); ok {
				return c, nil
			}
			return t.mgr.newTexture(img, t.algo), nil
		}
	}
	img, err := t.image.crop(r)
	if err != nil {
		return nil, err
	}
	if t.mgr == nil {
		return newTexture(img, t.algo, OrderIdentity, nil), nil
	}
	t.mgr.images.Put(key, img, !t.mgr.cfg.WeakImages)
	if c, ok := t.mgr.textures.GetWithConfig(img.Hash(), t.algo); ok {
		return c, nil
	}
	return t.mgr.newTexture(img, t.algo), nil
}

// TexCoords returns the UV coordinate shown at each displayed corner, in
// upper-left, upper-right, lower-left, lower-right order.
func (t *Texture) TexCoords() [4]Point { return t.order.TexCoords() }

// Image returns the displayed pixels, with the orientation applied. It
// allocates a new image on every call.
func (t *Texture) Image() *image.NRGBA {
	sw, sh := t.image.Size()
	if t.order == OrderIdentity {
		dst := image.NewNRGBA(image.Rect(0, 0, sw, sh))
		copy(dst.Pix, t.image.Pix())
		return dst
	}
	m := orderOrient[t.order]
	dst := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	src := t.image.Pix()
	for dy := 0; dy < t.height; dy++ {
		for dx := 0; dx < t.width; dx++ {
			// Pixel center in centered y-up space, mapped back through the
			// transpose of m, which is its inverse.
			px := float64(dx) + 0.5 - float64(t.width)/2
			py := float64(t.height)/2 - float64(dy) - 0.5
			qx := m.a*px + m.c*py
			qy := m.b*px + m.d*py
			sx := int(math.Floor(qx + float64(sw)/2))
			sy := int(math.Floor(float64(sh)/2 - qy))
			si := sy*sw*4 + sx*4
			di := dy*dst.Stride + dx*4
			copy(dst.Pix[di:di+4], src[si:si+4])
		}
	}
	return dst
}
