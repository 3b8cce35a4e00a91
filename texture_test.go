package texcache

import (
	"errors"
	"image"
	"image/color"
	"math"
	"slices"
	"testing"
)

func newTestTexture(t *testing.T, img image.Image, algo HitBoxAlgorithm) *Texture {
	t.Helper()
	tex, err := NewTexture(mustRecord(t, img), algo)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

// notched is a 6×4 opaque image with its top-right 3×2 block cleared, so
// every orientation has a different hit box.
func notched() *image.NRGBA {
	img := solid(6, 4)
	for y := 0; y < 2; y++ {
		for x := 3; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{})
		}
	}
	return img
}

func TestNewTextureValidates(t *testing.T) {
	if _, err := NewTexture(nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil image err = %v", err)
	}
	tex := newTestTexture(t, solid(2, 2), nil)
	if tex.HitBoxAlgorithm().Name() != DefaultHitBoxAlgorithm.Name() {
		t.Errorf("nil algorithm should select the default, got %s", tex.HitBoxAlgorithm().Name())
	}
}

func TestTextureNames(t *testing.T) {
	tex := newTestTexture(t, solid(4, 4), Simple{})
	h := tex.Record().Hash()
	if got, want := tex.CacheName(), h+"|(0, 1, 2, 3)|simple|"; got != want {
		t.Errorf("CacheName = %q, want %q", got, want)
	}
	if got, want := tex.AtlasName(), h+"|(0, 1, 2, 3)"; got != want {
		t.Errorf("AtlasName = %q, want %q", got, want)
	}
	d := newTestTexture(t, solid(4, 4), Detailed{Detail: 4.5})
	if got, want := d.CacheName(), h+"|(0, 1, 2, 3)|detailed|detail=4.5"; got != want {
		t.Errorf("CacheName = %q, want %q", got, want)
	}
	if d.AtlasName() != tex.AtlasName() {
		t.Error("atlas name should not depend on the hit-box algorithm")
	}
	if got, want := tex.Rotate90(1).CacheName(), h+"|(2, 0, 3, 1)|simple|"; got != want {
		t.Errorf("rotated CacheName = %q, want %q", got, want)
	}
}

func TestTextureTransformClosure(t *testing.T) {
	tex := newTestTexture(t, notched(), Simple{})
	tests := []struct {
		name string
		got  *Texture
	}{
		{"rotate90 x4", tex.Rotate90(1).Rotate90(1).Rotate90(1).Rotate90(1)},
		{"flipLR x2", tex.FlipLeftRight().FlipLeftRight()},
		{"flipTB x2", tex.FlipTopBottom().FlipTopBottom()},
		{"transpose x2", tex.Transpose().Transpose()},
		{"transverse x2", tex.Transverse().Transverse()},
		{"rotate180 x2", tex.Rotate180().Rotate180()},
		{"rotate90(4)", tex.Rotate90(4)},
		{"rotate90(-4)", tex.Rotate90(-4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tex) {
				t.Errorf("got %s, want %s", tt.got.CacheName(), tex.CacheName())
			}
		})
	}
}

func TestTextureRotateNormalizesTurns(t *testing.T) {
	tex := newTestTexture(t, notched(), Simple{})
	if !tex.Rotate90(-1).Equal(tex.Rotate270()) {
		t.Error("Rotate90(-1) should equal Rotate270")
	}
	if !tex.Rotate90(5).Equal(tex.Rotate90(1)) {
		t.Error("Rotate90(5) should equal Rotate90(1)")
	}
	if !tex.Rotate90(2).Equal(tex.Rotate180()) {
		t.Error("Rotate90(2) should equal Rotate180")
	}
}

func TestTextureFlipsComposeToRotate180(t *testing.T) {
	tex := newTestTexture(t, notched(), Simple{})
	tex.HitBox()
	a := tex.FlipLeftRight().FlipTopBottom()
	b := tex.Rotate90(2)
	if a.Order() != b.Order() {
		t.Fatalf("orders differ: %v vs %v", a.Order(), b.Order())
	}
	if !a.Equal(b) {
		t.Error("textures should be equal")
	}
	assertSamePointSet(t, "hit box", a.HitBoxPoints(), b.HitBoxPoints())
}

func TestTextureSizeSwaps(t *testing.T) {
	tex := newTestTexture(t, solid(8, 4), Simple{})
	tests := []struct {
		name string
		got  *Texture
		w, h int
	}{
		{"identity", tex, 8, 4},
		{"rotate90", tex.Rotate90(1), 4, 8},
		{"rotate180", tex.Rotate180(), 8, 4},
		{"rotate270", tex.Rotate270(), 4, 8},
		{"flipLR", tex.FlipLeftRight(), 8, 4},
		{"transpose", tex.Transpose(), 4, 8},
		{"transverse", tex.Transverse(), 4, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w, h := tt.got.Size(); w != tt.w || h != tt.h {
				t.Errorf("Size = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

// A transformed hit box must match the hit box computed from the
// transformed pixels, for every orientation.
func TestTextureHitBoxMatchesOrientedPixels(t *testing.T) {
	base := newTestTexture(t, notched(), Simple{})
	base.HitBox()
	views := map[string]*Texture{
		"identity":   base,
		"rotate90":   base.Rotate90(1),
		"rotate180":  base.Rotate180(),
		"rotate270":  base.Rotate270(),
		"flipLR":     base.FlipLeftRight(),
		"flipTB":     base.FlipTopBottom(),
		"transpose":  base.Transpose(),
		"transverse": base.Transverse(),
	}
	for name, v := range views {
		t.Run(name, func(t *testing.T) {
			want := Simple{}.Calculate(mustRecord(t, v.Image()))
			assertSameCycle(t, "hit box", v.HitBoxPoints(), want)

			lazy := newTestTexture(t, notched(), Simple{})
			lazy = orientLike(lazy, v.Order())
			assertSameCycle(t, "lazy hit box", lazy.HitBoxPoints(), want)
		})
	}
}

// assertSameCycle checks that got is want, possibly starting at another
// vertex but walked in the same direction.
func assertSameCycle(t *testing.T, name string, got, want []Point) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if len(got) == len(want) {
		for shift := range len(got) {
			if slices.Equal(append(slices.Clone(got[shift:]), got[:shift]...), want) {
				return
			}
		}
	}
	t.Errorf("%s = %v, want the cycle %v", name, got, want)
}

func orientLike(t *Texture, o VertexOrder) *Texture {
	for _, f := range []func() *Texture{
		func() *Texture { return t }, func() *Texture { return t.Rotate90(1) },
		t.Rotate180, t.Rotate270, t.FlipLeftRight, t.FlipTopBottom, t.Transpose, t.Transverse,
	} {
		if c := f(); c.Order() == o {
			return c
		}
	}
	return nil
}

func TestTextureImageOrientation(t *testing.T) {
	a := color.NRGBA{R: 255, A: 255}
	b := color.NRGBA{B: 255, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, a)
	src.SetNRGBA(1, 0, b)
	tex := newTestTexture(t, src, Simple{})

	tests := []struct {
		name string
		got  *Texture
		want []color.NRGBA // row-major
	}{
		{"identity", tex, []color.NRGBA{a, b}},
		{"flipLR", tex.FlipLeftRight(), []color.NRGBA{b, a}},
		{"rotate90", tex.Rotate90(1), []color.NRGBA{a, b}},
		{"rotate270", tex.Rotate270(), []color.NRGBA{b, a}},
		{"transpose", tex.Transpose(), []color.NRGBA{a, b}},
		{"transverse", tex.Transverse(), []color.NRGBA{b, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.got.Image()
			w, h := tt.got.Size()
			if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
				t.Fatalf("image %v, want %dx%d", img.Bounds(), w, h)
			}
			var got []color.NRGBA
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					got = append(got, img.NRGBAAt(x, y))
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("pixels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextureCropShortCircuits(t *testing.T) {
	tex := newTestTexture(t, pattern(16, 12), Simple{})
	if got, err := tex.Crop(0, 0, 16, 12); err != nil || got != tex {
		t.Errorf("full crop = %v, %v; want the same texture", got, err)
	}
	if got, err := tex.Crop(0, 0, 0, 0); err != nil || got != tex {
		t.Errorf("zero crop = %v, %v; want the same texture", got, err)
	}
}

func TestTextureCropErrors(t *testing.T) {
	tex := newTestTexture(t, pattern(16, 12), Simple{})
	before := tex.CacheName()
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"right edge", 10, 0, 7, 4},
		{"bottom edge", 0, 10, 4, 3},
		{"negative x", -1, 0, 4, 4},
		{"negative size", 0, 0, -4, 4},
		{"zero width", 0, 0, 0, 4},
		{"zero height", 0, 0, 4, 0},
		{"huge width", 1, 0, math.MaxInt, 1},
		{"huge height", 0, 1, 1, math.MaxInt},
		{"huge offset", math.MaxInt, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tex.Crop(tt.x, tt.y, tt.w, tt.h)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("err = %v, want ErrOutOfBounds", err)
			}
			if got != nil {
				t.Error("failed crop returned a texture")
			}
		})
	}
	if tex.CacheName() != before {
		t.Error("failed crop changed the source texture")
	}
}

func TestTextureCrop(t *testing.T) {
	src := pattern(16, 12)
	tex := newTestTexture(t, src, Detailed{Detail: 2})
	c, err := tex.Rotate90(1).Crop(2, 3, 5, 4)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 5 || h != 4 {
		t.Errorf("Size = %dx%d, want 5x4", w, h)
	}
	if c.Order() != OrderIdentity {
		t.Errorf("Order = %v, want identity", c.Order())
	}
	if c.Record().Hash() == tex.Record().Hash() {
		t.Error("crop should have a new hash")
	}
	if !sameAlgorithm(c.HitBoxAlgorithm(), tex.HitBoxAlgorithm()) {
		t.Error("crop should keep the hit-box algorithm")
	}
	if c.Record().At(0, 0) != src.NRGBAAt(2, 3) {
		t.Error("crop should use source-image coordinates")
	}
}

func TestTextureTransparent(t *testing.T) {
	tex := newTestTexture(t, image.NewNRGBA(image.Rect(0, 0, 8, 8)), Simple{})
	if pts := tex.HitBoxPoints(); len(pts) != 0 {
		t.Errorf("points = %v, want none", pts)
	}
	r := tex.Rotate90(1)
	if !r.HitBox().Empty() || r.HitBox().Contains(0, 0) {
		t.Error("rotated transparent texture should have an empty hit box")
	}
}

func TestTextureHitBoxLazyAndInvalidate(t *testing.T) {
	tex := newTestTexture(t, notched(), Simple{})
	if tex.hitBox != nil {
		t.Fatal("hit box computed eagerly")
	}
	hb := tex.HitBox()
	if tex.HitBox() != hb {
		t.Error("hit box should be computed once")
	}
	tex.InvalidateHitBox()
	if tex.HitBox() == hb {
		t.Error("InvalidateHitBox should force a recompute")
	}
}

func TestTextureEqual(t *testing.T) {
	a := newTestTexture(t, pattern(4, 4), Simple{})
	b := newTestTexture(t, pattern(4, 4), Simple{})
	c := newTestTexture(t, pattern(4, 4), Bounding{})
	if !a.Equal(b) {
		t.Error("same pixels, order and algorithm should be equal")
	}
	if a.Equal(c) {
		t.Error("different algorithms should not be equal")
	}
	var nilTex *Texture
	if a.Equal(nilTex) || !nilTex.Equal(nil) {
		t.Error("nil handling")
	}
}
