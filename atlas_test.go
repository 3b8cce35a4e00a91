package texcache

import (
	"errors"
	"testing"
)

func TestAtlasAddSharesImageAcrossOrientations(t *testing.T) {
	a := NewAtlas()
	tex := newTestTexture(t, pattern(4, 2), Simple{})
	rot := tex.Rotate90(1)

	r1, err := a.Add(tex)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := a.Add(rot)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Image != r2.Image {
		t.Error("orientations of the same content should share one image")
	}
	if a.Images() != 1 || a.Len() != 2 {
		t.Errorf("Images = %d, Len = %d", a.Images(), a.Len())
	}
	if r2.Width != 2 || r2.Height != 4 {
		t.Errorf("rotated region size = %dx%d", r2.Width, r2.Height)
	}
	if r2.TexCoords != rot.TexCoords() {
		t.Errorf("TexCoords = %v", r2.TexCoords)
	}
	if a.ImageRefs().Count(tex.Record().Hash()) != 2 {
		t.Errorf("image refs = %d", a.ImageRefs().Count(tex.Record().Hash()))
	}
}

func TestAtlasCountsSharedNames(t *testing.T) {
	a := NewAtlas()
	simple := newTestTexture(t, pattern(4, 4), Simple{})
	bounding := newTestTexture(t, pattern(4, 4), Bounding{})
	a.Add(simple)
	a.Add(bounding)
	if a.Len() != 1 {
		t.Fatalf("hit-box algorithm should not split regions, Len = %d", a.Len())
	}
	if got := a.TextureRefs().Count(simple.AtlasName()); got != 2 {
		t.Errorf("texture refs = %d", got)
	}

	if err := a.Remove(simple); err != nil {
		t.Fatal(err)
	}
	if !a.Has(bounding) || a.Images() != 1 {
		t.Error("region released while still in use")
	}
	if err := a.Remove(bounding); err != nil {
		t.Fatal(err)
	}
	if a.Has(bounding) || a.Images() != 0 || a.Len() != 0 {
		t.Error("last remove should release region and image")
	}
}

func TestAtlasPartialRelease(t *testing.T) {
	a := NewAtlas()
	tex := newTestTexture(t, pattern(4, 2), Simple{})
	rot := tex.Rotate180()
	a.Add(tex)
	a.Add(rot)
	if err := a.Remove(rot); err != nil {
		t.Fatal(err)
	}
	if a.Has(rot) || !a.Has(tex) {
		t.Error("only the rotated region should go")
	}
	if a.Images() != 1 {
		t.Error("image released while another orientation uses it")
	}
}

func TestAtlasRemoveUnderflow(t *testing.T) {
	a := NewAtlas()
	tex := newTestTexture(t, pattern(4, 2), Simple{})
	if err := a.Remove(tex); !errors.Is(err, ErrCounterUnderflow) {
		t.Errorf("err = %v", err)
	}

	// Same content, different orientation: the image counter is non-zero
	// but the name counter is not, so nothing may change.
	a.Add(tex)
	if err := a.Remove(tex.FlipLeftRight()); !errors.Is(err, ErrCounterUnderflow) {
		t.Errorf("err = %v", err)
	}
	if a.ImageRefs().Count(tex.Record().Hash()) != 1 || a.TextureRefs().Total() != 1 {
		t.Error("failed remove changed counts")
	}
	if _, err := a.Add(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil err = %v", err)
	}
}
