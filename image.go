package texcache

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// ImageRecord wraps a tightly packed NRGBA pixel buffer and its content
// hash. Records are compared by hash only, so two records decoded from
// different files with identical pixels are equal.
//
// A record is immutable once created. Callers that edit Pix in place must
// call UpdateHash afterwards and invalidate any textures built on it.
type ImageRecord struct {
	img  *image.NRGBA
	hash string
}

// NewImageRecord converts img to NRGBA and hashes its pixels. An
// *image.NRGBA that is already tightly packed at the origin is used
// without copying.
func NewImageRecord(img image.Image) (*ImageRecord, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidConfig)
	}
	n := toNRGBA(img)
	return &ImageRecord{img: n, hash: contentHash(n.Pix)}, nil
}

// NewImageRecordFromPixels wraps a raw RGBA buffer of w×h pixels. The
// buffer must hold exactly w*h*4 bytes.
func NewImageRecordFromPixels(pix []byte, w, h int) (*ImageRecord, error) {
	if n, ok := pixelBytes(w, h); !ok || len(pix) != n {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelFormat, len(pix), w, h)
	}
	n := &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	return &ImageRecord{img: n, hash: contentHash(pix)}, nil
}

// NewEmptyImage returns a transparent w×h record with a unique random
// identity instead of a content hash. Blank canvases that will be drawn
// into later would otherwise all share one hash.
func NewEmptyImage(w, h int) (*ImageRecord, error) {
	if _, ok := pixelBytes(w, h); !ok {
		return nil, fmt.Errorf("%w: empty image size %dx%d", ErrInvalidConfig, w, h)
	}
	return &ImageRecord{
		img:  image.NewNRGBA(image.Rect(0, 0, w, h)),
		hash: "empty-" + uuid.NewString(),
	}, nil
}

// pixelBytes returns the buffer length of a w×h RGBA image. ok is false
// for negative sizes and for sizes whose row stride or buffer length does
// not fit in an int.
func pixelBytes(w, h int) (n int, ok bool) {
	if w < 0 || h < 0 || w > math.MaxInt/4/max(h, 1) {
		return 0, false
	}
	return w * h * 4, true
}

// toNRGBA converts any image to a tightly packed NRGBA at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Hash returns the content hash.
func (r *ImageRecord) Hash() string { return r.hash }

// Width returns the width in pixels.
func (r *ImageRecord) Width() int { return r.img.Rect.Dx() }

// Height returns the height in pixels.
func (r *ImageRecord) Height() int { return r.img.Rect.Dy() }

// Size returns width and height in pixels.
func (r *ImageRecord) Size() (int, int) { return r.Width(), r.Height() }

// Image returns the underlying pixel buffer. Treat it as read-only.
func (r *ImageRecord) Image() *image.NRGBA { return r.img }

// Pix returns the raw RGBA bytes, row-major, 4 bytes per pixel.
func (r *ImageRecord) Pix() []byte { return r.img.Pix }

// Alpha returns the alpha of pixel (x, y), or 0 outside the image.
func (r *ImageRecord) Alpha(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.Width() || y >= r.Height() {
		return 0
	}
	return r.img.Pix[y*r.img.Stride+x*4+3]
}

// At returns the color of pixel (x, y).
func (r *ImageRecord) At(x, y int) color.NRGBA {
	return r.img.NRGBAAt(x, y)
}

// Equal reports whether both records carry the same content hash.
func (r *ImageRecord) Equal(o *ImageRecord) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.hash == o.hash
}

// UpdateHash recomputes the content hash after an in-place pixel edit.
// Records from NewEmptyImage keep their random identity.
func (r *ImageRecord) UpdateHash() {
	if len(r.hash) > 6 && r.hash[:6] == "empty-" {
		return
	}
	r.hash = contentHash(r.img.Pix)
}

func (r *ImageRecord) String() string {
	return fmt.Sprintf("ImageRecord(%s %dx%d)", r.hash, r.Width(), r.Height())
}

// valid reports whether the buffer still satisfies the RGBA layout the
// hit-box algorithms index into directly.
func (r *ImageRecord) valid() error {
	w, h := r.Width(), r.Height()
	if n, ok := pixelBytes(w, h); !ok || r.img.Stride != w*4 || len(r.img.Pix) != n {
		return fmt.Errorf("%w: stride %d, %d bytes for %dx%d", ErrPixelFormat, r.img.Stride, len(r.img.Pix), w, h)
	}
	return nil
}

// crop copies the sub-rectangle into a new record with its own hash.
func (r *ImageRecord) crop(rect Rect) (*ImageRecord, error) {
	if err := rect.within(r.Width(), r.Height()); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Width, rect.Height))
	for y := 0; y < rect.Height; y++ {
		si := (rect.Y+y)*r.img.Stride + rect.X*4
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], r.img.Pix[si:si+rect.Width*4])
	}
	return &ImageRecord{img: dst, hash: contentHash(dst.Pix)}, nil
}
