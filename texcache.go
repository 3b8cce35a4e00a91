package texcache

import "fmt"

// Point is a 2D hit-box vertex. Hit-box coordinates are centered on the
// image with Y increasing upward.
type Point struct {
	X, Y float64
}

// Rect is an integer pixel rectangle in image space: origin top-left,
// Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// String renders the rectangle as "x,y,w,h", the form used in cache keys.
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// isNoop reports the legacy "no crop" rectangle: zero width and height.
func (r Rect) isNoop() bool {
	return r.Width == 0 && r.Height == 0
}

// covers reports whether r is exactly the full w×h image.
func (r Rect) covers(w, h int) bool {
	return r.X == 0 && r.Y == 0 && r.Width == w && r.Height == h
}

// within validates r against a w×h image. A rectangle with one zero side
// is rejected; the all-zero rectangle is handled by callers before this.
func (r Rect) within(w, h int) error {
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 ||
		r.Width > w-r.X || r.Height > h-r.Y {
		return fmt.Errorf("%w: crop %s outside %dx%d image", ErrOutOfBounds, r, w, h)
	}
	return nil
}
