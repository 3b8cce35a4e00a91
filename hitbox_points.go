package texcache

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// HitBox is a computed hit-box polygon in centered, y-up coordinates.
// Points is empty for a fully transparent image. Textures share HitBox
// values through the hit-box cache, so treat Points as read-only.
type HitBox struct {
	Points []Point
}

// Len returns the number of vertices.
func (h *HitBox) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Points)
}

// Empty reports whether there is no polygon.
func (h *HitBox) Empty() bool {
	return h.Len() < 3
}

// Contains reports whether (x, y) lies inside the polygon or on its edge.
// Concave outlines from the detailed algorithm work too.
func (h *HitBox) Contains(x, y float64) bool {
	if h.Empty() {
		return false
	}
	return planar.RingContains(toRing(h.Points), orb.Point{x, y})
}

// Bounds returns the min and max corners of the polygon.
func (h *HitBox) Bounds() (minP, maxP Point) {
	if h.Len() == 0 {
		return Point{}, Point{}
	}
	return pointBounds(h.Points)
}

// toRing converts pts to an open orb ring.
func toRing(pts []Point) orb.Ring {
	r := make(orb.Ring, len(pts))
	for i, p := range pts {
		r[i] = orb.Point{p.X, p.Y}
	}
	return r
}

func pointBounds(pts []Point) (minP, maxP Point) {
	b := toRing(pts).Bound()
	return Point{b.Min[0], b.Min[1]}, Point{b.Max[0], b.Max[1]}
}

// counterClockwise reports whether pts winds counter-clockwise in y-up
// space.
func counterClockwise(pts []Point) bool {
	return len(pts) >= 3 && toRing(pts).Orientation() == orb.CCW
}

// makeCounterClockwise reverses pts in place when it winds clockwise.
func makeCounterClockwise(pts []Point) {
	if len(pts) >= 3 && toRing(pts).Orientation() == orb.CW {
		slices.Reverse(pts)
	}
}

// dedupeConsecutive drops points equal to their predecessor, including a
// last point that repeats the first.
func dedupeConsecutive(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func copyPoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}
