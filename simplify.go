package texcache

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplifier reduces the vertex count of a closed polyline.
type Simplifier interface {
	Simplify(pts []Point, tolerance float64) []Point
}

// DouglasPeucker is the Ramer-Douglas-Peucker simplifier backed by orb.
type DouglasPeucker struct{}

// Simplify implements Simplifier. pts is treated as a closed ring and the
// result carries no closing duplicate.
func (DouglasPeucker) Simplify(pts []Point, tolerance float64) []Point {
	if len(pts) < 3 || tolerance <= 0 {
		return copyPoints(pts)
	}
	ls := make(orb.LineString, 0, len(pts)+1)
	for _, p := range pts {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	ls = append(ls, ls[0])

	out, ok := simplify.DouglasPeucker(tolerance).Simplify(ls).(orb.LineString)
	if !ok || out == nil {
		return copyPoints(pts)
	}
	res := make([]Point, 0, len(out))
	for _, p := range out {
		res = append(res, Point{X: p[0], Y: p[1]})
	}
	return dedupeConsecutive(res)
}
