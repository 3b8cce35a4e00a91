package texcache

import (
	"fmt"
	"slices"
)

// Corner indices into a VertexOrder.
const (
	CornerUpperLeft = iota
	CornerUpperRight
	CornerLowerLeft
	CornerLowerRight
)

// VertexOrder records which source corner is displayed at each corner
// position: order[CornerUpperLeft] is the source corner drawn at the upper
// left. The eight valid orders form the dihedral group of the square, so
// any sequence of flips and quarter turns reduces to one of them.
type VertexOrder [4]int

// The eight orientations. Rotations are clockwise.
var (
	OrderIdentity      = VertexOrder{0, 1, 2, 3}
	OrderRotate90      = VertexOrder{2, 0, 3, 1}
	OrderRotate180     = VertexOrder{3, 2, 1, 0}
	OrderRotate270     = VertexOrder{1, 3, 0, 2}
	OrderFlipLeftRight = VertexOrder{1, 0, 3, 2}
	OrderFlipTopBottom = VertexOrder{2, 3, 0, 1}
	OrderTranspose     = VertexOrder{0, 2, 1, 3} // mirror across the UL-LR diagonal
	OrderTransverse    = VertexOrder{3, 1, 2, 0} // mirror across the UR-LL diagonal
)

// orient is the linear map an order applies to centered, y-up points:
// x' = a*x + b*y, y' = c*x + d*y.
type orient struct {
	a, b, c, d float64
}

var orderOrient = map[VertexOrder]orient{
	OrderIdentity:      {1, 0, 0, 1},
	OrderRotate90:      {0, 1, -1, 0},
	OrderRotate180:     {-1, 0, 0, -1},
	OrderRotate270:     {0, -1, 1, 0},
	OrderFlipLeftRight: {-1, 0, 0, 1},
	OrderFlipTopBottom: {1, 0, 0, -1},
	OrderTranspose:     {0, -1, -1, 0},
	OrderTransverse:    {0, 1, 1, 0},
}

// Valid reports whether o is one of the eight orientations.
func (o VertexOrder) Valid() bool {
	_, ok := orderOrient[o]
	return ok
}

// Then returns the order obtained by applying transform t on top of o.
func (o VertexOrder) Then(t VertexOrder) VertexOrder {
	return VertexOrder{o[t[0]], o[t[1]], o[t[2]], o[t[3]]}
}

// SwapsAxes reports whether the order turns the image on its side, which
// swaps the displayed width and height.
func (o VertexOrder) SwapsAxes() bool {
	return orderOrient[o].a == 0
}

// Reflects reports whether the order mirrors the image. Mirroring reverses
// the winding of a polygon, so TransformPoints reverses the point order to
// keep it.
func (o VertexOrder) Reflects() bool {
	m := orderOrient[o]
	return m.a*m.d-m.b*m.c < 0
}

// String renders the order as "(0, 1, 2, 3)", the form used in cache names.
func (o VertexOrder) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", o[0], o[1], o[2], o[3])
}

// TransformPoints maps hit-box points through the orientation. For
// reflections the result is also reversed, so a counter-clockwise polygon
// stays counter-clockwise. The input slice is not modified.
func (o VertexOrder) TransformPoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	m := orderOrient[o]
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: posZero(m.a*p.X + m.b*p.Y), Y: posZero(m.c*p.X + m.d*p.Y)}
	}
	if o.Reflects() {
		slices.Reverse(out)
	}
	return out
}

// TexCoords returns the UV coordinate drawn at each corner position, in
// UL, UR, LL, LR order, with (0, 0) at the source's upper left.
func (o VertexOrder) TexCoords() [4]Point {
	base := [4]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	return [4]Point{base[o[0]], base[o[1]], base[o[2]], base[o[3]]}
}

// posZero folds -0 into +0 so transformed points serialize identically.
func posZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
