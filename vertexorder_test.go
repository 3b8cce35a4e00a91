package texcache

import (
	"testing"
)

var allOrders = []VertexOrder{
	OrderIdentity, OrderRotate90, OrderRotate180, OrderRotate270,
	OrderFlipLeftRight, OrderFlipTopBottom, OrderTranspose, OrderTransverse,
}

func TestVertexOrderGroupClosed(t *testing.T) {
	for _, a := range allOrders {
		for _, b := range allOrders {
			if c := a.Then(b); !c.Valid() {
				t.Errorf("%v.Then(%v) = %v, not a valid order", a, b, c)
			}
		}
	}
}

func TestVertexOrderComposition(t *testing.T) {
	tests := []struct {
		name string
		got  VertexOrder
		want VertexOrder
	}{
		{"rotate90 x2", OrderRotate90.Then(OrderRotate90), OrderRotate180},
		{"rotate90 x3", OrderRotate90.Then(OrderRotate90).Then(OrderRotate90), OrderRotate270},
		{"rotate90 x4", OrderRotate180.Then(OrderRotate180), OrderIdentity},
		{"flipLR flipTB", OrderFlipLeftRight.Then(OrderFlipTopBottom), OrderRotate180},
		{"flipLR twice", OrderFlipLeftRight.Then(OrderFlipLeftRight), OrderIdentity},
		{"rotate90 flipLR", OrderRotate90.Then(OrderFlipLeftRight), OrderTranspose},
		{"rotate90 flipTB", OrderRotate90.Then(OrderFlipTopBottom), OrderTransverse},
		{"transpose twice", OrderTranspose.Then(OrderTranspose), OrderIdentity},
		{"transpose transverse", OrderTranspose.Then(OrderTransverse), OrderRotate180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

// Composing orders must match composing their point transforms.
func TestVertexOrderTransformHomomorphism(t *testing.T) {
	pts := []Point{{1, 2}, {-3, 0.5}, {4, -7}}
	for _, a := range allOrders {
		for _, b := range allOrders {
			direct := a.Then(b).TransformPoints(pts)
			stepwise := b.TransformPoints(a.TransformPoints(pts))
			for i := range pts {
				if direct[i] != stepwise[i] {
					t.Errorf("%v then %v: point %d = %v, stepwise %v", a, b, i, direct[i], stepwise[i])
				}
			}
		}
	}
}

// The source corner an order shows at each position must land on that
// position when transformed.
func TestVertexOrderCornersMatchTransform(t *testing.T) {
	corners := [4]Point{
		CornerUpperLeft:  {-1, 1},
		CornerUpperRight: {1, 1},
		CornerLowerLeft:  {-1, -1},
		CornerLowerRight: {1, -1},
	}
	for _, o := range allOrders {
		for pos := range 4 {
			src := corners[o[pos]]
			got := o.TransformPoints([]Point{src})[0]
			if got != corners[pos] {
				t.Errorf("%v: source corner %d maps to %v, want %v", o, o[pos], got, corners[pos])
			}
		}
	}
}

func TestVertexOrderSwapsAxes(t *testing.T) {
	want := map[VertexOrder]bool{
		OrderIdentity: false, OrderRotate90: true, OrderRotate180: false, OrderRotate270: true,
		OrderFlipLeftRight: false, OrderFlipTopBottom: false, OrderTranspose: true, OrderTransverse: true,
	}
	for o, w := range want {
		if got := o.SwapsAxes(); got != w {
			t.Errorf("%v.SwapsAxes() = %v, want %v", o, got, w)
		}
	}
}

func TestVertexOrderString(t *testing.T) {
	if got := OrderIdentity.String(); got != "(0, 1, 2, 3)" {
		t.Errorf("String = %q", got)
	}
	if got := OrderRotate90.String(); got != "(2, 0, 3, 1)" {
		t.Errorf("String = %q", got)
	}
}

func TestVertexOrderValid(t *testing.T) {
	if (VertexOrder{0, 0, 1, 2}).Valid() {
		t.Error("repeated corner should be invalid")
	}
	if (VertexOrder{0, 1, 3, 2}).Valid() {
		t.Error("a permutation outside the square's symmetries should be invalid")
	}
}

func TestVertexOrderTexCoords(t *testing.T) {
	uv := OrderFlipLeftRight.TexCoords()
	if uv[CornerUpperLeft] != (Point{1, 0}) || uv[CornerLowerRight] != (Point{0, 1}) {
		t.Errorf("FlipLeftRight TexCoords = %v", uv)
	}
	uv = OrderRotate90.TexCoords()
	if uv[CornerUpperLeft] != (Point{0, 1}) || uv[CornerUpperRight] != (Point{0, 0}) {
		t.Errorf("Rotate90 TexCoords = %v", uv)
	}
}

func TestVertexOrderReflects(t *testing.T) {
	reflections := map[VertexOrder]bool{
		OrderFlipLeftRight: true,
		OrderFlipTopBottom: true,
		OrderTranspose:     true,
		OrderTransverse:    true,
	}
	for _, o := range allOrders {
		if got := o.Reflects(); got != reflections[o] {
			t.Errorf("%v.Reflects() = %v", o, got)
		}
	}
}

func TestTransformPointsKeepsWinding(t *testing.T) {
	ccw := []Point{{-2, -1}, {2, -1}, {2, 1}, {-1, 2}}
	for _, o := range allOrders {
		if got := o.TransformPoints(ccw); !counterClockwise(got) {
			t.Errorf("%v: %v is not counter-clockwise", o, got)
		}
	}
}

func TestTransformPointsNoNegativeZero(t *testing.T) {
	got := OrderFlipLeftRight.TransformPoints([]Point{{0, 0}})[0]
	if got.X != 0 || 1/got.X < 0 {
		t.Errorf("X = %v, want +0", got.X)
	}
	if OrderRotate90.TransformPoints(nil) != nil {
		t.Error("nil input should stay nil")
	}
}
