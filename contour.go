package texcache

// ScalarGrid is a regular grid of samples with unit spacing. Sample (i, j)
// sits at (OriginX+i, OriginY+j) and is stored at Values[j*Width+i].
type ScalarGrid struct {
	Width, Height    int
	OriginX, OriginY float64
	Values           []float64
}

func (g ScalarGrid) at(i, j int) float64 { return g.Values[j*g.Width+i] }

// ContourTracer extracts iso-lines from a grid.
type ContourTracer interface {
	// Trace returns every closed contour where the field crosses level.
	// Contours are returned without a repeated closing point.
	Trace(g ScalarGrid, level float64) [][]Point
}

// MarchingSquares is a ContourTracer with linear interpolation along cell
// edges. Saddle cells are resolved by the average of the four corners.
type MarchingSquares struct{}

// cell edges
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// segments per case, indexed by corner bits tl=1, tr=2, br=4, bl=8.
// Saddles (5 and 10) are filled in at trace time.
var squareCases = [16][][2]int{
	0:  nil,
	1:  {{edgeLeft, edgeTop}},
	2:  {{edgeTop, edgeRight}},
	3:  {{edgeLeft, edgeRight}},
	4:  {{edgeRight, edgeBottom}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeLeft, edgeBottom}},
	8:  {{edgeBottom, edgeLeft}},
	9:  {{edgeTop, edgeBottom}},
	11: {{edgeRight, edgeBottom}},
	12: {{edgeLeft, edgeRight}},
	13: {{edgeTop, edgeRight}},
	14: {{edgeLeft, edgeTop}},
	15: nil,
}

var (
	cutTopRightBottomLeft = [][2]int{{edgeTop, edgeRight}, {edgeBottom, edgeLeft}}
	cutTopLeftBottomRight = [][2]int{{edgeLeft, edgeTop}, {edgeRight, edgeBottom}}
)

// Trace implements ContourTracer.
func (MarchingSquares) Trace(g ScalarGrid, level float64) [][]Point {
	nx, ny := g.Width, g.Height
	if nx < 2 || ny < 2 || len(g.Values) < nx*ny {
		return nil
	}

	inside := func(i, j int) bool { return g.at(i, j) > level }

	// Horizontal edge (i,j)-(i+1,j) has id (j*nx+i)*2, vertical edge
	// (i,j)-(i,j+1) has id (j*nx+i)*2+1.
	edgeID := func(i, j, e int) int {
		switch e {
		case edgeTop:
			return (j*nx + i) * 2
		case edgeBottom:
			return ((j+1)*nx + i) * 2
		case edgeLeft:
			return (j*nx+i)*2 + 1
		default:
			return (j*nx+i+1)*2 + 1
		}
	}
	crossing := func(id int) Point {
		k := id / 2
		i, j := k%nx, k/nx
		a := g.at(i, j)
		if id%2 == 0 {
			b := g.at(i+1, j)
			return Point{g.OriginX + float64(i) + lerpT(a, b, level), g.OriginY + float64(j)}
		}
		b := g.at(i, j+1)
		return Point{g.OriginX + float64(i), g.OriginY + float64(j) + lerpT(a, b, level)}
	}

	adj := make(map[int][]int)
	var order []int
	link := func(a, b int) {
		if _, ok := adj[a]; !ok {
			order = append(order, a)
		}
		if _, ok := adj[b]; !ok {
			order = append(order, b)
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			c := 0
			if inside(i, j) {
				c |= 1
			}
			if inside(i+1, j) {
				c |= 2
			}
			if inside(i+1, j+1) {
				c |= 4
			}
			if inside(i, j+1) {
				c |= 8
			}
			segs := squareCases[c]
			switch c {
			case 5, 10:
				center := (g.at(i, j) + g.at(i+1, j) + g.at(i+1, j+1) + g.at(i, j+1)) / 4
				joined := center > level
				// With the center inside, the two inside corners connect and
				// the outside corners are cut off.
				if (c == 5) == joined {
					segs = cutTopRightBottomLeft
				} else {
					segs = cutTopLeftBottomRight
				}
			}
			for _, s := range segs {
				link(edgeID(i, j, s[0]), edgeID(i, j, s[1]))
			}
		}
	}

	visited := make(map[int]bool, len(adj))
	var contours [][]Point
	for _, start := range order {
		if visited[start] {
			continue
		}
		var line []Point
		for cur := start; cur >= 0; {
			visited[cur] = true
			line = append(line, crossing(cur))
			next := -1
			for _, n := range adj[cur] {
				if !visited[n] {
					next = n
					break
				}
			}
			cur = next
		}
		if len(line) >= 3 {
			contours = append(contours, line)
		}
	}
	return contours
}

func lerpT(a, b, level float64) float64 {
	if a == b {
		return 0.5
	}
	return (level - a) / (b - a)
}
