package texcache

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultHitBoxDetail is the simplification tolerance, in pixels, used by
// Detailed when none is given.
const DefaultHitBoxDetail = 4.5

// alphaLevel is the iso-level traced over a 0/255 opacity field.
const alphaLevel = 99

// Detailed traces the outline of the largest opaque shape and simplifies
// it. Detail is the simplification tolerance in pixels; larger values
// produce fewer points. Shapes too small or thin to survive
// simplification, such as a single pixel or a one-pixel line, get the
// rectangle around their opaque pixels instead, so only a fully
// transparent image has an empty hit box.
type Detailed struct {
	Detail float64
	// Tracer and Simplifier default to MarchingSquares and DouglasPeucker.
	// Swapping them must not change the result for a given Detail, since
	// the cache key only includes Detail.
	Tracer     ContourTracer
	Simplifier Simplifier
}

// NewDetailed returns a Detailed algorithm with the default tracer and
// simplifier.
func NewDetailed(detail float64) (Detailed, error) {
	if detail < 0 || math.IsNaN(detail) || math.IsInf(detail, 0) {
		return Detailed{}, fmt.Errorf("%w: hit-box detail must be a finite non-negative number, got %v", ErrInvalidConfig, detail)
	}
	return Detailed{Detail: detail}, nil
}

func newDetailedFromParams(params map[string]string) (HitBoxAlgorithm, error) {
	detail := DefaultHitBoxDetail
	if s, ok := params["detail"]; ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: detail %q: %w", ErrInvalidConfig, s, err)
		}
		detail = v
	}
	return NewDetailed(detail)
}

// Name implements HitBoxAlgorithm.
func (Detailed) Name() string { return "detailed" }

// ParamString implements HitBoxAlgorithm.
func (d Detailed) ParamString() string {
	return "detail=" + strconv.FormatFloat(d.Detail, 'f', -1, 64)
}

// Cacheable implements HitBoxAlgorithm.
func (Detailed) Cacheable() bool { return true }

// Calculate implements HitBoxAlgorithm. Images whose four corner pixels
// are all opaque get the bounding rectangle without tracing.
func (d Detailed) Calculate(img *ImageRecord) []Point {
	if img == nil {
		return nil
	}
	w, h := img.Width(), img.Height()
	if img.Alpha(0, 0) > 0 && img.Alpha(w-1, 0) > 0 &&
		img.Alpha(0, h-1) > 0 && img.Alpha(w-1, h-1) > 0 {
		return boundingPoints(w, h)
	}

	// Samples sit at pixel centers. One sample of transparent padding on
	// each side keeps every contour closed.
	g := ScalarGrid{Width: w + 2, Height: h + 2, OriginX: -0.5, OriginY: -0.5}
	g.Values = make([]float64, g.Width*g.Height)
	for j := 0; j < g.Height; j++ {
		for i := 0; i < g.Width; i++ {
			if img.Alpha(i-1, j-1) > 0 {
				g.Values[j*g.Width+i] = 255
			}
		}
	}

	tracer := d.Tracer
	if tracer == nil {
		tracer = MarchingSquares{}
	}
	contours := tracer.Trace(g, alphaLevel)
	if len(contours) == 0 {
		return []Point{}
	}

	best, bestArea := contours[0], -1.0
	for _, c := range contours {
		lo, hi := pointBounds(c)
		if a := (hi.X - lo.X) * (hi.Y - lo.Y); a > bestArea {
			best, bestArea = c, a
		}
	}

	simp := d.Simplifier
	if simp == nil {
		simp = DouglasPeucker{}
	}
	line := simp.Simplify(best, d.Detail)

	hw, hh := float64(w)/2, float64(h)/2
	pts := make([]Point, 0, len(line))
	for _, p := range line {
		pts = append(pts, Point{
			X: posZero(math.Round(p.X - hw)),
			Y: posZero(math.Round(hh - p.Y)),
		})
	}
	pts = dedupeConsecutive(pts)
	if len(pts) < 3 {
		return opaqueBox(img)
	}
	makeCounterClockwise(pts)
	return pts
}

// opaqueBox returns the rectangle around every opaque pixel, wound
// counter-clockwise from the lower left, or an empty slice when there is
// none. Edges fall on pixel boundaries and are not rounded.
func opaqueBox(img *ImageRecord) []Point {
	left, top, right, bottom, ok := opaqueBounds(img)
	if !ok {
		return []Point{}
	}
	hw, hh := float64(img.Width())/2, float64(img.Height())/2
	lo := Point{posZero(float64(left) - hw), posZero(hh - float64(bottom+1))}
	hi := Point{posZero(float64(right+1) - hw), posZero(hh - float64(top))}
	return []Point{lo, {hi.X, lo.Y}, hi, {lo.X, hi.Y}}
}
