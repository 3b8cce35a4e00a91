package texcache

// Bounding returns the image rectangle without looking at pixels.
type Bounding struct{}

// Name implements HitBoxAlgorithm.
func (Bounding) Name() string { return "bounding" }

// ParamString implements HitBoxAlgorithm.
func (Bounding) ParamString() string { return "" }

// Cacheable is false: the result is four numbers derived from the size.
func (Bounding) Cacheable() bool { return false }

// Calculate returns the four corners of the image, centered, in the order
// lower-left, lower-right, upper-right, upper-left.
func (Bounding) Calculate(img *ImageRecord) []Point {
	if img == nil {
		return nil
	}
	return boundingPoints(img.Width(), img.Height())
}

func boundingPoints(w, h int) []Point {
	hw, hh := float64(w)/2, float64(h)/2
	lo, hi := Point{posZero(-hw), posZero(-hh)}, Point{hw, hh}
	return []Point{lo, {hi.X, lo.Y}, hi, {lo.X, hi.Y}}
}
