package texcache

// Simple trims transparent padding and shaves transparent corners
// diagonally, producing 4 to 8 points. It is far cheaper than contour
// tracing and good enough for most sprites.
type Simple struct{}

// Name implements HitBoxAlgorithm.
func (Simple) Name() string { return "simple" }

// ParamString implements HitBoxAlgorithm.
func (Simple) ParamString() string { return "" }

// Cacheable implements HitBoxAlgorithm.
func (Simple) Cacheable() bool { return true }

// Calculate implements HitBoxAlgorithm.
func (Simple) Calculate(img *ImageRecord) []Point {
	if img == nil {
		return nil
	}
	left, top, right, bottom, ok := opaqueBounds(img)
	if !ok {
		return []Point{}
	}

	tl := cornerOffset(img, left, top, 1, 1)
	tr := cornerOffset(img, right, top, -1, 1)
	bl := cornerOffset(img, left, bottom, 1, -1)
	br := cornerOffset(img, right, bottom, -1, -1)

	// Pixel edges: the opaque region spans [left, right+1) x [top, bottom+1).
	l, t, r, b := left, top, right+1, bottom+1
	w, h := img.Width(), img.Height()
	pt := func(x, y int) Point {
		return Point{X: float64(x) - float64(w)/2, Y: float64(h)/2 - float64(y)}
	}

	pts := make([]Point, 0, 8)
	pts = append(pts, pt(l, b-bl))
	if bl > 0 {
		pts = append(pts, pt(l+bl, b))
	}
	pts = append(pts, pt(r-br, b))
	if br > 0 {
		pts = append(pts, pt(r, b-br))
	}
	pts = append(pts, pt(r, t+tr))
	if tr > 0 {
		pts = append(pts, pt(r-tr, t))
	}
	pts = append(pts, pt(l+tl, t))
	if tl > 0 {
		pts = append(pts, pt(l, t+tl))
	}
	return dedupeConsecutive(pts)
}

// opaqueBounds returns the inclusive pixel bounds of all pixels with
// non-zero alpha. ok is false for a fully transparent image.
func opaqueBounds(img *ImageRecord) (left, top, right, bottom int, ok bool) {
	w, h := img.Width(), img.Height()
	pix := img.Pix()
	left, top, right, bottom = w, h, -1, -1
	for y := 0; y < h; y++ {
		row := pix[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] == 0 {
				continue
			}
			left = min(left, x)
			right = max(right, x)
			top = min(top, y)
			bottom = max(bottom, y)
		}
	}
	return left, top, right, bottom, right >= 0
}

// cornerOffset walks diagonal rings inward from corner (sx, sy) and
// returns how many rings are fully transparent. dx and dy point into the
// opaque box.
func cornerOffset(img *ImageRecord, sx, sy, dx, dy int) int {
	w, h := img.Width(), img.Height()
	for offset := 0; ; offset++ {
		x, y := sx, sy+offset*dy
		for i := 0; i <= offset; i++ {
			if x < 0 || y < 0 || x >= w || y >= h || img.Alpha(x, y) != 0 {
				return offset
			}
			x += dx
			y -= dy
		}
	}
}
