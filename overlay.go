package texcache

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"
)

// Overlay returns the texture's displayed pixels with its hit box filled
// in c on top. Use a translucent color to keep the sprite visible.
func Overlay(t *Texture, c color.Color) *image.NRGBA {
	dst := t.Image()
	hb := t.HitBox()
	if hb.Empty() {
		return dst
	}
	w, h := t.Size()
	z := vector.NewRasterizer(w, h)
	for i, p := range hb.Points {
		x := float32(p.X + float64(w)/2)
		y := float32(float64(h)/2 - p.Y)
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	return dst
}
