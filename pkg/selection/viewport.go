package selection

import (
	"image"
	"math"
)

// Viewport maps between view coordinates and image pixels for an image
// scaled to fit inside a view of Width x Height and centered in it.
type Viewport struct {
	Image  image.Rectangle
	Width  float32
	Height float32
}

// Scale returns the image-to-view scale factor, 0 when nothing can be shown
func (v Viewport) Scale() float32 {
	if v.Image.Empty() || v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return min(v.Width/float32(v.Image.Dx()), v.Height/float32(v.Image.Dy()))
}

// Placement returns the offset and size of the drawn image inside the view
func (v Viewport) Placement() (x, y, w, h float32) {
	s := v.Scale()
	w = float32(v.Image.Dx()) * s
	h = float32(v.Image.Dy()) * s
	return (v.Width - w) / 2, (v.Height - h) / 2, w, h
}

// ToImage converts a view position into image pixels, clamped to the image
func (v Viewport) ToImage(x, y float32) image.Point {
	s := v.Scale()
	if s == 0 {
		return v.Image.Min
	}
	ox, oy, _, _ := v.Placement()
	px := int(math.Round(float64((x - ox) / s)))
	py := int(math.Round(float64((y - oy) / s)))
	return image.Pt(
		v.Image.Min.X+clampInt(px, 0, v.Image.Dx()),
		v.Image.Min.Y+clampInt(py, 0, v.Image.Dy()),
	)
}

// ToView converts an image rectangle into view coordinates
func (v Viewport) ToView(r image.Rectangle) (x, y, w, h float32) {
	s := v.Scale()
	ox, oy, _, _ := v.Placement()
	r = r.Sub(v.Image.Min)
	return ox + float32(r.Min.X)*s, oy + float32(r.Min.Y)*s, float32(r.Dx()) * s, float32(r.Dy()) * s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
