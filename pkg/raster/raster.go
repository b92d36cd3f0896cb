// Package raster paints views into images so animations can be previewed
// and exported frame by frame without a native toolkit.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/go-fluid/fluid/pkg/view"
)

// DefaultColor fills views that have no background colour.
var DefaultColor = colorful.Color{R: 0.6, G: 0.6, B: 0.6}

// NewCanvas returns a w×h image filled with background.
func NewCanvas(w, h int, background colorful.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(toColor(background, 1)), image.Point{}, draw.Src)
	return dst
}

// Affine returns the matrix mapping view-local coordinates (origin at the top
// left of the view's box) to canvas coordinates: scale and rotate about the
// box centre, then translate by the frame position and the view's
// translation. Rotation is in degrees, clockwise on screen.
func Affine(v *view.View) f64.Aff3 {
	frame := v.Frame()
	s := v.Properties()
	cx, cy := frame.Center()
	rad := s.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)

	a, b := s.Scale*cos, -s.Scale*sin
	d, e := s.Scale*sin, s.Scale*cos
	hw, hh := frame.W/2, frame.H/2
	return f64.Aff3{
		a, b, cx + s.TranslationX - (a*hw + b*hh),
		d, e, cy + s.TranslationY - (d*hw + e*hh),
	}
}

// Render paints views onto dst in order, later views on top. Views that are
// invisible (zero opacity, zero scale or an empty frame) are skipped.
func Render(dst draw.Image, views ...*view.View) {
	for _, v := range views {
		renderView(dst, v)
	}
}

// Frame renders views onto a fresh canvas.
func Frame(w, h int, background colorful.Color, views ...*view.View) *image.RGBA {
	dst := NewCanvas(w, h, background)
	Render(dst, views...)
	return dst
}

func renderView(dst draw.Image, v *view.View) {
	frame := v.Frame()
	s := v.Properties()
	w, h := int(math.Round(frame.W)), int(math.Round(frame.H))
	if w <= 0 || h <= 0 || s.Opacity <= 0 || s.Scale == 0 {
		return
	}

	fill := DefaultColor
	if s.HasColor {
		fill = s.Color
	}
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), image.NewUniform(toColor(fill, s.Opacity)), image.Point{}, draw.Src)

	draw.BiLinear.Transform(dst, Affine(v), src, src.Bounds(), draw.Over, nil)
}

func toColor(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	alpha := math.Round(math.Max(0, math.Min(1, opacity)) * 255)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}
}
