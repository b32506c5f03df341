package pattern

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/raster"
)

// canvas reads width and height and returns a canvas painted with the
// background color under key bg, if any.
func (r *reader) canvas(bg string) *raster.Canvas {
	w, h := r.side("width"), r.side("height")
	var fill color.NRGBA
	if bg != "" {
		fill = r.color(bg)
	}
	if r.err != nil {
		return nil
	}
	c := raster.NewCanvas(w, h)
	if fill.A != 0 {
		c.Clear(fill)
	}
	return c
}

// racingStripes draws two full-height bands either side of the vertical
// center line.
func racingStripes(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	col := r.color("stripeColor")
	sw := r.positive("stripeWidth")
	gap := r.nonNegative("gap")
	offset := r.float("offset")
	c := r.canvas("")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	cx := w/2 + offset

	path := &raster.Path{}
	path.Rect(cx-gap/2-sw, 0, sw, h)
	path.Rect(cx+gap/2, 0, sw, h)
	c.FillColor(path, col)
	return c.Image()
}

// diagonalStripes draws evenly spaced bands rotated by angle degrees about
// the canvas center.
func diagonalStripes(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	col := r.color("stripeColor")
	sw := r.positive("stripeWidth")
	gap := r.nonNegative("gap")
	angle := r.float("angle")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	diag := math.Hypot(w, h)
	step := sw + gap
	n := int(math.Ceil(diag/step)) * 2

	bands := &raster.Path{}
	for i := -n / 2; i < n/2; i++ {
		bands.Rect(float64(i)*step, -diag, sw, 2*diag)
	}
	rotated := &raster.Path{}
	rotated.Append(bands, angle*math.Pi/180, r2.Vec{X: w / 2, Y: h / 2})
	c.FillColor(rotated, col)
	return c.Image()
}

// gradientStripes fills the canvas with a linear gradient through colors,
// running along angle degrees across the full diagonal length.
func gradientStripes(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cols := r.colors("colors")
	angle := r.float("angle")
	c := r.canvas("")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	rad := angle * math.Pi / 180
	half := math.Hypot(w, h) / 2
	dx, dy := math.Cos(rad)*half, math.Sin(rad)*half

	g := &raster.LinearGradient{
		X0: w/2 - dx, Y0: h/2 - dy,
		X1: w/2 + dx, Y1: h/2 + dy,
		Stops: raster.EvenStops(cols),
	}
	all := &raster.Path{}
	all.Rect(0, 0, w, h)
	c.Fill(all, g)
	return c.Image()
}

// lightning draws one horizontal band through the middle whose top and
// bottom edges are zigzags.
func lightning(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	col := r.color("color")
	zw := r.positive("zigzagWidth")
	zh := r.nonNegative("zigzagHeight")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	cy := h / 2
	half := zh * 3 / 2
	top, bottom := cy-half, cy+half

	pts := []r2.Vec{{X: 0, Y: top}}
	for x := 0.0; x <= w; x += zw {
		pts = append(pts, r2.Vec{X: x + zw/2, Y: top - zh}, r2.Vec{X: x + zw, Y: top})
	}
	pts = append(pts, r2.Vec{X: w, Y: bottom})
	for x := w; x >= 0; x -= zw {
		pts = append(pts, r2.Vec{X: x - zw/2, Y: bottom + zh}, r2.Vec{X: x - zw, Y: bottom})
	}
	band := &raster.Path{}
	band.Polygon(pts)
	c.FillColor(band, col)
	return c.Image()
}
