package pattern

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/raster"
)

// triangleRise is the height of an equilateral triangle with unit side,
// rounded as the preset artwork was designed with.
const triangleRise = 0.866

// triangles tiles rows of alternating up and down triangles. Odd rows
// shift by half a side; colors cycle by (row+col).
func triangles(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cols := r.colors("colors")
	s := r.positive("size")
	c := r.canvas("")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	rise := s * triangleRise
	rows := int(math.Ceil(h/rise)) + 1
	ncol := int(math.Ceil(w/s)) + 1

	paths := make([]raster.Path, len(cols))
	for row := range rows {
		for col := range ncol {
			x := float64(col) * s
			if row%2 == 1 {
				x += s / 2
			}
			y := float64(row) * rise
			paths[(row+col)%len(cols)].Polygon([]r2.Vec{
				{X: x, Y: y + rise}, {X: x + s/2, Y: y}, {X: x + s, Y: y + rise},
			})
			paths[(row+col+1)%len(cols)].Polygon([]r2.Vec{
				{X: x + s/2, Y: y}, {X: x + s, Y: y + rise}, {X: x + 1.5*s, Y: y},
			})
		}
	}
	for i := range paths {
		c.FillColor(&paths[i], cols[i])
	}
	return c.Image()
}

// hexagons outlines a pointy-top honeycomb over a flat fill.
func hexagons(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	size := r.positive("hexSize")
	stroke := r.color("strokeColor")
	lw := r.positive("strokeWidth")
	c := r.canvas("fillColor")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	hexW := math.Sqrt(3) * size
	vert := size * 1.5
	rows := int(math.Ceil(h/vert)) + 1
	ncol := int(math.Ceil(w/hexW)) + 1

	lines := &raster.Path{}
	ring := make([]r2.Vec, 6)
	for row := range rows {
		for col := range ncol {
			cx := float64(col) * hexW
			if row%2 == 1 {
				cx += hexW / 2
			}
			cy := float64(row) * vert
			for i := range ring {
				a := math.Pi/3*float64(i) - math.Pi/6
				ring[i] = r2.Vec{X: cx + size*math.Cos(a), Y: cy + size*math.Sin(a)}
			}
			lines.Stroke(ring, lw, true, true)
		}
	}
	c.FillColor(lines, stroke)
	return c.Image()
}

// carbonFiber draws a checkerboard weave with a highlight in the top-left
// corner of every raised cell.
func carbonFiber(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cell := r.positive("cellSize")
	raised := r.color("color2")
	hi := r.color("highlightColor")
	c := r.canvas("color1")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	rows := int(math.Ceil(h / cell))
	ncol := int(math.Ceil(w / cell))

	weave, shine := &raster.Path{}, &raster.Path{}
	for row := range rows {
		for col := range ncol {
			if (row+col)%2 != 0 {
				continue
			}
			x, y := float64(col)*cell, float64(row)*cell
			weave.Rect(x, y, cell, cell)
			shine.Rect(x, y, cell*0.3, cell*0.3)
		}
	}
	c.FillColor(weave, raised)
	c.FillColor(shine, hi)
	return c.Image()
}

// dotGradient lays a grid of dots whose diameter ramps from minDotSize to
// maxDotSize across the canvas, down it, or outward from the center.
func dotGradient(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	dot := r.color("dotColor")
	maxD := r.nonNegative("maxDotSize")
	minD := r.nonNegative("minDotSize")
	spacing := r.positive("spacing")
	dir := r.str("direction")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	switch dir {
	case "horizontal", "vertical", "radial":
	default:
		return nil, invalidChoice("direction", dir, "horizontal", "vertical", "radial")
	}
	w, h := float64(c.Width()), float64(c.Height())
	ncol := int(math.Ceil(w / spacing))
	rows := int(math.Ceil(h / spacing))
	cx, cy := w/2, h/2
	maxDist := math.Hypot(cx, cy)

	dots := &raster.Path{}
	for row := range rows {
		for col := range ncol {
			x := float64(col)*spacing + spacing/2
			y := float64(row)*spacing + spacing/2
			var t float64
			switch dir {
			case "horizontal":
				t = float64(col) / float64(ncol)
			case "vertical":
				t = float64(row) / float64(rows)
			default:
				t = 1 - math.Hypot(x-cx, y-cy)/maxDist
			}
			dots.Circle(x, y, (minD+(maxD-minD)*t)/2)
		}
	}
	c.FillColor(dots, dot)
	return c.Image()
}
