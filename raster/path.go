// Package raster is the vector drawing layer shared by the pattern
// generators and the text fill. Paths are gg paths, coverage comes from
// gg's rasterizer, and colors or gradients are composited through that
// coverage onto a premultiplied RGBA surface.
package raster

import (
	"math"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/spatial/r2"
)

// Path records drawing commands in float64 canvas coordinates (y down).
//
// All closed shapes built by the helper methods wind the same way, so
// shapes batched into one path accumulate coverage instead of cancelling.
type Path struct {
	g gg.Path
}

func (p *Path) MoveTo(x, y float64) { p.g.MoveTo(x, y) }

func (p *Path) LineTo(x, y float64) { p.g.LineTo(x, y) }

func (p *Path) QuadTo(cx, cy, x, y float64) { p.g.QuadraticTo(cx, cy, x, y) }

func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.g.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (p *Path) Close() { p.g.Close() }

// Empty reports whether nothing has been recorded.
func (p *Path) Empty() bool { return len(p.g.Elements()) == 0 }

// Polygon adds a closed polygon. Vertex order is normalized to the
// canonical winding.
func (p *Path) Polygon(pts []r2.Vec) {
	if len(pts) < 3 {
		return
	}
	if signedArea(pts) < 0 {
		rev := make([]r2.Vec, len(pts))
		for i, v := range pts {
			rev[len(pts)-1-i] = v
		}
		pts = rev
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, v := range pts[1:] {
		p.LineTo(v.X, v.Y)
	}
	p.Close()
}

// Rect adds an axis-aligned rectangle.
func (p *Path) Rect(x, y, w, h float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	p.g.Rectangle(x, y, w, h)
}

// Circle adds a circle approximated by four cubic arcs.
func (p *Path) Circle(cx, cy, r float64) {
	if r <= 0 {
		return
	}
	p.g.Circle(cx, cy, r)
}

// RegularPolygon adds an n-gon of circumradius r whose first vertex sits at
// angle phase (radians).
func (p *Path) RegularPolygon(cx, cy, r float64, n int, phase float64) {
	if n < 3 {
		return
	}
	pts := make([]r2.Vec, n)
	for i := range n {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = r2.Vec{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	p.Polygon(pts)
}

// Stroke adds the outline of a polyline of the given width as a union of
// segment quads. With round set, every vertex also gets a disc, which
// yields round caps and joins.
func (p *Path) Stroke(pts []r2.Vec, width float64, closed, round bool) {
	if len(pts) == 0 || width <= 0 {
		return
	}
	hw := width / 2
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a, b := pts[i], pts[(i+1)%n]
		d := r2.Sub(b, a)
		l := r2.Norm(d)
		if l == 0 {
			continue
		}
		nv := r2.Scale(hw/l, r2.Vec{X: -d.Y, Y: d.X})
		p.Polygon([]r2.Vec{r2.Sub(a, nv), r2.Sub(b, nv), r2.Add(b, nv), r2.Add(a, nv)})
	}
	if round {
		for _, v := range pts {
			p.Circle(v.X, v.Y, hw)
		}
	}
}

// Append adds q rotated by angle (radians) about q's origin and then
// translated by offset.
func (p *Path) Append(q *Path, angle float64, offset r2.Vec) {
	m := gg.Translate(offset.X, offset.Y).Multiply(gg.Rotate(angle))
	p.appendElements(q.g.Transform(m).Elements())
}

func (p *Path) appendElements(els []gg.PathElement) {
	for _, el := range els {
		switch e := el.(type) {
		case gg.MoveTo:
			p.g.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			p.g.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			p.g.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			p.g.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			p.g.Close()
		}
	}
}

// Bounds returns the bounding box of every recorded point, control points
// included. An empty path returns a zero box.
func (p *Path) Bounds() r2.Box {
	var b r2.Box
	first := true
	add := func(v gg.Point) {
		if first {
			b = r2.Box{Min: r2.Vec(v), Max: r2.Vec(v)}
			first = false
			return
		}
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
	}
	for _, el := range p.g.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			add(e.Point)
		case gg.LineTo:
			add(e.Point)
		case gg.QuadTo:
			add(e.Control)
			add(e.Point)
		case gg.CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	return b
}

func signedArea(pts []r2.Vec) float64 {
	var a float64
	for i, v := range pts {
		w := pts[(i+1)%len(pts)]
		a += v.X*w.Y - w.X*v.Y
	}
	return a / 2
}

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }
