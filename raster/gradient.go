package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Stop is a gradient color stop; Offset lies in [0,1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// EvenStops spreads colors uniformly over [0,1].
func EvenStops(colors []color.NRGBA) []Stop {
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		off := 0.0
		if len(colors) > 1 {
			off = float64(i) / float64(len(colors)-1)
		}
		stops[i] = Stop{Offset: off, Color: c}
	}
	return stops
}

var infinite = image.Rect(-1e9, -1e9, 1e9, 1e9)

// LinearGradient is an unbounded image whose color varies along the
// segment (X0,Y0)-(X1,Y1) and is constant beyond its ends.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []Stop
}

func (g *LinearGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *LinearGradient) Bounds() image.Rectangle { return infinite }

func (g *LinearGradient) At(x, y int) color.Color {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	den := dx*dx + dy*dy
	t := 0.0
	if den > 0 {
		t = ((float64(x)+0.5-g.X0)*dx + (float64(y)+0.5-g.Y0)*dy) / den
	}
	return sample(g.Stops, t)
}

// RadialGradient varies from the center (Offset 0) to radius R (Offset 1).
type RadialGradient struct {
	CX, CY, R float64
	Stops     []Stop
}

func (g *RadialGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *RadialGradient) Bounds() image.Rectangle { return infinite }

func (g *RadialGradient) At(x, y int) color.Color {
	t := 0.0
	if g.R > 0 {
		t = math.Hypot(float64(x)+0.5-g.CX, float64(y)+0.5-g.CY) / g.R
	}
	return sample(g.Stops, t)
}

// sample interpolates stops in sRGB, alpha linearly, as canvas gradients do.
func sample(stops []Stop, t float64) color.NRGBA {
	switch {
	case len(stops) == 0:
		return color.NRGBA{}
	case t <= stops[0].Offset:
		return stops[0].Color
	case t >= stops[len(stops)-1].Offset:
		return stops[len(stops)-1].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		f := 0.0
		if span > 0 {
			f = (t - a.Offset) / span
		}
		ca, _ := colorful.MakeColor(opaque(a.Color))
		cb, _ := colorful.MakeColor(opaque(b.Color))
		r, g, bl := ca.BlendRgb(cb, f).Clamped().RGB255()
		alpha := float64(a.Color.A) + f*(float64(b.Color.A)-float64(a.Color.A))
		return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
	}
	return stops[len(stops)-1].Color
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
