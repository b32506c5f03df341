package pattern

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/raster"
)

// numberRoundel draws a race number on a disc with a colored ring, centered
// on the canvas.
func numberRoundel(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	number := r.str("number")
	radius := r.positive("radius")
	ring := r.nonNegative("ringWidth")
	ringCol := r.color("ringColor")
	discCol := r.color("discColor")
	textCol := r.color("textColor")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	cx, cy := float64(c.Width())/2, float64(c.Height())/2

	outer := &raster.Path{}
	outer.Circle(cx, cy, radius)
	c.FillColor(outer, ringCol)
	inner := &raster.Path{}
	inner.Circle(cx, cy, radius-ring)
	c.FillColor(inner, discCol)

	if number == "" {
		return c.Image()
	}
	face, err := raster.DefaultFace()
	if err != nil {
		return nil, err
	}
	// Size the digits so the advance box fits inside the disc.
	size := radius * 1.1
	shape, err := face.Shape(number, size)
	if err != nil {
		return nil, err
	}
	if fit := 1.6 * (radius - ring); fit > 0 && shape.Width > fit {
		if shape, err = face.Shape(number, size*fit/shape.Width); err != nil {
			return nil, err
		}
	}
	digits := &raster.Path{}
	digits.Append(shape.Path, 0, r2.Vec{X: cx, Y: cy})
	c.FillColor(digits, textCol)
	return c.Image()
}

// flames draws a row of flame tongues rising from the bottom edge, filled
// with a vertical gradient from the base color to the tip color.
func flames(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cols := r.colors("colors")
	n := r.shapes("count")
	height := r.positive("flameHeight")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	if n == 0 {
		return c.Image()
	}
	bw := w / float64(n)

	tongues := &raster.Path{}
	for i := range n {
		x0 := float64(i) * bw
		// Deterministic height and lean variation per tongue.
		th := height * (0.6 + 0.4*math.Abs(math.Sin(float64(i)*1.7+0.3)))
		lean := bw * 0.35 * math.Sin(float64(i)*2.3)
		tipX, tipY := x0+bw/2+lean, h-th
		tongues.MoveTo(x0-bw*0.15, h)
		tongues.QuadTo(x0+bw*0.05, h-th*0.55, tipX, tipY)
		tongues.QuadTo(x0+bw*0.95, h-th*0.45, x0+bw*1.15, h)
		tongues.Close()
	}
	g := &raster.LinearGradient{X0: 0, Y0: h, X1: 0, Y1: h - height, Stops: raster.EvenStops(cols)}
	c.Fill(tongues, g)
	return c.Image()
}

// starfield scatters stars over a dark sky. The seed param makes the
// layout reproducible; the brightest stars get a soft glow.
func starfield(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	n := r.shapes("count")
	seed := r.count("seed")
	star := r.color("starColor")
	minS := r.positive("minSize")
	maxS := r.positive("maxSize")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	if maxS < minS {
		minS, maxS = maxS, minS
	}
	w, h := float64(c.Width()), float64(c.Height())
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	dots := &raster.Path{}
	type glow struct{ x, y, s float64 }
	var glows []glow
	for range n {
		x, y := rng.Float64()*w, rng.Float64()*h
		s := minS + rng.Float64()*(maxS-minS)
		dots.Circle(x, y, s)
		if s > minS+0.8*(maxS-minS) {
			glows = append(glows, glow{x, y, s})
		}
	}
	halo := color.NRGBA{R: star.R, G: star.G, B: star.B, A: 90}
	fade := color.NRGBA{R: star.R, G: star.G, B: star.B}
	for _, g := range glows {
		disc := &raster.Path{}
		disc.Circle(g.x, g.y, g.s*4)
		c.Fill(disc, &raster.RadialGradient{
			CX: g.x, CY: g.y, R: g.s * 4,
			Stops: []raster.Stop{{Offset: 0, Color: halo}, {Offset: 1, Color: fade}},
		})
	}
	c.FillColor(dots, star)
	return c.Image()
}
