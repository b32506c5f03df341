package pattern

import (
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/raster"
)

// waveStep is the horizontal sampling distance of wave polylines.
const waveStep = 5

func sineLine(w, baseY, amp, length, phase float64) []r2.Vec {
	pts := make([]r2.Vec, 0, int(w/waveStep)+2)
	for x := 0.0; x <= w; x += waveStep {
		pts = append(pts, r2.Vec{X: x, Y: baseY + math.Sin(x/length*2*math.Pi+phase)*amp})
	}
	return pts
}

// waves strokes waveCount evenly spaced sine lines.
func waves(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	col := r.color("waveColor")
	amp := r.nonNegative("waveHeight")
	length := r.positive("waveLength")
	n := r.shapes("waveCount")
	lw := r.positive("lineWidth")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	spacing := h / float64(n+1)

	lines := &raster.Path{}
	for i := 1; i <= n; i++ {
		lines.Stroke(sineLine(w, spacing*float64(i), amp, length, 0), lw, false, true)
	}
	c.FillColor(lines, col)
	return c.Image()
}

// multiWave strokes one sine line per color, each shifted in phase by its
// index.
func multiWave(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cols := r.colors("colors")
	amp := r.nonNegative("waveHeight")
	length := r.positive("waveLength")
	spacing := r.positive("spacing")
	lw := r.positive("lineWidth")
	c := r.canvas("bgColor")
	if r.err != nil {
		return nil, r.err
	}
	w := float64(c.Width())
	for i, col := range cols {
		line := &raster.Path{}
		line.Stroke(sineLine(w, spacing*float64(i+1), amp, length, float64(i)), lw, false, true)
		c.FillColor(line, col)
	}
	return c.Image()
}

// camouflage scatters irregular blobs over the first color. It draws from
// the global random source, so repeated calls differ.
func camouflage(p Params) (*image.NRGBA, error) {
	r := &reader{p: p}
	cols := r.colors("colors")
	n := r.shapes("blobCount")
	c := r.canvas("")
	if r.err != nil {
		return nil, r.err
	}
	w, h := float64(c.Width()), float64(c.Height())
	c.Clear(cols[0])

	pts := make([]r2.Vec, 0, 9)
	for range n {
		x, y := rand.Float64()*w, rand.Float64()*h
		size := 30 + rand.Float64()*100
		col := cols[rand.IntN(len(cols))]
		k := 6 + rand.IntN(4)
		pts = pts[:0]
		for j := range k {
			a := float64(j) / float64(k) * 2 * math.Pi
			rad := size * (0.5 + rand.Float64()*0.5)
			pts = append(pts, r2.Vec{X: x + math.Cos(a)*rad, Y: y + math.Sin(a)*rad})
		}
		blob := &raster.Path{}
		blob.Polygon(pts)
		c.FillColor(blob, col)
	}
	return c.Image()
}
