package editor

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// layerTransform maps layer pixel space to canvas space scaled by k:
// translate(X,Y) · rotate · scale · translate(-anchor), all times k.
func layerTransform(l *Layer, k float64) f64.Aff3 {
	ax, ay := l.anchorPoint()
	rad := l.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	a, b := l.ScaleX*cos, -l.ScaleY*sin
	d, e := l.ScaleX*sin, l.ScaleY*cos
	c := l.X - (a*ax + b*ay)
	f := l.Y - (d*ax + e*ay)
	return f64.Aff3{k * a, k * b, k * c, k * d, k * e, k * f}
}

// isTranslation reports whether m only shifts by whole pixels.
func isTranslation(m f64.Aff3) bool {
	return m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1 &&
		m[2] == math.Trunc(m[2]) && m[5] == math.Trunc(m[5])
}

// drawLayer composites l over dst. Whole-pixel placements are copied
// exactly; everything else is resampled bilinearly.
func drawLayer(dst *image.RGBA, l *Layer, k float64) {
	if !l.Visible || l.Opacity <= 0 || l.Width == 0 || l.Height == 0 {
		return
	}
	src := l.Image()
	var mask image.Image
	if l.Opacity < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(math.Round(l.Opacity * 255))})
	}
	m := layerTransform(l, k)
	if isTranslation(m) {
		off := image.Pt(int(m[2]), int(m[5]))
		r := src.Rect.Add(off)
		draw.DrawMask(dst, r, src, image.Point{}, mask, image.Point{}, draw.Over)
		return
	}
	var opts *draw.Options
	if mask != nil {
		opts = &draw.Options{SrcMask: mask}
	}
	draw.BiLinear.Transform(dst, m, src, src.Rect, draw.Over, opts)
}

// composite renders the visible layers bottom to top over the opaque
// background at k times canvas size. With clip set, pixels outside the
// interior are reset to the background before the overlay is drawn.
func (e *Editor) composite(k float64, clip bool) *image.NRGBA {
	w := int(math.Round(float64(e.width) * k))
	h := int(math.Round(float64(e.height) * k))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Rect, image.NewUniform(e.background), image.Point{}, draw.Src)

	for _, l := range e.layers {
		drawLayer(dst, l, k)
	}
	if clip {
		e.clipToInterior(dst, k)
	}
	if e.overlay != nil {
		drawLayer(dst, e.overlay, k)
	}

	out := image.NewNRGBA(dst.Rect)
	draw.Draw(out, out.Rect, dst, image.Point{}, draw.Src)
	return out
}

func (e *Editor) clipToInterior(dst *image.RGBA, k float64) {
	bg := e.background
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		my := min(int(float64(y)/k), e.height-1)
		row := dst.Pix[y*dst.Stride:]
		for x := range w {
			mx := min(int(float64(x)/k), e.width-1)
			if e.interior[my*e.width+mx] != 0 {
				continue
			}
			o := x * 4
			row[o], row[o+1], row[o+2], row[o+3] = bg.R, bg.G, bg.B, bg.A
		}
	}
}
