package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"
)

// Canvas is a premultiplied RGBA surface. Shapes are rasterized by a gg
// context used as a coverage mask: every fill draws opaque white into it,
// and its alpha channel then carries src onto the surface. This lets any
// image.Image, gradients included, paint through gg's anti-aliasing.
//
// A Canvas is not safe for concurrent use. The first rasterizer error
// sticks and is returned by Image.
type Canvas struct {
	img  *image.RGBA
	mask *gg.Context
	cov  *image.Alpha
	err  error
}

// NewCanvas returns a transparent w×h canvas.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	r := image.Rect(0, 0, w, h)
	return &Canvas{
		img: image.NewRGBA(r),
		cov: image.NewAlpha(r),
	}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Clear paints the whole canvas with col, replacing its contents.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// Fill composites src over the canvas through the coverage of p under the
// non-zero winding rule.
func (c *Canvas) Fill(p *Path, src image.Image) {
	if c.err != nil || p.Empty() || c.img.Rect.Empty() {
		return
	}
	if err := c.rasterize(p); err != nil {
		c.err = err
		return
	}
	draw.DrawMask(c.img, c.img.Rect, src, image.Point{}, c.cov, image.Point{}, draw.Over)
}

// FillColor fills p with a solid color.
func (c *Canvas) FillColor(p *Path, col color.Color) {
	c.Fill(p, image.NewUniform(col))
}

// rasterize leaves p's coverage in c.cov.
func (c *Canvas) rasterize(p *Path) error {
	if c.mask == nil {
		c.mask = gg.NewContext(c.Width(), c.Height())
		c.mask.SetColor(color.White)
		c.mask.SetFillRule(gg.FillRuleNonZero)
	}
	pm := c.mask.ResizeTarget()
	pm.Clear(gg.Transparent)
	for _, el := range p.g.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			c.mask.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			c.mask.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			c.mask.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			c.mask.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			c.mask.ClosePath()
		}
	}
	if err := c.mask.Fill(); err != nil {
		return fmt.Errorf("rasterize path: %w", err)
	}
	data := pm.Data()
	for i := range c.cov.Pix {
		c.cov.Pix[i] = data[i*4+3]
	}
	return nil
}

// RGBA returns the backing premultiplied image.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

// Image returns a non-premultiplied copy of the canvas, or the first
// error met while drawing.
func (c *Canvas) Image() (*image.NRGBA, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := image.NewNRGBA(c.img.Rect)
	draw.Draw(out, out.Rect, c.img, image.Point{}, draw.Src)
	return out, nil
}
