package raster

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/text/unicode/norm"
)

// Face turns strings into glyph outline paths. The font source is shared
// and safe for concurrent use; each Shape call extracts outlines with its
// own buffer.
type Face struct {
	src *text.FontSource
}

var (
	defaultFace     *Face
	defaultFaceErr  error
	defaultFaceOnce sync.Once
)

// DefaultFace returns the embedded Go Bold face.
func DefaultFace() (*Face, error) {
	defaultFaceOnce.Do(func() {
		defaultFace, defaultFaceErr = ParseFace(gobold.TTF)
	})
	return defaultFace, defaultFaceErr
}

// ParseFace parses a TrueType or OpenType font.
func ParseFace(data []byte) (*Face, error) {
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Face{src: src}, nil
}

// TextShape is a run of glyph outlines centered on the origin: the advance
// box spans [-Width/2, Width/2] horizontally and the ascent-to-descent band
// spans [-Height/2, Height/2] vertically.
type TextShape struct {
	Path   *Path
	Width  float64
	Height float64
}

// Shape lays text out on one line at size pixels per em.
func (f *Face) Shape(s string, size float64) (*TextShape, error) {
	face := f.src.Face(size)
	m := face.Metrics()
	ext := text.NewOutlineExtractor()

	glyphs := &Path{}
	pen := 0.0
	for g := range face.Glyphs(norm.NFC.String(s)) {
		o, err := ext.ExtractOutline(f.src.Parsed(), g.GID, size)
		if err != nil {
			return nil, fmt.Errorf("glyph outline %q: %w", g.Rune, err)
		}
		if o != nil {
			appendOutline(glyphs, o, g.X)
		}
		pen = g.X + g.Advance
	}

	shape := &TextShape{Path: &Path{}, Width: pen, Height: m.Ascent + m.Descent}
	// Baseline-relative glyphs move so the box center lands on the origin.
	shape.Path.Append(glyphs, 0, vec(-pen/2, (m.Ascent-m.Descent)/2))
	return shape, nil
}

// appendOutline copies an outline (y down, baseline at 0) into p shifted
// right by pen, closing every contour.
func appendOutline(p *Path, o *text.GlyphOutline, pen float64) {
	pt := func(v text.OutlinePoint) (float64, float64) {
		return pen + float64(v.X), float64(v.Y)
	}
	open := false
	for _, s := range o.Segments {
		switch s.Op {
		case text.OutlineOpMoveTo:
			if open {
				p.Close()
			}
			x, y := pt(s.Points[0])
			p.MoveTo(x, y)
			open = true
		case text.OutlineOpLineTo:
			x, y := pt(s.Points[0])
			p.LineTo(x, y)
		case text.OutlineOpQuadTo:
			cx, cy := pt(s.Points[0])
			x, y := pt(s.Points[1])
			p.QuadTo(cx, cy, x, y)
		case text.OutlineOpCubicTo:
			c1x, c1y := pt(s.Points[0])
			c2x, c2y := pt(s.Points[1])
			x, y := pt(s.Points[2])
			p.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}
