package editor

import (
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/setanarut/wrapstudio/adjust"
	"github.com/setanarut/wrapstudio/internal/param"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindPattern  Kind = "pattern"
	KindTextFill Kind = "textfill"
	KindFill     Kind = "fill"
	KindOverlay  Kind = "overlay"
)

// Anchor is the point of the layer raster that sits at (X, Y).
type Anchor string

const (
	AnchorTopLeft Anchor = "top-left"
	AnchorCenter  Anchor = "center"
)

// Layer is one raster in the composition. It is plain data: the editor
// owns every Layer and hands out copies.
type Layer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Anchor Anchor `json:"anchor"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees, clockwise on screen
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Opacity  float64 `json:"opacity"`
	Visible  bool    `json:"visible"`
	// Interactive layers accept transform edits; the overlay does not.
	Interactive bool `json:"interactive"`

	Width  int `json:"width"`
	Height int `json:"height"`
	// Pix holds the current NRGBA pixels with stride Width*4.
	Pix []uint8 `json:"-"`
	// Source keeps the pixels before any color edit so adjustments are
	// always computed from the original rather than stacked.
	Source []uint8       `json:"-"`
	Adjust adjust.Params `json:"adjust"`
}

func newLayer(kind Kind, name string, img *image.NRGBA) *Layer {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]uint8, w*h*4)
	for y := range h {
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return &Layer{
		ID:          uuid.NewString(),
		Name:        name,
		Kind:        kind,
		Anchor:      AnchorTopLeft,
		ScaleX:      1,
		ScaleY:      1,
		Opacity:     1,
		Visible:     true,
		Interactive: kind != KindOverlay,
		Width:       w,
		Height:      h,
		Pix:         pix,
		Source:      pix,
	}
}

// Image returns the layer pixels as an image sharing Pix.
func (l *Layer) Image() *image.NRGBA {
	return &image.NRGBA{Pix: l.Pix, Stride: l.Width * 4, Rect: image.Rect(0, 0, l.Width, l.Height)}
}

func (l *Layer) sourceImage() *image.NRGBA {
	return &image.NRGBA{Pix: l.Source, Stride: l.Width * 4, Rect: image.Rect(0, 0, l.Width, l.Height)}
}

// anchorPoint is the anchor in layer pixel space.
func (l *Layer) anchorPoint() (float64, float64) {
	if l.Anchor == AnchorCenter {
		return float64(l.Width) / 2, float64(l.Height) / 2
	}
	return 0, 0
}

// Transform is a partial update of a layer's placement. Nil fields are left
// unchanged.
type Transform struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	// Scale sets ScaleX and ScaleY together, as the editor's single
	// scale slider does.
	Scale   *float64 `json:"scale,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
}

func finite(name string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return param.Invalid("%s must be finite", name)
	}
	return nil
}

func (t Transform) validate() error {
	for name, v := range map[string]*float64{"x": t.X, "y": t.Y, "rotation": t.Rotation} {
		if err := finite(name, v); err != nil {
			return err
		}
	}
	for name, v := range map[string]*float64{"scaleX": t.ScaleX, "scaleY": t.ScaleY, "scale": t.Scale} {
		if v != nil {
			if err := param.Positive(name, *v); err != nil {
				return err
			}
		}
	}
	if t.Opacity != nil {
		return param.InRange("opacity", *t.Opacity, 0, 1)
	}
	return nil
}

func (t Transform) apply(l *Layer) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&l.X, t.X)
	set(&l.Y, t.Y)
	set(&l.Rotation, t.Rotation)
	set(&l.ScaleX, t.Scale)
	set(&l.ScaleY, t.Scale)
	set(&l.ScaleX, t.ScaleX)
	set(&l.ScaleY, t.ScaleY)
	set(&l.Opacity, t.Opacity)
	if t.Visible != nil {
		l.Visible = *t.Visible
	}
}
