// Package textfill tiles repeated text over the paintable region of a
// template. Stamps sit on an axis-aligned staggered grid; each stamp is
// tilted about its own center and drawn only when it passes the
// interior-membership test.
package textfill

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/raster"
)

// Sampling selects how a stamp is tested against the interior mask.
type Sampling int

const (
	// SampleCenter tests only the stamp center. Glyph edges may bleed
	// slightly past the interior.
	SampleCenter Sampling = iota
	// SampleCorners requires all four corners of the rotated stamp box to
	// be interior.
	SampleCorners
)

// DefaultColor is the stamp fill, white at 90% opacity.
var DefaultColor = color.NRGBA{R: 255, G: 255, B: 255, A: 230}

type Request struct {
	Text     string
	FontSize float64
	SpacingX float64
	SpacingY float64
	// Per-stamp tilt in degrees; positive turns clockwise on screen.
	Rotation float64
	// Interior is the interior-membership buffer, len = Width*Height.
	Interior []uint8
	Width    int
	Height   int

	// Color fills the glyphs when Gradient is empty; the zero value
	// selects DefaultColor.
	Color color.NRGBA
	// Gradient, when non-empty, replaces Color with a linear gradient
	// running from the top-left to the bottom-right canvas corner.
	Gradient []color.NRGBA
	Sampling Sampling
	// Face defaults to raster.DefaultFace.
	Face *raster.Face
}

// DefaultRequest carries the editor's initial slider values.
func DefaultRequest() Request {
	return Request{
		FontSize: 40,
		SpacingX: 100,
		SpacingY: 80,
		Rotation: -15,
		Color:    DefaultColor,
	}
}

func (r *Request) validate() error {
	if err := param.Positive("font size", r.FontSize); err != nil {
		return err
	}
	if err := param.Positive("spacing x", r.SpacingX); err != nil {
		return err
	}
	if err := param.Positive("spacing y", r.SpacingY); err != nil {
		return err
	}
	if math.IsNaN(r.Rotation) || math.IsInf(r.Rotation, 0) {
		return param.Invalid("rotation must be finite, got %v", r.Rotation)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return param.Invalid("canvas size must be positive, got %dx%d", r.Width, r.Height)
	}
	if len(r.Interior) != r.Width*r.Height {
		return param.Invalid("interior mask has %d entries, want %d", len(r.Interior), r.Width*r.Height)
	}
	return nil
}

// Stamp is one accepted placement: the text centered on (X, Y).
type Stamp struct {
	X, Y float64
	Row  int
	Col  int
}

type Result struct {
	Image *image.NRGBA
	Count int
}

// Synthesize renders the text pattern. Empty text produces a transparent
// canvas of the requested size.
func Synthesize(req Request) (*Result, error) {
	if req.Text == "" {
		if req.Width < 0 || req.Height < 0 {
			return nil, param.Invalid("canvas size must not be negative, got %dx%d", req.Width, req.Height)
		}
		return &Result{Image: image.NewNRGBA(image.Rect(0, 0, req.Width, req.Height))}, nil
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	shape, err := shapeText(&req)
	if err != nil {
		return nil, err
	}
	stamps := layout(&req, shape)

	theta := req.Rotation * math.Pi / 180
	glyphs := &raster.Path{}
	for _, s := range stamps {
		glyphs.Append(shape.Path, theta, r2.Vec{X: s.X, Y: s.Y})
	}

	canvas := raster.NewCanvas(req.Width, req.Height)
	canvas.Fill(glyphs, fillSource(&req))
	img, err := canvas.Image()
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("text pattern synthesized", "stamps", len(stamps), "text", req.Text)
	return &Result{Image: img, Count: len(stamps)}, nil
}

// Layout returns the stamps Synthesize would draw, in drawing order.
func Layout(req Request) ([]Stamp, error) {
	if req.Text == "" {
		return nil, nil
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	shape, err := shapeText(&req)
	if err != nil {
		return nil, err
	}
	return layout(&req, shape), nil
}

func shapeText(req *Request) (*raster.TextShape, error) {
	face := req.Face
	if face == nil {
		var err error
		if face, err = raster.DefaultFace(); err != nil {
			return nil, err
		}
	}
	return face.Shape(req.Text, req.FontSize)
}

func fillSource(req *Request) image.Image {
	switch {
	case len(req.Gradient) == 1:
		return image.NewUniform(req.Gradient[0])
	case len(req.Gradient) > 1:
		return &raster.LinearGradient{
			X1:    float64(req.Width),
			Y1:    float64(req.Height),
			Stops: raster.EvenStops(req.Gradient),
		}
	case req.Color == color.NRGBA{}:
		return image.NewUniform(DefaultColor)
	default:
		return image.NewUniform(req.Color)
	}
}
