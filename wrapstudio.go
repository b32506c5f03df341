package wrapstudio

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"

	"github.com/setanarut/wrapstudio/adjust"
	"github.com/setanarut/wrapstudio/bucket"
	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/mask"
	"github.com/setanarut/wrapstudio/pattern"
	"github.com/setanarut/wrapstudio/textfill"
	"github.com/setanarut/wrapstudio/utils"
)

var (
	// ErrInvalidParameter marks out-of-range numeric arguments.
	ErrInvalidParameter = param.ErrInvalid
	// ErrDecode marks images that could not be read.
	ErrDecode = utils.ErrDecode
	// ErrUnknownPattern marks pattern ids missing from the library.
	ErrUnknownPattern = pattern.ErrUnknownPattern
)

// SetLogger routes the library's diagnostics to l. Passing nil silences
// them again.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Segmentation is the outcome of Segment.
type Segmentation struct {
	// OverlayPNG is the rendered template overlay.
	OverlayPNG []byte
	// Interior holds 255 for paintable pixels and 0 elsewhere, row major.
	Interior []uint8
	Width    int
	Height   int
}

// Segment decodes a template and splits it into overlay and interior mask.
// An unparseable bgHex falls back to #1a1a1a.
func Segment(r io.Reader, bgHex string) (*Segmentation, error) {
	img, err := utils.ReadImageFrom(r, "template")
	if err != nil {
		return nil, err
	}
	opt := mask.DefaultOptions()
	opt.Background = bgHex
	res, err := mask.Segment(context.Background(), img, opt)
	if err != nil {
		return nil, err
	}
	overlay, err := utils.EncodePNG(res.Overlay)
	if err != nil {
		return nil, err
	}
	return &Segmentation{
		OverlayPNG: overlay,
		Interior:   res.Interior,
		Width:      res.Width,
		Height:     res.Height,
	}, nil
}

// SynthesizeTextPattern tiles text over the interior and returns a PNG of
// size width×height. Stamps use the default white fill and are each tilted
// by rotationDeg about their own center. Empty text yields a fully
// transparent image.
func SynthesizeTextPattern(text string, fontSize, spacingX, spacingY, rotationDeg float64, interior []uint8, width, height int) ([]byte, error) {
	req := textfill.DefaultRequest()
	req.Text = text
	req.FontSize = fontSize
	req.SpacingX, req.SpacingY = spacingX, spacingY
	req.Rotation = rotationDeg
	req.Interior = interior
	req.Width, req.Height = width, height
	res, err := textfill.Synthesize(req)
	if err != nil {
		return nil, err
	}
	return utils.EncodePNG(res.Image)
}

// FloodFill recolors the region connected to (x, y) whose pixels are each
// within tolerance (0..100, per RGB channel) of the clicked color. Alpha is
// ignored on both sides and filled pixels come out opaque. img is not
// modified. Clicks outside the image return an unchanged copy.
func FloodFill(img *image.NRGBA, x, y int, fill color.NRGBA, tolerance int) (*image.NRGBA, error) {
	res, err := bucket.Fill(img, x, y, fill, tolerance)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// AdjustColors applies hue, saturation, brightness and contrast to img.
func AdjustColors(img image.Image, p adjust.Params) (*image.NRGBA, error) {
	return adjust.Apply(img, p)
}

// GeneratePattern renders a library pattern as PNG. params override the
// recipe's defaults key by key.
func GeneratePattern(id string, params pattern.Params) ([]byte, error) {
	img, err := pattern.Default().Generate(id, params)
	if err != nil {
		return nil, err
	}
	return utils.EncodePNG(img)
}

// ListPatterns returns the library recipes in category, or all of them for
// "all" and "".
func ListPatterns(category string) []pattern.Recipe {
	return pattern.Default().List(category)
}
