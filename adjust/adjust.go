// Package adjust applies hue, saturation, brightness and contrast edits to
// layer rasters, plus the flat color tint overlay.
package adjust

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/utils"
)

// Params are zero-centered: the zero value leaves the image unchanged.
type Params struct {
	Hue        float64 `json:"hue" toml:"hue"`               // degrees, [-180,180]
	Saturation float64 `json:"saturation" toml:"saturation"` // [-100,100]
	Brightness float64 `json:"brightness" toml:"brightness"` // [-100,100], half weight on lightness
	Contrast   float64 `json:"contrast" toml:"contrast"`     // [-100,100]
}

func (p Params) Validate() error {
	if err := param.InRange("hue", p.Hue, -180, 180); err != nil {
		return err
	}
	if err := param.InRange("saturation", p.Saturation, -100, 100); err != nil {
		return err
	}
	if err := param.InRange("brightness", p.Brightness, -100, 100); err != nil {
		return err
	}
	return param.InRange("contrast", p.Contrast, -100, 100)
}

// IsZero reports whether p is the identity adjustment.
func (p Params) IsZero() bool { return p == Params{} }

// Apply returns an adjusted copy of src. Fully transparent pixels are left
// as they are; alpha is never changed.
func Apply(src image.Image, p Params) (*image.NRGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dst := utils.ToNRGBA(src)
	factor := contrastFactor(p.Contrast)
	w := dst.Rect.Dx()

	parallel.Line(dst.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				if row[i+3] == 0 {
					continue
				}
				r, g, b := shiftHSL(row[i], row[i+1], row[i+2], p)
				if p.Contrast != 0 {
					r, g, b = stretch(r, factor), stretch(g, factor), stretch(b, factor)
				}
				row[i], row[i+1], row[i+2] = r, g, b
			}
		}
	})
	return dst, nil
}

func shiftHSL(r, g, b uint8, p Params) (uint8, uint8, uint8) {
	h, s, l := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsl()
	h = math.Mod(h+p.Hue+360, 360)
	s = clamp(s*100+p.Saturation, 0, 100) / 100
	l = clamp(l*100+p.Brightness/2, 0, 100) / 100
	return colorful.Hsl(h, s, l).Clamped().RGB255()
}

// contrastFactor is the classic 259/255 contrast curve with the slider
// value used directly as the contrast amount.
func contrastFactor(c float64) float64 {
	return 259 * (c + 255) / (255 * (259 - c))
}

func stretch(v uint8, factor float64) uint8 {
	return uint8(math.RoundToEven(clamp(factor*(float64(v)-128)+128, 0, 255)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Tint mixes every non-transparent pixel toward c by opacity in [0,1].
func Tint(src image.Image, c color.Color, opacity float64) (*image.NRGBA, error) {
	if err := param.InRange("opacity", opacity, 0, 1); err != nil {
		return nil, err
	}
	dst := utils.ToNRGBA(src)
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	overlay := colorful.Color{R: float64(nc.R) / 255, G: float64(nc.G) / 255, B: float64(nc.B) / 255}
	w := dst.Rect.Dx()

	parallel.Line(dst.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				if row[i+3] == 0 {
					continue
				}
				in := colorful.Color{R: float64(row[i]) / 255, G: float64(row[i+1]) / 255, B: float64(row[i+2]) / 255}
				row[i], row[i+1], row[i+2] = in.BlendRgb(overlay, opacity).Clamped().RGB255()
			}
		}
	})
	return dst, nil
}
