// Package mask derives the paintable car-body region from template line
// art. A template is split into exterior (light pixels reachable from a
// corner), line (dark pixels) and interior (everything else); the result is
// a rendered overlay that hides everything but the interior and a binary
// interior-membership buffer.
package mask

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/utils"
)

const (
	// Dark marks line pixels in the binary field.
	Dark uint8 = 0
	// Light marks pixels brighter than the threshold.
	Light uint8 = 255
	// Outside marks light pixels reached from an image corner.
	Outside uint8 = 127

	// Interior marks paintable pixels in the interior-membership buffer.
	Interior uint8 = 255
)

// cancelCheckRows is how many rows a pass processes between context checks.
const cancelCheckRows = 64

type Options struct {
	// Brightness above which a pixel counts as light, on a 0-255 scale.
	Threshold float32
	// Background fills the exterior; "#rrggbb". Unparseable values fall
	// back to (26,26,26).
	Background string
	// Minimum alpha difference to any 8-neighbor that makes a pixel an
	// edge eligible for smoothing.
	EdgeDelta int
	// Darkest intensity a line pixel renders with.
	LineFloor uint8
}

func DefaultOptions() Options {
	return Options{
		Threshold:  200,
		Background: "#1a1a1a",
		EdgeDelta:  50,
		LineFloor:  180,
	}
}

func (o Options) validate() error {
	if err := param.InRange("threshold", float64(o.Threshold), 0, 255); err != nil {
		return err
	}
	if o.EdgeDelta < 0 || o.EdgeDelta > 255 {
		return param.Invalid("edge delta must be in [0, 255], got %d", o.EdgeDelta)
	}
	return nil
}

// Result is the immutable output of one segmentation.
type Result struct {
	// Overlay is drawn above all user content: background over the
	// exterior, light lines, transparent interior.
	Overlay *image.NRGBA
	// Interior holds Interior (255) for paintable pixels and 0 elsewhere,
	// row-major, len = Width*Height.
	Interior []uint8
	Width    int
	Height   int
}

// Coverage is the fraction of pixels that are paintable.
func (r *Result) Coverage() float64 {
	if len(r.Interior) == 0 {
		return 0
	}
	n := 0
	for _, v := range r.Interior {
		if v == Interior {
			n++
		}
	}
	return float64(n) / float64(len(r.Interior))
}

// InteriorImage returns the interior buffer as a grayscale image.
func (r *Result) InteriorImage() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(g.Pix, r.Interior)
	return g
}

// Segmenter holds the intermediate fields of one segmentation run. Fields
// are exported for inspection; Build fills them in order.
type Segmenter struct {
	Input      image.Image
	W, H       int
	Rgb        []uint8   // interleaved RGB, len = W*H*3
	Brightness []float32 // mean of R, G, B
	Binary     []uint8   // Light or Dark
	Region     []uint8   // Binary with corner-reachable light pixels set to Outside
	Interior   []uint8
	Overlay    *image.NRGBA
}

func NewSegmenter(input image.Image) *Segmenter {
	return &Segmenter{Input: input}
}

// Segment runs the full pipeline on img.
func Segment(ctx context.Context, img image.Image, opt Options) (*Result, error) {
	s := NewSegmenter(img)
	if err := s.Build(ctx, opt); err != nil {
		return nil, err
	}
	return &Result{Overlay: s.Overlay, Interior: s.Interior, Width: s.W, Height: s.H}, nil
}

func (s *Segmenter) Build(ctx context.Context, opt Options) error {
	if err := opt.validate(); err != nil {
		return err
	}
	bg := utils.ParseHexOr(opt.Background, utils.FallbackBackground)

	steps := []func(context.Context) error{
		s.makeRGB,
		s.makeBrightness,
		func(ctx context.Context) error { return s.binarize(ctx, opt.Threshold) },
		s.markOutside,
		func(ctx context.Context) error { return s.classify(ctx, bg, opt.LineFloor) },
		func(ctx context.Context) error { return s.smoothEdges(ctx, opt.EdgeDelta) },
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	logging.Logger().Debug("template segmented",
		"width", s.W, "height", s.H,
		"coverage", (&Result{Interior: s.Interior}).Coverage())
	return nil
}

// rows calls fn for each row, checking ctx every cancelCheckRows rows.
func (s *Segmenter) rows(ctx context.Context, fn func(y int)) error {
	for y := range s.H {
		if y%cancelCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		fn(y)
	}
	return nil
}

func (s *Segmenter) makeRGB(ctx context.Context) error {
	b := s.Input.Bounds()
	s.W, s.H = b.Dx(), b.Dy()
	s.Rgb = make([]uint8, s.W*s.H*3)
	return s.rows(ctx, func(y int) {
		for x := range s.W {
			// Straight (non-premultiplied) channels, as a canvas read-back.
			c := color.NRGBAModel.Convert(s.Input.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := (y*s.W + x) * 3
			s.Rgb[off] = c.R
			s.Rgb[off+1] = c.G
			s.Rgb[off+2] = c.B
		}
	})
}

func (s *Segmenter) makeBrightness(ctx context.Context) error {
	s.Brightness = make([]float32, s.W*s.H)
	return s.rows(ctx, func(y int) {
		for x := range s.W {
			i := y*s.W + x
			sum := int(s.Rgb[i*3]) + int(s.Rgb[i*3+1]) + int(s.Rgb[i*3+2])
			s.Brightness[i] = float32(sum) / 3
		}
	})
}

func (s *Segmenter) binarize(ctx context.Context, threshold float32) error {
	s.Binary = make([]uint8, s.W*s.H)
	return s.rows(ctx, func(y int) {
		for x := range s.W {
			i := y*s.W + x
			if s.Brightness[i] > threshold {
				s.Binary[i] = Light
			} else {
				s.Binary[i] = Dark
			}
		}
	})
}

// markOutside floods from the four corners. Every fill writes into the same
// Region field, so the exterior is the union of the corner regions.
func (s *Segmenter) markOutside(ctx context.Context) error {
	s.Region = make([]uint8, len(s.Binary))
	copy(s.Region, s.Binary)
	if s.W == 0 || s.H == 0 {
		return nil
	}
	corners := [4]image.Point{{0, 0}, {s.W - 1, 0}, {0, s.H - 1}, {s.W - 1, s.H - 1}}
	for _, c := range corners {
		if err := ctx.Err(); err != nil {
			return err
		}
		FloodFill(s.Region, s.W, s.H, c.X, c.Y, Outside)
	}
	return nil
}

func (s *Segmenter) classify(ctx context.Context, bg color.RGBA, lineFloor uint8) error {
	s.Interior = make([]uint8, s.W*s.H)
	s.Overlay = image.NewNRGBA(image.Rect(0, 0, s.W, s.H))
	pix := s.Overlay.Pix
	return s.rows(ctx, func(y int) {
		for x := range s.W {
			i := y*s.W + x
			o := i * 4
			switch {
			case s.Region[i] == Outside:
				pix[o], pix[o+1], pix[o+2], pix[o+3] = bg.R, bg.G, bg.B, 255
			case s.Binary[i] == Dark:
				// Darker line art renders brighter, never below lineFloor.
				v := min(255, max(float64(lineFloor), 255-float64(s.Brightness[i])))
				c := uint8(math.RoundToEven(v))
				pix[o], pix[o+1], pix[o+2], pix[o+3] = c, c, c, 255
			default:
				s.Interior[i] = Interior
			}
		}
	})
}
