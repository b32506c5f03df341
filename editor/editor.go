// Package editor holds the composition controller that the HTTP server and
// the examples drive: a template with its interior mask and overlay, a
// stack of user layers, and a bounded undo history.
//
// An Editor is not safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/setanarut/wrapstudio/adjust"
	"github.com/setanarut/wrapstudio/bucket"
	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/mask"
	"github.com/setanarut/wrapstudio/pattern"
	"github.com/setanarut/wrapstudio/raster"
	"github.com/setanarut/wrapstudio/textfill"
	"github.com/setanarut/wrapstudio/utils"
)

var (
	ErrNoTemplate    = errors.New("no template loaded")
	ErrLayerNotFound = errors.New("layer not found")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const (
	// importFit is the share of the shorter canvas side an imported image
	// may cover initially.
	importFit = 0.6
	// MaxExportScale bounds the export supersampling multiplier.
	MaxExportScale = 4
)

type Options struct {
	Mask        mask.Options
	HistorySize int
	// ExportScale is used when Export is called with scale 0.
	ExportScale float64
	Patterns    *pattern.Registry
}

func DefaultOptions() Options {
	return Options{
		Mask:        mask.DefaultOptions(),
		HistorySize: DefaultHistorySize,
		ExportScale: 2,
		Patterns:    pattern.Default(),
	}
}

type Editor struct {
	opt        Options
	width      int
	height     int
	background color.RGBA
	interior   []uint8
	overlay    *Layer
	layers     []*Layer // bottom to top, overlay excluded
	textFillID string
	history    *History
}

func New(opt Options) *Editor {
	if opt.Patterns == nil {
		opt.Patterns = pattern.Default()
	}
	if opt.ExportScale <= 0 {
		opt.ExportScale = 2
	}
	return &Editor{
		opt:        opt,
		background: utils.ParseHexOr(opt.Mask.Background, utils.FallbackBackground),
		history:    NewHistory(opt.HistorySize),
	}
}

// LoadTemplate segments a template image, resizes the canvas to it and
// installs the overlay as the topmost, non-interactive layer. Any previous
// text fill is dropped since it was synthesized for the old mask; other
// layers stay. The undo history is cleared.
func (e *Editor) LoadTemplate(ctx context.Context, img image.Image) (*mask.Result, error) {
	res, err := mask.Segment(ctx, img, e.opt.Mask)
	if err != nil {
		return nil, err
	}
	e.width, e.height = res.Width, res.Height
	e.interior = res.Interior
	e.overlay = newLayer(KindOverlay, "template", res.Overlay)
	if e.textFillID != "" {
		e.layers = slices.DeleteFunc(e.layers, func(l *Layer) bool { return l.ID == e.textFillID })
		e.textFillID = ""
	}
	e.history.reset()
	logging.Logger().Info("template loaded", "width", res.Width, "height", res.Height, "coverage", res.Coverage())
	return res, nil
}

// SetBackground changes the canvas background used by the next
// LoadTemplate and by compositing. Invalid hex falls back to (26,26,26).
func (e *Editor) SetBackground(hex string) {
	e.opt.Mask.Background = hex
	e.background = utils.ParseHexOr(hex, utils.FallbackBackground)
}

func (e *Editor) HasTemplate() bool { return e.overlay != nil }

// Size returns the canvas size, zero before a template is loaded.
func (e *Editor) Size() (int, int) { return e.width, e.height }

// Interior returns the read-only interior-membership mask.
func (e *Editor) Interior() []uint8 { return e.interior }

func (e *Editor) History() *History { return e.history }

// Overlay returns a copy of the template overlay layer.
func (e *Editor) Overlay() (Layer, error) {
	if e.overlay == nil {
		return Layer{}, ErrNoTemplate
	}
	return *e.overlay, nil
}

// Layers returns copies of the user layers, bottom to top.
func (e *Editor) Layers() []Layer {
	out := make([]Layer, len(e.layers))
	for i, l := range e.layers {
		out[i] = *l
	}
	return out
}

func (e *Editor) Layer(id string) (Layer, error) {
	l, _, err := e.find(id)
	if err != nil {
		return Layer{}, err
	}
	return *l, nil
}

// TextFillID is the id of the current text-fill layer, or "".
func (e *Editor) TextFillID() string { return e.textFillID }

func (e *Editor) find(id string) (*Layer, int, error) {
	for i, l := range e.layers {
		if l.ID == id {
			return l, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

func (e *Editor) requireTemplate() error {
	if e.overlay == nil {
		return ErrNoTemplate
	}
	return nil
}

func (e *Editor) snapshot() snapshot {
	return snapshot{Layers: e.Layers(), TextFillID: e.textFillID}
}

func (e *Editor) restore(s snapshot) {
	e.layers = make([]*Layer, len(s.Layers))
	for i := range s.Layers {
		e.layers[i] = &s.Layers[i]
	}
	e.textFillID = s.TextFillID
}

// mutate records the current state, then runs fn. A failing fn leaves the
// state and history untouched.
func (e *Editor) mutate(fn func() error) error {
	before := e.snapshot()
	if err := fn(); err != nil {
		e.restore(before)
		return err
	}
	if err := e.history.record(before); err != nil {
		e.restore(before)
		return err
	}
	return nil
}

func (e *Editor) push(l *Layer) {
	e.layers = append(e.layers, l)
}

// AddImage imports img as a new top layer, centered and scaled down to fit
// within 60% of the shorter canvas side.
func (e *Editor) AddImage(img image.Image, name string) (Layer, error) {
	if err := e.requireTemplate(); err != nil {
		return Layer{}, err
	}
	l := newLayer(KindImage, name, utils.ToNRGBA(img))
	if l.Width == 0 || l.Height == 0 {
		return Layer{}, param.Invalid("image %q is empty", name)
	}
	limit := importFit * float64(min(e.width, e.height))
	s := min(limit/float64(l.Width), limit/float64(l.Height), 1)
	l.Anchor = AnchorCenter
	l.X, l.Y = float64(e.width)/2, float64(e.height)/2
	l.ScaleX, l.ScaleY = s, s

	err := e.mutate(func() error { e.push(l); return nil })
	return *l, err
}

// AddPattern renders a registered pattern at canvas size and adds it as a
// new top layer. Explicit width or height params win over the canvas size.
func (e *Editor) AddPattern(id string, params pattern.Params) (Layer, error) {
	if err := e.requireTemplate(); err != nil {
		return Layer{}, err
	}
	rec, ok := e.opt.Patterns.Lookup(id)
	if !ok {
		return Layer{}, fmt.Errorf("%w: %q", pattern.ErrUnknownPattern, id)
	}
	img, err := e.opt.Patterns.Generate(id, pattern.Params{"width": e.width, "height": e.height}.Merge(params))
	if err != nil {
		return Layer{}, err
	}
	l := newLayer(KindPattern, rec.Name, img)
	err = e.mutate(func() error { e.push(l); return nil })
	return *l, err
}

// AddPatternFromReference renders pattern id with its "colors" param taken
// from up to k film colors sampled from a reference photo.
func (e *Editor) AddPatternFromReference(id string, ref image.Image, k int, method utils.SwatchMethod, params pattern.Params) (Layer, error) {
	if k <= 0 {
		return Layer{}, param.Invalid("palette size must be positive, got %d", k)
	}
	colors := pattern.ColorsFrom(ref, k, method)
	if len(colors) == 0 {
		return Layer{}, param.Invalid("reference image yielded no colors")
	}
	return e.AddPattern(id, params.Merge(pattern.Params{"colors": colors}))
}

// TextFill holds the text-fill controls. The interior mask and canvas size
// come from the loaded template.
type TextFill struct {
	Text     string       `json:"text"`
	FontSize float64      `json:"fontSize"`
	SpacingX float64      `json:"spacingX"`
	SpacingY float64      `json:"spacingY"`
	Rotation float64      `json:"rotation"`
	Color    string       `json:"color,omitempty"`
	Gradient []string     `json:"gradient,omitempty"`
	Corners  bool         `json:"corners,omitempty"`
	Face     *raster.Face `json:"-"`
}

// DefaultTextFill mirrors textfill.DefaultRequest.
func DefaultTextFill() TextFill {
	r := textfill.DefaultRequest()
	return TextFill{FontSize: r.FontSize, SpacingX: r.SpacingX, SpacingY: r.SpacingY, Rotation: r.Rotation}
}

func (t TextFill) request() (textfill.Request, error) {
	req := textfill.Request{
		Text:     t.Text,
		FontSize: t.FontSize,
		SpacingX: t.SpacingX,
		SpacingY: t.SpacingY,
		Rotation: t.Rotation,
		Face:     t.Face,
	}
	if t.Corners {
		req.Sampling = textfill.SampleCorners
	}
	if t.Color != "" {
		c, ok := utils.ParseHex(t.Color)
		if !ok {
			return req, param.Invalid("text color %q is not a hex color", t.Color)
		}
		req.Color = color.NRGBA(c)
	}
	for _, s := range t.Gradient {
		c, ok := utils.ParseHex(s)
		if !ok {
			return req, param.Invalid("gradient color %q is not a hex color", s)
		}
		req.Gradient = append(req.Gradient, color.NRGBA(c))
	}
	return req, nil
}

// GenerateTextFill synthesizes the text pattern into the single text-fill
// layer, replacing the previous one. Blank text changes nothing and
// returns ok == false.
func (e *Editor) GenerateTextFill(t TextFill) (l Layer, ok bool, err error) {
	if err := e.requireTemplate(); err != nil {
		return Layer{}, false, err
	}
	if strings.TrimSpace(t.Text) == "" {
		return Layer{}, false, nil
	}
	req, err := t.request()
	if err != nil {
		return Layer{}, false, err
	}
	req.Interior, req.Width, req.Height = e.interior, e.width, e.height
	res, err := textfill.Synthesize(req)
	if err != nil {
		return Layer{}, false, err
	}
	nl := newLayer(KindTextFill, "text: "+t.Text, res.Image)
	nl.Interactive = false
	err = e.mutate(func() error {
		if e.textFillID != "" {
			e.layers = slices.DeleteFunc(e.layers, func(x *Layer) bool { return x.ID == e.textFillID })
		}
		e.push(nl)
		e.textFillID = nl.ID
		return nil
	})
	return *nl, err == nil, err
}

// Bucket flattens the visible composition, overlay included so template
// lines bound the fill, floods from (x, y) and pushes the result as a new
// top layer. ok is false when nothing was filled. fill is a straight RGB
// color; the painted pixels are always opaque.
func (e *Editor) Bucket(x, y int, fill color.NRGBA, tolerance int) (l Layer, ok bool, err error) {
	if err := e.requireTemplate(); err != nil {
		return Layer{}, false, err
	}
	res, err := bucket.Fill(e.Flatten(), x, y, fill, tolerance)
	if err != nil {
		return Layer{}, false, err
	}
	if res.Filled == 0 {
		return Layer{}, false, nil
	}
	nl := newLayer(KindFill, "fill "+utils.Hex(color.NRGBA{fill.R, fill.G, fill.B, 255}), res.Image)
	err = e.mutate(func() error { e.push(nl); return nil })
	return *nl, err == nil, err
}

// AdjustLayer recomputes a layer's pixels from its source with p. Earlier
// adjustments and tints are discarded rather than stacked.
func (e *Editor) AdjustLayer(id string, p adjust.Params) (Layer, error) {
	l, _, err := e.find(id)
	if err != nil {
		return Layer{}, err
	}
	out, err := adjust.Apply(l.sourceImage(), p)
	if err != nil {
		return Layer{}, err
	}
	err = e.mutate(func() error {
		nl := *l
		nl.Pix, nl.Adjust = out.Pix, p
		e.replace(&nl)
		return nil
	})
	if err != nil {
		return Layer{}, err
	}
	return e.Layer(id)
}

// TintLayer mixes a layer's current pixels toward c.
func (e *Editor) TintLayer(id string, c color.Color, opacity float64) (Layer, error) {
	l, _, err := e.find(id)
	if err != nil {
		return Layer{}, err
	}
	out, err := adjust.Tint(l.Image(), c, opacity)
	if err != nil {
		return Layer{}, err
	}
	err = e.mutate(func() error {
		nl := *l
		nl.Pix = out.Pix
		e.replace(&nl)
		return nil
	})
	if err != nil {
		return Layer{}, err
	}
	return e.Layer(id)
}

// replace swaps in a modified copy so history snapshots never alias the
// live layer.
func (e *Editor) replace(nl *Layer) {
	for i, l := range e.layers {
		if l.ID == nl.ID {
			e.layers[i] = nl
			return
		}
	}
}

// SetTransform applies a partial placement update to an interactive layer.
func (e *Editor) SetTransform(id string, t Transform) (Layer, error) {
	l, _, err := e.find(id)
	if err != nil {
		return Layer{}, err
	}
	if !l.Interactive {
		return Layer{}, param.Invalid("layer %s cannot be transformed", id)
	}
	if err := t.validate(); err != nil {
		return Layer{}, err
	}
	err = e.mutate(func() error {
		nl := *l
		t.apply(&nl)
		e.replace(&nl)
		return nil
	})
	if err != nil {
		return Layer{}, err
	}
	return e.Layer(id)
}

// BringToFront moves a layer to the top of the user stack. The overlay
// stays above it.
func (e *Editor) BringToFront(id string) error {
	_, i, err := e.find(id)
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		l := e.layers[i]
		e.layers = append(slices.Delete(e.layers, i, i+1), l)
		return nil
	})
}

func (e *Editor) Remove(id string) error {
	_, i, err := e.find(id)
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		if e.layers[i].ID == e.textFillID {
			e.textFillID = ""
		}
		e.layers = slices.Delete(e.layers, i, i+1)
		return nil
	})
}

// Clear removes every user layer; the template stays.
func (e *Editor) Clear() error {
	if len(e.layers) == 0 {
		return nil
	}
	return e.mutate(func() error {
		e.layers = nil
		e.textFillID = ""
		return nil
	})
}

func (e *Editor) Undo() error {
	s, ok, err := e.history.undo(e.snapshot())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNothingToUndo
	}
	e.restore(s)
	return nil
}

func (e *Editor) Redo() error {
	s, ok, err := e.history.redo(e.snapshot())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNothingToRedo
	}
	e.restore(s)
	return nil
}

// Flatten renders every visible layer, overlay included, at canvas size
// over the background.
func (e *Editor) Flatten() *image.NRGBA {
	return e.composite(1, false)
}

// Export renders the final design: user layers clipped to the interior,
// then the overlay, at scale times canvas size. Scale 0 selects the
// configured export scale.
func (e *Editor) Export(scale float64) (*image.NRGBA, error) {
	if err := e.requireTemplate(); err != nil {
		return nil, err
	}
	if scale == 0 {
		scale = e.opt.ExportScale
	}
	if err := param.InRange("export scale", scale, 0.1, MaxExportScale); err != nil {
		return nil, err
	}
	img := e.composite(scale, true)
	logging.Logger().Info("design exported", "layers", len(e.layers), "width", img.Rect.Dx(), "height", img.Rect.Dy())
	return img, nil
}
