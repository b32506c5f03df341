package server

import (
	"encoding/json"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/setanarut/wrapstudio/adjust"
	"github.com/setanarut/wrapstudio/editor"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/pattern"
	"github.com/setanarut/wrapstudio/utils"
)

type Handler struct {
	store    *Store
	patterns *pattern.Registry
}

// ============================================================
// Request Helpers
// ============================================================

func (h *Handler) with(c fiber.Ctx, fn func(ed *editor.Editor) error) error {
	return h.store.With(c.Params("id"), fn)
}

// decodeJSON unmarshals the request body into v. An empty body leaves v
// untouched.
func decodeJSON(c fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return param.Invalid("malformed JSON body: %v", err)
	}
	return nil
}

// uploadedImage reads an image from the multipart field or, for any other
// content type, from the raw body.
func uploadedImage(c fiber.Ctx, field string) (image.Image, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile(field)
		if err != nil {
			return nil, param.Invalid("missing form file %q", field)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return utils.ReadImageFrom(f, fh.Filename)
	}
	return utils.DecodeImage(c.Body(), "request body")
}

func sendPNG(c fiber.Ctx, img image.Image) error {
	data, err := utils.EncodePNG(img)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

func queryFloat(c fiber.Ctx, key string, def float64) (float64, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, param.Invalid("%s: %q is not a number", key, s)
	}
	return v, nil
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, param.Invalid("%s: %q is not an integer", key, s)
	}
	return v, nil
}

// parseColor reads an opaque hex color as straight RGB.
func parseColor(s string) (color.NRGBA, error) {
	c, ok := utils.ParseHex(s)
	if !ok {
		return color.NRGBA{}, param.Invalid("color %q is not a hex color", s)
	}
	return color.NRGBA(c), nil
}

// ============================================================
// Pattern Library Handlers
// ============================================================

// ListPatterns returns recipe metadata, optionally filtered by ?category=.
func (h *Handler) ListPatterns(c fiber.Ctx) error {
	cat := c.Query("category", pattern.CategoryAll)
	return c.JSON(fiber.Map{
		"categories": h.patterns.Categories(),
		"patterns":   h.patterns.List(cat),
	})
}

// RenderPattern renders a recipe as PNG; every query parameter overrides
// the recipe default of the same name.
func (h *Handler) RenderPattern(c fiber.Ctx) error {
	overrides := pattern.Params{}
	for k, v := range c.Queries() {
		overrides[k] = v
	}
	img, err := h.patterns.Generate(c.Params("id"), overrides)
	if err != nil {
		return err
	}
	return sendPNG(c, img)
}

// ============================================================
// Session Handlers
// ============================================================

func (h *Handler) CreateSession(c fiber.Ctx) error {
	id := h.store.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *Handler) DeleteSession(c fiber.Ctx) error {
	if err := h.store.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LoadTemplate segments the uploaded template. ?bg= sets the canvas
// background color first.
func (h *Handler) LoadTemplate(c fiber.Ctx) error {
	img, err := uploadedImage(c, "file")
	if err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		if bg := c.Query("bg"); bg != "" {
			ed.SetBackground(bg)
		}
		res, err := ed.LoadTemplate(c.Context(), img)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"width":    res.Width,
			"height":   res.Height,
			"coverage": res.Coverage(),
		})
	})
}

func (h *Handler) Overlay(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.Overlay()
		if err != nil {
			return err
		}
		return sendPNG(c, l.Image())
	})
}

// ============================================================
// Layer Handlers
// ============================================================

func (h *Handler) ListLayers(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		return c.JSON(fiber.Map{
			"layers":     ed.Layers(),
			"textFillId": ed.TextFillID(),
			"canUndo":    ed.History().CanUndo(),
			"canRedo":    ed.History().CanRedo(),
		})
	})
}

func (h *Handler) LayerImage(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.Layer(c.Params("layer"))
		if err != nil {
			return err
		}
		return sendPNG(c, l.Image())
	})
}

// ImportImage adds an uploaded image as a new layer, named by ?name=.
func (h *Handler) ImportImage(c fiber.Ctx) error {
	img, err := uploadedImage(c, "file")
	if err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.AddImage(img, c.Query("name", "image"))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})
}

func (h *Handler) TransformLayer(c fiber.Ctx) error {
	var t editor.Transform
	if err := decodeJSON(c, &t); err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.SetTransform(c.Params("layer"), t)
		if err != nil {
			return err
		}
		return c.JSON(l)
	})
}

func (h *Handler) AdjustLayer(c fiber.Ctx) error {
	var p adjust.Params
	if err := decodeJSON(c, &p); err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.AdjustLayer(c.Params("layer"), p)
		if err != nil {
			return err
		}
		return c.JSON(l)
	})
}

type tintRequest struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

func (h *Handler) TintLayer(c fiber.Ctx) error {
	req := tintRequest{Opacity: 0.5}
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	col, err := parseColor(req.Color)
	if err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.TintLayer(c.Params("layer"), col, req.Opacity)
		if err != nil {
			return err
		}
		return c.JSON(l)
	})
}

func (h *Handler) BringToFront(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		if err := ed.BringToFront(c.Params("layer")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func (h *Handler) RemoveLayer(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		if err := ed.Remove(c.Params("layer")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func (h *Handler) ClearLayers(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		if err := ed.Clear(); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// ============================================================
// Generator Handlers
// ============================================================

// AddPattern renders a recipe at canvas size with the JSON body as
// overrides. With ?reference=true the body is instead an image whose
// palette (?k=, ?method=) feeds the recipe's colors.
func (h *Handler) AddPattern(c fiber.Ctx) error {
	id := c.Params("pattern")
	if c.Query("reference") == "true" {
		ref, err := uploadedImage(c, "file")
		if err != nil {
			return err
		}
		k, err := queryInt(c, "k", 5)
		if err != nil {
			return err
		}
		method := utils.ParseSwatchMethod(c.Query("method"))
		return h.with(c, func(ed *editor.Editor) error {
			l, err := ed.AddPatternFromReference(id, ref, k, method, nil)
			if err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(l)
		})
	}
	var params pattern.Params
	if err := decodeJSON(c, &params); err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, err := ed.AddPattern(id, params)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})
}

// TextFill regenerates the text-fill layer. Blank text answers 204.
func (h *Handler) TextFill(c fiber.Ctx) error {
	t := editor.DefaultTextFill()
	if err := decodeJSON(c, &t); err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, ok, err := ed.GenerateTextFill(t)
		if err != nil {
			return err
		}
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})
}

type fillRequest struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Color     string `json:"color"`
	Tolerance int    `json:"tolerance"`
}

// Fill runs the bucket tool. Nothing filled answers 204.
func (h *Handler) Fill(c fiber.Ctx) error {
	req := fillRequest{Tolerance: 30}
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	col, err := parseColor(req.Color)
	if err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		l, ok, err := ed.Bucket(req.X, req.Y, col, req.Tolerance)
		if err != nil {
			return err
		}
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})
}

// ============================================================
// History and Export Handlers
// ============================================================

func (h *Handler) Undo(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		if err := ed.Undo(); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"layers": ed.Layers()})
	})
}

func (h *Handler) Redo(c fiber.Ctx) error {
	return h.with(c, func(ed *editor.Editor) error {
		if err := ed.Redo(); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"layers": ed.Layers()})
	})
}

// Export renders the composition at ?scale= (configured default when
// absent) with the overlay on top.
func (h *Handler) Export(c fiber.Ctx) error {
	scale, err := queryFloat(c, "scale", 0)
	if err != nil {
		return err
	}
	return h.with(c, func(ed *editor.Editor) error {
		img, err := ed.Export(scale)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="wrap.png"`)
		return sendPNG(c, img)
	})
}
