package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/wrapstudio/config"
	"github.com/setanarut/wrapstudio/editor"
	"github.com/setanarut/wrapstudio/utils"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Default()
	cfg.Environment = "production"
	return New(cfg, nil)
}

// templatePNG is a 40x30 white image with a black rectangle outline from
// (10,5) to (29,24).
func templatePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := range 30 {
		for x := range 40 {
			c := color.NRGBA{255, 255, 255, 255}
			onX := (x == 10 || x == 29) && y >= 5 && y <= 24
			onY := (y == 5 || y == 24) && x >= 10 && x <= 29
			if onX || onY {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	data, err := utils.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func do(t *testing.T, app *fiber.App, method, path string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func doJSON(t *testing.T, app *fiber.App, method, path string, v any) *http.Response {
	t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return do(t, app, method, path, body, fiber.MIMEApplicationJSON)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func decodePNG(t *testing.T, resp *http.Response) image.Image {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	return img
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/sessions", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[map[string]string](t, resp)
	require.NotEmpty(t, out["id"])
	return out["id"]
}

func loadTemplate(t *testing.T, app *fiber.App, id string) {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/sessions/"+id+"/template", bytes.NewReader(templatePNG(t)), "image/png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	app := newApp(t)
	resp := do(t, app, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", decode[map[string]any](t, resp)["status"])

	resp = do(t, app, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, "ready", decode[map[string]any](t, resp)["status"])
}

func TestListPatterns(t *testing.T) {
	app := newApp(t)
	type listing struct {
		Categories []string `json:"categories"`
		Patterns   []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"patterns"`
	}

	all := decode[listing](t, do(t, app, http.MethodGet, "/patterns", nil, ""))
	assert.Len(t, all.Patterns, 28)
	assert.Equal(t, "all", all.Categories[0])

	camo := decode[listing](t, do(t, app, http.MethodGet, "/patterns?category=camo", nil, ""))
	require.NotEmpty(t, camo.Patterns)
	for _, p := range camo.Patterns {
		assert.Equal(t, "camo", p.Category)
	}
}

func TestRenderPattern(t *testing.T) {
	app := newApp(t)
	resp := do(t, app, http.MethodGet, "/patterns/carbon-fiber?width=32&height=16", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	img := decodePNG(t, resp)
	assert.Equal(t, image.Pt(32, 16), img.Bounds().Size())

	resp = do(t, app, http.MethodGet, "/patterns/no-such-thing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/patterns/carbon-fiber?width=-4", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, resp)["error"], "width")
}

func TestSessionWorkflow(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	resp := do(t, app, http.MethodPost, base+"/template?bg=%23102030", bytes.NewReader(templatePNG(t)), "image/png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	seg := decode[map[string]float64](t, resp)
	assert.Equal(t, 40.0, seg["width"])
	assert.Equal(t, 30.0, seg["height"])
	assert.InDelta(t, 18.0*18.0/1200.0, seg["coverage"], 1e-9)

	overlay := decodePNG(t, do(t, app, http.MethodGet, base+"/overlay", nil, ""))
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 255}, color.NRGBAModel.Convert(overlay.At(0, 0)))

	resp = doJSON(t, app, http.MethodPost, base+"/patterns/racing-stripes-red", map[string]any{"stripeWidth": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	stripes := decode[editor.Layer](t, resp)
	assert.Equal(t, editor.KindPattern, stripes.Kind)
	assert.Equal(t, 40, stripes.Width)

	resp = doJSON(t, app, http.MethodPost, base+"/textfill", map[string]any{
		"text": "GO", "fontSize": 8, "spacingX": 12, "spacingY": 10, "rotation": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	text := decode[editor.Layer](t, resp)
	assert.False(t, text.Interactive)

	resp = doJSON(t, app, http.MethodPost, base+"/fill", map[string]any{"x": 2, "y": 2, "color": "#00ff00", "tolerance": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	fill := decode[editor.Layer](t, resp)
	assert.Equal(t, editor.KindFill, fill.Kind)

	type layers struct {
		Layers     []editor.Layer `json:"layers"`
		TextFillID string         `json:"textFillId"`
		CanUndo    bool           `json:"canUndo"`
	}
	got := decode[layers](t, do(t, app, http.MethodGet, base+"/layers", nil, ""))
	require.Len(t, got.Layers, 3)
	assert.Equal(t, text.ID, got.TextFillID)
	assert.True(t, got.CanUndo)

	resp = doJSON(t, app, http.MethodPatch, base+"/layers/"+stripes.ID, map[string]any{"x": 5, "opacity": 0.5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decode[editor.Layer](t, resp)
	assert.Equal(t, 5.0, moved.X)
	assert.Equal(t, 0.5, moved.Opacity)

	resp = doJSON(t, app, http.MethodPatch, base+"/layers/"+text.ID, map[string]any{"x": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, base+"/layers/"+stripes.ID+"/adjust", map[string]any{"hue": 120})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 120.0, decode[editor.Layer](t, resp).Adjust.Hue)

	resp = doJSON(t, app, http.MethodPost, base+"/layers/"+stripes.ID+"/front", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodPost, base+"/undo", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	undone := decode[layers](t, resp)
	assert.Equal(t, stripes.ID, undone.Layers[0].ID)

	resp = do(t, app, http.MethodPost, base+"/redo", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	redone := decode[layers](t, resp)
	assert.Equal(t, stripes.ID, redone.Layers[2].ID)

	resp = do(t, app, http.MethodPost, base+"/redo", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	layerPNG := decodePNG(t, do(t, app, http.MethodGet, base+"/layers/"+fill.ID, nil, ""))
	assert.Equal(t, image.Pt(40, 30), layerPNG.Bounds().Size())

	resp = do(t, app, http.MethodGet, base+"/export?scale=2", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "wrap.png")
	exported := decodePNG(t, resp)
	assert.Equal(t, image.Pt(80, 60), exported.Bounds().Size())

	resp = do(t, app, http.MethodDelete, base+"/layers/"+fill.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodDelete, base+"/layers/"+fill.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, base+"/layers", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, decode[layers](t, do(t, app, http.MethodGet, base+"/layers", nil, "")).Layers)
}

func TestTemplateMultipart(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "car.png")
	require.NoError(t, err)
	_, err = part.Write(templatePNG(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp := do(t, app, http.MethodPost, "/sessions/"+id+"/template", &buf, w.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 40.0, decode[map[string]float64](t, resp)["width"])
}

func TestImportImage(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)
	loadTemplate(t, app, id)

	data, err := utils.EncodePNG(image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	require.NoError(t, err)
	resp := do(t, app, http.MethodPost, "/sessions/"+id+"/layers?name=logo", bytes.NewReader(data), "image/png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	l := decode[editor.Layer](t, resp)
	assert.Equal(t, "logo", l.Name)
	assert.Equal(t, editor.KindImage, l.Kind)
	assert.True(t, l.Interactive)
}

func TestPatternFromReference(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)
	loadTemplate(t, app, id)

	ref := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(ref.Pix); i += 4 {
		ref.Pix[i], ref.Pix[i+3] = 200, 255
	}
	data, err := utils.EncodePNG(ref)
	require.NoError(t, err)

	resp := do(t, app, http.MethodPost, "/sessions/"+id+"/patterns/triangles-colorful?reference=true&k=2&method=kmeans", bytes.NewReader(data), "image/png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, editor.KindPattern, decode[editor.Layer](t, resp).Kind)
}

func TestBlankTextAndEmptyFill(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)
	loadTemplate(t, app, id)

	resp := doJSON(t, app, http.MethodPost, "/sessions/"+id+"/textfill", map[string]any{"text": "   "})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/sessions/"+id+"/fill", map[string]any{"x": 500, "y": 500, "color": "#ff0000"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)
	base := "/sessions/" + id

	cases := []struct {
		name   string
		resp   func() *http.Response
		status int
	}{
		{"unknown session", func() *http.Response {
			return do(t, app, http.MethodGet, "/sessions/nope/layers", nil, "")
		}, http.StatusNotFound},
		{"no template", func() *http.Response {
			return doJSON(t, app, http.MethodPost, base+"/fill", map[string]any{"x": 1, "y": 1, "color": "#fff"})
		}, http.StatusConflict},
		{"nothing to undo", func() *http.Response {
			return do(t, app, http.MethodPost, base+"/undo", nil, "")
		}, http.StatusConflict},
		{"not an image", func() *http.Response {
			return do(t, app, http.MethodPost, base+"/template", strings.NewReader("%PDF-1.4 hello"), "application/pdf")
		}, http.StatusBadRequest},
		{"empty template body", func() *http.Response {
			return do(t, app, http.MethodPost, base+"/template", nil, "image/png")
		}, http.StatusBadRequest},
		{"malformed json", func() *http.Response {
			return do(t, app, http.MethodPost, base+"/fill", strings.NewReader("{"), fiber.MIMEApplicationJSON)
		}, http.StatusBadRequest},
		{"bad color", func() *http.Response {
			return doJSON(t, app, http.MethodPost, base+"/fill", map[string]any{"color": "teal-ish"})
		}, http.StatusBadRequest},
		{"bad scale", func() *http.Response {
			return do(t, app, http.MethodGet, base+"/export?scale=big", nil, "")
		}, http.StatusBadRequest},
		{"unknown route", func() *http.Response {
			return do(t, app, http.MethodGet, "/nowhere", nil, "")
		}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := tc.resp()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
		})
	}
}

func TestDeleteSession(t *testing.T) {
	app := newApp(t)
	id := createSession(t, app)

	resp := do(t, app, http.MethodDelete, "/sessions/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodDelete, "/sessions/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
