package textfill

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/mask"
)

func fullInterior(w, h int) []uint8 {
	m := make([]uint8, w*h)
	for i := range m {
		m[i] = mask.Interior
	}
	return m
}

func request(text string, w, h int, interior []uint8) Request {
	req := DefaultRequest()
	req.Text = text
	req.Width, req.Height = w, h
	req.Interior = interior
	return req
}

func anyInk(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			return true
		}
	}
	return false
}

func TestLayoutStaggeredGrid(t *testing.T) {
	req := request("A", 200, 200, fullInterior(200, 200))
	req.SpacingX, req.SpacingY = 50, 50
	req.FontSize = 12

	stamps, err := Layout(req)
	require.NoError(t, err)
	require.Len(t, stamps, 16)

	for _, s := range stamps {
		if s.Row%2 == 0 {
			assert.Contains(t, []float64{0, 50, 100, 150}, s.X)
		} else {
			assert.Contains(t, []float64{25, 75, 125, 175}, s.X)
		}
		assert.Equal(t, float64(s.Row)*50, s.Y)
	}
}

func TestSynthesizeCount(t *testing.T) {
	req := request("A", 200, 200, fullInterior(200, 200))
	req.SpacingX, req.SpacingY = 50, 50
	req.FontSize = 12

	res, err := Synthesize(req)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Count)
	assert.Equal(t, 200, res.Image.Bounds().Dx())
	assert.True(t, anyInk(res.Image.Pix))
}

func TestSynthesizeRespectsInterior(t *testing.T) {
	w, h := 200, 100
	interior := make([]uint8, w*h)
	for y := range h {
		for x := range w / 2 {
			interior[y*w+x] = mask.Interior
		}
	}
	req := request("GO", w, h, interior)
	req.SpacingX, req.SpacingY = 40, 30

	stamps, err := Layout(req)
	require.NoError(t, err)
	require.NotEmpty(t, stamps)
	for _, s := range stamps {
		assert.Less(t, s.X, 100.0)
	}
}

func TestSynthesizeEmptyInterior(t *testing.T) {
	res, err := Synthesize(request("WRAP", 64, 64, make([]uint8, 64*64)))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.False(t, anyInk(res.Image.Pix))
}

func TestSynthesizeEmptyText(t *testing.T) {
	res, err := Synthesize(request("", 30, 20, nil))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Equal(t, 30, res.Image.Bounds().Dx())
	assert.Equal(t, 20, res.Image.Bounds().Dy())
	assert.False(t, anyInk(res.Image.Pix))
}

func TestSynthesizeDeterministic(t *testing.T) {
	req := request("Fast 42", 160, 120, fullInterior(160, 120))
	a, err := Synthesize(req)
	require.NoError(t, err)
	b, err := Synthesize(req)
	require.NoError(t, err)
	assert.Equal(t, a.Count, b.Count)
	assert.Equal(t, a.Image.Pix, b.Image.Pix)
}

func TestCornerSamplingIsStricter(t *testing.T) {
	req := request("RACING", 240, 240, fullInterior(240, 240))
	req.SpacingX, req.SpacingY = 60, 40

	center, err := Layout(req)
	require.NoError(t, err)
	req.Sampling = SampleCorners
	corners, err := Layout(req)
	require.NoError(t, err)

	assert.Less(t, len(corners), len(center))
	for _, s := range corners {
		assert.Greater(t, s.X, 0.0)
		assert.Greater(t, s.Y, 0.0)
	}
}

func TestSynthesizeGradient(t *testing.T) {
	req := request("X", 120, 120, fullInterior(120, 120))
	req.FontSize = 60
	req.SpacingX, req.SpacingY = 60, 60
	req.Gradient = []color.NRGBA{{255, 0, 0, 255}, {0, 0, 255, 255}}

	res, err := Synthesize(req)
	require.NoError(t, err)
	require.Positive(t, res.Count)

	var sawRed, sawBlue bool
	pix := res.Image.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] != 255 {
			continue
		}
		if pix[i] > pix[i+2] {
			sawRed = true
		}
		if pix[i+2] > pix[i] {
			sawBlue = true
		}
	}
	assert.True(t, sawRed)
	assert.True(t, sawBlue)
}

func TestSynthesizeInvalid(t *testing.T) {
	base := request("A", 10, 10, fullInterior(10, 10))

	cases := map[string]func(r *Request){
		"zero spacing x":   func(r *Request) { r.SpacingX = 0 },
		"negative spacing": func(r *Request) { r.SpacingY = -5 },
		"zero font":        func(r *Request) { r.FontSize = 0 },
		"mask mismatch":    func(r *Request) { r.Interior = r.Interior[:5] },
		"zero width":       func(r *Request) { r.Width = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := Synthesize(req)
			assert.ErrorIs(t, err, param.ErrInvalid)
		})
	}
}
