package wrapstudio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/wrapstudio/adjust"
	"github.com/setanarut/wrapstudio/pattern"
	"github.com/setanarut/wrapstudio/utils"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encode(t *testing.T, img image.Image) *bytes.Reader {
	t.Helper()
	data, err := utils.EncodePNG(img)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodePNG(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return utils.ToNRGBA(img)
}

func TestSegmentAllLight(t *testing.T) {
	seg, err := Segment(encode(t, fill(24, 16, color.NRGBA{255, 255, 255, 255})), "#1a1a1a")
	require.NoError(t, err)
	assert.Equal(t, 24, seg.Width)
	assert.Equal(t, 16, seg.Height)
	for _, v := range seg.Interior {
		require.Zero(t, v)
	}
	overlay := decodePNG(t, seg.OverlayPNG)
	assert.Equal(t, color.NRGBA{26, 26, 26, 255}, overlay.NRGBAAt(12, 8))
}

func TestSegmentEnclosure(t *testing.T) {
	img := fill(30, 30, color.NRGBA{255, 255, 255, 255})
	// Solid three-pixel ring spanning 6..23.
	for y := 6; y <= 23; y++ {
		for x := 6; x <= 23; x++ {
			if x < 9 || x > 20 || y < 9 || y > 20 {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	seg, err := Segment(encode(t, img), "")
	require.NoError(t, err)
	for y := range 30 {
		for x := range 30 {
			inside := x >= 9 && x <= 20 && y >= 9 && y <= 20
			want := uint8(0)
			if inside {
				want = 255
			}
			require.Equalf(t, want, seg.Interior[y*30+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestSegmentDecodeError(t *testing.T) {
	_, err := Segment(strings.NewReader("definitely not an image"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSynthesizeTextPattern(t *testing.T) {
	interior := bytes.Repeat([]byte{255}, 200*200)
	a, err := SynthesizeTextPattern("A", 12, 50, 50, 0, interior, 200, 200)
	require.NoError(t, err)
	b, err := SynthesizeTextPattern("A", 12, 50, 50, 0, interior, 200, 200)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	img := decodePNG(t, a)
	assert.Equal(t, image.Pt(200, 200), img.Bounds().Size())
	var ink int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			ink++
		}
	}
	assert.Positive(t, ink)
}

func TestSynthesizeTextPatternEmptyText(t *testing.T) {
	data, err := SynthesizeTextPattern("", 40, 100, 80, -15, nil, 20, 10)
	require.NoError(t, err)
	img := decodePNG(t, data)
	assert.Equal(t, image.Pt(20, 10), img.Bounds().Size())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestSynthesizeTextPatternInvalid(t *testing.T) {
	interior := make([]uint8, 100)
	_, err := SynthesizeTextPattern("A", 10, 0, 10, 0, interior, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFloodFillContainment(t *testing.T) {
	d := color.NRGBA{10, 120, 10, 255}
	c := color.NRGBA{200, 40, 40, 255}
	img := fill(20, 20, d)
	for y := 5; y < 12; y++ {
		for x := 4; x < 15; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	out, err := FloodFill(img, 8, 8, color.NRGBA{0, 0, 255, 255}, 0)
	require.NoError(t, err)
	for y := range 20 {
		for x := range 20 {
			inRect := x >= 4 && x < 15 && y >= 5 && y < 12
			want := d
			if inRect {
				want = color.NRGBA{0, 0, 255, 255}
			}
			require.Equalf(t, want, out.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFloodFillSameColorNoop(t *testing.T) {
	img := fill(8, 8, color.NRGBA{40, 50, 60, 255})
	out, err := FloodFill(img, 3, 3, color.NRGBA{40, 50, 60, 255}, 30)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestAdjustIdentity(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(i * 7)
		img.Pix[i+1] = uint8(i * 13)
		img.Pix[i+2] = uint8(i * 29)
		img.Pix[i+3] = 255
	}
	out, err := AdjustColors(img, adjust.Params{})
	require.NoError(t, err)
	for i := range img.Pix {
		assert.InDelta(t, int(img.Pix[i]), int(out.Pix[i]), 1)
	}
}

func TestAdjustContrastExtremes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for x := range 256 {
		img.SetNRGBA(x, 0, color.NRGBA{uint8(x), uint8(255 - x), uint8(x / 2), 255})
	}
	high, err := AdjustColors(img, adjust.Params{Contrast: 100})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), high.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), high.NRGBAAt(255, 0).R)

	low, err := AdjustColors(img, adjust.Params{Contrast: -100})
	require.NoError(t, err)
	for x := range 256 {
		r := low.NRGBAAt(x, 0).R
		require.GreaterOrEqual(t, r, uint8(71))
		require.LessOrEqual(t, r, uint8(185))
	}
}

func TestGeneratePattern(t *testing.T) {
	data, err := GeneratePattern("hexagon-gold", pattern.Params{"width": 64, "height": 48})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 48), decodePNG(t, data).Bounds().Size())

	_, err = GeneratePattern("plaid", nil)
	assert.ErrorIs(t, err, ErrUnknownPattern)

	_, err = GeneratePattern("hexagon-gold", pattern.Params{"hexSize": -1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestListPatterns(t *testing.T) {
	assert.Len(t, ListPatterns(""), 28)
	assert.Len(t, ListPatterns("all"), 28)
	for _, r := range ListPatterns("gradient") {
		assert.Equal(t, "gradient", r.Category)
	}
	assert.Empty(t, ListPatterns("nope"))
}
