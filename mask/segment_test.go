package mask

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/wrapstudio/internal/param"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

// ringImage draws a one-pixel dark square ring from (lo,lo) to (hi,hi) on a
// white background.
func ringImage(w, h, lo, hi int) *image.NRGBA {
	img := solid(w, h, color.White)
	for i := lo; i <= hi; i++ {
		img.Set(i, lo, color.Black)
		img.Set(i, hi, color.Black)
		img.Set(lo, i, color.Black)
		img.Set(hi, i, color.Black)
	}
	return img
}

func TestSegmentAllLightIsExterior(t *testing.T) {
	res, err := Segment(context.Background(), solid(16, 12, color.White), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Interior, 16*12)
	for i, v := range res.Interior {
		require.Zerof(t, v, "pixel %d should be exterior", i)
	}
	assert.Equal(t, color.NRGBA{26, 26, 26, 255}, res.Overlay.NRGBAAt(8, 6))
	assert.Zero(t, res.Coverage())
}

func TestSegmentRingEnclosure(t *testing.T) {
	res, err := Segment(context.Background(), ringImage(20, 20, 5, 14), DefaultOptions())
	require.NoError(t, err)

	for y := range 20 {
		for x := range 20 {
			inside := x > 5 && x < 14 && y > 5 && y < 14
			want := uint8(0)
			if inside {
				want = Interior
			}
			require.Equalf(t, want, res.Interior[y*20+x], "pixel (%d,%d)", x, y)
		}
	}
	assert.InDelta(t, 64.0/400.0, res.Coverage(), 1e-9)
}

func TestSegmentOverlayRendering(t *testing.T) {
	res, err := Segment(context.Background(), ringImage(20, 20, 5, 14), DefaultOptions())
	require.NoError(t, err)

	// Flat exterior keeps the background.
	assert.Equal(t, color.NRGBA{26, 26, 26, 255}, res.Overlay.NRGBAAt(1, 1))
	// Flat interior stays fully transparent.
	assert.Equal(t, color.NRGBA{}, res.Overlay.NRGBAAt(10, 10))
	// Interior corner pixel next to the ring is smoothed: five ring
	// neighbors with weights 1+2+1+2+1 out of 16.
	assert.Equal(t, uint8(112), res.Overlay.NRGBAAt(6, 6).A)
}

func TestSegmentLineIntensity(t *testing.T) {
	img := solid(9, 9, color.White)
	img.Set(4, 4, color.Black)
	img.Set(4, 5, color.NRGBA{100, 100, 100, 255})
	s := NewSegmenter(img)
	opt := DefaultOptions()
	opt.EdgeDelta = 255 // disable smoothing to read raw line values
	require.NoError(t, s.Build(context.Background(), opt))

	assert.Equal(t, uint8(255), s.Overlay.NRGBAAt(4, 4).R)
	assert.Equal(t, uint8(180), s.Overlay.NRGBAAt(4, 5).R)
	assert.Equal(t, Dark, s.Binary[4*9+4])
	assert.Equal(t, Outside, s.Region[0])
}

func TestSegmentDarkCornersNotFlooded(t *testing.T) {
	res, err := Segment(context.Background(), solid(8, 8, color.Black), DefaultOptions())
	require.NoError(t, err)
	for _, v := range res.Interior {
		require.Zero(t, v)
	}
	assert.Equal(t, uint8(255), res.Overlay.NRGBAAt(3, 3).A)
}

func TestSegmentBackgroundFallback(t *testing.T) {
	opt := DefaultOptions()
	opt.Background = "not-a-color"
	res, err := Segment(context.Background(), solid(4, 4, color.White), opt)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{26, 26, 26, 255}, res.Overlay.NRGBAAt(0, 0))

	opt.Background = "ff0000"
	res, err = Segment(context.Background(), solid(4, 4, color.White), opt)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, res.Overlay.NRGBAAt(0, 0))
}

func TestSegmentDeterministic(t *testing.T) {
	img := ringImage(32, 24, 4, 18)
	a, err := Segment(context.Background(), img, DefaultOptions())
	require.NoError(t, err)
	b, err := Segment(context.Background(), img, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Interior, b.Interior)
	assert.Equal(t, a.Overlay.Pix, b.Overlay.Pix)
}

func TestSegmentInvalidOptions(t *testing.T) {
	opt := DefaultOptions()
	opt.Threshold = 300
	_, err := Segment(context.Background(), solid(2, 2, color.White), opt)
	assert.ErrorIs(t, err, param.ErrInvalid)
}

func TestSegmentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Segment(ctx, solid(4, 4, color.White), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSegmentEmptyImage(t *testing.T) {
	res, err := Segment(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Interior)
	assert.Zero(t, res.Coverage())
}

func TestFloodFillStopsAtLines(t *testing.T) {
	// Two light columns separated by a dark column.
	field := []uint8{
		Light, Dark, Light,
		Light, Dark, Light,
	}
	FloodFill(field, 3, 2, 0, 0, Outside)
	assert.Equal(t, []uint8{Outside, Dark, Light, Outside, Dark, Light}, field)

	// Seeding on a dark pixel is a no-op.
	FloodFill(field, 3, 2, 1, 0, Outside)
	assert.Equal(t, Dark, field[1])
}
