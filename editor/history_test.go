package editor

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigSnapshot(n, side int) snapshot {
	s := snapshot{TextFillID: "t"}
	for range n {
		s.Layers = append(s.Layers, *newLayer(KindImage, "big", solid(side, side, red)))
	}
	return s
}

func TestCloneSnapshotSharesPixels(t *testing.T) {
	s := bigSnapshot(2, 4)
	c, err := cloneSnapshot(s)
	require.NoError(t, err)
	require.Len(t, c.Layers, 2)
	assert.Equal(t, "t", c.TextFillID)

	for i := range s.Layers {
		assert.Same(t, &s.Layers[i].Pix[0], &c.Layers[i].Pix[0])
		assert.Same(t, &s.Layers[i].Source[0], &c.Layers[i].Source[0])
		assert.Equal(t, s.Layers[i].ID, c.Layers[i].ID)
	}

	c.Layers[0].X = 42
	c.Layers[0].Name = "moved"
	c.Layers[0].Adjust.Hue = 90
	assert.Zero(t, s.Layers[0].X)
	assert.Equal(t, "big", s.Layers[0].Name)
	assert.Zero(t, s.Layers[0].Adjust.Hue)
}

func TestCloneSnapshotEmpty(t *testing.T) {
	c, err := cloneSnapshot(snapshot{})
	require.NoError(t, err)
	assert.Empty(t, c.Layers)
}

func TestHistoryRecordIsCheapForLargeLayers(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates large layers")
	}
	s := bigSnapshot(3, 1024)
	h := NewHistory(DefaultHistorySize)
	start := time.Now()
	for range DefaultHistorySize {
		require.NoError(t, h.record(s))
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, DefaultHistorySize, h.Len())
}

func TestUndoAfterTintKeepsOriginalBuffer(t *testing.T) {
	e := newEditor(t)
	l, err := e.AddImage(solid(2, 2, color.NRGBA{0, 0, 0, 255}), "a")
	require.NoError(t, err)
	before, err := e.Layer(l.ID)
	require.NoError(t, err)

	tinted, err := e.TintLayer(l.ID, color.White, 1)
	require.NoError(t, err)
	assert.NotSame(t, &before.Pix[0], &tinted.Pix[0])

	require.NoError(t, e.Undo())
	got, err := e.Layer(l.ID)
	require.NoError(t, err)
	assert.Same(t, &before.Pix[0], &got.Pix[0])
	assert.Equal(t, uint8(0), got.Pix[0])
}

func BenchmarkHistoryRecord(b *testing.B) {
	s := bigSnapshot(3, 1024)
	h := NewHistory(DefaultHistorySize)
	b.ReportAllocs()
	for b.Loop() {
		if err := h.record(s); err != nil {
			b.Fatal(err)
		}
	}
}
