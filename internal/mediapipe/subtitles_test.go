package mediapipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func solidRect(w, h int, idx byte) SubtitleRect {
	indices := make([]byte, w*h)
	for i := range indices {
		indices[i] = idx
	}
	palette := make([]byte, 256*4)
	// index 1 -> opaque red, index 2 -> opaque blue
	palette[1*4+0] = 0xFF
	palette[1*4+3] = 0xFF
	palette[2*4+2] = 0xFF
	palette[2*4+3] = 0xFF
	return SubtitleRect{Width: w, Height: h, Indices: indices, Palette: palette}
}

func TestCompositeBitmapRectsReverseZOrder(t *testing.T) {
	// Two 4x4 rects stacked into a 4x8 raster: rect[0] is red, rect[1]
	// is blue. Reverse iteration draws rect[1] first, starting at pixel
	// 0 and ending at pixel 15; rect[0] then starts at that carried-over
	// position, so the one pixel both rects write (15) must be red.
	rects := []SubtitleRect{
		solidRect(4, 4, 1),
		solidRect(4, 4, 2),
	}

	pixels, w, h := CompositeBitmapRects(rects, 4)
	require.Equal(t, 4, w)
	require.Greater(t, h, 0)
	require.NotEmpty(t, pixels)

	red := uint32(0xFF)<<24 | uint32(0xFF)<<16
	blue := uint32(0xFF)<<24 | uint32(0xFF)
	require.Equal(t, blue, pixels[0], "reverse iteration places the last rect first")
	require.Equal(t, red, pixels[15], "later-drawn (earlier index) rect must win per reverse z-order")
}

func TestCompositeBitmapRectsIntegerDownscale(t *testing.T) {
	rect := solidRect(20, 10, 1)
	_, w, h := CompositeBitmapRects([]SubtitleRect{rect}, 10)
	require.Equal(t, 10, w) // 20 / round(20/10)=2 -> 10
	require.Equal(t, 5, h)  // 10 / 2 -> 5
}

func TestCompositeBitmapRectsMinimumScaleFactorIsOne(t *testing.T) {
	rect := solidRect(8, 8, 1)
	_, w, h := CompositeBitmapRects([]SubtitleRect{rect}, 40)
	require.Equal(t, 8, w)
	require.Equal(t, 8, h)
}

func TestSubtitleStoreTextOrderingAndLookup(t *testing.T) {
	store := NewSubtitleStore()
	store.LoadText(100, 50, "second")
	store.LoadText(0, 50, "first")

	require.Equal(t, "first", store.Text(10))
	require.Equal(t, "second", store.Text(120))
	require.Equal(t, "", store.Text(75))
	require.Equal(t, "", store.Text(1000))
}

func TestSubtitleStoreBitmapWindow(t *testing.T) {
	store := NewSubtitleStore()
	store.LoadBitmap([]SubtitleRect{solidRect(4, 4, 1)}, 4, 100, 50)

	pixels, w, _ := store.Bitmap(120)
	require.NotNil(t, pixels)
	require.Equal(t, 4, w)

	pixels, _, _ = store.Bitmap(10)
	require.Nil(t, pixels)

	pixels, _, _ = store.Bitmap(200)
	require.Nil(t, pixels)
}
