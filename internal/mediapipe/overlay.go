package mediapipe

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LogoPosition names a corner of the active picture a logo overlay is
// anchored to.
type LogoPosition int

const (
	LogoTopLeft LogoPosition = iota
	LogoTopRight
	LogoBottomLeft
	LogoBottomRight
)

// bgraAt returns the byte offset of pixel (x, y) in a packed BGRA
// buffer of the given stride.
func bgraAt(stride, x, y int) int {
	return y*stride + x*4
}

// OverlayLogo alpha-blends img onto a packed BGRA buffer of size
// width x height (stride == width*4), anchored at the requested
// corner and scaled so its width is 1/8th of the active picture's
// width — the same proportion hacktv derives from its source_ratio
// computation for the logo overlay.
func OverlayLogo(buf []byte, width, height int, img image.Image, pos LogoPosition) {
	stride := width * 4
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return
	}

	dstW := width / 8
	dstH := srcH * dstW / srcW
	if dstW <= 0 || dstH <= 0 {
		return
	}

	var ox, oy int
	switch pos {
	case LogoTopLeft:
		ox, oy = 4, 4
	case LogoTopRight:
		ox, oy = width-dstW-4, 4
	case LogoBottomLeft:
		ox, oy = 4, height-dstH-4
	case LogoBottomRight:
		ox, oy = width-dstW-4, height-dstH-4
	}

	for y := 0; y < dstH; y++ {
		dy := oy + y
		if dy < 0 || dy >= height {
			continue
		}
		sy := bounds.Min.Y + y*srcH/dstH
		for x := 0; x < dstW; x++ {
			dx := ox + x
			if dx < 0 || dx >= width {
				continue
			}
			sx := bounds.Min.X + x*srcW/dstW
			r, g, b, a := img.At(sx, sy).RGBA()
			if a == 0 {
				continue
			}

			off := bgraAt(stride, dx, dy)
			alpha := a >> 8
			inv := 255 - alpha
			buf[off+0] = byte((uint32(buf[off+0])*inv + (b>>8)*alpha) / 255)
			buf[off+1] = byte((uint32(buf[off+1])*inv + (g>>8)*alpha) / 255)
			buf[off+2] = byte((uint32(buf[off+2])*inv + (r>>8)*alpha) / 255)
			buf[off+3] = 0xFF
		}
	}
}

// TimestampText computes the HH:MM:SS elapsed-time string hacktv
// overlays on its output: wall-clock time since the configured
// start plus any seek offset in minutes.
func TimestampText(started time.Time, positionMinutes int) string {
	elapsed := time.Since(started) + time.Duration(positionMinutes)*time.Minute
	total := int(elapsed.Seconds())
	h := (total / 3600) % 24
	m := (total / 60) % 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// OverlayText draws white text at (x, y) onto a packed BGRA buffer
// using the standard extended library's fixed-width bitmap font —
// there is no text rasteriser anywhere in the retrieval pack, so this
// is the one overlay primitive built on a stdlib-adjacent package
// rather than a pack-grounded third-party one.
func OverlayText(buf []byte, width, height, x, y int, text string) {
	stride := width * 4
	img := &bgraImage{buf: buf, width: width, height: height, stride: stride}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// bgraImage adapts a packed BGRA byte buffer to image.Image/draw.Image
// so it can be used as a font.Drawer destination without a copy.
type bgraImage struct {
	buf    []byte
	width  int
	height int
	stride int
}

func (b *bgraImage) ColorModel() color.Model { return color.RGBAModel }
func (b *bgraImage) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *bgraImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.RGBA{}
	}
	off := bgraAt(b.stride, x, y)
	return color.RGBA{R: b.buf[off+2], G: b.buf[off+1], B: b.buf[off+0], A: b.buf[off+3]}
}

func (b *bgraImage) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	r, g, bl, a := c.RGBA()
	off := bgraAt(b.stride, x, y)
	b.buf[off+0] = byte(bl >> 8)
	b.buf[off+1] = byte(g >> 8)
	b.buf[off+2] = byte(r >> 8)
	b.buf[off+3] = byte(a >> 8)
}

// OverlayBitmapSubtitle blits a composited subtitle raster (as
// produced by CompositeBitmapRects) onto the output buffer, centred
// horizontally near the bottom of the active picture.
func OverlayBitmapSubtitle(buf []byte, width, height int, pixels []uint32, subW, subH int) {
	if len(pixels) == 0 || subW <= 0 || subH <= 0 {
		return
	}
	stride := width * 4
	ox := (width - subW) / 2
	oy := height - subH - height/20
	if ox < 0 {
		ox = 0
	}
	if oy < 0 {
		oy = 0
	}

	for y := 0; y < subH; y++ {
		dy := oy + y
		if dy < 0 || dy >= height {
			continue
		}
		for x := 0; x < subW; x++ {
			dx := ox + x
			if dx < 0 || dx >= width {
				continue
			}
			px := pixels[y*subW+x]
			a := (px >> 24) & 0xFF
			if a == 0 {
				continue
			}
			r := (px >> 16) & 0xFF
			g := (px >> 8) & 0xFF
			bl := px & 0xFF

			off := bgraAt(stride, dx, dy)
			inv := 255 - a
			buf[off+0] = byte((uint32(buf[off+0])*inv + bl*a) / 255)
			buf[off+1] = byte((uint32(buf[off+1])*inv + g*a) / 255)
			buf[off+2] = byte((uint32(buf[off+2])*inv + r*a) / 255)
			buf[off+3] = 0xFF
		}
	}
}

// PadPolicy selects the widescreen pad/crop behaviour for a source
// whose aspect ratio is at least 14:9.
type PadPolicy int

const (
	PadNone PadPolicy = iota
	PadLetterbox
	PadPillarbox
	PadFit
)

// ChoosePadPolicy implements spec §4.5's widescreen policy: sources at
// or above a 14:9 aspect ratio are letterboxed or pillarboxed per the
// configuration, or — when neither is configured — fit to the target
// picture by scale/pad instead of falling through to identity, per
// ffmpeg.c's own widescreen branch. Narrower sources use the identity
// (fit/crop) policy.
func ChoosePadPolicy(sourceRatio float64, letterbox, pillarbox bool) PadPolicy {
	const wideThreshold = 14.0 / 9.0
	if sourceRatio < wideThreshold {
		return PadNone
	}
	if letterbox {
		return PadLetterbox
	}
	if pillarbox {
		return PadPillarbox
	}
	return PadFit
}

// FillMargins paints the letterbox/pillarbox margins of a packed BGRA
// canvas outside the inner rectangle [innerX, innerY, innerX+innerW,
// innerY+innerH) with a fixed background shade, the Go-level
// equivalent of the teacher's post-scale buffer edit (there is no
// avfilter graph anywhere in the retrieval pack to build padding
// through).
func FillMargins(buf []byte, width, height, innerX, innerY, innerW, innerH int, shade byte) {
	stride := width * 4
	for y := 0; y < height; y++ {
		inRow := y >= innerY && y < innerY+innerH
		for x := 0; x < width; x++ {
			if inRow && x >= innerX && x < innerX+innerW {
				continue
			}
			off := bgraAt(stride, x, y)
			buf[off+0] = shade
			buf[off+1] = shade
			buf[off+2] = shade
			buf[off+3] = 0xFF
		}
	}
}
