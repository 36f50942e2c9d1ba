package mediapipe

import (
	"fmt"
	"image"
	"time"

	"github.com/asticode/go-astiav"
)

// scaledFrame is what the video scale stage publishes to the
// consumer-facing double buffer: a tightly packed BGRA raster at the
// configured active picture size, ready for the analogue modulator.
type scaledFrame struct {
	Width, Height int
	Pixels        []byte
}

func (f *scaledFrame) Size() int { return len(f.Pixels) }

// bgraScaler wraps an astiav software scale context targeting BGRA,
// re-creating the context only when the source geometry, the source
// pixel format or the requested destination size changes — mirrors
// hacktv's own scaler-reuse pattern.
type bgraScaler struct {
	ssc    *astiav.SoftwareScaleContext
	dst    *astiav.Frame
	srcW   int
	srcH   int
	srcPix astiav.PixelFormat
	dstW   int
	dstH   int
}

func (s *bgraScaler) close() {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}
	if s.ssc != nil {
		s.ssc.Free()
		s.ssc = nil
	}
}

func (s *bgraScaler) ensure(src *astiav.Frame, dstW, dstH int) error {
	sw, sh := src.Width(), src.Height()
	sp := src.PixelFormat()

	if s.ssc != nil && sw == s.srcW && sh == s.srcH && sp == s.srcPix && dstW == s.dstW && dstH == s.dstH {
		return nil
	}
	s.close()

	flags := astiav.NewSoftwareScaleContextFlags()
	ssc, err := astiav.CreateSoftwareScaleContext(sw, sh, sp, dstW, dstH, astiav.PixelFormatBgra, flags)
	if err != nil {
		return fmt.Errorf("CreateSoftwareScaleContext(%dx%d %v -> %dx%d BGRA): %w", sw, sh, sp, dstW, dstH, err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(dstW)
	dst.SetHeight(dstH)
	dst.SetPixelFormat(astiav.PixelFormatBgra)
	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		ssc.Free()
		return fmt.Errorf("dst.AllocBuffer: %w", err)
	}

	s.ssc, s.dst = ssc, dst
	s.srcW, s.srcH, s.srcPix = sw, sh, sp
	s.dstW, s.dstH = dstW, dstH
	return nil
}

func (s *bgraScaler) toBGRA(src *astiav.Frame, dstW, dstH int) ([]byte, error) {
	if err := s.ensure(src, dstW, dstH); err != nil {
		return nil, err
	}
	if err := s.ssc.ScaleFrame(src, s.dst); err != nil {
		return nil, fmt.Errorf("ScaleFrame: %w", err)
	}
	n, err := s.dst.ImageBufferSize(1)
	if err != nil {
		return nil, fmt.Errorf("ImageBufferSize: %w", err)
	}
	out := make([]byte, n)
	if _, err := s.dst.ImageCopyToBuffer(out, 1); err != nil {
		return nil, fmt.Errorf("ImageCopyToBuffer: %w", err)
	}
	return out, nil
}

// videoScaler is the third pipeline stage: it arbitrates frame timing
// against the output frame clock, scales each surviving frame to BGRA
// at the active picture size, applies the widescreen pad policy and
// overlays, and publishes the result to the consumer-facing double
// buffer. Mirrors hacktv's _video_scaler_thread.
type videoScaler struct {
	in  *FrameDoubleBuffer[*astiav.Frame]
	out *FrameDoubleBuffer[*scaledFrame]

	cfg   Config
	clock *Clock

	scaler bgraScaler

	subtitles *SubtitleStore
	logo      image.Image
	started   time.Time
	position  int
}

func newVideoScaler(in *FrameDoubleBuffer[*astiav.Frame], out *FrameDoubleBuffer[*scaledFrame], cfg Config, clock *Clock, subtitles *SubtitleStore, logo image.Image, started time.Time) *videoScaler {
	return &videoScaler{in: in, out: out, cfg: cfg, clock: clock, subtitles: subtitles, logo: logo, started: started, position: cfg.Position}
}

func (v *videoScaler) close() {
	v.scaler.close()
}

// run drains decoded video frames from in, arbitrating their output
// timing against v.clock one VideoFrameAction decision at a time, and
// publishes scaled-and-composited frames to out until in is aborted.
func (v *videoScaler) run(streamTimeBaseNum, streamTimeBaseDen int) {
	defer v.out.Abort()

	for {
		frame, ok := v.in.Flip()
		if !ok {
			return
		}

		rescaled := rescalePTS(frame.Pts(), streamTimeBaseNum, streamTimeBaseDen, v.cfg.FrameRateDen, v.cfg.videoTimeBaseDenominator())
		rescaled -= v.clock.Load()

		drop, repeats := VideoFrameAction(rescaled)
		if drop {
			continue
		}

		for i := 0; i < repeats; i++ {
			if !v.publishRepeat() {
				return
			}
			v.clock.Add(1)
		}

		pixels, err := v.composite(frame, rescaled+v.clock.Load())
		if err != nil {
			continue
		}

		back, ok := v.out.BackBuffer()
		if !ok {
			return
		}
		back.Width, back.Height, back.Pixels = v.cfg.ActiveWidth, v.cfg.ActiveLines, pixels
		v.out.MarkReady(false)
		v.clock.Add(1)
	}
}

// publishRepeat redelivers the current front buffer to mask a slow
// source, matching the original's frame-repeat behaviour rather than
// dropping cadence.
func (v *videoScaler) publishRepeat() bool {
	_, ok := v.out.BackBuffer()
	if !ok {
		return false
	}
	v.out.MarkReady(true)
	return true
}

// composite scales a decoded frame to the active picture size under
// its chosen widescreen pad policy, then applies the logo, timestamp,
// and subtitle overlays. The pad policy is chosen from the frame's own
// width/height, not the (fixed) target size, since a widescreen source
// only needs letterbox/pillarbox/fit margins when its own aspect ratio
// warrants them.
func (v *videoScaler) composite(frame *astiav.Frame, pts int64) ([]byte, error) {
	width, height := v.cfg.ActiveWidth, v.cfg.ActiveLines
	sourceRatio := float64(frame.Width()) / float64(frame.Height())
	policy := ChoosePadPolicy(sourceRatio, v.cfg.Letterbox, v.cfg.Pillarbox)
	innerW, innerH, offX, offY := padGeometry(width, height, sourceRatio, policy)

	inner, err := v.scaler.toBGRA(frame, innerW, innerH)
	if err != nil {
		return nil, err
	}

	pixels := make([]byte, width*height*4)
	if policy != PadNone {
		FillMargins(pixels, width, height, offX, offY, innerW, innerH, 0)
	}
	blit(pixels, width, height, inner, innerW, innerH, offX, offY)

	if v.cfg.Logo && v.logo != nil {
		OverlayLogo(pixels, width, height, v.logo, LogoTopRight)
	}
	if v.cfg.Timestamp {
		OverlayText(pixels, width, height, 8, height-8, TimestampText(v.started, v.position))
	}
	if v.subtitles != nil {
		if text := v.subtitles.Text(pts); text != "" {
			OverlayText(pixels, width, height, width/8, height-height/10, text)
		}
		if bmp, bw, bh := v.subtitles.Bitmap(pts); bmp != nil {
			OverlayBitmapSubtitle(pixels, width, height, bmp, bw, bh)
		}
	}
	return pixels, nil
}

// padGeometry returns the inner picture rectangle, centred on the
// width x height active picture canvas, that a frame scales into under
// policy. PadLetterbox/PadPillarbox assume a 16:9 source, matching
// ffmpeg.c's fixed-ratio geometry: letterbox fits the full width and
// leaves top/bottom margins, pillarbox fits the full height and is
// wider than the canvas, so blit crops its left and right sides
// (offX is negative). PadFit derives
// the inner rectangle from the source's own ratio instead, scaling the
// whole picture down to fit rather than assuming 16:9.
func padGeometry(width, height int, sourceRatio float64, policy PadPolicy) (innerW, innerH, offX, offY int) {
	switch policy {
	case PadLetterbox:
		innerW = width
		innerH = height * 9 / 16
	case PadPillarbox:
		innerH = height
		innerW = height * 16 / 9
	case PadFit:
		targetRatio := float64(width) / float64(height)
		if sourceRatio > targetRatio {
			innerW = width
			innerH = int(float64(width) / sourceRatio)
		} else {
			innerH = height
			innerW = int(float64(height) * sourceRatio)
		}
	default:
		return width, height, 0, 0
	}
	offX = (width - innerW) / 2
	offY = (height - innerH) / 2
	return
}

// blit copies a srcW x srcH packed BGRA raster into dst at (offX, offY),
// clipping rows and columns that fall outside dst's bounds.
func blit(dst []byte, dstW, dstH int, src []byte, srcW, srcH, offX, offY int) {
	dstStride := dstW * 4
	srcStride := srcW * 4
	x0, x1 := 0, srcW
	if offX < 0 {
		x0 = -offX
	}
	if offX+x1 > dstW {
		x1 = dstW - offX
	}
	if x0 >= x1 {
		return
	}
	rowBytes := (x1 - x0) * 4
	for y := 0; y < srcH; y++ {
		dy := offY + y
		if dy < 0 || dy >= dstH {
			continue
		}
		dstOff := dy*dstStride + (offX+x0)*4
		srcOff := y*srcStride + x0*4
		copy(dst[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}
}

// rescalePTS converts a PTS from the decoder's stream time base
// (streamNum/streamDen seconds per tick) into the pipeline's output
// time base (outputNum/outputDen seconds per tick), the same
// av_rescale_q hacktv performs before comparing a frame's timestamp
// against its running clock.
func rescalePTS(pts int64, streamNum, streamDen, outputNum, outputDen int) int64 {
	if streamDen == 0 || outputNum == 0 {
		return pts
	}
	num := pts * int64(streamNum) * int64(outputDen)
	den := int64(streamDen) * int64(outputNum)
	if den == 0 {
		return 0
	}
	return num / den
}
