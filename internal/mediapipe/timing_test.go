package mediapipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S3: matched source/output rate, 250 frames: zero drops, zero
// repeats, and the running clock advances by exactly 250.
func TestVideoCadenceMatchedRates(t *testing.T) {
	clock := int64(0)
	drops, repeats, emits := 0, 0, 0

	for i := 0; i < 250; i++ {
		pts := int64(i) - clock
		drop, rep := VideoFrameAction(pts)
		if drop {
			drops++
			continue
		}
		for r := 0; r < rep; r++ {
			repeats++
			clock++
		}
		emits++
		clock++
	}

	require.Equal(t, 0, drops)
	require.Equal(t, 0, repeats)
	require.Equal(t, 250, emits)
	require.Equal(t, int64(250), clock)
}

// S4: source delivers one frame every two output periods for 100
// source frames: emits 200 output frames, 100 of them repeats. Each
// source frame lands one output period after the previous emit (pts
// 1, 3, 5, ...), so every frame is preceded by exactly one repeat.
func TestVideoCadenceSlowSource(t *testing.T) {
	clock := int64(0)
	repeats, emits := 0, 0

	for i := 0; i < 100; i++ {
		sourcePTS := int64(i)*2 + 1
		pts := sourcePTS - clock
		drop, rep := VideoFrameAction(pts)
		require.False(t, drop)
		for r := 0; r < rep; r++ {
			repeats++
			clock++
		}
		emits++
		clock++
	}

	require.Equal(t, 100, repeats)
	require.Equal(t, 100, emits)
	require.Equal(t, emits+repeats, 200)
}

// S5: first audio frame's rescaled PTS is +1600 (50ms ahead at
// 32kHz): exactly 1600 samples of silence are injected, then the
// frame passes through unchanged.
func TestAudioAlignmentInjectsSilence(t *testing.T) {
	skip, trim, silence := AudioFrameAction(1600, 960, DefaultAllowedAudioError)
	require.False(t, skip)
	require.Equal(t, int64(0), trim)
	require.Equal(t, int64(1600), silence)
}

func TestAudioFrameEntirelyInPastIsDropped(t *testing.T) {
	skip, _, _ := AudioFrameAction(-2000, 960, DefaultAllowedAudioError)
	require.True(t, skip)
}

func TestAudioFrameHeadTrim(t *testing.T) {
	skip, trim, silence := AudioFrameAction(-700, 960, DefaultAllowedAudioError)
	require.False(t, skip)
	require.Equal(t, int64(700), trim)
	require.Equal(t, int64(0), silence)
}

func TestAudioFramePassthroughWithinTolerance(t *testing.T) {
	skip, trim, silence := AudioFrameAction(200, 960, DefaultAllowedAudioError)
	require.False(t, skip)
	require.Equal(t, int64(0), trim)
	require.Equal(t, int64(0), silence)
}

// Same rescaled PTS decided two different ways depending on whether
// the caller rescaled the frame's sample count into output-rate units
// first: audioResampler.run must rescale frame.NbSamples() through the
// same streamTB->32kHz conversion as the PTS (see
// TestRescalePTSConvertsSampleCountDuration), or a 48kHz frame's
// duration is overstated relative to the 32kHz clock and a frame that
// should be dropped outright is instead merely head-trimmed.
func TestAudioFrameActionNeedsOutputRateSampleCount(t *testing.T) {
	const pts = -700

	skipRescaled, _, _ := AudioFrameAction(pts, 682, DefaultAllowedAudioError)
	require.True(t, skipRescaled, "rescaled 32kHz sample count: frame ends before the clock and must be dropped")

	skipRaw, trimRaw, _ := AudioFrameAction(pts, 1024, DefaultAllowedAudioError)
	require.False(t, skipRaw, "unrescaled 48kHz sample count: the stale unit makes the frame look like it still has samples left")
	require.Equal(t, int64(700), trimRaw)
}

func TestVideoFrameBoundaryValues(t *testing.T) {
	drop, repeats := VideoFrameAction(0)
	require.False(t, drop)
	require.Equal(t, 0, repeats)

	drop, _ = VideoFrameAction(-1)
	require.True(t, drop)

	drop, repeats = VideoFrameAction(1)
	require.False(t, drop)
	require.Equal(t, 1, repeats)
}
