package mediapipe

// DefaultAllowedAudioError is the default audio alignment tolerance,
// expressed in output-base samples: 20ms at the fixed 32kHz output
// rate (0.020 * 32000).
const DefaultAllowedAudioError = 640

// VideoFrameAction decides what the video scale stage does with one
// decoded frame given its PTS, already rescaled into the output time
// base and reduced by the running video_start_time. A negative value
// means the frame is in the past and must be dropped; a positive
// value means the output is behind and the stage must repeat the
// previous frame that many times before emitting this one; zero means
// emit immediately.
//
// The caller advances its running clock by one unit per repeat and by
// one more unit for the final emit, for a total of repeats+1 when the
// frame is not dropped.
func VideoFrameAction(rescaledPTS int64) (drop bool, repeats int) {
	if rescaledPTS < 0 {
		return true, 0
	}
	return false, int(rescaledPTS)
}

// AudioFrameAction decides what the audio resample stage does with
// one decoded frame given its PTS (already rescaled into the output
// base and reduced by the running audio_start_time), its sample
// count, and the allowed alignment error.
//
//   - If the frame ends at or before the current clock (pts+samples <= 0)
//     it is entirely in the past and must be dropped outright (skip=true).
//   - If it starts more than allowedError samples in the past, its head
//     is trimmed by -pts samples before resampling.
//   - If it starts more than allowedError samples in the future,
//     silence samples must be injected ahead of it.
//   - Otherwise it passes through unchanged.
func AudioFrameAction(rescaledPTS, sampleCount, allowedError int64) (skip bool, trim int64, silence int64) {
	nextPTS := rescaledPTS + sampleCount
	if nextPTS <= 0 {
		return true, 0, 0
	}
	if rescaledPTS < -allowedError {
		return false, -rescaledPTS, 0
	}
	if rescaledPTS > allowedError {
		return false, 0, rescaledPTS
	}
	return false, 0, 0
}
