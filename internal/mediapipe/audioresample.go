package mediapipe

import (
	"fmt"

	"github.com/asticode/go-astiav"
)

// OutputSampleRate is the fixed PCM rate the analogue modulator
// consumes audio at.
const OutputSampleRate = 32000

// resampledAudio is one block of S16 stereo PCM samples ready for the
// consumer, sized in interleaved int16 values (2 per sample frame).
type resampledAudio struct {
	Samples []int16
}

func (r *resampledAudio) Size() int { return len(r.Samples) * 2 }

// audioResampler is the fourth pipeline stage for the audio path: it
// arbitrates frame timing against the output audio clock, converts to
// the fixed output rate via libswresample, then applies the
// downmix/volume step to the converted S16 samples, and publishes PCM
// blocks to the consumer-facing double buffer. Mirrors hacktv's
// _audio_scaler_thread.
type audioResampler struct {
	in  *FrameDoubleBuffer[*astiav.Frame]
	out *FrameDoubleBuffer[*resampledAudio]

	cfg   Config
	clock *Clock

	swr        *astiav.SoftwareResampleContext
	dst        *astiav.Frame
	srcRate    int
	srcLayout  astiav.ChannelLayout
	srcFormat  astiav.SampleFormat
	configured bool
}

func newAudioResampler(in *FrameDoubleBuffer[*astiav.Frame], out *FrameDoubleBuffer[*resampledAudio], cfg Config, clock *Clock) *audioResampler {
	return &audioResampler{in: in, out: out, cfg: cfg, clock: clock}
}

func (a *audioResampler) close() {
	if a.dst != nil {
		a.dst.Free()
		a.dst = nil
	}
	if a.swr != nil {
		a.swr.Free()
		a.swr = nil
	}
}

func (a *audioResampler) ensure(src *astiav.Frame) error {
	rate := src.SampleRate()
	layout := src.ChannelLayout()
	format := src.SampleFormat()

	if a.configured && rate == a.srcRate && layout == a.srcLayout && format == a.srcFormat {
		return nil
	}
	a.close()

	swr := astiav.AllocSoftwareResampleContext()
	if swr == nil {
		return fmt.Errorf("AllocSoftwareResampleContext failed")
	}

	// Sample rate and format change here, and the layout becomes
	// stereo, except that a 5.1 source with downmix enabled keeps its
	// six channels so DownmixAndVolume (called from run) applies the
	// pan matrix to it.
	dstLayout := astiav.ChannelLayoutStereo
	if a.cfg.Downmix && layout.Channels() == surround51Channels {
		dstLayout = layout
	}
	dst := astiav.AllocFrame()
	dst.SetSampleFormat(astiav.SampleFormatS16)
	dst.SetSampleRate(OutputSampleRate)
	dst.SetChannelLayout(dstLayout)

	a.swr = swr
	a.dst = dst
	a.srcRate, a.srcLayout, a.srcFormat = rate, layout, format
	a.configured = true
	return nil
}

// toPCM converts a decoded audio frame to interleaved S16 at
// OutputSampleRate, stereo unless ensure kept a 5.1 layout for
// downmixing; the channel count is returned alongside the samples.
// Returns nil with no error when swresample has buffered the input
// without yet producing output.
func (a *audioResampler) toPCM(src *astiav.Frame) ([]int16, int, error) {
	if err := a.ensure(src); err != nil {
		return nil, 0, err
	}
	if err := a.swr.ConvertFrame(src, a.dst); err != nil {
		return nil, 0, fmt.Errorf("ConvertFrame: %w", err)
	}

	n := a.dst.NbSamples()
	if n <= 0 {
		return nil, 0, nil
	}
	channels := a.dst.ChannelLayout().Channels()
	buf, err := a.dst.Data().Bytes(0)
	if err != nil {
		return nil, 0, fmt.Errorf("Data: %w", err)
	}

	out := make([]int16, n*channels)
	for i := range out {
		lo := int(buf[i*2])
		hi := int(buf[i*2+1])
		out[i] = int16(hi<<8 | lo)
	}
	return out, channels, nil
}

// run drains decoded audio frames from in, arbitrating timing against
// a.clock via AudioFrameAction, mixing/resampling survivors, and
// publishing PCM blocks to out until in is aborted.
func (a *audioResampler) run(streamTimeBaseNum, streamTimeBaseDen int) {
	defer a.out.Abort()

	for {
		frame, ok := a.in.Flip()
		if !ok {
			return
		}

		rescaled := rescalePTS(frame.Pts(), streamTimeBaseNum, streamTimeBaseDen, 1, OutputSampleRate)
		rescaled -= a.clock.Load()

		// frame.NbSamples() counts ticks in the stream's own time base,
		// not output-rate samples: rescale it through the same
		// streamTB->32kHz conversion as the PTS before comparing it
		// against the output clock, the same units av_rescale_q
		// preserves between a packet's pts and its duration.
		nbSamples := rescalePTS(int64(frame.NbSamples()), streamTimeBaseNum, streamTimeBaseDen, 1, OutputSampleRate)
		skip, trim, silence := AudioFrameAction(rescaled, nbSamples, DefaultAllowedAudioError)
		if skip {
			continue
		}

		if silence > 0 {
			if !a.publishSilence(int(silence)) {
				return
			}
			a.clock.Add(silence)
		}

		pcm, channels, err := a.toPCM(frame)
		if err != nil || pcm == nil {
			continue
		}

		if trim > 0 {
			cut := int(trim) * channels
			if cut > len(pcm) {
				cut = len(pcm)
			}
			pcm = pcm[cut:]
		}

		mixed := DownmixAndVolume(pcm, channels, a.cfg.Downmix, a.cfg.Volume)
		outChannels := channels
		if a.cfg.Downmix && channels == surround51Channels {
			outChannels = 2
		}

		back, ok := a.out.BackBuffer()
		if !ok {
			return
		}
		back.Samples = mixed
		a.out.MarkReady(false)
		a.clock.Add(int64(len(mixed) / outChannels))
	}
}

func (a *audioResampler) publishSilence(samples int) bool {
	back, ok := a.out.BackBuffer()
	if !ok {
		return false
	}
	back.Samples = make([]int16, samples*2)
	a.out.MarkReady(false)
	return true
}
