package mediapipe

import (
	"image"
	"sync"
	"time"

	"github.com/asticode/go-astiav"
)

// Pipeline wires the five stages described in spec §4 — demux,
// packet queues, decode, frame double buffers, scale/resample — behind
// a single consumer-facing API, mirroring av_ffmpeg_open/_close's
// lifecycle in hacktv's ffmpeg.c.
type Pipeline struct {
	demux *demuxer

	video     *videoDecoder
	videoScal *videoScaler
	videoOut  *FrameDoubleBuffer[*scaledFrame]

	audio    *audioDecoder
	audioRes *audioResampler
	audioOut *FrameDoubleBuffer[*resampledAudio]

	videoClock *Clock
	audioClock *Clock

	cfg Config

	wg sync.WaitGroup
}

// spawn runs fn in its own goroutine, tracked by p.wg so Close can
// join every stage thread before freeing the astiav resources they use.
func (p *Pipeline) spawn(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn()
	}()
}

// Open starts every stage's goroutine and returns once decoders are
// ready to produce frames. url is anything astiav's FormatContext can
// open: a file path, an rtsp:// URL, or a demuxer-recognised device.
func Open(url string, cfg Config, logo image.Image) (*Pipeline, error) {
	subtitles := NewSubtitleStore()

	d, err := openDemuxer(url, cfg, subtitles)
	if err != nil {
		return nil, err
	}

	videoTB := d.videoStream.TimeBase()
	seekVideoTicks := rescalePTS(int64(cfg.Position)*60, 1, 1, cfg.FrameRateDen, cfg.videoTimeBaseDenominator())

	p := &Pipeline{
		demux:      d,
		videoOut:   NewFrameDoubleBuffer(&scaledFrame{}, &scaledFrame{}),
		videoClock: NewClock(seekVideoTicks),
		cfg:        cfg,
	}

	videoDecBuf := NewFrameDoubleBuffer(astiav.AllocFrame(), astiav.AllocFrame())
	vd, err := openVideoDecoder(d.videoStream, 0, d.videoQueue, videoDecBuf)
	if err != nil {
		d.close()
		return nil, err
	}
	p.video = vd
	p.videoScal = newVideoScaler(videoDecBuf, p.videoOut, cfg, p.videoClock, subtitles, logo, time.Now())

	if cfg.Audio && d.audioStream != nil {
		audioTB := d.audioStream.TimeBase()
		seekAudioTicks := rescalePTS(int64(cfg.Position)*60, 1, 1, 1, OutputSampleRate)

		p.audioOut = NewFrameDoubleBuffer(&resampledAudio{}, &resampledAudio{})
		p.audioClock = NewClock(seekAudioTicks)

		audioDecBuf := NewFrameDoubleBuffer(astiav.AllocFrame(), astiav.AllocFrame())
		ad, err := openAudioDecoder(d.audioStream, d.audioQueue, audioDecBuf)
		if err != nil {
			vd.close()
			d.close()
			return nil, err
		}
		p.audio = ad
		p.audioRes = newAudioResampler(audioDecBuf, p.audioOut, cfg, p.audioClock)

		p.spawn(p.audio.run)
		p.spawn(func() { p.audioRes.run(audioTB.Num(), audioTB.Den()) })
	}

	p.spawn(p.demux.run)
	p.spawn(p.video.run)
	p.spawn(func() { p.videoScal.run(videoTB.Num(), videoTB.Den()) })

	return p, nil
}

// ReadVideo blocks until the next composited BGRA frame is ready, or
// returns ErrEOF once the video stage has shut down.
func (p *Pipeline) ReadVideo() (*scaledFrame, error) {
	f, ok := p.videoOut.Flip()
	if !ok {
		return nil, ErrEOF
	}
	return f, nil
}

// ReadAudio blocks until the next PCM block is ready, or returns
// ErrEOF once the audio stage has shut down. Returns (nil, nil) when
// the pipeline was opened with audio disabled or no audio stream was
// found.
func (p *Pipeline) ReadAudio() (*resampledAudio, error) {
	if p.audioOut == nil {
		return nil, nil
	}
	a, ok := p.audioOut.Flip()
	if !ok {
		return nil, ErrEOF
	}
	return a, nil
}

// Close aborts every stage, joins its goroutine, and only then
// releases its astiav resources. Safe to call once.
//
// Aborting the packet queues unblocks the demuxer and any decoder
// waiting in Pop; aborting the two decoder-to-scaler frame buffers
// unblocks a decoder waiting for its scaler, and aborting the two
// consumer-facing buffers unblocks the scale/resample stages. A single
// Wait after signalling every abort therefore guarantees no stage
// goroutine is still mid-call on a context Close is about to free.
func (p *Pipeline) Close() {
	p.demux.abortQueues()
	close(p.demux.abort)

	p.videoScal.in.Abort()
	p.videoOut.Abort()
	if p.audioRes != nil {
		p.audioRes.in.Abort()
	}
	if p.audioOut != nil {
		p.audioOut.Abort()
	}

	p.wg.Wait()

	p.videoScal.close()
	p.video.close()
	if p.audioRes != nil {
		p.audioRes.close()
	}
	if p.audio != nil {
		p.audio.close()
	}
	p.demux.close()
}
