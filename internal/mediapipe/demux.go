package mediapipe

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/asticode/go-astiav"
)

// demuxer owns the input FormatContext and feeds the video/audio
// packet queues, decoding subtitle packets inline the way hacktv's
// input thread does — subtitles never get their own packet queue
// since they're consumed immediately rather than pipelined.
type demuxer struct {
	formatCtx *astiav.FormatContext

	videoStream *astiav.Stream
	audioStream *astiav.Stream
	subStream   *astiav.Stream

	subCodecCtx *astiav.CodecContext

	videoQueue *PacketQueue[*Packet]
	audioQueue *PacketQueue[*Packet]

	subtitles *SubtitleStore
	cfg       Config

	abort chan struct{}
}

func openDemuxer(url string, cfg Config, subtitles *SubtitleStore) (*demuxer, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, NewStageError("demux", CategoryStartup, errors.New("AllocFormatContext failed"))
	}

	opts := astiav.NewDictionary()
	defer opts.Free()

	if err := fc.OpenInput(url, nil, opts); err != nil {
		fc.Free()
		return nil, NewStageError("demux", CategoryStartup, fmt.Errorf("OpenInput: %w", err))
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.Free()
		return nil, NewStageError("demux", CategoryStartup, fmt.Errorf("FindStreamInfo: %w", err))
	}

	d := &demuxer{
		formatCtx:  fc,
		videoQueue: NewPacketQueue[*Packet](),
		audioQueue: NewPacketQueue[*Packet](),
		subtitles:  subtitles,
		cfg:        cfg,
		abort:      make(chan struct{}),
	}

	for _, s := range fc.Streams() {
		switch s.CodecParameters().MediaType() {
		case astiav.MediaTypeVideo:
			if d.videoStream == nil {
				d.videoStream = s
			}
		case astiav.MediaTypeAudio:
			if d.audioStream == nil && cfg.Audio {
				d.audioStream = s
			}
		case astiav.MediaTypeSubtitle:
			if d.subStream == nil && (cfg.Subtitles || cfg.TxSubtitles) {
				d.subStream = s
			}
		}
	}

	if d.videoStream == nil {
		d.close()
		return nil, NewStageError("demux", CategoryStartup, errors.New("no video stream found"))
	}

	if d.subStream != nil {
		par := d.subStream.CodecParameters()
		dec := astiav.FindDecoder(par.CodecID())
		if dec != nil {
			ctx := astiav.AllocCodecContext(dec)
			if ctx != nil && par.ToCodecContext(ctx) == nil && ctx.Open(dec, nil) == nil {
				d.subCodecCtx = ctx
			}
		}
	}

	return d, nil
}

func (d *demuxer) close() {
	if d.subCodecCtx != nil {
		d.subCodecCtx.Free()
	}
	if d.formatCtx != nil {
		d.formatCtx.Free()
	}
}

func (d *demuxer) abortQueues() {
	d.videoQueue.Abort()
	d.audioQueue.Abort()
}

// run reads packets until EOF or abort, handing video/audio packets
// to their queues and decoding subtitle packets inline, mirroring
// hacktv's _input_thread.
func (d *demuxer) run() {
	pkt := astiav.AllocPacket()
	defer pkt.Free()

	for {
		select {
		case <-d.abort:
			d.videoQueue.Abort()
			d.audioQueue.Abort()
			return
		default:
		}

		err := d.formatCtx.ReadFrame(pkt)
		if errors.Is(err, astiav.ErrEagain) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err != nil {
			break
		}

		switch {
		case d.videoStream != nil && pkt.StreamIndex() == d.videoStream.Index():
			if owned, err := cloneOwnedPacket(pkt); err == nil {
				p := NewPacket(owned)
				if err := d.videoQueue.Push(p); err != nil {
					p.Free()
				}
			}
		case d.audioStream != nil && pkt.StreamIndex() == d.audioStream.Index():
			if owned, err := cloneOwnedPacket(pkt); err == nil {
				p := NewPacket(owned)
				if err := d.audioQueue.Push(p); err != nil {
					p.Free()
				}
			}
		case d.subStream != nil && pkt.StreamIndex() == d.subStream.Index():
			d.decodeSubtitlePacket(pkt)
		}

		pkt.Unref()
	}

	d.videoQueue.PushEOF()
	d.audioQueue.PushEOF()
}

// cloneOwnedPacket allocates a fresh packet that refs pkt's data, so
// the queue can hold onto it past the demuxer's next ReadFrame/Unref
// cycle on the shared scratch packet.
func cloneOwnedPacket(pkt *astiav.Packet) (*astiav.Packet, error) {
	owned := astiav.AllocPacket()
	if err := owned.Ref(pkt); err != nil {
		owned.Free()
		return nil, err
	}
	return owned, nil
}

func (d *demuxer) decodeSubtitlePacket(pkt *astiav.Packet) {
	if d.subCodecCtx == nil {
		return
	}
	sub, err := d.subCodecCtx.DecodeSubtitle(pkt)
	if err != nil {
		log.Printf("[subtitle] decode failed: %v", err)
		return
	}
	if sub == nil {
		return
	}
	defer sub.Free()

	// Cues are stored in the video output time base the scaler looks
	// them up in: the packet PTS is in the subtitle stream's time base,
	// the display times are milliseconds relative to it.
	tb := d.subStream.TimeBase()
	outNum, outDen := d.cfg.FrameRateDen, d.cfg.videoTimeBaseDenominator()
	start := rescalePTS(pkt.Pts(), tb.Num(), tb.Den(), outNum, outDen) +
		rescalePTS(int64(sub.StartDisplayTime()), 1, 1000, outNum, outDen)
	duration := rescalePTS(int64(sub.EndDisplayTime()-sub.StartDisplayTime()), 1, 1000, outNum, outDen)

	if sub.IsText() {
		d.subtitles.LoadText(start, duration, sub.Text())
		return
	}

	rects := make([]SubtitleRect, 0, sub.NumRects())
	for _, r := range sub.Rects() {
		rects = append(rects, SubtitleRect{
			Width:   r.Width(),
			Height:  r.Height(),
			Indices: r.Indices(),
			Palette: r.Palette(),
		})
	}
	d.subtitles.LoadBitmap(rects, d.cfg.ActiveWidth, start, duration)
}
