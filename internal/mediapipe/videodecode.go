package mediapipe

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
)

// videoDecoder reads packets from the video packet queue and produces
// decoded frames into inVideoBuffer, mirroring hacktv's
// _video_decode_thread. It owns the video CodecContext for the
// lifetime of the pipeline.
type videoDecoder struct {
	codecCtx *astiav.CodecContext
	queue    *PacketQueue[*Packet]
	out      *FrameDoubleBuffer[*astiav.Frame]
}

func openVideoDecoder(stream *astiav.Stream, threads int, queue *PacketQueue[*Packet], out *FrameDoubleBuffer[*astiav.Frame]) (*videoDecoder, error) {
	par := stream.CodecParameters()
	dec := astiav.FindDecoder(par.CodecID())
	if dec == nil {
		return nil, NewStageError("videodecode", CategoryStartup, errors.New("no decoder for video codec"))
	}

	ctx := astiav.AllocCodecContext(dec)
	if ctx == nil {
		return nil, NewStageError("videodecode", CategoryStartup, errors.New("AllocCodecContext failed"))
	}
	if err := par.ToCodecContext(ctx); err != nil {
		ctx.Free()
		return nil, NewStageError("videodecode", CategoryStartup, fmt.Errorf("ToCodecContext: %w", err))
	}
	if threads > 0 {
		ctx.SetThreadCount(threads)
	}
	if err := ctx.Open(dec, nil); err != nil {
		ctx.Free()
		return nil, NewStageError("videodecode", CategoryStartup, fmt.Errorf("Open: %w", err))
	}

	return &videoDecoder{codecCtx: ctx, queue: queue, out: out}, nil
}

func (v *videoDecoder) close() {
	v.codecCtx.Free()
}

// run drains the packet queue, decodes frames, and publishes each one
// to the in-video double buffer until the queue is aborted or
// exhausted at EOF. A packet that SendPacket rejects with "again" is
// retained and resubmitted on the next iteration rather than freed,
// mirroring ffmpeg.c's _video_decode_thread, which only clears its
// ppkt once SendPacket's return is not EAGAIN.
func (v *videoDecoder) run() {
	defer v.out.Abort()

	var pkt *Packet
	eof := false

	for {
		var rawPkt *astiav.Packet
		switch {
		case pkt != nil:
			rawPkt = pkt.Raw()
		case eof:
			// rawPkt stays nil, which flushes the decoder.
		default:
			p, err := v.queue.Pop()
			switch {
			case err == nil:
				pkt = p
				rawPkt = p.Raw()
			case errors.Is(err, ErrAborted):
				return
			default:
				eof = true
			}
		}

		sendErr := v.codecCtx.SendPacket(rawPkt)
		if sendErr == nil || !errors.Is(sendErr, astiav.ErrEagain) {
			if pkt != nil {
				pkt.Free()
				pkt = nil
			}
		}

		for {
			frame := astiav.AllocFrame()
			recvErr := v.codecCtx.ReceiveFrame(frame)
			if recvErr != nil {
				frame.Free()
				if errors.Is(recvErr, astiav.ErrEagain) {
					break
				}
				return
			}

			back, ok := v.out.BackBuffer()
			if !ok {
				frame.Free()
				return
			}
			back.Unref()
			_ = back.Ref(frame)
			frame.Free()
			v.out.MarkReady(false)
		}

		if sendErr != nil && !errors.Is(sendErr, astiav.ErrEagain) {
			return
		}
		if eof && pkt == nil && rawPkt == nil {
			// EOF reached, flush packet accepted, decoder drained.
			return
		}
	}
}
