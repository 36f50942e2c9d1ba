package mediapipe

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
)

// audioDecoder reads packets from the audio packet queue and produces
// decoded frames into inAudioBuffer. Structurally identical to
// videoDecoder — hacktv's own source carries a TODO noting the two
// decode threads are virtually the same function, and that mirrors
// here rather than hiding it behind a shared abstraction neither
// stage actually needs.
type audioDecoder struct {
	codecCtx *astiav.CodecContext
	queue    *PacketQueue[*Packet]
	out      *FrameDoubleBuffer[*astiav.Frame]
}

func openAudioDecoder(stream *astiav.Stream, queue *PacketQueue[*Packet], out *FrameDoubleBuffer[*astiav.Frame]) (*audioDecoder, error) {
	par := stream.CodecParameters()
	dec := astiav.FindDecoder(par.CodecID())
	if dec == nil {
		return nil, NewStageError("audiodecode", CategoryStartup, errors.New("no decoder for audio codec"))
	}

	ctx := astiav.AllocCodecContext(dec)
	if ctx == nil {
		return nil, NewStageError("audiodecode", CategoryStartup, errors.New("AllocCodecContext failed"))
	}
	if err := par.ToCodecContext(ctx); err != nil {
		ctx.Free()
		return nil, NewStageError("audiodecode", CategoryStartup, fmt.Errorf("ToCodecContext: %w", err))
	}
	if err := ctx.Open(dec, nil); err != nil {
		ctx.Free()
		return nil, NewStageError("audiodecode", CategoryStartup, fmt.Errorf("Open: %w", err))
	}

	return &audioDecoder{codecCtx: ctx, queue: queue, out: out}, nil
}

func (a *audioDecoder) close() {
	a.codecCtx.Free()
}

// run drains the packet queue, decodes frames, and publishes each one
// to the in-audio double buffer. A packet that SendPacket rejects with
// "again" is retained and resubmitted next iteration instead of being
// freed — see videoDecoder.run, which this mirrors exactly.
func (a *audioDecoder) run() {
	defer a.out.Abort()

	var pkt *Packet
	eof := false

	for {
		var rawPkt *astiav.Packet
		switch {
		case pkt != nil:
			rawPkt = pkt.Raw()
		case eof:
		default:
			p, err := a.queue.Pop()
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

		sendErr := a.codecCtx.SendPacket(rawPkt)
		if sendErr == nil || !errors.Is(sendErr, astiav.ErrEagain) {
			if pkt != nil {
				pkt.Free()
				pkt = nil
			}
		}

		for {
			frame := astiav.AllocFrame()
			recvErr := a.codecCtx.ReceiveFrame(frame)
			if recvErr != nil {
				frame.Free()
				if errors.Is(recvErr, astiav.ErrEagain) {
					break
				}
				return
			}

			back, ok := a.out.BackBuffer()
			if !ok {
				frame.Free()
				return
			}
			back.Unref()
			_ = back.Ref(frame)
			frame.Free()
			a.out.MarkReady(false)
		}

		if sendErr != nil && !errors.Is(sendErr, astiav.ErrEagain) {
			return
		}
		if eof && pkt == nil && rawPkt == nil {
			return
		}
	}
}
